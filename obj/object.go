// Package obj models the CPU8 relocatable object file and its binary
// C8O1 container format.
//
// Container integers are little-endian. The 16-bit machine words
// inside section payloads are big-endian; they are produced by the
// assembler and patched by the linker, never interpreted here.
package obj

// Section flag bits.
const (
	FlagExec  = 0x01
	FlagWrite = 0x02
	FlagRead  = 0x04
)

// Fixed section indices. Every object carries exactly these four
// sections in this order.
const (
	SecText   = 0
	SecData   = 1
	SecBss    = 2
	SecRoData = 3

	NumSections = 4

	// SecUndef marks a symbol without a section.
	SecUndef = -1
)

var sectionNames = [NumSections]string{".text", ".data", ".bss", ".rodata"}

// SectionName returns the canonical name for a section index.
func SectionName(index int) string {
	if index < 0 || index >= NumSections {
		return "<invalid>"
	}
	return sectionNames[index]
}

// Section is one object-file section. Data is empty for .bss, whose
// run-time extent is BssSize instead.
type Section struct {
	Name    string
	Flags   uint8
	Align   uint8
	Data    []byte
	BssSize uint32
}

// Symbol binding values.
const (
	BindLocal  = 0
	BindGlobal = 1
	BindWeak   = 2
)

// BindName returns the display name of a binding value.
func BindName(bind uint8) string {
	switch bind {
	case BindLocal:
		return "LOCAL"
	case BindGlobal:
		return "GLOBAL"
	case BindWeak:
		return "WEAK"
	}
	return "UNKNOWN"
}

// Symbol is one symbol-table record. SectionIndex is SecUndef for
// undefined symbols; Value is the offset within the section.
type Symbol struct {
	Name         string
	SectionIndex int16
	Value        uint32
	Bind         uint8
}

// RelocType enumerates relocation kinds. ABS16 patches a big-endian
// 16-bit absolute address.
type RelocType uint8

const RelocAbs16 RelocType = 0

// Reloc is one relocation record against the symbol table.
type Reloc struct {
	SectionIndex uint8
	Offset       uint16
	Type         RelocType
	SymbolIndex  uint16
	Addend       int16
}

// File is a relocatable object: four sections, a name-sorted symbol
// table, and relocations referencing it.
type File struct {
	Sections []Section
	Symbols  []Symbol
	Relocs   []Reloc
}
