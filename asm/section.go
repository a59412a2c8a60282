package asm

// SectionType names the section a piece of the translation unit lands
// in. The first four values match their object-file section indices.
type SectionType int

//go:generate go tool stringer -linecomment -type=SectionType
const (
	SecText   SectionType = iota // .text
	SecData                      // .data
	SecBss                       // .bss
	SecRoData                    // .rodata
	SecNone                      // none
)

// Index returns the object-file section index, or -1 for SecNone.
func (s SectionType) Index() int {
	if s >= SecText && s <= SecRoData {
		return int(s)
	}
	return -1
}

// SymbolBinding is the linkage visibility of a symbol.
type SymbolBinding uint8

//go:generate go tool stringer -linecomment -type=SymbolBinding
const (
	BindLocal  SymbolBinding = iota // LOCAL
	BindGlobal                      // GLOBAL
	BindWeak                        // WEAK
)
