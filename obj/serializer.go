package obj

import (
	"bytes"
	"io"
	"os"
)

const (
	// magic spells C(PU) 8(bit) O(bject) 1(version family).
	magic          = "C8O1"
	currentVersion = 1
)

// leWriter emits the container's little-endian integers. It is kept
// strictly separate from the big-endian machine-word emitters in the
// assembler and linker.
type leWriter struct {
	w   io.Writer
	err error
}

func (lw *leWriter) bytes(p []byte) {
	if lw.err != nil {
		return
	}
	_, lw.err = lw.w.Write(p)
}

func (lw *leWriter) u8(v uint8)   { lw.bytes([]byte{v}) }
func (lw *leWriter) u16(v uint16) { lw.bytes([]byte{byte(v), byte(v >> 8)}) }
func (lw *leWriter) u32(v uint32) {
	lw.bytes([]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)})
}
func (lw *leWriter) i16(v int16) { lw.u16(uint16(v)) }
func (lw *leWriter) i32(v int32) { lw.u32(uint32(v)) }

type leReader struct {
	r   io.Reader
	err error
}

func (lr *leReader) bytes(p []byte) {
	if lr.err != nil {
		return
	}
	if _, err := io.ReadFull(lr.r, p); err != nil {
		lr.err = ErrTruncated
	}
}

func (lr *leReader) u8() uint8 {
	var buf [1]byte
	lr.bytes(buf[:])
	return buf[0]
}

func (lr *leReader) u16() uint16 {
	var buf [2]byte
	lr.bytes(buf[:])
	return uint16(buf[0]) | uint16(buf[1])<<8
}

func (lr *leReader) u32() uint32 {
	var buf [4]byte
	lr.bytes(buf[:])
	return uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
}

func (lr *leReader) i16() int16 { return int16(lr.u16()) }
func (lr *leReader) i32() int32 { return int32(lr.u32()) }

// Write serializes file into the C8O1 container format.
func Write(w io.Writer, file *File) error {
	if len(file.Sections) != NumSections {
		return ErrSectionCount
	}
	if len(file.Symbols) > 0xFFFF || len(file.Relocs) > 0xFFFF {
		return ErrTooLarge
	}

	lw := &leWriter{w: w}
	lw.bytes([]byte(magic))
	lw.u16(currentVersion)
	lw.u16(uint16(len(file.Sections)))
	lw.u16(uint16(len(file.Symbols)))
	lw.u16(uint16(len(file.Relocs)))

	for i := range file.Sections {
		section := &file.Sections[i]
		if i == SecBss && len(section.Data) != 0 {
			return ErrBssHasData
		}
		if uint64(len(section.Data)) > 0xFFFFFFFF {
			return ErrTooLarge
		}

		lw.u8(uint8(i))
		lw.u8(section.Flags)
		lw.u32(uint32(len(section.Data)))
		lw.u32(section.BssSize)
		lw.bytes(section.Data)
	}

	for i := range file.Symbols {
		symbol := &file.Symbols[i]
		if len(symbol.Name) > 0xFFFF {
			return ErrTooLarge
		}
		lw.u16(uint16(len(symbol.Name)))
		lw.bytes([]byte(symbol.Name))
		lw.i16(symbol.SectionIndex)
		lw.u32(symbol.Value)
		lw.u8(symbol.Bind)
	}

	for i := range file.Relocs {
		reloc := &file.Relocs[i]
		lw.u8(reloc.SectionIndex)
		lw.u16(reloc.Offset)
		lw.u8(uint8(reloc.Type))
		lw.u16(reloc.SymbolIndex)
		lw.i32(int32(reloc.Addend))
	}

	return lw.err
}

// Read deserializes a C8O1 container.
func Read(r io.Reader) (*File, error) {
	lr := &leReader{r: r}

	var header [4]byte
	lr.bytes(header[:])
	if lr.err != nil {
		return nil, lr.err
	}
	if string(header[:]) != magic {
		return nil, ErrMagic
	}

	version := lr.u16()
	if lr.err != nil {
		return nil, lr.err
	}
	if version != currentVersion {
		return nil, ErrVersion(version)
	}

	sectionCount := lr.u16()
	symbolCount := lr.u16()
	relocCount := lr.u16()
	if lr.err != nil {
		return nil, lr.err
	}
	if int(sectionCount) != NumSections {
		return nil, ErrSectionCount
	}

	file := &File{Sections: make([]Section, 0, sectionCount)}

	for i := 0; i < int(sectionCount); i++ {
		index := lr.u8()
		if lr.err != nil {
			return nil, lr.err
		}
		if int(index) != i {
			return nil, ErrSectionOrder
		}

		section := Section{Name: SectionName(i), Align: 1}
		section.Flags = lr.u8()
		dataSize := lr.u32()
		section.BssSize = lr.u32()
		if lr.err != nil {
			return nil, lr.err
		}

		if i == SecBss {
			if dataSize != 0 {
				return nil, ErrBssHasData
			}
		} else if dataSize > 0 {
			section.Data = make([]byte, dataSize)
			lr.bytes(section.Data)
			if lr.err != nil {
				return nil, lr.err
			}
		}

		file.Sections = append(file.Sections, section)
	}

	file.Symbols = make([]Symbol, 0, symbolCount)
	for i := 0; i < int(symbolCount); i++ {
		nameLen := lr.u16()
		if lr.err != nil {
			return nil, lr.err
		}
		name := make([]byte, nameLen)
		lr.bytes(name)

		symbol := Symbol{Name: string(name)}
		symbol.SectionIndex = lr.i16()
		symbol.Value = lr.u32()
		symbol.Bind = lr.u8()
		if lr.err != nil {
			return nil, lr.err
		}
		file.Symbols = append(file.Symbols, symbol)
	}

	file.Relocs = make([]Reloc, 0, relocCount)
	for i := 0; i < int(relocCount); i++ {
		var reloc Reloc
		reloc.SectionIndex = lr.u8()
		reloc.Offset = lr.u16()
		rawType := lr.u8()
		reloc.SymbolIndex = lr.u16()
		addend := lr.i32()
		if lr.err != nil {
			return nil, lr.err
		}

		if RelocType(rawType) != RelocAbs16 {
			return nil, ErrRelocTypeValue(rawType)
		}
		reloc.Type = RelocType(rawType)

		if addend < -0x8000 || addend > 0x7FFF {
			return nil, ErrAddendRange(addend)
		}
		reloc.Addend = int16(addend)

		file.Relocs = append(file.Relocs, reloc)
	}

	return file, nil
}

// WriteFile serializes file to path. The container is built in memory
// first so a failing write never leaves a partial object behind.
func WriteFile(path string, file *File) error {
	var buf bytes.Buffer
	if err := Write(&buf, file); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// ReadFile deserializes the object at path.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Read(bytes.NewReader(data))
}
