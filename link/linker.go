package link

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/draklowell/Cpu8/obj"
	"github.com/draklowell/Cpu8/rom"
)

// Options control section placement and the produced ROM image.
type Options struct {
	RomBase     uint32
	RomSize     uint32
	RomFill     uint8
	TextAlign   uint32
	RoDataAlign uint32
	BssBase     uint32
	Entry       string
}

// DefaultOptions is the standard 16 KiB ROM configuration.
func DefaultOptions() Options {
	return Options{
		RomBase:     0x0000,
		RomSize:     16 * 1024,
		RomFill:     0xFF,
		TextAlign:   1,
		RoDataAlign: 1,
		BssBase:     0x4000,
		Entry:       "main",
	}
}

// Image is the result of a link: the flat ROM plus the final layout
// and the resolved global symbols sorted by address.
type Image struct {
	TextBase   uint32
	TextSize   uint32
	RoDataBase uint32
	RoDataSize uint32
	BssBase    uint32
	BssSize    uint32
	ROM        []byte
	Symbols    []obj.Symbol
}

// Link merges the objects, resolves all relocations, composes the ROM
// image, and validates the entry symbol.
func Link(objects []*obj.File, opt Options) (*Image, error) {
	if len(objects) == 0 {
		return nil, ErrNoObjects
	}

	plan, err := Plan(objects, opt.RomBase, opt.TextAlign, opt.RoDataAlign, opt.BssBase)
	if err != nil {
		return nil, err
	}

	text, rodata, err := MergeBytes(objects, plan)
	if err != nil {
		return nil, err
	}

	gsym, err := BuildGlobalSymtab(objects, plan)
	if err != nil {
		return nil, err
	}
	if err := ApplyRelocs(objects, plan, gsym, text, rodata); err != nil {
		return nil, err
	}

	image := &Image{
		TextBase:   plan.Layout.TextBase,
		TextSize:   plan.Layout.TextSize,
		RoDataBase: plan.Layout.RoDataBase,
		RoDataSize: plan.Layout.RoDataSize,
		BssBase:    plan.Layout.BssBase,
		BssSize:    plan.Layout.BssSize,
	}

	image.ROM, err = rom.MakeFlatROM(text, rodata, opt.RomSize, opt.RomFill)
	if err != nil {
		return nil, err
	}

	image.Symbols = make([]obj.Symbol, 0, len(gsym))
	for name, sym := range gsym {
		image.Symbols = append(image.Symbols, obj.Symbol{
			Name:         name,
			SectionIndex: sym.SectionIndex,
			Value:        sym.Addr,
			Bind:         sym.Bind,
		})
	}
	sort.Slice(image.Symbols, func(i, j int) bool {
		if image.Symbols[i].Value != image.Symbols[j].Value {
			return image.Symbols[i].Value < image.Symbols[j].Value
		}
		return image.Symbols[i].Name < image.Symbols[j].Name
	})

	entry, ok := gsym[opt.Entry]
	if !ok || entry.SectionIndex < 0 {
		return nil, ErrEntryUndefined(opt.Entry)
	}
	if entry.SectionIndex != obj.SecText && entry.SectionIndex != obj.SecRoData {
		return nil, ErrEntryNotROM(opt.Entry)
	}
	romMin := uint64(opt.RomBase)
	romMax := romMin + uint64(len(image.ROM))
	if uint64(entry.Addr) < romMin || uint64(entry.Addr) >= romMax {
		return nil, ErrEntryOutsideROM(opt.Entry)
	}

	return image, nil
}

// WriteMap writes the human-readable layout and symbol listing.
func WriteMap(w io.Writer, image *Image) error {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "ROM layout:\n")
	fmt.Fprintf(&buf, ".text base=0x%04X size=%d\n", image.TextBase, image.TextSize)
	fmt.Fprintf(&buf, ".rodata base=0x%04X size=%d\n", image.RoDataBase, image.RoDataSize)
	fmt.Fprintf(&buf, "RAM layout:\n")
	fmt.Fprintf(&buf, ".bss base=0x%04X size=%d\n", image.BssBase, image.BssSize)
	fmt.Fprintf(&buf, "Symbols:\n")
	for _, sym := range image.Symbols {
		fmt.Fprintf(&buf, "0x%04X %s %s\n", sym.Value, obj.BindName(sym.Bind), sym.Name)
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// WriteMapFile writes the map to path in one shot, so a failing link
// step never leaves a partial map behind.
func WriteMapFile(path string, image *Image) error {
	var buf bytes.Buffer
	if err := WriteMap(&buf, image); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
