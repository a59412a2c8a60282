package link

import (
	"github.com/draklowell/Cpu8/obj"
)

// ResolvedSym is a symbol placed at its final absolute address.
// SectionIndex is obj.SecUndef while the symbol is only declared.
type ResolvedSym struct {
	SectionIndex int16
	Addr         uint32
	Bind         uint8
}

func sectionLogicalSize(object *obj.File, index int16) uint32 {
	if int(index) >= len(object.Sections) {
		return 0
	}
	if index == obj.SecBss {
		return object.Sections[index].BssSize
	}
	return uint32(len(object.Sections[index].Data))
}

// resolveDefined places one defined symbol at its absolute address
// using the merge plan.
func resolveDefined(object *obj.File, objectIndex int, symbol *obj.Symbol,
	plan *MergePlan) (ResolvedSym, error) {
	if symbol.SectionIndex < 0 {
		return ResolvedSym{SectionIndex: obj.SecUndef, Bind: symbol.Bind}, nil
	}

	if size := sectionLogicalSize(object, symbol.SectionIndex); symbol.Value > size {
		return ResolvedSym{}, ErrSymbolOffset{
			Name:    symbol.Name,
			Value:   symbol.Value,
			Section: obj.SectionName(int(symbol.SectionIndex)),
			Size:    size,
		}
	}

	var base uint64
	switch symbol.SectionIndex {
	case obj.SecText:
		base = uint64(plan.Layout.TextBase) + uint64(plan.TextOffsets[objectIndex])
	case obj.SecBss:
		base = uint64(plan.Layout.BssBase) + uint64(plan.BssOffsets[objectIndex])
	case obj.SecRoData:
		base = uint64(plan.Layout.RoDataBase) + uint64(plan.RoDataOffsets[objectIndex])
	case obj.SecData:
		return ResolvedSym{}, ErrDataNotSupported
	default:
		return ResolvedSym{}, ErrSymbolSection(symbol.Name)
	}

	absolute := base + uint64(symbol.Value)
	if absolute > 0xFFFFFFFF {
		return ResolvedSym{}, ErrSectionOverflow
	}

	return ResolvedSym{
		SectionIndex: symbol.SectionIndex,
		Addr:         uint32(absolute),
		Bind:         symbol.Bind,
	}, nil
}

// BuildGlobalSymtab merges the global symbols of all objects,
// enforcing the one-definition rule. Every surviving entry must end up
// defined.
func BuildGlobalSymtab(objects []*obj.File, plan *MergePlan) (map[string]ResolvedSym, error) {
	table := make(map[string]ResolvedSym)

	for objectIndex, object := range objects {
		for i := range object.Symbols {
			symbol := &object.Symbols[i]

			if symbol.SectionIndex >= 0 {
				resolved, err := resolveDefined(object, objectIndex, symbol, plan)
				if err != nil {
					return nil, err
				}
				if symbol.Bind == obj.BindLocal {
					continue
				}

				if existing, ok := table[symbol.Name]; ok {
					if existing.SectionIndex >= 0 {
						return nil, ErrMultipleDefinition(symbol.Name)
					}
				}
				table[symbol.Name] = resolved
			} else if symbol.Bind != obj.BindLocal {
				if _, ok := table[symbol.Name]; !ok {
					table[symbol.Name] = ResolvedSym{
						SectionIndex: obj.SecUndef,
						Bind:         symbol.Bind,
					}
				}
			}
		}
	}

	for name, sym := range table {
		if sym.SectionIndex < 0 {
			return nil, ErrUndefinedSymbol(name)
		}
	}

	return table, nil
}

// resolveForReloc resolves the symbol a relocation refers to: locally
// when the object defines it, from the global table otherwise.
func resolveForReloc(object *obj.File, objectIndex int, symbol *obj.Symbol,
	plan *MergePlan, gsym map[string]ResolvedSym) (ResolvedSym, error) {
	if symbol.SectionIndex >= 0 {
		return resolveDefined(object, objectIndex, symbol, plan)
	}

	resolved, ok := gsym[symbol.Name]
	if !ok || resolved.SectionIndex < 0 {
		return ResolvedSym{}, ErrUndefinedSymbol(symbol.Name)
	}
	return resolved, nil
}

// ApplyRelocs patches every ABS16 relocation into the merged .text and
// .rodata buffers.
func ApplyRelocs(objects []*obj.File, plan *MergePlan, gsym map[string]ResolvedSym,
	text, rodata []byte) error {
	for objectIndex, object := range objects {
		for _, reloc := range object.Relocs {
			if int(reloc.SymbolIndex) >= len(object.Symbols) {
				return ErrRelocSymbolIndex(reloc.SymbolIndex)
			}
			symbol := &object.Symbols[reloc.SymbolIndex]

			if reloc.SectionIndex != obj.SecText && reloc.SectionIndex != obj.SecRoData {
				return ErrRelocSection{Symbol: symbol.Name, Section: reloc.SectionIndex}
			}
			if reloc.Type != obj.RelocAbs16 {
				return ErrRelocType(symbol.Name)
			}

			resolved, err := resolveForReloc(object, objectIndex, symbol, plan, gsym)
			if err != nil {
				return err
			}

			target := text
			baseOffset := plan.TextOffsets[objectIndex]
			if reloc.SectionIndex == obj.SecRoData {
				target = rodata
				baseOffset = plan.RoDataOffsets[objectIndex]
			}

			patchOffset := uint64(baseOffset) + uint64(reloc.Offset)
			if patchOffset+1 >= uint64(len(target)) {
				return ErrRelocBounds(symbol.Name)
			}

			value := int64(resolved.Addr) + int64(reloc.Addend)
			if value < 0 || value > 0xFFFF {
				return ErrRelocRange(symbol.Name)
			}

			target[patchOffset] = byte(uint16(value) >> 8)
			target[patchOffset+1] = byte(uint16(value))
		}
	}

	return nil
}
