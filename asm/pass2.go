package asm

import (
	"slices"
	"strings"

	"github.com/draklowell/Cpu8/isa"
	"github.com/draklowell/Cpu8/obj"
	"github.com/draklowell/Cpu8/source"
)

// pendingReloc is an ABS16 relocation recorded before symbol indices
// are known.
type pendingReloc struct {
	sectionIndex uint8
	offset       uint32
	symbol       string
	at           source.Loc
}

// appendBE16 appends a machine word in big-endian order: machine words
// in section payloads are always high byte first.
func appendBE16(buf []byte, v uint16) []byte {
	return append(buf, byte(v>>8), byte(v))
}

// sectionBase is the provisional absolute base used while assembling a
// single unit: text at zero, rodata and data following it, bss in RAM.
func sectionBase(st *Pass1State, sec SectionType) uint32 {
	switch sec {
	case SecText:
		return 0
	case SecRoData:
		return st.LCText
	case SecData:
		return st.LCText + st.LCRoData
	case SecBss:
		return RAMBase
	}
	return 0
}

type symbolResolution struct {
	value      uint16
	needsReloc bool
}

// resolveSymbol computes a symbol's provisional absolute address. An
// undefined global resolves to zero with a relocation; a defined
// symbol resolves to its layout address and still relocates, so the
// linker can rebase the unit. Undefined locals are errors.
func resolveSymbol(st *Pass1State, name string, at source.Loc) (symbolResolution, error) {
	sym, ok := st.Symbols.Find(name)
	if !ok {
		return symbolResolution{}, source.Wrap(at, ErrUndefinedSymbol(name))
	}

	if !sym.Defined {
		if sym.Bind == BindLocal {
			return symbolResolution{}, source.Wrap(at, ErrUndefinedSymbol(name))
		}
		return symbolResolution{value: 0, needsReloc: true}, nil
	}

	absolute := uint64(sectionBase(st, sym.Section)) + uint64(sym.Value)
	if absolute > 0xFFFF {
		return symbolResolution{}, source.Wrap(at, ErrSymbolRange(name))
	}
	return symbolResolution{
		value:      uint16(absolute),
		needsReloc: sym.Section != SecNone,
	}, nil
}

// pass2 emits section bytes in stream order and produces the object
// file with its relocation list.
func (a *Assembler) pass2(lines []Line, st *Pass1State, scratch *Scratch) (*obj.File, error) {
	text := make([]byte, 0, st.LCText)
	var textRelocs []pendingReloc

	current := SecText
	itemCursor := 0

	for index, ln := range lines {
		switch v := ln.(type) {
		case *Label:
			continue

		case *Directive:
			switch normalizeDirective(v.Name) {
			case "text", "code":
				current = SecText
			case "data":
				current = SecData
			case "bss":
				current = SecBss
			case "rodata":
				current = SecRoData
			}
			if current != SecText {
				continue
			}
			if itemCursor >= len(scratch.Text.Items) ||
				scratch.Text.Items[itemCursor].Line != index {
				continue
			}
			item := &scratch.Text.Items[itemCursor]
			itemCursor++

			var err error
			text, textRelocs, err = emitTextItem(st, item, text, textRelocs)
			if err != nil {
				return nil, err
			}

		case *Instruction:
			if current != SecText {
				continue
			}
			var err error
			text, textRelocs, err = a.emitInstruction(v, st, text, textRelocs)
			if err != nil {
				return nil, err
			}
		}
	}

	if itemCursor != len(scratch.Text.Items) {
		return nil, ErrTextBookkeeping
	}
	if uint32(len(text)) != st.LCText {
		return nil, ErrTextSize
	}

	out, staged := emitStaged(scratch, st)
	out.Sections[obj.SecText].Data = text

	indexOf := make(map[string]uint16, len(out.Symbols))
	for i, sym := range out.Symbols {
		indexOf[sym.Name] = uint16(i)
	}

	for _, pending := range slices.Concat(staged, textRelocs) {
		symbolIndex, ok := indexOf[pending.symbol]
		if !ok {
			return nil, source.Wrap(pending.at, ErrUndefinedSymbol(pending.symbol))
		}
		if pending.offset > 0xFFFF {
			return nil, ErrRelocOffset
		}
		out.Relocs = append(out.Relocs, obj.Reloc{
			SectionIndex: pending.sectionIndex,
			Offset:       uint16(pending.offset),
			Type:         obj.RelocAbs16,
			SymbolIndex:  symbolIndex,
			Addend:       0,
		})
	}

	return out, nil
}

// emitTextItem emits a staged data payload inline into the text
// stream, resolving .word symbol references on the spot.
func emitTextItem(st *Pass1State, item *DataItem, text []byte,
	relocs []pendingReloc) ([]byte, []pendingReloc, error) {
	switch item.Kind {
	case DataBytes, DataAscii, DataAsciz:
		text = append(text, item.Bytes...)

	case DataWords:
		for _, word := range item.Words {
			offset := uint32(len(text))
			value := word.Value
			if word.Symbol != "" {
				resolved, err := resolveSymbol(st, word.Symbol, item.At)
				if err != nil {
					return nil, nil, err
				}
				value = resolved.value
				if resolved.needsReloc {
					relocs = append(relocs, pendingReloc{
						sectionIndex: obj.SecText,
						offset:       offset,
						symbol:       word.Symbol,
						at:           item.At,
					})
				}
			}
			text = appendBE16(text, value)
		}
	}

	return text, relocs, nil
}

func sigIs(sig []isa.OperandType, want ...isa.OperandType) bool {
	return slices.Equal(sig, want)
}

// pickOpcode selects the opcode byte, dispatching the
// register-dependent families through their register-indexed tables.
func (a *Assembler) pickOpcode(inst *Instruction, mnemonic string,
	sig []isa.OperandType, specs isa.OpcodeSpecs) (uint8, error) {
	var opcode uint8
	var ok bool

	switch {
	case mnemonic == "mov" && sigIs(sig, isa.OpReg, isa.OpReg):
		opcode, ok = a.Table.MovOpcode(inst.Args[0].Reg, inst.Args[1].Reg)
	case mnemonic == "ldi" && sigIs(sig, isa.OpReg, isa.OpImm8):
		opcode, ok = a.Table.LdiImm8Opcode(inst.Args[0].Reg)
	case mnemonic == "ldi" && sigIs(sig, isa.OpReg, isa.OpImm16):
		opcode, ok = a.Table.LdiImm16Opcode(inst.Args[0].Reg)
	case mnemonic == "ld" && sigIs(sig, isa.OpReg, isa.OpMemAbs16):
		opcode, ok = a.Table.LdAbs16Opcode(inst.Args[0].Reg)
	case mnemonic == "st" && sigIs(sig, isa.OpMemAbs16, isa.OpReg):
		opcode, ok = a.Table.StAbs16Opcode(inst.Args[1].Reg)
	default:
		return specs.Opcode, nil
	}

	if !ok {
		return 0, source.Wrap(inst.At, ErrInvalidOperands(inst.Mnemonic))
	}
	return opcode, nil
}

func (a *Assembler) emitInstruction(inst *Instruction, st *Pass1State, text []byte,
	relocs []pendingReloc) ([]byte, []pendingReloc, error) {
	mnemonic := strings.ToLower(inst.Mnemonic)

	if isa.IsImplicitReg(mnemonic) {
		if len(inst.Args) != 1 || inst.Args[0].Type != isa.OpReg {
			return nil, nil, source.Wrap(inst.At, ErrImplicitOperands(inst.Mnemonic))
		}
		specs, ok := a.Table.Find(isa.ImplicitKey(mnemonic, inst.Args[0].Reg), nil)
		if !ok {
			return nil, nil, source.Wrap(inst.At, ErrInvalidOperands(inst.Mnemonic))
		}
		return append(text, specs.Opcode), relocs, nil
	}

	sig := isa.Signature(inst.Args)
	specs, ok := a.Table.Find(mnemonic, sig)
	if !ok {
		if !a.Table.HasMnemonic(mnemonic) {
			return nil, nil, source.Wrap(inst.At, ErrUnknownInstruction(inst.Mnemonic))
		}
		return nil, nil, source.Wrap(inst.At, ErrInvalidOperands(inst.Mnemonic))
	}

	opcode, err := a.pickOpcode(inst, mnemonic, sig, specs)
	if err != nil {
		return nil, nil, err
	}

	start := len(text)
	text = append(text, opcode)

	for i := range inst.Args {
		arg := &inst.Args[i]
		switch arg.Type {
		case isa.OpReg, isa.OpNone:
			// encoded in the opcode byte

		case isa.OpImm8:
			text = append(text, byte(arg.Value))

		case isa.OpImm16:
			text = appendBE16(text, arg.Value)

		case isa.OpLabel:
			offset := uint32(len(text))
			resolved, err := resolveSymbol(st, arg.Label, inst.At)
			if err != nil {
				return nil, nil, err
			}
			if resolved.needsReloc {
				relocs = append(relocs, pendingReloc{
					sectionIndex: obj.SecText,
					offset:       offset,
					symbol:       arg.Label,
					at:           inst.At,
				})
			}
			text = appendBE16(text, resolved.value)

		case isa.OpMemAbs16:
			if arg.Label == "" {
				text = appendBE16(text, arg.Value)
				continue
			}
			offset := uint32(len(text))
			resolved, err := resolveSymbol(st, arg.Label, inst.At)
			if err != nil {
				return nil, nil, err
			}
			if resolved.needsReloc {
				relocs = append(relocs, pendingReloc{
					sectionIndex: obj.SecText,
					offset:       offset,
					symbol:       arg.Label,
					at:           inst.At,
				})
			}
			text = appendBE16(text, resolved.value)
		}
	}

	if len(text)-start != int(specs.Size) {
		return nil, nil, ErrSizeMismatch
	}
	return text, relocs, nil
}

// emitStaged builds the object skeleton: section descriptors, the
// concatenated .data and .rodata payloads with their pending
// relocations, and the alphabetical symbol table.
func emitStaged(scratch *Scratch, st *Pass1State) (*obj.File, []pendingReloc) {
	out := &obj.File{Sections: make([]obj.Section, obj.NumSections)}
	out.Sections[obj.SecText] = obj.Section{
		Name:  ".text",
		Flags: obj.FlagExec | obj.FlagRead,
		Align: 1,
	}
	out.Sections[obj.SecData] = obj.Section{
		Name:  ".data",
		Flags: obj.FlagRead | obj.FlagWrite,
		Align: 1,
	}
	out.Sections[obj.SecBss] = obj.Section{
		Name:    ".bss",
		Flags:   obj.FlagRead | obj.FlagWrite,
		Align:   1,
		BssSize: scratch.Bss.LC,
	}
	out.Sections[obj.SecRoData] = obj.Section{
		Name:  ".rodata",
		Flags: obj.FlagRead,
		Align: 1,
	}

	var pending []pendingReloc
	emit := func(buf *SectionBuffer, desc *obj.Section, sectionIndex uint8) {
		for _, item := range buf.Items {
			switch item.Kind {
			case DataBytes, DataAscii, DataAsciz:
				desc.Data = append(desc.Data, item.Bytes...)
			case DataWords:
				for _, word := range item.Words {
					if word.Symbol == "" {
						desc.Data = appendBE16(desc.Data, word.Value)
						continue
					}
					pending = append(pending, pendingReloc{
						sectionIndex: sectionIndex,
						offset:       uint32(len(desc.Data)),
						symbol:       word.Symbol,
						at:           item.At,
					})
					desc.Data = append(desc.Data, 0, 0)
				}
			}
		}
	}
	emit(&scratch.Data, &out.Sections[obj.SecData], obj.SecData)
	emit(&scratch.RoData, &out.Sections[obj.SecRoData], obj.SecRoData)

	for _, sym := range st.Symbols.All() {
		value := sym.Value
		if !sym.Defined {
			value = 0
		}
		out.Symbols = append(out.Symbols, obj.Symbol{
			Name:         sym.Name,
			SectionIndex: int16(sym.Section.Index()),
			Value:        value,
			Bind:         uint8(sym.Bind),
		})
	}

	return out, pending
}
