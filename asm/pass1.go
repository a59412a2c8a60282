package asm

import (
	"strings"

	"github.com/draklowell/Cpu8/isa"
	"github.com/draklowell/Cpu8/source"
)

// RAMBase is where .bss lands at run time.
const RAMBase = 0x4000

// DataKind discriminates staged directive payloads.
type DataKind int

const (
	DataBytes DataKind = iota
	DataWords
	DataAscii
	DataAsciz
)

// WordEntry is one .word element: either an immediate or a symbol
// reference to relocate. Symbol is empty for immediates.
type WordEntry struct {
	Value  uint16
	Symbol string
}

// DataItem is one directive payload recorded during pass 1. Line is
// the index of the producing parsed line; pass 2 uses it to put
// payloads that appeared inside .text back into stream order.
type DataItem struct {
	Kind  DataKind
	Bytes []byte
	Words []WordEntry
	Line  int
	At    source.Loc
}

// SectionBuffer stages the data items of one section together with its
// location counter.
type SectionBuffer struct {
	Items []DataItem
	LC    uint32
}

// Scratch holds the staging buffers for every section.
type Scratch struct {
	Text   SectionBuffer
	Data   SectionBuffer
	Bss    SectionBuffer
	RoData SectionBuffer
}

// Buffer selects the staging buffer for a section.
func (s *Scratch) Buffer(sec SectionType) *SectionBuffer {
	switch sec {
	case SecText:
		return &s.Text
	case SecData:
		return &s.Data
	case SecBss:
		return &s.Bss
	case SecRoData:
		return &s.RoData
	}
	panic("asm: no staging buffer for section " + sec.String())
}

// Pass1State is the layout state: current section, per-section
// location counters, and the symbol table.
type Pass1State struct {
	Current  SectionType
	LCText   uint32
	LCData   uint32
	LCBss    uint32
	LCRoData uint32
	Symbols  *SymbolTable
}

func (st *Pass1State) lc(sec SectionType) *uint32 {
	switch sec {
	case SecText:
		return &st.LCText
	case SecData:
		return &st.LCData
	case SecBss:
		return &st.LCBss
	case SecRoData:
		return &st.LCRoData
	}
	panic("asm: no location counter for section " + sec.String())
}

// pass1 computes the section layout: it sizes every instruction and
// directive payload, assigns label addresses, and stages data items
// for pass 2.
func (a *Assembler) pass1(lines []Line) (*Pass1State, *Scratch, error) {
	st := &Pass1State{Current: SecText, Symbols: NewSymbolTable()}
	scratch := &Scratch{}

	for index, ln := range lines {
		switch v := ln.(type) {
		case *Label:
			sym := st.Symbols.Declare(v.Name)
			if sym.Defined {
				return nil, nil, source.Wrap(v.At, ErrRedefined(v.Name))
			}
			sym.Section = st.Current
			sym.Value = *st.lc(st.Current)
			sym.Defined = true

		case *Directive:
			if err := a.directivePass1(v, index, st, scratch); err != nil {
				return nil, nil, err
			}

		case *Instruction:
			if st.Current != SecText {
				return nil, nil, source.Wrap(v.At, ErrInstructionSection)
			}
			size, err := a.instructionSize(v, st.Symbols)
			if err != nil {
				return nil, nil, err
			}
			st.LCText += uint32(size)
		}
	}

	scratch.Text.LC = st.LCText
	scratch.Data.LC = st.LCData
	scratch.Bss.LC = st.LCBss
	scratch.RoData.LC = st.LCRoData
	return st, scratch, nil
}

// instructionSize declares referenced labels and returns the encoded
// size of the instruction.
func (a *Assembler) instructionSize(inst *Instruction, symbols *SymbolTable) (uint8, error) {
	for _, arg := range inst.Args {
		if arg.Type == isa.OpLabel ||
			(arg.Type == isa.OpMemAbs16 && arg.Label != "") {
			symbols.Declare(arg.Label)
		}
	}

	mnemonic := strings.ToLower(inst.Mnemonic)

	if isa.IsImplicitReg(mnemonic) {
		if len(inst.Args) != 1 || inst.Args[0].Type != isa.OpReg {
			return 0, source.Wrap(inst.At, ErrImplicitOperands(inst.Mnemonic))
		}
		specs, ok := a.Table.Find(isa.ImplicitKey(mnemonic, inst.Args[0].Reg), nil)
		if !ok {
			return 0, source.Wrap(inst.At, ErrInvalidOperands(inst.Mnemonic))
		}
		return specs.Size, nil
	}

	specs, ok := a.Table.Find(mnemonic, isa.Signature(inst.Args))
	if !ok {
		if !a.Table.HasMnemonic(mnemonic) {
			return 0, source.Wrap(inst.At, ErrUnknownInstruction(inst.Mnemonic))
		}
		return 0, source.Wrap(inst.At, ErrInvalidOperands(inst.Mnemonic))
	}
	return specs.Size, nil
}
