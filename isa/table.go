package isa

import (
	_ "embed"
	"regexp"
	"strings"
	"sync"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

//go:embed opcodes.star
var opcodesStar string

// OpcodeSpecs is the encoding of one instruction form: the opcode
// byte, the total instruction size in bytes, the operand signature,
// and the byte offset of the immediate payload after the opcode.
type OpcodeSpecs struct {
	Opcode     uint8
	Size       uint8
	Signature  []OperandType
	NeedsReloc bool
	ImmOffset  uint8
}

type key struct {
	mnemonic  string
	signature string
}

func sigString(sig []OperandType) string {
	raw := make([]byte, len(sig))
	for i, op := range sig {
		raw[i] = byte(op)
	}
	return string(raw)
}

// implicitRegMnemonics are the operations encoded with one opcode per
// register: the assembler composes the lookup key "<mnemonic>-<reg>".
var implicitRegMnemonics = map[string]bool{
	"push": true,
	"pop":  true,
	"add":  true,
	"sub":  true,
	"nand": true,
	"xor":  true,
	"nor":  true,
	"adc":  true,
	"sbb":  true,
	"inc":  true,
	"dec":  true,
	"icc":  true,
	"dcb":  true,
	"not":  true,
	"cmp":  true,
	"ldx":  true,
	"stx":  true,
}

// IsImplicitReg reports whether the lowercased mnemonic belongs to the
// implicit-register family.
func IsImplicitReg(mnemonic string) bool {
	return implicitRegMnemonics[mnemonic]
}

// ImplicitKey composes the table key for an implicit-register form.
func ImplicitKey(mnemonic string, r Reg) string {
	return mnemonic + "-" + r.String()
}

// Table is the CPU8 encoding table. It is immutable once built; build
// one with NewTable or share the process-wide Default.
type Table struct {
	entries   map[key]OpcodeSpecs
	mnemonics map[string]bool

	mov     [NumRegs][NumRegs]uint8
	movOK   [NumRegs][NumRegs]bool
	ldi8    [NumRegs]uint8
	ldi8OK  [NumRegs]bool
	ldi16   [NumRegs]uint8
	ldi16OK [NumRegs]bool
	ld16    [NumRegs]uint8
	ld16OK  [NumRegs]bool
	st16    [NumRegs]uint8
	st16OK  [NumRegs]bool
}

var (
	movPattern = regexp.MustCompile(`^mov-([a-z]+)-([a-z]+)$`)
	ldiPattern = regexp.MustCompile(`^ldi-([a-z]+)-\[(byte|word)\]$`)
	ldPattern  = regexp.MustCompile(`^ld-([a-z]+)-\[word\]$`)
	stPattern  = regexp.MustCompile(`^st-\[word\]-([a-z]+)$`)
)

// NewTable evaluates the embedded opcodes.star data file and builds
// the lookup structures from its rows.
func NewTable() (*Table, error) {
	t := &Table{
		entries:   make(map[key]OpcodeSpecs),
		mnemonics: make(map[string]bool),
	}

	thread := &starlark.Thread{Name: "cpu8-opcodes"}
	globals, err := starlark.ExecFileOptions(&syntax.FileOptions{}, thread,
		"opcodes.star", opcodesStar, nil)
	if err != nil {
		return nil, err
	}

	value, ok := globals["table"]
	if !ok {
		return nil, ErrTableData
	}
	list, ok := value.(*starlark.List)
	if !ok {
		return nil, ErrTableData
	}

	for i := 0; i < list.Len(); i++ {
		row, ok := list.Index(i).(starlark.Tuple)
		if !ok || row.Len() != 2 {
			return nil, ErrTableData
		}
		opcode, err := starlark.AsInt32(row.Index(0))
		if err != nil {
			return nil, ErrTableData
		}
		if opcode < 0 || opcode > 0xFF {
			return nil, ErrOpcodeRange(opcode)
		}
		pattern, ok := starlark.AsString(row.Index(1))
		if !ok {
			return nil, ErrTableData
		}
		if err := t.addPattern(uint8(opcode), pattern); err != nil {
			return nil, err
		}
	}

	return t, nil
}

var defaultTable = sync.OnceValue(func() *Table {
	t, err := NewTable()
	if err != nil {
		panic("isa: " + err.Error())
	}
	return t
})

// Default returns the process-wide table built from the embedded data
// file. The embedded data is trusted; a malformed file panics here.
func Default() *Table {
	return defaultTable()
}

// addSimple records an entry under (mnemonic, signature), keeping the
// first registration when register-dependent families insert their
// representative form repeatedly.
func (t *Table) addSimple(mnemonic string, sig []OperandType, opcode, size uint8) {
	k := key{mnemonic: mnemonic, signature: sigString(sig)}
	if _, ok := t.entries[k]; ok {
		return
	}
	t.entries[k] = OpcodeSpecs{
		Opcode:    opcode,
		Size:      size,
		Signature: sig,
		ImmOffset: 1,
	}
}

func (t *Table) addPattern(opcode uint8, pattern string) error {
	if m := movPattern.FindStringSubmatch(pattern); m != nil {
		dst, src := ParseReg(m[1]), ParseReg(m[2])
		if dst == RegInvalid || src == RegInvalid {
			return ErrPattern(pattern)
		}
		t.mov[dst][src] = opcode
		t.movOK[dst][src] = true
		t.addSimple("mov", []OperandType{OpReg, OpReg}, opcode, 1)
		t.mnemonics["mov"] = true
		return nil
	}

	if m := ldiPattern.FindStringSubmatch(pattern); m != nil {
		r := ParseReg(m[1])
		if r == RegInvalid {
			return ErrPattern(pattern)
		}
		if m[2] == "byte" {
			t.ldi8[r] = opcode
			t.ldi8OK[r] = true
			t.addSimple("ldi", []OperandType{OpReg, OpImm8}, opcode, 2)
		} else {
			t.ldi16[r] = opcode
			t.ldi16OK[r] = true
			t.addSimple("ldi", []OperandType{OpReg, OpImm16}, opcode, 3)
		}
		t.mnemonics["ldi"] = true
		return nil
	}

	if m := ldPattern.FindStringSubmatch(pattern); m != nil {
		r := ParseReg(m[1])
		if r == RegInvalid {
			return ErrPattern(pattern)
		}
		t.ld16[r] = opcode
		t.ld16OK[r] = true
		t.addSimple("ld", []OperandType{OpReg, OpMemAbs16}, opcode, 3)
		t.mnemonics["ld"] = true
		return nil
	}

	if m := stPattern.FindStringSubmatch(pattern); m != nil {
		r := ParseReg(m[1])
		if r == RegInvalid {
			return ErrPattern(pattern)
		}
		t.st16[r] = opcode
		t.st16OK[r] = true
		t.addSimple("st", []OperandType{OpMemAbs16, OpReg}, opcode, 3)
		t.mnemonics["st"] = true
		return nil
	}

	if base, ok := strings.CutSuffix(pattern, "-[byte]"); ok {
		if base == "" || strings.ContainsAny(base, "-[]") {
			return ErrPattern(pattern)
		}
		t.addSimple(base, []OperandType{OpImm8}, opcode, 2)
		t.mnemonics[base] = true
		return nil
	}

	if base, ok := strings.CutSuffix(pattern, "-[word]"); ok {
		if base == "" || strings.ContainsAny(base, "-[]") {
			return ErrPattern(pattern)
		}
		t.addSimple(base, []OperandType{OpImm16}, opcode, 3)
		t.mnemonics[base] = true
		return nil
	}

	if idx := strings.LastIndexByte(pattern, '-'); idx > 0 {
		base, regName := pattern[:idx], pattern[idx+1:]
		if !implicitRegMnemonics[base] || ParseReg(regName) == RegInvalid {
			return ErrPattern(pattern)
		}
		t.addSimple(pattern, nil, opcode, 1)
		t.mnemonics[base] = true
		return nil
	}

	if pattern == "" || strings.ContainsAny(pattern, "-[]") {
		return ErrPattern(pattern)
	}
	t.addSimple(pattern, nil, opcode, 1)
	t.mnemonics[pattern] = true
	return nil
}

// Find looks up the entry for an exact (mnemonic, signature) pair.
func (t *Table) Find(mnemonic string, sig []OperandType) (OpcodeSpecs, bool) {
	specs, ok := t.entries[key{mnemonic: mnemonic, signature: sigString(sig)}]
	return specs, ok
}

// HasMnemonic reports whether any instruction form exists for the
// lowercased mnemonic, regardless of operands.
func (t *Table) HasMnemonic(mnemonic string) bool {
	return t.mnemonics[mnemonic]
}

func regIndexOK(r Reg) bool {
	return r >= 0 && int(r) < NumRegs
}

// MovOpcode returns the opcode for "mov dst, src".
func (t *Table) MovOpcode(dst, src Reg) (uint8, bool) {
	if !regIndexOK(dst) || !regIndexOK(src) || !t.movOK[dst][src] {
		return 0, false
	}
	return t.mov[dst][src], true
}

// LdiImm8Opcode returns the opcode for "ldi r, imm8".
func (t *Table) LdiImm8Opcode(r Reg) (uint8, bool) {
	if !regIndexOK(r) || !t.ldi8OK[r] {
		return 0, false
	}
	return t.ldi8[r], true
}

// LdiImm16Opcode returns the opcode for "ldi r, imm16".
func (t *Table) LdiImm16Opcode(r Reg) (uint8, bool) {
	if !regIndexOK(r) || !t.ldi16OK[r] {
		return 0, false
	}
	return t.ldi16[r], true
}

// LdAbs16Opcode returns the opcode for "ld r, [addr]".
func (t *Table) LdAbs16Opcode(r Reg) (uint8, bool) {
	if !regIndexOK(r) || !t.ld16OK[r] {
		return 0, false
	}
	return t.ld16[r], true
}

// StAbs16Opcode returns the opcode for "st [addr], r".
func (t *Table) StAbs16Opcode(r Reg) (uint8, bool) {
	if !regIndexOK(r) || !t.st16OK[r] {
		return 0, false
	}
	return t.st16[r], true
}

// AllowedImmediates reports which immediate widths some form of the
// mnemonic accepts at the given operand position.
func (t *Table) AllowedImmediates(mnemonic string, position int) (imm8, imm16 bool) {
	for k, specs := range t.entries {
		if k.mnemonic != mnemonic || position >= len(specs.Signature) {
			continue
		}
		switch specs.Signature[position] {
		case OpImm8:
			imm8 = true
		case OpImm16:
			imm16 = true
		}
	}
	return imm8, imm16
}
