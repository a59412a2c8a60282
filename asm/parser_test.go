package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/draklowell/Cpu8/isa"
)

func parseOne(t *testing.T, text string) Line {
	t.Helper()
	lines, err := NewParser(nil).ParseText(text, "test.s")
	assert.NoError(t, err)
	assert.Len(t, lines, 1)
	return lines[0]
}

func TestParseLabel(t *testing.T) {
	assert := assert.New(t)

	label, ok := parseOne(t, "main:\n").(*Label)
	assert.True(ok)
	assert.Equal("main", label.Name)

	_, err := NewParser(nil).ParseText("main: nop\n", "test.s")
	assert.ErrorIs(err, ErrLabelTrailing)
}

func TestParseInstructionArguments(t *testing.T) {
	assert := assert.New(t)

	inst, ok := parseOne(t, "mov xh, ac\n").(*Instruction)
	assert.True(ok)
	assert.Equal("mov", inst.Mnemonic)
	assert.Len(inst.Args, 2)
	assert.Equal(isa.OpReg, inst.Args[0].Type)
	assert.Equal(isa.XH, inst.Args[0].Reg)
	assert.Equal(isa.OpReg, inst.Args[1].Type)
	assert.Equal(isa.AC, inst.Args[1].Reg)

	inst, ok = parseOne(t, "jmp loop\n").(*Instruction)
	assert.True(ok)
	assert.Equal(isa.OpLabel, inst.Args[0].Type)
	assert.Equal("loop", inst.Args[0].Label)

	inst, ok = parseOne(t, "ld ac, [0x1234]\n").(*Instruction)
	assert.True(ok)
	assert.Equal(isa.OpMemAbs16, inst.Args[1].Type)
	assert.Equal(uint16(0x1234), inst.Args[1].Value)

	inst, ok = parseOne(t, "st [buffer], ac\n").(*Instruction)
	assert.True(ok)
	assert.Equal(isa.OpMemAbs16, inst.Args[0].Type)
	assert.Equal("buffer", inst.Args[0].Label)
}

func TestParseNumberBases(t *testing.T) {
	assert := assert.New(t)

	inst, _ := parseOne(t, "ldi ac, 123\n").(*Instruction)
	assert.Equal(uint16(123), inst.Args[1].Value)

	inst, _ = parseOne(t, "ldi ac, 0x1A\n").(*Instruction)
	assert.Equal(uint16(0x1A), inst.Args[1].Value)

	inst, _ = parseOne(t, "ldi ac, 0b101\n").(*Instruction)
	assert.Equal(uint16(5), inst.Args[1].Value)

	parser := NewParser(nil)
	_, err := parser.ParseText("ldi ac, 0x\n", "test.s")
	assert.Error(err)
	_, err = parser.ParseText("ldi ac, 12z\n", "test.s")
	assert.Error(err)
	_, err = parser.ParseText("jmp 0x10000\n", "test.s")
	assert.ErrorIs(err, ErrImmRange)
}

func TestParseImmediateNarrowing(t *testing.T) {
	assert := assert.New(t)

	// 8-bit destination keeps small values Imm8.
	inst, _ := parseOne(t, "ldi xh, 0xFF\n").(*Instruction)
	assert.Equal(isa.OpImm8, inst.Args[1].Type)

	// 16-bit destination widens even small values.
	inst, _ = parseOne(t, "ldi x, 0x12\n").(*Instruction)
	assert.Equal(isa.OpImm16, inst.Args[1].Type)

	// Imm16-only operands widen small values.
	inst, _ = parseOne(t, "jmp 5\n").(*Instruction)
	assert.Equal(isa.OpImm16, inst.Args[0].Type)

	// Imm8-only operands must fit.
	inst, _ = parseOne(t, "addi 5\n").(*Instruction)
	assert.Equal(isa.OpImm8, inst.Args[0].Type)

	parser := NewParser(nil)
	_, err := parser.ParseText("addi 0x100\n", "test.s")
	var operr ErrImm8Operand
	assert.ErrorAs(err, &operr)

	_, err = parser.ParseText("ldi ac, 0x1FF\n", "test.s")
	var regerr ErrImm8Register
	assert.ErrorAs(err, &regerr)
	assert.Equal(isa.AC, regerr.Reg)
}

func TestParseCommaDiscipline(t *testing.T) {
	assert := assert.New(t)
	parser := NewParser(nil)

	_, err := parser.ParseText("mov xh,, ac\n", "test.s")
	assert.ErrorIs(err, ErrCommaUnexpected)

	_, err = parser.ParseText("mov xh ac\n", "test.s")
	assert.ErrorIs(err, ErrCommaMissing)

	_, err = parser.ParseText("mov xh,\n", "test.s")
	assert.ErrorIs(err, ErrCommaTrailing)

	_, err = parser.ParseText("mov , xh\n", "test.s")
	assert.ErrorIs(err, ErrCommaUnexpected)
}

func TestParseMemoryReferenceErrors(t *testing.T) {
	assert := assert.New(t)
	parser := NewParser(nil)

	_, err := parser.ParseText("ld ac, [sp]\n", "test.s")
	assert.ErrorIs(err, ErrMemRegister)

	_, err = parser.ParseText("ld ac, [0x10000]\n", "test.s")
	assert.ErrorIs(err, ErrMemRange)

	_, err = parser.ParseText("ld ac, [msg\n", "test.s")
	assert.ErrorIs(err, ErrMemBracket)

	_, err = parser.ParseText("ld ac, [\n", "test.s")
	assert.ErrorIs(err, ErrMemExpr)
}

func TestParseDirective(t *testing.T) {
	assert := assert.New(t)

	dir, ok := parseOne(t, ".byte 1, 0x2, \"hi\"\n").(*Directive)
	assert.True(ok)
	assert.Equal("byte", dir.Name)
	assert.Equal([]string{"1", "2", `"hi"`}, dir.Args)

	dir, ok = parseOne(t, ".globl main, helper\n").(*Directive)
	assert.True(ok)
	assert.Equal("globl", dir.Name)
	assert.Equal([]string{"main", "helper"}, dir.Args)

	parser := NewParser(nil)
	_, err := parser.ParseText(".\n", "test.s")
	assert.ErrorIs(err, ErrDirectiveName)

	_, err = parser.ParseText(".byte 1,\n", "test.s")
	assert.ErrorIs(err, ErrCommaTrailing)
}

func TestParseLineStartErrors(t *testing.T) {
	assert := assert.New(t)
	parser := NewParser(nil)

	_, err := parser.ParseText(", nop\n", "test.s")
	assert.ErrorIs(err, ErrLineStart)

	_, err = parser.ParseText("123\n", "test.s")
	assert.ErrorIs(err, ErrLineStart)
}
