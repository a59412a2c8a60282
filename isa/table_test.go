package isa

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableSimpleLookups(t *testing.T) {
	assert := assert.New(t)

	table := Default()

	specs, ok := table.Find("nop", nil)
	assert.True(ok)
	assert.Equal(uint8(0x00), specs.Opcode)
	assert.Equal(uint8(1), specs.Size)

	specs, ok = table.Find("hlt", nil)
	assert.True(ok)
	assert.Equal(uint8(0xDD), specs.Opcode)

	specs, ok = table.Find("jmp", []OperandType{OpImm16})
	assert.True(ok)
	assert.Equal(uint8(0x75), specs.Opcode)
	assert.Equal(uint8(3), specs.Size)

	specs, ok = table.Find("addi", []OperandType{OpImm8})
	assert.True(ok)
	assert.Equal(uint8(0x8B), specs.Opcode)
	assert.Equal(uint8(2), specs.Size)

	_, ok = table.Find("jmp", []OperandType{OpImm8})
	assert.False(ok)

	_, ok = table.Find("frobnicate", nil)
	assert.False(ok)
	assert.False(table.HasMnemonic("frobnicate"))
	assert.True(table.HasMnemonic("jmp"))
	assert.True(table.HasMnemonic("push"))
}

func TestTableRegisterFamilies(t *testing.T) {
	assert := assert.New(t)

	table := Default()

	opcode, ok := table.MovOpcode(XH, AC)
	assert.True(ok)
	assert.Equal(uint8(0x27), opcode)

	opcode, ok = table.MovOpcode(SP, Z)
	assert.True(ok)
	assert.Equal(uint8(0x51), opcode)

	_, ok = table.MovOpcode(AC, SP)
	assert.False(ok)
	_, ok = table.MovOpcode(AC, AC)
	assert.False(ok)

	opcode, ok = table.LdiImm8Opcode(XH)
	assert.True(ok)
	assert.Equal(uint8(0x05), opcode)

	opcode, ok = table.LdiImm16Opcode(X)
	assert.True(ok)
	assert.Equal(uint8(0x11), opcode)

	_, ok = table.LdiImm16Opcode(AC)
	assert.False(ok)

	opcode, ok = table.LdAbs16Opcode(AC)
	assert.True(ok)
	assert.Equal(uint8(0x04), opcode)

	opcode, ok = table.StAbs16Opcode(ZH)
	assert.True(ok)
	assert.Equal(uint8(0x21), opcode)

	// The main map carries the representative forms so layout can size
	// register-dependent instructions.
	specs, ok := table.Find("mov", []OperandType{OpReg, OpReg})
	assert.True(ok)
	assert.Equal(uint8(1), specs.Size)

	specs, ok = table.Find("ldi", []OperandType{OpReg, OpImm16})
	assert.True(ok)
	assert.Equal(uint8(3), specs.Size)

	specs, ok = table.Find("st", []OperandType{OpMemAbs16, OpReg})
	assert.True(ok)
	assert.Equal(uint8(3), specs.Size)
}

func TestTableImplicitFamily(t *testing.T) {
	assert := assert.New(t)

	table := Default()

	specs, ok := table.Find(ImplicitKey("push", AC), nil)
	assert.True(ok)
	assert.Equal(uint8(0x54), specs.Opcode)
	assert.Equal(uint8(1), specs.Size)

	specs, ok = table.Find(ImplicitKey("push", PC), nil)
	assert.True(ok)
	assert.Equal(uint8(0x5E), specs.Opcode)

	specs, ok = table.Find(ImplicitKey("cmp", AC), nil)
	assert.True(ok)
	assert.Equal(uint8(0xD4), specs.Opcode)

	// The hardware has no cmp zh or pop pc variants.
	_, ok = table.Find(ImplicitKey("cmp", ZH), nil)
	assert.False(ok)
	_, ok = table.Find(ImplicitKey("pop", PC), nil)
	assert.False(ok)

	assert.True(IsImplicitReg("push"))
	assert.True(IsImplicitReg("stx"))
	assert.False(IsImplicitReg("mov"))
	assert.False(IsImplicitReg("jmp"))
}

func TestTableAllowedImmediates(t *testing.T) {
	assert := assert.New(t)

	table := Default()

	imm8, imm16 := table.AllowedImmediates("ldi", 1)
	assert.True(imm8)
	assert.True(imm16)

	imm8, imm16 = table.AllowedImmediates("addi", 0)
	assert.True(imm8)
	assert.False(imm16)

	imm8, imm16 = table.AllowedImmediates("jmp", 0)
	assert.False(imm8)
	assert.True(imm16)

	imm8, imm16 = table.AllowedImmediates("nop", 0)
	assert.False(imm8)
	assert.False(imm16)
}

func TestNewTableMatchesDefault(t *testing.T) {
	assert := assert.New(t)

	table, err := NewTable()
	assert.NoError(err)

	want, ok := Default().Find("hlt", nil)
	assert.True(ok)
	got, ok := table.Find("hlt", nil)
	assert.True(ok)
	assert.Equal(want, got)
}
