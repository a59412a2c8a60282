package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSymbolTableDeclare(t *testing.T) {
	assert := assert.New(t)

	table := NewSymbolTable()

	sym := table.Declare("counter")
	assert.Equal("counter", sym.Name)
	assert.Equal(SecNone, sym.Section)
	assert.Equal(BindLocal, sym.Bind)
	assert.False(sym.Defined)

	// Declaring again returns the same entry.
	sym.Bind = BindGlobal
	again := table.Declare("counter")
	assert.Equal(BindGlobal, again.Bind)
}

func TestSymbolTableDefine(t *testing.T) {
	assert := assert.New(t)

	table := NewSymbolTable()

	sym, err := table.Define("main", SecText, 0x10, BindGlobal)
	assert.NoError(err)
	assert.True(sym.Defined)
	assert.Equal(uint32(0x10), sym.Value)

	_, err = table.Define("main", SecText, 0x20, BindLocal)
	var redefined ErrRedefined
	assert.ErrorAs(err, &redefined)

	// Defining completes an earlier declaration in place.
	table.Declare("later").Bind = BindGlobal
	defined, err := table.Define("later", SecRoData, 4, BindGlobal)
	assert.NoError(err)
	assert.Equal(SecRoData, defined.Section)

	found, ok := table.Find("later")
	assert.True(ok)
	assert.True(found.Defined)
	_, ok = table.Find("missing")
	assert.False(ok)
}

func TestSymbolTableAllSorted(t *testing.T) {
	assert := assert.New(t)

	table := NewSymbolTable()
	for _, name := range []string{"zeta", "alpha", "Mid"} {
		table.Declare(name)
	}

	all := table.All()
	names := make([]string, len(all))
	for i, sym := range all {
		names[i] = sym.Name
	}
	// Case-sensitive ascending order.
	assert.Equal([]string{"Mid", "alpha", "zeta"}, names)
}
