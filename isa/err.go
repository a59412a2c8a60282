package isa

import (
	"errors"

	"github.com/draklowell/Cpu8/translate"
)

var f = translate.From

var (
	ErrTableData = errors.New(f("opcode table data is malformed"))
)

type ErrPattern string

func (err ErrPattern) Error() string {
	return f("'%v' is not a valid opcode pattern", string(err))
}

type ErrOpcodeRange int

func (err ErrOpcodeRange) Error() string {
	return f("opcode %#x is out of byte range", int(err))
}
