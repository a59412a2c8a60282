package obj

import (
	"errors"

	"github.com/draklowell/Cpu8/translate"
)

var f = translate.From

var (
	ErrMagic        = errors.New(f("invalid object file magic"))
	ErrTruncated    = errors.New(f("unexpected end of object file"))
	ErrSectionCount = errors.New(f("unsupported section count in object file"))
	ErrSectionOrder = errors.New(f("section indices out of order in object file"))
	ErrBssHasData   = errors.New(f(".bss section must not contain data"))
	ErrTooLarge     = errors.New(f("object file component too large to serialize"))
)

type ErrVersion uint16

func (err ErrVersion) Error() string {
	return f("unsupported object file version %v", uint16(err))
}

type ErrRelocTypeValue uint8

func (err ErrRelocTypeValue) Error() string {
	return f("unsupported relocation type %v", uint8(err))
}

type ErrAddendRange int32

func (err ErrAddendRange) Error() string {
	return f("relocation addend %v is out of range", int32(err))
}
