package link

import (
	"errors"

	"github.com/draklowell/Cpu8/translate"
)

var f = translate.From

var (
	ErrDataNotSupported = errors.New(f("initialized .data sections are not supported"))
	ErrSectionOverflow  = errors.New(f("section size overflow"))
	ErrNoObjects        = errors.New(f("no object files to link"))
)

type ErrMultipleDefinition string

func (err ErrMultipleDefinition) Error() string {
	return f("multiple definition of symbol '%v'", string(err))
}

type ErrUndefinedSymbol string

func (err ErrUndefinedSymbol) Error() string {
	return f("undefined symbol '%v'", string(err))
}

type ErrSymbolSection string

func (err ErrSymbolSection) Error() string {
	return f("symbol '%v' is located in an unsupported section", string(err))
}

type ErrSymbolOffset struct {
	Name    string
	Value   uint32
	Section string
	Size    uint32
}

func (err ErrSymbolOffset) Error() string {
	return f("symbol '%v' offset 0x%X exceeds section %v size 0x%X",
		err.Name, err.Value, err.Section, err.Size)
}

type ErrRelocSymbolIndex uint16

func (err ErrRelocSymbolIndex) Error() string {
	return f("relocation references invalid symbol index %v", uint16(err))
}

type ErrRelocSection struct {
	Symbol  string
	Section uint8
}

func (err ErrRelocSection) Error() string {
	return f("relocation for symbol '%v' uses unsupported section index %v",
		err.Symbol, err.Section)
}

type ErrRelocType string

func (err ErrRelocType) Error() string {
	return f("unsupported relocation type for symbol '%v'", string(err))
}

type ErrRelocBounds string

func (err ErrRelocBounds) Error() string {
	return f("relocation for symbol '%v' writes outside section bounds", string(err))
}

type ErrRelocRange string

func (err ErrRelocRange) Error() string {
	return f("relocation result out of 16-bit range for symbol '%v'", string(err))
}

type ErrEntryUndefined string

func (err ErrEntryUndefined) Error() string {
	return f("entry symbol '%v' is undefined", string(err))
}

type ErrEntryNotROM string

func (err ErrEntryNotROM) Error() string {
	return f("entry symbol '%v' must reside in ROM (.text or .rodata)", string(err))
}

type ErrEntryOutsideROM string

func (err ErrEntryOutsideROM) Error() string {
	return f("entry symbol '%v' lies outside the generated ROM image", string(err))
}

type ErrConfigValue struct {
	Key   string
	Value int64
}

func (err ErrConfigValue) Error() string {
	return f("config value %v = %v is out of range", err.Key, err.Value)
}
