package isa

import (
	"strings"
)

// Reg identifies a CPU8 register.
type Reg int

//go:generate go tool stringer -linecomment -type=Reg
const (
	// 8-bit registers
	AC Reg = iota // ac
	XH            // xh
	YL            // yl
	YH            // yh
	ZL            // zl
	ZH            // zh
	FR            // fr
	// 16-bit registers
	SP // sp
	PC // pc
	// 16-bit pair views
	X // x
	Y // y
	Z // z

	RegInvalid // invalid
)

// NumRegs is the count of addressable registers, excluding RegInvalid.
const NumRegs = int(RegInvalid)

// ParseReg maps a register token to its Reg. Matching is
// case-insensitive; an unknown name yields RegInvalid.
func ParseReg(name string) Reg {
	switch strings.ToLower(name) {
	case "ac":
		return AC
	case "xh":
		return XH
	case "yl":
		return YL
	case "yh":
		return YH
	case "zl":
		return ZL
	case "zh":
		return ZH
	case "fr":
		return FR
	case "sp":
		return SP
	case "pc":
		return PC
	case "x":
		return X
	case "y":
		return Y
	case "z":
		return Z
	}
	return RegInvalid
}

// Is8Bit reports whether r is one of the 8-bit registers.
func (r Reg) Is8Bit() bool {
	return r >= AC && r <= FR
}

// Is16Bit reports whether r is a 16-bit register or pair view.
func (r Reg) Is16Bit() bool {
	return r >= SP && r <= Z
}
