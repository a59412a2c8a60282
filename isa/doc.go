// Package isa describes the CPU8 instruction set: the register file,
// operand classification, and the opcode encoding table.
//
// The encoding table itself is data, not code. It lives in the
// embedded opcodes.star file as (opcode, pattern) rows and is
// evaluated once at construction time; the pattern grammar mirrors
// the hardware opcode map (mov-dst-src, ldi-r-[byte], push-r, ...).
package isa
