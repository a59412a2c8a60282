// Package asm implements the CPU8 two-pass assembler.
//
// The lexer honors `# N "path"` line markers left by an upstream
// preprocessor, so diagnostics point at the original source. The
// parser classifies each line as a label, directive, or instruction
// and narrows immediate operands against the encoding table. Pass 1
// computes section layouts and label addresses; pass 2 re-walks the
// lines, emits .text in source order (data directives that appeared
// inside .text are emitted inline), fills the staged sections, and
// produces a relocatable object file.
package asm
