package asm

import (
	"os"

	"github.com/draklowell/Cpu8/isa"
	"github.com/draklowell/Cpu8/obj"
)

// Assembler is the two-pass CPU8 assembler: pass 1 lays out sections
// and the symbol table, pass 2 emits bytes and relocations.
type Assembler struct {
	Table *isa.Table

	parser *Parser
}

// New builds an assembler around the given encoding table; nil means
// the process-wide default.
func New(table *isa.Table) *Assembler {
	if table == nil {
		table = isa.Default()
	}
	return &Assembler{Table: table, parser: NewParser(table)}
}

// AssembleText assembles one already-preprocessed translation unit
// into a relocatable object. file seeds diagnostic locations.
func (a *Assembler) AssembleText(text, file string) (*obj.File, error) {
	lines, err := a.parser.ParseText(text, file)
	if err != nil {
		return nil, err
	}
	return a.AssembleLines(lines)
}

// AssembleLines runs both passes over parsed lines.
func (a *Assembler) AssembleLines(lines []Line) (*obj.File, error) {
	st, scratch, err := a.pass1(lines)
	if err != nil {
		return nil, err
	}
	return a.pass2(lines, st, scratch)
}

// AssembleFile reads and assembles the unit at path.
func (a *Assembler) AssembleFile(path string) (*obj.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return a.AssembleText(string(data), path)
}
