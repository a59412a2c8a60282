package asm

import (
	"strconv"
	"strings"

	"github.com/draklowell/Cpu8/isa"
	"github.com/draklowell/Cpu8/source"
)

// Line is one parsed source line: a label, a directive, or an
// instruction. The union is closed; consumers dispatch with a type
// switch.
type Line interface {
	Loc() source.Loc
	parsedLine()
}

// Label is a "name:" definition. Only a directive may follow it on the
// same source line.
type Label struct {
	Name string
	At   source.Loc
}

func (l *Label) Loc() source.Loc { return l.At }
func (*Label) parsedLine()       {}

// Directive is a ".name arg, arg" line. Arguments are kept as strings:
// numbers are normalized to decimal, identifiers and quoted literals
// pass through verbatim.
type Directive struct {
	Name string
	Args []string
	At   source.Loc
}

func (d *Directive) Loc() source.Loc { return d.At }
func (*Directive) parsedLine()       {}

// Instruction is a mnemonic with decoded arguments.
type Instruction struct {
	Mnemonic string
	Args     []isa.Argument
	At       source.Loc
}

func (in *Instruction) Loc() source.Loc { return in.At }
func (*Instruction) parsedLine()        {}

// Parser turns a token stream into parsed lines. The encoding table is
// consulted to narrow immediate operands to their allowed width.
type Parser struct {
	Table *isa.Table
}

// NewParser builds a parser around the given encoding table; nil means
// the process-wide default.
func NewParser(table *isa.Table) *Parser {
	if table == nil {
		table = isa.Default()
	}
	return &Parser{Table: table}
}

// ParseText lexes and parses a whole translation unit.
func (p *Parser) ParseText(text, file string) ([]Line, error) {
	tokens, err := Lex(text, file)
	if err != nil {
		return nil, err
	}
	return p.Parse(tokens)
}

// Parse splits the token stream on newlines and classifies each line.
func (p *Parser) Parse(tokens []Token) ([]Line, error) {
	var lines []Line

	index := 0
	for index < len(tokens) {
		tok := tokens[index]
		if tok.Kind == TokEOF {
			break
		}
		if tok.Kind == TokNewLine {
			index++
			continue
		}

		start := index
		for index < len(tokens) && tokens[index].Kind != TokNewLine &&
			tokens[index].Kind != TokEOF {
			index++
		}
		lineTokens := tokens[start:index]
		if index < len(tokens) && tokens[index].Kind == TokNewLine {
			index++
		}
		if len(lineTokens) == 0 {
			continue
		}

		// A label may share its line with a directive ("v: .word 1"); the
		// two become separate parsed lines.
		if len(lineTokens) > 2 && lineTokens[0].Kind == TokIdent &&
			lineTokens[1].Kind == TokColon && lineTokens[2].Kind == TokDot {
			lines = append(lines, &Label{Name: lineTokens[0].Text, At: lineTokens[0].Loc})
			lineTokens = lineTokens[2:]
		}

		line, err := p.parseLine(lineTokens)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	return lines, nil
}

func (p *Parser) parseLine(lineTokens []Token) (Line, error) {
	first := lineTokens[0]

	switch first.Kind {
	case TokIdent:
		if len(lineTokens) >= 2 && lineTokens[1].Kind == TokColon {
			if len(lineTokens) != 2 {
				return nil, source.Wrap(lineTokens[2].Loc, ErrLabelTrailing)
			}
			return &Label{Name: first.Text, At: first.Loc}, nil
		}
		return p.parseInstruction(lineTokens)

	case TokDot:
		return parseDirective(lineTokens)

	default:
		return nil, source.Wrap(first.Loc, ErrLineStart)
	}
}

func (p *Parser) parseInstruction(lineTokens []Token) (Line, error) {
	inst := &Instruction{Mnemonic: lineTokens[0].Text, At: lineTokens[0].Loc}

	index := 1
	needComma := false
	for index < len(lineTokens) {
		current := lineTokens[index]
		if current.Kind == TokComma {
			if !needComma {
				return nil, source.Wrap(current.Loc, ErrCommaUnexpected)
			}
			needComma = false
			index++
			continue
		}
		if needComma {
			return nil, source.Wrap(current.Loc, ErrCommaMissing)
		}

		arg, err := parseArgument(lineTokens, &index)
		if err != nil {
			return nil, err
		}
		inst.Args = append(inst.Args, arg)

		consumed := lineTokens[index-1]
		if err := p.adjustImmediate(inst, len(inst.Args)-1, consumed.Loc); err != nil {
			return nil, err
		}
		needComma = true
	}
	if len(inst.Args) != 0 && !needComma {
		last := lineTokens[len(lineTokens)-1]
		return nil, source.Wrap(last.Loc, ErrCommaTrailing)
	}

	return inst, nil
}

func parseDirective(lineTokens []Token) (Line, error) {
	if len(lineTokens) < 2 || lineTokens[1].Kind != TokIdent {
		return nil, source.Wrap(lineTokens[0].Loc, ErrDirectiveName)
	}
	dir := &Directive{Name: lineTokens[1].Text, At: lineTokens[0].Loc}

	index := 2
	expectComma := false
	for index < len(lineTokens) {
		current := lineTokens[index]
		if current.Kind == TokComma {
			if !expectComma {
				return nil, source.Wrap(current.Loc, ErrCommaUnexpected)
			}
			expectComma = false
			index++
			continue
		}
		if expectComma {
			return nil, source.Wrap(current.Loc, ErrCommaMissing)
		}

		switch current.Kind {
		case TokNumber:
			value, err := parseNumber(current)
			if err != nil {
				return nil, err
			}
			dir.Args = append(dir.Args, strconv.FormatUint(value, 10))
		case TokIdent, TokString:
			dir.Args = append(dir.Args, current.Text)
		default:
			return nil, source.Wrap(current.Loc, ErrDirectiveToken)
		}
		index++
		expectComma = true
	}
	if len(dir.Args) != 0 && !expectComma {
		last := lineTokens[len(lineTokens)-1]
		return nil, source.Wrap(last.Loc, ErrCommaTrailing)
	}

	return dir, nil
}

// parseNumber decodes a decimal, 0x-hex, or 0b-binary literal token.
func parseNumber(tok Token) (uint64, error) {
	text := tok.Text
	if text == "" {
		return 0, source.Wrap(tok.Loc, ErrNumber(text))
	}

	base := 10
	digits := text
	if len(text) > 2 && text[0] == '0' && (text[1] == 'x' || text[1] == 'X') {
		base = 16
		digits = text[2:]
	} else if len(text) > 2 && text[0] == '0' && (text[1] == 'b' || text[1] == 'B') {
		base = 2
		digits = text[2:]
	} else if len(text) == 2 && text[0] == '0' && (text[1] == 'x' || text[1] == 'X' ||
		text[1] == 'b' || text[1] == 'B') {
		return 0, source.Wrap(tok.Loc, ErrNumber(text))
	}

	var value uint64
	for k := 0; k < len(digits); k++ {
		digit := -1
		switch ch := digits[k]; {
		case ch >= '0' && ch <= '9':
			digit = int(ch - '0')
		case base == 16 && ch >= 'a' && ch <= 'f':
			digit = int(ch-'a') + 10
		case base == 16 && ch >= 'A' && ch <= 'F':
			digit = int(ch-'A') + 10
		}
		if digit < 0 || digit >= base {
			return 0, source.Wrap(tok.Loc, ErrNumber(text))
		}
		value = value*uint64(base) + uint64(digit)
		if value > 0xFFFFFFFF {
			return 0, source.Wrap(tok.Loc, ErrNumber(text))
		}
	}
	return value, nil
}

func parseArgument(lineTokens []Token, index *int) (isa.Argument, error) {
	tok := lineTokens[*index]
	arg := isa.Argument{Reg: isa.RegInvalid}

	switch tok.Kind {
	case TokIdent:
		if reg := isa.ParseReg(tok.Text); reg != isa.RegInvalid {
			arg.Type = isa.OpReg
			arg.Reg = reg
			(*index)++
			return arg, nil
		}
		arg.Type = isa.OpLabel
		arg.Label = tok.Text
		(*index)++
		return arg, nil

	case TokNumber:
		value, err := parseNumber(tok)
		if err != nil {
			return arg, err
		}
		if value > 0xFFFF {
			return arg, source.Wrap(tok.Loc, ErrImmRange)
		}
		arg.Value = uint16(value)
		if value <= 0xFF {
			arg.Type = isa.OpImm8
		} else {
			arg.Type = isa.OpImm16
		}
		(*index)++
		return arg, nil

	case TokLBracket:
		startLoc := tok.Loc
		(*index)++
		if *index >= len(lineTokens) {
			return arg, source.Wrap(startLoc, ErrMemExpr)
		}

		inner := lineTokens[*index]
		switch inner.Kind {
		case TokNumber:
			value, err := parseNumber(inner)
			if err != nil {
				return arg, err
			}
			if value > 0xFFFF {
				return arg, source.Wrap(inner.Loc, ErrMemRange)
			}
			arg.Value = uint16(value)
			(*index)++
		case TokIdent:
			if isa.ParseReg(inner.Text) != isa.RegInvalid {
				return arg, source.Wrap(inner.Loc, ErrMemRegister)
			}
			arg.Label = inner.Text
			(*index)++
		default:
			return arg, source.Wrap(inner.Loc, ErrMemExpr)
		}

		if *index >= len(lineTokens) || lineTokens[*index].Kind != TokRBracket {
			return arg, source.Wrap(startLoc, ErrMemBracket)
		}
		(*index)++

		arg.Type = isa.OpMemAbs16
		return arg, nil
	}

	return arg, source.Wrap(tok.Loc, ErrArgToken)
}

// adjustImmediate narrows or widens a freshly parsed immediate to the
// width the encoding table allows at that operand position. When both
// widths exist, "ldi" narrows by destination register width and
// everything else narrows by value.
func (p *Parser) adjustImmediate(inst *Instruction, position int, loc source.Loc) error {
	arg := &inst.Args[position]
	if arg.Type != isa.OpImm8 && arg.Type != isa.OpImm16 {
		return nil
	}

	mnemonic := strings.ToLower(inst.Mnemonic)
	imm8, imm16 := p.Table.AllowedImmediates(mnemonic, position)
	if !imm8 && !imm16 {
		return nil
	}

	value := arg.Value

	if !imm16 {
		if value > 0xFF {
			return source.Wrap(loc, ErrImm8Operand{Value: value, Mnemonic: mnemonic})
		}
		arg.Type = isa.OpImm8
		return nil
	}

	if !imm8 {
		arg.Type = isa.OpImm16
		return nil
	}

	if mnemonic == "ldi" && position == 1 && len(inst.Args) > 0 &&
		inst.Args[0].Type == isa.OpReg {
		reg := inst.Args[0].Reg
		if reg.Is8Bit() {
			if value > 0xFF {
				return source.Wrap(loc, ErrImm8Register{Value: value, Reg: reg})
			}
			arg.Type = isa.OpImm8
			return nil
		}
		if reg.Is16Bit() {
			arg.Type = isa.OpImm16
			return nil
		}
	}

	if value <= 0xFF {
		arg.Type = isa.OpImm8
	} else {
		arg.Type = isa.OpImm16
	}
	return nil
}
