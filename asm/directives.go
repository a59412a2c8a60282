package asm

import (
	"strings"

	"github.com/draklowell/Cpu8/source"
)

// normalizeDirective lowercases a directive name and strips the
// leading dot.
func normalizeDirective(raw string) string {
	return strings.TrimPrefix(strings.ToLower(raw), ".")
}

func isStringLiteral(token string) bool {
	return len(token) >= 2 && token[0] == '"' && token[len(token)-1] == '"'
}

// validIdentifier reports whether text can name a symbol: a letter or
// underscore followed by letters, digits, underscores, or dots.
func validIdentifier(text string) bool {
	if text == "" || !isIdentStart(text[0]) {
		return false
	}
	for i := 1; i < len(text); i++ {
		if !isIdentChar(text[i]) {
			return false
		}
	}
	return true
}

// decodeStringLiteral strips the quotes and decodes the escape
// sequences \\ \" \n \t \r \0.
func decodeStringLiteral(token string, loc source.Loc) ([]byte, error) {
	if !isStringLiteral(token) {
		return nil, source.Wrap(loc, ErrStringLiteral)
	}

	decoded := make([]byte, 0, len(token))
	for i := 1; i+1 < len(token); i++ {
		ch := token[i]
		if ch != '\\' {
			decoded = append(decoded, ch)
			continue
		}
		if i+1 >= len(token)-1 {
			return nil, source.Wrap(loc, ErrEscapeTruncated)
		}
		i++
		switch esc := token[i]; esc {
		case '\\', '"':
			decoded = append(decoded, esc)
		case 'n':
			decoded = append(decoded, '\n')
		case 't':
			decoded = append(decoded, '\t')
		case 'r':
			decoded = append(decoded, '\r')
		case '0':
			decoded = append(decoded, 0)
		default:
			return nil, source.Wrap(loc, ErrBadEscape(token[i]))
		}
	}
	return decoded, nil
}

// parseDirectiveInt decodes an unsigned decimal, 0x-hex, or 0b-binary
// directive argument.
func parseDirectiveInt(text string) (uint64, bool) {
	if text == "" || text[0] == '+' || text[0] == '-' {
		return 0, false
	}

	base := uint64(10)
	digits := text
	if len(text) > 2 && text[0] == '0' && (text[1] == 'x' || text[1] == 'X') {
		base = 16
		digits = text[2:]
	} else if len(text) > 2 && text[0] == '0' && (text[1] == 'b' || text[1] == 'B') {
		base = 2
		digits = text[2:]
	}

	var value uint64
	for i := 0; i < len(digits); i++ {
		var digit uint64
		switch ch := digits[i]; {
		case ch >= '0' && ch <= '9':
			digit = uint64(ch - '0')
		case base == 16 && ch >= 'a' && ch <= 'f':
			digit = uint64(ch-'a') + 10
		case base == 16 && ch >= 'A' && ch <= 'F':
			digit = uint64(ch-'A') + 10
		default:
			return 0, false
		}
		if digit >= base {
			return 0, false
		}
		value = value*base + digit
	}
	return value, true
}

// directivePass1 consumes one directive during pass 1: it switches
// sections, adjusts symbol bindings, and stages data payloads.
func (a *Assembler) directivePass1(dir *Directive, lineIndex int, st *Pass1State,
	scratch *Scratch) error {
	name := normalizeDirective(dir.Name)

	switch name {
	case "text", "code":
		st.Current = SecText
		return nil
	case "data":
		st.Current = SecData
		return nil
	case "bss":
		st.Current = SecBss
		return nil
	case "rodata":
		st.Current = SecRoData
		return nil

	case "globl", "global":
		if len(dir.Args) == 0 {
			return source.Wrap(dir.At, ErrSymbolExpected(name))
		}
		for _, arg := range dir.Args {
			if !validIdentifier(arg) {
				return source.Wrap(dir.At, ErrSymbolName{Name: arg, Directive: name})
			}
			st.Symbols.Declare(arg).Bind = BindGlobal
		}
		return nil

	case "extern":
		if len(dir.Args) == 0 {
			return source.Wrap(dir.At, ErrSymbolExpected(name))
		}
		for _, arg := range dir.Args {
			if !validIdentifier(arg) {
				return source.Wrap(dir.At, ErrSymbolName{Name: arg, Directive: name})
			}
			sym := st.Symbols.Declare(arg)
			sym.Bind = BindGlobal
			sym.Defined = false
			sym.Section = SecNone
			sym.Value = 0
		}
		return nil

	case "byte", "word", "ascii", "asciz":
		if st.Current == SecBss {
			return source.Wrap(dir.At, ErrBssData(name))
		}
		return a.stageData(dir, name, lineIndex, st, scratch)
	}

	return source.Wrap(dir.At, ErrUnknownDirective(dir.Name))
}

func (a *Assembler) stageData(dir *Directive, name string, lineIndex int,
	st *Pass1State, scratch *Scratch) error {
	if len(dir.Args) == 0 {
		return source.Wrap(dir.At, ErrDirectiveEmpty(name))
	}

	item := DataItem{Line: lineIndex, At: dir.At}

	switch name {
	case "byte":
		item.Kind = DataBytes
		for _, arg := range dir.Args {
			if isStringLiteral(arg) {
				decoded, err := decodeStringLiteral(arg, dir.At)
				if err != nil {
					return err
				}
				item.Bytes = append(item.Bytes, decoded...)
				continue
			}
			value, ok := parseDirectiveInt(arg)
			if !ok {
				return source.Wrap(dir.At, ErrByteToken(arg))
			}
			if value > 0xFF {
				return source.Wrap(dir.At, ErrByteRange(value))
			}
			item.Bytes = append(item.Bytes, byte(value))
		}

	case "word":
		item.Kind = DataWords
		for _, arg := range dir.Args {
			if isStringLiteral(arg) {
				return source.Wrap(dir.At, ErrWordString)
			}
			if validIdentifier(arg) {
				st.Symbols.Declare(arg)
				item.Words = append(item.Words, WordEntry{Symbol: arg})
				continue
			}
			value, ok := parseDirectiveInt(arg)
			if !ok {
				return source.Wrap(dir.At, ErrWordToken(arg))
			}
			if value > 0xFFFF {
				return source.Wrap(dir.At, ErrWordRange(value))
			}
			item.Words = append(item.Words, WordEntry{Value: uint16(value)})
		}

	case "ascii", "asciz":
		item.Kind = DataAscii
		if name == "asciz" {
			item.Kind = DataAsciz
		}
		for _, arg := range dir.Args {
			if !isStringLiteral(arg) {
				return source.Wrap(dir.At, ErrStringExpected(name))
			}
			decoded, err := decodeStringLiteral(arg, dir.At)
			if err != nil {
				return err
			}
			item.Bytes = append(item.Bytes, decoded...)
		}
		if item.Kind == DataAsciz {
			item.Bytes = append(item.Bytes, 0)
		}
	}

	size := uint32(len(item.Bytes))
	if item.Kind == DataWords {
		size = uint32(len(item.Words)) * 2
	}

	lc := st.lc(st.Current)
	*lc += size
	buffer := scratch.Buffer(st.Current)
	buffer.LC = *lc
	buffer.Items = append(buffer.Items, item)
	return nil
}
