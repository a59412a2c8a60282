package asm

import (
	"github.com/draklowell/Cpu8/source"
)

func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isIdentChar(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch) || ch == '.'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlnum(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isHorizontalSpace(ch byte) bool {
	return ch == ' ' || ch == '\t'
}

type lexer struct {
	text   string
	file   string
	i      int
	line   uint32
	col    uint32
	tokens []Token
}

// Lex scans preprocessed source text into a flat token list ending
// with TokEOF. file seeds the logical file name; `# N "path"` line
// markers override it mid-stream.
func Lex(text, file string) ([]Token, error) {
	lx := &lexer{text: text, file: file, line: 1, col: 1}
	if err := lx.run(); err != nil {
		return nil, err
	}
	return lx.tokens, nil
}

func (lx *lexer) loc(line, col uint32) source.Loc {
	return source.Loc{File: lx.file, Pos: source.Pos{Line: line, Col: col}}
}

func (lx *lexer) push(kind TokenKind, text string, line, col uint32) {
	lx.tokens = append(lx.tokens, Token{Kind: kind, Text: text, Loc: lx.loc(line, col)})
}

func (lx *lexer) run() error {
	atLineStart := true

	for lx.i < len(lx.text) {
		if atLineStart {
			consumed, err := lx.lineMarker()
			if err != nil {
				return err
			}
			if consumed {
				lx.col = 1
				continue
			}
		}

		ch := lx.text[lx.i]
		switch {
		case ch == '\r':
			col := lx.col
			if lx.i+1 < len(lx.text) && lx.text[lx.i+1] == '\n' {
				lx.i++
			}
			lx.i++
			lx.push(TokNewLine, "", lx.line, col)
			lx.line++
			lx.col = 1
			atLineStart = true

		case ch == '\n':
			col := lx.col
			lx.i++
			lx.push(TokNewLine, "", lx.line, col)
			lx.line++
			lx.col = 1
			atLineStart = true

		case ch == ' ' || ch == '\t' || ch == '\v' || ch == '\f':
			lx.i++
			lx.col++

		case ch == ';':
			atLineStart = false
			for lx.i < len(lx.text) && lx.text[lx.i] != '\n' {
				lx.i++
			}

		case ch == '/' && lx.i+1 < len(lx.text) && lx.text[lx.i+1] == '/':
			atLineStart = false
			lx.i += 2
			for lx.i < len(lx.text) && lx.text[lx.i] != '\n' {
				lx.i++
			}

		case ch == '[':
			lx.push(TokLBracket, "[", lx.line, lx.col)
			lx.i++
			lx.col++
			atLineStart = false

		case ch == ']':
			lx.push(TokRBracket, "]", lx.line, lx.col)
			lx.i++
			lx.col++
			atLineStart = false

		case ch == ',':
			lx.push(TokComma, ",", lx.line, lx.col)
			lx.i++
			lx.col++
			atLineStart = false

		case ch == ':':
			lx.push(TokColon, ":", lx.line, lx.col)
			lx.i++
			lx.col++
			atLineStart = false

		case ch == '.':
			lx.push(TokDot, ".", lx.line, lx.col)
			lx.i++
			lx.col++
			atLineStart = false

		case ch == '"':
			if err := lx.stringLiteral(); err != nil {
				return err
			}
			atLineStart = false

		case isIdentStart(ch):
			startCol := lx.col
			start := lx.i
			lx.i++
			lx.col++
			for lx.i < len(lx.text) && isIdentChar(lx.text[lx.i]) {
				lx.i++
				lx.col++
			}
			lx.push(TokIdent, lx.text[start:lx.i], lx.line, startCol)
			atLineStart = false

		case isDigit(ch):
			startCol := lx.col
			start := lx.i
			lx.i++
			lx.col++
			for lx.i < len(lx.text) && isAlnum(lx.text[lx.i]) {
				lx.i++
				lx.col++
			}
			lx.push(TokNumber, lx.text[start:lx.i], lx.line, startCol)
			atLineStart = false

		default:
			return source.Wrap(lx.loc(lx.line, lx.col), ErrUnexpectedChar)
		}
	}

	lx.push(TokEOF, "", lx.line, lx.col)
	return nil
}

// stringLiteral scans a quoted literal. The token keeps the quotes and
// raw escape sequences; only termination is checked here.
func (lx *lexer) stringLiteral() error {
	startLine, startCol := lx.line, lx.col
	start := lx.i
	lx.i++
	lx.col++

	for lx.i < len(lx.text) {
		switch ch := lx.text[lx.i]; ch {
		case '\n', '\r':
			return source.Wrap(lx.loc(startLine, startCol), ErrStringUnterminated)
		case '\\':
			if lx.i+1 >= len(lx.text) {
				return source.Wrap(lx.loc(startLine, startCol), ErrStringUnterminated)
			}
			lx.i += 2
			lx.col += 2
		case '"':
			lx.i++
			lx.col++
			lx.push(TokString, lx.text[start:lx.i], startLine, startCol)
			return nil
		default:
			lx.i++
			lx.col++
		}
	}

	return source.Wrap(lx.loc(startLine, startCol), ErrStringUnterminated)
}

// lineMarker consumes a `# <line> "<path>"` marker at the start of a
// logical line. Markers are not tokenized: they rewrite the active
// file name and line number.
func (lx *lexer) lineMarker() (bool, error) {
	i := lx.i
	size := len(lx.text)

	for i < size && isHorizontalSpace(lx.text[i]) {
		i++
	}
	if i >= size || lx.text[i] != '#' {
		return false, nil
	}
	i++

	for i < size && isHorizontalSpace(lx.text[i]) {
		i++
	}
	if i >= size || !isDigit(lx.text[i]) {
		return false, source.Wrap(lx.loc(lx.line, 1), ErrMarkerNumber)
	}

	var parsedLine uint64
	for i < size && isDigit(lx.text[i]) {
		parsedLine = parsedLine*10 + uint64(lx.text[i]-'0')
		if parsedLine > 0xFFFFFFFF {
			return false, source.Wrap(lx.loc(lx.line, 1), ErrMarkerNumberRange)
		}
		i++
	}

	for i < size && isHorizontalSpace(lx.text[i]) {
		i++
	}
	if i >= size || lx.text[i] != '"' {
		return false, source.Wrap(lx.loc(lx.line, 1), ErrMarkerPath)
	}
	i++

	var path []byte
	for i < size && lx.text[i] != '"' {
		ch := lx.text[i]
		if ch == '\\' {
			if i+1 >= size {
				return false, source.Wrap(lx.loc(lx.line, 1), ErrMarkerEscape)
			}
			i++
			path = append(path, lx.text[i])
			i++
			continue
		}
		if ch == '\n' || ch == '\r' {
			return false, source.Wrap(lx.loc(lx.line, 1), ErrMarkerUnterminated)
		}
		path = append(path, ch)
		i++
	}
	if i >= size {
		return false, source.Wrap(lx.loc(lx.line, 1), ErrMarkerUnterminated)
	}
	i++

	// The remainder of the marker line (GNU cpp flag digits) is dropped.
	for i < size && lx.text[i] != '\n' && lx.text[i] != '\r' {
		i++
	}
	if i < size {
		if lx.text[i] == '\r' {
			i++
			if i < size && lx.text[i] == '\n' {
				i++
			}
		} else {
			i++
		}
	}

	lx.file = string(path)
	lx.line = uint32(parsedLine)
	lx.i = i
	return true, nil
}
