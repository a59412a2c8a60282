package asm

import (
	"github.com/draklowell/Cpu8/source"
)

// TokenKind discriminates lexer tokens.
type TokenKind int

//go:generate go tool stringer -linecomment -type=TokenKind
const (
	TokIdent    TokenKind = iota // identifier
	TokNumber                    // number
	TokString                    // string
	TokLBracket                  // '['
	TokRBracket                  // ']'
	TokComma                     // ','
	TokColon                     // ':'
	TokDot                       // '.'
	TokNewLine                   // newline
	TokEOF                       // eof
)

// Token is one lexeme with its source location. String tokens keep
// their quotes and raw escape sequences; the directive layer decodes
// them.
type Token struct {
	Kind TokenKind
	Text string
	Loc  source.Loc
}
