// Package source carries source positions through the assembler and
// attaches them to diagnostics.
package source

import (
	"errors"

	"github.com/draklowell/Cpu8/translate"
)

var f = translate.From

// Pos is a 1-indexed line/column position within a source file.
type Pos struct {
	Line uint32
	Col  uint32
}

// Loc is a full source location. File is the logical file name, which
// may differ from the physical input when line markers rewrite it.
type Loc struct {
	File string
	Pos  Pos
}

func (l Loc) String() string {
	return f("%v:%v:%v", l.File, l.Pos.Line, l.Pos.Col)
}

// Error attaches a source location to an underlying error.
type Error struct {
	Loc Loc
	Err error
}

func (e *Error) Error() string {
	return f("%v: %v", e.Loc, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf builds a located error from a format string.
func Errorf(loc Loc, format string, args ...any) error {
	return &Error{Loc: loc, Err: errors.New(f(format, args...))}
}

// Wrap attaches loc to err. A nil err stays nil; an err that already
// carries a location is kept as-is.
func Wrap(loc Loc, err error) error {
	if err == nil {
		return nil
	}
	var located *Error
	if errors.As(err, &located) {
		return err
	}
	return &Error{Loc: loc, Err: err}
}
