package source

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocString(t *testing.T) {
	assert := assert.New(t)

	loc := Loc{File: "main.s", Pos: Pos{Line: 3, Col: 7}}
	assert.Equal("main.s:3:7", loc.String())
}

func TestWrap(t *testing.T) {
	assert := assert.New(t)

	sentinel := errors.New("boom")
	loc := Loc{File: "main.s", Pos: Pos{Line: 1, Col: 1}}

	wrapped := Wrap(loc, sentinel)
	assert.ErrorIs(wrapped, sentinel)

	var located *Error
	assert.ErrorAs(wrapped, &located)
	assert.Equal(loc, located.Loc)

	// Wrapping keeps the innermost location.
	rewrapped := Wrap(Loc{File: "other.s"}, wrapped)
	assert.ErrorAs(rewrapped, &located)
	assert.Equal("main.s", located.Loc.File)

	assert.Nil(Wrap(loc, nil))
}
