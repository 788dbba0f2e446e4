package over

import (
	"unicode"

	"github.com/m-cat/over/pkg"
)

// Cursor reads a whole source one rune at a time, tracking line and column.
// A *Cursor is a shared handle: everyone holding it sees the same position.
type Cursor struct {
	src  []rune
	pos  int
	line int
	col  int
	file string
}

// NewCursor returns a Cursor over an in-memory string.
func NewCursor(src string) *Cursor {
	return &Cursor{src: []rune(src), line: 1, col: 1}
}

// NewFileCursor reads path entirely and returns a Cursor over its contents.
func NewFileCursor(path string) (*Cursor, error) {
	contents, err := pkg.ReadFileString(path)
	if err != nil {
		return nil, &Error{Kind: ErrIO, File: path, Err: err}
	}
	c := NewCursor(contents)
	c.file = path
	return c, nil
}

// Peek returns the next rune without consuming it.
func (c *Cursor) Peek() (rune, bool) {
	if c.pos >= len(c.src) {
		return 0, false
	}
	return c.src[c.pos], true
}

// peekSecond returns the rune after the next one.
func (c *Cursor) peekSecond() (rune, bool) {
	if c.pos+1 >= len(c.src) {
		return 0, false
	}
	return c.src[c.pos+1], true
}

// Next consumes and returns the next rune.
func (c *Cursor) Next() (rune, bool) {
	if c.pos >= len(c.src) {
		return 0, false
	}
	r := c.src[c.pos]
	c.pos++
	if r == '\n' {
		c.line++
		c.col = 1
	} else {
		c.col++
	}
	return r, true
}

func (c *Cursor) Line() int { return c.line }

func (c *Cursor) Column() int { return c.col }

// File returns the path the cursor was opened on, or "" for string sources.
func (c *Cursor) File() string { return c.file }

// AtEnd reports whether the input is exhausted.
func (c *Cursor) AtEnd() bool { return c.pos >= len(c.src) }

// SkipSpace advances past whitespace, commas and '#' comments. It returns
// false if the end of input was reached.
func (c *Cursor) SkipSpace() bool {
	for {
		r, ok := c.Peek()
		if !ok {
			return false
		}
		switch {
		case r == '#':
			for {
				r, ok := c.Next()
				if !ok {
					return false
				}
				if r == '\n' {
					break
				}
			}
		case unicode.IsSpace(r) || r == ',':
			c.Next()
		default:
			return true
		}
	}
}
