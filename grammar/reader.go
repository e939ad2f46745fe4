// Package grammar adapts the packrat engine to text input: a string cursor,
// positioned syntax errors, terminal terms and the rules shared by text
// grammars, and a Grammar type with parse and completion entry points.
package grammar

import (
	"unicode"
	"unicode/utf8"
)

// Reader is a cursor over a string. Cursor positions are byte offsets.
type Reader struct {
	input  string
	cursor int
}

func NewReader(input string) *Reader {
	return &Reader{input: input}
}

// NewReaderAt returns a reader positioned at cursor.
func NewReaderAt(input string, cursor int) *Reader {
	return &Reader{input: input, cursor: cursor}
}

func (r *Reader) Input() string        { return r.input }
func (r *Reader) Cursor() int          { return r.cursor }
func (r *Reader) SetCursor(cursor int) { r.cursor = cursor }
func (r *Reader) Remaining() string    { return r.input[r.cursor:] }
func (r *Reader) CanRead() bool        { return r.cursor < len(r.input) }
func (r *Reader) CanReadN(n int) bool  { return r.cursor+n <= len(r.input) }

// Peek returns the rune at the cursor, or utf8.RuneError at the end.
func (r *Reader) Peek() rune {
	c, _ := utf8.DecodeRuneInString(r.input[r.cursor:])
	return c
}

// PeekAt returns the rune offset bytes past the cursor.
func (r *Reader) PeekAt(offset int) rune {
	if r.cursor+offset >= len(r.input) {
		return utf8.RuneError
	}
	c, _ := utf8.DecodeRuneInString(r.input[r.cursor+offset:])
	return c
}

func (r *Reader) Read() rune {
	c, n := utf8.DecodeRuneInString(r.input[r.cursor:])
	r.cursor += n
	return c
}

func (r *Reader) Skip() {
	_, n := utf8.DecodeRuneInString(r.input[r.cursor:])
	r.cursor += n
}

func (r *Reader) SkipWhitespace() {
	for r.CanRead() && IsWhitespace(r.Peek()) {
		r.Skip()
	}
}

// ReadUnquotedString reads the longest run of characters allowed in an
// unquoted string.
func (r *Reader) ReadUnquotedString() string {
	start := r.cursor
	for r.cursor < len(r.input) && IsAllowedInUnquotedString(rune(r.input[r.cursor])) {
		r.cursor++
	}
	return r.input[start:r.cursor]
}

// IsWhitespace reports Unicode spaces other than the non-breaking ones, and
// the ASCII information separators.
func IsWhitespace(c rune) bool {
	switch c {
	case '\u00a0', '\u2007', '\u202f':
		return false
	case '\u001c', '\u001d', '\u001e', '\u001f':
		return true
	}
	return unicode.IsSpace(c)
}

func IsAllowedInUnquotedString(c rune) bool {
	return c >= '0' && c <= '9' ||
		c >= 'A' && c <= 'Z' ||
		c >= 'a' && c <= 'z' ||
		c == '_' || c == '-' ||
		c == '.' || c == '+'
}
