// Package args provides a whitespace-tokenizing cursor over command arguments.
package args

import (
	"errors"
	"strconv"

	"github.com/mattjoyce/ucikit/internal/fault"
)

// ErrExpectedNumber is wrapped by ReadInt and ReadFloat when the next word
// does not parse.
var ErrExpectedNumber = errors.New("expected a number")

// Reader is a cursor over a fixed argument string. Position is a byte
// offset in [0, len].
type Reader struct {
	s   string
	pos int
}

// New returns a Reader positioned at the start of s.
func New(s string) *Reader {
	return &Reader{s: s}
}

// IsWhitespace matches the ASCII whitespace set.
func IsWhitespace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// Rewind moves the cursor back to the start.
func (r *Reader) Rewind() { r.pos = 0 }

// Pos returns the current byte offset.
func (r *Reader) Pos() int { return r.pos }

// Finished reports whether the whole string has been consumed.
func (r *Reader) Finished() bool { return r.pos >= len(r.s) }

// PeekRemainder returns the unread suffix without moving the cursor.
func (r *Reader) PeekRemainder() string {
	if r.Finished() {
		return ""
	}
	return r.s[r.pos:]
}

// ReadWhile consumes characters while pred holds.
func (r *Reader) ReadWhile(pred func(byte) bool) string {
	start := r.pos
	for r.pos < len(r.s) && pred(r.s[r.pos]) {
		r.pos++
	}
	return r.s[start:r.pos]
}

// ReadUntil consumes characters until pred holds.
func (r *Reader) ReadUntil(pred func(byte) bool) string {
	start := r.pos
	for r.pos < len(r.s) && !pred(r.s[r.pos]) {
		r.pos++
	}
	return r.s[start:r.pos]
}

// SkipWhitespace advances past a run of whitespace.
func (r *Reader) SkipWhitespace() {
	r.ReadWhile(IsWhitespace)
}

// ReadWord skips whitespace and returns the next run of non-whitespace.
// The skip is not undone when no word follows.
func (r *Reader) ReadWord() string {
	r.SkipWhitespace()
	return r.ReadUntil(IsWhitespace)
}

// TryReadInt parses the next word as an integer. On failure the cursor is
// restored and ok is false.
func (r *Reader) TryReadInt() (n int64, ok bool) {
	before := r.pos
	n, err := strconv.ParseInt(r.ReadWord(), 10, 64)
	if err != nil {
		r.pos = before
		return 0, false
	}
	return n, true
}

// TryReadFloat parses the next word as a float. On failure the cursor is
// restored and ok is false.
func (r *Reader) TryReadFloat() (f float64, ok bool) {
	before := r.pos
	f, err := strconv.ParseFloat(r.ReadWord(), 64)
	if err != nil {
		r.pos = before
		return 0, false
	}
	return f, true
}

// ReadInt is TryReadInt that reports failure as an input fault.
func (r *Reader) ReadInt() (int64, error) {
	n, ok := r.TryReadInt()
	if !ok {
		return 0, fault.Wrap(ErrExpectedNumber, "Expected an integer number.")
	}
	return n, nil
}

// ReadFloat is TryReadFloat that reports failure as an input fault.
func (r *Reader) ReadFloat() (float64, error) {
	f, ok := r.TryReadFloat()
	if !ok {
		return 0, fault.Wrap(ErrExpectedNumber, "Expected a float number.")
	}
	return f, nil
}
