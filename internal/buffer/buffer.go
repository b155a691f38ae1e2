// Package buffer defines the text-buffer capability the completion engine
// reads from, plus an in-memory document implementing it.
package buffer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/NikitaCOEUR/restql-assist/internal/derrors"
)

// Position addresses a character in a document. Both fields are 0-based and
// Column counts characters (runes) from the start of the line.
type Position struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// String formats the position as line:column
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Range is a half-open character range [From, To)
type Range struct {
	From Position `json:"from" yaml:"from"`
	To   Position `json:"to" yaml:"to"`
}

// Empty reports whether the range covers no characters
func (r Range) Empty() bool {
	return r.From == r.To
}

// TextBuffer is the read-only view of an editor buffer
type TextBuffer interface {
	LineCount() int
	Line(i int) string
	Cursor() Position
}

// Document is an immutable in-memory TextBuffer
type Document struct {
	lines  []string
	cursor Position
}

// NewDocument splits text into lines. An empty text is a document without lines.
func NewDocument(text string) *Document {
	if text == "" {
		return &Document{}
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return &Document{lines: strings.Split(text, "\n")}
}

// FromLines creates a document over a copy of lines
func FromLines(lines []string) *Document {
	owned := make([]string, len(lines))
	copy(owned, lines)
	return &Document{lines: owned}
}

// WithCursor returns a copy of the document with the cursor moved to pos
func (d *Document) WithCursor(pos Position) *Document {
	return &Document{lines: d.lines, cursor: pos}
}

// LineCount returns the number of lines
func (d *Document) LineCount() int {
	return len(d.lines)
}

// Line returns line i, or "" when i is out of range
func (d *Document) Line(i int) string {
	if i < 0 || i >= len(d.lines) {
		return ""
	}
	return d.lines[i]
}

// Cursor returns the cursor position
func (d *Document) Cursor() Position {
	return d.cursor
}

// Lines returns a copy of the document lines
func (d *Document) Lines() []string {
	out := make([]string, len(d.lines))
	copy(out, d.lines)
	return out
}

// Text joins the lines back together
func (d *Document) Text() string {
	return strings.Join(d.lines, "\n")
}

// EndPosition returns the position just past the last character
func (d *Document) EndPosition() Position {
	if len(d.lines) == 0 {
		return Position{}
	}
	last := len(d.lines) - 1
	return Position{Line: last, Column: utf8.RuneCountInString(d.lines[last])}
}

// ParsePosition parses a "line:column" cursor specification
func ParsePosition(s string) (Position, error) {
	lineStr, colStr, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Position{}, derrors.NewPositionError(s, "expected line:column", nil)
	}

	line, err := strconv.Atoi(lineStr)
	if err != nil {
		return Position{}, derrors.NewPositionError(s, "invalid line", err)
	}
	col, err := strconv.Atoi(colStr)
	if err != nil {
		return Position{}, derrors.NewPositionError(s, "invalid column", err)
	}
	if line < 0 || col < 0 {
		return Position{}, derrors.NewPositionError(s, "line and column must not be negative", nil)
	}

	return Position{Line: line, Column: col}, nil
}
