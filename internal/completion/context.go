package completion

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/NikitaCOEUR/restql-assist/internal/buffer"
	"github.com/NikitaCOEUR/restql-assist/internal/language"
)

// KeywordMatch selects how the keyword-exclusion scan detects a keyword in a line
type KeywordMatch string

const (
	// MatchSubstring counts a keyword whenever its text occurs anywhere in
	// the line, including inside longer identifiers.
	MatchSubstring KeywordMatch = "substring"
	// MatchWord only counts whole identifier tokens.
	MatchWord KeywordMatch = "word"
)

// ParseKeywordMatch parses a keyword match mode. The empty string selects
// MatchSubstring.
func ParseKeywordMatch(s string) (KeywordMatch, error) {
	switch KeywordMatch(strings.ToLower(strings.TrimSpace(s))) {
	case "", MatchSubstring:
		return MatchSubstring, nil
	case MatchWord:
		return MatchWord, nil
	default:
		return "", fmt.Errorf("invalid keyword match %q (use substring or word)", s)
	}
}

var (
	aliasPattern    = regexp.MustCompile(`as ([\w\-$]+)`)
	resourcePattern = regexp.MustCompile(`from ([\w\-$]+)`)
)

// WordSpan is the identifier under the cursor, in rune columns [Start, End)
type WordSpan struct {
	Start int    `json:"start" yaml:"start"`
	End   int    `json:"end" yaml:"end"`
	Text  string `json:"text" yaml:"text"`
}

// Empty reports whether there is no word at the cursor
func (w WordSpan) Empty() bool {
	return w.Start == w.End
}

// Context is what the engine learns about the document for one request
type Context struct {
	// Cursor is the requested cursor clamped into the document
	Cursor buffer.Position `json:"cursor" yaml:"cursor"`
	// Bindings are the resource names and aliases in document order
	Bindings []string `json:"bindings" yaml:"bindings"`
	// Boundary is the first line of the current clause window
	Boundary int `json:"boundary" yaml:"boundary"`
	// HighestKeyword is the highest keyword table index seen in the window
	HighestKeyword int      `json:"highest_keyword" yaml:"highest_keyword"`
	Word           WordSpan `json:"word" yaml:"word"`
}

// analyze computes the completion context for buf
func analyze(buf buffer.TextBuffer, match KeywordMatch) Context {
	cursor := clampCursor(buf)
	boundary := clauseBoundary(buf, cursor.Line)

	return Context{
		Cursor:         cursor,
		Bindings:       resourceBindings(buf),
		Boundary:       boundary,
		HighestKeyword: highestKeyword(buf, boundary, cursor.Line, match),
		Word:           wordAt(buf.Line(cursor.Line), cursor.Column),
	}
}

// clampCursor moves the buffer cursor inside the document
func clampCursor(buf buffer.TextBuffer) buffer.Position {
	pos := buf.Cursor()

	last := buf.LineCount() - 1
	if last < 0 {
		last = 0
	}
	pos.Line = clamp(pos.Line, 0, last)
	pos.Column = clamp(pos.Column, 0, utf8.RuneCountInString(buf.Line(pos.Line)))

	return pos
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// resourceBindings collects one binding per line: the alias of an "as"
// clause when present, the resource of a "from" clause otherwise
func resourceBindings(buf buffer.TextBuffer) []string {
	bindings := []string{}

	for i := 0; i < buf.LineCount(); i++ {
		line := buf.Line(i)

		if m := aliasPattern.FindStringSubmatch(line); m != nil {
			bindings = append(bindings, m[1])
		} else if m := resourcePattern.FindStringSubmatch(line); m != nil {
			bindings = append(bindings, m[1])
		}
	}

	return bindings
}

// clauseBoundary walks up from the cursor line to the nearest line
// containing "from". Line 0 is the fallback.
func clauseBoundary(buf buffer.TextBuffer, cursorLine int) int {
	for i := cursorLine; i >= 0; i-- {
		if strings.Contains(buf.Line(i), "from") {
			return i
		}
	}
	return 0
}

// highestKeyword returns the highest keyword table index occurring in lines
// from..to inclusive, or 0 when none occurs.
func highestKeyword(buf buffer.TextBuffer, from, to int, match KeywordMatch) int {
	highest := 0

	for i := from; i <= to; i++ {
		line := buf.Line(i)

		var words map[string]bool
		if match == MatchWord {
			words = identifiers(line)
		}

		// Scan down from the end of the table; only a higher index can matter.
		for idx := language.KeywordCount() - 1; idx > highest; idx-- {
			kw, _ := language.KeywordAt(idx)
			var found bool
			if match == MatchWord {
				found = words[kw]
			} else {
				found = strings.Contains(line, kw)
			}
			if found {
				highest = idx
				break
			}
		}
	}

	return highest
}

// identifiers splits a line into its identifier tokens
func identifiers(line string) map[string]bool {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return !isWordRune(r) && r != '-'
	})

	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}

// wordAt expands left and right of column over word characters
func wordAt(line string, column int) WordSpan {
	runes := []rune(line)

	start := column
	for start > 0 && isWordRune(runes[start-1]) {
		start--
	}
	end := column
	for end < len(runes) && isWordRune(runes[end]) {
		end++
	}

	return WordSpan{Start: start, End: end, Text: string(runes[start:end])}
}

func isWordRune(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
