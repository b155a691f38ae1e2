// Package lexer classifies restQL source text into highlighted spans.
//
// The lexer is a stateless, ordered-rule scanner: at every offset the rules
// are tried in table order and the first one matching at that exact offset
// consumes its match. When no rule matches, a single character is emitted as
// plain text, so the output always covers the whole input without gaps and
// tokenization never fails.
package lexer

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Span is a tagged byte range [Start, End) of the input.
type Span struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
	Tag   Tag `json:"tag" yaml:"tag"`
}

// Len returns the span length in bytes
func (s Span) Len() int {
	return s.End - s.Start
}

// Text returns the slice of src covered by the span
func (s Span) Text(src string) string {
	return src[s.Start:s.End]
}

// Lexer tokenizes text with a fixed rule table.
// A Lexer holds no mutable state and is safe for concurrent use.
type Lexer struct {
	rules RuleTable
}

var defaultLexer = New(defaultRules)

// New creates a lexer over a copy of rules
func New(rules RuleTable) *Lexer {
	owned := make(RuleTable, len(rules))
	copy(owned, rules)
	return &Lexer{rules: owned}
}

// Default returns the shared lexer for the restQL rule table
func Default() *Lexer {
	return defaultLexer
}

// Tokenize tokenizes text with the restQL rule table
func Tokenize(text string) []Span {
	return defaultLexer.Tokenize(text)
}

// Rules returns a copy of the lexer's rule table
func (l *Lexer) Rules() RuleTable {
	out := make(RuleTable, len(l.rules))
	copy(out, l.rules)
	return out
}

// Tokenize converts text into spans covering [0, len(text)).
func (l *Lexer) Tokenize(text string) []Span {
	spans := make([]Span, 0, len(text)/2+1)

	for pos := 0; pos < len(text); {
		rule, loc := l.match(text[pos:])
		if rule == nil {
			_, size := utf8.DecodeRuneInString(text[pos:])
			spans = append(spans, Span{Start: pos, End: pos + size, Tag: TagPlain})
			pos += size
			continue
		}

		spans = emit(spans, rule, loc, pos)
		pos += loc[1]
	}

	return spans
}

// TokenizeLines tokenizes each line independently.
// Span offsets are relative to the start of their line.
func (l *Lexer) TokenizeLines(lines []string) [][]Span {
	out := make([][]Span, len(lines))
	for i, line := range lines {
		out[i] = l.Tokenize(line)
	}
	return out
}

// match returns the first rule matching at the start of rest along with its
// submatch indexes. Empty matches never count, otherwise the scan could stall.
func (l *Lexer) match(rest string) (*TokenRule, []int) {
	for i := range l.rules {
		rule := &l.rules[i]
		loc := rule.Pattern.FindStringSubmatchIndex(rest)
		if loc == nil || loc[0] != 0 || loc[1] == 0 {
			continue
		}
		if _, skip := rule.Except[rest[:loc[1]]]; skip {
			continue
		}
		return rule, loc
	}
	return nil, nil
}

// emit appends the spans produced by one rule match starting at base
func emit(spans []Span, rule *TokenRule, loc []int, base int) []Span {
	end := base + loc[1]

	if len(rule.Tags) == 1 {
		return append(spans, Span{Start: base, End: end, Tag: rule.Tags[0]})
	}

	cursor := base
	for g, tag := range rule.Tags {
		idx := 2 * (g + 1)
		if idx+1 >= len(loc) {
			break
		}
		start, stop := loc[idx], loc[idx+1]
		if start < 0 || start == stop || base+start < cursor {
			continue
		}
		if base+start > cursor {
			spans = append(spans, Span{Start: cursor, End: base + start, Tag: TagPlain})
		}
		spans = append(spans, Span{Start: base + start, End: base + stop, Tag: tag})
		cursor = base + stop
	}

	if cursor < end {
		spans = append(spans, Span{Start: cursor, End: end, Tag: TagPlain})
	}

	return spans
}

// Merge coalesces adjacent spans that share a tag
func Merge(spans []Span) []Span {
	if len(spans) == 0 {
		return nil
	}

	merged := make([]Span, 0, len(spans))
	current := spans[0]
	for _, s := range spans[1:] {
		if s.Tag == current.Tag && s.Start == current.End {
			current.End = s.End
			continue
		}
		merged = append(merged, current)
		current = s
	}
	return append(merged, current)
}

// Describe renders spans one per line as "start end tag text", mostly for
// debugging and golden files.
func Describe(src string, spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		fmt.Fprintf(&b, "%d\t%d\t%s\t%q\n", s.Start, s.End, s.Tag, s.Text(src))
	}
	return b.String()
}
