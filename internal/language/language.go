// Package language holds the static word tables of the restQL DSL.
// The tables are shared read-only by the lexer and the completion engine.
package language

// keywords is the ordered reserved keyword table. The order drives which
// keywords are still offered by the completion engine.
var keywords = []string{
	"use",
	"from",
	"to",
	"update",
	"into",
	"delete",
	"as",
	"headers",
	"timeout",
	"with",
	"only",
	"hidden",
}

// operators are the pipeline operators, offered on every completion request
var operators = []string{"flatten", "expand", "contract", "json"}

// clauseTerminals are the words allowed after a with clause
var clauseTerminals = []string{"json", "flatten", "ignore-errors"}

// lexerKeywords are the words the lexer tags as keywords: the reserved
// keywords followed by the clause terminals.
var lexerKeywords = append(clone(keywords), clauseTerminals...)

var atoms = []string{"true", "false", "null", "undefined"}

// RetiredOption is a legacy directive that is always highlighted as an error.
const RetiredOption = "cache-control"

// Keywords returns a copy of the keyword table.
func Keywords() []string { return clone(keywords) }

// Operators returns a copy of the operator table.
func Operators() []string { return clone(operators) }

// LexerKeywords returns a copy of the words the lexer tags as keywords.
func LexerKeywords() []string { return clone(lexerKeywords) }

// Atoms returns a copy of the boolean/null literal words.
func Atoms() []string { return clone(atoms) }

// KeywordCount returns the number of entries in the keyword table.
func KeywordCount() int { return len(keywords) }

// KeywordAt returns the keyword stored at index i.
// ok is false when i is outside the table.
func KeywordAt(i int) (kw string, ok bool) {
	if i < 0 || i >= len(keywords) {
		return "", false
	}
	return keywords[i], true
}

func clone(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
