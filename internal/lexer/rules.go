package lexer

import (
	"regexp"
	"strings"

	"github.com/NikitaCOEUR/restql-assist/internal/language"
)

// Tag classifies a highlighted span.
type Tag string

// Tags produced by the restQL rule table
const (
	TagString   Tag = "string"
	TagError    Tag = "error"
	TagKeyword  Tag = "keyword"
	TagAtom     Tag = "atom"
	TagNumber   Tag = "number"
	TagVariable Tag = "variable"
	TagOperator Tag = "operator"
	TagPlain    Tag = "plain"
)

// AllTags lists every tag in a stable order
var AllTags = []Tag{
	TagString,
	TagError,
	TagKeyword,
	TagAtom,
	TagNumber,
	TagVariable,
	TagOperator,
	TagPlain,
}

// IsValid reports whether t is one of the known tags
func (t Tag) IsValid() bool {
	for _, known := range AllTags {
		if t == known {
			return true
		}
	}
	return false
}

// TokenRule pairs an anchored pattern with the tag (or per-group tags) it emits.
type TokenRule struct {
	Name    string
	Pattern *regexp.Regexp
	Tags    []Tag
	// Except holds whole matches the rule gives up to later rules
	Except map[string]struct{}
}

// Excluding returns a copy of r that does not fire when its match is
// exactly one of words.
func (r TokenRule) Excluding(words ...string) TokenRule {
	except := make(map[string]struct{}, len(r.Except)+len(words))
	for w := range r.Except {
		except[w] = struct{}{}
	}
	for _, w := range words {
		except[w] = struct{}{}
	}
	r.Except = except
	return r
}

// RuleTable is an ordered list of rules. The first rule matching at the
// current offset wins.
type RuleTable []TokenRule

// NewRule compiles pattern so it only matches at the start of its input,
// using leftmost-longest semantics. With a single tag the whole match is
// tagged; with several tags each capture group gets its own tag.
func NewRule(name, pattern string, tags ...Tag) (TokenRule, error) {
	re, err := regexp.Compile(`\A(?:` + pattern + `)`)
	if err != nil {
		return TokenRule{}, err
	}
	re.Longest()
	if len(tags) == 0 {
		tags = []Tag{TagPlain}
	}
	return TokenRule{Name: name, Pattern: re, Tags: tags}, nil
}

// MustRule is like NewRule but panics on an invalid pattern.
func MustRule(name, pattern string, tags ...Tag) TokenRule {
	rule, err := NewRule(name, pattern, tags...)
	if err != nil {
		panic("lexer: rule " + name + ": " + err.Error())
	}
	return rule
}

// identChars are the characters that glue an identifier to a keyword
const identChars = `[\w\-@+*&^%#]`

// defaultRules is built once at package load and never written again
var defaultRules = buildDefaultRules()

// DefaultRules returns a copy of the restQL rule table.
func DefaultRules() RuleTable {
	out := make(RuleTable, len(defaultRules))
	copy(out, defaultRules)
	return out
}

func buildDefaultRules() RuleTable {
	words := language.LexerKeywords()
	keywords := wordAlternation(words)

	return RuleTable{
		// Unterminated strings run to the end of the line, a trailing
		// backslash included
		MustRule("string", `(?m)"(?:[^"\\\n]|\\.)*(?:"|\\?$)`, TagString),
		// A keyword holding another one ("into" holds "to") is still a keyword
		MustRule("glued-keyword-right", identChars+`+(?:`+keywords+`)`+identChars+`*`, TagError).Excluding(words...),
		MustRule("glued-keyword-left", identChars+`*(?:`+keywords+`)`+identChars+`+`, TagError).Excluding(words...),
		MustRule("keyword", keywords, TagKeyword),
		MustRule("retired-option", regexp.QuoteMeta(language.RetiredOption), TagError),
		MustRule("atom", wordAlternation(language.Atoms()), TagAtom),
		MustRule("number", `(?i)0x[a-f\d]+|[-+]?(?:\.\d+|\d+\.?\d*)(?:e[-+]?\d+)?`, TagNumber),
		MustRule("variable", `\$[a-zA-Z]+|=[^\S\n]*[a-zA-Z]+(?:\.[a-zA-Z]+)+`, TagVariable),
		MustRule("operator", `[-+/*=<>!]+`, TagOperator),
	}
}

func wordAlternation(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(quoted, "|")
}
