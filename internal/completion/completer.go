// Package completion proposes context-aware completions for restQL queries.
//
// The engine is a per-request heuristic: it rescans the whole document on
// every call, collects resource bindings, works out which keywords were
// already used in the current clause, and filters the resulting candidate
// pool by the word under the cursor.
package completion

import "github.com/NikitaCOEUR/restql-assist/internal/buffer"

// Kind tells where a suggestion came from
type Kind string

// Suggestion kinds
const (
	KindKeyword  Kind = "keyword"
	KindOperator Kind = "operator"
	KindResource Kind = "resource"
	KindCatalog  Kind = "catalog"
)

// Suggestion represents a single completion suggestion
type Suggestion struct {
	Value string `json:"value" yaml:"value"`
	Kind  Kind   `json:"kind" yaml:"kind"`
}

// Completer defines the interface for completion strategies
type Completer interface {
	// Complete returns the suggestions for the buffer's cursor. It never fails.
	Complete(buf buffer.TextBuffer) *Result
}

// Result represents the result of a completion request
type Result struct {
	Suggestions []Suggestion `json:"suggestions" yaml:"suggestions"`
	// Range is the span on the cursor line an accepted suggestion replaces
	Range  buffer.Range `json:"range" yaml:"range"`
	Source string       `json:"source" yaml:"source"`
}

// Values returns the suggestion texts in order
func (r *Result) Values() []string {
	values := make([]string, len(r.Suggestions))
	for i, s := range r.Suggestions {
		values[i] = s.Value
	}
	return values
}

// Catalog supplies resource names known outside the document, such as the
// resources of the active tenant.
type Catalog interface {
	ResourceNames() []string
}

// CatalogFunc adapts a function to the Catalog interface
type CatalogFunc func() []string

// ResourceNames calls f
func (f CatalogFunc) ResourceNames() []string {
	return f()
}
