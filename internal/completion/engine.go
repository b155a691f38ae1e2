package completion

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/NikitaCOEUR/restql-assist/internal/buffer"
	"github.com/NikitaCOEUR/restql-assist/internal/language"
	"github.com/NikitaCOEUR/restql-assist/internal/logger"
)

// Source is reported on every result produced by the engine
const Source = "restql"

// Engine computes restQL completions. It keeps no state between calls and
// is safe for concurrent use.
type Engine struct {
	keywordMatch KeywordMatch
	catalog      Catalog
	log          *logger.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithKeywordMatch selects how used keywords are detected
func WithKeywordMatch(m KeywordMatch) Option {
	return func(e *Engine) {
		e.keywordMatch = m
	}
}

// WithCatalog appends the catalog's resource names after the document bindings
func WithCatalog(c Catalog) Option {
	return func(e *Engine) {
		e.catalog = c
	}
}

// WithLogger sets the logger used for debug traces
func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// NewEngine creates a new completion engine
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		keywordMatch: MatchSubstring,
		log:          logger.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze returns the context the engine derives from buf
func (e *Engine) Analyze(buf buffer.TextBuffer) Context {
	return analyze(buf, e.keywordMatch)
}

// Complete returns the candidates for the cursor of buf and the range they replace
func (e *Engine) Complete(buf buffer.TextBuffer) *Result {
	ctx := e.Analyze(buf)
	pool := e.pool(ctx)

	result := &Result{
		Suggestions: pool,
		Range:       buffer.Range{From: ctx.Cursor, To: ctx.Cursor},
		Source:      Source,
	}

	if !ctx.Word.Empty() {
		result.Suggestions = e.Filter(pool, ctx.Word.Text)
		result.Range = buffer.Range{
			From: buffer.Position{Line: ctx.Cursor.Line, Column: ctx.Word.Start},
			To:   buffer.Position{Line: ctx.Cursor.Line, Column: ctx.Word.End},
		}
	}

	e.log.Debug().
		Str("cursor", ctx.Cursor.String()).
		Int("boundary", ctx.Boundary).
		Int("highest_keyword", ctx.HighestKeyword).
		Strs("bindings", ctx.Bindings).
		Str("word", ctx.Word.Text).
		Int("pool_size", len(pool)).
		Int("suggestions", len(result.Suggestions)).
		Msg("Computed completions")

	return result
}

// pool assembles the unfiltered candidate list: "from", the keywords after
// the highest one already used, every operator, then the resource bindings
func (e *Engine) pool(ctx Context) []Suggestion {
	pool := []Suggestion{{Value: "from", Kind: KindKeyword}}

	for idx, kw := range language.Keywords() {
		if idx > ctx.HighestKeyword {
			pool = append(pool, Suggestion{Value: kw, Kind: KindKeyword})
		}
	}
	for _, op := range language.Operators() {
		pool = append(pool, Suggestion{Value: op, Kind: KindOperator})
	}
	for _, b := range ctx.Bindings {
		pool = append(pool, Suggestion{Value: b, Kind: KindResource})
	}
	if e.catalog != nil {
		for _, name := range e.catalog.ResourceNames() {
			pool = append(pool, Suggestion{Value: name, Kind: KindCatalog})
		}
	}

	return pool
}

// Filter keeps the suggestions starting with prefix, ignoring case
func (e *Engine) Filter(suggestions []Suggestion, prefix string) []Suggestion {
	if prefix == "" {
		return suggestions
	}

	fold := cases.Fold()
	folded := fold.String(prefix)

	filtered := make([]Suggestion, 0, len(suggestions))
	for _, s := range suggestions {
		if strings.HasPrefix(fold.String(s.Value), folded) {
			filtered = append(filtered, s)
		}
	}

	return filtered
}
