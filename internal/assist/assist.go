// Package assist bundles the restQL lexer and completion engine into a
// provider that a host constructs once and passes to its editor layer.
package assist

import (
	"github.com/NikitaCOEUR/restql-assist/internal/buffer"
	"github.com/NikitaCOEUR/restql-assist/internal/completion"
	"github.com/NikitaCOEUR/restql-assist/internal/config"
	"github.com/NikitaCOEUR/restql-assist/internal/lexer"
	"github.com/NikitaCOEUR/restql-assist/internal/logger"
)

// Name identifies the restQL language to hosts
const Name = "restql"

// Provider tokenizes and completes restQL text. It holds no mutable state and
// is safe for concurrent use.
type Provider struct {
	lexer  *lexer.Lexer
	engine *completion.Engine
}

type options struct {
	rules        lexer.RuleTable
	keywordMatch completion.KeywordMatch
	catalog      completion.Catalog
	log          *logger.Logger
}

// Option configures a Provider
type Option func(*options)

// WithRules replaces the restQL rule table
func WithRules(rules lexer.RuleTable) Option {
	return func(o *options) {
		o.rules = rules
	}
}

// WithKeywordMatch selects how the engine detects used keywords
func WithKeywordMatch(m completion.KeywordMatch) Option {
	return func(o *options) {
		o.keywordMatch = m
	}
}

// WithCatalog adds externally known resource names to completions
func WithCatalog(c completion.Catalog) Option {
	return func(o *options) {
		o.catalog = c
	}
}

// WithLogger sets the logger for debug traces
func WithLogger(l *logger.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// New creates a provider
func New(opts ...Option) *Provider {
	o := &options{keywordMatch: completion.MatchSubstring}
	for _, opt := range opts {
		opt(o)
	}

	lx := lexer.Default()
	if o.rules != nil {
		lx = lexer.New(o.rules)
	}

	engineOpts := []completion.Option{
		completion.WithKeywordMatch(o.keywordMatch),
		completion.WithLogger(o.log),
	}
	if o.catalog != nil {
		engineOpts = append(engineOpts, completion.WithCatalog(o.catalog))
	}

	return &Provider{
		lexer:  lx,
		engine: completion.NewEngine(engineOpts...),
	}
}

// FromConfig creates a provider from the completion section of cfg. The
// catalog is only used when the config enables it.
func FromConfig(cfg *config.Config, catalog completion.Catalog, log *logger.Logger) (*Provider, error) {
	match, err := completion.ParseKeywordMatch(cfg.Completion.KeywordMatch)
	if err != nil {
		return nil, err
	}

	opts := []Option{WithKeywordMatch(match), WithLogger(log)}
	if cfg.Completion.UseCatalog && catalog != nil {
		opts = append(opts, WithCatalog(catalog))
	}
	return New(opts...), nil
}

// Name returns the language name
func (p *Provider) Name() string {
	return Name
}

// Tokenize tags text for highlighting
func (p *Provider) Tokenize(text string) []lexer.Span {
	return p.lexer.Tokenize(text)
}

// TokenizeLines tags each line separately with line-relative offsets
func (p *Provider) TokenizeLines(lines []string) [][]lexer.Span {
	return p.lexer.TokenizeLines(lines)
}

// Complete proposes candidates for the cursor of buf
func (p *Provider) Complete(buf buffer.TextBuffer) *completion.Result {
	return p.engine.Complete(buf)
}

// Analyze exposes the completion context computed for buf
func (p *Provider) Analyze(buf buffer.TextBuffer) completion.Context {
	return p.engine.Analyze(buf)
}
