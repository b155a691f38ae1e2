package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/NikitaCOEUR/restql-assist/internal/assist"
	"github.com/NikitaCOEUR/restql-assist/internal/buffer"
	"github.com/NikitaCOEUR/restql-assist/internal/highlight"
	"github.com/NikitaCOEUR/restql-assist/internal/lexer"
	"github.com/NikitaCOEUR/restql-assist/internal/timing"
	"github.com/NikitaCOEUR/restql-assist/internal/trace"
)

// TokenizeParams contains parameters for the Tokenize command
type TokenizeParams struct {
	ConfigPath string
	LogLevel   string
	// Input is the query file; empty reads Stdin
	Input    string
	Stdin    io.Reader
	Output   io.Writer
	Format   string
	Template string
	// Merge coalesces adjacent spans with the same tag
	Merge bool
}

// Token is one span of the tokenize output
type Token struct {
	Start int       `json:"start" yaml:"start"`
	End   int       `json:"end" yaml:"end"`
	Tag   lexer.Tag `json:"tag" yaml:"tag"`
	Text  string    `json:"text" yaml:"text"`
}

// Tokenize prints the highlight spans of a query
func Tokenize(ctx context.Context, params TokenizeParams) error {
	timer := timing.NewTimer()

	format, err := ParseFormat(params.Format)
	if err != nil {
		return err
	}

	comp, err := initializeComponents(params.ConfigPath, params.LogLevel)
	if err != nil {
		return err
	}
	timer.Mark("init")

	src, err := readInput(params.Input, params.Stdin)
	if err != nil {
		return err
	}
	timer.Mark("read")

	provider, err := assist.FromConfig(comp.config, nil, comp.log)
	if err != nil {
		return err
	}

	var spans []lexer.Span
	trace.WithRegion(ctx, "tokenize", func() {
		spans = provider.Tokenize(src)
	})
	if params.Merge {
		spans = lexer.Merge(spans)
	}
	timer.Mark("tokenize")
	defer timer.Log(comp.log, "Tokenize timings")

	tokens := make([]Token, len(spans))
	for i, s := range spans {
		tokens[i] = Token{Start: s.Start, End: s.End, Tag: s.Tag, Text: s.Text(src)}
	}

	return writeFormatted(output(params.Output), format, params.Template, tokens, func() string {
		return lexer.Describe(src, spans)
	})
}

// HighlightParams contains parameters for the Highlight command
type HighlightParams struct {
	ConfigPath string
	LogLevel   string
	Input      string
	Stdin      io.Reader
	Output     io.Writer
}

// Highlight prints a query colored with the configured theme
func Highlight(ctx context.Context, params HighlightParams) error {
	comp, err := initializeComponents(params.ConfigPath, params.LogLevel)
	if err != nil {
		return err
	}

	src, err := readInput(params.Input, params.Stdin)
	if err != nil {
		return err
	}

	provider, err := assist.FromConfig(comp.config, nil, comp.log)
	if err != nil {
		return err
	}

	out := output(params.Output)
	theme := highlight.ThemeFromColors(comp.config.Theme, highlight.WithRenderer(lipgloss.NewRenderer(out)))

	lines := buffer.NewDocument(src).Lines()
	var rendered string
	trace.WithRegion(ctx, "highlight", func() {
		rendered = theme.RenderLines(lines, provider.TokenizeLines(lines))
	})

	_, err = io.WriteString(out, rendered)
	return err
}
