// Package highlight renders tokenized restQL text with terminal colors.
package highlight

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/NikitaCOEUR/restql-assist/internal/lexer"
)

// defaultColors are ANSI 256 palette indexes per tag
var defaultColors = map[lexer.Tag]string{
	lexer.TagString:   "2",
	lexer.TagError:    "9",
	lexer.TagKeyword:  "12",
	lexer.TagAtom:     "13",
	lexer.TagNumber:   "11",
	lexer.TagVariable: "14",
	lexer.TagOperator: "5",
}

// Theme maps token tags to styles. Tags without a style render raw.
type Theme struct {
	renderer *lipgloss.Renderer
	styles   map[lexer.Tag]lipgloss.Style
}

// Option configures a Theme
type Option func(*Theme)

// WithRenderer renders through r instead of the default stdout renderer
func WithRenderer(r *lipgloss.Renderer) Option {
	return func(t *Theme) {
		t.renderer = r
	}
}

// NewTheme creates a theme without any style
func NewTheme(opts ...Option) *Theme {
	t := &Theme{
		renderer: lipgloss.DefaultRenderer(),
		styles:   make(map[lexer.Tag]lipgloss.Style),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// DefaultTheme returns the built-in color scheme
func DefaultTheme(opts ...Option) *Theme {
	colors := make(map[string]string, len(defaultColors))
	for tag, c := range defaultColors {
		colors[string(tag)] = c
	}
	return ThemeFromColors(colors, opts...)
}

// ThemeFromColors builds a theme from tag names to colors, as found in the
// theme section of the config. Unknown tags and empty colors are skipped.
func ThemeFromColors(colors map[string]string, opts ...Option) *Theme {
	t := NewTheme(opts...)
	for name, color := range colors {
		tag := lexer.Tag(strings.ToLower(name))
		if !tag.IsValid() || tag == lexer.TagPlain || color == "" {
			continue
		}
		t.Set(tag, color)
	}
	return t
}

// Set styles tag with a foreground color
func (t *Theme) Set(tag lexer.Tag, color string) {
	style := t.renderer.NewStyle().
		Foreground(lipgloss.Color(color)).
		TabWidth(lipgloss.NoTabConversion)
	switch tag {
	case lexer.TagKeyword:
		style = style.Bold(true)
	case lexer.TagError:
		style = style.Underline(true)
	}
	t.styles[tag] = style
}

// Style returns the style of tag
func (t *Theme) Style(tag lexer.Tag) (lipgloss.Style, bool) {
	s, ok := t.styles[tag]
	return s, ok
}

// Render writes every span of text with its style
func (t *Theme) Render(text string, spans []lexer.Span) string {
	var b strings.Builder
	b.Grow(len(text))

	for _, span := range lexer.Merge(spans) {
		segment := span.Text(text)
		style, ok := t.styles[span.Tag]
		if !ok || span.Tag == lexer.TagPlain {
			b.WriteString(segment)
			continue
		}
		// Styles never span a line break so terminals keep columns aligned
		parts := strings.Split(segment, "\n")
		for i, part := range parts {
			if i > 0 {
				b.WriteString("\n")
			}
			if part != "" {
				b.WriteString(style.Render(part))
			}
		}
	}

	return b.String()
}

// RenderLines renders line-relative spans and joins the lines with newlines
func (t *Theme) RenderLines(lines []string, spans [][]lexer.Span) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		if i >= len(spans) {
			out[i] = line
			continue
		}
		out[i] = t.Render(line, spans[i])
	}
	return strings.Join(out, "\n")
}
