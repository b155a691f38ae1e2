package assist

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikitaCOEUR/restql-assist/internal/buffer"
	"github.com/NikitaCOEUR/restql-assist/internal/completion"
	"github.com/NikitaCOEUR/restql-assist/internal/config"
	"github.com/NikitaCOEUR/restql-assist/internal/lexer"
)

func TestNew_Defaults(t *testing.T) {
	p := New()

	assert.Equal(t, "restql", p.Name())
	assert.Equal(t, lexer.Tokenize("from heroes"), p.Tokenize("from heroes"))

	doc := buffer.NewDocument("from heroes as h\n  wi").WithCursor(buffer.Position{Line: 1, Column: 4})
	assert.Equal(t, []string{"with"}, p.Complete(doc).Values())
}

func TestNew_WithRules(t *testing.T) {
	rules := lexer.RuleTable{lexer.MustRule("digits", `\d+`, lexer.TagNumber)}
	p := New(WithRules(rules))

	spans := p.Tokenize("from 12")

	require.NotEmpty(t, spans)
	assert.Equal(t, lexer.TagPlain, spans[0].Tag, "the custom table has no keyword rule")
	assert.Equal(t, lexer.Span{Start: 5, End: 7, Tag: lexer.TagNumber}, spans[len(spans)-1])
}

func TestNew_WithKeywordMatch(t *testing.T) {
	doc := buffer.NewDocument("from customers ").WithCursor(buffer.Position{Line: 0, Column: 15})

	assert.Equal(t, 2, New().Analyze(doc).HighestKeyword)
	assert.Equal(t, 1, New(WithKeywordMatch(completion.MatchWord)).Analyze(doc).HighestKeyword)
}

func TestTokenizeLines(t *testing.T) {
	p := New()

	lines := p.TokenizeLines([]string{"from heroes", "only name"})

	require.Len(t, lines, 2)
	assert.Equal(t, lexer.Span{Start: 0, End: 4, Tag: lexer.TagKeyword}, lines[1][0])
}

func TestFromConfig(t *testing.T) {
	catalog := completion.CatalogFunc(func() []string { return []string{"villains"} })
	doc := buffer.NewDocument("from heroes\n  vi").WithCursor(buffer.Position{Line: 1, Column: 4})

	cfg := &config.Config{Completion: config.CompletionConfig{KeywordMatch: "word"}}
	p, err := FromConfig(cfg, catalog, nil)
	require.NoError(t, err)
	assert.Empty(t, p.Complete(doc).Values(), "catalog disabled")

	cfg.Completion.UseCatalog = true
	p, err = FromConfig(cfg, catalog, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"villains"}, p.Complete(doc).Values())

	cfg.Completion.KeywordMatch = "fuzzy"
	_, err = FromConfig(cfg, catalog, nil)
	assert.Error(t, err)
}

func TestProvider_Concurrent(t *testing.T) {
	p := New()
	text := "from heroes as h\n  with name = \"x\"\n  only name"
	doc := buffer.NewDocument(text).WithCursor(buffer.Position{Line: 2, Column: 6})
	wantSpans := p.Tokenize(text)
	wantResult := p.Complete(doc)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, wantSpans, p.Tokenize(text))
			assert.Equal(t, wantResult, p.Complete(doc))
		}()
	}
	wg.Wait()
}
