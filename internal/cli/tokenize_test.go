package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikitaCOEUR/restql-assist/internal/derrors"
	"github.com/NikitaCOEUR/restql-assist/internal/lexer"
)

func TestTokenize_Text(t *testing.T) {
	dir := isolate(t)
	input := writeFile(t, dir, "query.rql", "from hero as h")

	var out bytes.Buffer
	err := Tokenize(context.Background(), TokenizeParams{
		Input:  input,
		Output: &out,
		Merge:  true,
	})
	require.NoError(t, err)

	assert.Equal(t, "0\t4\tkeyword\t\"from\"\n"+
		"4\t10\tplain\t\" hero \"\n"+
		"10\t12\tkeyword\t\"as\"\n"+
		"12\t14\tplain\t\" h\"\n", out.String())
}

func TestTokenize_UnmergedKeepsOneSpanPerRune(t *testing.T) {
	isolate(t)

	var out bytes.Buffer
	err := Tokenize(context.Background(), TokenizeParams{
		Stdin:  strings.NewReader("ab"),
		Output: &out,
		Format: "json",
	})
	require.NoError(t, err)

	var tokens []Token
	require.NoError(t, json.Unmarshal(out.Bytes(), &tokens))
	assert.Equal(t, []Token{
		{Start: 0, End: 1, Tag: lexer.TagPlain, Text: "a"},
		{Start: 1, End: 2, Tag: lexer.TagPlain, Text: "b"},
	}, tokens)
}

func TestTokenize_JSON(t *testing.T) {
	isolate(t)

	var out bytes.Buffer
	err := Tokenize(context.Background(), TokenizeParams{
		Stdin:  strings.NewReader(`from hero with name = "Batman"`),
		Output: &out,
		Format: "json",
		Merge:  true,
	})
	require.NoError(t, err)

	var tokens []Token
	require.NoError(t, json.Unmarshal(out.Bytes(), &tokens))
	require.NotEmpty(t, tokens)
	assert.Equal(t, Token{Start: 0, End: 4, Tag: lexer.TagKeyword, Text: "from"}, tokens[0])
	assert.Equal(t, Token{Start: 22, End: 30, Tag: lexer.TagString, Text: `"Batman"`}, tokens[len(tokens)-1])
}

func TestTokenize_Template(t *testing.T) {
	isolate(t)

	var out bytes.Buffer
	err := Tokenize(context.Background(), TokenizeParams{
		Stdin:    strings.NewReader("from hero as h"),
		Output:   &out,
		Format:   "template",
		Template: `{{ range . }}{{ .Tag | toString | upper }} {{ end }}`,
		Merge:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, "KEYWORD PLAIN KEYWORD PLAIN ", out.String())
}

func TestTokenize_TemplateRequired(t *testing.T) {
	isolate(t)

	err := Tokenize(context.Background(), TokenizeParams{
		Stdin:  strings.NewReader("from hero"),
		Output: &bytes.Buffer{},
		Format: "template",
	})

	var verr *derrors.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "template", verr.Field)
}

func TestTokenize_UnknownFormat(t *testing.T) {
	isolate(t)

	err := Tokenize(context.Background(), TokenizeParams{
		Stdin:  strings.NewReader("from hero"),
		Format: "xml",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestTokenize_RetiredOption(t *testing.T) {
	isolate(t)

	var out bytes.Buffer
	err := Tokenize(context.Background(), TokenizeParams{
		Stdin:  strings.NewReader("cache-control"),
		Output: &out,
	})
	require.NoError(t, err)
	assert.Equal(t, "0\t13\terror\t\"cache-control\"\n", out.String())
}

func TestHighlight_NoColorKeepsText(t *testing.T) {
	dir := isolate(t)
	query := "from hero as h\n  with id = $heroId\n"
	input := writeFile(t, dir, "query.rql", query)

	var out bytes.Buffer
	err := Highlight(context.Background(), HighlightParams{
		Input:  input,
		Output: &out,
	})
	require.NoError(t, err)
	assert.Equal(t, query, out.String())
}

func TestHighlight_InvalidKeywordMatch(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "config.yml", "completion:\n  keyword_match: fuzzy\n")

	err := Highlight(context.Background(), HighlightParams{
		ConfigPath: path,
		Stdin:      strings.NewReader("from hero"),
		Output:     &bytes.Buffer{},
	})
	require.Error(t, err)
}
