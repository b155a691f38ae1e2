package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"gopkg.in/yaml.v3"

	"github.com/NikitaCOEUR/restql-assist/internal/derrors"
)

// Format selects how a command prints its result
type Format string

// Output formats
const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatTemplate Format = "template"
)

// Formats lists the accepted --format values
var Formats = []Format{FormatText, FormatJSON, FormatYAML, FormatTemplate}

// ParseFormat parses a --format value. Empty means text.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatText, nil
	}
	f := Format(strings.ToLower(s))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", derrors.NewValidationError("format", fmt.Sprintf("unknown format %q (use text, json, yaml or template)", s), nil)
}

// writeFormatted prints v in format. text renders the text form, tmpl is
// the template source for FormatTemplate.
func writeFormatted(w io.Writer, format Format, tmpl string, v interface{}, text func() string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case FormatTemplate:
		return executeTemplate(w, tmpl, v)
	default:
		_, err := io.WriteString(w, text())
		return err
	}
}

// executeTemplate runs a text/template with the sprig function map
func executeTemplate(w io.Writer, tmpl string, data interface{}) error {
	if tmpl == "" {
		return derrors.NewValidationError("template", "--template is required with --format template", nil)
	}

	t, err := template.New("output").Funcs(sprig.TxtFuncMap()).Parse(tmpl)
	if err != nil {
		return derrors.NewValidationError("template", "invalid template", err)
	}
	if err := t.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}
	return nil
}
