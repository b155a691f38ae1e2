package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/NikitaCOEUR/restql-assist/internal/assist"
	"github.com/NikitaCOEUR/restql-assist/internal/buffer"
	"github.com/NikitaCOEUR/restql-assist/internal/completion"
	"github.com/NikitaCOEUR/restql-assist/internal/timing"
	"github.com/NikitaCOEUR/restql-assist/internal/trace"
)

// CompleteParams contains parameters for the Complete command
type CompleteParams struct {
	ConfigPath string
	LogLevel   string
	Input      string
	Stdin      io.Reader
	Output     io.Writer
	// Position is a "line:column" cursor, or "end" for the end of the
	// input. It wins over Line and Column.
	Position string
	Line     int
	Column   int
	// Tenant selects the catalog tenant; empty uses the first listed tenant
	Tenant   string
	Format   string
	Template string
}

// CompletionOutput is what the complete command prints
type CompletionOutput struct {
	Suggestions []completion.Suggestion `json:"suggestions" yaml:"suggestions"`
	Range       buffer.Range            `json:"range" yaml:"range"`
	Source      string                  `json:"source" yaml:"source"`
	Context     completion.Context      `json:"context" yaml:"context"`
}

// Complete prints the completion candidates at a cursor position
func Complete(ctx context.Context, params CompleteParams) error {
	timer := timing.NewTimer()

	format, err := ParseFormat(params.Format)
	if err != nil {
		return err
	}

	cursor := buffer.Position{Line: params.Line, Column: params.Column}
	atEnd := params.Position == "end"
	if params.Position != "" && !atEnd {
		cursor, err = buffer.ParsePosition(params.Position)
		if err != nil {
			return err
		}
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

	catalog := loadCatalog(ctx, comp, params.Tenant)
	timer.Mark("catalog")

	provider, err := assist.FromConfig(comp.config, catalog, comp.log)
	if err != nil {
		return err
	}

	doc := buffer.NewDocument(src)
	if atEnd {
		cursor = doc.EndPosition()
	}
	doc = doc.WithCursor(cursor)
	var out CompletionOutput
	trace.WithRegion(ctx, "complete", func() {
		result := provider.Complete(doc)
		out = CompletionOutput{
			Suggestions: result.Suggestions,
			Range:       result.Range,
			Source:      result.Source,
			Context:     provider.Analyze(doc),
		}
	})
	timer.Mark("complete")
	defer timer.Log(comp.log, "Completion timings")

	return writeFormatted(output(params.Output), format, params.Template, out, func() string {
		var b strings.Builder
		for _, s := range out.Suggestions {
			fmt.Fprintf(&b, "%s\t%s\n", s.Value, s.Kind)
		}
		return b.String()
	})
}

// loadCatalog returns the resources of the selected tenant when the config
// asks for catalog completions, nil otherwise
func loadCatalog(ctx context.Context, comp *components, tenant string) completion.Catalog {
	if !comp.config.Completion.UseCatalog {
		return nil
	}
	if comp.config.API.BaseURL == "" {
		comp.log.Warn().Msg("Catalog completion needs api.base_url; skipping catalog")
		return nil
	}

	manager := comp.manager()
	comp.selectTenant(ctx, manager, tenant)
	manager.EnsureResources(ctx, comp.config.CacheTTL())

	return manager
}
