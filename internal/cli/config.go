package cli

import (
	"fmt"
	"io"
)

// ConfigParams contains parameters for the Config command
type ConfigParams struct {
	ConfigPath string
	LogLevel   string
	Output     io.Writer
	Format     string
}

// maskedKey replaces a configured authorization key in printed config
const maskedKey = "********"

// Config prints the effective configuration and the layers it came from.
// The authorization key is masked.
func Config(params ConfigParams) error {
	format, err := ParseFormat(params.Format)
	if err != nil {
		return err
	}
	if format == FormatText || format == FormatTemplate {
		format = FormatYAML
	}

	comp, err := initializeComponents(params.ConfigPath, params.LogLevel)
	if err != nil {
		return err
	}

	cfg := *comp.config
	if cfg.API.AuthorizationKey != "" {
		cfg.API.AuthorizationKey = maskedKey
	}

	out := output(params.Output)
	if format == FormatYAML {
		for _, source := range comp.sources {
			_, _ = fmt.Fprintf(out, "# source: %s\n", source)
		}
	}

	return writeFormatted(out, format, "", cfg, nil)
}
