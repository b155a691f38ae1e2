package cli

import (
	"fmt"
	"io"

	"github.com/NikitaCOEUR/restql-assist/internal/status"
)

// StatusParams contains parameters for the Status command
type StatusParams struct {
	ConfigPath string
	LogLevel   string
	Output     io.Writer
}

// Status displays the effective restql-assist setup
func Status(params StatusParams) error {
	comp, err := initializeComponents(params.ConfigPath, params.LogLevel)
	if err != nil {
		return err
	}

	// Collect all status data
	data, err := status.Collect(comp.config, comp.sources)
	if err != nil {
		return fmt.Errorf("failed to collect status data: %w", err)
	}

	_, err = fmt.Fprintln(output(params.Output), status.Render(data))
	return err
}
