package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/NikitaCOEUR/restql-assist/internal/config"
)

// Validate validates a restql-assist configuration file
func Validate(configPath string, out io.Writer) error {
	out = output(out)

	// If no path provided, use the default location
	if configPath == "" {
		path, err := config.DefaultPath()
		if err != nil {
			return fmt.Errorf("failed to resolve default config path: %w", err)
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("no config file found at %s", path)
		}
		configPath = path
	}

	_, _ = fmt.Fprintf(out, "Validating: %s\n\n", configPath)

	result, err := config.ValidateFile(configPath)
	if err != nil {
		return err
	}

	if result.Valid {
		_, _ = fmt.Fprintln(out, "✅ Configuration is valid!")
		return nil
	}

	// Display errors
	_, _ = fmt.Fprintln(out, "❌ Configuration has errors:")
	for i, validationErr := range result.Errors {
		_, _ = fmt.Fprintf(out, "%d. [%s] %s\n", i+1, validationErr.Field, validationErr.Message)
	}

	_, _ = fmt.Fprintf(out, "\nFound %d error(s)\n", len(result.Errors))

	return fmt.Errorf("validation failed")
}
