package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/NikitaCOEUR/restql-assist/internal/cache"
)

// CacheParams contains parameters for the Cache command
type CacheParams struct {
	ConfigPath string
	LogLevel   string
	Output     io.Writer
	// Clear removes every cached tenant listing
	Clear  bool
	Format string
}

// Cache shows or clears the tenant resource cache
func Cache(params CacheParams) error {
	format, err := ParseFormat(params.Format)
	if err != nil {
		return err
	}

	comp, err := initializeComponents(params.ConfigPath, params.LogLevel)
	if err != nil {
		return err
	}
	out := output(params.Output)

	if params.Clear {
		store, err := comp.openCache()
		if err != nil {
			return err
		}
		if err := store.Clear(); err != nil {
			return err
		}
		comp.log.Debug().Str("path", store.Path()).Msg("Cache cleared")
		_, err = fmt.Fprintf(out, "Cache cleared: %s\n", store.Path())
		return err
	}

	path, err := comp.config.CachePath()
	if err != nil {
		return fmt.Errorf("failed to resolve cache path: %w", err)
	}
	info, err := cache.GetCacheInfo(path)
	if err != nil {
		return fmt.Errorf("failed to read cache info: %w", err)
	}

	return writeFormatted(out, format, "", info, func() string {
		var b strings.Builder
		fmt.Fprintf(&b, "Path:    %s\n", info.Path)
		fmt.Fprintf(&b, "Size:    %d bytes\n", info.Size)
		fmt.Fprintf(&b, "Tenants: %d\n", info.TotalEntries)
		for _, t := range info.Tenants {
			fmt.Fprintf(&b, "  - %s\n", t)
		}
		return b.String()
	})
}
