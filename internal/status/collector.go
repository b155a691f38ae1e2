// Package status collects and displays the effective restql-assist setup.
package status

import (
	"fmt"

	"github.com/NikitaCOEUR/restql-assist/internal/cache"
	"github.com/NikitaCOEUR/restql-assist/internal/config"
	"github.com/NikitaCOEUR/restql-assist/internal/trace"
	"github.com/NikitaCOEUR/restql-assist/pkg/version"
)

// Collect gathers status information from a loaded config and the layers
// that produced it
func Collect(cfg *config.Config, sources []string) (*Data, error) {
	data := &Data{
		Version:       version.Version,
		ConfigSources: append([]string{}, sources...),
		LogLevel:      cfg.LogLevel,
		APIBaseURL:    cfg.API.BaseURL,
		APITimeout:    cfg.APITimeout(),
		HasAuthKey:    cfg.API.AuthorizationKey != "",
		KeywordMatch:  cfg.Completion.KeywordMatch,
		UseCatalog:    cfg.Completion.UseCatalog,
		CacheEnabled:  cfg.Cache.Enabled,
		CacheTTL:      cfg.CacheTTL(),
		CacheTenants:  []string{},
		TraceEnabled:  trace.IsEnabled(),
	}

	cachePath, err := cfg.CachePath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cache path: %w", err)
	}
	data.CachePath = cachePath

	if err := collectCacheInfo(data); err != nil {
		return nil, err
	}

	return data, nil
}

func collectCacheInfo(data *Data) error {
	info, err := cache.GetCacheInfo(data.CachePath)
	if err != nil {
		return fmt.Errorf("failed to read cache info: %w", err)
	}
	data.CacheSize = info.Size
	data.CacheTenants = info.Tenants
	return nil
}
