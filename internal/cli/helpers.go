// Package cli implements the restql-assist commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/NikitaCOEUR/restql-assist/internal/cache"
	"github.com/NikitaCOEUR/restql-assist/internal/config"
	"github.com/NikitaCOEUR/restql-assist/internal/environment"
	"github.com/NikitaCOEUR/restql-assist/internal/logger"
	"github.com/NikitaCOEUR/restql-assist/internal/restql"
	"github.com/NikitaCOEUR/restql-assist/pkg/version"
)

// components holds the initialized restql-assist components of one command
type components struct {
	config  *config.Config
	sources []string
	log     *logger.Logger
}

// initializeComponents loads the configuration and builds the logger.
// A non-empty logLevel overrides the configured level.
func initializeComponents(configPath, logLevel string) (*components, error) {
	loader := config.New()
	cfg, err := loader.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}

	return &components{
		config:  cfg,
		sources: loader.Sources(),
		log:     logger.NewWithFormat(level, cfg.LogFormat, os.Stderr),
	}, nil
}

// client builds an API client from the api section of the config
func (c *components) client() *restql.HTTPClient {
	return restql.NewHTTPClient(c.config.API.BaseURL, c.config.APITimeout(), c.log)
}

// manager builds an environment manager, backed by the resource cache when
// the cache is enabled
func (c *components) manager() *environment.Manager {
	opts := []environment.Option{
		environment.WithLogger(c.log),
		environment.WithVersion(version.Version),
	}

	if c.config.Cache.Enabled {
		if store, err := c.openCache(); err != nil {
			c.log.Warn().Err(err).Msg("Resource cache unavailable")
		} else {
			opts = append(opts, environment.WithCache(store))
		}
	}

	return environment.NewManager(c.client(), opts...)
}

func (c *components) openCache() (*cache.Cache, error) {
	path, err := c.config.CachePath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cache path: %w", err)
	}
	return cache.New(path)
}

// selectTenant makes tenant the active tenant of manager. Without one it
// takes the first tenant listed by the API, then the first cached tenant
// when the API lists none. It reports whether a tenant was selected.
func (c *components) selectTenant(ctx context.Context, manager *environment.Manager, tenant string) bool {
	if tenant != "" {
		manager.SetTenant(tenant)
		return true
	}
	if tenants := manager.LoadTenants(ctx); len(tenants) > 0 {
		return true
	}

	cached := c.cachedTenants()
	if len(cached) == 0 {
		return false
	}
	c.log.Warn().Str("tenant", cached[0]).Msg("No tenant listed by the API, using cached tenant")
	manager.SetTenant(cached[0])
	return true
}

// cachedTenants returns the sorted tenants of the resource cache
func (c *components) cachedTenants() []string {
	if !c.config.Cache.Enabled {
		return nil
	}
	path, err := c.config.CachePath()
	if err != nil {
		return nil
	}
	info, err := cache.GetCacheInfo(path)
	if err != nil {
		c.log.Debug().Err(err).Msg("Failed to read cached tenants")
		return nil
	}
	return info.Tenants
}

// readInput returns the content of path, or of stdin when path is empty or "-"
func readInput(path string, stdin io.Reader) (string, error) {
	if path == "" || path == "-" {
		if stdin == nil {
			stdin = os.Stdin
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// output returns w, or stdout when w is nil
func output(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}
