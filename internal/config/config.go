// Package config loads restql-assist settings from embedded defaults, an
// optional config file and RESTQL_ASSIST_* environment variables.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/NikitaCOEUR/restql-assist/internal/derrors"
)

//go:embed defaults.yml
var defaultsYAML []byte

const (
	// AppName names the config and cache directories
	AppName = "restql-assist"
	// EnvPrefix prefixes every environment override. A double underscore
	// separates nested keys: RESTQL_ASSIST_API__BASE_URL sets api.base_url.
	EnvPrefix = "RESTQL_ASSIST_"
	// ConfigFileName is the name of the default config file
	ConfigFileName = "config.yml"
	// CacheFileName is the name of the default resource cache file
	CacheFileName = "resources.json"

	fallbackTimeout = 10 * time.Second
)

// SupportedExtensions lists the config file formats Load understands
var SupportedExtensions = []string{".yml", ".yaml", ".toml", ".json"}

// APIConfig locates the restQL management API
type APIConfig struct {
	BaseURL          string `koanf:"base_url" yaml:"base_url" json:"base_url,omitempty" jsonschema:"description=Root URL of the restQL management API"`
	Timeout          string `koanf:"timeout" yaml:"timeout" json:"timeout,omitempty" jsonschema:"description=HTTP timeout as a Go duration such as 10s,default=10s"`
	AuthorizationKey string `koanf:"authorization_key" yaml:"authorization_key" json:"authorization_key,omitempty" jsonschema:"description=Key sent in the Authorization header when saving resources"`
}

// CompletionConfig tunes the completion engine
type CompletionConfig struct {
	KeywordMatch string `koanf:"keyword_match" yaml:"keyword_match" json:"keyword_match,omitempty" jsonschema:"enum=substring,enum=word,default=substring,description=How already used keywords are detected"`
	UseCatalog   bool   `koanf:"use_catalog" yaml:"use_catalog" json:"use_catalog,omitempty" jsonschema:"description=Also suggest the resources of the active tenant,default=false"`
}

// CacheConfig controls the tenant resource cache
type CacheConfig struct {
	Enabled bool   `koanf:"enabled" yaml:"enabled" json:"enabled,omitempty" jsonschema:"description=Keep tenant resource listings on disk,default=true"`
	Path    string `koanf:"path" yaml:"path" json:"path,omitempty" jsonschema:"description=Cache file path (defaults to the XDG cache directory)"`
	TTL     string `koanf:"ttl" yaml:"ttl" json:"ttl,omitempty" jsonschema:"description=Age after which cached listings are refreshed (0 never expires),default=1h"`
}

// Config represents the restql-assist configuration
type Config struct {
	LogLevel   string            `koanf:"log_level" yaml:"log_level" json:"log_level,omitempty" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=warning,enum=error,default=info,description=Log level"`
	LogFormat  string            `koanf:"log_format" yaml:"log_format" json:"log_format,omitempty" jsonschema:"enum=text,enum=json,default=text,description=Log output format"`
	API        APIConfig         `koanf:"api" yaml:"api" json:"api,omitempty" jsonschema:"description=restQL management API"`
	Completion CompletionConfig  `koanf:"completion" yaml:"completion" json:"completion,omitempty" jsonschema:"description=Completion engine settings"`
	Cache      CacheConfig       `koanf:"cache" yaml:"cache" json:"cache,omitempty" jsonschema:"description=Resource cache settings"`
	Theme      map[string]string `koanf:"theme" yaml:"theme" json:"theme,omitempty" jsonschema:"description=Highlight color per token tag (ANSI number or hex)"`
}

// APITimeout returns the parsed API timeout. Invalid values fall back to 10s.
func (c *Config) APITimeout() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil || d <= 0 {
		return fallbackTimeout
	}
	return d
}

// CacheTTL returns the parsed cache TTL. Invalid values mean no expiry.
func (c *Config) CacheTTL() time.Duration {
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// CachePath returns the configured cache file or the default location
func (c *Config) CachePath() (string, error) {
	if c.Cache.Path != "" {
		return c.Cache.Path, nil
	}
	return DefaultCachePath()
}

// Loader loads configuration layers and remembers which ones were applied
type Loader struct {
	k       *koanf.Koanf
	sources []string
}

// New creates a new config loader
func New() *Loader {
	return &Loader{k: koanf.New(".")}
}

// Load reads defaults, the config file at path and environment overrides.
// An empty path uses DefaultPath when that file exists.
func Load(path string) (*Config, error) {
	return New().Load(path)
}

// Load reads defaults, the config file at path and environment overrides
func (l *Loader) Load(path string) (*Config, error) {
	return l.load(path, true)
}

// LoadFile reads defaults and the config file at path, ignoring the environment
func (l *Loader) LoadFile(path string) (*Config, error) {
	return l.load(path, false)
}

// Sources lists the layers applied by the last load, lowest precedence first
func (l *Loader) Sources() []string {
	return append([]string(nil), l.sources...)
}

// Values returns the flattened keys of the last load
func (l *Loader) Values() map[string]interface{} {
	return l.k.All()
}

func (l *Loader) load(path string, withEnv bool) (*Config, error) {
	k := koanf.New(".")
	l.sources = nil

	if err := k.Load(rawbytes.Provider(defaultsYAML), yaml.Parser()); err != nil {
		return nil, derrors.NewConfigurationError("defaults", "failed to load defaults", err)
	}
	l.sources = append(l.sources, "defaults")

	explicit := path != ""
	if !explicit {
		if p, err := DefaultPath(); err == nil {
			if _, statErr := os.Stat(p); statErr == nil {
				path = p
			}
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, derrors.NewConfigurationError(path, "config file not found", err)
		}

		parser, err := parserFor(path)
		if err != nil {
			return nil, err
		}

		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, derrors.NewConfigurationError(path, "failed to load config", err)
		}
		l.sources = append(l.sources, path)
	}

	if withEnv {
		if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
			return nil, derrors.NewConfigurationError("env", "failed to load environment", err)
		}
		l.sources = append(l.sources, "env:"+EnvPrefix+"*")
	}

	cfg := &Config{Theme: make(map[string]string)}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, derrors.NewConfigurationError(path, "failed to unmarshal config", err)
	}

	l.k = k
	return cfg, nil
}

// envKey maps RESTQL_ASSIST_API__BASE_URL to api.base_url
func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}

// parserFor picks the koanf parser matching the file extension
func parserFor(path string) (koanf.Parser, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yml", ".yaml":
		return yaml.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	default:
		return nil, derrors.NewConfigurationError(path, fmt.Sprintf("unsupported config format: %s", ext), nil)
	}
}

// DefaultPath returns the path to the user config file
func DefaultPath() (string, error) {
	dir, err := baseDir("XDG_CONFIG_HOME", ".config")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName, ConfigFileName), nil
}

// DefaultCachePath returns the path to the resource cache file
func DefaultCachePath() (string, error) {
	dir, err := baseDir("XDG_CACHE_HOME", ".cache")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName, CacheFileName), nil
}

func baseDir(xdgVar, fallback string) (string, error) {
	if dir := os.Getenv(xdgVar); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, fallback), nil
}
