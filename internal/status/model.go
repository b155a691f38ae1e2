package status

import "time"

// Data contains all the information to display in status
type Data struct {
	// Header
	Version string `json:"version" yaml:"version"`

	// Configuration
	ConfigSources []string `json:"config_sources" yaml:"config_sources"`
	LogLevel      string   `json:"log_level" yaml:"log_level"`

	// API
	APIBaseURL string        `json:"api_base_url" yaml:"api_base_url"`
	APITimeout time.Duration `json:"api_timeout" yaml:"api_timeout"`
	HasAuthKey bool          `json:"has_authorization_key" yaml:"has_authorization_key"`

	// Completion
	KeywordMatch string `json:"keyword_match" yaml:"keyword_match"`
	UseCatalog   bool   `json:"use_catalog" yaml:"use_catalog"`

	// Cache
	CacheEnabled bool          `json:"cache_enabled" yaml:"cache_enabled"`
	CachePath    string        `json:"cache_path" yaml:"cache_path"`
	CacheSize    int64         `json:"cache_size" yaml:"cache_size"`
	CacheTTL     time.Duration `json:"cache_ttl" yaml:"cache_ttl"`
	CacheTenants []string      `json:"cache_tenants" yaml:"cache_tenants"`

	// Diagnostics
	TraceEnabled bool `json:"trace_enabled" yaml:"trace_enabled"`
}
