package config

import (
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/NikitaCOEUR/restql-assist/internal/completion"
	"github.com/NikitaCOEUR/restql-assist/internal/lexer"
)

// ValidationError represents a validation error with details
type ValidationError struct {
	Field   string `json:"field" yaml:"field"`
	Message string `json:"message" yaml:"message"`
}

// ValidationResult contains the results of config validation
type ValidationResult struct {
	Valid  bool              `json:"valid" yaml:"valid"`
	Errors []ValidationError `json:"errors" yaml:"errors"`
}

func (r *ValidationResult) addError(field, message string) {
	r.Valid = false
	r.Errors = append(r.Errors, ValidationError{Field: field, Message: message})
}

// Validate checks the values of a loaded config
func Validate(cfg *Config) *ValidationResult {
	result := &ValidationResult{
		Valid:  true,
		Errors: []ValidationError{},
	}

	if _, err := logrus.ParseLevel(strings.ToLower(cfg.LogLevel)); err != nil {
		result.addError("log_level", fmt.Sprintf("Unknown log level %q", cfg.LogLevel))
	}

	switch strings.ToLower(cfg.LogFormat) {
	case "text", "json":
	default:
		result.addError("log_format", fmt.Sprintf("Unknown log format %q (use text or json)", cfg.LogFormat))
	}

	if cfg.API.BaseURL != "" {
		u, err := url.Parse(cfg.API.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			result.addError("api.base_url", fmt.Sprintf("Invalid base URL %q (need an http or https URL)", cfg.API.BaseURL))
		}
	}

	if d, err := time.ParseDuration(cfg.API.Timeout); err != nil || d <= 0 {
		result.addError("api.timeout", fmt.Sprintf("Invalid timeout %q (need a positive duration such as 10s)", cfg.API.Timeout))
	}

	if _, err := completion.ParseKeywordMatch(cfg.Completion.KeywordMatch); err != nil {
		result.addError("completion.keyword_match", err.Error())
	}

	if cfg.Cache.TTL != "" {
		if d, err := time.ParseDuration(cfg.Cache.TTL); err != nil || d < 0 {
			result.addError("cache.ttl", fmt.Sprintf("Invalid cache TTL %q", cfg.Cache.TTL))
		}
	}

	tags := make([]string, 0, len(cfg.Theme))
	for tag := range cfg.Theme {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		if !lexer.Tag(tag).IsValid() {
			result.addError("theme."+tag, fmt.Sprintf("Unknown token tag %q", tag))
		}
	}

	return result
}

// ValidateFile validates a config file against the schema, then checks the
// values it yields on top of the defaults
func ValidateFile(path string) (*ValidationResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	result, err := ValidateWithSchema(path, content)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return result, nil
	}

	cfg, err := New().LoadFile(path)
	if err != nil {
		result.addError("syntax", fmt.Sprintf("Failed to parse config: %v", err))
		return result, nil
	}

	semantic := Validate(cfg)
	if !semantic.Valid {
		result.Valid = false
		result.Errors = append(result.Errors, semantic.Errors...)
	}

	return result, nil
}
