package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/NikitaCOEUR/restql-assist/internal/config"
)

func TestConfig_YAML(t *testing.T) {
	dir := isolate(t)
	path := apiConfig(t, dir, "http://localhost:9000", "")

	var out bytes.Buffer
	require.NoError(t, Config(ConfigParams{ConfigPath: path, Output: &out}))

	assert.True(t, strings.HasPrefix(out.String(), "# source: defaults\n# source: "+path+"\n"))

	var cfg config.Config
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &cfg))
	assert.Equal(t, "http://localhost:9000", cfg.API.BaseURL)
	assert.Equal(t, maskedKey, cfg.API.AuthorizationKey)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, "12", cfg.Theme["keyword"])
}

func TestConfig_JSON(t *testing.T) {
	isolate(t)

	var out bytes.Buffer
	require.NoError(t, Config(ConfigParams{Output: &out, Format: "json"}))

	var cfg config.Config
	require.NoError(t, json.Unmarshal(out.Bytes(), &cfg))
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.API.AuthorizationKey)
	assert.False(t, strings.HasPrefix(out.String(), "#"))
}
