package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the XDG directories at an empty temp dir so the user's own
// config and cache never leak into a test
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("NO_COLOR", "1")
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// apiConfig writes a config pointing at baseURL with the cache inside dir
func apiConfig(t *testing.T, dir, baseURL, extra string) string {
	t.Helper()
	content := "log_level: error\napi:\n  base_url: " + baseURL + "\n  authorization_key: config-key\n" +
		"cache:\n  path: " + filepath.Join(dir, "cache", "resources.json") + "\n" + extra
	return writeFile(t, dir, "config.yml", content)
}

// fakeAPI serves the restQL management API from memory
type fakeAPI struct {
	mu        sync.Mutex
	tenants   []string
	resources map[string]string
	failing   atomic.Bool
	auth      []string
}

func newFakeAPI(t *testing.T) (*fakeAPI, *httptest.Server) {
	t.Helper()
	api := &fakeAPI{
		tenants: []string{"marvel", "dc"},
		resources: map[string]string{
			"marvel/avengers": "http://marvel/avengers",
			"marvel/xmen":     "http://marvel/xmen",
			"dc/heroes":       "http://dc/heroes",
		},
	}
	server := httptest.NewServer(http.HandlerFunc(api.serve))
	t.Cleanup(server.Close)
	return api, server
}

func (a *fakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	if a.failing.Load() {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case r.Method == http.MethodGet && len(parts) == 1 && parts[0] == "tenants":
		_ = json.NewEncoder(w).Encode(map[string][]string{"tenants": a.tenants})
	case r.Method == http.MethodGet && len(parts) == 2 && parts[0] == "resources":
		var items []string
		for _, key := range sortedKeys(a.resources) {
			tenant, name, _ := strings.Cut(key, "/")
			if tenant == parts[1] {
				items = append(items, `{"name":"`+name+`","url":"`+a.resources[key]+`"}`)
			}
		}
		_, _ = w.Write([]byte("[" + strings.Join(items, ",") + "]"))
	case r.Method == http.MethodPut && len(parts) == 3 && parts[0] == "resources":
		a.auth = append(a.auth, r.Header.Get("Authorization"))
		a.resources[parts[1]+"/"+parts[2]] = "http://updated/" + parts[2]
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}

func (a *fakeAPI) setTenants(tenants []string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tenants = tenants
}

func (a *fakeAPI) authKeys() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.auth...)
}

func (a *fakeAPI) resourceURL(key string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.resources[key]
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func TestReadInput(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "query.rql", "from heroes")

	got, err := readInput(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "from heroes", got)

	got, err = readInput("-", strings.NewReader("from villains"))
	require.NoError(t, err)
	assert.Equal(t, "from villains", got)

	_, err = readInput(filepath.Join(dir, "missing.rql"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}

func TestInitializeComponents_LogLevelOverride(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "config.yml", "log_level: warn\n")

	comp, err := initializeComponents(path, "debug")
	require.NoError(t, err)
	assert.True(t, comp.log.Enabled("debug"))
	assert.Equal(t, []string{"defaults", path, "env:RESTQL_ASSIST_*"}, comp.sources)

	comp, err = initializeComponents(path, "")
	require.NoError(t, err)
	assert.False(t, comp.log.Enabled("info"))
}

func TestInitializeComponents_MissingConfig(t *testing.T) {
	dir := isolate(t)

	_, err := initializeComponents(filepath.Join(dir, "nope.yml"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}
