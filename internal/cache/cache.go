// Package cache persists the resource listings of each tenant so completion
// keeps working when the restQL API is unreachable.
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/NikitaCOEUR/restql-assist/internal/derrors"
	"github.com/NikitaCOEUR/restql-assist/internal/restql"
)

// Entry represents the cached resource listing of one tenant
type Entry struct {
	Tenant    string            `json:"tenant"`
	Resources []restql.Resource `json:"resources"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
}

// Names returns the resource names of the entry in order
func (e *Entry) Names() []string {
	names := make([]string, len(e.Resources))
	for i, r := range e.Resources {
		names[i] = r.Name
	}
	return names
}

// Cache manages persistent and in-memory cache
type Cache struct {
	path    string
	mu      sync.RWMutex
	entries map[string]*Entry
}

// New creates a new cache instance
func New(path string) (*Cache, error) {
	c := &Cache{
		path:    path,
		entries: make(map[string]*Entry),
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, derrors.NewCacheError(path, "failed to create cache directory", err)
	}

	if err := c.load(); err != nil && !os.IsNotExist(err) {
		return nil, derrors.NewCacheError(path, "failed to load cache", err)
	}

	return c, nil
}

// Path returns the file backing the cache
func (c *Cache) Path() string {
	return c.path
}

// Get retrieves the entry of tenant
func (c *Cache) Get(tenant string) (*Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, found := c.entries[tenant]
	return entry, found
}

// Set stores an entry in cache and persists it
func (c *Cache) Set(entry *Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[entry.Tenant] = entry
	return c.persist()
}

// Delete removes the entry of tenant
func (c *Cache) Delete(tenant string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, tenant)
	return c.persist()
}

// Clear removes all entries from cache
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*Entry)
	return c.persist()
}

// Tenants returns the number of cached tenants
func (c *Cache) Tenants() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// IsFresh reports whether the entry of tenant was written by version and is
// younger than ttl. A ttl of zero never expires.
func (c *Cache) IsFresh(tenant, version string, ttl time.Duration) bool {
	entry, found := c.Get(tenant)
	if !found || entry.Version != version {
		return false
	}
	if ttl <= 0 {
		return true
	}
	return time.Since(entry.Timestamp) < ttl
}

// load reads cache from disk
func (c *Cache) load() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return err
	}

	var entries map[string]*Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	if entries == nil {
		entries = make(map[string]*Entry)
	}

	c.entries = entries
	return nil
}

// persist writes cache to disk
func (c *Cache) persist() error {
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return derrors.NewCacheError(c.path, "failed to encode cache", err)
	}

	if err := os.WriteFile(c.path, data, 0600); err != nil {
		return derrors.NewCacheError(c.path, "failed to write cache", err)
	}
	return nil
}
