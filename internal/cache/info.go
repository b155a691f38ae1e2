package cache

import (
	"encoding/json"
	"os"
	"sort"
)

// Info contains information about the cache file
type Info struct {
	Path         string   `json:"path" yaml:"path"`
	Size         int64    `json:"size" yaml:"size"`
	TotalEntries int      `json:"total_entries" yaml:"total_entries"`
	Tenants      []string `json:"tenants" yaml:"tenants"`
}

// GetCacheInfo returns information about the cache file
func GetCacheInfo(cachePath string) (*Info, error) {
	info, err := os.Stat(cachePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &Info{Path: cachePath, Tenants: []string{}}, nil
		}
		return nil, err
	}

	result := &Info{
		Path:    cachePath,
		Size:    info.Size(),
		Tenants: []string{},
	}

	data, err := os.ReadFile(cachePath)
	if err != nil {
		return result, nil // Return partial info
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return result, nil // Return partial info
	}

	result.TotalEntries = len(entries)
	for tenant := range entries {
		result.Tenants = append(result.Tenants, tenant)
	}
	sort.Strings(result.Tenants)

	return result, nil
}
