// Package environment keeps the tenant and resource state an editor shows
// next to a restQL query, and pushes every change to its subscribers.
package environment

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/NikitaCOEUR/restql-assist/internal/cache"
	"github.com/NikitaCOEUR/restql-assist/internal/derrors"
	"github.com/NikitaCOEUR/restql-assist/internal/logger"
	"github.com/NikitaCOEUR/restql-assist/internal/restql"
)

// ResourceUpdated is the status message recorded after a successful save
const ResourceUpdated = "Resource updated!"

// State is a snapshot of the environment
type State struct {
	Tenants          []string          `json:"tenants" yaml:"tenants"`
	ActiveTenant     int               `json:"active_tenant" yaml:"active_tenant"`
	Tenant           string            `json:"tenant" yaml:"tenant"`
	Resources        []restql.Resource `json:"resources" yaml:"resources"`
	ActiveResource   restql.Resource   `json:"active_resource" yaml:"active_resource"`
	AuthorizationKey string            `json:"-" yaml:"-"`
	LoadingTenants   bool              `json:"loading_tenants" yaml:"loading_tenants"`
	LoadingResources bool              `json:"loading_resources" yaml:"loading_resources"`
	ShowSaveModal    bool              `json:"show_save_modal" yaml:"show_save_modal"`
	// FromCache is set when Resources were served from the resource cache
	FromCache bool `json:"from_cache" yaml:"from_cache"`
	// Message and Error hold the outcome of the last save
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

func (s State) clone() State {
	s.Tenants = append([]string(nil), s.Tenants...)
	s.Resources = append([]restql.Resource(nil), s.Resources...)
	return s
}

// Listener receives a snapshot after every state change
type Listener func(State)

// Manager owns the environment state. It is safe for concurrent use.
type Manager struct {
	client  restql.Client
	cache   *cache.Cache
	version string
	log     *logger.Logger

	mu        sync.RWMutex
	state     State
	listeners map[int]Listener
	nextID    int
}

// Option configures a Manager
type Option func(*Manager)

// WithCache stores successful resource listings and serves them when the API fails
func WithCache(c *cache.Cache) Option {
	return func(m *Manager) {
		m.cache = c
	}
}

// WithVersion sets the version written to cache entries
func WithVersion(v string) Option {
	return func(m *Manager) {
		m.version = v
	}
}

// WithLogger sets the logger
func WithLogger(l *logger.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// NewManager creates a manager backed by client
func NewManager(client restql.Client, opts ...Option) *Manager {
	m := &Manager{
		client:    client,
		log:       logger.Nop(),
		listeners: make(map[int]Listener),
		state: State{
			Tenants:   []string{},
			Resources: []restql.Resource{},
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns a snapshot of the current state
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.clone()
}

// Subscribe registers fn for state changes and returns a function removing it
func (m *Manager) Subscribe(fn Listener) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

// update applies fn under the lock then notifies listeners outside of it
func (m *Manager) update(fn func(*State)) {
	_ = m.apply(func(s *State) error {
		fn(s)
		return nil
	})
}

// apply is update for changes that can be refused. When fn returns an error
// listeners are not notified.
func (m *Manager) apply(fn func(*State) error) error {
	m.mu.Lock()
	if err := fn(&m.state); err != nil {
		m.mu.Unlock()
		return err
	}
	snapshot := m.state.clone()
	listeners := make([]Listener, 0, len(m.listeners))
	ids := make([]int, 0, len(m.listeners))
	for id := range m.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		listeners = append(listeners, m.listeners[id])
	}
	m.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
	return nil
}

// LoadTenants fetches and sorts the tenants. The first tenant becomes active.
// A failed call leaves an empty tenant list.
func (m *Manager) LoadTenants(ctx context.Context) []string {
	m.update(func(s *State) { s.LoadingTenants = true })

	tenants, err := m.client.LoadTenants(ctx)
	if err != nil {
		m.log.Warn().Err(err).Msg("Failed to load tenants")
		tenants = nil
	}

	sorted := append([]string{}, tenants...)
	sort.Strings(sorted)

	m.update(func(s *State) {
		s.LoadingTenants = false
		s.Tenants = sorted
		if len(sorted) > 0 {
			s.ActiveTenant = 0
			s.Tenant = sorted[0]
		}
	})

	m.log.Debug().Strs("tenants", sorted).Msg("Loaded tenants")
	return append([]string{}, sorted...)
}

// SetActiveTenant selects the tenant at index and reloads its resources
func (m *Manager) SetActiveTenant(ctx context.Context, index int) ([]restql.Resource, error) {
	err := m.apply(func(s *State) error {
		if index < 0 || index >= len(s.Tenants) {
			return derrors.NewNotFoundError("tenant", "no tenant at that index")
		}
		s.ActiveTenant = index
		s.Tenant = s.Tenants[index]
		return nil
	})
	if err != nil {
		return nil, err
	}

	return m.LoadResources(ctx), nil
}

// SetTenant selects a tenant by name, whether or not it was listed
func (m *Manager) SetTenant(name string) {
	m.update(func(s *State) {
		s.Tenant = name
		for i, t := range s.Tenants {
			if t == name {
				s.ActiveTenant = i
				break
			}
		}
	})
}

// currentTenant returns the selected tenant, falling back to the active index
func currentTenant(s *State) string {
	if s.Tenant != "" {
		return s.Tenant
	}
	if s.ActiveTenant >= 0 && s.ActiveTenant < len(s.Tenants) {
		return s.Tenants[s.ActiveTenant]
	}
	return ""
}

// LoadResources clears and reloads the resources of the current tenant. A
// failed call serves the cached listing when there is one, an empty list
// otherwise.
func (m *Manager) LoadResources(ctx context.Context) []restql.Resource {
	var tenant string
	m.update(func(s *State) {
		tenant = currentTenant(s)
		s.Resources = []restql.Resource{}
		s.FromCache = false
		s.LoadingResources = true
	})

	resources, fromCache := m.fetchResources(ctx, tenant)

	m.update(func(s *State) {
		s.LoadingResources = false
		s.Resources = resources
		s.FromCache = fromCache
	})

	return append([]restql.Resource{}, resources...)
}

// EnsureResources serves the cached listing of the current tenant when it is
// younger than ttl and reloads from the API otherwise
func (m *Manager) EnsureResources(ctx context.Context, ttl time.Duration) []restql.Resource {
	m.mu.RLock()
	tenant := currentTenant(&m.state)
	m.mu.RUnlock()

	if m.cache != nil && tenant != "" && m.cache.IsFresh(tenant, m.version, ttl) {
		if entry, ok := m.cache.Get(tenant); ok {
			resources := append([]restql.Resource{}, entry.Resources...)
			m.update(func(s *State) {
				s.Resources = resources
				s.FromCache = true
			})
			m.log.Debug().Str("tenant", tenant).Msg("Using cached resources")
			return append([]restql.Resource{}, resources...)
		}
	}

	return m.LoadResources(ctx)
}

func (m *Manager) fetchResources(ctx context.Context, tenant string) ([]restql.Resource, bool) {
	if tenant == "" {
		return []restql.Resource{}, false
	}

	resources, err := m.client.LoadResources(ctx, tenant)
	if err != nil {
		m.log.Warn().Err(err).Str("tenant", tenant).Msg("Failed to load resources")
		if m.cache != nil {
			if entry, ok := m.cache.Get(tenant); ok {
				return append([]restql.Resource{}, entry.Resources...), true
			}
		}
		return []restql.Resource{}, false
	}
	if resources == nil {
		resources = []restql.Resource{}
	}

	if m.cache != nil {
		entry := &cache.Entry{
			Tenant:    tenant,
			Resources: append([]restql.Resource{}, resources...),
			Timestamp: time.Now(),
			Version:   m.version,
		}
		if err := m.cache.Set(entry); err != nil {
			m.log.Warn().Err(err).Msg("Failed to cache resources")
		}
	}

	m.log.Debug().Str("tenant", tenant).Int("resources", len(resources)).Msg("Loaded resources")
	return resources, false
}

// SelectResource makes r the resource being edited and toggles the save modal
func (m *Manager) SelectResource(r restql.Resource) {
	m.update(func(s *State) {
		s.ActiveResource = r
		s.ShowSaveModal = !s.ShowSaveModal
	})
}

// ToggleSaveModal shows or hides the save modal
func (m *Manager) ToggleSaveModal() {
	m.update(func(s *State) { s.ShowSaveModal = !s.ShowSaveModal })
}

// SetResourceName edits the name of the active resource
func (m *Manager) SetResourceName(name string) {
	m.update(func(s *State) { s.ActiveResource.Name = name })
}

// SetResourceURL edits the URL of the active resource
func (m *Manager) SetResourceURL(url string) {
	m.update(func(s *State) { s.ActiveResource.URL = url })
}

// SetAuthorizationKey sets the key sent with updates
func (m *Manager) SetAuthorizationKey(key string) {
	m.update(func(s *State) { s.AuthorizationKey = key })
}

// SaveResource sends the active resource to the API. On success the
// resources are reloaded.
func (m *Manager) SaveResource(ctx context.Context) error {
	m.mu.RLock()
	key := m.state.AuthorizationKey
	tenant := m.state.Tenant
	resource := m.state.ActiveResource
	m.mu.RUnlock()

	if err := m.client.UpdateResource(ctx, key, tenant, resource); err != nil {
		m.update(func(s *State) {
			s.Message = ""
			s.Error = err.Error()
		})
		return err
	}

	m.update(func(s *State) {
		s.Message = ResourceUpdated
		s.Error = ""
	})
	m.log.Info().Str("tenant", tenant).Str("resource", resource.Name).Msg(ResourceUpdated)

	m.LoadResources(ctx)
	return nil
}

// ResourceNames returns the names of the loaded resources
func (m *Manager) ResourceNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, len(m.state.Resources))
	for i, r := range m.state.Resources {
		names[i] = r.Name
	}
	return names
}
