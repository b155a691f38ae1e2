package environment

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikitaCOEUR/restql-assist/internal/cache"
	"github.com/NikitaCOEUR/restql-assist/internal/completion"
	"github.com/NikitaCOEUR/restql-assist/internal/derrors"
	"github.com/NikitaCOEUR/restql-assist/internal/restql"
)

type fakeClient struct {
	mu           sync.Mutex
	tenants      []string
	tenantsErr   error
	resources    map[string][]restql.Resource
	resourcesErr error
	updateErr    error
	updates      []restql.Resource
	updateKeys   []string
	loads        []string
}

func (f *fakeClient) LoadTenants(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tenantsErr != nil {
		return nil, f.tenantsErr
	}
	return append([]string{}, f.tenants...), nil
}

func (f *fakeClient) LoadResources(ctx context.Context, tenant string) ([]restql.Resource, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads = append(f.loads, tenant)
	if f.resourcesErr != nil {
		return nil, f.resourcesErr
	}
	return append([]restql.Resource{}, f.resources[tenant]...), nil
}

func (f *fakeClient) UpdateResource(ctx context.Context, key, tenant string, r restql.Resource) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, r)
	f.updateKeys = append(f.updateKeys, key)
	list := f.resources[tenant]
	for i := range list {
		if list[i].Name == r.Name {
			list[i] = r
			return nil
		}
	}
	f.resources[tenant] = append(list, r)
	return nil
}

func (f *fakeClient) setTenants(tenants ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tenants = tenants
}

func newFake() *fakeClient {
	return &fakeClient{
		tenants: []string{"marvel", "dc", "image"},
		resources: map[string][]restql.Resource{
			"dc":     {{Name: "heroes", URL: "http://dc/heroes"}},
			"marvel": {{Name: "avengers", URL: "http://marvel/avengers"}, {Name: "xmen", URL: "http://marvel/xmen"}},
		},
	}
}

func TestManager_LoadTenants(t *testing.T) {
	m := NewManager(newFake())

	tenants := m.LoadTenants(context.Background())

	assert.Equal(t, []string{"dc", "image", "marvel"}, tenants)
	state := m.State()
	assert.Equal(t, 0, state.ActiveTenant)
	assert.Equal(t, "dc", state.Tenant)
	assert.False(t, state.LoadingTenants)
}

func TestManager_LoadTenants_Failure(t *testing.T) {
	client := newFake()
	client.tenantsErr = errors.New("connection refused")
	m := NewManager(client)

	tenants := m.LoadTenants(context.Background())

	assert.NotNil(t, tenants)
	assert.Empty(t, tenants)
	assert.Empty(t, m.State().Tenants)
	assert.Equal(t, "", m.State().Tenant)
}

func TestManager_SetActiveTenant(t *testing.T) {
	client := newFake()
	m := NewManager(client)
	m.LoadTenants(context.Background())

	resources, err := m.SetActiveTenant(context.Background(), 2)
	require.NoError(t, err)

	state := m.State()
	assert.Equal(t, 2, state.ActiveTenant)
	assert.Equal(t, "marvel", state.Tenant)
	assert.Len(t, resources, 2)
	assert.Equal(t, []string{"avengers", "xmen"}, m.ResourceNames())

	_, err = m.SetActiveTenant(context.Background(), 3)
	var nf *derrors.NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestManager_SetActiveTenant_AfterTenantListShrinks(t *testing.T) {
	client := newFake()
	m := NewManager(client)
	m.LoadTenants(context.Background())

	client.setTenants("dc")
	m.LoadTenants(context.Background())

	var notified int
	m.Subscribe(func(State) { notified++ })

	var resources []restql.Resource
	var err error
	require.NotPanics(t, func() {
		resources, err = m.SetActiveTenant(context.Background(), 2)
	})

	var nf *derrors.NotFoundError
	assert.True(t, errors.As(err, &nf))
	assert.Nil(t, resources)
	assert.Zero(t, notified)
	assert.Equal(t, "dc", m.State().Tenant)
}

func TestManager_SetActiveTenant_ConcurrentReload(t *testing.T) {
	client := newFake()
	m := NewManager(client)
	ctx := context.Background()
	m.LoadTenants(ctx)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			if i%2 == 0 {
				client.setTenants("dc")
			} else {
				client.setTenants("marvel", "dc", "image")
			}
			m.LoadTenants(ctx)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_, err := m.SetActiveTenant(ctx, 2)
			if err != nil {
				var nf *derrors.NotFoundError
				assert.True(t, errors.As(err, &nf))
			}
		}
	}()
	wg.Wait()

	state := m.State()
	assert.Less(t, state.ActiveTenant, len(state.Tenants))
}

func TestManager_SetTenant(t *testing.T) {
	m := NewManager(newFake())
	m.LoadTenants(context.Background())

	m.SetTenant("marvel")
	assert.Equal(t, 2, m.State().ActiveTenant)

	m.SetTenant("unlisted")
	state := m.State()
	assert.Equal(t, "unlisted", state.Tenant)
	assert.Equal(t, 2, state.ActiveTenant)
}

func TestManager_LoadResources_NoTenant(t *testing.T) {
	client := newFake()
	m := NewManager(client)

	resources := m.LoadResources(context.Background())

	assert.Empty(t, resources)
	assert.Empty(t, client.loads)
}

func TestManager_LoadResources_FailureWithoutCache(t *testing.T) {
	client := newFake()
	m := NewManager(client)
	m.LoadTenants(context.Background())
	client.resourcesErr = errors.New("boom")

	resources := m.LoadResources(context.Background())

	assert.NotNil(t, resources)
	assert.Empty(t, resources)
	assert.False(t, m.State().FromCache)
}

func TestManager_LoadResources_FallsBackToCache(t *testing.T) {
	c, err := cache.New(filepath.Join(t.TempDir(), "resources.json"))
	require.NoError(t, err)

	client := newFake()
	m := NewManager(client, WithCache(c), WithVersion("1.0.0"))
	m.LoadTenants(context.Background())

	loaded := m.LoadResources(context.Background())
	require.Len(t, loaded, 1)

	entry, ok := c.Get("dc")
	require.True(t, ok)
	assert.Equal(t, "1.0.0", entry.Version)

	client.resourcesErr = errors.New("unreachable")
	resources := m.LoadResources(context.Background())

	assert.Equal(t, loaded, resources)
	assert.True(t, m.State().FromCache)
}

func TestManager_EnsureResources(t *testing.T) {
	c, err := cache.New(filepath.Join(t.TempDir(), "resources.json"))
	require.NoError(t, err)
	require.NoError(t, c.Set(&cache.Entry{
		Tenant:    "dc",
		Resources: []restql.Resource{{Name: "cached"}},
		Timestamp: time.Now(),
		Version:   "1.0.0",
	}))

	client := newFake()
	m := NewManager(client, WithCache(c), WithVersion("1.0.0"))
	m.SetTenant("dc")

	resources := m.EnsureResources(context.Background(), time.Hour)
	assert.Equal(t, []restql.Resource{{Name: "cached"}}, resources)
	assert.Empty(t, client.loads)

	m2 := NewManager(client, WithCache(c), WithVersion("2.0.0"))
	m2.SetTenant("dc")
	resources = m2.EnsureResources(context.Background(), time.Hour)
	assert.Equal(t, []string{"heroes"}, m2.ResourceNames())
	assert.Len(t, resources, 1)
	assert.Equal(t, []string{"dc"}, client.loads)
}

func TestManager_SaveResource(t *testing.T) {
	client := newFake()
	m := NewManager(client)
	m.LoadTenants(context.Background())
	m.LoadResources(context.Background())

	m.SelectResource(restql.Resource{Name: "heroes", URL: "http://dc/heroes"})
	assert.True(t, m.State().ShowSaveModal)

	m.SetResourceName("villains")
	m.SetResourceURL("http://dc/villains")
	m.SetAuthorizationKey("secret")

	require.NoError(t, m.SaveResource(context.Background()))

	state := m.State()
	assert.Equal(t, ResourceUpdated, state.Message)
	assert.Empty(t, state.Error)
	assert.Equal(t, []restql.Resource{{Name: "villains", URL: "http://dc/villains"}}, client.updates)
	assert.Equal(t, []string{"secret"}, client.updateKeys)
	assert.Equal(t, []string{"heroes", "villains"}, m.ResourceNames())
}

func TestManager_SaveResource_Error(t *testing.T) {
	client := newFake()
	client.updateErr = derrors.NewAPIError("http://api/resources/dc/x", 401, "unauthorized", nil)
	m := NewManager(client)
	m.LoadTenants(context.Background())
	loadsBefore := len(client.loads)

	err := m.SaveResource(context.Background())
	require.Error(t, err)

	state := m.State()
	assert.Equal(t, "unauthorized", state.Error)
	assert.Empty(t, state.Message)
	assert.Len(t, client.loads, loadsBefore, "resources are not reloaded after a failed save")
}

func TestManager_ToggleSaveModal(t *testing.T) {
	m := NewManager(newFake())

	m.ToggleSaveModal()
	assert.True(t, m.State().ShowSaveModal)
	m.ToggleSaveModal()
	assert.False(t, m.State().ShowSaveModal)
}

func TestManager_Subscribe(t *testing.T) {
	m := NewManager(newFake())

	var snapshots []State
	unsubscribe := m.Subscribe(func(s State) {
		snapshots = append(snapshots, s)
	})

	m.LoadTenants(context.Background())
	require.Len(t, snapshots, 2)
	assert.True(t, snapshots[0].LoadingTenants)
	assert.False(t, snapshots[1].LoadingTenants)
	assert.Equal(t, "dc", snapshots[1].Tenant)

	// Snapshots do not alias manager state
	snapshots[1].Tenants[0] = "changed"
	assert.Equal(t, "dc", m.State().Tenants[0])

	unsubscribe()
	m.ToggleSaveModal()
	assert.Len(t, snapshots, 2)
}

func TestManager_SetAuthorizationKey(t *testing.T) {
	m := NewManager(newFake())
	m.SetAuthorizationKey("secret")

	assert.Equal(t, "secret", m.State().AuthorizationKey)
}

func TestManager_IsCatalog(t *testing.T) {
	m := NewManager(newFake())
	m.LoadTenants(context.Background())
	m.LoadResources(context.Background())

	var catalog completion.Catalog = m
	assert.Equal(t, []string{"heroes"}, catalog.ResourceNames())
}
