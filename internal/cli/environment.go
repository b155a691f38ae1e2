package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/NikitaCOEUR/restql-assist/internal/derrors"
	"github.com/NikitaCOEUR/restql-assist/internal/restql"
)

// TenantsParams contains parameters for the Tenants command
type TenantsParams struct {
	ConfigPath string
	LogLevel   string
	Output     io.Writer
	Format     string
	Template   string
}

// Tenants lists the tenants known to the API, sorted
func Tenants(ctx context.Context, params TenantsParams) error {
	format, err := ParseFormat(params.Format)
	if err != nil {
		return err
	}

	comp, err := initializeComponents(params.ConfigPath, params.LogLevel)
	if err != nil {
		return err
	}
	if err := requireBaseURL(comp); err != nil {
		return err
	}

	tenants, err := comp.client().LoadTenants(ctx)
	if err != nil {
		return fmt.Errorf("failed to load tenants: %w", err)
	}
	sort.Strings(tenants)

	return writeFormatted(output(params.Output), format, params.Template, tenants, func() string {
		if len(tenants) == 0 {
			return ""
		}
		return strings.Join(tenants, "\n") + "\n"
	})
}

// ResourcesParams contains parameters for the Resources command
type ResourcesParams struct {
	ConfigPath string
	LogLevel   string
	Output     io.Writer
	// Tenant defaults to the first listed tenant, then the first cached one
	Tenant   string
	Format   string
	Template string
}

// Resources lists the resource mappings of a tenant. When the API fails the
// cached listing is printed instead.
func Resources(ctx context.Context, params ResourcesParams) error {
	format, err := ParseFormat(params.Format)
	if err != nil {
		return err
	}

	comp, err := initializeComponents(params.ConfigPath, params.LogLevel)
	if err != nil {
		return err
	}
	if err := requireBaseURL(comp); err != nil {
		return err
	}

	manager := comp.manager()
	if !comp.selectTenant(ctx, manager, params.Tenant) {
		return derrors.NewNotFoundError("tenant", "no tenant available")
	}

	resources := manager.LoadResources(ctx)
	state := manager.State()
	if state.FromCache {
		comp.log.Warn().Str("tenant", state.Tenant).Msg("API unavailable, showing cached resources")
	}

	return writeFormatted(output(params.Output), format, params.Template, resources, func() string {
		var b strings.Builder
		for _, r := range resources {
			fmt.Fprintf(&b, "%s\t%s\n", r.Name, r.URL)
		}
		return b.String()
	})
}

// SaveResourceParams contains parameters for the SaveResource command
type SaveResourceParams struct {
	ConfigPath string
	LogLevel   string
	Output     io.Writer
	Tenant     string
	Name       string
	URL        string
	// AuthorizationKey defaults to api.authorization_key
	AuthorizationKey string
}

// SaveResource points a resource of a tenant at a new URL
func SaveResource(ctx context.Context, params SaveResourceParams) error {
	if params.Tenant == "" {
		return derrors.NewValidationError("tenant", "--tenant is required", nil)
	}
	if params.Name == "" {
		return derrors.NewValidationError("name", "--name is required", nil)
	}

	comp, err := initializeComponents(params.ConfigPath, params.LogLevel)
	if err != nil {
		return err
	}
	if err := requireBaseURL(comp); err != nil {
		return err
	}

	key := params.AuthorizationKey
	if key == "" {
		key = comp.config.API.AuthorizationKey
	}

	manager := comp.manager()
	manager.SetTenant(params.Tenant)
	manager.SelectResource(restql.Resource{Name: params.Name, URL: params.URL})
	manager.SetAuthorizationKey(key)

	if err := manager.SaveResource(ctx); err != nil {
		return fmt.Errorf("failed to save resource %s: %w", params.Name, err)
	}

	_, err = fmt.Fprintln(output(params.Output), manager.State().Message)
	return err
}

func requireBaseURL(comp *components) error {
	if comp.config.API.BaseURL == "" {
		return derrors.NewConfigurationError("api.base_url", "api.base_url is not configured (set it in the config file or RESTQL_ASSIST_API__BASE_URL)", nil)
	}
	return nil
}
