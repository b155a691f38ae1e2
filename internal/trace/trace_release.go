//go:build !dev

package trace

import "context"

// EnvVar is read by dev builds only
const EnvVar = "RESTQL_ASSIST_TRACE"

// Init does nothing without the dev tag
func Init() func() {
	return func() {}
}

// WithRegion runs f
func WithRegion(_ context.Context, _ string, f func()) {
	f()
}

// IsEnabled is always false without the dev tag
func IsEnabled() bool {
	return false
}
