//go:build dev

// Package trace records runtime/trace regions around tokenize, highlight and
// complete. Only builds tagged dev record anything:
//
//	go build -tags dev ./cmd/restql-assist
//	RESTQL_ASSIST_TRACE=trace.out restql-assist complete --pos end query.rql
//	go tool trace trace.out
package trace

import (
	"context"
	"fmt"
	"os"
	"runtime/trace"
	"sync"
	"sync/atomic"
)

// EnvVar names the environment variable holding the trace output path
const EnvVar = "RESTQL_ASSIST_TRACE"

var (
	mu     sync.Mutex
	out    *os.File
	active atomic.Bool
)

// Init starts a trace into $RESTQL_ASSIST_TRACE and returns the function
// that stops it. Failures are reported on stderr and leave tracing off.
func Init() func() {
	path := os.Getenv(EnvVar)
	if path == "" {
		return func() {}
	}

	mu.Lock()
	defer mu.Unlock()

	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "restql-assist: trace disabled: %v\n", err)
		return func() {}
	}
	if err := trace.Start(f); err != nil {
		fmt.Fprintf(os.Stderr, "restql-assist: trace disabled: %v\n", err)
		_ = f.Close()
		return func() {}
	}

	out = f
	active.Store(true)
	fmt.Fprintf(os.Stderr, "restql-assist: tracing to %s\n", path)

	return stop
}

func stop() {
	mu.Lock()
	defer mu.Unlock()

	if active.Swap(false) {
		trace.Stop()
	}
	if out != nil {
		_ = out.Close()
		out = nil
	}
}

// WithRegion runs f, inside a region named name while a trace is running
func WithRegion(ctx context.Context, name string, f func()) {
	if !active.Load() {
		f()
		return
	}
	trace.WithRegion(ctx, name, f)
}

// IsEnabled reports whether a trace is being recorded
func IsEnabled() bool {
	return active.Load()
}
