// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about edit transactions, document storage, and API calls.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetEditHooks(&myEditHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Edit().OnTransaction("Draw", 4, "structure", elapsed)
//	observability.Store().OnPut(ctx, "redis", id, len(data), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Edit Hooks
// =============================================================================

// EditHooks receives events from the editor. Edits are synchronous and carry
// no context.
type EditHooks interface {
	// OnTransaction records a committed top-level transaction.
	OnTransaction(text string, commands int, effect string, duration time.Duration)

	// OnRollback records a transaction discarded because it failed.
	OnRollback(text string, err error)

	// OnMerge records a command folded into the previous history entry.
	OnMerge(kind string)

	// OnUndo records an undone history entry.
	OnUndo(text string)

	// OnRedo records a redone history entry.
	OnRedo(text string)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from document stores.
type StoreHooks interface {
	// OnGet records a document lookup. found is false on a miss.
	OnGet(ctx context.Context, backend, id string, found bool, err error)

	// OnPut records a document write.
	OnPut(ctx context.Context, backend, id string, size int, err error)

	// OnDelete records a document removal.
	OnDelete(ctx context.Context, backend, id string, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, route string)

	// OnResponse records the response to a request.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEditHooks is a no-op implementation of EditHooks.
type NoopEditHooks struct{}

func (NoopEditHooks) OnTransaction(string, int, string, time.Duration) {}
func (NoopEditHooks) OnRollback(string, error)                         {}
func (NoopEditHooks) OnMerge(string)                                   {}
func (NoopEditHooks) OnUndo(string)                                    {}
func (NoopEditHooks) OnRedo(string)                                    {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnGet(context.Context, string, string, bool, error) {}
func (NoopStoreHooks) OnPut(context.Context, string, string, int, error)  {}
func (NoopStoreHooks) OnDelete(context.Context, string, string, error)    {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	editHooks  EditHooks  = NoopEditHooks{}
	storeHooks StoreHooks = NoopStoreHooks{}
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	hooksMu    sync.RWMutex
)

// SetEditHooks registers custom edit hooks.
// This should be called once at application startup before any editing.
func SetEditHooks(h EditHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		editHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any store operations.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before serving requests.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Edit returns the registered edit hooks.
func Edit() EditHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return editHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	editHooks = NoopEditHooks{}
	storeHooks = NoopStoreHooks{}
	httpHooks = NoopHTTPHooks{}
}
