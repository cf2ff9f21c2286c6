// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about chart layout, chart state changes, bar transitions,
// render exports and demo server requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, never by libraries, so the chart packages
// stay free of observability backends.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetChartHooks(&myChartHooks{})
//	    observability.SetHTTPHooks(&myHTTPHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Chart().OnLayout(id, bins, adjusted, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Chart Hooks
// =============================================================================

// ChartHooks receives events from histogram charts. Chart ids identify the
// emitting component. Charts are driven synchronously, so these hooks carry
// no context.
type ChartHooks interface {
	// OnLayout records a layout pass. adjusted is false for the provisional
	// pass computed before the axes were measured.
	OnLayout(id string, bins int, adjusted bool, duration time.Duration, err error)

	// OnStateChange records a transition between chart states.
	OnStateChange(id string, from, to string)

	// OnTransition records bar transitions started by one paint.
	OnTransition(id string, entered, updated, exited int)
}

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events from chart exports.
type RenderHooks interface {
	OnRenderStart(ctx context.Context, format string, values int)
	OnRenderComplete(ctx context.Context, format string, bytes int, duration time.Duration, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the demo server.
type HTTPHooks interface {
	// OnRequest records an incoming HTTP request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records a finished HTTP response.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopChartHooks is a no-op implementation of ChartHooks.
type NoopChartHooks struct{}

func (NoopChartHooks) OnLayout(string, int, bool, time.Duration, error) {}
func (NoopChartHooks) OnStateChange(string, string, string)             {}
func (NoopChartHooks) OnTransition(string, int, int, int)               {}

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnRenderStart(context.Context, string, int)                          {}
func (NoopRenderHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	chartHooks  ChartHooks  = NoopChartHooks{}
	renderHooks RenderHooks = NoopRenderHooks{}
	httpHooks   HTTPHooks   = NoopHTTPHooks{}
	hooksMu     sync.RWMutex
)

// SetChartHooks registers custom chart hooks.
// This should be called once at application startup before any chart is mounted.
func SetChartHooks(h ChartHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		chartHooks = h
	}
}

// SetRenderHooks registers custom render hooks.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before the server starts.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Chart returns the registered chart hooks.
func Chart() ChartHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return chartHooks
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
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
	chartHooks = NoopChartHooks{}
	renderHooks = NoopRenderHooks{}
	httpHooks = NoopHTTPHooks{}
}
