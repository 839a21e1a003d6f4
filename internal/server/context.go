package server

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/fbenoist/calrooms/internal/addon"
	"github.com/fbenoist/calrooms/internal/instrumentation"
)

// ServerContext holds the shared state of the MCP server: the addon with
// its registered tools, the metrics recorder, and the tracer.
type ServerContext struct {
	ctx      context.Context
	cancel   context.CancelFunc
	addon    *addon.Addon
	metrics  *instrumentation.Metrics
	tracer   trace.Tracer
	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext creates a new server context wrapping the given addon.
func NewServerContext(ctx context.Context, a *addon.Addon) *ServerContext {
	shutdownCtx, cancel := context.WithCancel(ctx)
	return &ServerContext{
		ctx:    shutdownCtx,
		cancel: cancel,
		addon:  a,
	}
}

// Context returns the server context.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Addon returns the addon driving the registered tools.
func (sc *ServerContext) Addon() *addon.Addon {
	return sc.addon
}

// SetMetrics sets the metrics recorder used for tool instrumentation.
func (sc *ServerContext) SetMetrics(m *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = m
}

// Metrics returns the metrics recorder, or nil when instrumentation is off.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetTracer sets the tracer used to span tool invocations.
func (sc *ServerContext) SetTracer(tr trace.Tracer) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.tracer = tr
}

// Tracer returns the configured tracer, or a no-op tracer when none is set.
func (sc *ServerContext) Tracer() trace.Tracer {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	if sc.tracer == nil {
		return noop.NewTracerProvider().Tracer("server")
	}
	return sc.tracer
}

// IsShutdown returns whether the server has been shutdown.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
