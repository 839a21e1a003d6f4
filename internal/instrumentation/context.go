package instrumentation

import "context"

type metricsContextKey struct{}

// noopMetrics is handed out when a context carries no recorder; all of its
// recorders are no-ops.
var noopMetrics = &Metrics{}

// ContextWithMetrics attaches a metrics recorder to the context so lower
// layers can record without explicit plumbing through every call chain.
func ContextWithMetrics(ctx context.Context, m *Metrics) context.Context {
	if m == nil {
		return ctx
	}
	return context.WithValue(ctx, metricsContextKey{}, m)
}

// MetricsFromContext returns the recorder attached to the context, or a
// no-op recorder when none is attached. Never returns nil.
func MetricsFromContext(ctx context.Context) *Metrics {
	if m, ok := ctx.Value(metricsContextKey{}).(*Metrics); ok && m != nil {
		return m
	}
	return noopMetrics
}
