package instrumentation

import (
	"context"
	"testing"
	"time"
)

func newTestProvider(t *testing.T, ctx context.Context) *Provider {
	t.Helper()

	provider, err := NewProvider(ctx, Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: ExporterPrometheus,
		TracingExporter: ExporterNone,
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	t.Cleanup(func() { _ = provider.Shutdown(ctx) })

	return provider
}

func TestMetrics_RecordActionInvocation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metrics := newTestProvider(t, ctx).Metrics()
	if metrics == nil {
		t.Fatal("expected metrics to be non-nil")
	}

	// Should not panic
	metrics.RecordActionInvocation(ctx, "google_calendars::list_events", StatusSuccess, 200, 100*time.Millisecond)
	metrics.RecordActionInvocation(ctx, "google_calendars::create_events", StatusError, 400, 5*time.Millisecond)
	metrics.RecordActionInvocation(ctx, "google_calendars::freebusy_query", StatusError, 503, 10*time.Second)
}

func TestMetrics_RecordCalendarAPIOperation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metrics := newTestProvider(t, ctx).Metrics()

	// Should not panic
	metrics.RecordCalendarAPIOperation(ctx, "list", StatusSuccess, 200*time.Millisecond)
	metrics.RecordCalendarAPIOperation(ctx, "insert", StatusError, 500*time.Millisecond)
	metrics.RecordCalendarAPIOperation(ctx, "freebusy", StatusSuccess, 100*time.Millisecond)
}

func TestMetrics_RecordActionRetryAndFallback(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metrics := newTestProvider(t, ctx).Metrics()

	// Should not panic
	metrics.RecordActionRetry(ctx, "google_calendars::list_events")
	metrics.RecordSchemaFallback(ctx, "google_calendars::create_events")
}

func TestMetrics_RecordHTTPRequest(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metrics := newTestProvider(t, ctx).Metrics()

	// Should not panic
	metrics.RecordHTTPRequest(ctx, "GET", "/healthz", 200, 100*time.Millisecond)
	metrics.RecordHTTPRequest(ctx, "POST", "/mcp", 500, 50*time.Millisecond)
}
