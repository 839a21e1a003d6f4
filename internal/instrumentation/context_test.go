package instrumentation

import (
	"context"
	"testing"
	"time"
)

func TestMetricsFromContextRoundTrip(t *testing.T) {
	m := &Metrics{}
	ctx := ContextWithMetrics(context.Background(), m)

	if got := MetricsFromContext(ctx); got != m {
		t.Errorf("MetricsFromContext() = %p, want %p", got, m)
	}
}

func TestMetricsFromContextWithoutRecorder(t *testing.T) {
	m := MetricsFromContext(context.Background())
	if m == nil {
		t.Fatal("MetricsFromContext() returned nil")
	}

	// The fallback recorder must be safe to use.
	ctx := context.Background()
	m.RecordCalendarAPIOperation(ctx, "list", StatusSuccess, time.Second)
	m.RecordHTTPRequest(ctx, "GET", "/metrics", 200, time.Millisecond)
}

func TestContextWithNilMetricsLeavesContextUntouched(t *testing.T) {
	ctx := context.Background()
	if got := ContextWithMetrics(ctx, nil); got != ctx {
		t.Error("ContextWithMetrics(nil) should return the context unchanged")
	}
}
