package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys.
const (
	attrAction    = "action"
	attrOperation = "operation"
	attrStatus    = "status"
	attrCode      = "code"
	attrMethod    = "method"
	attrPath      = "path"
)

// Metrics provides methods for recording observability metrics. The zero
// value is a no-op recorder.
type Metrics struct {
	// Action metrics
	actionInvocationsTotal metric.Int64Counter
	actionDuration         metric.Float64Histogram
	actionRetriesTotal     metric.Int64Counter

	// Calendar API metrics
	calendarAPIOperationsTotal   metric.Int64Counter
	calendarAPIOperationDuration metric.Float64Histogram

	// Schema derivation metrics
	schemaFallbacksTotal metric.Int64Counter

	// HTTP metrics
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram
}

// NewMetrics creates a Metrics instance with all instruments initialized.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.actionInvocationsTotal, err = meter.Int64Counter(
		"addon_action_invocations_total",
		metric.WithDescription("Total number of addon action invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create addon_action_invocations_total counter: %w", err)
	}

	m.actionDuration, err = meter.Float64Histogram(
		"addon_action_duration_seconds",
		metric.WithDescription("Addon action execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create addon_action_duration_seconds histogram: %w", err)
	}

	m.actionRetriesTotal, err = meter.Int64Counter(
		"addon_action_retries_total",
		metric.WithDescription("Total number of addon action retry attempts"),
		metric.WithUnit("{retry}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create addon_action_retries_total counter: %w", err)
	}

	m.calendarAPIOperationsTotal, err = meter.Int64Counter(
		"calendar_api_operations_total",
		metric.WithDescription("Total number of Calendar API operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar_api_operations_total counter: %w", err)
	}

	m.calendarAPIOperationDuration, err = meter.Float64Histogram(
		"calendar_api_operation_duration_seconds",
		metric.WithDescription("Calendar API operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar_api_operation_duration_seconds histogram: %w", err)
	}

	m.schemaFallbacksTotal, err = meter.Int64Counter(
		"tool_schema_fallbacks_total",
		metric.WithDescription("Total number of tool schema derivations that fell back to basic type mapping"),
		metric.WithUnit("{fallback}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tool_schema_fallbacks_total counter: %w", err)
	}

	m.httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordActionInvocation records an action invocation with its envelope code
// and duration.
func (m *Metrics) RecordActionInvocation(ctx context.Context, action, status string, code int, duration time.Duration) {
	if m.actionInvocationsTotal == nil || m.actionDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrAction, action),
		attribute.String(attrStatus, status),
		attribute.String(attrCode, strconv.Itoa(code)),
	}

	m.actionInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.actionDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordActionRetry records one retry attempt for an action.
func (m *Metrics) RecordActionRetry(ctx context.Context, action string) {
	if m.actionRetriesTotal == nil {
		return
	}

	m.actionRetriesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrAction, action),
	))
}

// RecordCalendarAPIOperation records a Calendar API operation with its
// outcome and duration. Operation is one of: list, insert, freebusy.
func (m *Metrics) RecordCalendarAPIOperation(ctx context.Context, operation, status string, duration time.Duration) {
	if m.calendarAPIOperationsTotal == nil || m.calendarAPIOperationDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}

	m.calendarAPIOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.calendarAPIOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordSchemaFallback records a schema derivation that fell back to the
// basic type mapping.
func (m *Metrics) RecordSchemaFallback(ctx context.Context, action string) {
	if m.schemaFallbacksTotal == nil {
		return
	}

	m.schemaFallbacksTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrAction, action),
	))
}

// RecordHTTPRequest records an HTTP request with method, path, status code,
// and duration.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	}

	m.httpRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.httpRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}
