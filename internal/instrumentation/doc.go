// Package instrumentation provides OpenTelemetry instrumentation for the
// calrooms addon server.
//
// # Metrics
//
// The package exposes the following metric categories:
//
// Action Metrics:
//   - addon_action_invocations_total: Counter of action invocations by action, status, and envelope code
//   - addon_action_duration_seconds: Histogram of action execution durations
//   - addon_action_retries_total: Counter of retry attempts by action
//
// Calendar API Metrics:
//   - calendar_api_operations_total: Counter of Calendar API operations by operation and status
//   - calendar_api_operation_duration_seconds: Histogram of Calendar API operation durations
//
// Schema Metrics:
//   - tool_schema_fallbacks_total: Counter of tool schema derivations that fell back to basic type mapping
//
// Server/HTTP Metrics:
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//
// # Configuration
//
// Instrumentation can be configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: Metrics exporter type (prometheus, otlp, stdout, default: prometheus)
//   - TRACING_EXPORTER: Tracing exporter type (otlp, stdout, none, default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: calrooms)
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.Config{
//		ServiceName:    "calrooms",
//		ServiceVersion: "0.1.0",
//		Enabled:        true,
//	})
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	recorder := provider.Metrics()
//	recorder.RecordActionInvocation(ctx, "google_calendars::list_events", "success", 200, time.Since(start))
package instrumentation
