// Package logging provides structured logging utilities for the calrooms addon.
//
// This package centralizes logging patterns to ensure consistent, structured
// logging throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - PII sanitization (calendar/attendee identifier hashing)
//   - Consistent attribute naming across the codebase
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithAction(slog.Default(), "google_calendars::list_events")
//	logger.Info("listing events", logging.Status("success"))
//
// Sanitize sensitive data before logging:
//
//	logger.Debug("loaded credential", "value", logging.SanitizeToken(token))
//
// # Security Considerations
//
// Calendar identifiers are usually e-mail addresses and are hashed before
// logging to prevent PII leakage while allowing correlation. Tokens are never
// logged directly.
package logging
