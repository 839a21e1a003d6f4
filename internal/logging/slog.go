package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
)

// Common log attribute keys for consistent naming across the codebase.
const (
	KeyAction    = "action"
	KeyAddonType = "addon_type"
	KeyOperation = "operation"
	KeyDuration  = "duration"
	KeyStatus    = "status"
	KeyError     = "error"
	KeyParam     = "param"
	KeyCalendar  = "calendar_hash"
)

// Status values for consistent logging.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// WithAction returns a logger with the action attribute set.
func WithAction(logger *slog.Logger, action string) *slog.Logger {
	return logger.With(slog.String(KeyAction, action))
}

// WithAddonType returns a logger with the addon type attribute set.
func WithAddonType(logger *slog.Logger, addonType string) *slog.Logger {
	return logger.With(slog.String(KeyAddonType, strings.ToUpper(addonType)))
}

// Action returns a slog attribute for the action name.
func Action(name string) slog.Attr {
	return slog.String(KeyAction, name)
}

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Param returns a slog attribute for a parameter name.
func Param(name string) slog.Attr {
	return slog.String(KeyParam, name)
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Err returns a slog attribute for an error.
// If err is nil, returns an empty Group attribute that will be omitted from output.
// This allows safely passing Err(maybeNilErr) without adding empty attributes.
func Err(err error) slog.Attr {
	if err == nil {
		// Return an empty Group that slog will omit from output
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// AnonymizeID returns a hashed representation of a calendar or attendee
// identifier for logging purposes. Calendar IDs are usually e-mail addresses,
// so hashing allows correlation of log entries without exposing PII.
func AnonymizeID(id string) string {
	if id == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(id))
	return "cal:" + hex.EncodeToString(hash[:8])
}

// Calendar returns a slog attribute with the anonymized calendar identifier.
func Calendar(id string) slog.Attr {
	return slog.String(KeyCalendar, AnonymizeID(id))
}

// SanitizeToken returns a masked version of a token for logging.
// It returns a length indicator without exposing any token content,
// as even partial token prefixes can aid attacks.
func SanitizeToken(token string) string {
	if token == "" {
		return "<empty>"
	}
	return fmt.Sprintf("[token:%d chars]", len(token))
}
