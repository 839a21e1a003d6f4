// Package actions implements the calendar actions exposed by the addon:
// listing events, creating events, and querying free/busy availability.
//
// Every action returns a Response envelope carrying the payload, a token
// accounting block, a human-readable message, and an HTTP-style code.
// Validation failures and upstream API errors are reported inside the
// envelope with a nil Go error; a non-nil error is reserved for
// transport-level failures so callers can retry them.
package actions
