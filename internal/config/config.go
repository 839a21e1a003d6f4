package config

import (
	"encoding/json"
	"fmt"
	"time"
)

// Bounds for validated configuration values.
const (
	MinMaxResults = 1
	MaxMaxResults = 250

	MinRequestTimeoutS = 1
	MaxRequestTimeoutS = 60

	// MaxTimeWindowDays caps the forward time window at five years.
	MaxTimeWindowDays = 365 * 5
)

// AccessTokenSecret is the secret key carrying the calendar API bearer token.
const AccessTokenSecret = "access_token"

// AddonConfig holds the addon configuration supplied by the host system.
// Field names follow the host's configuration payload.
type AddonConfig struct {
	// DefaultCalendarID is used when an action is called without a calendar ID.
	DefaultCalendarID string `json:"default_calendar_id"`

	// DefaultMaxResults caps event listings when no explicit limit is given.
	DefaultMaxResults int64 `json:"default_max_results"`

	// DefaultTimeWindowDays is the default forward time window in days.
	DefaultTimeWindowDays int `json:"default_time_window_days"`

	// DefaultTimezone is an IANA timezone name.
	DefaultTimezone string `json:"default_timezone"`

	// RequestTimeoutS is the HTTP request timeout in seconds.
	RequestTimeoutS int `json:"request_timeout_s"`

	// EnableDebug enables debug logging.
	EnableDebug bool `json:"enable_debug"`

	// Secrets declares the secrets this addon requires. Keys are secret
	// names; values are human-readable descriptions. The actual secret
	// values are delivered separately through the credential registry.
	Secrets map[string]string `json:"secrets"`
}

// Default returns an AddonConfig populated with the documented defaults.
func Default() *AddonConfig {
	return &AddonConfig{
		DefaultCalendarID:     "primary",
		DefaultMaxResults:     10,
		DefaultTimeWindowDays: 7,
		DefaultTimezone:       "Europe/Paris",
		RequestTimeoutS:       10,
		Secrets: map[string]string{
			AccessTokenSecret: "OAuth bearer token for the calendar API",
		},
	}
}

// Load decodes a host configuration payload on top of the defaults and
// validates the result.
func Load(payload map[string]any) (*AddonConfig, error) {
	cfg := Default()

	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding addon config payload: %w", err)
		}
		if err := json.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("decoding addon config payload: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges, the timezone, and the declared secrets.
func (c *AddonConfig) Validate() error {
	if _, ok := c.Secrets[AccessTokenSecret]; !ok {
		return fmt.Errorf("%q secret is required", AccessTokenSecret)
	}

	if c.DefaultMaxResults < MinMaxResults || c.DefaultMaxResults > MaxMaxResults {
		return fmt.Errorf("default_max_results must be between %d and %d, got %d",
			MinMaxResults, MaxMaxResults, c.DefaultMaxResults)
	}

	if c.DefaultTimeWindowDays < 0 {
		return fmt.Errorf("default_time_window_days must be >= 0, got %d", c.DefaultTimeWindowDays)
	}
	if c.DefaultTimeWindowDays > MaxTimeWindowDays {
		return fmt.Errorf("default_time_window_days is too large (> 5 years): %d", c.DefaultTimeWindowDays)
	}

	if c.RequestTimeoutS < MinRequestTimeoutS || c.RequestTimeoutS > MaxRequestTimeoutS {
		return fmt.Errorf("request_timeout_s must be between %d and %d, got %d",
			MinRequestTimeoutS, MaxRequestTimeoutS, c.RequestTimeoutS)
	}

	if _, err := time.LoadLocation(c.DefaultTimezone); err != nil {
		return fmt.Errorf("invalid IANA timezone %q: %w", c.DefaultTimezone, err)
	}

	return nil
}

// RequestTimeout returns the configured HTTP timeout as a duration.
func (c *AddonConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutS) * time.Second
}

// RequiredSecrets returns the names of all declared secrets.
func (c *AddonConfig) RequiredSecrets() []string {
	names := make([]string, 0, len(c.Secrets))
	for name := range c.Secrets {
		names = append(names, name)
	}
	return names
}
