// Package config defines the addon configuration schema delivered by the
// host system, with validated defaults for calendar, pagination, timezone,
// and HTTP timeout settings.
package config
