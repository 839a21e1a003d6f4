// Package addon assembles the google_calendars addon: configuration,
// credential storage, the tool registry, and the calendar actions the
// host system invokes through it.
package addon
