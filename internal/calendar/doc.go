// Package calendar provides a client for the Google Calendar API
// authenticated with a bearer token supplied by the host system.
//
// The client covers the three operations the addon exposes: listing events
// in a time range, creating events (timed or all-day, optionally with a
// Google Meet conference), and free/busy availability queries.
//
// Example usage:
//
//	client, err := calendar.NewClient(ctx, accessToken, 10*time.Second)
//	if err != nil {
//	    return err
//	}
//	events, err := client.ListEvents(ctx, "primary", timeMin, timeMax, 10)
package calendar
