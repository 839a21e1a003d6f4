package calendar

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Client wraps the Google Calendar service authenticated with a bearer
// token delivered through the addon credential registry.
type Client struct {
	svc *calendar.Service
}

// NewClient creates a Calendar client for the given OAuth access token.
// The timeout applies to every outgoing request.
func NewClient(ctx context.Context, accessToken string, timeout time.Duration) (*Client, error) {
	if accessToken == "" {
		return nil, errors.New("access token is required")
	}

	source := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	})
	httpClient := oauth2.NewClient(ctx, source)
	httpClient.Timeout = timeout

	svc, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	return &Client{svc: svc}, nil
}

// ListEvents lists events in a calendar starting at timeMin. A zero timeMax
// leaves the range open-ended. Events are expanded to single instances and
// ordered by start time.
func (c *Client) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time, maxResults int64) ([]EventSummary, error) {
	call := c.svc.Events.List(calendarID).
		Context(ctx).
		TimeMin(timeMin.Format(time.RFC3339)).
		MaxResults(maxResults).
		SingleEvents(true).
		OrderBy("startTime")

	if !timeMax.IsZero() {
		call = call.TimeMax(timeMax.Format(time.RFC3339))
	}

	events, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	summaries := make([]EventSummary, 0, len(events.Items))
	for _, event := range events.Items {
		summaries = append(summaries, toEventSummary(event))
	}
	return summaries, nil
}

// CreateEvent creates a new calendar event.
func (c *Client) CreateEvent(ctx context.Context, calendarID string, input EventInput) (*EventSummary, error) {
	event := &calendar.Event{
		Summary:     input.Summary,
		Description: input.Description,
		Location:    input.Location,
		ColorId:     input.ColorID,
	}

	// All-day events use Date instead of DateTime. The end date is
	// exclusive, matching the Calendar API contract.
	if input.AllDay {
		event.Start = &calendar.EventDateTime{Date: input.Start.Format("2006-01-02")}
		event.End = &calendar.EventDateTime{Date: input.End.Format("2006-01-02")}
	} else {
		timeZone := input.TimeZone
		if timeZone == "" {
			timeZone = "UTC"
		}
		event.Start = &calendar.EventDateTime{
			DateTime: input.Start.Format(time.RFC3339),
			TimeZone: timeZone,
		}
		event.End = &calendar.EventDateTime{
			DateTime: input.End.Format(time.RFC3339),
			TimeZone: timeZone,
		}
	}

	if len(input.Attendees) > 0 {
		attendees := make([]*calendar.EventAttendee, 0, len(input.Attendees))
		for _, email := range input.Attendees {
			attendees = append(attendees, &calendar.EventAttendee{Email: email})
		}
		event.Attendees = attendees
	}

	if len(input.ReminderOverrides) > 0 {
		overrides := make([]*calendar.EventReminder, 0, len(input.ReminderOverrides))
		for _, o := range input.ReminderOverrides {
			overrides = append(overrides, &calendar.EventReminder{
				Method:  o.Method,
				Minutes: o.Minutes,

				// Minutes can legitimately be 0 (remind at event start).
				ForceSendFields: []string{"Minutes"},
			})
		}
		event.Reminders = &calendar.EventReminders{
			UseDefault:      false,
			Overrides:       overrides,
			ForceSendFields: []string{"UseDefault"},
		}
	}

	call := c.svc.Events.Insert(calendarID, event).Context(ctx)

	if input.SendUpdates != "" {
		call = call.SendUpdates(input.SendUpdates)
	}

	if input.CreateConference {
		call = call.ConferenceDataVersion(1)
		event.ConferenceData = &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId: uuid.NewString(),
			},
		}
	}

	created, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	summary := toEventSummary(created)
	return &summary, nil
}

// QueryFreeBusy checks availability for calendars in a time range.
// Results are sorted by calendar ID for deterministic output.
func (c *Client) QueryFreeBusy(ctx context.Context, req FreeBusyRequest) ([]FreeBusyInfo, error) {
	items := make([]*calendar.FreeBusyRequestItem, len(req.CalendarIDs))
	for i, id := range req.CalendarIDs {
		items[i] = &calendar.FreeBusyRequestItem{Id: id}
	}

	query := &calendar.FreeBusyRequest{
		TimeMin:              req.TimeMin.Format(time.RFC3339),
		TimeMax:              req.TimeMax.Format(time.RFC3339),
		TimeZone:             req.TimeZone,
		Items:                items,
		CalendarExpansionMax: req.CalendarExpansionMax,
		GroupExpansionMax:    req.GroupExpansionMax,
	}

	result, err := c.svc.Freebusy.Query(query).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to query freebusy: %w", err)
	}

	infos := make([]FreeBusyInfo, 0, len(result.Calendars))
	for calID, cal := range result.Calendars {
		info := FreeBusyInfo{Calendar: calID}

		for _, busy := range cal.Busy {
			start, _ := time.Parse(time.RFC3339, busy.Start)
			end, _ := time.Parse(time.RFC3339, busy.End)
			info.Busy = append(info.Busy, TimeRange{Start: start, End: end})
		}

		for _, calErr := range cal.Errors {
			info.Errors = append(info.Errors, calErr.Reason)
		}

		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Calendar < infos[j].Calendar
	})

	return infos, nil
}

// StatusCode extracts the HTTP status code from a Calendar API error.
// Returns 0 when the error carries no status, e.g. transport failures.
func StatusCode(err error) int {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}
