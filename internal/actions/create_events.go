package actions

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/fbenoist/calrooms/internal/calendar"
	"github.com/fbenoist/calrooms/internal/config"
	"github.com/fbenoist/calrooms/internal/credentials"
	"github.com/fbenoist/calrooms/internal/instrumentation"
	"github.com/fbenoist/calrooms/internal/logging"
)

// CreateEventParams are the inputs to the create_events action. An event is
// either timed (StartDT and EndDT) or all-day (StartDate and EndDate, end
// exclusive); the two pairs are mutually exclusive.
type CreateEventParams struct {
	CalendarID string
	Summary    string

	StartDT any
	EndDT   any

	StartDate any
	EndDate   any

	Description string
	Location    string
	Attendees   []string

	// ColorID is the event color as a string ("1".."11").
	ColorID string

	// SendUpdates controls notification delivery: "all", "externalOnly", "none".
	SendUpdates string

	// CreateConference attaches a Google Meet link to the event.
	CreateConference bool

	// ReminderOverrides replaces the calendar's default reminders when set.
	ReminderOverrides []map[string]any
}

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// CreateEvent creates a calendar event, timed or all-day, with optional
// attendees, reminders, and a Google Meet conference. The returned error is
// non-nil only for transport-level failures, which are eligible for retry.
func CreateEvent(ctx context.Context, cfg *config.AddonConfig, creds *credentials.Registry, logger *slog.Logger, params CreateEventParams) (*Response, error) {
	logger = logging.WithAction(logger, "create_events")

	var missing []string
	if params.CalendarID == "" {
		missing = append(missing, "calendarId")
	}
	if params.Summary == "" {
		missing = append(missing, "summary")
	}

	var startDT, endDT time.Time
	var err error
	if params.StartDT != nil {
		if startDT, err = coerceTime(params.StartDT, "start_dt"); err != nil {
			return validationFailure(logger, fmt.Sprintf("Invalid datetime format: %v", err)), nil
		}
	}
	if params.EndDT != nil {
		if endDT, err = coerceTime(params.EndDT, "end_dt"); err != nil {
			return validationFailure(logger, fmt.Sprintf("Invalid datetime format: %v", err)), nil
		}
	}

	var startDate, endDate time.Time
	if params.StartDate != nil {
		if startDate, err = coerceDate(params.StartDate, "start_date"); err != nil {
			return validationFailure(logger, fmt.Sprintf("Invalid date format: %v", err)), nil
		}
	}
	if params.EndDate != nil {
		if endDate, err = coerceDate(params.EndDate, "end_date"); err != nil {
			return validationFailure(logger, fmt.Sprintf("Invalid date format: %v", err)), nil
		}
	}

	datetimePair := params.StartDT != nil && params.EndDT != nil
	datePair := params.StartDate != nil && params.EndDate != nil
	mixed := (params.StartDT != nil || params.EndDT != nil) &&
		(params.StartDate != nil || params.EndDate != nil)

	if mixed {
		return validationFailure(logger,
			"Provide either datetime pair (start_dt & end_dt) OR all-day pair (start_date & end_date), not both."), nil
	}

	if !datetimePair && !datePair {
		missing = append(missing, "start_dt&end_dt OR start_date&end_date")
	}

	if len(missing) > 0 {
		return validationFailure(logger,
			fmt.Sprintf("Missing required parameters: %s.", strings.Join(missing, ", "))), nil
	}

	if datetimePair {
		if !endDT.After(startDT) {
			return validationFailure(logger, "end_dt must be strictly after start_dt."), nil
		}
	} else {
		// The all-day end date is exclusive, matching the Calendar API.
		if !endDate.After(startDate) {
			return validationFailure(logger, "end_date must be strictly after start_date (end is exclusive)."), nil
		}
	}

	var attendees []string
	if len(params.Attendees) > 0 {
		attendees = cleanAttendees(params.Attendees)
		if len(attendees) == 0 {
			return validationFailure(logger, "All provided attendee emails are invalid."), nil
		}
	}

	var overrides []calendar.ReminderOverride
	if len(params.ReminderOverrides) > 0 {
		overrides, err = parseReminderOverrides(params.ReminderOverrides)
		if err != nil {
			return validationFailure(logger, err.Error()), nil
		}
	}

	input := calendar.EventInput{
		Summary:           params.Summary,
		Description:       params.Description,
		Location:          params.Location,
		Attendees:         attendees,
		ColorID:           params.ColorID,
		SendUpdates:       params.SendUpdates,
		CreateConference:  params.CreateConference,
		ReminderOverrides: overrides,
	}
	if datetimePair {
		input.Start = startDT.UTC()
		input.End = endDT.UTC()
	} else {
		input.AllDay = true
		input.Start = startDate
		input.End = endDate
	}

	client, errResp := clientFromCredentials(ctx, cfg, creds)
	if errResp != nil {
		logger.Error(errResp.Message)
		return errResp, nil
	}

	start := time.Now()
	created, err := client.CreateEvent(ctx, params.CalendarID, input)
	instrumentation.MetricsFromContext(ctx).RecordCalendarAPIOperation(ctx, "insert", operationStatus(err), time.Since(start))
	if err != nil {
		return apiFailure(logger, "create event", err)
	}

	logger.Info("created event",
		logging.Calendar(params.CalendarID),
		slog.Bool("all_day", input.AllDay),
		slog.Duration(logging.KeyDuration, time.Since(start)),
		logging.Status(logging.StatusSuccess))

	return &Response{
		Output:  Output{Data: map[string]any{"event": created}},
		Tokens:  defaultTokens(),
		Message: "OK",
		Code:    200,
	}, nil
}

func validationFailure(logger *slog.Logger, msg string) *Response {
	logger.Warn(msg)
	return errorResponse(msg, 400, defaultTokens())
}

// cleanAttendees trims, deduplicates, and sorts the addresses, dropping any
// that do not look like an email.
func cleanAttendees(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	for _, email := range raw {
		email = strings.TrimSpace(email)
		if email == "" || !emailRe.MatchString(email) {
			continue
		}
		seen[email] = struct{}{}
	}

	cleaned := make([]string, 0, len(seen))
	for email := range seen {
		cleaned = append(cleaned, email)
	}
	sort.Strings(cleaned)
	return cleaned
}

// parseReminderOverrides validates that every override carries a method and
// a minute count.
func parseReminderOverrides(raw []map[string]any) ([]calendar.ReminderOverride, error) {
	overrides := make([]calendar.ReminderOverride, 0, len(raw))
	for _, item := range raw {
		methodVal, hasMethod := item["method"]
		minutesVal, hasMinutes := item["minutes"]
		if !hasMethod || !hasMinutes {
			return nil, fmt.Errorf("Invalid reminders_overrides: each item must include 'method' and 'minutes'.")
		}

		method, _ := methodVal.(string)
		var minutes int64
		switch v := minutesVal.(type) {
		case int:
			minutes = int64(v)
		case int64:
			minutes = v
		case float64:
			minutes = int64(v)
		default:
			return nil, fmt.Errorf("Invalid reminders_overrides: 'minutes' must be a number.")
		}

		overrides = append(overrides, calendar.ReminderOverride{Method: method, Minutes: minutes})
	}
	return overrides, nil
}
