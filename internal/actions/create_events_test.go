package actions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fbenoist/calrooms/internal/calendar"
)

func validTimedParams() CreateEventParams {
	return CreateEventParams{
		CalendarID: "primary",
		Summary:    "Team sync",
		StartDT:    "2026-03-15T10:00:00Z",
		EndDT:      "2026-03-15T11:00:00Z",
	}
}

func TestCreateEventMissingRequired(t *testing.T) {
	resp, err := CreateEvent(t.Context(), testConfig(t), emptyCredentials(), testLogger(), CreateEventParams{})

	require.NoError(t, err)
	assert.Equal(t, 400, resp.Code)
	assert.Contains(t, resp.Message, "calendarId")
	assert.Contains(t, resp.Message, "summary")
	assert.Contains(t, resp.Message, "start_dt&end_dt OR start_date&end_date")
}

func TestCreateEventMixedPairs(t *testing.T) {
	params := validTimedParams()
	params.StartDate = "2026-03-15"
	params.EndDate = "2026-03-16"

	resp, err := CreateEvent(t.Context(), testConfig(t), emptyCredentials(), testLogger(), params)

	require.NoError(t, err)
	assert.Equal(t, 400, resp.Code)
	assert.Contains(t, resp.Message, "not both")
}

func TestCreateEventEndNotAfterStart(t *testing.T) {
	t.Run("timed", func(t *testing.T) {
		params := validTimedParams()
		params.EndDT = params.StartDT

		resp, err := CreateEvent(t.Context(), testConfig(t), emptyCredentials(), testLogger(), params)

		require.NoError(t, err)
		assert.Equal(t, 400, resp.Code)
		assert.Equal(t, "end_dt must be strictly after start_dt.", resp.Message)
	})

	t.Run("all-day", func(t *testing.T) {
		resp, err := CreateEvent(t.Context(), testConfig(t), emptyCredentials(), testLogger(), CreateEventParams{
			CalendarID: "primary",
			Summary:    "Offsite",
			StartDate:  "2026-03-16",
			EndDate:    "2026-03-16",
		})

		require.NoError(t, err)
		assert.Equal(t, 400, resp.Code)
		assert.Equal(t, "end_date must be strictly after start_date (end is exclusive).", resp.Message)
	})
}

func TestCreateEventInvalidDates(t *testing.T) {
	params := validTimedParams()
	params.StartDT = "soon"

	resp, err := CreateEvent(t.Context(), testConfig(t), emptyCredentials(), testLogger(), params)

	require.NoError(t, err)
	assert.Equal(t, 400, resp.Code)
	assert.Contains(t, resp.Message, "Invalid datetime format")
}

func TestCreateEventAllAttendeesInvalid(t *testing.T) {
	params := validTimedParams()
	params.Attendees = []string{"not-an-email", "also bad", "  "}

	resp, err := CreateEvent(t.Context(), testConfig(t), emptyCredentials(), testLogger(), params)

	require.NoError(t, err)
	assert.Equal(t, 400, resp.Code)
	assert.Equal(t, "All provided attendee emails are invalid.", resp.Message)
}

func TestCreateEventInvalidReminders(t *testing.T) {
	params := validTimedParams()
	params.ReminderOverrides = []map[string]any{{"method": "popup"}}

	resp, err := CreateEvent(t.Context(), testConfig(t), emptyCredentials(), testLogger(), params)

	require.NoError(t, err)
	assert.Equal(t, 400, resp.Code)
	assert.Contains(t, resp.Message, "reminders_overrides")
}

func TestCreateEventMissingToken(t *testing.T) {
	resp, err := CreateEvent(t.Context(), testConfig(t), emptyCredentials(), testLogger(), validTimedParams())

	require.NoError(t, err)
	assert.Equal(t, 401, resp.Code)
	assert.Equal(t, Tokens{}, resp.Tokens)
}

func TestCleanAttendees(t *testing.T) {
	got := cleanAttendees([]string{
		" bob@example.com ",
		"alice@example.com",
		"bob@example.com",
		"nope",
		"",
	})

	assert.Equal(t, []string{"alice@example.com", "bob@example.com"}, got)
}

func TestParseReminderOverrides(t *testing.T) {
	t.Run("accepts JSON numbers", func(t *testing.T) {
		got, err := parseReminderOverrides([]map[string]any{
			{"method": "popup", "minutes": float64(10)},
			{"method": "email", "minutes": 0},
		})

		require.NoError(t, err)
		assert.Equal(t, []calendar.ReminderOverride{
			{Method: "popup", Minutes: 10},
			{Method: "email", Minutes: 0},
		}, got)
	})

	t.Run("rejects missing keys", func(t *testing.T) {
		_, err := parseReminderOverrides([]map[string]any{{"minutes": 5}})
		require.Error(t, err)
	})

	t.Run("rejects non-numeric minutes", func(t *testing.T) {
		_, err := parseReminderOverrides([]map[string]any{{"method": "popup", "minutes": "ten"}})
		require.Error(t, err)
	})
}
