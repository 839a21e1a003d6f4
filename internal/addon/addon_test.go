package addon

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fbenoist/calrooms/internal/actions"
	"github.com/fbenoist/calrooms/internal/config"
)

func testAddon() *Addon {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestLoadConfig(t *testing.T) {
	t.Run("applies payload over defaults", func(t *testing.T) {
		a := testAddon()

		err := a.LoadConfig(map[string]any{
			"default_calendar_id": "rooms@example.com",
			"default_max_results": 25,
		})

		require.NoError(t, err)
		assert.Equal(t, "rooms@example.com", a.Config().DefaultCalendarID)
		assert.Equal(t, int64(25), a.Config().DefaultMaxResults)
		assert.Equal(t, "Europe/Paris", a.Config().DefaultTimezone, "untouched fields keep defaults")
	})

	t.Run("rejects invalid payload and keeps previous config", func(t *testing.T) {
		a := testAddon()

		err := a.LoadConfig(map[string]any{"default_max_results": 0})

		require.Error(t, err)
		assert.Equal(t, int64(10), a.Config().DefaultMaxResults)
	})
}

func TestLoadCredentials(t *testing.T) {
	t.Run("stores secrets", func(t *testing.T) {
		a := testAddon()

		err := a.LoadCredentials(map[string]string{
			config.AccessTokenSecret: "ya29.token",
		})

		require.NoError(t, err)
		token, ok := a.Credentials().Get(config.AccessTokenSecret)
		require.True(t, ok)
		assert.Equal(t, "ya29.token", token)
	})

	t.Run("rejects missing required secret", func(t *testing.T) {
		a := testAddon()

		err := a.LoadCredentials(map[string]string{"other": "value"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), config.AccessTokenSecret)
		assert.False(t, a.Credentials().Has(config.AccessTokenSecret))
	})
}

func TestBuiltinToolsRegistration(t *testing.T) {
	a := testAddon()

	a.LoadTools(a.BuiltinTools())
	tools := a.Tools()

	require.Len(t, tools, 3)
	for _, name := range []string{ActionListEvents, ActionCreateEvents, ActionFreeBusy} {
		desc, ok := tools[name]
		require.True(t, ok, name)
		assert.Equal(t, name, desc.Name)
		assert.NotEmpty(t, desc.Description)
		assert.Equal(t, "object", desc.InputSchema["type"])
	}

	// create_events requires the calendar and the title; the event window
	// is validated at invocation time because it is one of two pairs.
	createSchema := tools[ActionCreateEvents].InputSchema
	required, ok := createSchema["required"].([]any)
	require.True(t, ok)
	assert.Contains(t, required, "calendarId")
	assert.Contains(t, required, "summary")
	assert.NotContains(t, required, "description")

	assert.Equal(t, 2, a.Registry().MaxRetries(ActionListEvents))
	assert.Equal(t, 0, a.Registry().MaxRetries(ActionCreateEvents))
}

func TestClearTools(t *testing.T) {
	a := testAddon()
	a.LoadTools(a.BuiltinTools())
	require.Len(t, a.Tools(), 3)

	a.ClearTools()

	assert.Empty(t, a.Tools())
	assert.Nil(t, a.Registry().Function(ActionListEvents))
}

func TestToolDispatchValidation(t *testing.T) {
	a := testAddon()
	a.LoadTools(a.BuiltinTools())

	fn := a.Registry().Function(ActionListEvents)
	require.NotNil(t, fn)

	result, err := fn(t.Context(), map[string]any{})
	require.NoError(t, err)

	resp, ok := result.(*actions.Response)
	require.True(t, ok)
	assert.Equal(t, 400, resp.Code)
	assert.Equal(t, "Missing required parameter: timeMin.", resp.Message)
}

func TestObserverCallback(t *testing.T) {
	a := testAddon()
	a.LoadTools(a.BuiltinTools())

	var gotAddonID, gotAction string
	var gotCode int
	a.SetObserverCallback(func(addonID, action string, resp *actions.Response) {
		gotAddonID = addonID
		gotAction = action
		gotCode = resp.Code
	}, "addon-42")

	fn := a.Registry().Function(ActionFreeBusy)
	require.NotNil(t, fn)
	_, err := fn(t.Context(), map[string]any{})
	require.NoError(t, err)

	assert.Equal(t, "addon-42", gotAddonID)
	assert.Equal(t, "freebusy_query", gotAction)
	assert.Equal(t, 400, gotCode)
}

func TestToolArgumentDecoding(t *testing.T) {
	args := map[string]any{
		"calendarId":  "primary",
		"maxResults":  float64(15),
		"attendees":   []any{"a@example.com", 7},
		"flag":        true,
		"reminders":   []any{map[string]any{"method": "popup", "minutes": float64(5)}, "junk"},
		"plainInts":   int(3),
		"typedSlices": []string{"x"},
	}

	assert.Equal(t, "primary", argString(args, "calendarId"))
	assert.Equal(t, "", argString(args, "missing"))
	assert.Equal(t, int64(15), argInt64(args, "maxResults"))
	assert.Equal(t, int64(3), argInt64(args, "plainInts"))
	assert.True(t, argBool(args, "flag"))
	assert.Equal(t, []string{"a@example.com"}, argStringSlice(args, "attendees"))
	assert.Equal(t, []string{"x"}, argStringSlice(args, "typedSlices"))

	maps := argMapSlice(args, "reminders")
	require.Len(t, maps, 2)
	assert.Equal(t, "popup", maps[0]["method"])
	assert.Nil(t, maps[1], "non-map entries are preserved as nil for validation")
}
