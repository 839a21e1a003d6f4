package registry

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopAction(result any) ActionFunc {
	return func(ctx context.Context, args map[string]any) (any, error) {
		return result, nil
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRegisterToolsDefaultDescription(t *testing.T) {
	tests := []struct {
		name     string
		action   string
		expected string
	}{
		{
			name:     "namespaced action",
			action:   "calendar::create_events",
			expected: "Execute create_events action from calendar addon",
		},
		{
			name:     "plain action",
			action:   "ping",
			expected: "Execute ping action",
		},
		{
			name:     "multiple separators use first and last segment",
			action:   "calendar::v3::list",
			expected: "Execute list action from calendar addon",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(nil)
			r.RegisterTools(map[string]Tool{tt.action: {Func: noopAction("ok")}}, nil, nil)

			tools := r.ToolsForAction()
			require.Contains(t, tools, tt.action)
			assert.Equal(t, tt.expected, tools[tt.action].Description)
			assert.Equal(t, tt.action, tools[tt.action].Name)
		})
	}
}

func TestRegisterToolsExplicitDescription(t *testing.T) {
	r := New(nil)
	r.RegisterTools(
		map[string]Tool{"calendar::list_events": {Func: noopAction("ok")}},
		map[string]string{"calendar::list_events": "List upcoming events"},
		nil,
	)

	tools := r.ToolsForAction()
	assert.Equal(t, "List upcoming events", tools["calendar::list_events"].Description)
}

func TestRegisterToolsOverwrite(t *testing.T) {
	r := New(nil)

	r.RegisterTools(map[string]Tool{"add": {Func: noopAction("first")}}, nil, nil)
	r.RegisterTools(map[string]Tool{"add": {
		Func:   noopAction("second"),
		Params: []Param{{Name: "a", Type: intType}},
	}}, nil, nil)

	fn := r.Function("add")
	require.NotNil(t, fn)
	result, err := fn(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "second", result)

	tools := r.ToolsForAction()
	props, ok := tools["add"].InputSchema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "a")
}

func TestMaxRetries(t *testing.T) {
	r := New(nil)
	r.RegisterTools(
		map[string]Tool{
			"add":  {Func: noopAction("ok")},
			"ping": {Func: noopAction("ok")},
		},
		nil,
		map[string]int{"add": 3},
	)

	assert.Equal(t, 3, r.MaxRetries("add"))
	assert.Equal(t, 0, r.MaxRetries("ping"))
	assert.Equal(t, 0, r.MaxRetries("missing"))
}

func TestMaxRetriesNegativeClampedToZero(t *testing.T) {
	r := New(nil)
	r.RegisterTools(
		map[string]Tool{"add": {Func: noopAction("ok")}},
		nil,
		map[string]int{"add": -2},
	)

	assert.Equal(t, 0, r.MaxRetries("add"))
}

func TestFunctionUnknownName(t *testing.T) {
	r := New(nil)
	assert.Nil(t, r.Function("missing"))
}

func TestClear(t *testing.T) {
	r := New(nil)
	r.RegisterTools(
		map[string]Tool{"add": {Func: noopAction("ok")}},
		nil,
		map[string]int{"add": 5},
	)

	r.Clear()

	assert.Empty(t, r.ToolsForAction())
	assert.Nil(t, r.Function("add"))
	assert.Equal(t, 0, r.MaxRetries("add"))

	// The registry stays usable after Clear.
	r.RegisterTools(map[string]Tool{"add": {Func: noopAction("ok")}}, nil, nil)
	assert.Len(t, r.ToolsForAction(), 1)
}

func TestToolsForActionReturnsCopy(t *testing.T) {
	r := New(nil)
	r.RegisterTools(map[string]Tool{"add": {
		Func:   noopAction("ok"),
		Params: []Param{{Name: "a", Type: intType}},
	}}, nil, nil)

	first := r.ToolsForAction()
	first["injected"] = Descriptor{Name: "injected"}
	delete(first["add"].InputSchema, "properties")
	first["add"].InputSchema["type"] = "array"

	second := r.ToolsForAction()
	assert.NotContains(t, second, "injected")
	assert.Equal(t, "object", second["add"].InputSchema["type"])
	assert.Contains(t, second["add"].InputSchema, "properties")
}

func TestRegistryInvariantAfterRegistration(t *testing.T) {
	r := New(nil)
	r.RegisterTools(
		map[string]Tool{
			"calendar::list_events":  {Func: noopAction("ok")},
			"calendar::create_event": {Func: noopAction("ok")},
		},
		nil,
		map[string]int{"calendar::list_events": 2},
	)

	for name := range r.ToolsForAction() {
		assert.NotNil(t, r.Function(name), "function missing for %s", name)
		assert.GreaterOrEqual(t, r.MaxRetries(name), 0)
	}
}
