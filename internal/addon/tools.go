package addon

import (
	"context"
	"reflect"

	"github.com/fbenoist/calrooms/internal/actions"
	"github.com/fbenoist/calrooms/internal/registry"
)

// Fully qualified action names as registered with the host.
const (
	ActionListEvents   = Type + "::list_events"
	ActionCreateEvents = Type + "::create_events"
	ActionFreeBusy     = Type + "::freebusy_query"
)

var (
	stringType = reflect.TypeOf("")
	intType    = reflect.TypeOf(int64(0))
	boolType   = reflect.TypeOf(false)
	listType   = reflect.TypeOf([]any(nil))
)

// BuiltinTools returns the addon's calendar actions ready for LoadTools:
// the callables with their parameter declarations, the tool descriptions,
// and the per-tool retry budgets.
func (a *Addon) BuiltinTools() (map[string]registry.Tool, map[string]string, map[string]int) {
	tools := map[string]registry.Tool{
		ActionListEvents: {
			Func: a.listEventsTool,
			Params: []registry.Param{
				{Name: "calendarId", Type: stringType, Default: ""},
				{Name: "maxResults", Type: intType, Default: int64(0)},
				{Name: "timeMin"},
				{Name: "timeMax", Default: registry.Null},
			},
		},
		ActionCreateEvents: {
			Func: a.createEventsTool,
			Params: []registry.Param{
				{Name: "calendarId", Type: stringType},
				{Name: "summary", Type: stringType},
				{Name: "start_dt", Default: registry.Null},
				{Name: "end_dt", Default: registry.Null},
				{Name: "start_date", Default: registry.Null},
				{Name: "end_date", Default: registry.Null},
				{Name: "description", Type: stringType, Default: ""},
				{Name: "location", Type: stringType, Default: ""},
				{Name: "attendees", Type: listType, Default: []any{}},
				{Name: "colorId", Type: stringType, Default: ""},
				{Name: "sendUpdates", Type: stringType, Default: ""},
				{Name: "create_conference", Type: boolType, Default: false},
				{Name: "reminders_overrides", Type: listType, Default: []any{}},
			},
		},
		ActionFreeBusy: {
			Func: a.freeBusyTool,
			Params: []registry.Param{
				{Name: "timeMin"},
				{Name: "timeMax"},
				{Name: "items", Type: listType},
				{Name: "timeZone", Type: stringType, Default: ""},
				{Name: "calendarExpansionMax", Type: intType, Default: int64(0)},
				{Name: "groupExpansionMax", Type: intType, Default: int64(0)},
			},
		},
	}

	descriptions := map[string]string{
		ActionListEvents:   "List upcoming events in a Google calendar, expanded to single instances and ordered by start time.",
		ActionCreateEvents: "Create a timed or all-day Google Calendar event with optional attendees, reminders, and Meet conference.",
		ActionFreeBusy:     "Query free/busy availability for one or more calendars in a time window.",
	}

	maxRetries := map[string]int{
		ActionListEvents:   2,
		ActionCreateEvents: 0,
		ActionFreeBusy:     2,
	}

	return tools, descriptions, maxRetries
}

func (a *Addon) listEventsTool(ctx context.Context, args map[string]any) (any, error) {
	return a.ListEvents(ctx, actions.ListEventsParams{
		CalendarID: argString(args, "calendarId"),
		MaxResults: argInt64(args, "maxResults"),
		TimeMin:    args["timeMin"],
		TimeMax:    args["timeMax"],
	})
}

func (a *Addon) createEventsTool(ctx context.Context, args map[string]any) (any, error) {
	return a.CreateEvent(ctx, actions.CreateEventParams{
		CalendarID:        argString(args, "calendarId"),
		Summary:           argString(args, "summary"),
		StartDT:           args["start_dt"],
		EndDT:             args["end_dt"],
		StartDate:         args["start_date"],
		EndDate:           args["end_date"],
		Description:       argString(args, "description"),
		Location:          argString(args, "location"),
		Attendees:         argStringSlice(args, "attendees"),
		ColorID:           argString(args, "colorId"),
		SendUpdates:       argString(args, "sendUpdates"),
		CreateConference:  argBool(args, "create_conference"),
		ReminderOverrides: argMapSlice(args, "reminders_overrides"),
	})
}

func (a *Addon) freeBusyTool(ctx context.Context, args map[string]any) (any, error) {
	return a.FreeBusy(ctx, actions.FreeBusyParams{
		TimeMin:              args["timeMin"],
		TimeMax:              args["timeMax"],
		Items:                argAnySlice(args, "items"),
		TimeZone:             argString(args, "timeZone"),
		CalendarExpansionMax: argInt64(args, "calendarExpansionMax"),
		GroupExpansionMax:    argInt64(args, "groupExpansionMax"),
	})
}

func argString(args map[string]any, name string) string {
	s, _ := args[name].(string)
	return s
}

func argBool(args map[string]any, name string) bool {
	b, _ := args[name].(bool)
	return b
}

// argInt64 accepts the numeric types a JSON decoder or a caller may supply.
func argInt64(args map[string]any, name string) int64 {
	switch v := args[name].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

func argAnySlice(args map[string]any, name string) []any {
	s, _ := args[name].([]any)
	return s
}

func argStringSlice(args map[string]any, name string) []string {
	switch v := args[name].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func argMapSlice(args map[string]any, name string) []map[string]any {
	switch v := args[name].(type) {
	case []map[string]any:
		return v
	case []any:
		out := make([]map[string]any, 0, len(v))
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			} else {
				// Preserve invalid entries so validation can reject them.
				out = append(out, nil)
			}
		}
		return out
	default:
		return nil
	}
}
