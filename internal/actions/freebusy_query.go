package actions

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/fbenoist/calrooms/internal/calendar"
	"github.com/fbenoist/calrooms/internal/config"
	"github.com/fbenoist/calrooms/internal/credentials"
	"github.com/fbenoist/calrooms/internal/instrumentation"
	"github.com/fbenoist/calrooms/internal/logging"
)

// FreeBusyParams are the inputs to the freebusy_query action. Items accepts
// calendar IDs as strings or as objects with an "id" key.
type FreeBusyParams struct {
	TimeMin any
	TimeMax any
	Items   []any

	// TimeZone is the IANA timezone for the response. Empty means UTC.
	TimeZone string

	CalendarExpansionMax int64
	GroupExpansionMax    int64
}

// FreeBusy queries availability for one or more calendars in a time window.
// The returned error is non-nil only for transport-level failures, which
// are eligible for retry.
func FreeBusy(ctx context.Context, cfg *config.AddonConfig, creds *credentials.Registry, logger *slog.Logger, params FreeBusyParams) (*Response, error) {
	logger = logging.WithAction(logger, "freebusy_query")

	var missing []string
	if params.TimeMin == nil {
		missing = append(missing, "timeMin")
	}
	if params.TimeMax == nil {
		missing = append(missing, "timeMax")
	}
	if len(params.Items) == 0 {
		missing = append(missing, "items")
	}
	if len(missing) > 0 {
		return validationFailure(logger,
			fmt.Sprintf("Missing required parameters: %s.", strings.Join(missing, ", "))), nil
	}

	timeMin, err := coerceTime(params.TimeMin, "timeMin")
	if err != nil {
		return validationFailure(logger, fmt.Sprintf("Invalid datetime format: %v", err)), nil
	}
	timeMax, err := coerceTime(params.TimeMax, "timeMax")
	if err != nil {
		return validationFailure(logger, fmt.Sprintf("Invalid datetime format: %v", err)), nil
	}
	if !timeMax.After(timeMin) {
		return validationFailure(logger, "timeMax must be strictly after timeMin."), nil
	}

	calendarIDs := normalizeItems(params.Items)
	if len(calendarIDs) == 0 {
		return validationFailure(logger, "items cannot be empty after normalization."), nil
	}

	if params.TimeZone != "" {
		if _, err := time.LoadLocation(params.TimeZone); err != nil {
			return validationFailure(logger, fmt.Sprintf("Invalid IANA timezone: %q", params.TimeZone)), nil
		}
	}

	client, errResp := clientFromCredentials(ctx, cfg, creds)
	if errResp != nil {
		logger.Error(errResp.Message)
		return errResp, nil
	}

	start := time.Now()
	infos, err := client.QueryFreeBusy(ctx, calendar.FreeBusyRequest{
		TimeMin:              timeMin.UTC(),
		TimeMax:              timeMax.UTC(),
		TimeZone:             params.TimeZone,
		CalendarIDs:          calendarIDs,
		CalendarExpansionMax: params.CalendarExpansionMax,
		GroupExpansionMax:    params.GroupExpansionMax,
	})
	instrumentation.MetricsFromContext(ctx).RecordCalendarAPIOperation(ctx, "freebusy", operationStatus(err), time.Since(start))
	if err != nil {
		return apiFailure(logger, "freebusy query", err)
	}

	logger.Info("queried freebusy",
		slog.Int("calendars", len(infos)),
		slog.Duration(logging.KeyDuration, time.Since(start)),
		logging.Status(logging.StatusSuccess))

	return &Response{
		Output:  Output{Data: map[string]any{"calendars": infos}},
		Tokens:  defaultTokens(),
		Message: "FreeBusy query successful",
		Code:    200,
	}, nil
}

// normalizeItems accepts []any of strings or {"id": ...} objects and
// returns the trimmed, deduplicated, sorted calendar IDs.
func normalizeItems(items []any) []string {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		var id string
		switch v := item.(type) {
		case string:
			id = strings.TrimSpace(v)
		case map[string]any:
			raw, _ := v["id"].(string)
			id = strings.TrimSpace(raw)
		}
		if id != "" {
			seen[id] = struct{}{}
		}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
