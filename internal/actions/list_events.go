package actions

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fbenoist/calrooms/internal/calendar"
	"github.com/fbenoist/calrooms/internal/config"
	"github.com/fbenoist/calrooms/internal/credentials"
	"github.com/fbenoist/calrooms/internal/instrumentation"
	"github.com/fbenoist/calrooms/internal/logging"
)

// ListEventsParams are the inputs to the list_events action. TimeMin and
// TimeMax accept a time.Time or an ISO-8601 string.
type ListEventsParams struct {
	CalendarID string
	MaxResults int64
	TimeMin    any
	TimeMax    any
}

// ListEvents lists upcoming events in a calendar, expanded to single
// instances and ordered by start time. The returned error is non-nil only
// for transport-level failures, which are eligible for retry.
func ListEvents(ctx context.Context, cfg *config.AddonConfig, creds *credentials.Registry, logger *slog.Logger, params ListEventsParams) (*Response, error) {
	logger = logging.WithAction(logger, "list_events")

	calendarID := params.CalendarID
	if calendarID == "" {
		calendarID = cfg.DefaultCalendarID
	}

	if params.TimeMin == nil {
		msg := "Missing required parameter: timeMin."
		logger.Warn(msg, logging.Param("timeMin"))
		return errorResponse(msg, 400, defaultTokens()), nil
	}

	timeMin, err := coerceTime(params.TimeMin, "timeMin")
	if err != nil {
		msg := fmt.Sprintf("Invalid datetime format: %v", err)
		logger.Warn(msg, logging.Param("timeMin"))
		return errorResponse(msg, 400, defaultTokens()), nil
	}

	var timeMax time.Time
	if params.TimeMax != nil {
		timeMax, err = coerceTime(params.TimeMax, "timeMax")
		if err != nil {
			msg := fmt.Sprintf("Invalid datetime format: %v", err)
			logger.Warn(msg, logging.Param("timeMax"))
			return errorResponse(msg, 400, defaultTokens()), nil
		}
		if !timeMax.After(timeMin) {
			msg := "timeMax must be strictly after timeMin."
			logger.Warn(msg)
			return errorResponse(msg, 400, defaultTokens()), nil
		}
	}

	maxResults := params.MaxResults
	if maxResults <= 0 {
		maxResults = cfg.DefaultMaxResults
	}

	client, errResp := clientFromCredentials(ctx, cfg, creds)
	if errResp != nil {
		logger.Error(errResp.Message)
		return errResp, nil
	}

	start := time.Now()
	events, err := client.ListEvents(ctx, calendarID, timeMin.UTC(), timeMax, maxResults)
	instrumentation.MetricsFromContext(ctx).RecordCalendarAPIOperation(ctx, "list", operationStatus(err), time.Since(start))
	if err != nil {
		return apiFailure(logger, "list events", err)
	}

	logger.Info("listed events",
		logging.Calendar(calendarID),
		slog.Int("count", len(events)),
		slog.Duration(logging.KeyDuration, time.Since(start)),
		logging.Status(logging.StatusSuccess))

	return &Response{
		Output: Output{Data: map[string]any{
			"events": events,
			"count":  len(events),
		}},
		Tokens:  defaultTokens(),
		Message: "OK",
		Code:    200,
	}, nil
}

// apiFailure maps a calendar client error to the response envelope. API
// errors carry the upstream status code and exhaust the call; transport
// failures return 503 together with a non-nil error so the caller can retry.
func apiFailure(logger *slog.Logger, operation string, err error) (*Response, error) {
	if status := calendar.StatusCode(err); status != 0 {
		msg := fmt.Sprintf("Calendar API error: %v", err)
		logger.Warn(msg, logging.Operation(operation))
		return errorResponse(msg, status, zeroTokens()), nil
	}

	msg := fmt.Sprintf("Request failed: %v", err)
	logger.Error(msg, logging.Operation(operation))
	return errorResponse(msg, 503, zeroTokens()), fmt.Errorf("%s: %w", operation, err)
}
