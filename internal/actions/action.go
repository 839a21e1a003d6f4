package actions

import (
	"context"
	"fmt"
	"time"

	"github.com/fbenoist/calrooms/internal/calendar"
	"github.com/fbenoist/calrooms/internal/config"
	"github.com/fbenoist/calrooms/internal/credentials"
	"github.com/fbenoist/calrooms/internal/instrumentation"
)

// Token accounting values reported to the host per invocation. The host
// tracks a running budget; these are the amounts this addon reports.
const (
	tokenStepAmount  = 2000
	tokenTotalAmount = 16236
)

// Tokens is the token accounting block of an action response.
type Tokens struct {
	StepAmount         int `json:"stepAmount"`
	TotalCurrentAmount int `json:"totalCurrentAmount"`
}

// Output wraps the action payload.
type Output struct {
	Data map[string]any `json:"data,omitempty"`
}

// Response is the uniform envelope every action returns to its caller.
type Response struct {
	Output  Output `json:"output"`
	Tokens  Tokens `json:"tokens"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func defaultTokens() Tokens {
	return Tokens{StepAmount: tokenStepAmount, TotalCurrentAmount: tokenTotalAmount}
}

func zeroTokens() Tokens {
	return Tokens{}
}

// errorResponse builds an envelope carrying an error payload.
func errorResponse(msg string, code int, tokens Tokens) *Response {
	return &Response{
		Output:  Output{Data: map[string]any{"error": msg}},
		Tokens:  tokens,
		Message: msg,
		Code:    code,
	}
}

// clientFromCredentials builds a Calendar client from the stored access
// token. The second return value is the 401 envelope when the token is
// missing.
func clientFromCredentials(ctx context.Context, cfg *config.AddonConfig, creds *credentials.Registry) (*calendar.Client, *Response) {
	token, ok := creds.Get(config.AccessTokenSecret)
	if !ok || token == "" {
		return nil, errorResponse("Missing OAuth access_token in secrets.", 401, zeroTokens())
	}

	client, err := calendar.NewClient(ctx, token, cfg.RequestTimeout())
	if err != nil {
		return nil, errorResponse(fmt.Sprintf("Failed to create calendar client: %v", err), 500, zeroTokens())
	}
	return client, nil
}

// operationStatus maps a calendar client call outcome to a metrics status
// label.
func operationStatus(err error) string {
	if err != nil {
		return instrumentation.StatusError
	}
	return instrumentation.StatusSuccess
}

// coerceTime accepts a time.Time or an ISO-8601 string (with 'Z', an
// offset, or naive) and returns an aware time. Naive values are assumed UTC.
func coerceTime(value any, name string) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
			if t, err := time.Parse(layout, v); err == nil {
				return t, nil
			}
		}
		for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
			if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("%s: cannot parse %q as ISO-8601 datetime", name, v)
	default:
		return time.Time{}, fmt.Errorf("%s must be a datetime or ISO-8601 string, got %T", name, value)
	}
}

// coerceDate accepts a time.Time or a "YYYY-MM-DD" string and returns the
// date at midnight UTC.
func coerceDate(value any, name string) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC), nil
	case string:
		t, err := time.ParseInLocation("2006-01-02", v, time.UTC)
		if err != nil {
			return time.Time{}, fmt.Errorf("%s: cannot parse %q as YYYY-MM-DD date", name, v)
		}
		return t, nil
	default:
		return time.Time{}, fmt.Errorf("%s must be a date or YYYY-MM-DD string, got %T", name, value)
	}
}
