package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fbenoist/calrooms/internal/actions"
	"github.com/fbenoist/calrooms/internal/instrumentation"
	"github.com/fbenoist/calrooms/internal/logging"
	"github.com/fbenoist/calrooms/internal/registry"
)

// RegisterAddonTools exposes every tool registered in the addon's registry
// as an MCP tool. Tool input schemas are passed through verbatim, arguments
// are validated against them before dispatch, and transport failures are
// retried up to the tool's retry budget.
func RegisterAddonTools(s *mcpserver.MCPServer, sc *ServerContext, logger *slog.Logger) error {
	descriptors := sc.Addon().Tools()

	names := make([]string, 0, len(descriptors))
	for name := range descriptors {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		desc := descriptors[name]

		rawSchema, err := json.Marshal(desc.InputSchema)
		if err != nil {
			return fmt.Errorf("encoding input schema for %q: %w", name, err)
		}

		validator, err := compileSchema(name, rawSchema)
		if err != nil {
			return fmt.Errorf("compiling input schema for %q: %w", name, err)
		}

		tool := mcp.NewToolWithRawSchema(desc.Name, desc.Description, rawSchema)
		s.AddTool(tool, toolHandler(sc, desc, validator, logger))

		logger.Debug("registered MCP tool", logging.Action(name))
	}

	logger.Info("registered MCP tools", slog.Int("count", len(names)))
	return nil
}

func compileSchema(name string, raw []byte) (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	compiler := jsonschema.NewCompiler()
	url := fmt.Sprintf("inmemory://%s/schema.json", name)
	if err := compiler.AddResource(url, doc); err != nil {
		return nil, err
	}
	return compiler.Compile(url)
}

// toolHandler builds the MCP handler for one registered action. The handler
// validates arguments, dispatches through the registry, retries transport
// failures, and returns the response envelope as JSON.
func toolHandler(sc *ServerContext, desc registry.Descriptor, validator *jsonschema.Schema, logger *slog.Logger) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		if args == nil {
			args = map[string]any{}
		}

		ctx, span := sc.Tracer().Start(ctx, desc.Name)
		defer span.End()

		start := time.Now()

		if err := validator.Validate(normalizeForValidation(args)); err != nil {
			resp := &actions.Response{
				Output:  actions.Output{Data: map[string]any{"error": err.Error()}},
				Message: fmt.Sprintf("Invalid arguments: %v", err),
				Code:    400,
			}
			recordInvocation(ctx, sc.Metrics(), desc.Name, resp, time.Since(start))
			logger.Warn("rejected tool arguments", logging.Action(desc.Name), logging.Err(err))
			return envelopeResult(resp)
		}

		fn := sc.Addon().Registry().Function(desc.Name)
		if fn == nil {
			return mcp.NewToolResultError(fmt.Sprintf("unknown tool: %s", desc.Name)), nil
		}

		// Make the recorder reachable from the calendar client calls.
		ctx = instrumentation.ContextWithMetrics(ctx, sc.Metrics())

		maxRetries := sc.Addon().Registry().MaxRetries(desc.Name)

		var result any
		var err error
		for attempt := 0; ; attempt++ {
			result, err = fn(ctx, args)
			if err == nil || attempt >= maxRetries {
				break
			}
			if m := sc.Metrics(); m != nil {
				m.RecordActionRetry(ctx, desc.Name)
			}
			logger.Warn("retrying tool after transport failure",
				logging.Action(desc.Name),
				slog.Int("attempt", attempt+1),
				logging.Err(err))
		}

		resp, ok := result.(*actions.Response)
		if !ok {
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("tool %s failed: %v", desc.Name, err)), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("tool %s returned an unexpected result", desc.Name)), nil
		}

		span.SetAttributes(attribute.Int("response.code", resp.Code))
		recordInvocation(ctx, sc.Metrics(), desc.Name, resp, time.Since(start))
		return envelopeResult(resp)
	}
}

// normalizeForValidation round-trips the arguments through JSON so the
// validator sees canonical types, e.g. integers supplied as int.
func normalizeForValidation(args map[string]any) any {
	raw, err := json.Marshal(args)
	if err != nil {
		return args
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return args
	}
	return doc
}

func envelopeResult(resp *actions.Response) (*mcp.CallToolResult, error) {
	raw, err := json.Marshal(resp)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(raw)), nil
}

func recordInvocation(ctx context.Context, m *instrumentation.Metrics, action string, resp *actions.Response, duration time.Duration) {
	if m == nil {
		return
	}

	status := instrumentation.StatusError
	if resp.Code >= 200 && resp.Code < 300 {
		status = instrumentation.StatusSuccess
	}
	m.RecordActionInvocation(ctx, action, status, resp.Code, duration)
}
