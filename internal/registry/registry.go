package registry

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"sync"

	"github.com/fbenoist/calrooms/internal/logging"
)

// ActionFunc is the callable shape stored by the registry. Arguments arrive
// as a decoded JSON object. A non-nil error marks a transport-level failure
// that the orchestrator may retry; action-level failures are reported inside
// the returned value.
type ActionFunc func(ctx context.Context, args map[string]any) (any, error)

// Param declares one parameter of a registered callable. In a statically
// typed language the callable cannot be introspected at runtime, so the
// caller supplies the declaration alongside the function.
type Param struct {
	// Name is the parameter name as it appears in the input schema.
	Name string

	// Type is the declared parameter type. A nil Type leaves the parameter
	// unconstrained.
	Type reflect.Type

	// Default is the value used when the parameter is omitted. A nil Default
	// marks the parameter as required; Null marks it optional without a
	// concrete default.
	Default any
}

// Tool pairs a callable with the parameter declarations used to derive its
// input schema.
type Tool struct {
	Func   ActionFunc
	Params []Param
}

// Descriptor describes one registered action for a tool-calling orchestrator.
type Descriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

// Registry maps action names to callables, tool descriptors, and retry
// policies. All three maps share the same key domain after any RegisterTools
// call. Safe for concurrent use.
type Registry struct {
	mu          sync.RWMutex
	functions   map[string]ActionFunc
	descriptors map[string]Descriptor
	maxRetries  map[string]int

	logger     *slog.Logger
	onFallback func(action string)
}

// Option configures a Registry.
type Option func(*Registry)

// WithFallbackObserver installs a hook invoked with the action name whenever
// schema derivation falls back to the basic type mapping. Used to surface
// degraded schemas in metrics.
func WithFallbackObserver(fn func(action string)) Option {
	return func(r *Registry) {
		r.onFallback = fn
	}
}

// New creates an empty Registry. A nil logger falls back to slog.Default().
func New(logger *slog.Logger, opts ...Option) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{
		functions:   make(map[string]ActionFunc),
		descriptors: make(map[string]Descriptor),
		maxRetries:  make(map[string]int),
		logger:      logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RegisterTools registers every tool in tools, deriving an input schema from
// its parameter declarations. descriptions overrides the generated
// description per action name; maxRetries sets the retry budget per action
// name (missing entries default to 0). Re-registering a name overwrites the
// previous entry. RegisterTools never fails: schema derivation degrades to a
// best-effort schema rather than erroring out.
func (r *Registry) RegisterTools(tools map[string]Tool, descriptions map[string]string, maxRetries map[string]int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, tool := range tools {
		description, ok := descriptions[name]
		if !ok {
			description = defaultDescription(name)
		}

		retries := maxRetries[name]
		if retries < 0 {
			retries = 0
		}

		logger := logging.WithAction(r.logger, name)
		schema := r.deriveSchema(name, tool.Params, logger)

		r.functions[name] = tool.Func
		r.descriptors[name] = Descriptor{
			Name:        name,
			Description: description,
			InputSchema: schema,
		}
		r.maxRetries[name] = retries

		logger.Debug("registered tool", "params", len(tool.Params), "max_retries", retries)
	}
}

// ToolsForAction returns a copy of the full descriptor set. Mutating the
// returned map or the schemas inside it does not affect the registry.
func (r *Registry) ToolsForAction() map[string]Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]Descriptor, len(r.descriptors))
	for name, d := range r.descriptors {
		d.InputSchema = copySchema(d.InputSchema)
		out[name] = d
	}
	return out
}

// Function returns the callable registered under name, or nil when the name
// is unknown.
func (r *Registry) Function(name string) ActionFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.functions[name]
}

// MaxRetries returns the retry budget for name. Unknown names and names
// registered without an explicit override both return 0.
func (r *Registry) MaxRetries(name string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.maxRetries[name]
}

// Clear empties the registry. Subsequent lookups behave as on a freshly
// constructed instance.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.functions = make(map[string]ActionFunc)
	r.descriptors = make(map[string]Descriptor)
	r.maxRetries = make(map[string]int)
}

// defaultDescription builds a human-readable description from the action
// name. Names using the owner::verb convention yield
// "Execute {verb} action from {owner} addon".
func defaultDescription(name string) string {
	if strings.Contains(name, "::") {
		parts := strings.Split(name, "::")
		return fmt.Sprintf("Execute %s action from %s addon", parts[len(parts)-1], parts[0])
	}
	return fmt.Sprintf("Execute %s action", name)
}

// copySchema deep-copies a JSON-shaped schema value.
func copySchema(schema map[string]any) map[string]any {
	return copyJSONValue(schema).(map[string]any)
}

func copyJSONValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, elem := range v {
			out[key] = copyJSONValue(elem)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = copyJSONValue(elem)
		}
		return out
	default:
		return v
	}
}
