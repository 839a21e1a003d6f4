package addon

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/fbenoist/calrooms/internal/actions"
	"github.com/fbenoist/calrooms/internal/config"
	"github.com/fbenoist/calrooms/internal/credentials"
	"github.com/fbenoist/calrooms/internal/logging"
	"github.com/fbenoist/calrooms/internal/registry"
)

// Type identifies this addon to the host system.
const Type = "google_calendars"

// ObserverCallback receives the outcome of every action invocation routed
// through the addon.
type ObserverCallback func(addonID, action string, response *actions.Response)

// Addon bundles the calendar actions with their configuration, credential
// store, and tool registry. The host drives it through LoadConfig,
// LoadCredentials, and LoadTools before invoking actions.
type Addon struct {
	mu sync.RWMutex

	cfg      *config.AddonConfig
	creds    *credentials.Registry
	tools    *registry.Registry
	logger   *slog.Logger
	observer ObserverCallback
	addonID  string
}

// New creates an Addon with default configuration and an empty tool
// registry. Registry options are forwarded, e.g. a schema fallback observer.
func New(logger *slog.Logger, opts ...registry.Option) *Addon {
	logger = logging.WithAddonType(logger, Type)
	return &Addon{
		cfg:    config.Default(),
		creds:  credentials.New(logger),
		tools:  registry.New(logger, opts...),
		logger: logger,
	}
}

// LoadConfig decodes and validates a host configuration payload.
func (a *Addon) LoadConfig(payload map[string]any) error {
	cfg, err := config.Load(payload)
	if err != nil {
		a.logger.Error("failed to load addon configuration", logging.Err(err))
		return err
	}

	a.mu.Lock()
	a.cfg = cfg
	a.mu.Unlock()

	a.logger.Info("addon configuration loaded",
		slog.String("default_calendar_id", cfg.DefaultCalendarID),
		slog.Bool("debug", cfg.EnableDebug))
	return nil
}

// LoadCredentials stores the given secrets after checking that every secret
// declared in the configuration is present.
func (a *Addon) LoadCredentials(secrets map[string]string) error {
	a.mu.RLock()
	required := a.cfg.RequiredSecrets()
	a.mu.RUnlock()

	var missing []string
	for _, name := range required {
		if _, ok := secrets[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		err := fmt.Errorf("missing required secrets: %v", missing)
		a.logger.Error("failed to load credentials", logging.Err(err))
		return err
	}

	a.creds.StoreMultiple(secrets)
	a.logger.Info("credentials loaded", slog.Int("count", len(secrets)))
	return nil
}

// LoadTools registers tool callables with their descriptions and retry
// policies.
func (a *Addon) LoadTools(tools map[string]registry.Tool, descriptions map[string]string, maxRetries map[string]int) {
	a.tools.RegisterTools(tools, descriptions, maxRetries)

	registered := a.tools.ToolsForAction()
	names := make([]string, 0, len(registered))
	for name := range registered {
		names = append(names, name)
	}
	a.logger.Info("registered tools", slog.Int("count", len(registered)), slog.Any("names", names))
}

// Tools returns the registered tool descriptors.
func (a *Addon) Tools() map[string]registry.Descriptor {
	return a.tools.ToolsForAction()
}

// ClearTools removes all registered tools.
func (a *Addon) ClearTools() {
	a.tools.Clear()
}

// Registry exposes the tool registry for callers that dispatch actions.
func (a *Addon) Registry() *registry.Registry {
	return a.tools
}

// SetObserverCallback installs a callback notified after every action
// invocation, tagged with the given addon ID.
func (a *Addon) SetObserverCallback(cb ObserverCallback, addonID string) {
	a.mu.Lock()
	a.observer = cb
	a.addonID = addonID
	a.mu.Unlock()
}

// Config returns the current configuration.
func (a *Addon) Config() *config.AddonConfig {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cfg
}

// Credentials returns the credential registry.
func (a *Addon) Credentials() *credentials.Registry {
	return a.creds
}

// notify reports an action outcome to the observer callback, if set.
func (a *Addon) notify(action string, resp *actions.Response) {
	a.mu.RLock()
	observer := a.observer
	addonID := a.addonID
	a.mu.RUnlock()

	if observer != nil && resp != nil {
		observer(addonID, action, resp)
	}
}

// ListEvents runs the list_events action against the current configuration
// and credentials.
func (a *Addon) ListEvents(ctx context.Context, params actions.ListEventsParams) (*actions.Response, error) {
	resp, err := actions.ListEvents(ctx, a.Config(), a.creds, a.logger, params)
	a.notify("list_events", resp)
	return resp, err
}

// CreateEvent runs the create_events action.
func (a *Addon) CreateEvent(ctx context.Context, params actions.CreateEventParams) (*actions.Response, error) {
	resp, err := actions.CreateEvent(ctx, a.Config(), a.creds, a.logger, params)
	a.notify("create_events", resp)
	return resp, err
}

// FreeBusy runs the freebusy_query action.
func (a *Addon) FreeBusy(ctx context.Context, params actions.FreeBusyParams) (*actions.Response, error) {
	resp, err := actions.FreeBusy(ctx, a.Config(), a.creds, a.logger, params)
	a.notify("freebusy_query", resp)
	return resp, err
}
