package credentials

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/fbenoist/calrooms/internal/logging"
)

// Registry stores credential values in memory, keyed by secret name.
// Values are never logged raw. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	secrets map[string]string
	logger  *slog.Logger
}

// New creates an empty credential registry. A nil logger falls back to
// slog.Default().
func New(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		secrets: make(map[string]string),
		logger:  logger,
	}
}

// Store saves a single credential, overwriting any previous value.
func (r *Registry) Store(name, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.secrets[name] = value
	r.logger.Debug("stored credential", "name", name, "value", logging.SanitizeToken(value))
}

// StoreMultiple saves every credential in the map.
func (r *Registry) StoreMultiple(secrets map[string]string) {
	for name, value := range secrets {
		r.Store(name, value)
	}
}

// Get returns the credential value and whether it exists.
func (r *Registry) Get(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	value, ok := r.secrets[name]
	return value, ok
}

// Has reports whether a credential exists under name.
func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Names returns the stored credential names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.secrets))
	for name := range r.secrets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clear removes all stored credentials.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.secrets = make(map[string]string)
}
