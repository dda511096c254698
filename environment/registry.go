package environment

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/kbukum/reqkit/endpoint"
	"github.com/kbukum/reqkit/errors"
)

// Registry maps environment names to server configurations. It is safe for
// concurrent use.
type Registry struct {
	mu      sync.RWMutex
	servers map[string]endpoint.ServerConfig
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{servers: make(map[string]endpoint.ServerConfig)}
}

// Register validates cfg and stores it under name, replacing any previous entry.
func (r *Registry) Register(name string, cfg endpoint.ServerConfig) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.InvalidConfig("environment name is required")
	}
	if err := cfg.Validate(); err != nil {
		if appErr, ok := errors.AsAppError(err); ok {
			return appErr.WithDetail("environment", name)
		}
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.servers[name] = cfg
	return nil
}

// RegisterAll registers every entry of servers in name order and stops at
// the first invalid one.
func (r *Registry) RegisterAll(servers map[string]endpoint.ServerConfig) error {
	names := make([]string, 0, len(servers))
	for name := range servers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := r.Register(name, servers[name]); err != nil {
			return fmt.Errorf("environment %q: %w", name, err)
		}
	}
	return nil
}

// Get returns the server registered under name. Surrounding whitespace is
// ignored, as in Register.
func (r *Registry) Get(name string) (endpoint.ServerConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.servers[strings.TrimSpace(name)]
	return cfg, ok
}

// MustGet is like Get but panics when name is not registered.
func (r *Registry) MustGet(name string) endpoint.ServerConfig {
	cfg, ok := r.Get(name)
	if !ok {
		panic(fmt.Sprintf("environment: %q not registered", name))
	}
	return cfg
}

// List returns the registered names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.servers))
	for name := range r.servers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
