package environment

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/kbukum/reqkit/endpoint"
	"github.com/kbukum/reqkit/errors"
	"github.com/kbukum/reqkit/logger"
	"github.com/kbukum/reqkit/request"
	"github.com/kbukum/reqkit/router"
	"github.com/kbukum/reqkit/transport"
)

// Manager pairs a Router with the currently selected environment.
type Manager[E endpoint.Endpoint] struct {
	mu       sync.RWMutex
	registry *Registry
	router   *router.Router[E]
	current  string
	log      *logger.Logger
}

// NewManager creates a Manager with no environment selected.
func NewManager[E endpoint.Endpoint](registry *Registry, r *router.Router[E]) *Manager[E] {
	return &Manager[E]{
		registry: registry,
		router:   r,
		log:      logger.Get("environment"),
	}
}

// Use selects the environment subsequent builds target.
func (m *Manager[E]) Use(name string) error {
	name = strings.TrimSpace(name)
	if _, ok := m.registry.Get(name); !ok {
		return errors.InvalidConfig(fmt.Sprintf("environment %q not registered", name)).
			WithDetail("available", m.registry.List())
	}
	m.mu.Lock()
	m.current = name
	m.mu.Unlock()
	m.log.Info("environment selected", logger.Fields(logger.FieldEnvironment, name))
	return nil
}

// Current returns the selected environment name, or "" if none.
func (m *Manager[E]) Current() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Server returns the selected environment's server configuration.
func (m *Manager[E]) Server() (endpoint.ServerConfig, error) {
	name := m.Current()
	if name == "" {
		return endpoint.ServerConfig{}, errors.InvalidConfig("no environment selected")
	}
	cfg, ok := m.registry.Get(name)
	if !ok {
		return endpoint.ServerConfig{}, errors.InvalidConfig(fmt.Sprintf("environment %q not registered", name))
	}
	return cfg, nil
}

// Build builds ep against the selected environment.
func (m *Manager[E]) Build(ep E) (*request.Draft, error) {
	return m.BuildContext(context.Background(), ep)
}

// BuildContext builds ep against the selected environment, tracing under ctx.
func (m *Manager[E]) BuildContext(ctx context.Context, ep E) (*request.Draft, error) {
	srv, err := m.Server()
	if err != nil {
		return nil, err
	}
	return m.router.BuildContext(ctx, srv, ep)
}

// TryBuild is the lenient form of Build.
func (m *Manager[E]) TryBuild(ep E) (*request.Draft, bool) {
	srv, err := m.Server()
	if err != nil {
		m.log.WithError(err).Debug("request build skipped")
		return nil, false
	}
	return m.router.TryBuild(srv, ep)
}

// Request builds ep against the selected environment and dispatches it.
func (m *Manager[E]) Request(ctx context.Context, ep E, done transport.Completion) {
	srv, err := m.Server()
	if err != nil {
		if done != nil {
			done(nil, nil, err)
		}
		return
	}
	m.router.Request(ctx, srv, ep, done)
}

// Cancel cancels the router's in-flight request.
func (m *Manager[E]) Cancel() {
	m.router.Cancel()
}
