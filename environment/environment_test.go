package environment

import (
	"context"
	"reflect"
	"testing"

	"github.com/kbukum/reqkit/endpoint"
	"github.com/kbukum/reqkit/errors"
	"github.com/kbukum/reqkit/logger"
	"github.com/kbukum/reqkit/request"
	"github.com/kbukum/reqkit/router"
	"github.com/kbukum/reqkit/transport"
	"github.com/kbukum/reqkit/validation"
)

func newRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry()
	err := reg.RegisterAll(map[string]endpoint.ServerConfig{
		"production": endpoint.NewServer("https://api.example.com", "v1"),
		"staging":    endpoint.NewServer("https://staging.example.com", "v2"),
	})
	if err != nil {
		t.Fatalf("RegisterAll: %v", err)
	}
	return reg
}

func newManager(t *testing.T, opts ...router.Option) *Manager[endpoint.Spec] {
	t.Helper()
	opts = append([]router.Option{router.WithLogger(logger.Nop())}, opts...)
	m := NewManager(newRegistry(t), router.New[endpoint.Spec](opts...))
	m.log = logger.Nop()
	return m
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	reg := newRegistry(t)
	cfg, ok := reg.Get("staging")
	if !ok || cfg.BaseURL() != "https://staging.example.com" || cfg.Version() != "v2" {
		t.Errorf("unexpected staging config %+v %v", cfg, ok)
	}
	if _, ok := reg.Get("qa"); ok {
		t.Error("expected qa to be missing")
	}
	if got := reg.List(); !reflect.DeepEqual(got, []string{"production", "staging"}) {
		t.Errorf("unexpected list %v", got)
	}
}

func TestRegistry_RegisterValidates(t *testing.T) {
	reg := NewRegistry()

	err := reg.Register("broken", endpoint.NewServer("not a url", "v1"))
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Fatalf("expected INVALID_CONFIG, got %v", err)
	}
	appErr, _ := errors.AsAppError(err)
	if appErr.Details["environment"] != "broken" {
		t.Errorf("expected environment detail, got %v", appErr.Details)
	}
	if len(validation.Fields(err)) == 0 {
		t.Error("expected field details")
	}

	if err := reg.Register("  ", endpoint.NewServer("https://x.example.com", "")); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("expected INVALID_CONFIG for blank name, got %v", err)
	}
	if len(reg.List()) != 0 {
		t.Errorf("expected nothing registered, got %v", reg.List())
	}
}

func TestRegistry_RegisterAllStopsAtFirstInvalid(t *testing.T) {
	reg := NewRegistry()
	err := reg.RegisterAll(map[string]endpoint.ServerConfig{
		"a": endpoint.NewServer("https://a.example.com", ""),
		"b": endpoint.NewServer("", ""),
		"c": endpoint.NewServer("https://c.example.com", ""),
	})
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Fatalf("expected INVALID_CONFIG, got %v", err)
	}
	if got := reg.List(); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("expected only a registered, got %v", got)
	}
}

func TestRegistry_MustGet(t *testing.T) {
	reg := newRegistry(t)
	if reg.MustGet("production").BaseURL() != "https://api.example.com" {
		t.Error("unexpected production config")
	}
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown environment")
		}
	}()
	reg.MustGet("qa")
}

func TestManager_NoSelection(t *testing.T) {
	m := newManager(t)
	if m.Current() != "" {
		t.Errorf("expected no selection, got %q", m.Current())
	}
	ep := endpoint.New(endpoint.GET, "users", nil)
	if _, err := m.Build(ep); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("expected INVALID_CONFIG, got %v", err)
	}
	if _, ok := m.TryBuild(ep); ok {
		t.Error("expected TryBuild to fail")
	}

	var gotErr error
	m.Request(context.Background(), ep, func(_ []byte, _ *transport.StatusInfo, err error) { gotErr = err })
	if !errors.Is(gotErr, errors.ErrCodeInvalidConfig) {
		t.Errorf("expected INVALID_CONFIG from Request, got %v", gotErr)
	}
}

func TestManager_UsePaddedName(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(" sandbox ", endpoint.NewServer("https://sandbox.example.com", "v1")); err != nil {
		t.Fatalf("Register: %v", err)
	}
	for _, name := range []string{" sandbox ", "sandbox"} {
		if _, ok := reg.Get(name); !ok {
			t.Errorf("Get(%q): expected a match", name)
		}
	}

	m := NewManager(reg, router.New[endpoint.Spec](router.WithLogger(logger.Nop())))
	m.log = logger.Nop()
	if err := m.Use(" sandbox "); err != nil {
		t.Fatalf("Use: %v", err)
	}
	if got := m.Current(); got != "sandbox" {
		t.Errorf("Current() = %q, want %q", got, "sandbox")
	}
	d, err := m.Build(endpoint.New(endpoint.GET, "users", nil))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := d.URL.String(); got != "https://sandbox.example.com/v1/users" {
		t.Errorf("unexpected URL %q", got)
	}
}

func TestManager_UseUnknown(t *testing.T) {
	m := newManager(t)
	err := m.Use("qa")
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Fatalf("expected INVALID_CONFIG, got %v", err)
	}
	appErr, _ := errors.AsAppError(err)
	if !reflect.DeepEqual(appErr.Details["available"], []string{"production", "staging"}) {
		t.Errorf("unexpected available detail %v", appErr.Details["available"])
	}
}

func TestManager_BuildAgainstSelection(t *testing.T) {
	m := newManager(t)
	ep := endpoint.New(endpoint.GET, "users", nil)

	for _, tc := range []struct{ env, want string }{
		{"production", "https://api.example.com/v1/users"},
		{"staging", "https://staging.example.com/v2/users"},
	} {
		if err := m.Use(tc.env); err != nil {
			t.Fatalf("Use(%s): %v", tc.env, err)
		}
		d, err := m.Build(ep)
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		if d.URL.String() != tc.want {
			t.Errorf("%s: URL = %q, want %q", tc.env, d.URL, tc.want)
		}
		if d, ok := m.TryBuild(ep); !ok || d.URL.String() != tc.want {
			t.Errorf("%s: TryBuild = %v, %v", tc.env, d, ok)
		}
	}
}

type recordingTransport struct {
	urls     []string
	canceled int
}

func (r *recordingTransport) Dispatch(_ context.Context, desc *request.Descriptor, done transport.Completion) transport.Task {
	r.urls = append(r.urls, desc.URL)
	done(nil, &transport.StatusInfo{Code: 204}, nil)
	return cancelFunc(func() { r.canceled++ })
}

type cancelFunc func()

func (cancelFunc) ID() string  { return "task" }
func (f cancelFunc) Cancel() { f() }

func TestManager_RequestAndCancel(t *testing.T) {
	rt := &recordingTransport{}
	m := newManager(t, router.WithTransport(rt))
	if err := m.Use("staging"); err != nil {
		t.Fatal(err)
	}

	var status int
	m.Request(context.Background(), endpoint.New(endpoint.DELETE, "users/7", nil),
		func(_ []byte, s *transport.StatusInfo, err error) {
			if err == nil {
				status = s.Code
			}
		})
	if status != 204 {
		t.Errorf("expected 204, got %d", status)
	}
	if !reflect.DeepEqual(rt.urls, []string{"https://staging.example.com/v2/users/7"}) {
		t.Errorf("unexpected dispatched urls %v", rt.urls)
	}

	m.Cancel()
	if rt.canceled != 1 {
		t.Errorf("expected one cancel, got %d", rt.canceled)
	}
}
