package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kbukum/reqkit/logger"
)

type testServer struct {
	BaseURL string `mapstructure:"base_url"`
	Version string `mapstructure:"version"`
}

type testConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Servers       map[string]testServer `mapstructure:"servers"`
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc"}
		cfg.ApplyDefaults()
		if cfg.Environment != EnvDevelopment {
			t.Errorf("expected development, got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
		if cfg.Logging.Level != "debug" {
			t.Errorf("expected debug log level, got %q", cfg.Logging.Level)
		}
	})

	t.Run("production keeps debug false", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc", Environment: EnvProduction}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
		if cfg.Logging.Level != "info" {
			t.Errorf("expected info log level, got %q", cfg.Logging.Level)
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	validLogging := logger.Config{Level: "info", Format: logger.FormatJSON, Output: "stderr"}
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr string
	}{
		{"valid", ServiceConfig{Name: "svc", Environment: EnvStaging, Logging: validLogging}, ""},
		{"missing name", ServiceConfig{Environment: EnvProduction, Logging: validLogging}, "config.name is required"},
		{"bad environment", ServiceConfig{Name: "svc", Environment: "qa", Logging: validLogging}, "config.environment must be one of"},
		{"bad logging", ServiceConfig{Name: "svc", Environment: EnvStaging}, "config.logging"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestLoadConfigWithYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "reqkit.yml", `
name: reqkit
environment: staging
logging:
  level: warn
  format: json
servers:
  staging:
    base_url: https://staging.example.com
    version: v2
`)

	var cfg testConfig
	if err := LoadConfig("reqkit-test", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "reqkit" || cfg.Environment != EnvStaging {
		t.Errorf("unexpected service config %+v", cfg.ServiceConfig)
	}
	if cfg.Logging.Level != "warn" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging config %+v", cfg.Logging)
	}
	srv := cfg.Servers["staging"]
	if srv.BaseURL != "https://staging.example.com" || srv.Version != "v2" {
		t.Errorf("unexpected server %+v", srv)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "reqkit.yml", "name: reqkit\nenvironment: staging\n")
	t.Setenv("REQKITTEST_ENVIRONMENT", "production")
	t.Setenv("REQKITTEST_LOGGING_NO_COLOR", "true")

	var cfg testConfig
	if err := LoadConfig("reqkittest", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Environment != EnvProduction {
		t.Errorf("expected env override, got %q", cfg.Environment)
	}
	if !cfg.Logging.NoColor {
		t.Error("expected logging.no_color from env")
	}
}

func TestLoadConfigEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := writeFile(t, dir, ".env", "ENVFILETEST_NAME=from-dotenv\n")
	t.Cleanup(func() { _ = os.Unsetenv("ENVFILETEST_NAME") })

	var cfg testConfig
	err := LoadConfig("envfiletest", &cfg,
		WithConfigFile(filepath.Join(dir, "missing.yml")),
		WithEnvFile(envPath),
	)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "from-dotenv" {
		t.Errorf("expected name from .env, got %q", cfg.Name)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	var cfg testConfig
	if err := LoadConfig("nonexistent-service", &cfg, WithConfigFile("/nonexistent/path.yml")); err != nil {
		t.Fatalf("expected missing file to be ignored, got %v", err)
	}
}

func TestLoadConfigMalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.yml", "name: [unterminated\n")

	var cfg testConfig
	if err := LoadConfig("reqkit", &cfg, WithConfigFile(path)); err == nil {
		t.Fatal("expected error for malformed config")
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool  { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error { return nil }

func TestResolverWithMockFS(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./cmd/reqkit/config.yml": true,
		"./.env":                  true,
	}}
	files := (&Resolver{FileSystem: fs}).ResolveFiles("reqkit", LoaderConfig{})
	if files.ConfigFile != "./cmd/reqkit/config.yml" {
		t.Errorf("unexpected config file %q", files.ConfigFile)
	}
	if files.EnvFile != "./.env" {
		t.Errorf("unexpected env file %q", files.EnvFile)
	}

	explicit := (&Resolver{FileSystem: fs}).ResolveFiles("reqkit", LoaderConfig{ConfigFile: "x.yml"})
	if explicit.ConfigFile != "x.yml" {
		t.Errorf("expected explicit path to win, got %q", explicit.ConfigFile)
	}
}

func TestDefaultEnvPrefix(t *testing.T) {
	if got := DefaultEnvPrefix("my-tool"); got != "MY_TOOL_" {
		t.Errorf("unexpected prefix %q", got)
	}
	if got := DefaultEnvPrefix(""); got != "" {
		t.Errorf("expected empty prefix, got %q", got)
	}
}

func TestEnvKeyVariants(t *testing.T) {
	got := envKeyVariants("LOGGING_NO_COLOR")
	want := map[string]bool{
		"logging_no_color": true,
		"logging.no.color": true,
		"logging.no_color": true,
		"logging_no.color": true,
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d variants, got %v", len(want), got)
	}
	for _, v := range got {
		if !want[v] {
			t.Errorf("unexpected variant %q", v)
		}
	}
	if v := envKeyVariants("NAME"); len(v) != 1 || v[0] != "name" {
		t.Errorf("unexpected single-part variants %v", v)
	}
}

func TestOptions(t *testing.T) {
	var lc LoaderConfig
	WithFileSystem(&mockFS{})(&lc)
	WithConfigFile("/c.yml")(&lc)
	WithEnvFile("/.env")(&lc)
	WithEnvPrefix("X_")(&lc)
	if lc.FileSystem == nil || lc.ConfigFile != "/c.yml" || lc.EnvFile != "/.env" || lc.EnvPrefix != "X_" {
		t.Errorf("unexpected loader config %+v", lc)
	}
}
