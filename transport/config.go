package transport

import (
	"fmt"
	"time"
)

const defaultTimeout = 30 * time.Second

// Config configures the HTTP transport.
type Config struct {
	// Timeout applies when a descriptor carries no timeout hint. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// TLS configures the client TLS settings.
	TLS *TLSConfig `yaml:"tls" mapstructure:"tls"`

	// HTTP2 configures the transport through x/net/http2 so that health
	// pings and read-idle timeouts apply to HTTP/2 connections.
	HTTP2 bool `yaml:"http2" mapstructure:"http2"`

	// ReadIdleTimeout is the HTTP/2 ping interval on idle connections.
	// Zero disables pings.
	ReadIdleTimeout time.Duration `yaml:"read_idle_timeout" mapstructure:"read_idle_timeout"`

	// UserAgent is set on requests that carry none. Defaults to reqkit/<version>.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("transport: timeout must be positive")
	}
	if c.ReadIdleTimeout < 0 {
		return fmt.Errorf("transport: read_idle_timeout must not be negative")
	}
	return c.TLS.Validate()
}
