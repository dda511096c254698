package endpoint

import (
	"github.com/kbukum/reqkit/validation"
)

// Server supplies the routing target for endpoints.
type Server interface {
	// BaseURL is the absolute URL all endpoint paths are resolved against.
	BaseURL() string
	// Version is appended to the base URL as a path segment.
	Version() string
}

// ServerConfig is the stock Server value, loadable from configuration.
// BaseURL is only checked when a request is built; call Validate to check it eagerly.
type ServerConfig struct {
	URL        string `yaml:"base_url" mapstructure:"base_url" json:"base_url" validate:"required,url"`
	APIVersion string `yaml:"version" mapstructure:"version" json:"version"`
}

var _ Server = ServerConfig{}

// NewServer creates a ServerConfig.
func NewServer(baseURL, version string) ServerConfig {
	return ServerConfig{URL: baseURL, APIVersion: version}
}

// BaseURL implements Server.
func (c ServerConfig) BaseURL() string { return c.URL }

// Version implements Server.
func (c ServerConfig) Version() string { return c.APIVersion }

// Validate checks the configuration eagerly.
func (c ServerConfig) Validate() error {
	return validation.Validate(c)
}
