package main

import (
	"fmt"
	"time"

	"github.com/kbukum/reqkit/config"
	"github.com/kbukum/reqkit/endpoint"
	"github.com/kbukum/reqkit/transport"
)

const serviceName = "reqkit"

// cliConfig is the reqkit.yml layout.
//
//	name: reqkit
//	default_environment: staging
//	servers:
//	  staging:
//	    base_url: https://staging.example.com
//	    version: v1
//	request_timeout: 10s
//	transport:
//	  http2: true
//	telemetry:
//	  tracing: true
//	  endpoint: localhost:4318
type cliConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	DefaultEnvironment string                           `yaml:"default_environment" mapstructure:"default_environment"`
	Servers            map[string]endpoint.ServerConfig `yaml:"servers" mapstructure:"servers"`
	RequestTimeout     time.Duration                    `yaml:"request_timeout" mapstructure:"request_timeout"`
	Transport          transport.Config                 `yaml:"transport" mapstructure:"transport"`
	Telemetry          telemetryConfig                  `yaml:"telemetry" mapstructure:"telemetry"`
}

type telemetryConfig struct {
	Tracing    bool    `yaml:"tracing" mapstructure:"tracing"`
	Metrics    bool    `yaml:"metrics" mapstructure:"metrics"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure   bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

func (c *cliConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Transport.ApplyDefaults()
	if c.Telemetry.Endpoint == "" {
		c.Telemetry.Endpoint = "localhost:4318"
	}
	if c.Telemetry.SampleRate == 0 {
		c.Telemetry.SampleRate = 1.0
	}
}

func (c *cliConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Transport.Validate(); err != nil {
		return fmt.Errorf("config.transport: %w", err)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("config.request_timeout must not be negative")
	}
	if c.DefaultEnvironment != "" {
		if _, ok := c.Servers[c.DefaultEnvironment]; !ok {
			return fmt.Errorf("config.default_environment %q is not in servers", c.DefaultEnvironment)
		}
	}
	return nil
}
