// Package config loads reqkit configuration.
//
// It layers a YAML file, an optional .env file, and prefixed environment
// variables through Viper, then unmarshals into a caller-supplied struct:
//
//	var cfg CLIConfig
//	err := config.LoadConfig("reqkit", &cfg, config.WithConfigFile("reqkit.yml"))
//
// Environment variables use the service prefix with underscore-separated
// paths, e.g. REQKIT_LOGGING_LEVEL=debug.
package config
