// Package logger provides structured logging on zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers:
//
//	log := logger.Get("router")
//	log.Debug("request built", logger.Fields(logger.FieldMethod, "GET"))
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
package logger
