// Package logger provides structured logging for lockstep using zerolog.
//
// It supports JSON and console output, log level configuration, and
// component-scoped loggers with structured fields. The builtins themselves
// never log; logging happens in the registry, the observability decorator,
// the inspect server and the CLI.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.WithComponent("inspect")
//	log.Info("server started", logger.Fields("addr", addr))
package logger
