// Package config loads lockstep configuration.
//
// Values come from a config.yml file, an optional .env file and the process
// environment, in increasing order of precedence. Environment variables
// carrying the LOCKSTEP_ prefix are mapped onto nested keys, so
// LOCKSTEP_INSPECT_PORT sets inspect.port and LOCKSTEP_EVAL_MAX_STEPS sets
// eval.max_steps.
//
// # Usage
//
//	cfg, err := config.Load(config.WithConfigFile("./config.yml"))
//
// LoadConfig is the lower-level entry point used by Load; it unmarshals into
// any struct and applies neither defaults nor validation.
package config
