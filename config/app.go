package config

import (
	"github.com/kbukum/lockstep/inspect"
	"github.com/kbukum/lockstep/observability"
	"github.com/kbukum/lockstep/validation"
)

// ServiceName is the name used for config discovery and telemetry.
const ServiceName = "lockstep"

// DefaultMaxSteps bounds evaluation of a map that never exhausts.
const DefaultMaxSteps = 1000

// MaxStepsCeiling caps eval.max_steps. Every produced value of an
// evaluation is held in memory until it completes.
const MaxStepsCeiling = 1_000_000

// EvalConfig bounds map evaluation in the CLI and inspect server.
type EvalConfig struct {
	MaxSteps int `yaml:"max_steps" mapstructure:"max_steps" validate:"gte=1"`
}

// AppConfig is the full lockstep configuration.
type AppConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
	Inspect       inspect.Config       `yaml:"inspect" mapstructure:"inspect"`
	Eval          EvalConfig           `yaml:"eval" mapstructure:"eval"`
}

// ApplyDefaults fills every unset field.
func (c *AppConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Observability.ApplyDefaults()
	c.Inspect.ApplyDefaults()
	if c.Eval.MaxSteps == 0 {
		c.Eval.MaxSteps = DefaultMaxSteps
	}
	if c.Version == "" {
		c.Version = "dev"
	}
}

// Validate checks the struct tags of the whole tree, then the rules that
// span fields.
func (c *AppConfig) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	return validation.New().
		Range("eval.max_steps", c.Eval.MaxSteps, 1, MaxStepsCeiling).
		Custom(c.Inspect.RequestTimeout <= c.Inspect.WriteTimeout,
			"inspect.request_timeout", "must not exceed inspect.write_timeout").
		Err()
}

// Load reads, defaults and validates the lockstep configuration.
func Load(opts ...LoaderOption) (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := LoadConfig(ServiceName, cfg, append([]LoaderOption{WithEnvPrefix("LOCKSTEP")}, opts...)...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
