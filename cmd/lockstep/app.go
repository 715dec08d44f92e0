package main

import (
	"context"

	"go.opentelemetry.io/otel"

	"github.com/kbukum/lockstep/catalog"
	"github.com/kbukum/lockstep/config"
	"github.com/kbukum/lockstep/logger"
	"github.com/kbukum/lockstep/observability"
	"github.com/kbukum/lockstep/registry"
	"github.com/kbukum/lockstep/runner"
	"github.com/kbukum/lockstep/version"
)

// app holds the process-wide dependencies shared by every command.
type app struct {
	cfg      *config.AppConfig
	log      *logger.Logger
	registry *registry.Registry
	runner   *runner.Runner
	shutdown observability.ShutdownFunc
}

func newApp(ctx context.Context, cfg *config.AppConfig) (*app, error) {
	logger.Init(cfg.Logging)
	log := logger.WithComponent("cli")

	shutdown, err := observability.Setup(ctx, cfg.Observability, cfg.Name, version.GetVersionInfo().Short(), cfg.Environment)
	if err != nil {
		return nil, err
	}

	metrics, err := observability.NewMetrics(observability.Meter("github.com/kbukum/lockstep"))
	if err != nil {
		_ = shutdown(ctx)
		return nil, err
	}

	reg, err := catalog.NewRegistry()
	if err != nil {
		_ = shutdown(ctx)
		return nil, err
	}

	run := runner.New(reg,
		runner.WithMaxSteps(cfg.Eval.MaxSteps),
		runner.WithTracerProvider(otel.GetTracerProvider()),
		runner.WithMetrics(metrics),
		runner.WithLogger(logger.WithComponent("runner")),
	)

	log.Debug("Application initialized", logger.Fields(
		"environment", cfg.Environment,
		"types", reg.List(),
		"max_steps", cfg.Eval.MaxSteps,
		"telemetry", cfg.Observability.Enabled,
	))

	return &app{
		cfg:      cfg,
		log:      log,
		registry: reg,
		runner:   run,
		shutdown: shutdown,
	}, nil
}

func (a *app) close(ctx context.Context) {
	if err := a.shutdown(ctx); err != nil {
		a.log.Warn("Telemetry shutdown failed", logger.Fields(logger.FieldError, err.Error()))
	}
}
