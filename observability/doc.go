// Package observability provides OpenTelemetry tracing and metrics for
// lockstep iterators.
//
// Setup installs OTLP/HTTP tracer and meter providers from Config. Instrument
// wraps any object.Cursor (typically a *mapiter.Map) so that each step is
// recorded as a span and counted by outcome, without the wrapped iterator
// knowing about it:
//
//	shutdown, err := observability.Setup(ctx, cfg.Observability, "lockstep", version.Version, "production")
//	defer shutdown(ctx)
//
//	metrics, _ := observability.NewMetrics(observability.Meter("lockstep"))
//	c := observability.Instrument(m, observability.WithTypeName("map"),
//	    observability.WithMetrics(metrics))
package observability
