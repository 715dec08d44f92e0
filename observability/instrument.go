package observability

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/lockstep/errors"
	"github.com/kbukum/lockstep/logger"
	"github.com/kbukum/lockstep/object"
)

// Cursor decorates an object.Cursor with a span and metrics per step.
// Values, exhaustion and errors pass through unchanged.
type Cursor struct {
	inner    object.Cursor
	id       string
	typeName string
	tracer   trace.Tracer
	metrics  *Metrics
	log      *logger.Logger
	steps    int64
}

// Option configures Instrument.
type Option func(*Cursor)

// WithTypeName sets the type name recorded on spans and metrics.
func WithTypeName(name string) Option {
	return func(c *Cursor) { c.typeName = name }
}

// WithTracerProvider records spans on tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Cursor) { c.tracer = tp.Tracer(defaultTracerName) }
}

// WithMetrics records step metrics on m.
func WithMetrics(m *Metrics) Option {
	return func(c *Cursor) { c.metrics = m }
}

// WithLogger logs failed steps on l at debug level.
func WithLogger(l *logger.Logger) Option {
	return func(c *Cursor) { c.log = l }
}

// Instrument wraps inner. Each wrapper gets a random instance id.
func Instrument(inner object.Cursor, opts ...Option) *Cursor {
	c := &Cursor{
		inner:    inner,
		id:       uuid.New().String(),
		typeName: object.TypeName(inner),
		tracer:   Tracer(defaultTracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ID returns the instance id recorded on every span.
func (c *Cursor) ID() string { return c.id }

// Steps returns how many times Next has been called.
func (c *Cursor) Steps() int64 { return c.steps }

// Unwrap returns the decorated cursor.
func (c *Cursor) Unwrap() object.Cursor { return c.inner }

// Next advances the decorated cursor inside a span.
func (c *Cursor) Next(ctx context.Context) (object.Value, bool, error) {
	c.steps++
	ctx, span := c.tracer.Start(ctx, SpanStep, trace.WithAttributes(
		attribute.String(AttrTypeName, c.typeName),
		attribute.String(AttrInstanceID, c.id),
		attribute.Int64(AttrStep, c.steps),
	))
	defer span.End()

	start := time.Now()
	v, ok, err := c.inner.Next(ctx)
	elapsed := time.Since(start)

	outcome := OutcomeProduced
	switch {
	case err != nil:
		outcome = OutcomeFailed
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if appErr, isApp := errors.AsAppError(err); isApp {
			span.SetAttributes(attribute.String(AttrErrorCode, string(appErr.Code)))
		}
		if c.log != nil {
			c.log.Debug("Step failed", logger.Fields(
				logger.FieldType, c.typeName,
				logger.FieldInstanceID, c.id,
				logger.FieldStep, c.steps,
				logger.FieldError, err.Error(),
			))
		}
	case !ok:
		outcome = OutcomeEnded
	}
	span.SetAttributes(attribute.String(AttrOutcome, outcome))

	if c.metrics != nil {
		c.metrics.RecordStep(ctx, c.typeName, outcome, elapsed)
	}
	return v, ok, err
}

// Close closes the decorated cursor.
func (c *Cursor) Close() error { return c.inner.Close() }
