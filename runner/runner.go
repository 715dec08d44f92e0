package runner

import (
	"context"
	"io"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/kbukum/lockstep/catalog"
	"github.com/kbukum/lockstep/errors"
	"github.com/kbukum/lockstep/logger"
	"github.com/kbukum/lockstep/mapiter"
	"github.com/kbukum/lockstep/object"
	"github.com/kbukum/lockstep/observability"
	"github.com/kbukum/lockstep/pipeline"
	"github.com/kbukum/lockstep/registry"
	"github.com/kbukum/lockstep/validation"
)

const tracerName = "github.com/kbukum/lockstep/runner"

// DefaultMaxSteps is used when no bound is configured.
const DefaultMaxSteps = 1000

// Request describes one evaluation.
type Request struct {
	Type      string `json:"type"`
	Fn        string `json:"fn" validate:"required"`
	Iterables []any  `json:"iterables"`
	Limit     int    `json:"limit" validate:"gte=0"`
}

// Outcome is the result of a completed evaluation.
type Outcome struct {
	InstanceID string `json:"instance_id"`
	Type       string `json:"type"`
	Values     []any  `json:"values"`
	Steps      int64  `json:"steps"`
	// LimitReached is set when as many values as the step bound were
	// produced. The instance was not stepped again to find out whether more
	// values remained.
	LimitReached bool `json:"limit_reached"`
}

// Runner evaluates requests against a registry.
type Runner struct {
	registry *registry.Registry
	tracer   trace.Tracer
	tp       trace.TracerProvider
	metrics  *observability.Metrics
	log      *logger.Logger
	maxSteps int
}

// Option configures a Runner.
type Option func(*Runner)

// WithMaxSteps bounds the number of values a single request may produce.
func WithMaxSteps(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.maxSteps = n
		}
	}
}

// WithTracerProvider records spans on tp.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(r *Runner) { r.tp = tp }
}

// WithMetrics records construction and step metrics on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// WithLogger sets the logger. Defaults to the global logger.
func WithLogger(l *logger.Logger) Option {
	return func(r *Runner) { r.log = l }
}

// New creates a Runner over reg.
func New(reg *registry.Registry, opts ...Option) *Runner {
	r := &Runner{
		registry: reg,
		tp:       noop.NewTracerProvider(),
		maxSteps: DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.WithComponent("runner")
	}
	r.tracer = r.tp.Tracer(tracerName)
	return r
}

// MaxSteps returns the configured step bound.
func (r *Runner) MaxSteps() int { return r.maxSteps }

// Run evaluates req and collects every produced value.
func (r *Runner) Run(ctx context.Context, req Request) (*Outcome, error) {
	return r.run(ctx, req, nil)
}

// Stream evaluates req and passes each value to sink as it is produced.
// The returned Outcome still carries every value.
func (r *Runner) Stream(ctx context.Context, req Request, sink func(context.Context, any) error) (*Outcome, error) {
	return r.run(ctx, req, sink)
}

func (r *Runner) run(ctx context.Context, req Request, sink func(context.Context, any) error) (*Outcome, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}
	typeName := req.Type
	if typeName == "" {
		typeName = mapiter.TypeName
	}
	fn, err := catalog.Lookup(req.Fn)
	if err != nil {
		return nil, err
	}
	limit := req.Limit
	if limit == 0 || limit > r.maxSteps {
		limit = r.maxSteps
	}

	self, err := r.construct(ctx, typeName, fn, req.Iterables)
	if err != nil {
		return nil, err
	}

	cur := observability.Instrument(&slotCursor{registry: r.registry, typeName: typeName, self: self},
		observability.WithTypeName(typeName),
		observability.WithTracerProvider(r.tp),
		observability.WithMetrics(r.metrics),
		observability.WithLogger(r.log),
	)

	p := pipeline.Take(pipeline.From[any](cur), limit)
	var values []any
	if sink == nil {
		values, err = pipeline.Collect(ctx, p)
	} else {
		err = pipeline.ForEach(ctx, pipeline.Tap(p, sink), func(_ context.Context, v any) error {
			values = append(values, v)
			return nil
		})
	}
	if err != nil {
		r.log.Debug("Evaluation failed", logger.Fields(
			logger.FieldType, typeName,
			logger.FieldInstanceID, cur.ID(),
			logger.FieldStep, cur.Steps(),
			logger.FieldError, err.Error(),
		))
		return nil, err
	}
	if values == nil {
		values = []any{}
	}

	r.log.Debug("Evaluation completed", logger.Fields(
		logger.FieldType, typeName,
		logger.FieldInstanceID, cur.ID(),
		logger.FieldStep, cur.Steps(),
	))
	return &Outcome{
		InstanceID:   cur.ID(),
		Type:         typeName,
		Values:       values,
		Steps:        cur.Steps(),
		LimitReached: len(values) == limit,
	}, nil
}

func (r *Runner) construct(ctx context.Context, typeName string, fn object.Func, iterables []any) (object.Value, error) {
	ctx, span := r.tracer.Start(ctx, observability.SpanConstruct, trace.WithAttributes(
		attribute.String(observability.AttrTypeName, typeName),
		attribute.Int("lockstep.arity", len(iterables)),
	))
	defer span.End()

	args := make([]object.Value, 0, len(iterables)+1)
	args = append(args, fn)
	args = append(args, iterables...)

	start := time.Now()
	self, err := r.registry.Construct(ctx, typeName, args...)
	status := "ok"
	if err != nil {
		status = string(errors.ErrCodeInternal)
		if appErr, ok := errors.AsAppError(err); ok {
			status = string(appErr.Code)
			span.SetAttributes(attribute.String(observability.AttrErrorCode, status))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if r.metrics != nil {
		r.metrics.RecordConstruction(ctx, typeName, status)
	}
	if err != nil {
		r.log.Debug("Construction failed", logger.Fields(
			logger.FieldType, typeName,
			logger.FieldError, err.Error(),
		))
		return nil, err
	}
	r.log.Debug("Constructed", logger.DurationFields("construct", time.Since(start)))
	return self, nil
}

// slotCursor steps an instance through its type's next slot.
type slotCursor struct {
	registry *registry.Registry
	typeName string
	self     object.Value
}

func (c *slotCursor) Next(ctx context.Context) (object.Value, bool, error) {
	return c.registry.Next(ctx, c.typeName, c.self)
}

func (c *slotCursor) Close() error {
	if closer, ok := c.self.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
