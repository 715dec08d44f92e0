package observability

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/lockstep/object"
)

type scriptedCursor struct {
	values []object.Value
	err    error
	closed bool
}

func (c *scriptedCursor) Next(context.Context) (object.Value, bool, error) {
	if len(c.values) == 0 {
		return nil, false, c.err
	}
	v := c.values[0]
	c.values = c.values[1:]
	return v, true, nil
}

func (c *scriptedCursor) Close() error {
	c.closed = true
	return nil
}

func newRecorder() (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	sr := tracetest.NewSpanRecorder()
	return sr, sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
}

func spanAttr(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestInstrument_PassesValuesThrough(t *testing.T) {
	sr, tp := newRecorder()
	inner := &scriptedCursor{values: []object.Value{1, 2}}
	c := Instrument(inner, WithTypeName("map"), WithTracerProvider(tp))
	ctx := context.Background()

	for _, want := range []object.Value{1, 2} {
		v, ok, err := c.Next(ctx)
		if v != want || !ok || err != nil {
			t.Fatalf("got (%v, %v, %v), want (%v, true, nil)", v, ok, err, want)
		}
	}
	if v, ok, err := c.Next(ctx); v != nil || ok || err != nil {
		t.Fatalf("expected exhaustion, got (%v, %v, %v)", v, ok, err)
	}
	if c.Steps() != 3 {
		t.Errorf("expected 3 steps, got %d", c.Steps())
	}

	spans := sr.Ended()
	if len(spans) != 3 {
		t.Fatalf("expected 3 spans, got %d", len(spans))
	}
	wantOutcomes := []string{OutcomeProduced, OutcomeProduced, OutcomeEnded}
	for i, span := range spans {
		if span.Name() != SpanStep {
			t.Errorf("span %d: name %q", i, span.Name())
		}
		if v, _ := spanAttr(span, AttrOutcome); v.AsString() != wantOutcomes[i] {
			t.Errorf("span %d: outcome %q, want %q", i, v.AsString(), wantOutcomes[i])
		}
		if v, _ := spanAttr(span, AttrInstanceID); v.AsString() != c.ID() {
			t.Errorf("span %d: instance id %q, want %q", i, v.AsString(), c.ID())
		}
		if v, _ := spanAttr(span, AttrStep); v.AsInt64() != int64(i+1) {
			t.Errorf("span %d: step %d", i, v.AsInt64())
		}
	}
}

func TestInstrument_RecordsFailure(t *testing.T) {
	sr, tp := newRecorder()
	boom := stderrors.New("boom")
	c := Instrument(&scriptedCursor{err: boom}, WithTracerProvider(tp))

	_, _, err := c.Next(context.Background())
	if err != boom {
		t.Fatalf("expected boom verbatim, got %v", err)
	}
	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Status().Code != codes.Error {
		t.Errorf("expected error status, got %v", spans[0].Status())
	}
	if v, _ := spanAttr(spans[0], AttrOutcome); v.AsString() != OutcomeFailed {
		t.Errorf("expected failed outcome, got %q", v.AsString())
	}
	if len(spans[0].Events()) == 0 {
		t.Error("expected the error to be recorded as an event")
	}
}

func TestInstrument_DefaultTypeNameAndClose(t *testing.T) {
	inner := &scriptedCursor{}
	c := Instrument(inner)
	if c.typeName != "*observability.scriptedCursor" {
		t.Errorf("unexpected default type name %q", c.typeName)
	}
	if c.Unwrap() != object.Cursor(inner) {
		t.Error("Unwrap should return the inner cursor")
	}
	if err := c.Close(); err != nil || !inner.closed {
		t.Errorf("Close should reach the inner cursor, err=%v", err)
	}
	if Instrument(inner).ID() == c.ID() {
		t.Error("each wrapper gets its own id")
	}
}

func TestMetrics_RecordStep(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatal(err)
	}

	c := Instrument(&scriptedCursor{values: []object.Value{"a"}}, WithTypeName("map"), WithMetrics(m))
	ctx := context.Background()
	_, _, _ = c.Next(ctx)
	_, _, _ = c.Next(ctx)
	m.RecordConstruction(ctx, "map", "ok")

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatal(err)
	}

	steps := sumByAttr(t, rm, MetricStepTotal, AttrOutcome)
	if steps[OutcomeProduced] != 1 || steps[OutcomeEnded] != 1 {
		t.Errorf("unexpected step counts %v", steps)
	}
	constructions := sumByAttr(t, rm, MetricConstructionTotal, "status")
	if constructions["ok"] != 1 {
		t.Errorf("unexpected construction counts %v", constructions)
	}
}

func sumByAttr(t *testing.T, rm metricdata.ResourceMetrics, name, key string) map[string]int64 {
	t.Helper()
	out := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("%s: unexpected data type %T", name, m.Data)
			}
			for _, dp := range sum.DataPoints {
				v, _ := dp.Attributes.Value(attribute.Key(key))
				out[v.AsString()] += dp.Value
			}
		}
	}
	return out
}

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected default endpoint, got %q", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected SampleRate 1.0, got %f", cfg.SampleRate)
	}
	if cfg.MetricsInterval != 15*time.Second {
		t.Errorf("expected 15s interval, got %s", cfg.MetricsInterval)
	}
}

func TestSetup_Disabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{}, "lockstep", "dev", "development")
	if err != nil {
		t.Fatal(err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("no-op shutdown should not fail: %v", err)
	}
}

func TestSamplerFor(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "AlwaysOnSampler"},
		{2.0, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{-1, "AlwaysOffSampler"},
	}
	for _, tc := range tests {
		if got := samplerFor(tc.rate).Description(); got != tc.want {
			t.Errorf("samplerFor(%v) = %q, want %q", tc.rate, got, tc.want)
		}
	}
}
