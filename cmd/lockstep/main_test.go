package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/kbukum/lockstep/errors"
	"github.com/kbukum/lockstep/pipeline"
	"github.com/kbukum/lockstep/runner"
)

func execute(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestRunPairwiseSum(t *testing.T) {
	out, err := execute(t, context.Background(), "run", "add", "1,2,3", "10,20")
	if err != nil {
		t.Fatal(err)
	}
	if out != "11\n22\n" {
		t.Errorf("got %q, want 11 and 22", out)
	}
}

func TestRunRawStrings(t *testing.T) {
	out, err := execute(t, context.Background(), "run", "concat", "--raw", "ab", "xyz")
	if err != nil {
		t.Fatal(err)
	}
	if out != "ax\nby\n" {
		t.Errorf("got %q", out)
	}
}

func TestRunFloatsAndTuples(t *testing.T) {
	out, err := execute(t, context.Background(), "run", "tuple", "1.5,x", "2")
	if err != nil {
		t.Fatal(err)
	}
	if out != "[1.5 2]\n" {
		t.Errorf("got %q", out)
	}
}

func TestRunNoListsStopsAtLimit(t *testing.T) {
	out, err := execute(t, context.Background(), "run", "count", "-n", "3")
	if err != nil {
		t.Fatal(err)
	}
	if out != "0\n0\n0\n" {
		t.Errorf("got %q", out)
	}
}

func TestRunJSON(t *testing.T) {
	out, err := execute(t, context.Background(), "run", "mul", "--json", "2,3", "4,5,6")
	if err != nil {
		t.Fatal(err)
	}
	var outcome runner.Outcome
	if err := json.Unmarshal([]byte(out), &outcome); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if !reflect.DeepEqual(outcome.Values, []any{float64(8), float64(15)}) {
		t.Errorf("values = %v", outcome.Values)
	}
	if outcome.Type != "map" || outcome.Steps != 3 {
		t.Errorf("unexpected outcome %+v", outcome)
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errors.ErrorCode
	}{
		{"unknown function", []string{"run", "pow", "1"}, errors.ErrCodeFunctionNotFound},
		{"unknown type", []string{"run", "add", "--type", "zip", "1"}, errors.ErrCodeTypeNotFound},
		{"mapper failure", []string{"run", "add", "1,x"}, errors.ErrCodeInvalidInput},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := execute(t, context.Background(), tc.args...)
			if !errors.HasCode(err, tc.code) {
				t.Errorf("expected %s, got %v", tc.code, err)
			}
		})
	}
}

func TestRunRequiresFunction(t *testing.T) {
	if _, err := execute(t, context.Background(), "run"); err == nil {
		t.Error("expected an argument error")
	}
}

func TestDoc(t *testing.T) {
	out, err := execute(t, context.Background(), "doc")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "map(func, *iterables) --> map object") {
		t.Errorf("unexpected doc %q", out)
	}
	if _, err := execute(t, context.Background(), "doc", "zip"); !errors.HasCode(err, errors.ErrCodeTypeNotFound) {
		t.Errorf("expected TYPE_NOT_FOUND, got %v", err)
	}
}

func TestTypes(t *testing.T) {
	out, err := execute(t, context.Background(), "types")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "map") || !strings.Contains(out, "new,next,iter") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestFunctions(t *testing.T) {
	out, err := execute(t, context.Background(), "functions")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"add", "until_zero", "tuple"} {
		if !strings.Contains(out, name) {
			t.Errorf("missing %q in %q", name, out)
		}
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, context.Background(), "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "lockstep ") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestConfigFileBoundsRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("eval:\n  max_steps: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, context.Background(), "--config", path, "run", "count")
	if err != nil {
		t.Fatal(err)
	}
	if out != "0\n0\n" {
		t.Errorf("got %q, want two values", out)
	}
}

func TestInvalidLogLevel(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--log-level", "loud", "types"})
	if err := cmd.Execute(); !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out, err := execute(t, ctx, "serve", "--port", "0")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "listening on http://127.0.0.1:") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestServeRejectsBadOverrides(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		field string
	}{
		{"blank host", []string{"serve", "--host", " "}, "inspect.host"},
		{"port out of range", []string{"serve", "--port", "70000"}, "inspect.port"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := execute(t, context.Background(), tc.args...)
			if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
				t.Fatalf("expected INVALID_INPUT, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.field) {
				t.Errorf("expected %q in %q", tc.field, err.Error())
			}
		})
	}
}

func TestListSource(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		arg  string
		want []any
	}{
		{"1, 2.5,abc,", []any{int64(1), 2.5, "abc"}},
		{"1,,2", []any{int64(1), int64(2)}},
		{"", nil},
	}
	for _, tc := range tests {
		t.Run(tc.arg, func(t *testing.T) {
			got, err := pipeline.Collect(ctx, pipeline.From(listSource(ctx, tc.arg)))
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("listSource(%q) = %#v, want %#v", tc.arg, got, tc.want)
			}
		})
	}
}

func TestCharSource(t *testing.T) {
	ctx := context.Background()
	got, err := pipeline.Collect(ctx, pipeline.From(charSource(ctx, "aé1")))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []any{"a", "é", "1"}) {
		t.Errorf("charSource = %#v", got)
	}
}
