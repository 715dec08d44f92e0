package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kbukum/lockstep/errors"
)

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty config defaults to development", func(t *testing.T) {
		cfg := ServiceConfig{}
		cfg.ApplyDefaults()
		if cfg.Name != ServiceName {
			t.Errorf("expected name %q, got %q", ServiceName, cfg.Name)
		}
		if cfg.Environment != "development" {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
		if cfg.Logging.Level != "debug" {
			t.Errorf("expected debug logging in development, got %q", cfg.Logging.Level)
		}
	})

	t.Run("production keeps debug false and info logging", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
		if cfg.Logging.Level != "info" {
			t.Errorf("expected info logging, got %q", cfg.Logging.Level)
		}
	})
}

func TestAppConfigApplyDefaults(t *testing.T) {
	cfg := AppConfig{}
	cfg.ApplyDefaults()
	if cfg.Eval.MaxSteps != DefaultMaxSteps {
		t.Errorf("expected max steps %d, got %d", DefaultMaxSteps, cfg.Eval.MaxSteps)
	}
	if cfg.Inspect.Port == 0 {
		t.Error("expected inspect port default")
	}
	if cfg.Observability.SampleRate != 1.0 {
		t.Errorf("expected sample rate 1.0, got %v", cfg.Observability.SampleRate)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestAppConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
		field  string
	}{
		{"invalid environment", func(c *AppConfig) { c.Environment = "qa" }, "environment"},
		{"invalid log format", func(c *AppConfig) { c.Logging.Format = "xml" }, "logging.format"},
		{"negative max steps", func(c *AppConfig) { c.Eval.MaxSteps = -1 }, "eval.max_steps"},
		{"sample rate above one", func(c *AppConfig) { c.Observability.SampleRate = 2 }, "observability.sample_rate"},
		{"port out of range", func(c *AppConfig) { c.Inspect.Port = 70000 }, "inspect.port"},
		{"max steps above ceiling", func(c *AppConfig) { c.Eval.MaxSteps = MaxStepsCeiling + 1 }, "eval.max_steps"},
		{"request timeout beyond write timeout", func(c *AppConfig) {
			c.Inspect.RequestTimeout = 30
			c.Inspect.WriteTimeout = 15
		}, "inspect.request_timeout"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := AppConfig{}
			cfg.ApplyDefaults()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
				t.Fatalf("expected INVALID_INPUT, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.field) {
				t.Errorf("expected error mentioning %q, got %q", tc.field, err.Error())
			}
		})
	}
}

func TestLoadConfigWithYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")

	yamlContent := `
name: test-service
environment: staging
version: "1.0.0"
eval:
  max_steps: 50
inspect:
  port: 9191
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(WithConfigFile(configPath), WithFileSystem(&mockFS{files: map[string]bool{configPath: true}}))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Name != "test-service" {
		t.Errorf("expected name 'test-service', got %q", cfg.Name)
	}
	if cfg.Environment != "staging" {
		t.Errorf("expected environment 'staging', got %q", cfg.Environment)
	}
	if cfg.Eval.MaxSteps != 50 {
		t.Errorf("expected max steps 50, got %d", cfg.Eval.MaxSteps)
	}
	if cfg.Inspect.Port != 9191 {
		t.Errorf("expected port 9191, got %d", cfg.Inspect.Port)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(configPath, []byte("eval:\n  max_steps: 50\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("LOCKSTEP_EVAL_MAX_STEPS", "7")
	t.Setenv("LOCKSTEP_LOGGING_FORMAT", "json")
	t.Setenv("EVAL_MAX_STEPS", "99")

	cfg, err := Load(WithConfigFile(configPath), WithFileSystem(&mockFS{files: map[string]bool{configPath: true}}))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Eval.MaxSteps != 7 {
		t.Errorf("expected prefixed env to win, got %d", cfg.Eval.MaxSteps)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected json format, got %q", cfg.Logging.Format)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(configPath, []byte("environment: qa\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	_, err := Load(WithConfigFile(configPath), WithFileSystem(&mockFS{files: map[string]bool{configPath: true}}))
	if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	var cfg AppConfig
	// With no config file found, LoadConfig should still succeed (just empty config)
	err := LoadConfig("nonexistent-service", &cfg, WithConfigFile("/nonexistent/path.yml"), WithEnvPrefix("LOCKSTEP_TEST"))
	if err != nil {
		t.Fatalf("expected LoadConfig to succeed with missing file, got %v", err)
	}
	if cfg.Name != "" {
		t.Errorf("expected empty name, got %q", cfg.Name)
	}
}

func TestLoadConfigMalformedFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(configPath, []byte("name: [unterminated\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	var cfg AppConfig
	if err := LoadConfig(ServiceName, &cfg, WithConfigFile(configPath)); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestResolverWithMockFS(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./cmd/lockstep/config.yml": true,
		".env":                      true,
	}}
	resolver := &Resolver{FileSystem: fs}
	files := resolver.ResolveFiles(ServiceName, LoaderConfig{})
	if files.ConfigFile != "./cmd/lockstep/config.yml" {
		t.Errorf("expected config file at ./cmd/lockstep/config.yml, got %q", files.ConfigFile)
	}
	if files.EnvFile != ".env" {
		t.Errorf("expected env file .env, got %q", files.EnvFile)
	}
}

func TestResolverExplicitPathsWin(t *testing.T) {
	resolver := &Resolver{FileSystem: &mockFS{files: map[string]bool{"./config.yml": true}}}
	files := resolver.ResolveFiles(ServiceName, LoaderConfig{ConfigFile: "/etc/lockstep.yml", EnvFile: "/etc/lockstep.env"})
	if files.ConfigFile != "/etc/lockstep.yml" || files.EnvFile != "/etc/lockstep.env" {
		t.Errorf("unexpected resolution %+v", files)
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool  { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error { return nil }
func (m *mockFS) Getwd() (string, error)    { return "/mock", nil }

func TestLoaderOptions(t *testing.T) {
	var lc LoaderConfig
	WithFileSystem(&mockFS{})(&lc)
	WithConfigFile("/path/to/config.yml")(&lc)
	WithEnvFile("/path/to/.env")(&lc)
	WithEnvPrefix("lockstep_")(&lc)

	if lc.FileSystem == nil {
		t.Error("expected FileSystem to be set")
	}
	if lc.ConfigFile != "/path/to/config.yml" {
		t.Errorf("expected config file path, got %q", lc.ConfigFile)
	}
	if lc.EnvFile != "/path/to/.env" {
		t.Errorf("expected env file path, got %q", lc.EnvFile)
	}
	if lc.EnvPrefix != "LOCKSTEP" {
		t.Errorf("expected normalized prefix, got %q", lc.EnvPrefix)
	}
}

func TestGenerateEnvKeyVariants(t *testing.T) {
	variants := generateEnvKeyVariants("EVAL_MAX_STEPS")
	want := map[string]bool{"eval_max_steps": false, "eval.max_steps": false, "eval.max.steps": false}
	for _, v := range variants {
		if _, ok := want[v]; ok {
			want[v] = true
		}
	}
	for k, seen := range want {
		if !seen {
			t.Errorf("missing variant %q in %v", k, variants)
		}
	}
}
