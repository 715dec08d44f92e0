package inspect

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kbukum/lockstep/resilience"
)

// Config holds inspect HTTP server configuration.
type Config struct {
	Host           string `yaml:"host" mapstructure:"host"`
	Port           int    `yaml:"port" mapstructure:"port" validate:"gte=0,lte=65535"`
	ReadTimeout    int    `yaml:"read_timeout" mapstructure:"read_timeout" validate:"gte=0"`       // seconds
	WriteTimeout   int    `yaml:"write_timeout" mapstructure:"write_timeout" validate:"gte=0"`     // seconds
	IdleTimeout    int    `yaml:"idle_timeout" mapstructure:"idle_timeout" validate:"gte=0"`       // seconds
	RequestTimeout int    `yaml:"request_timeout" mapstructure:"request_timeout" validate:"gte=0"` // seconds, per /eval
	MaxBodySize    string `yaml:"max_body_size" mapstructure:"max_body_size"`                      // e.g. "1MB"

	// EvalRate is the number of POST /eval requests admitted per second.
	// Negative disables the limit.
	EvalRate  float64 `yaml:"eval_rate" mapstructure:"eval_rate"`
	EvalBurst int     `yaml:"eval_burst" mapstructure:"eval_burst" validate:"gte=0"`
}

// ApplyDefaults sets local-only defaults for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Host == "" {
		c.Host = "127.0.0.1"
	}
	if c.Port == 0 {
		c.Port = 8089
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 15
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 15
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 10
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "1MB"
	}
	def := resilience.DefaultRateLimiterConfig("eval")
	if c.EvalRate == 0 {
		c.EvalRate = def.Rate
	}
	if c.EvalBurst == 0 {
		c.EvalBurst = def.Burst
	}
}

// evalLimiter returns the /eval limiter, or nil when the limit is disabled.
func (c *Config) evalLimiter(onLimit func(string)) *resilience.RateLimiter {
	if c.EvalRate < 0 {
		return nil
	}
	return resilience.NewRateLimiter(resilience.RateLimiterConfig{
		Name:    "eval",
		Rate:    c.EvalRate,
		Burst:   c.EvalBurst,
		OnLimit: onLimit,
	})
}

// Addr returns host:port.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// MaxBodyBytes returns MaxBodySize in bytes.
func (c *Config) MaxBodyBytes() (int64, error) {
	return parseSize(c.MaxBodySize)
}

// parseSize parses sizes such as "512", "64KB" or "10MB".
func parseSize(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	units := []struct {
		suffix string
		mult   int64
	}{
		{"GB", 1 << 30},
		{"MB", 1 << 20},
		{"KB", 1 << 10},
		{"B", 1},
	}
	mult := int64(1)
	for _, u := range units {
		if rest, ok := strings.CutSuffix(s, u.suffix); ok {
			s, mult = strings.TrimSpace(rest), u.mult
			break
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	return n * mult, nil
}
