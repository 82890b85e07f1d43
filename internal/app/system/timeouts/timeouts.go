// Package timeouts provides centralized timeout values for I/O done by
// handlers, workers and the optimizer client.
//
// Timeouts can be configured at startup using Configure() or
// ConfigureFromEnv(). If not configured, the defaults below are used.
//
// Guidelines for choosing a timeout:
//   - Ping: health checks and connectivity verification
//   - Short: loading or replacing the state document
//   - Medium: solver run lookups and listings
//   - Long: state repair passes touching several scopes
//   - Batch: index reconciliation at startup
//   - Solve: one optimizer run, including its candidate stream
package timeouts

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Default timeout values (used if Configure is not called).
const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
	DefaultLong   = 30 * time.Second
	DefaultBatch  = 60 * time.Second
	DefaultSolve  = 5 * time.Minute
)

// Config holds timeout configuration values.
// Zero values are ignored (defaults are kept).
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
	Batch  time.Duration
	Solve  time.Duration
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Ping:   DefaultPing,
		Short:  DefaultShort,
		Medium: DefaultMedium,
		Long:   DefaultLong,
		Batch:  DefaultBatch,
		Solve:  DefaultSolve,
	}
}

var (
	mu      sync.RWMutex
	current = Defaults()
)

func get(pick func(Config) time.Duration) time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return pick(current)
}

// Ping returns the timeout for health checks and connectivity verification.
func Ping() time.Duration { return get(func(c Config) time.Duration { return c.Ping }) }

// Short returns the timeout for single-document reads and writes.
func Short() time.Duration { return get(func(c Config) time.Duration { return c.Short }) }

// Medium returns the timeout for list queries.
func Medium() time.Duration { return get(func(c Config) time.Duration { return c.Medium }) }

// Long returns the timeout for multi-document passes.
func Long() time.Duration { return get(func(c Config) time.Duration { return c.Long }) }

// Batch returns the timeout for schema work such as index builds.
func Batch() time.Duration { return get(func(c Config) time.Duration { return c.Batch }) }

// Solve returns the budget of one optimizer run.
func Solve() time.Duration { return get(func(c Config) time.Duration { return c.Solve }) }

// setting is one Config field and its environment variable.
type setting struct {
	env string
	ptr *time.Duration
}

// fields lists the settings of c in a fixed order.
func (c *Config) fields() []setting {
	return []setting{
		{"TIMEOUT_PING", &c.Ping},
		{"TIMEOUT_SHORT", &c.Short},
		{"TIMEOUT_MEDIUM", &c.Medium},
		{"TIMEOUT_LONG", &c.Long},
		{"TIMEOUT_BATCH", &c.Batch},
		{"TIMEOUT_SOLVE", &c.Solve},
	}
}

// Configure sets custom timeout values. Zero values in the config are ignored,
// keeping the current (or default) values. Call it during startup before
// handlers are registered.
//
// Example:
//
//	timeouts.Configure(timeouts.Config{
//	    Short: 10 * time.Second,
//	    Solve: 10 * time.Minute,
//	})
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	src := cfg.fields()
	for i, f := range current.fields() {
		if v := *src[i].ptr; v > 0 {
			*f.ptr = v
		}
	}
}

// Reset restores all timeouts to their default values.
// Useful for testing.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	current = Defaults()
}

// ConfigureFromEnv reads timeout configuration from environment variables.
// Each variable is optional and takes a Go duration ("2s", "500ms", "5m"):
// TIMEOUT_PING, TIMEOUT_SHORT, TIMEOUT_MEDIUM, TIMEOUT_LONG, TIMEOUT_BATCH
// and TIMEOUT_SOLVE. Unset, unparsable and non-positive values are ignored.
//
// Returns the number of timeouts successfully configured from environment.
func ConfigureFromEnv() int {
	var cfg Config
	configured := 0
	for _, f := range cfg.fields() {
		v := os.Getenv(f.env)
		if v == "" {
			continue
		}
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			*f.ptr = d
			configured++
		}
	}
	Configure(cfg)
	return configured
}

// Current returns the current timeout configuration.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// WithTimeout creates a context with timeout and returns a cancel function that
// logs a warning if the context was canceled due to deadline exceeded.
// Use this for long-running or critical operations where timeout debugging is important.
//
// Example:
//
//	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "load app state")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
