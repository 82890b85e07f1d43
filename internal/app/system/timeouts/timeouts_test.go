package timeouts

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestConfigure_IgnoresZero(t *testing.T) {
	t.Cleanup(Reset)

	Configure(Config{Short: time.Second, Solve: time.Minute})

	if Short() != time.Second {
		t.Errorf("Short() = %v", Short())
	}
	if Solve() != time.Minute {
		t.Errorf("Solve() = %v", Solve())
	}
	if Medium() != DefaultMedium {
		t.Errorf("Medium() = %v, want default", Medium())
	}
}

func TestConfigureFromEnv(t *testing.T) {
	t.Cleanup(Reset)
	t.Setenv("TIMEOUT_SOLVE", "90s")
	t.Setenv("TIMEOUT_PING", "bogus")
	t.Setenv("TIMEOUT_LONG", "-1s")

	if n := ConfigureFromEnv(); n != 1 {
		t.Errorf("configured %d, want 1", n)
	}
	want := Config{
		Ping:   DefaultPing,
		Short:  DefaultShort,
		Medium: DefaultMedium,
		Long:   DefaultLong,
		Batch:  DefaultBatch,
		Solve:  90 * time.Second,
	}
	if got := Current(); got != want {
		t.Errorf("Current() = %+v, want %+v", got, want)
	}
}

func TestWithTimeout(t *testing.T) {
	ctx, cancel := WithTimeout(context.Background(), time.Millisecond, zap.NewNop(), "test")
	<-ctx.Done()
	cancel()
	if ctx.Err() != context.DeadlineExceeded {
		t.Errorf("ctx.Err() = %v", ctx.Err())
	}
}
