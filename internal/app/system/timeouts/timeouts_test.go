package timeouts

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestConfigure_IgnoresZeroValues(t *testing.T) {
	defer Reset()

	Configure(Config{Short: 7 * time.Second})

	if got := Short(); got != 7*time.Second {
		t.Errorf("Short = %v, want 7s", got)
	}
	if got := Medium(); got != DefaultMedium {
		t.Errorf("Medium = %v, want default %v", got, DefaultMedium)
	}
}

func TestReset(t *testing.T) {
	Configure(Config{Ping: time.Second, Long: time.Minute})
	Reset()

	want := Config{Ping: DefaultPing, Short: DefaultShort, Medium: DefaultMedium, Long: DefaultLong}
	if got := Current(); got != want {
		t.Errorf("Current = %+v, want %+v", got, want)
	}
}

func TestWithTimeout(t *testing.T) {
	ctx, cancel := WithTimeout(context.Background(), time.Millisecond, zap.NewNop(), "test")
	defer cancel()

	<-ctx.Done()
	if ctx.Err() != context.DeadlineExceeded {
		t.Errorf("Err = %v, want deadline exceeded", ctx.Err())
	}
}

func TestWithTimeout_LogsOnDeadline(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	ctx, cancel := WithTimeout(context.Background(), time.Millisecond, zap.New(core), "tenant create")
	<-ctx.Done()
	cancel()

	entries := logs.FilterMessage("operation timed out").All()
	if len(entries) != 1 {
		t.Fatalf("got %d warnings, want 1", len(entries))
	}
	if op := entries[0].ContextMap()["operation"]; op != "tenant create" {
		t.Errorf("operation = %v, want tenant create", op)
	}
}

func TestWithTimeout_SilentOnCancel(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	_, cancel := WithTimeout(context.Background(), time.Minute, zap.New(core), "tenant delete")
	cancel()

	if n := logs.Len(); n != 0 {
		t.Errorf("got %d log entries, want 0", n)
	}
}
