// Package timeouts holds the deadlines applied to store calls made while
// serving a request.
//
// Tiers:
//   - Ping: health checks
//   - Short: hostname resolution, membership checks, single-record reads
//   - Medium: list queries and ordinary writes
//   - Long: tenant provisioning and cascading deletes
//
// Values start at the defaults below and may be replaced once at startup
// through Configure.
package timeouts

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
	DefaultLong   = 30 * time.Second
)

type tier struct {
	def time.Duration
	cur atomic.Int64
}

func newTier(d time.Duration) *tier {
	t := &tier{def: d}
	t.cur.Store(int64(d))
	return t
}

func (t *tier) get() time.Duration { return time.Duration(t.cur.Load()) }

func (t *tier) set(d time.Duration) {
	if d > 0 {
		t.cur.Store(int64(d))
	}
}

func (t *tier) reset() { t.cur.Store(int64(t.def)) }

var (
	ping   = newTier(DefaultPing)
	short  = newTier(DefaultShort)
	medium = newTier(DefaultMedium)
	long   = newTier(DefaultLong)
)

// Ping is the deadline for database connectivity checks.
func Ping() time.Duration { return ping.get() }

// Short is the deadline for single-record lookups.
func Short() time.Duration { return short.get() }

// Medium is the deadline for list queries and plain writes.
func Medium() time.Duration { return medium.get() }

// Long is the deadline for operations spanning several collections or tables.
func Long() time.Duration { return long.get() }

// Config carries overrides for Configure. Zero fields keep the current value.
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
}

// Configure applies the non-zero values in cfg.
func Configure(cfg Config) {
	ping.set(cfg.Ping)
	short.set(cfg.Short)
	medium.set(cfg.Medium)
	long.set(cfg.Long)
}

// Reset restores the defaults.
func Reset() {
	for _, t := range []*tier{ping, short, medium, long} {
		t.reset()
	}
}

// Current reports the values in effect.
func Current() Config {
	return Config{Ping: Ping(), Short: Short(), Medium: Medium(), Long: Long()}
}

// WithTimeout is context.WithTimeout whose cancel func logs a warning when
// the deadline was the reason the context ended.
//
//	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Long(), h.Log, "tenant create")
//	defer cancel()
func WithTimeout(parent context.Context, d time.Duration, log *zap.Logger, op string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, d)
	return ctx, func() {
		if log != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			log.Warn("operation timed out", zap.String("operation", op), zap.Duration("timeout", d))
		}
		cancel()
	}
}
