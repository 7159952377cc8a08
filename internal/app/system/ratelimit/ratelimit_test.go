package ratelimit

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(limit int, d time.Duration) (*Limiter, *fakeClock) {
	clk := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := New(limit, d)
	l.now = clk.now
	return l, clk
}

func TestLimiter_AllowsUpToLimit(t *testing.T) {
	l, _ := newTestLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Allow("k") {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	if l.Allow("k") {
		t.Error("fourth attempt should be blocked")
	}
	if l.Remaining("k") != 0 {
		t.Errorf("Remaining = %d, want 0", l.Remaining("k"))
	}
	if !l.Allow("other") {
		t.Error("keys are counted independently")
	}
}

func TestLimiter_WindowExpires(t *testing.T) {
	l, clk := newTestLimiter(1, time.Minute)

	l.Allow("k")
	if l.Allow("k") {
		t.Fatal("second attempt in window should be blocked")
	}
	clk.advance(time.Minute)
	if !l.Allow("k") {
		t.Error("attempt after the window should be allowed")
	}
}

func TestLimiter_SweepDropsExpired(t *testing.T) {
	l, clk := newTestLimiter(5, time.Minute)
	l.Allow("a")
	l.Allow("b")

	clk.advance(2 * time.Minute)
	l.Allow("c")

	l.mu.Lock()
	n := len(l.windows)
	l.mu.Unlock()
	if n != 1 {
		t.Errorf("windows = %d after sweep, want 1", n)
	}
}

func TestLimiter_Reset(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)
	l.Allow("k")
	l.Reset("k")
	if !l.Allow("k") {
		t.Error("Reset should clear the window")
	}
}

func TestLoginLimiter(t *testing.T) {
	ll := NewLoginLimiterWithConfig(100, time.Minute, 2, time.Minute)

	if ok, _ := ll.Check("10.0.0.1", "Alice@Example.com"); !ok {
		t.Fatal("first attempt should pass")
	}
	if ok, _ := ll.Check("10.0.0.2", "alice@example.com "); !ok {
		t.Fatal("second attempt should pass")
	}
	ok, reason := ll.Check("10.0.0.3", "alice@example.com")
	if ok || reason == "" {
		t.Fatalf("third attempt for the account should be blocked with a reason, got ok=%v", ok)
	}

	ll.ResetEmail("ALICE@example.com")
	if ok, _ := ll.Check("10.0.0.4", "alice@example.com"); !ok {
		t.Error("ResetEmail should clear the account counter")
	}
}

func TestLoginLimiter_PerIP(t *testing.T) {
	ll := NewLoginLimiterWithConfig(1, time.Minute, 100, time.Minute)

	ll.Check("10.0.0.1", "a@example.com")
	if ok, _ := ll.Check("10.0.0.1", "b@example.com"); ok {
		t.Error("second attempt from the same IP should be blocked")
	}
	if ok, _ := ll.Check("10.0.0.2", "b@example.com"); !ok {
		t.Error("another IP is unaffected")
	}
}
