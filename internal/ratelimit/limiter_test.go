package ratelimit

import (
	"testing"
	"time"
)

func TestLimiterAllow(t *testing.T) {
	l := NewLimiter(1, 2)
	now := time.Now()

	if !l.Allow("U1", now) {
		t.Fatalf("expected first command allowed")
	}
	if !l.Allow("U1", now) {
		t.Fatalf("expected second command allowed")
	}
	if l.Allow("U1", now) {
		t.Fatalf("expected third command limited")
	}

	later := now.Add(1500 * time.Millisecond)
	if !l.Allow("U1", later) {
		t.Fatalf("expected refill to allow after time")
	}
}

func TestLimiterDifferentUsers(t *testing.T) {
	l := NewLimiter(1, 1)
	now := time.Now()

	if !l.Allow("U1", now) {
		t.Fatalf("expected first user allowed")
	}
	if !l.Allow("U2", now) {
		t.Fatalf("expected second user allowed")
	}
}

func TestLimiterDisabled(t *testing.T) {
	var nilLimiter *Limiter
	if !nilLimiter.Allow("U1", time.Now()) {
		t.Fatalf("expected nil limiter to allow")
	}

	l := NewLimiter(0, 0)
	for i := 0; i < 10; i++ {
		if !l.Allow("U1", time.Now()) {
			t.Fatalf("expected zero-rate limiter to allow")
		}
	}
}
