package ratelimit

import (
	"context"
	"testing"
	"time"

	"parsifly/pkg/config"
)

func TestTokenBucketBurst(t *testing.T) {
	tb := NewTokenBucket(1, 3)

	for i := 0; i < 3; i++ {
		if !tb.Allow() {
			t.Errorf("Expected token %d to be available", i+1)
		}
	}

	if tb.Allow() {
		t.Error("Expected no more tokens to be available")
	}

	tb.Reset()
	if !tb.Allow() {
		t.Error("Expected tokens to be available after reset")
	}
}

func TestTokenBucketWaitHonoursContext(t *testing.T) {
	tb := NewTokenBucket(1, 1)
	if !tb.Allow() {
		t.Fatal("Expected first token")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	if err := tb.Wait(ctx); err == nil {
		t.Error("Expected Wait to fail when the next token is a minute away")
	}
	if time.Since(start) > time.Second {
		t.Error("Expected Wait to return promptly")
	}
}

func TestUnlimited(t *testing.T) {
	tb := Unlimited()
	for i := 0; i < 100; i++ {
		if err := tb.Wait(context.Background()); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}
	if tb.Interval() != 0 {
		t.Errorf("Expected zero interval, got %s", tb.Interval())
	}
}

func TestFromConfig(t *testing.T) {
	tb := FromConfig(config.RateLimitConfig{RequestsPerMinute: 30, BurstSize: 5})

	if got := tb.Interval(); got != 2*time.Second {
		t.Errorf("Expected 2s interval, got %s", got)
	}

	var _ Limiter = tb
}
