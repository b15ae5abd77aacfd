package middleware

import (
	"testing"

	"github.com/google/uuid"
)

func TestRateLimiter_AllowsWithinBurst(t *testing.T) {
	rl := NewRateLimiterWithConfig(60, 5)
	defer rl.Stop()

	profileID := uuid.New()
	for i := 0; i < 5; i++ {
		if !rl.Allow(profileID) {
			t.Fatalf("Expected request %d within burst to be allowed", i)
		}
	}
}

func TestRateLimiter_RejectsBeyondBurst(t *testing.T) {
	// Near-zero refill rate so the burst cannot replenish during the test
	rl := NewRateLimiterWithConfig(1, 3)
	defer rl.Stop()

	profileID := uuid.New()
	for i := 0; i < 3; i++ {
		rl.Allow(profileID)
	}

	if rl.Allow(profileID) {
		t.Error("Expected request beyond burst to be rejected")
	}
}

func TestRateLimiter_ProfilesAreIndependent(t *testing.T) {
	rl := NewRateLimiterWithConfig(1, 1)
	defer rl.Stop()

	first := uuid.New()
	second := uuid.New()

	if !rl.Allow(first) {
		t.Fatal("Expected first profile's request to be allowed")
	}
	if rl.Allow(first) {
		t.Error("Expected first profile to be limited")
	}
	if !rl.Allow(second) {
		t.Error("Expected second profile to be unaffected")
	}
}

func TestRateLimiter_GetStateUnknownProfile(t *testing.T) {
	rl := NewRateLimiterWithConfig(60, 5)
	defer rl.Stop()

	remaining, _ := rl.GetState(uuid.New())
	if remaining != 5 {
		t.Errorf("Expected full burst for unknown profile, got %d", remaining)
	}
}
