package auth

import (
	"errors"
	"testing"
	"time"
)

func newTestLimiter(t *testing.T, maxFailures int, lockout time.Duration) (*RateLimiter, *time.Time) {
	t.Helper()
	rl := NewRateLimiter(maxFailures, lockout)
	t.Cleanup(rl.Stop)

	now := time.Now()
	rl.now = func() time.Time { return now }
	return rl, &now
}

func TestNewRateLimiter_Defaults(t *testing.T) {
	rl := NewRateLimiter(0, 0)
	defer rl.Stop()

	if rl.maxFailures != DefaultMaxFailures {
		t.Errorf("expected %d max failures, got %d", DefaultMaxFailures, rl.maxFailures)
	}
	if rl.lockout != DefaultLockout {
		t.Errorf("expected %v lockout, got %v", DefaultLockout, rl.lockout)
	}
}

func TestRateLimiter_CheckLimit_NoAttempts(t *testing.T) {
	rl, _ := newTestLimiter(t, 3, time.Minute)

	locked, retryAfter, err := rl.CheckLimit(accountKey)
	if locked {
		t.Error("expected key not to be locked initially")
	}
	if retryAfter != 0 {
		t.Errorf("expected 0 retryAfter, got %v", retryAfter)
	}
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRateLimiter_LocksAfterMaxFailures(t *testing.T) {
	rl, now := newTestLimiter(t, 3, time.Minute)

	for i := 1; i < 3; i++ {
		if lockout := rl.RecordFailure(accountKey); lockout != 0 {
			t.Fatalf("failure %d should not lock, got %v", i, lockout)
		}
		if locked, _, _ := rl.CheckLimit(accountKey); locked {
			t.Fatalf("locked after %d failures", i)
		}
	}
	if count := rl.GetAttemptCount(accountKey); count != 2 {
		t.Errorf("expected 2 attempts, got %d", count)
	}

	if lockout := rl.RecordFailure(accountKey); lockout != time.Minute {
		t.Fatalf("third failure should lock for 1m, got %v", lockout)
	}

	*now = now.Add(20 * time.Second)
	locked, retryAfter, err := rl.CheckLimit(accountKey)
	if !locked || !errors.Is(err, ErrClientLocked) {
		t.Fatalf("expected lockout, got locked=%v err=%v", locked, err)
	}
	if retryAfter != 40*time.Second {
		t.Errorf("expected 40s retryAfter, got %v", retryAfter)
	}

	*now = now.Add(41 * time.Second)
	if locked, _, _ := rl.CheckLimit(accountKey); locked {
		t.Error("lockout should have expired")
	}
}

func TestRateLimiter_RecordSuccessClears(t *testing.T) {
	rl, _ := newTestLimiter(t, 3, time.Minute)

	rl.RecordFailure(accountKey)
	rl.RecordFailure(accountKey)
	rl.RecordSuccess(accountKey)

	if count := rl.GetAttemptCount(accountKey); count != 0 {
		t.Errorf("expected 0 attempts after success, got %d", count)
	}
	if n := rl.GetTrackedClientCount(); n != 0 {
		t.Errorf("expected no tracked keys, got %d", n)
	}
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl, now := newTestLimiter(t, 3, time.Minute)

	rl.RecordFailure("stale")
	*now = now.Add(CleanupThreshold + time.Second)
	rl.RecordFailure("fresh")

	rl.performCleanup()

	if n := rl.GetTrackedClientCount(); n != 1 {
		t.Errorf("expected 1 tracked key after cleanup, got %d", n)
	}
	if rl.GetAttemptCount("fresh") != 1 {
		t.Error("fresh tracker should survive cleanup")
	}
}

func TestFormatRetryAfter(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want int
	}{
		{0, 0},
		{time.Second, 1},
		{1500 * time.Millisecond, 2},
		{30 * time.Second, 30},
	}

	for _, tt := range tests {
		if got := FormatRetryAfter(tt.d); got != tt.want {
			t.Errorf("FormatRetryAfter(%v) = %d, want %d", tt.d, got, tt.want)
		}
	}
}
