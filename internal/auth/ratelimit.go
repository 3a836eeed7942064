package auth

import (
	"errors"
	"sync"
	"time"
)

// ErrClientLocked is returned when an account is locked out due to too many
// failed checks.
var ErrClientLocked = errors.New("client locked out")

const (
	// DefaultMaxFailures is the number of consecutive failed checks that
	// triggers a lockout.
	DefaultMaxFailures = 3

	// DefaultLockout is how long a lockout lasts.
	DefaultLockout = 30 * time.Second

	// CleanupThreshold is how long to keep attempt trackers for inactive keys
	CleanupThreshold = 5 * time.Minute

	// CleanupIntervalRateLimit is how often to clean up inactive trackers
	CleanupIntervalRateLimit = 2 * time.Minute
)

// AttemptTracker tracks failed checks for a single key.
type AttemptTracker struct {
	Count       int       // Number of consecutive failed attempts
	LastFailed  time.Time // Timestamp of last failed attempt
	LockedUntil time.Time // Timestamp when lockout expires (zero if not locked)
}

// IsLocked returns true if the key is locked out at now.
func (at *AttemptTracker) IsLocked(now time.Time) bool {
	return now.Before(at.LockedUntil)
}

// TimeUntilUnlock returns the duration from now until the lockout expires.
// Returns 0 if not locked.
func (at *AttemptTracker) TimeUntilUnlock(now time.Time) time.Duration {
	if !at.IsLocked(now) {
		return 0
	}
	return at.LockedUntil.Sub(now)
}

// RateLimiter locks a key out after maxFailures consecutive failed checks.
type RateLimiter struct {
	mu          sync.RWMutex
	attempts    map[string]*AttemptTracker
	maxFailures int
	lockout     time.Duration
	now         func() time.Time
	stopCh      chan struct{}
	stopOnce    sync.Once
}

// NewRateLimiter creates a new rate limiter with background cleanup.
// Non-positive arguments select the defaults.
func NewRateLimiter(maxFailures int, lockout time.Duration) *RateLimiter {
	if maxFailures < 1 {
		maxFailures = DefaultMaxFailures
	}
	if lockout <= 0 {
		lockout = DefaultLockout
	}

	rl := &RateLimiter{
		attempts:    make(map[string]*AttemptTracker),
		maxFailures: maxFailures,
		lockout:     lockout,
		now:         time.Now,
		stopCh:      make(chan struct{}),
	}

	go rl.cleanupInactiveClients()

	return rl
}

// CheckLimit reports whether key is locked out and for how long.
func (rl *RateLimiter) CheckLimit(key string) (locked bool, retryAfter time.Duration, err error) {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	tracker, exists := rl.attempts[key]
	if !exists {
		return false, 0, nil
	}

	now := rl.now()
	if tracker.IsLocked(now) {
		return true, tracker.TimeUntilUnlock(now), ErrClientLocked
	}

	return false, 0, nil
}

// RecordFailure records a failed check for key. It returns the lockout
// duration if this failure locked the key, 0 otherwise.
func (rl *RateLimiter) RecordFailure(key string) time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	tracker, exists := rl.attempts[key]
	if !exists {
		tracker = &AttemptTracker{}
		rl.attempts[key] = tracker
	}

	now := rl.now()
	tracker.Count++
	tracker.LastFailed = now

	if tracker.Count < rl.maxFailures {
		return 0
	}

	tracker.Count = 0
	tracker.LockedUntil = now.Add(rl.lockout)
	return rl.lockout
}

// RecordSuccess clears the failure count and any lockout for key.
func (rl *RateLimiter) RecordSuccess(key string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	delete(rl.attempts, key)
}

// GetAttemptCount returns the current failure count for key.
func (rl *RateLimiter) GetAttemptCount(key string) int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	tracker, exists := rl.attempts[key]
	if !exists {
		return 0
	}
	return tracker.Count
}

// GetTrackedClientCount returns the number of keys currently being tracked.
func (rl *RateLimiter) GetTrackedClientCount() int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	return len(rl.attempts)
}

// Stop stops the background cleanup goroutine.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// cleanupInactiveClients removes attempt trackers for keys that have been
// inactive for CleanupThreshold.
func (rl *RateLimiter) cleanupInactiveClients() {
	ticker := time.NewTicker(CleanupIntervalRateLimit)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.performCleanup()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *RateLimiter) performCleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-CleanupThreshold)

	for key, tracker := range rl.attempts {
		if tracker.LastFailed.Before(cutoff) && !tracker.IsLocked(now) {
			delete(rl.attempts, key)
		}
	}
}

// FormatRetryAfter formats a duration as whole seconds, rounded up.
func FormatRetryAfter(d time.Duration) int {
	seconds := int(d.Seconds())
	if d.Nanoseconds()%int64(time.Second) > 0 {
		seconds++ // Round up
	}
	return seconds
}
