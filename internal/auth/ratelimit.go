package auth

import (
	"sync"
	"time"
)

// RateLimiter limits failed login attempts per client IP and email. Attempts
// are counted in a fixed window; reaching the maximum locks the key out.
type RateLimiter struct {
	mu              sync.RWMutex
	attempts        map[string]*attemptRecord
	maxAttempts     int
	windowDuration  time.Duration
	lockoutDuration time.Duration
	cleanupInterval time.Duration
	clock           func() time.Time
	stopCleanup     chan struct{}
	stopOnce        sync.Once
}

type attemptRecord struct {
	count        int
	firstAttempt time.Time
	lockedUntil  time.Time
}

// RateLimitConfig contains configuration for the rate limiter.
type RateLimitConfig struct {
	MaxAttempts     int           // Maximum attempts before lockout (default: 5)
	WindowDuration  time.Duration // Time window for counting attempts (default: 15m)
	LockoutDuration time.Duration // How long to lock out after max attempts (default: 30m)
	CleanupInterval time.Duration // How often to clean up expired records (default: 5m)
	Clock           func() time.Time
}

// DefaultRateLimitConfig returns sensible defaults for rate limiting.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxAttempts:     5,
		WindowDuration:  15 * time.Minute,
		LockoutDuration: 30 * time.Minute,
		CleanupInterval: 5 * time.Minute,
	}
}

// NewRateLimiter creates a rate limiter and starts its cleanup loop.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	defaults := DefaultRateLimitConfig()
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaults.MaxAttempts
	}
	if cfg.WindowDuration <= 0 {
		cfg.WindowDuration = defaults.WindowDuration
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = defaults.LockoutDuration
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = defaults.CleanupInterval
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	rl := &RateLimiter{
		attempts:        make(map[string]*attemptRecord),
		maxAttempts:     cfg.MaxAttempts,
		windowDuration:  cfg.WindowDuration,
		lockoutDuration: cfg.LockoutDuration,
		cleanupInterval: cfg.CleanupInterval,
		clock:           cfg.Clock,
		stopCleanup:     make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop stops the background cleanup goroutine.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCleanup) })
}

func makeKey(ip, email string) string {
	return ip + "|" + email
}

// Allow checks if a login attempt should be allowed. If not, retryAfter
// indicates when the lockout expires.
func (rl *RateLimiter) Allow(ip, email string) (bool, time.Duration) {
	now := rl.clock()

	rl.mu.RLock()
	record, exists := rl.attempts[makeKey(ip, email)]
	var snapshot attemptRecord
	if exists {
		snapshot = *record
	}
	rl.mu.RUnlock()

	if !exists {
		return true, 0
	}
	if !snapshot.lockedUntil.IsZero() && now.Before(snapshot.lockedUntil) {
		return false, snapshot.lockedUntil.Sub(now)
	}
	if !snapshot.lockedUntil.IsZero() || now.Sub(snapshot.firstAttempt) > rl.windowDuration {
		return true, 0
	}
	return snapshot.count < rl.maxAttempts, 0
}

// RecordFailure records a failed login attempt and reports whether the key
// is now locked out.
func (rl *RateLimiter) RecordFailure(ip, email string) (bool, time.Duration) {
	key := makeKey(ip, email)
	now := rl.clock()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	record, exists := rl.attempts[key]
	if !exists {
		record = &attemptRecord{firstAttempt: now}
		rl.attempts[key] = record
	}

	// A new window starts once the old one, or a served lockout, has passed.
	lockoutServed := !record.lockedUntil.IsZero() && !now.Before(record.lockedUntil)
	if lockoutServed || now.Sub(record.firstAttempt) > rl.windowDuration {
		record.count = 0
		record.firstAttempt = now
		record.lockedUntil = time.Time{}
	}

	record.count++

	if record.count >= rl.maxAttempts {
		record.lockedUntil = now.Add(rl.lockoutDuration)
		return true, rl.lockoutDuration
	}
	return false, 0
}

// RecordSuccess clears the failure record for a successful login.
func (rl *RateLimiter) RecordSuccess(ip, email string) {
	rl.mu.Lock()
	delete(rl.attempts, makeKey(ip, email))
	rl.mu.Unlock()
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanup removes records whose window and lockout have both expired.
func (rl *RateLimiter) cleanup() {
	now := rl.clock()
	expiry := rl.windowDuration + rl.lockoutDuration

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, record := range rl.attempts {
		windowExpired := now.Sub(record.firstAttempt) > expiry
		lockoutExpired := record.lockedUntil.IsZero() || now.After(record.lockedUntil)

		if windowExpired && lockoutExpired {
			delete(rl.attempts, key)
		}
	}
}
