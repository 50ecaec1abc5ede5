package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type Reason string

const (
	ReasonNone      Reason = ""
	ReasonRateLimit Reason = "RATE_LIMIT"
	ReasonBlocked   Reason = "BLOCKED"
)

type Decision struct {
	Allowed   bool
	Reason    Reason
	Remaining int
	Reset     time.Duration
}

func (d Decision) IsDenied() bool {
	return !d.Allowed
}

// Config describes a token bucket: Capacity tokens, refilled by Refill tokens every Interval.
type Config struct {
	Capacity int
	Refill   int
	Interval time.Duration
	Blocked  []string
}

// Limiter keeps one token bucket per owner.
type Limiter struct {
	mu       sync.Mutex
	buckets  map[string]*rate.Limiter
	limit    rate.Limit
	capacity int
	blocked  map[string]struct{}
	now      func() time.Time
}

func New(cfg Config) *Limiter {
	if cfg.Capacity <= 0 {
		cfg.Capacity = 10
	}
	if cfg.Refill <= 0 {
		cfg.Refill = cfg.Capacity
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	blocked := make(map[string]struct{}, len(cfg.Blocked))
	for _, id := range cfg.Blocked {
		blocked[id] = struct{}{}
	}
	return &Limiter{
		buckets:  make(map[string]*rate.Limiter),
		limit:    rate.Limit(float64(cfg.Refill) / cfg.Interval.Seconds()),
		capacity: cfg.Capacity,
		blocked:  blocked,
		now:      time.Now,
	}
}

// Protect consumes requested tokens from the owner's bucket.
func (l *Limiter) Protect(ctx context.Context, ownerID string, requested int) Decision {
	if _, ok := l.blocked[ownerID]; ok {
		return Decision{Allowed: false, Reason: ReasonBlocked}
	}
	if requested <= 0 {
		requested = 1
	}

	l.mu.Lock()
	bucket, ok := l.buckets[ownerID]
	if !ok {
		bucket = rate.NewLimiter(l.limit, l.capacity)
		l.buckets[ownerID] = bucket
	}
	l.mu.Unlock()

	now := l.now()
	if bucket.AllowN(now, requested) {
		return Decision{Allowed: true, Remaining: int(math.Floor(bucket.TokensAt(now)))}
	}

	tokens := bucket.TokensAt(now)
	missing := float64(requested) - tokens
	reset := time.Duration(missing / float64(l.limit) * float64(time.Second))
	return Decision{
		Allowed:   false,
		Reason:    ReasonRateLimit,
		Remaining: int(math.Max(0, math.Floor(tokens))),
		Reset:     reset,
	}
}
