// Package ratelimit implements fixed-window request counters keyed by caller.
package ratelimit

import (
	"context"
	"fmt"
	"math"
	"time"
)

type Policy struct {
	Name    string
	Limit   int
	Window  time.Duration
	Message string
}

var (
	ChatPolicy = Policy{
		Name:    "chat",
		Limit:   50,
		Window:  15 * time.Minute,
		Message: "Too many chat requests from this IP, please try again after 15 minutes.",
	}
	AnalysisPolicy = Policy{
		Name:    "analysis",
		Limit:   20,
		Window:  60 * time.Minute,
		Message: "Too many analysis requests from this IP, please try again after an hour.",
	}
)

// HeaderValue renders the RateLimit-Policy header, e.g. "50;w=900".
func (p Policy) HeaderValue() string {
	return fmt.Sprintf("%d;w=%d", p.Limit, int64(p.Window/time.Second))
}

// Store counts hits per key inside a window that starts at the first hit.
type Store interface {
	// Hit records one request and returns the count so far and the time left in the window.
	Hit(ctx context.Context, key string, window time.Duration) (count int64, ttl time.Duration, err error)
}

type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Duration
}

// ResetSeconds rounds the remaining window up so clients never retry early.
func (r Result) ResetSeconds() int64 {
	if r.Reset <= 0 {
		return 0
	}
	return int64(math.Ceil(r.Reset.Seconds()))
}

type Limiter struct {
	policy Policy
	store  Store
}

func NewLimiter(policy Policy, store Store) *Limiter {
	return &Limiter{policy: policy, store: store}
}

func (l *Limiter) Policy() Policy { return l.policy }

// Allow records a hit for key. On store errors the zero Result is returned with the error
// and the caller decides whether to let the request through.
func (l *Limiter) Allow(ctx context.Context, key string) (Result, error) {
	count, ttl, err := l.store.Hit(ctx, l.policy.Name+":"+key, l.policy.Window)
	if err != nil {
		return Result{}, err
	}
	remaining := l.policy.Limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   count <= int64(l.policy.Limit),
		Limit:     l.policy.Limit,
		Remaining: remaining,
		Reset:     ttl,
	}, nil
}
