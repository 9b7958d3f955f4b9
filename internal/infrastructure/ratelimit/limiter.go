// Package ratelimit implements fixed-window counters with independent state
// per category.
package ratelimit

import (
	"fmt"
	"sync"
	"time"

	"github.com/doeshing/aegis-go/internal/domain"
	"github.com/doeshing/aegis-go/internal/ports"
)

// Fallback rule applied to categories the policy does not configure.
const (
	defaultLimit         = 60
	defaultWindowSeconds = 60
)

type windowState struct {
	windowStart time.Time
	count       int
}

// Limiter implements the RateLimiter port. Every check counts against the
// category's window; counters reset exactly at window boundaries.
type Limiter struct {
	mu     sync.Mutex
	rules  map[string]domain.RateLimitRule
	states map[string]*windowState
	now    func() time.Time
}

// New builds a limiter from policy rules.
func New(rules []domain.RateLimitRule) *Limiter {
	byCategory := make(map[string]domain.RateLimitRule, len(rules))
	for _, rule := range rules {
		if rule.Category == "" || rule.Limit <= 0 || rule.WindowSeconds <= 0 {
			continue
		}
		byCategory[rule.Category] = rule
	}
	return &Limiter{
		rules:  byCategory,
		states: make(map[string]*windowState),
		now:    time.Now,
	}
}

// CheckLimit implements ports.RateLimiter.
func (l *Limiter) CheckLimit(category string) domain.RateLimitResult {
	l.mu.Lock()
	defer l.mu.Unlock()

	rule, ok := l.rules[category]
	if !ok {
		rule = domain.RateLimitRule{
			Category:      category,
			Limit:         defaultLimit,
			WindowSeconds: defaultWindowSeconds,
		}
	}
	window := time.Duration(rule.WindowSeconds) * time.Second

	now := l.now()
	state, ok := l.states[category]
	if !ok || now.Sub(state.windowStart) >= window {
		state = &windowState{windowStart: now}
		l.states[category] = state
	}
	state.count++

	if state.count <= rule.Limit {
		return domain.RateLimitResult{Allowed: true}
	}

	remaining := window - now.Sub(state.windowStart)
	retryAfter := int(remaining / time.Second)
	if remaining%time.Second != 0 || retryAfter == 0 {
		retryAfter++
	}
	return domain.RateLimitResult{
		Allowed:           false,
		RetryAfterSeconds: retryAfter,
		Reason:            fmt.Sprintf("%s limit of %d per %ds exceeded", category, rule.Limit, rule.WindowSeconds),
	}
}

var _ ports.RateLimiter = (*Limiter)(nil)
