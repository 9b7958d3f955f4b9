package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/aegis-go/internal/domain"
)

func newFixedClockLimiter(rules []domain.RateLimitRule) (*Limiter, *time.Time) {
	limiter := New(rules)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	return limiter, &now
}

func TestCheckLimitFixedWindow(t *testing.T) {
	limiter, now := newFixedClockLimiter([]domain.RateLimitRule{
		{Category: domain.CategoryTerminalCommands, Limit: 5, WindowSeconds: 60},
	})

	for i := 0; i < 5; i++ {
		result := limiter.CheckLimit(domain.CategoryTerminalCommands)
		require.True(t, result.Allowed, "call %d should be allowed", i+1)
	}

	sixth := limiter.CheckLimit(domain.CategoryTerminalCommands)
	assert.False(t, sixth.Allowed)
	assert.Greater(t, sixth.RetryAfterSeconds, 0)
	assert.NotEmpty(t, sixth.Reason)

	// Window elapses: counter resets and the next call counts as the first.
	*now = now.Add(61 * time.Second)
	afterReset := limiter.CheckLimit(domain.CategoryTerminalCommands)
	assert.True(t, afterReset.Allowed)

	limiter.mu.Lock()
	count := limiter.states[domain.CategoryTerminalCommands].count
	limiter.mu.Unlock()
	assert.Equal(t, 1, count)
}

func TestCheckLimitRetryAfterShrinks(t *testing.T) {
	limiter, now := newFixedClockLimiter([]domain.RateLimitRule{
		{Category: domain.CategoryAPICalls, Limit: 1, WindowSeconds: 60},
	})

	require.True(t, limiter.CheckLimit(domain.CategoryAPICalls).Allowed)

	*now = now.Add(20 * time.Second)
	result := limiter.CheckLimit(domain.CategoryAPICalls)
	require.False(t, result.Allowed)
	assert.Equal(t, 40, result.RetryAfterSeconds)
}

func TestCheckLimitCategoriesIndependent(t *testing.T) {
	limiter, _ := newFixedClockLimiter([]domain.RateLimitRule{
		{Category: domain.CategoryTerminalCommands, Limit: 1, WindowSeconds: 60},
		{Category: domain.CategoryFileOperations, Limit: 1, WindowSeconds: 60},
	})

	require.True(t, limiter.CheckLimit(domain.CategoryTerminalCommands).Allowed)
	require.False(t, limiter.CheckLimit(domain.CategoryTerminalCommands).Allowed)

	assert.True(t, limiter.CheckLimit(domain.CategoryFileOperations).Allowed)
}

func TestCheckLimitUnknownCategoryUsesFallback(t *testing.T) {
	limiter, _ := newFixedClockLimiter(nil)

	result := limiter.CheckLimit("unconfigured")
	assert.True(t, result.Allowed)
}

func TestCheckLimitConcurrentCallers(t *testing.T) {
	limiter, _ := newFixedClockLimiter([]domain.RateLimitRule{
		{Category: domain.CategoryChatMessages, Limit: 50, WindowSeconds: 60},
	})

	var wg sync.WaitGroup
	allowed := make([]bool, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			allowed[i] = limiter.CheckLimit(domain.CategoryChatMessages).Allowed
		}(i)
	}
	wg.Wait()

	count := 0
	for _, ok := range allowed {
		if ok {
			count++
		}
	}
	assert.Equal(t, 50, count)

	limiter.mu.Lock()
	finalCount := limiter.states[domain.CategoryChatMessages].count
	limiter.mu.Unlock()
	assert.Equal(t, 100, finalCount)
}
