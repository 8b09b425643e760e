package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Rate limiting key patterns:
// - ratelimit:{user_id}:poll    - 60s TTL, status/typing/presence polls
// - ratelimit:{user_id}:actions - 60s TTL, mutating requests

// RateLimitConfig contains configuration for rate limiting
type RateLimitConfig struct {
	PollLimit    int           // Max polling requests per window
	PollWindow   time.Duration // Poll rate limit window
	ActionLimit  int           // Max mutating requests per window
	ActionWindow time.Duration // Action rate limit window
}

// DefaultRateLimitConfig returns defaults sized for the documented client
// loop: status every 2s, typing every 1s, presence every 5s per open
// conversation.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		PollLimit:    300,
		PollWindow:   60 * time.Second,
		ActionLimit:  60,
		ActionWindow: 60 * time.Second,
	}
}

// RateLimiter handles rate limiting using Redis
type RateLimiter struct {
	client *goredis.Client
	config RateLimitConfig
}

// RateLimitResult contains the result of a rate limit check
type RateLimitResult struct {
	Allowed   bool          // Whether the action is allowed
	Remaining int           // Remaining actions in the window
	ResetIn   time.Duration // Time until the window resets
	Limit     int           // The limit for this action
}

func NewRateLimiter(client *goredis.Client, config RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		client: client,
		config: config,
	}
}

// AllowPoll checks if a user can issue another polling request
func (r *RateLimiter) AllowPoll(ctx context.Context, userID string) (*RateLimitResult, error) {
	key := fmt.Sprintf("ratelimit:%s:poll", userID)
	return r.checkLimit(ctx, key, r.config.PollLimit, r.config.PollWindow)
}

// AllowAction checks if a user can issue another mutating request
func (r *RateLimiter) AllowAction(ctx context.Context, userID string) (*RateLimitResult, error) {
	key := fmt.Sprintf("ratelimit:%s:actions", userID)
	return r.checkLimit(ctx, key, r.config.ActionLimit, r.config.ActionWindow)
}

// checkLimit performs the actual rate limit check using a fixed window counter
func (r *RateLimiter) checkLimit(ctx context.Context, key string, limit int, window time.Duration) (*RateLimitResult, error) {
	// Use Lua script for atomic increment and check
	script := goredis.NewScript(`
		local key = KEYS[1]
		local limit = tonumber(ARGV[1])
		local window = tonumber(ARGV[2])

		local current = redis.call('GET', key)
		if current == false then
			current = 0
		else
			current = tonumber(current)
		end

		local ttl = redis.call('TTL', key)
		if ttl < 0 then
			ttl = window
		end

		if current < limit then
			redis.call('INCR', key)
			if ttl == window then
				redis.call('EXPIRE', key, window)
			end
			return {1, limit - current - 1, ttl}
		else
			return {0, 0, ttl}
		end
	`)

	result, err := script.Run(ctx, r.client, []string{key}, limit, int(window.Seconds())).Result()
	if err != nil {
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}

	resultSlice, ok := result.([]interface{})
	if !ok || len(resultSlice) < 3 {
		return nil, fmt.Errorf("unexpected rate limit result format")
	}

	allowed := resultSlice[0].(int64) == 1
	remaining := int(resultSlice[1].(int64))
	resetIn := time.Duration(resultSlice[2].(int64)) * time.Second

	return &RateLimitResult{
		Allowed:   allowed,
		Remaining: remaining,
		ResetIn:   resetIn,
		Limit:     limit,
	}, nil
}
