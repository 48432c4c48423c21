package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/teampulse/internal/config"
)

const keySubmitUser = "answers:submit:user:%d"

// SubmitLimiter throttles answer submission per user. A nil limiter (rate
// limiting disabled) always allows.
type SubmitLimiter struct {
	enabled bool

	bucket *TokenBucket
	rate   float64
	burst  int
}

func NewSubmitLimiter(cfg config.Config) (*SubmitLimiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.SubmitRate <= 0 || limitCfg.SubmitBurst <= 0 {
		return nil, errors.New("submit rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})

	return &SubmitLimiter{
		enabled: true,
		bucket:  NewTokenBucket(client),
		rate:    limitCfg.SubmitRate,
		burst:   limitCfg.SubmitBurst,
	}, nil
}

func (l *SubmitLimiter) Enabled() bool {
	return l != nil && l.enabled
}

func (l *SubmitLimiter) Allow(ctx context.Context, userID snowflake.ID) (bool, error) {
	if !l.Enabled() {
		return true, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keySubmitUser, int64(userID)), l.rate, l.burst)
}
