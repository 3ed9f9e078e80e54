package dedupe

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/claimwave/adjudicator/logger"
)

// New builds a Guard: a Redis-backed one if redisURL is non-empty and
// reachable, otherwise the in-memory default. A configured but
// unreachable Redis falls back to in-memory rather than failing
// startup, matching the teacher's "falls back to in-memory" posture.
func New(redisURL string, log zerolog.Logger) Guard {
	lg := logger.Component(log, "dedupe")
	if redisURL == "" {
		logger.ClaimEvent(lg, "-", "config", "no redis_url configured, using in-memory dedupe guard")
		return NewMemoryGuard()
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.ClaimEventErr(lg, "-", "config", fmt.Errorf("invalid redis_url, falling back to in-memory dedupe guard: %w", err))
		return NewMemoryGuard()
	}

	client := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.ClaimEventErr(lg, "-", "config", fmt.Errorf("redis unreachable, falling back to in-memory dedupe guard: %w", err))
		return NewMemoryGuard()
	}

	logger.ClaimEvent(lg, "-", "config", "using redis-backed dedupe guard")
	return &redisGuard{client: client, ttl: DefaultTTL, prefix: "claimflow:dedupe:"}
}
