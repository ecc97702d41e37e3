package outbound

import (
	"context"
	"time"
)

// RateLimitService throttles login attempts. Implementations may be
// redis-backed or a noop when rate limiting is disabled.
type RateLimitService interface {
	CheckLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	Increment(ctx context.Context, key string, window time.Duration) error
	Block(ctx context.Context, key string, duration time.Duration, reason string) error
	IsBlocked(ctx context.Context, key string) (bool, error)
}
