package port

import (
	"context"
	"time"
)

// DispatchGuard is a non-blocking, expiring marker narrowing duplicate dispatches
type DispatchGuard interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}
