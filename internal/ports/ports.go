package ports

import "context"

// HealthChecker reports whether a dependency is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// KVStore persists JSON documents under fixed keys. A missing key reports
// found=false with a nil error.
type KVStore interface {
	HealthChecker
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
