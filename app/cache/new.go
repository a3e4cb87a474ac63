package cache

import (
	"context"
	"fmt"

	"inkwell/app/config"
)

// New builds the cache selected by cfg.Backend.
func New(ctx context.Context, cfg config.CacheConfig) (Cache, error) {
	switch cfg.Backend {
	case config.CacheNone:
		return Noop{}, nil
	case config.CacheMemory:
		return NewMemory(), nil
	case config.CacheRedis:
		return NewRedis(ctx, cfg.RedisAddr, "inkwell:")
	}
	return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
}
