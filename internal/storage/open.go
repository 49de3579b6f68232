package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/palemoky/bridge-scorer/internal/config"
)

// Open connects the backend named by cfg. Redis keys expire after ttl; the
// SQL backends rely on the adapter's age check instead.
func Open(ctx context.Context, cfg config.StorageConfig, ttl time.Duration) (Store, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return NewMemoryStore(), nil
	case config.BackendSQLite:
		s, err := NewSQLiteStore(cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendPostgres:
		s, err := NewPostgresStore(cfg.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		// 测试 Redis 连接
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("redis 连接失败: %w", err)
		}
		return NewRedisStore(rdb, ttl), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
}
