package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/bridge-scorer/internal/config"
)

func TestOpen(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)

	tests := []struct {
		name string
		cfg  config.StorageConfig
		want any
	}{
		{"memory", config.StorageConfig{Backend: config.BackendMemory}, &MemoryStore{}},
		{"sqlite", config.StorageConfig{
			Backend: config.BackendSQLite,
			SQLite:  config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "nested", "bridge.db")},
		}, &SQLStore{}},
		{"redis", config.StorageConfig{
			Backend: config.BackendRedis,
			Redis:   config.RedisConfig{Addr: mr.Addr()},
		}, &RedisStore{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(context.Background(), tt.cfg, time.Hour)
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })

			assert.IsType(t, tt.want, s)
			exerciseStore(t, s)
		})
	}
}

func TestOpen_Errors(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	tests := []struct {
		name string
		cfg  config.StorageConfig
	}{
		{"unknown backend", config.StorageConfig{Backend: "etcd"}},
		{"postgres without dsn", config.StorageConfig{Backend: config.BackendPostgres}},
		{"redis down", config.StorageConfig{Backend: config.BackendRedis, Redis: config.RedisConfig{Addr: addr}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(context.Background(), tt.cfg, time.Hour)
			assert.Error(t, err)
			assert.Nil(t, s)
		})
	}
}
