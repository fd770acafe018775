package kvstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/2beens/workouttracker/internal/telemetry/metrics"

	log "github.com/sirupsen/logrus"
)

const (
	BackendSQLite = "sqlite"
	BackendDisk   = "disk"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Params struct {
	Backend string
	DataDir string

	Redis       RedisParams
	RedisPrefix string

	CacheEnabled       bool
	CacheSizeBytes     int
	CacheExpireSeconds int

	MetricsManager *metrics.Manager
}

// Open builds the configured backend, optionally fronted by the in-process cache.
func Open(ctx context.Context, params Params) (Store, error) {
	var (
		store Store
		err   error
	)

	switch strings.ToLower(params.Backend) {
	case BackendSQLite, "":
		store, err = OpenSQLiteStore(ctx, params.DataDir)
	case BackendDisk:
		store, err = NewDiskStore(params.DataDir)
	case BackendRedis:
		rdb := NewRedisClient(ctx, params.Redis)
		store = NewRedisStore(rdb, params.RedisPrefix)
	case BackendMemory:
		store = NewMemoryStore()
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, params.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", params.Backend, err)
	}

	log.Debugf("kvstore: using [%s] backend, cache enabled: %t", params.Backend, params.CacheEnabled)
	if !params.CacheEnabled {
		return store, nil
	}
	return NewCachedStore(store, params.CacheSizeBytes, params.CacheExpireSeconds, params.MetricsManager), nil
}

// AsRedisStore unwraps store down to its redis backend, if it has one.
func AsRedisStore(store Store) (*RedisStore, bool) {
	switch s := store.(type) {
	case *RedisStore:
		return s, true
	case *CachedStore:
		return AsRedisStore(s.backend)
	default:
		return nil, false
	}
}
