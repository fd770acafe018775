package kvstore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/2beens/workouttracker/internal/telemetry/metrics"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const DefaultCacheSizeBytes = 64 * 1024 * 1024

// CachedStore serves reads from an in-process freecache and writes through
// to the backing store. Entries larger than freecache allows are simply not cached.
type CachedStore struct {
	backend        Store
	cache          *freecache.Cache
	expireSeconds  int
	metricsManager *metrics.Manager

	// serialises writes and cache fills so a slow fill never overwrites a newer write
	mutex sync.Mutex
}

var _ Store = (*CachedStore)(nil)

func NewCachedStore(backend Store, sizeBytes, expireSeconds int, metricsManager *metrics.Manager) *CachedStore {
	if sizeBytes <= 0 {
		sizeBytes = DefaultCacheSizeBytes
	}
	return &CachedStore{
		backend:        backend,
		cache:          freecache.NewCache(sizeBytes),
		expireSeconds:  expireSeconds,
		metricsManager: metricsManager,
	}
}

func (s *CachedStore) Get(ctx context.Context, key string) ([]byte, error) {
	if cached, err := s.cache.Get([]byte(key)); err == nil {
		log.Tracef("kvstore: cache hit [%s]", key)
		s.countHit(true)
		return cached, nil
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	// filled while waiting for the lock
	if cached, err := s.cache.Get([]byte(key)); err == nil {
		s.countHit(true)
		return cached, nil
	}

	log.Tracef("kvstore: cache miss [%s]", key)
	s.countHit(false)

	value, err := s.backend.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	s.cacheSet(key, value)
	return value, nil
}

func (s *CachedStore) Set(ctx context.Context, key string, value []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := s.backend.Set(ctx, key, value); err != nil {
		// backend state is unknown now
		s.cache.Del([]byte(key))
		return err
	}
	s.cacheSet(key, value)
	return nil
}

func (s *CachedStore) Delete(ctx context.Context, keys ...string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, k := range keys {
		s.cache.Del([]byte(k))
	}
	return s.backend.Delete(ctx, keys...)
}

func (s *CachedStore) Close() error {
	s.cache.Clear()
	if err := s.backend.Close(); err != nil {
		return fmt.Errorf("close cached backend: %w", err)
	}
	return nil
}

func (s *CachedStore) cacheSet(key string, value []byte) {
	if err := s.cache.Set([]byte(key), value, s.expireSeconds); err != nil {
		s.cache.Del([]byte(key))
		if errors.Is(err, freecache.ErrLargeEntry) {
			log.Tracef("kvstore: doc [%s] too large to cache (%d bytes)", key, len(value))
			return
		}
		log.Warnf("kvstore: cache set [%s]: %s", key, err)
	}
}

func (s *CachedStore) countHit(hit bool) {
	if s.metricsManager == nil {
		return
	}
	if hit {
		s.metricsManager.CounterCacheHits.Inc()
	} else {
		s.metricsManager.CounterCacheMisses.Inc()
	}
}
