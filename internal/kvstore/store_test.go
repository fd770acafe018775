package kvstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/2beens/workouttracker/internal/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// INFO: https://github.com/go-redis/redis/issues/1029
		goleak.IgnoreTopFunction(
			"github.com/go-redis/redis/v8/internal/pool.(*ConnPool).reaper",
		),
		// modernc sqlite keeps a connection opener goroutine per *sql.DB until Close
		goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"),
	)
}

type storeFactory func(t *testing.T) Store

func backends() map[string]storeFactory {
	return map[string]storeFactory{
		"memory": func(t *testing.T) Store {
			return NewMemoryStore()
		},
		"disk": func(t *testing.T) Store {
			s, err := NewDiskStore(t.TempDir())
			require.NoError(t, err)
			return s
		},
		"sqlite": func(t *testing.T) Store {
			s, err := OpenSQLiteStore(context.Background(), t.TempDir())
			require.NoError(t, err)
			return s
		},
		"cached_sqlite": func(t *testing.T) Store {
			s, err := OpenSQLiteStore(context.Background(), t.TempDir())
			require.NoError(t, err)
			return NewCachedStore(s, 0, 0, metrics.NewTestManager())
		},
	}
}

func TestStore_Contract(t *testing.T) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t)
			defer func() {
				assert.NoError(t, store.Close())
			}()

			_, err := store.Get(ctx, "@workout_tracker_user")
			assert.ErrorIs(t, err, ErrKeyNotFound)

			require.NoError(t, store.Set(ctx, "@workout_tracker_user", []byte(`{"id":"u1"}`)))
			got, err := store.Get(ctx, "@workout_tracker_user")
			require.NoError(t, err)
			assert.Equal(t, `{"id":"u1"}`, string(got))

			// overwrite replaces the whole document
			require.NoError(t, store.Set(ctx, "@workout_tracker_user", []byte(`{"id":"u2"}`)))
			got, err = store.Get(ctx, "@workout_tracker_user")
			require.NoError(t, err)
			assert.Equal(t, `{"id":"u2"}`, string(got))

			require.NoError(t, store.Set(ctx, "@workout_tracker_sessions", []byte(`[]`)))
			require.NoError(t, store.Delete(ctx, "@workout_tracker_user", "@workout_tracker_sessions", "never-set"))

			_, err = store.Get(ctx, "@workout_tracker_user")
			assert.ErrorIs(t, err, ErrKeyNotFound)
			_, err = store.Get(ctx, "@workout_tracker_sessions")
			assert.ErrorIs(t, err, ErrKeyNotFound)

			assert.ErrorIs(t, store.Set(ctx, "", []byte("x")), ErrEmptyKey)
		})
	}
}

func TestStore_ConcurrentWrites(t *testing.T) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t)
			defer store.Close()

			var wg sync.WaitGroup
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					key := fmt.Sprintf("key-%d", i%4)
					assert.NoError(t, store.Set(ctx, key, []byte(fmt.Sprintf("value-%d", i))))
				}(i)
			}
			wg.Wait()

			for i := 0; i < 4; i++ {
				v, err := store.Get(ctx, fmt.Sprintf("key-%d", i))
				require.NoError(t, err)
				assert.Contains(t, string(v), "value-")
			}
		})
	}
}

func TestDiskStore_KeyEscaping(t *testing.T) {
	root := t.TempDir()
	store, err := NewDiskStore(root)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "../escape/attempt", []byte("x")))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].IsDir())

	_, err = os.Stat(filepath.Join(filepath.Dir(root), "escape"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	v, err := store.Get(ctx, "../escape/attempt")
	require.NoError(t, err)
	assert.Equal(t, "x", string(v))
}

func TestNewDiskStore_EmptyRoot(t *testing.T) {
	_, err := NewDiskStore("")
	assert.Error(t, err)
}

func TestCachedStore_HitsAndMisses(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryStore()
	metricsManager := metrics.NewTestManager()
	store := NewCachedStore(backend, 0, 0, metricsManager)

	require.NoError(t, backend.Set(ctx, "k", []byte("v1")))

	v, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(v))
	assert.Equal(t, float64(1), testutil.ToFloat64(metricsManager.CounterCacheMisses))

	v, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(v))
	assert.Equal(t, float64(1), testutil.ToFloat64(metricsManager.CounterCacheHits))

	// write through
	require.NoError(t, store.Set(ctx, "k", []byte("v2")))
	fromBackend, err := backend.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(fromBackend))
	v, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(v))
	assert.Equal(t, float64(2), testutil.ToFloat64(metricsManager.CounterCacheHits))

	require.NoError(t, store.Delete(ctx, "k"))
	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestCachedStore_FailedWriteInvalidates(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryStore()
	store := NewCachedStore(backend, 0, 0, nil)

	require.NoError(t, store.Set(ctx, "k", []byte("v1")))

	backend.SetFailure(errors.New("disk on fire"))
	assert.Error(t, store.Set(ctx, "k", []byte("v2")))
	backend.SetFailure(nil)

	// served from the backend again, not a stale or unwritten cache entry
	v, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(v))
}

func TestCachedStore_LargeEntryNotCached(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryStore()
	// 512KB cache allows entries up to ~512 bytes
	store := NewCachedStore(backend, 512*1024, 0, metrics.NewTestManager())

	large := make([]byte, 4096)
	require.NoError(t, store.Set(ctx, "big", large))

	v, err := store.Get(ctx, "big")
	require.NoError(t, err)
	assert.Len(t, v, 4096)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	store, err := Open(ctx, Params{Backend: BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	store, err = Open(ctx, Params{Backend: BackendDisk, DataDir: t.TempDir(), CacheEnabled: true})
	require.NoError(t, err)
	assert.IsType(t, &CachedStore{}, store)
	_, isRedis := AsRedisStore(store)
	assert.False(t, isRedis)

	store, err = Open(ctx, Params{DataDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, store)
	require.NoError(t, store.Close())

	_, err = Open(ctx, Params{Backend: "cassandra"})
	assert.ErrorIs(t, err, ErrUnknownBackend)

	_, err = Open(ctx, Params{Backend: BackendSQLite})
	assert.Error(t, err)
}
