//go:build integration_test || all_tests

package kvstore

import (
	"testing"

	pkgtesting "github.com/2beens/workouttracker/pkg/testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore_Integration(t *testing.T) {
	ctx, rdb, _ := pkgtesting.RunRedis(t)
	store := NewRedisStore(rdb, "it:")

	_, err := store.Get(ctx, "@workout_tracker_user")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, store.Set(ctx, "@workout_tracker_user", []byte(`{"id":"u1"}`)))
	v, err := store.Get(ctx, "@workout_tracker_user")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"u1"}`, string(v))

	// stored under the prefix
	raw, err := rdb.Get(ctx, "it:@workout_tracker_user").Result()
	require.NoError(t, err)
	assert.Equal(t, `{"id":"u1"}`, raw)

	require.NoError(t, store.Delete(ctx, "@workout_tracker_user", "missing"))
	_, err = store.Get(ctx, "@workout_tracker_user")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestOpen_RedisBackend_Integration(t *testing.T) {
	ctx, _, port := pkgtesting.RunRedis(t)

	store, err := Open(ctx, Params{
		Backend:      BackendRedis,
		Redis:        RedisParams{Host: "localhost", Port: port},
		RedisPrefix:  "open-it:",
		CacheEnabled: true,
	})
	require.NoError(t, err)
	defer store.Close()

	_, ok := AsRedisStore(store)
	assert.True(t, ok)

	require.NoError(t, store.Set(ctx, "k", []byte("v")))
	v, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(v))
}
