package testing

import (
	"context"
	"net"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"
)

// RunRedis starts a throwaway redis container and returns a client
// connected to it. The container and client go away with the test.
func RunRedis(t *testing.T) (context.Context, *redis.Client, string) {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err)
	require.NoError(t, pool.Client.Ping())
	pool.MaxWait = 30 * time.Second

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "6.2",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("purge redis container: %s", err)
		}
	})

	redisHost := os.Getenv("REDIS_HOST")
	if redisHost == "" {
		redisHost = "localhost"
	}
	redisPort := resource.GetPort("6379/tcp")
	t.Logf("using redis at: [%s:%s]", redisHost, redisPort)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	t.Cleanup(cancel)

	rdb := redis.NewClient(&redis.Options{
		Addr: net.JoinHostPort(redisHost, redisPort),
		DB:   0, // use default DB
	})
	t.Cleanup(func() {
		_ = rdb.Close()
	})

	require.NoError(t, pool.Retry(func() error {
		return rdb.Ping(ctx).Err()
	}))

	return ctx, rdb, redisPort
}
