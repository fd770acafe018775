//go:build integration_test || all_tests

package integration_testing

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/2beens/workouttracker/internal"
	"github.com/2beens/workouttracker/internal/config"
	pkgtesting "github.com/2beens/workouttracker/pkg/testing"

	"github.com/stretchr/testify/require"
)

const serverHost = "localhost"

type Suite struct {
	endpoint string
	cfg      *config.Config
	server   *internal.Server
}

// newSuite starts redis in docker and a full server on top of it.
func newSuite(t *testing.T, loginPerMin int) *Suite {
	t.Helper()
	_, _, redisPort := pkgtesting.RunRedis(t)

	cfg := &config.Config{
		Environment:                 "test",
		Host:                        serverHost,
		Port:                        freePort(t),
		StorageBackend:              "redis",
		RedisHost:                   "localhost",
		RedisPort:                   redisPort,
		RedisPrefix:                 "workout-it",
		CacheEnabled:                true,
		LoginRateLimitAllowedPerMin: loginPerMin,
		MCPEnabled:                  true,
	}
	s := &Suite{
		cfg:      cfg,
		endpoint: fmt.Sprintf("http://%s", net.JoinHostPort(serverHost, fmt.Sprint(cfg.Port))),
	}
	s.start(t)
	return s
}

func (s *Suite) start(t *testing.T) {
	t.Helper()
	server, err := internal.NewServer(context.Background(), internal.NewServerParams{
		Config:      s.cfg,
		VersionInfo: "test-version-info",
	})
	require.NoError(t, err)
	server.Serve(s.cfg.Host, s.cfg.Port)
	s.server = server
	t.Cleanup(s.stop)

	require.Eventually(t, func() bool {
		resp, err := http.Get(s.endpoint + "/version")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 10*time.Second, 100*time.Millisecond)
}

// restart brings the server down and up again on the same redis.
func (s *Suite) restart(t *testing.T) {
	t.Helper()
	s.stop()
	s.start(t)
}

func (s *Suite) stop() {
	if s.server != nil {
		s.server.GracefulShutdown()
		s.server = nil
	}
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", net.JoinHostPort(serverHost, "0"))
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}
