package logging

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTransport struct {
	mu     sync.Mutex
	events []*sentry.Event
}

func (t *recordingTransport) Configure(sentry.ClientOptions) {}

func (t *recordingTransport) SendEvent(event *sentry.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, event)
}

func (t *recordingTransport) Flush(time.Duration) bool { return true }

func (t *recordingTransport) FlushWithContext(context.Context) bool { return true }

func (t *recordingTransport) Close() {}

func newTestHub(t *testing.T) (*sentry.Hub, *recordingTransport) {
	t.Helper()
	transport := &recordingTransport{}
	client, err := sentry.NewClient(sentry.ClientOptions{Transport: transport})
	require.NoError(t, err)
	return sentry.NewHub(client, sentry.NewScope()), transport
}

func TestSentryHook_Fire(t *testing.T) {
	hub, transport := newTestHub(t)
	logger := logrus.New()
	logger.SetOutput(&discard{})
	logger.AddHook(NewSentryHookWithHub([]logrus.Level{logrus.ErrorLevel}, hub))

	logger.Info("not forwarded")
	logger.WithField("exercise", "exercise_1_1").
		WithError(errors.New("disk full")).
		Error("add session")

	require.Len(t, transport.events, 1)
	event := transport.events[0]
	assert.Equal(t, sentry.LevelError, event.Level)
	assert.Equal(t, "logrus", event.Tags["logger"])
	require.NotEmpty(t, event.Exception)
	assert.Equal(t, "add session: disk full", event.Exception[len(event.Exception)-1].Value)
	assert.Equal(t, "exercise_1_1", event.Contexts["log_fields"]["exercise"])
}

func TestSentryHook_NoClient(t *testing.T) {
	hook := NewSentryHookWithHub([]logrus.Level{logrus.ErrorLevel}, sentry.NewHub(nil, sentry.NewScope()))
	err := hook.Fire(&logrus.Entry{Message: "ignored", Level: logrus.ErrorLevel})
	assert.NoError(t, err)
	assert.Equal(t, []logrus.Level{logrus.ErrorLevel}, hook.Levels())
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
