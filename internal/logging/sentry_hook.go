package logging

import (
	"errors"
	"fmt"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

var sentryLevels = map[logrus.Level]sentry.Level{
	logrus.PanicLevel: sentry.LevelFatal,
	logrus.FatalLevel: sentry.LevelFatal,
	logrus.ErrorLevel: sentry.LevelError,
	logrus.WarnLevel:  sentry.LevelWarning,
	logrus.InfoLevel:  sentry.LevelInfo,
	logrus.DebugLevel: sentry.LevelDebug,
	logrus.TraceLevel: sentry.LevelDebug,
}

// SentryHook forwards log entries of the given levels to Sentry.
type SentryHook struct {
	levels []logrus.Level
	hub    *sentry.Hub
}

func NewSentryHook(levels []logrus.Level) *SentryHook {
	return &SentryHook{
		levels: levels,
		hub:    sentry.CurrentHub(),
	}
}

// NewSentryHookWithHub is NewSentryHook reporting to hub instead of the global one.
func NewSentryHookWithHub(levels []logrus.Level, hub *sentry.Hub) *SentryHook {
	return &SentryHook{
		levels: levels,
		hub:    hub,
	}
}

func (h *SentryHook) Levels() []logrus.Level {
	return h.levels
}

func (h *SentryHook) Fire(entry *logrus.Entry) error {
	if h.hub == nil || h.hub.Client() == nil {
		return nil
	}

	fields := make(map[string]interface{}, len(entry.Data))
	var entryErr error
	for k, v := range entry.Data {
		if err, ok := v.(error); ok && k == logrus.ErrorKey {
			entryErr = err
			continue
		}
		fields[k] = fmt.Sprint(v)
	}

	h.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentryLevels[entry.Level])
		scope.SetTag("logger", "logrus")
		if len(fields) > 0 {
			scope.SetContext("log_fields", fields)
		}

		if entryErr != nil {
			h.hub.CaptureException(fmt.Errorf("%s: %w", entry.Message, entryErr))
			return
		}
		h.hub.CaptureException(errors.New(entry.Message))
	})
	return nil
}
