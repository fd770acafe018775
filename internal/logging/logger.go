package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/2beens/workouttracker/pkg"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const logFileName = "workout-tracker.log"

type LoggerSetupParams struct {
	// LogsPath is a directory; empty means no log file.
	LogsPath      string
	LogToStdout   bool
	LogLevel      string
	LogFormatJSON bool
	// Console is where non-file output goes. Defaults to os.Stdout;
	// the stdio MCP binary passes os.Stderr.
	Console io.Writer

	Environment      string
	SentryEnabled    bool
	SentryDSN        string
	SentryServerName string
}

// Setup configures the global logrus logger: format, level, outputs and
// the optional sentry hook.
func Setup(params LoggerSetupParams) error {
	return setup(logrus.StandardLogger(), params)
}

func setup(logger *logrus.Logger, params LoggerSetupParams) error {
	if params.LogFormatJSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	logger.SetLevel(GetLevel(params.LogLevel))

	if params.SentryEnabled {
		err := sentry.Init(sentry.ClientOptions{
			Environment:      params.Environment,
			Dsn:              params.SentryDSN,
			TracesSampleRate: 1.0,
			ServerName:       params.SentryServerName,
		})
		if err != nil {
			return fmt.Errorf("sentry init: %w", err)
		}

		logger.AddHook(NewSentryHook([]logrus.Level{
			logrus.PanicLevel,
			logrus.FatalLevel,
			logrus.ErrorLevel,
		}))
		logger.Infoln("sentry set up")
	}

	console := params.Console
	if console == nil {
		console = os.Stdout
	}

	if params.LogsPath == "" {
		logger.SetOutput(console)
		logger.Debugln("writing logs only to console")
		return nil
	}

	if err := pkg.EnsureDir(params.LogsPath); err != nil {
		return fmt.Errorf("logs dir: %w", err)
	}

	lumberJackLogger := &lumberjack.Logger{
		Filename:  filepath.Join(params.LogsPath, logFileName),
		MaxSize:   50, // megabytes
		LocalTime: false,
		Compress:  true,
	}

	if params.LogToStdout {
		logger.SetOutput(pkg.NewCombinedWriter(console, lumberJackLogger))
		logger.Debugln("writing logs to file and console")
	} else {
		logger.SetOutput(lumberJackLogger)
	}
	return nil
}

// GetLevel maps a level name to a logrus level, falling back to info.
func GetLevel(level string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return logrus.TraceLevel
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}
