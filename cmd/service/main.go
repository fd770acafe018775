package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/2beens/workouttracker/internal"
	"github.com/2beens/workouttracker/internal/config"
	"github.com/2beens/workouttracker/internal/logging"
	"github.com/2beens/workouttracker/pkg"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	log "github.com/sirupsen/logrus"
)

func main() {
	fmt.Println("starting ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development | ddev | dockerdev ]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	dotEnvPath := flag.String("dotenv", ".env", "optional .env file with secrets")
	flag.Parse()

	if err := godotenv.Load(*dotEnvPath); err != nil {
		log.Debugf("no .env file loaded from [%s]: %s", *dotEnvPath, err)
	}

	log.Warnf("---->> running in [%s] environment", *env)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	secrets, err := config.LoadSecrets(ctx, envconfig.OsLookuper())
	if err != nil {
		panic(err)
	}

	if err := logging.Setup(logging.LoggerSetupParams{
		LogsPath:         cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        secrets.SentryDSN,
		SentryServerName: "workout-service",
	}); err != nil {
		panic(err)
	}

	log.Debugf("using port: %d", cfg.Port)
	log.Debugf("using storage backend [%s], data dir [%s]", cfg.StorageBackend, cfg.DataDir)

	if cfg.DataDir != "" {
		if err := pkg.EnsureDir(cfg.DataDir); err != nil {
			log.Fatalf("data dir: %s", err)
		}
	}

	if cfg.StorageBackend == "redis" && secrets.RedisPassword == "" {
		log.Warnln("redis password not set, use WORKOUT_REDIS_PASS")
	}
	if secrets.HoneycombEnabled && secrets.HoneycombAPIKey == "" {
		log.Warnln("HONEYCOMB_API_KEY env var not set")
	}

	versionInfo, err := tryGetLastCommitHash()
	if err != nil {
		log.Tracef("failed to get last commit hash / version info: %s", err)
	} else {
		log.Tracef("running version: %s", versionInfo)
	}

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)

	server, err := internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:                  cfg,
			RedisPassword:           secrets.RedisPassword,
			HoneycombTracingEnabled: secrets.HoneycombEnabled,
			OtelServiceName:         secrets.OtelServiceName,
			VersionInfo:             versionInfo,
		},
	)
	if err != nil {
		log.Fatalf("new server: %s", err)
	}

	server.Serve(cfg.Host, cfg.Port)

	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received, shutting down ...", receivedSig)
	cancel()

	server.GracefulShutdown()
}

// tryGetLastCommitHash assumes the binary runs from the project root.
func tryGetLastCommitHash() (string, error) {
	cmd := exec.Command("git", "rev-parse", "HEAD")
	stdout, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return pkg.CleanVersion(stdout), nil
}
