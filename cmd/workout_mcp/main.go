// Package main runs the workout MCP server over stdio, for local MCP clients.
// The service mounts the same tools at /mcp when mcp_enabled is set.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/2beens/workouttracker/internal"
	"github.com/2beens/workouttracker/internal/config"
	"github.com/2beens/workouttracker/internal/logging"
	workoutmcp "github.com/2beens/workouttracker/internal/mcp"
	"github.com/2beens/workouttracker/internal/telemetry/metrics"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sethvargo/go-envconfig"
	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development | ddev | dockerdev]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}

	// stdout carries the MCP protocol
	if err := logging.Setup(logging.LoggerSetupParams{
		LogLevel: cfg.LogLevel,
		Console:  os.Stderr,
	}); err != nil {
		log.Fatalf("logging setup: %s", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	secrets, err := config.LoadSecrets(ctx, envconfig.OsLookuper())
	if err != nil {
		log.Fatalf("load secrets: %s", err)
	}

	metricsManager := metrics.NewManager("workout", "mcp", metrics.SetupPrometheus())
	kv, appState, err := internal.OpenState(ctx, cfg, secrets.RedisPassword, metricsManager)
	if err != nil {
		log.Fatalf("open state: %s", err)
	}
	defer func() {
		if err := kv.Close(); err != nil {
			log.Errorf("close store: %s", err)
		}
	}()

	server := workoutmcp.NewServer(appState)
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Errorf("mcp server: %s", err)
	}
}
