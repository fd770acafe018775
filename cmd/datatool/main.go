// Package main inspects or wipes the persisted workout data.
//
//	datatool -env dev -dump            print user, programs and sessions as JSON
//	datatool -env dev -clear -yes      remove everything; the next start re-seeds the catalog
//	datatool -env dev -seed            load the state once, seeding the catalog when none is stored
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/2beens/workouttracker/internal"
	"github.com/2beens/workouttracker/internal/config"
	"github.com/2beens/workouttracker/internal/kvstore"
	"github.com/2beens/workouttracker/internal/logging"
	"github.com/2beens/workouttracker/internal/storage"
	"github.com/2beens/workouttracker/internal/workout"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	log "github.com/sirupsen/logrus"
)

type dump struct {
	User     *workout.User     `json:"user"`
	Programs []workout.Program `json:"programs"`
	Sessions []workout.Session `json:"sessions"`
}

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development | ddev | dockerdev]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	doDump := flag.Bool("dump", false, "print all stored data as JSON")
	doClear := flag.Bool("clear", false, "remove all stored data")
	doSeed := flag.Bool("seed", false, "seed the catalog when none is stored")
	yes := flag.Bool("yes", false, "confirm -clear")
	flag.Parse()

	_ = godotenv.Load()

	if err := logging.Setup(logging.LoggerSetupParams{
		LogLevel: "info",
		Console:  os.Stderr,
	}); err != nil {
		log.Fatalf("logging setup: %s", err)
	}

	if countTrue(*doDump, *doClear, *doSeed) != 1 {
		log.Fatalln("use exactly one of -dump, -clear or -seed")
	}
	if *doClear && !*yes {
		log.Fatalln("-clear removes all data, add -yes to confirm")
	}

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}

	ctx := context.Background()
	secrets, err := config.LoadSecrets(ctx, envconfig.OsLookuper())
	if err != nil {
		log.Fatalf("load secrets: %s", err)
	}

	if *doSeed {
		kv, appState, err := internal.OpenState(ctx, cfg, secrets.RedisPassword, nil)
		if err != nil {
			log.Fatalf("open state: %s", err)
		}
		log.Infof("state loaded: %d programs", len(appState.Programs()))
		if err := kv.Close(); err != nil {
			log.Errorf("close store: %s", err)
		}
		return
	}

	params := internal.StoreParams(cfg, secrets.RedisPassword, nil)
	// the tool must see what is on disk, not a warm cache
	params.CacheEnabled = false
	kv, err := kvstore.Open(ctx, params)
	if err != nil {
		log.Fatalf("open store: %s", err)
	}
	defer func() {
		if err := kv.Close(); err != nil {
			log.Errorf("close store: %s", err)
		}
	}()

	repo := storage.NewRepo(kv, nil)

	if *doClear {
		if err := repo.ClearAllData(ctx); err != nil {
			log.Errorf("clear all data: %s", err)
			return
		}
		log.Infof("all data cleared from [%s] backend", cfg.StorageBackend)
		return
	}

	if err := writeDump(ctx, repo); err != nil {
		log.Errorf("dump: %s", err)
	}
}

func writeDump(ctx context.Context, repo *storage.Repo) error {
	var (
		d   dump
		err error
	)
	if d.User, err = repo.GetUser(ctx); err != nil {
		return err
	}
	if d.Programs, err = repo.GetPrograms(ctx); err != nil {
		return err
	}
	if d.Sessions, err = repo.GetSessions(ctx); err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

func countTrue(flags ...bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}
