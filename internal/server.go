package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/2beens/workouttracker/internal/appstate"
	"github.com/2beens/workouttracker/internal/catalog"
	"github.com/2beens/workouttracker/internal/config"
	"github.com/2beens/workouttracker/internal/kvstore"
	workoutmcp "github.com/2beens/workouttracker/internal/mcp"
	"github.com/2beens/workouttracker/internal/middleware"
	"github.com/2beens/workouttracker/internal/storage"
	"github.com/2beens/workouttracker/internal/telemetry/metrics"
	"github.com/2beens/workouttracker/internal/telemetry/tracing"
	"github.com/2beens/workouttracker/pkg"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config   *config.Config
	kv       kvstore.Store
	appState *appstate.Store

	// nil unless the redis backend is used
	redisClient *redis.Client

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	RedisPassword           string
	HoneycombTracingEnabled bool
	OtelServiceName         string
	VersionInfo             string
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	promRegistry := metrics.SetupPrometheus()
	metricsManager := metrics.NewManager("workout", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	serviceName := params.OtelServiceName
	if serviceName == "" {
		serviceName = "workout-tracker"
	}
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, serviceName)
	if err != nil {
		return nil, err
	}

	kv, appState, err := OpenState(ctx, cfg, params.RedisPassword, metricsManager)
	if err != nil {
		otelShutdown()
		return nil, err
	}

	s := &Server{
		versionInfo: params.VersionInfo,
		config:      cfg,
		kv:          kv,
		appState:    appState,

		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}
	if redisStore, ok := kvstore.AsRedisStore(kv); ok {
		s.redisClient = redisStore.Client()
	}

	return s, nil
}

// OpenState opens the configured store and loads the state from it,
// seeding the catalog on first run. The caller owns the returned kvstore.
func OpenState(
	ctx context.Context,
	cfg *config.Config,
	redisPassword string,
	metricsManager *metrics.Manager,
) (kvstore.Store, *appstate.Store, error) {
	kv, err := kvstore.Open(ctx, StoreParams(cfg, redisPassword, metricsManager))
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	var seed catalog.Provider = catalog.Default{}
	if cfg.CatalogPath != "" {
		seed = catalog.NewFileProvider(cfg.CatalogPath)
	}

	appState := appstate.NewStore(storage.NewRepo(kv, metricsManager), seed, metricsManager)
	if err := appState.Initialize(ctx); err != nil {
		if closeErr := kv.Close(); closeErr != nil {
			log.Errorf("close store: %s", closeErr)
		}
		return nil, nil, fmt.Errorf("initialize state: %w", err)
	}
	return kv, appState, nil
}

func StoreParams(cfg *config.Config, redisPassword string, metricsManager *metrics.Manager) kvstore.Params {
	return kvstore.Params{
		Backend: cfg.StorageBackend,
		DataDir: cfg.DataDir,
		Redis: kvstore.RedisParams{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: redisPassword,
			DB:       cfg.RedisDB,
		},
		RedisPrefix:        cfg.RedisPrefix,
		CacheEnabled:       cfg.CacheEnabled,
		CacheSizeBytes:     cfg.CacheSizeBytes,
		CacheExpireSeconds: cfg.CacheExpireSeconds,
		MetricsManager:     metricsManager,
	}
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("workout-router"))

	r.HandleFunc("/version", func(w http.ResponseWriter, _ *http.Request) {
		pkg.WriteTextResponseOK(w, s.versionInfo)
	}).Methods("GET").Name("version")

	var loginMiddlewares []mux.MiddlewareFunc
	if s.redisClient != nil && s.config.LoginRateLimitAllowedPerMin > 0 {
		loginMiddlewares = append(loginMiddlewares, middleware.RateLimit(
			redis_rate.NewLimiter(s.redisClient),
			"login",
			s.config.LoginRateLimitAllowedPerMin,
			s.metricsManager,
		))
	}
	appstate.NewHandler(s.appState).SetupRoutes(r, loginMiddlewares...)

	if s.config.MCPEnabled {
		mcpHandler := workoutmcp.NewHTTPHandler(workoutmcp.NewServer(s.appState))
		r.PathPrefix("/mcp").Handler(mcpHandler).Name("mcp")
	}

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "DELETE", "OPTIONS").Name("unknown")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(host string, port int) {
	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:           s.routerSetup(),
		Addr:              ipAndPort,
		WriteTimeout:      time.Minute,
		ReadTimeout:       time.Minute,
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{Registry: s.promRegistry},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:              metricsAddr,
		Handler:           metricsRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	if s.config.PrometheusMetricsPort != "" {
		go func() {
			log.Debugf(" > metrics listening on: [%s]", metricsAddr)
			err := s.metricsHttpServer.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("metrics service, listen and serve: %s", err)
			}
		}()
	}

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")
	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	// stop taking requests before the store goes away
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Errorf(" >>> failed to gracefully shutdown http server: %s", err)
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Errorf(" >>> failed to gracefully shutdown metrics http server: %s", err)
		}
		log.Warnln("metrics server shut down")
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	// closes the redis client too, when redis is the backend
	if err := s.kv.Close(); err != nil {
		log.Errorf("failed to close store: %s", err)
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}
