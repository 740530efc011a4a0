package app

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	libredis "energyrental/backend/libs/redis"
	"energyrental/backend/services/rental-page/internal/clients"
	"energyrental/backend/services/rental-page/internal/config"
	httpserver "energyrental/backend/services/rental-page/internal/http"
	"energyrental/backend/services/rental-page/internal/http/handlers"
	"energyrental/backend/services/rental-page/internal/http/middleware"
	"energyrental/backend/services/rental-page/internal/liveview"
	"energyrental/backend/services/rental-page/internal/metrics"
	"energyrental/backend/services/rental-page/internal/page"
	"energyrental/backend/services/rental-page/internal/schedule"
	"energyrental/backend/services/rental-page/internal/store"
)

// App wires rental page dependencies.
type App struct {
	server      *httpserver.Server
	redisClient *redis.Client
	logger      *zap.Logger
}

// New constructs the application graph. Redis and token checks are optional.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	httpClient := clients.NewDefaultHTTPClient(cfg.BackendTimeout())
	rentalClient := clients.NewRentalClient(cfg.Backend.BaseURL, httpClient).WithBearer(cfg.Backend.Token)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	deps := page.Deps{
		Payments:  rentalClient,
		Energy:    rentalClient,
		Scheduler: schedule.NewSystem(),
		Poller:    cfg.PollerConfig(),
		Observer:  m,
	}

	routes := httpserver.Routes{
		Health:  handlers.NewHealthHandler(),
		Metrics: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		client, err := libredis.NewRedisClient(ctx, libredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		redisClient = client
		snapshots := store.NewSnapshotStore(client, cfg.SnapshotTTL())
		deps.Recorder = snapshots
		routes.Watch = handlers.NewWatchHandler(snapshots, logger)
	} else {
		logger.Info("redis not configured, payment snapshots disabled")
	}

	routes.LivePage = liveview.NewHandler(deps, liveview.Options{
		ClipboardTimeout: cfg.ClipboardTimeout(),
		AllowedOrigins:   cfg.AllowedOrigins(),
	}, m, logger)

	var auth func(http.Handler) http.Handler
	if cfg.JWT.Secret != "" {
		auth = middleware.AuthMiddleware(cfg.JWT.Secret)
	}

	server := httpserver.NewServer(
		cfg.HTTPAddress(),
		httpserver.NewRouter(routes, auth),
		logger,
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
	)

	return &App{
		server:      server,
		redisClient: redisClient,
		logger:      logger,
	}, nil
}

// Run starts serving HTTP traffic.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
