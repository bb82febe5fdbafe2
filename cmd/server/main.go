package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/iho/memledger/internal/adapter/http"
	"github.com/iho/memledger/internal/adapter/http/handler"
	"github.com/iho/memledger/internal/adapter/http/middleware"
	"github.com/iho/memledger/internal/adapter/repository/memory"
	redisRepo "github.com/iho/memledger/internal/adapter/repository/redis"
	"github.com/iho/memledger/internal/infrastructure/config"
	"github.com/iho/memledger/internal/infrastructure/logger"
	"github.com/iho/memledger/internal/infrastructure/metrics"
	"github.com/iho/memledger/internal/infrastructure/notification"
	"github.com/iho/memledger/internal/infrastructure/redis"
	"github.com/iho/memledger/internal/usecase"
)

const (
	limiterCleanupInterval = time.Minute
	limiterMaxIdle         = 10 * time.Minute
	gaugeInterval          = 15 * time.Second
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	logger.SetGlobal(logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log.Logger); err != nil {
		log.Error().Err(err).Msg("server exited with error")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}

// app is the wired object graph of the server.
type app struct {
	handler     http.Handler
	dispatcher  *notification.Dispatcher
	locks       *memory.LockRegistry
	metrics     *metrics.Metrics
	limiter     *middleware.RateLimiter
	redisClient *goredis.Client
}

// newApp builds every component from cfg. Metrics are registered on reg.
func newApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger, reg prometheus.Registerer, gatherer prometheus.Gatherer) (*app, error) {
	a := &app{
		locks:   memory.NewLockRegistry(),
		metrics: metrics.New(reg),
	}

	store := memory.NewAccountStore()

	a.dispatcher = notification.NewDispatcher(notification.Config{
		Notifier:      newNotifier(cfg, logger),
		Logger:        logger,
		Metrics:       a.metrics,
		Workers:       cfg.NotificationWorkers,
		QueueSize:     cfg.NotificationQueueSize,
		MaxRetries:    cfg.NotificationMaxRetries,
		RetryInterval: cfg.NotificationRetryInterval,
		Timeout:       cfg.NotificationTimeout,
	})

	// Initialize use cases
	accountUC := usecase.NewAccountUseCase(store, a.metrics)
	transferUC := usecase.NewTransferUseCase(store, a.locks, a.dispatcher, memory.NewULIDGenerator(), a.metrics, logger)
	ledgerUC := usecase.NewLedgerUseCase(store)

	routerCfg := httpAdapter.RouterConfig{
		AccountHandler:  handler.NewAccountHandler(accountUC),
		TransferHandler: handler.NewTransferHandler(transferUC),
		LedgerHandler:   handler.NewLedgerHandler(ledgerUC),
		Logger:          logger,
		HTTPMetrics:     middleware.NewHTTPMetrics(reg),
		MetricsHandler:  promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}),
		IdempotencyTTL:  cfg.IdempotencyTTL,
	}

	var checkers []handler.ReadinessChecker

	// Connect to Redis
	if cfg.IdempotencyEnabled() {
		client, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			_ = a.dispatcher.Close(context.Background())
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.redisClient = client
		routerCfg.IdempotencyStore = redisRepo.NewIdempotencyStore(client)
		checkers = append(checkers, redis.NewChecker(client))
		logger.Info().Msg("connected to redis, idempotency keys enabled")
	}

	if cfg.RateLimitEnabled() {
		a.limiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		routerCfg.RateLimiter = a.limiter
	}

	routerCfg.HealthHandler = handler.NewHealthHandler(checkers...)
	a.handler = httpAdapter.NewRouter(routerCfg)

	return a, nil
}

// newNotifier picks the webhook sink when a URL is configured and the log sink otherwise.
func newNotifier(cfg *config.Config, logger zerolog.Logger) notification.Notifier {
	if cfg.NotificationWebhookURL == "" {
		return notification.NewLogNotifier(logger)
	}

	return notification.NewWebhookNotifier(notification.WebhookConfig{
		URL:             cfg.NotificationWebhookURL,
		Client:          &http.Client{Timeout: cfg.NotificationTimeout},
		Logger:          logger,
		BreakerFailures: cfg.NotificationBreakerFailures,
		BreakerTimeout:  cfg.NotificationBreakerTimeout,
	})
}

// close drains pending notifications and releases connections.
func (a *app) close(ctx context.Context) error {
	var errs []error

	if err := a.dispatcher.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("close dispatcher: %w", err))
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}

	return errors.Join(errs...)
}

// runHousekeeping refreshes the lock registry gauge and evicts idle rate
// limiter entries until ctx is done.
func (a *app) runHousekeeping(ctx context.Context) error {
	gaugeTicker := time.NewTicker(gaugeInterval)
	defer gaugeTicker.Stop()

	cleanupTicker := time.NewTicker(limiterCleanupInterval)
	defer cleanupTicker.Stop()

	a.metrics.SetLockRegistrySize(a.locks.Len())

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-gaugeTicker.C:
			a.metrics.SetLockRegistrySize(a.locks.Len())
		case <-cleanupTicker.C:
			if a.limiter != nil {
				a.limiter.CleanupLimiters(limiterMaxIdle)
			}
		}
	}
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	a, err := newApp(ctx, cfg, logger, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      a.handler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return a.runHousekeeping(gctx)
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()

		var errs []error
		if err := server.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown server: %w", err))
		}
		if err := a.close(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}
