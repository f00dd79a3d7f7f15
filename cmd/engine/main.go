package main

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net"
	"net/http"
	_ "net/http/pprof" //nolint:gosec // localhost-only ${PPROF_PORT}
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	application "courier-engine/internal/app"
	"courier-engine/internal/handlers/kafka-consumer/location_fix"
	"courier-engine/internal/handlers/rest/accept_post"
	"courier-engine/internal/handlers/rest/arrive_post"
	"courier-engine/internal/handlers/rest/cancel_post"
	"courier-engine/internal/handlers/rest/complete_post"
	"courier-engine/internal/handlers/rest/delivery_get"
	"courier-engine/internal/handlers/rest/discovery_offers_get"
	"courier-engine/internal/handlers/rest/discovery_put"
	"courier-engine/internal/handlers/rest/finalize_post"
	"courier-engine/internal/handlers/rest/healthcheck_head"
	"courier-engine/internal/handlers/rest/history_get"
	"courier-engine/internal/handlers/rest/issue_post"
	"courier-engine/internal/handlers/rest/location_post"
	"courier-engine/internal/handlers/rest/navigation_delete"
	"courier-engine/internal/handlers/rest/navigation_post"
	"courier-engine/internal/handlers/rest/pickup_post"
	"courier-engine/internal/handlers/rest/ping_get"
	"courier-engine/internal/handlers/rest/sos_put"
	"courier-engine/internal/handlers/rest/token_post"
	"courier-engine/internal/handlers/rest/transitions_get"
	"courier-engine/internal/handlers/rest/verification_patch"
	"courier-engine/internal/handlers/ws/events"
	"courier-engine/internal/pkg/broker"
	"courier-engine/internal/pkg/config"
	"courier-engine/internal/pkg/dotenv"
	"courier-engine/internal/pkg/grpcclient"
	"courier-engine/internal/pkg/kafka"
	metrics_system "courier-engine/internal/pkg/metrics"
	"courier-engine/internal/pkg/middlewares/graceful_shutdown"
	"courier-engine/internal/pkg/middlewares/metrics"
	"courier-engine/internal/pkg/middlewares/rate_limiter"
	"courier-engine/internal/pkg/middlewares/timeout"
	"courier-engine/internal/pkg/postgres"
	"courier-engine/pkg/logger"
	"courier-engine/pkg/logger/zap_adapter"
	"courier-engine/pkg/token_bucket"
	"github.com/IBM/sarama"
	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	zapLogger, err := zap_adapter.NewZapAdapter()
	if err != nil {
		stdlog.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := zapLogger.Sync(); err != nil {
			stdlog.Printf("failed to sync logger: %v", err)
		}
	}()

	var appLogger logger.Logger = zapLogger
	mainLog := appLogger.With()

	mainLog.Info("starting courier-engine application")

	if _, err := os.Stat(".env"); err == nil {
		if err := dotenv.Load(); err != nil {
			mainLog.Error("failed to load .env file", logger.NewField("error", err))
			return
		}
	} else {
		mainLog.Warn("No .env file found, using system environment variables")
		if err := dotenv.ApplyFlags(); err != nil {
			mainLog.Error("failed to apply flags", logger.NewField("error", err))
			return
		}
	}

	cfg, err := config.Load()
	if err != nil {
		mainLog.Error("load config", logger.NewField("error", err))
		return
	}

	err = run(context.Background(), cfg, appLogger.With(logger.NewField("courier_id", cfg.Engine.CourierID)))
	if err != nil {
		mainLog.Error("application failed", logger.NewField("error", err))
		return
	}
}

//nolint:contextcheck,gocyclo // наследование от context.Background() часть graceful shutdown
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	const (
		shutdownPeriod      = 15 * time.Second
		shutdownHardPeriod  = 3 * time.Second
		readinessDrainDelay = 5 * time.Second
	)

	// https://victoriametrics.com/blog/go-graceful-shutdown/#b-use-basecontext-to-provide-a-global-context-to-all-connections
	var isShuttingDown atomic.Bool

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	runLog := log.With()

	pool, err := postgres.NewConnPool(ctx, log, &cfg.Database)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer pool.Close()

	conn, err := grpcclient.NewConnClient(ctx, log, &cfg.Backend)
	if err != nil {
		return fmt.Errorf("gRPC client: %w", err)
	}
	defer func() {
		err := conn.Close()
		if err != nil {
			runLog.Error("failed to close gRPC connection",
				logger.NewField("error", err),
			)
		}
	}()

	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		redisClient, err = broker.NewRedisClient(ctx, log, cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				runLog.Error("failed to close redis client", logger.NewField("error", err))
			}
		}()
	}

	var syncProducer sarama.SyncProducer
	if cfg.KafkaEnabled() {
		syncProducer, err = kafka.NewSyncProducer(ctx, log, &cfg.Kafka, cfg.KafkaBrokers())
		if err != nil {
			return fmt.Errorf("kafka producer: %w", err)
		}
	}

	businessApp, err := application.InitializeApplication(ctx, log, pool, pgxv5.DefaultCtxGetter, conn, redisClient, syncProducer, cfg)
	if err != nil {
		return fmt.Errorf("business logic: %w", err)
	}
	defer func() {
		if businessApp.Producer != nil {
			if err := businessApp.Producer.Close(); err != nil {
				runLog.Error("failed to close kafka producer", logger.NewField("error", err))
			}
		}
	}()

	if err := businessApp.Engine.Restore(ctx); err != nil {
		return fmt.Errorf("restore delivery state: %w", err)
	}
	if err := businessApp.Engine.Start(ctx); err != nil {
		return fmt.Errorf("start delivery engine: %w", err)
	}
	defer func() {
		businessApp.Engine.Close()
		businessApp.Feed.Close()
		businessApp.Events.Close()
	}()

	worker, err := application.NewBackgroundWorker(ctx, log, businessApp.Tasks)
	if err != nil {
		return fmt.Errorf("background worker: %w", err)
	}

	metrics_system.StartSystemMetricsCollector(ctx)

	// ongoingCtx используется для BaseContext и не должен отменяться при SIGTERM.
	// Он отменяется только после server.Shutdown() для завершения in-flight запросов.
	// https://victoriametrics.com/blog/go-graceful-shutdown/#b-use-basecontext-to-provide-a-global-context-to-all-connections
	ongoingCtx, stopOngoingGracefully := context.WithCancel(context.Background())
	defer stopOngoingGracefully()

	// события из Redis возвращаются в шину процесса
	var relayErr chan error
	if businessApp.EventsRelay != nil {
		relayErr = make(chan error, 1)
		go func() {
			defer close(relayErr)
			runLog.Info("redis events relay starting",
				logger.NewField("channel", cfg.Redis.EventsChannel),
			)
			if err := businessApp.EventsRelay.Relay(ongoingCtx, businessApp.Events); err != nil && !errors.Is(err, context.Canceled) {
				relayErr <- err
			}
		}()
	}

	// kafka consumer фиксов
	var consumer *kafka.Consumer
	var consumerErr chan error
	if cfg.KafkaEnabled() {
		fixHandler := location_fix.New(log, businessApp.Feed, cfg.Engine.CourierID, cfg.Kafka.Handlers.LocationFix.MaxAge)

		consumer, err = kafka.NewConsumer(ctx, log, &cfg.Kafka, cfg.KafkaBrokers(), fixHandler)
		if err != nil {
			return fmt.Errorf("kafka consumer: %w", err)
		}

		consumerErr = make(chan error, 1)
		go func() {
			defer close(consumerErr)

			runLog.With(
				logger.NewField("brokers", cfg.KafkaBrokers()),
				logger.NewField("topic", cfg.Kafka.LocationTopic),
				logger.NewField("group", cfg.Kafka.ConsumerGroup),
			).Info("Kafka consumer starting")

			if err := consumer.Start(ongoingCtx); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, sarama.ErrClosedConsumerGroup) {
					runLog.Info("Kafka consumer stopped gracefully")
				} else {
					consumerErr <- err
				}
			}
		}()
	}
	// kafka consumer фиксов

	// основной http сервер
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: initRouter(ongoingCtx, log, &isShuttingDown, businessApp, pool, cfg),
		BaseContext: func(_ net.Listener) context.Context {
			return ongoingCtx
		},

		ReadHeaderTimeout: 5 * time.Second, // Slowloris DoS gosec G112
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
		// WriteTimeout не задан: /events держит соединение, REST ограничен timeout middleware
	}

	serverErr := make(chan error, 1)
	go func() {
		defer close(serverErr)
		runLog.Info("server starting",
			logger.NewField("port", cfg.Server.Port),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()
	// основной http сервер

	// pprof http сервер
	var pprofServer *http.Server
	var pprofServerErr chan error
	if cfg.Server.PprofEnabled {
		pprofServer = &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.Server.PprofPort),
			Handler: initPprofRouter(&isShuttingDown),
			BaseContext: func(_ net.Listener) context.Context {
				return ongoingCtx
			},

			ReadHeaderTimeout: 5 * time.Second, // Slowloris DoS gosec G112
			ReadTimeout:       60 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		pprofServerErr = make(chan error, 1)
		go func() {
			defer close(pprofServerErr)
			runLog.Info("pprof server starting",
				logger.NewField("port", cfg.Server.PprofPort),
			)
			if err := pprofServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				pprofServerErr <- err
			}
		}()
	}
	// pprof http сервер

	// nil каналы отключенных компонентов в select никогда не срабатывают
	select {
	case <-ctx.Done():
		runLog.Info("Shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server: %w", err)
	case err := <-pprofServerErr:
		return fmt.Errorf("pprof server: %w", err)
	case err := <-consumerErr:
		return fmt.Errorf("consumer: %w", err)
	case err := <-relayErr:
		return fmt.Errorf("redis relay: %w", err)
	}

	stop()
	isShuttingDown.Store(true)

	time.Sleep(readinessDrainDelay)
	runLog.Info("draining requests")

	// shutdownCtx должен быть независим от ctx, который уже отменен на этом этапе.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownPeriod)
	defer cancel()

	var shutdownErr error
	err = server.Shutdown(shutdownCtx)
	if pprofServer != nil {
		shutdownErr = pprofServer.Shutdown(shutdownCtx)
		if shutdownErr != nil {
			runLog.Error("pprof server shutdown error", logger.NewField("error", shutdownErr))
		} else {
			runLog.Info("pprof server stopped")
		}
	}

	stopOngoingGracefully()
	if err != nil || shutdownErr != nil {
		runLog.Info("Graceful shutdown timeout, forcing close")
		time.Sleep(shutdownHardPeriod)
	}

	if consumer != nil {
		if err := consumer.Close(); err != nil {
			runLog.With(logger.NewField("error", err)).Error("Failed to close Kafka consumer")
		}
	}

	worker.Wait()

	runLog.Info("Server stopped")
	return nil
}

func initRouter(
	ongoingCtx context.Context,
	log logger.Logger,
	isShuttingDown *atomic.Bool,
	app *application.Application,
	pool healthcheck_head.Pinger,
	cfg *config.Config,
) http.Handler {
	router := mux.NewRouter()

	router.Use(graceful_shutdown.Middleware(isShuttingDown, ongoingCtx))

	router.Use(timeout.Middleware(cfg.Server.RequestTimeout))
	router.Use(metrics.Middleware(log))
	router.Use(rate_limiter.Middleware(log, cfg.Server.RateLimiterQPS, token_bucket.NewTokenBucket(cfg.Server.RateLimiterQPS, float64(cfg.Server.RateLimiterBurst))))
	router.Handle("/metrics", promhttp.Handler())

	router.Handle("/healthcheck", healthcheck_head.New(isShuttingDown, pool)).Methods("HEAD")
	router.Handle("/ping", ping_get.New(log, cfg.Engine.CourierID)).Methods("GET")

	service := app.ServiceDelivery

	router.Handle("/delivery", delivery_get.New(log, service, app.Gate)).Methods("GET")
	router.Handle("/delivery/accept", accept_post.New(log, service)).Methods("POST")
	router.Handle("/delivery/arrive/{target}", arrive_post.New(log, service)).Methods("POST")
	router.Handle("/delivery/verification/{target}", verification_patch.New(log, service)).Methods("PATCH")
	router.Handle("/delivery/token", token_post.New(log, service)).Methods("POST")
	router.Handle("/delivery/pickup", pickup_post.New(log, service)).Methods("POST")
	router.Handle("/delivery/complete", complete_post.New(log, service)).Methods("POST")
	router.Handle("/delivery/cancel", cancel_post.New(log, service)).Methods("POST")
	router.Handle("/delivery/finalize", finalize_post.New(log, service)).Methods("POST")
	router.Handle("/delivery/navigation", navigation_post.New(log, service)).Methods("POST")
	router.Handle("/delivery/navigation", navigation_delete.New(log, service)).Methods("DELETE")
	router.Handle("/delivery/issue", issue_post.New(log, service)).Methods("POST")
	router.Handle("/delivery/sos", sos_put.New(log, service)).Methods("PUT")
	router.Handle("/delivery/transitions", transitions_get.New(log, service)).Methods("GET")

	router.Handle("/discovery", discovery_put.New(log, service)).Methods("PUT")
	router.Handle("/discovery/offers", discovery_offers_get.New(log, service)).Methods("GET")

	router.Handle("/location", location_post.New(log, app.Feed)).Methods("POST")
	router.Handle("/location/history", history_get.New(log, service)).Methods("GET")

	router.Handle("/events", events.New(log, app.Events)).Methods("GET")

	return router
}

func initPprofRouter(isShuttingDown *atomic.Bool) http.Handler {
	router := mux.NewRouter()

	router.Handle("/healthcheck", healthcheck_head.New(isShuttingDown)).Methods("HEAD")
	router.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)

	return router
}
