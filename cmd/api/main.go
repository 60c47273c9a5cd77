package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "github.com/ghuser/marketledger/docs/swagger"
	"github.com/ghuser/marketledger/pkg/app"
	"github.com/ghuser/marketledger/pkg/auth"
	"github.com/ghuser/marketledger/pkg/cache"
	"github.com/ghuser/marketledger/pkg/config"
	"github.com/ghuser/marketledger/pkg/database"
	"github.com/ghuser/marketledger/pkg/events"
	"github.com/ghuser/marketledger/pkg/feed"
	"github.com/ghuser/marketledger/pkg/httpx"
	"github.com/ghuser/marketledger/pkg/logger"
	"github.com/ghuser/marketledger/pkg/telemetry"
	marketplaceApi "github.com/ghuser/marketledger/services/marketplace/application/api"
	domainevents "github.com/ghuser/marketledger/services/marketplace/domain/events"
	"github.com/ghuser/marketledger/services/marketplace/infrastructure/persistence/postgres"
)

// @title					MarketLedger API
// @version				1.0
// @description			Append-only marketplace ledger with single-purchase products and atomic settlement.
// @contact.name			API Support
// @license.name			MIT
// @license.url			https://opensource.org/licenses/MIT
// @host					localhost:8080
// @BasePath				/api/v1
// @schemes				http https
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	// Telemetry: OTel tracing + metrics
	ctx := context.Background()
	otelShutdown, metricsHandler, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(ctx) //nolint:errcheck

	// Crash reporting: Sentry (optional — log and continue on failure)
	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic // intentional: startup failure, deferred flushes are best-effort
	}
	defer pool.Close() //nolint:errcheck
	log.Info("database pool connected")

	eventBus, err := events.NewEventBusWithForwarder(cfg, log)
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck

	if err := eventBus.StartForwarder(ctx); err != nil {
		log.Error("failed to start event forwarder", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1) //nolint:gocritic // intentional: startup failure
	}
	defer redisClient.Close() //nolint:errcheck
	log.Info("redis connected")

	//temporalClient, err := workflows.NewTemporalClient(ctx, cfg.TemporalHostPort, cfg.TemporalNamespace, log)
	//if err != nil {
	//	log.Error("failed to initialize temporal client", "error", err)
	//	os.Exit(1) //nolint:gocritic // intentional: startup failure
	//}
	//defer temporalClient.Close()

	// The ledger name is fixed on first startup; later LEDGER_NAME changes
	// are ignored for an already-initialized database.
	ledgerRepo := postgres.NewLedgerRepository(pool, eventBus)
	if err := ledgerRepo.EnsureLedger(ctx, cfg.LedgerName); err != nil {
		log.Error("failed to initialize ledger", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	log.Info("ledger ready", "name", cfg.LedgerName)

	sessionStore := auth.NewSessionStore(
		redisClient.Client(),
		[]byte(cfg.SessionAuthKey),
		[]byte(cfg.SessionEncryptionKey),
		cfg.Environment == config.EnvProduction,
	)
	log.Info("session store initialized", "backend", "redis")

	appConfig := &app.Application{
		Db:       pool,
		Logger:   log,
		EventBus: eventBus,
		Redis:    redisClient,
		//TemporalClient: temporalClient,
		SessionStore: sessionStore,
	}

	feedCtx, cancelFeed := context.WithCancel(ctx)
	defer cancelFeed()
	hub := feed.NewHub(log)
	go hub.Run(feedCtx)
	if err := startFeedRelay(feedCtx, cfg, log, hub); err != nil {
		log.Error("failed to start live feed", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	r := httpx.NewRouter(
		httpx.ServerConfig{
			ServiceName:        cfg.ServiceName,
			IsDevelopment:      cfg.Environment == config.EnvDevelopment,
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		},
		logger.Middleware(log),
		logger.Recovery(log),
		telemetry.SentryMiddleware(),
		otelhttp.NewMiddleware(cfg.ServiceName),
	)

	r.Get("/health", httpx.HealthHandler(httpx.HealthChecks{
		Database: pool,
		Redis:    redisClient,
		EventBus: eventBus,
	}))
	r.Get("/metrics", metricsHandler.ServeHTTP)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	r.Get("/feed", hub.ServeHTTP)
	r.Route("/api/v1", func(r chi.Router) {
		registerRoutes(r, appConfig)
	})

	srv := httpx.NewServer(cfg.HTTPAddr, r)

	go func() {
		log.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

// registerRoutes mounts all service routes under /api/v1.
// Add each new service's route function here.
func registerRoutes(r chi.Router, a *app.Application) {
	marketplaceApi.MarketplaceRoutes(r, a)
}

// startFeedRelay subscribes to the ledger topics and forwards committed events
// to WebSocket clients. A dedicated EventBus with its own consumer group is
// used so the feed receives every event instead of splitting delivery with the
// worker's cache-warming subscription.
func startFeedRelay(ctx context.Context, cfg *config.Config, log logger.Logger, hub *feed.Hub) error {
	feedCfg := *cfg
	feedCfg.ServiceName = cfg.ServiceName + "-feed"
	bus, err := events.NewEventBus(&feedCfg, log)
	if err != nil {
		return err
	}

	relay := func(ctx context.Context, msg *message.Message) error {
		hub.Broadcast(msg.Payload)
		return nil
	}

	topics := []string{domainevents.TopicProductCreated, domainevents.TopicProductPurchased}
	for _, topic := range topics {
		errCh, err := bus.Subscribe(ctx, topic, relay)
		if err != nil {
			return err
		}
		go func(topic string) {
			for err := range errCh {
				log.ErrorContext(ctx, "feed subscriber error", "topic", topic, "error", err)
			}
		}(topic)
	}

	go func() {
		<-ctx.Done()
		_ = bus.Close()
	}()

	log.Info("live feed relay started", "topics", topics)
	return nil
}
