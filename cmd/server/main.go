package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"touristhub/internal/api"
	"touristhub/internal/config"
	"touristhub/internal/domain"
	"touristhub/internal/events"
	"touristhub/internal/gateway"
	"touristhub/internal/google"
	"touristhub/internal/logging"
	"touristhub/internal/metrics"
	"touristhub/internal/models"
	"touristhub/internal/service"
	"touristhub/internal/shim"
	"touristhub/internal/store"
	"touristhub/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	yamlv2 "gopkg.in/yaml.v2"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, catalog, logger, closer, loadErr := loadConfigAndLogger()
	if loadErr != nil {
		return loadErr
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}

	if err := os.MkdirAll(cfg.Exports.Path, 0o755); err != nil {
		logger.Error().Err(err).Msg("failed to create exports directory")
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics.Register()

	redisClient, stateShim, shimCloser, err := buildShim(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if shimCloser != nil {
		defer (func(c io.Closer) { _ = c.Close() })(shimCloser)
	}

	dataGateway, authGateway := buildGateway(ctx, cfg, redisClient, logger)

	storeLogger := logging.Component(logger, "store")
	st := store.New(
		store.InitialSnapshot(catalog.Tours, catalog.Destinations, cfg.SiteSettings()),
		stateShim,
		&storeLogger,
	)
	st.Hydrate(ctx, dataGateway)

	eventBus := events.NewEventBus()
	subscribeBookingEvents(eventBus, logger)

	sheetsSink := initGoogleSheets(ctx, cfg, logger)

	var syncWorker domain.SyncWorker
	if sheetsSink != nil {
		workerLogger := logging.Component(logger, "sync-worker")
		w := worker.NewReportSyncWorker(st, sheetsSink, worker.RetryPolicy{}, &workerLogger)
		go w.Start(ctx)
		syncWorker = w
	}

	authLogger := logging.Component(logger, "auth")
	bookingLogger := logging.Component(logger, "bookings")
	catalogLogger := logging.Component(logger, "catalog")
	userLogger := logging.Component(logger, "users")

	authService := service.NewAuthService(authGateway, st, eventBus, &authLogger)
	bookingService := service.NewBookingService(dataGateway, st, eventBus, syncWorker, &bookingLogger)
	catalogService := service.NewCatalogService(dataGateway, st, &catalogLogger)
	userService := service.NewUserService(dataGateway, st, &userLogger)

	go authService.WatchSessions(ctx)

	if cfg.Monitoring.PrometheusEnabled {
		go servePrometheus(cfg.Monitoring.PrometheusPort, logger)
	}

	apiLogger := logging.Component(logger, "api")
	server := api.NewHTTPServer(cfg, st, authService, bookingService, catalogService, userService, &apiLogger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown error")
	}

	logger.Info().Msg("Shutdown complete.")
	return nil
}

func loadConfigAndLogger() (*config.Config, *models.Catalog, *zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	logger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	catalogPath := os.Getenv("CATALOG_PATH")
	if catalogPath == "" {
		catalogPath = "configs/catalog.yaml"
	}

	catalog, err := loadCatalog(catalogPath, logger)
	if err != nil {
		return nil, nil, nil, closer, err
	}

	return cfg, catalog, logger, closer, nil
}

// loadCatalog reads the bundled tours and destinations. A missing file
// falls back to the built-in defaults so a bare checkout still starts.
func loadCatalog(path string, logger *zerolog.Logger) (*models.Catalog, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logger.Warn().Str("path", path).Msg("catalog file missing, using built-in defaults")
		return &models.Catalog{
			Tours:        models.DefaultTours(),
			Destinations: models.DefaultDestinations(),
		}, nil
	}
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("failed to read catalog")
		return nil, err
	}

	var catalog models.Catalog
	if err := yamlv2.Unmarshal(data, &catalog); err != nil {
		logger.Error().Err(err).Msg("failed to parse catalog")
		return nil, err
	}

	if err := config.ValidateCatalog(&catalog); err != nil {
		logger.Error().Err(err).Msg("catalog validation failed")
		return nil, err
	}

	return &catalog, nil
}

// buildShim selects the local cache backend. Failover runs
// redis-primary with sqlite fallback.
func buildShim(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*redis.Client, domain.Shim, io.Closer, error) {
	var redisClient *redis.Client
	if cfg.Shim.Redis.Address != "" {
		redisClient = shim.NewRedisClient(cfg.Shim.Redis)
		if err := shim.Ping(ctx, redisClient); err != nil {
			logger.Warn().Err(err).Msg("Redis unavailable")
		}
	}

	switch cfg.Shim.Backend {
	case "memory":
		return redisClient, shim.NewMemoryShim(), nil, nil

	case "redis":
		return redisClient, shim.NewRedisShim(redisClient), nil, nil

	case "sqlite":
		s, err := shim.NewSQLiteShim(cfg.Shim.SQLite.Path)
		if err != nil {
			logger.Error().Err(err).Msg("failed to open sqlite cache")
			return redisClient, nil, nil, err
		}
		return redisClient, s, s, nil

	case "failover":
		fallback, err := shim.NewSQLiteShim(cfg.Shim.SQLite.Path)
		if err != nil {
			logger.Error().Err(err).Msg("failed to open sqlite fallback cache")
			return redisClient, nil, nil, err
		}
		shimLogger := logging.Component(logger, "shim")
		return redisClient, shim.NewFailoverShim(shim.NewRedisShim(redisClient), fallback, &shimLogger), fallback, nil

	default:
		return redisClient, nil, nil, fmt.Errorf("unknown shim backend: %q", cfg.Shim.Backend)
	}
}

// buildGateway selects the remote document store client. Local mode
// runs the in-process gateway, used for development and tests.
func buildGateway(ctx context.Context, cfg *config.Config, redisClient *redis.Client, logger *zerolog.Logger) (domain.Gateway, domain.AuthGateway) {
	if cfg.Gateway.Mode == "local" {
		local := gateway.NewMemoryGateway()
		return local, local
	}

	gwLogger := logging.Component(logger, "gateway")
	remote := gateway.NewHTTPGateway(
		cfg.Gateway.BaseURL,
		cfg.Gateway.APIKey,
		time.Duration(cfg.Gateway.SessionPollSeconds)*time.Second,
		&gwLogger,
	)
	if redisClient != nil && cfg.Gateway.CacheTTLSeconds > 0 {
		remote.UseRedisCache(redisClient, time.Duration(cfg.Gateway.CacheTTLSeconds)*time.Second)
	}
	go remote.StartSessionWatch(ctx)
	return remote, remote
}

func initGoogleSheets(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) *google.SheetsService {
	if cfg.Google.CredentialsFile == "" || cfg.Google.ReportsSpreadSheetID == "" {
		logger.Info().Msg("Google Sheets sink not configured, report sync disabled")
		return nil
	}

	sheetsSvc, err := google.NewSheetsService(ctx, cfg.Google.CredentialsFile, cfg.Google.ReportsSpreadSheetID)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize Google Sheets service")
		return nil
	}

	if err := sheetsSvc.TestConnection(ctx); err != nil {
		logger.Error().Err(err).Msg("Google Sheets connection test failed")
		return nil
	}

	logger.Info().Msg("Google Sheets service initialized successfully")
	return sheetsSvc
}

// subscribeBookingEvents writes an audit line for every booking
// lifecycle event.
func subscribeBookingEvents(bus *events.EventBus, logger *zerolog.Logger) {
	auditLogger := logging.Component(logger, "audit")

	handler := func(ev *events.Event) error {
		var payload events.BookingEventPayload
		if err := json.Unmarshal(ev.Payload, &payload); err != nil {
			auditLogger.Error().Err(err).Str("event", ev.Type).Msg("decode event payload")
			return nil
		}
		auditLogger.Info().
			Str("event", ev.Type).
			Str("booking_id", payload.BookingID).
			Str("tour", payload.TourName).
			Str("status", payload.Status).
			Str("changed_by", payload.ChangedBy).
			Float64("total_price", payload.TotalPrice).
			Msg("booking event")
		return nil
	}

	bus.Subscribe(events.EventBookingCreated, handler)
	bus.Subscribe(events.EventBookingConfirmed, handler)
	bus.Subscribe(events.EventBookingCompleted, handler)
	bus.Subscribe(events.EventBookingDeleted, handler)
	bus.Subscribe(events.EventUserRegistered, func(ev *events.Event) error {
		auditLogger.Info().Str("event", ev.Type).RawJSON("payload", ev.Payload).Msg("user event")
		return nil
	})
}

func servePrometheus(port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%d", port)
	logger.Info().Str("addr", addr).Msg("Prometheus metrics listening")
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
