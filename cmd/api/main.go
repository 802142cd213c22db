package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"braidzworld/internal/api"
	"braidzworld/internal/auth"
	"braidzworld/internal/availability"
	"braidzworld/internal/bookings"
	"braidzworld/internal/clock"
	"braidzworld/internal/config"
	"braidzworld/internal/events"
	"braidzworld/internal/gallery"
	"braidzworld/internal/logging"
	"braidzworld/internal/metrics"
	"braidzworld/internal/news"
	"braidzworld/internal/notify"
	"braidzworld/internal/sheets"
	"braidzworld/internal/storage"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}

	clk := clock.New()
	bus := events.NewEventBus()

	kv, err := initStorage(cfg, &logger)
	if err != nil {
		return err
	}
	defer kv.Close()

	catalog, err := loadCatalog(cfg, &logger)
	if err != nil {
		return err
	}

	svc, err := initServices(cfg, kv, clk, bus, catalog, &logger)
	if err != nil {
		return err
	}

	initTelegram(cfg, bus, &logger)
	initSheets(cfg, bus, &logger)

	httpServer := api.NewHTTPServer(cfg, &logger, svc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startMetrics(ctx, cfg, &logger)

	return startServer(ctx, httpServer, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, logger, closer, nil
}

// initStorage builds the durable KV per the configured backend. The sqlite and
// redis backends carry an in-memory fallback so a storage outage degrades to
// session-local behaviour instead of failing requests.
func initStorage(cfg *config.Config, logger *zerolog.Logger) (storage.KV, error) {
	switch cfg.Storage.Backend {
	case "sqlite":
		primary, err := storage.NewSQLiteKV(cfg.Storage.Path, cfg.Storage.Namespace)
		if err != nil {
			logger.Error().Err(err).Str("path", cfg.Storage.Path).Msg("init sqlite storage")
			return nil, err
		}
		return storage.NewFailoverKV(primary, storage.NewMemoryKV(), logger), nil
	case "redis":
		client := storage.NewRedisClient(cfg.Storage.Redis)
		if err := storage.Ping(context.Background(), client); err != nil {
			logger.Warn().Err(err).Msg("redis connection failed, continuing with failover")
		} else {
			logger.Info().Str("addr", cfg.Storage.Redis.Address).Msg("redis connected")
		}
		primary := storage.NewRedisKV(client, cfg.Storage.Namespace)
		return storage.NewFailoverKV(primary, storage.NewMemoryKV(), logger), nil
	default:
		return storage.NewMemoryKV(), nil
	}
}

func loadCatalog(cfg *config.Config, logger *zerolog.Logger) (bookings.Catalog, error) {
	if cfg.Generator.CatalogPath == "" {
		return bookings.DefaultCatalog(), nil
	}

	data, err := os.ReadFile(cfg.Generator.CatalogPath)
	if err != nil {
		logger.Error().Err(err).Str("catalog_path", cfg.Generator.CatalogPath).Msg("read catalog")
		return bookings.Catalog{}, err
	}

	var catalog bookings.Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		logger.Error().Err(err).Str("catalog_path", cfg.Generator.CatalogPath).Msg("parse catalog")
		return bookings.Catalog{}, err
	}

	return catalog, nil
}

func initServices(
	cfg *config.Config,
	kv storage.KV,
	clk clock.Clock,
	bus *events.EventBus,
	catalog bookings.Catalog,
	logger *zerolog.Logger,
) (api.Services, error) {
	now := clk.Now()
	seed := bookings.Generate(cfg.Generator.Count, cfg.Generator.DaysAhead, now, catalog,
		rand.New(rand.NewSource(now.UnixNano())))
	store := bookings.NewStore(seed)

	updater := bookings.NewSimulatedUpdater(clk, msDuration(cfg.Dashboard.UpdateDelayMS))
	bookingLogger := logging.Component(logger, "bookings")
	bookingSvc := bookings.NewService(store, updater, bus, clk, &bookingLogger, cfg.Dashboard.PageSize)
	bookingSvc.EnableSearch(msDuration(cfg.Dashboard.SearchDebounceMS), msDuration(cfg.Dashboard.SearchLatencyMS))

	availabilityLogger := logging.Component(logger, "availability")
	availabilitySvc, err := availability.NewService(context.Background(), kv, clk, bus, &availabilityLogger, availability.Options{
		DayStart:    cfg.Calendar.DayStart,
		DayEnd:      cfg.Calendar.DayEnd,
		SlotMinutes: cfg.Calendar.SlotMinutes,
		SaveDelay:   msDuration(cfg.Dashboard.SaveDelayMS),
	})
	if err != nil {
		return api.Services{}, fmt.Errorf("init availability: %w", err)
	}

	authLogger := logging.Component(logger, "auth")
	authSvc := auth.NewService(kv, clk, &authLogger,
		cfg.Auth.AdminEmail, cfg.Auth.AdminPassword,
		time.Duration(cfg.Auth.SessionTTLHours)*time.Hour,
		msDuration(cfg.Auth.LoginDelayMS))

	return api.Services{
		Auth:         authSvc,
		Bookings:     bookingSvc,
		Availability: availabilitySvc,
		News:         news.NewService(clk, bus, nil),
		Gallery:      gallery.NewService(clk, msDuration(cfg.Dashboard.UploadDelayMS), gallery.DefaultImages()),
		Clock:        clk,
	}, nil
}

func initTelegram(cfg *config.Config, bus *events.EventBus, logger *zerolog.Logger) {
	if !cfg.Telegram.Enabled {
		return
	}

	notifyLogger := logging.Component(logger, "telegram")
	notifier, err := notify.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID, &notifyLogger)
	if err != nil {
		logger.Warn().Err(err).Msg("telegram init failed, continuing without notifications")
		return
	}
	notifier.Subscribe(bus)
	logger.Info().Msg("telegram notifier connected")
}

func initSheets(cfg *config.Config, bus *events.EventBus, logger *zerolog.Logger) {
	if !cfg.Sheets.Enabled {
		return
	}

	sheetsSvc, err := sheets.New(cfg.Sheets.CredentialsFile, cfg.Sheets.SpreadsheetID)
	if err != nil {
		logger.Warn().Err(err).Msg("google sheets init failed, continuing without sheets")
		return
	}

	if email, err := sheetsSvc.GetServiceAccountEmail(cfg.Sheets.CredentialsFile); err == nil {
		logger.Info().Str("service_account", email).Msg("share the spreadsheet with this account")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := sheetsSvc.TestConnection(ctx); err != nil {
		logger.Warn().Err(err).Msg("google sheets connection test failed, continuing without sheets")
		return
	}

	sheetsSvc.Subscribe(bus)
	logger.Info().Msg("google sheets connected")
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startServer(ctx context.Context, httpServer *api.HTTPServer, logger *zerolog.Logger) error {
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http server shutdown error")
	}

	logger.Info().Msg("server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}

func msDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
