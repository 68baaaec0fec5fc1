package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/receipt-studio/internal/application/service"
	"github.com/sangkips/receipt-studio/internal/config"
	"github.com/sangkips/receipt-studio/internal/domain/repository"
	"github.com/sangkips/receipt-studio/internal/infrastructure/database"
	infra "github.com/sangkips/receipt-studio/internal/infrastructure/repository"
	"github.com/sangkips/receipt-studio/internal/presentation/http/handler"
	"github.com/sangkips/receipt-studio/internal/presentation/http/middleware"
	"github.com/sangkips/receipt-studio/internal/presentation/http/routes"
	"github.com/sangkips/receipt-studio/pkg/logger"
	"github.com/sangkips/receipt-studio/pkg/printer"
	"github.com/sangkips/receipt-studio/pkg/render"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log := logger.InitLogger(cfg.App.Env)
	defer logger.Sync()

	if cfg.App.Env == logger.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalw("invalid configuration", "error", err)
	}

	catalog, err := config.LoadCatalog(cfg.App.CatalogPath)
	if err != nil {
		log.Fatalw("failed to load template catalog", "path", cfg.App.CatalogPath, "error", err)
	}

	kv, err := newKVRepository(cfg, log)
	if err != nil {
		log.Fatalw("failed to initialize storage", "driver", cfg.Storage.Driver, "error", err)
	}

	history, err := service.NewHistoryStore(kv, cfg.History, log)
	if err != nil {
		log.Fatalw("failed to initialize history", "error", err)
	}

	raster, err := render.NewRaster(cfg.Export.Background)
	if err != nil {
		log.Fatalw("failed to initialize renderer", "error", err)
	}

	exportService, err := service.NewExportService(history, raster, cfg.Export, log)
	if err != nil {
		log.Fatalw("failed to initialize export", "error", err)
	}

	sessions := service.NewSessionManager(cfg.Session, catalog, log)
	sessions.Start()
	defer sessions.Stop()

	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		log.Warnw("failed to initialize printer, printing disabled", "error", err)
		thermalPrinter = printer.NewNullPrinter()
	}
	defer thermalPrinter.Close()
	printerService := service.NewPrinterService(thermalPrinter, catalog, cfg.Printer.CharWidth, log)

	rateLimiter := middleware.NewClientRateLimiter(
		middleware.RateLimiterConfigFromWindow(cfg.RateLimit.Requests, cfg.RateLimit.Duration),
	)
	defer rateLimiter.Stop()

	handlers := &routes.Handlers{
		Draft:   handler.NewDraftHandler(exportService, log),
		History: handler.NewHistoryHandler(history),
		Printer: handler.NewPrinterHandler(printerService),
	}

	router := routes.Setup(handlers, &routes.Deps{
		Cfg:         cfg,
		Log:         log,
		Sessions:    sessions,
		RateLimiter: rateLimiter,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Infow("starting server", "service", cfg.App.Name, "port", port, "env", cfg.App.Env, "storage", cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorw("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("graceful shutdown failed", "error", err)
	}
}

func newKVRepository(cfg *config.Config, log *zap.SugaredLogger) (repository.KVRepository, error) {
	if cfg.Storage.Driver != config.StorageDriverPostgres {
		log.Infow("using in-memory storage, history will not survive restarts", "quota_bytes", cfg.Storage.QuotaBytes)
		return infra.NewMemoryKVRepository(cfg.Storage.QuotaBytes), nil
	}

	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug, log)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(db, log); err != nil {
		return nil, err
	}
	return infra.NewKVRepository(db, cfg.Storage.QuotaBytes), nil
}
