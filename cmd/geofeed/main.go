package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rawen554/geofeed/internal/airtable"
	"github.com/rawen554/geofeed/internal/app"
	"github.com/rawen554/geofeed/internal/cache"
	"github.com/rawen554/geofeed/internal/config"
	"github.com/rawen554/geofeed/internal/logger"
	"github.com/rawen554/geofeed/internal/logic"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		zap.L().Sugar().Fatal(err)
	}
}

func run() error {
	// a missing .env is fine, real env vars still apply
	_ = godotenv.Load()

	cfg, err := config.ParseFlags()
	if err != nil {
		return fmt.Errorf("error parsing config: %w", err)
	}

	log, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("error initializing logger: %w", err)
	}
	defer func() {
		_ = log.Sync()
	}()

	source := airtable.NewClient(cfg, log.Named("airtable"))
	urlCache := cache.NewURLCache(cfg.CacheTTL)
	coreLogic := logic.NewCoreLogic(cfg, source, urlCache, log.Named("logic"))
	application := app.NewApp(cfg, coreLogic, log.Named("app"))

	r, err := application.SetupRouter()
	if err != nil {
		return fmt.Errorf("error setting up router: %w", err)
	}

	srv := &http.Server{
		Addr:    cfg.RunAddr,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		if cfg.EnableHTTPS {
			if err := application.CreateCertificates(); err != nil {
				serveErr <- fmt.Errorf("error creating certificates: %w", err)
				return
			}
			serveErr <- srv.ListenAndServeTLS(cfg.TLSCertPath, cfg.TLSKeyPath)
			return
		}
		serveErr <- srv.ListenAndServe()
	}()

	log.Infow("server started", "addr", cfg.RunAddr, "https", cfg.EnableHTTPS)

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down server: %w", err)
		}
	}

	return nil
}
