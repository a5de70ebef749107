package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	"estimmo/internal/config"
	"estimmo/internal/correction"
	"estimmo/internal/model"
	"estimmo/internal/services"
	transport "estimmo/internal/transport/http"
	"estimmo/pkg/contracts"
)

// Application is the assembled web server and its dependencies.
type Application struct {
	Config   *config.Config
	Router   chi.Router
	Server   *http.Server
	Bundle   *model.Bundle
	Estimate *services.EstimateService
	Health   *services.HealthService
	Logger   *slog.Logger
}

// NewApplication builds the application from a loaded configuration. It
// fails fast when no trained bundle exists, so a misconfigured deploy
// never serves estimates.
func NewApplication(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	bundle, err := model.LoadBundle(cfg.Paths.BundleFile())
	if err != nil {
		return nil, fmt.Errorf("loading bundle from %s (run the trainer first): %w", cfg.Paths.BundleFile(), err)
	}
	logger.Info("Model bundle loaded",
		slog.String("path", cfg.Paths.BundleFile()),
		slog.Float64("test_r2", bundle.Meta.TestR2),
		slog.Time("trained_at", bundle.Meta.TrainedAt))

	correctionCfg := correction.DefaultConfig()
	refs, err := correction.LoadReferenceTable(correctionCfg.NationalPriceM2)
	if err != nil {
		return nil, fmt.Errorf("loading reference table: %w", err)
	}
	corrector, err := correction.NewCorrector(correctionCfg, refs, logger)
	if err != nil {
		return nil, err
	}

	estimateService, err := services.NewEstimateService(bundle, corrector, logger)
	if err != nil {
		return nil, err
	}
	healthService := services.NewHealthService(contracts.Version, bundle.Meta, logger)

	router := transport.NewRouter(cfg.Server, estimateService, healthService, logger)

	server := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	return &Application{
		Config:   cfg,
		Router:   router,
		Server:   server,
		Bundle:   bundle,
		Estimate: estimateService,
		Health:   healthService,
		Logger:   logger,
	}, nil
}

// Run serves HTTP until SIGINT or SIGTERM, then shuts down gracefully
// within the configured timeout.
func (a *Application) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("HTTP server listening",
			slog.Int("port", a.Config.Server.Port),
			slog.String("version", contracts.Version))
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		a.Logger.Info("Shutting down", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()
	if err := a.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	a.Logger.Info("Server stopped")
	return nil
}
