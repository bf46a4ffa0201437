package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/openctemio/inspectcode/internal/app/convert"
	"github.com/openctemio/inspectcode/internal/config"
	"github.com/openctemio/inspectcode/internal/infra/http/handler"
	"github.com/openctemio/inspectcode/internal/infra/http/routes"
	"github.com/openctemio/inspectcode/pkg/logger"
	"github.com/openctemio/inspectcode/pkg/validator"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the report conversion HTTP API",
	Long: `Serve starts an HTTP server that accepts InspectCode reports on
POST /api/v1/reports and responds with normalized issues.

Configuration is read from INSPECTCODE_* environment variables.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	svc := convert.NewService(cfg.Converter.ParserOptions(), log)

	router := routes.New(cfg, log, routes.Handlers{
		Health: handler.NewHealthHandler(version),
		Report: handler.NewReportHandler(svc, validator.New(), log),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}
