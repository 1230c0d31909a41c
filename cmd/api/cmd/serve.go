package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sangkips/pos-print-server/internal/presentation/http/handler"
	"github.com/sangkips/pos-print-server/internal/presentation/http/routes"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP print server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if a.cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router, stop := routes.Setup(&routes.Handlers{
		Printer: handler.NewPrinterHandler(a.service),
		Health:  handler.NewHealthHandler(a.cfg.App.Name),
	}, &routes.Deps{
		Cfg:      a.cfg,
		Logger:   a.logger,
		Gatherer: a.registry,
	})
	defer stop()

	srv := &http.Server{
		Addr:              ":" + a.cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("print server listening",
			zap.String("service", a.cfg.App.Name),
			zap.String("env", a.cfg.App.Env),
			zap.String("addr", srv.Addr),
			zap.String("printer_driver", a.cfg.Printer.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			a.logger.Error("server stopped", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("graceful shutdown failed", zap.Error(err))
		return err
	}
	return nil
}
