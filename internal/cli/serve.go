package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jatrack/internal/database"
	"jatrack/internal/logging"
	"jatrack/internal/server"
)

func newServeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the bundled applications API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, app)
		},
	}

	cmd.Flags().String("listen", "", "Listen address (overrides config)")
	_ = app.v.BindPFlag("http.address", cmd.Flags().Lookup("listen"))
	cmd.Flags().String("db", "", "SQLite database path (overrides config)")
	_ = app.v.BindPFlag("database.path", cmd.Flags().Lookup("db"))
	return cmd
}

func runServe(cmd *cobra.Command, app *App) error {
	cfg := app.cfg

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.OpenSQLite(cfg.DatabasePath, logger, server.Models()...)
	if err != nil {
		return err
	}

	handler, err := server.NewHTTPHandler(server.Dependencies{
		DB:     db,
		Tokens: server.NewTokenIssuer([]byte(cfg.SigningSecret), time.Duration(cfg.TokenTTLMin)*time.Minute),
		Logger: logger,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddress,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("address", cfg.HTTPAddress))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
