// Package server exposes the navigation views over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"navd/internal/service"
)

// RequestTimeout bounds the handling time of a single request.
const RequestTimeout = 30 * time.Second

// UserHeader carries the id of the user whose momentum is read or updated.
const UserHeader = "X-User-ID"

// Application holds the dependencies of the HTTP handlers.
type Application struct {
	navigator *service.Navigator
	logger    *slog.Logger
}

// New creates an Application serving views from navigator.
func New(navigator *service.Navigator, logger *slog.Logger) *Application {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Application{
		navigator: navigator,
		logger:    logger,
	}
}

// ListenAndServe serves the API on addr until ctx is cancelled, then shuts
// down gracefully within shutdownTimeout.
func (app *Application) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info("Starting server", "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	app.logger.Info("Shutting down server", "timeout", shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
