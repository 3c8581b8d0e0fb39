package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	httpAdapter "github.com/aretw0/abacus/pkg/adapters/http"
)

// shutdownTimeout gives outstanding requests a deadline for completion.
const shutdownTimeout = 5 * time.Second

// ServeOptions contains the configuration for the Serve command.
type ServeOptions struct {
	Options
	// Port overrides http.port when positive.
	Port int
}

// HTTPHandler builds the HTTP API with session change streaming and metrics.
func (a *App) HTTPHandler() http.Handler {
	streams := httpAdapter.NewStreamManager(a.Logger)
	manager := a.NewManager(streams.Publish)
	return httpAdapter.NewHandler(manager,
		httpAdapter.WithStreams(streams),
		httpAdapter.WithLogger(a.Logger),
		httpAdapter.WithAngleMode(a.Config.Mode()),
		httpAdapter.WithMaxLineSize(a.Config.MaxLineSize),
		httpAdapter.WithMetrics(a.Registry),
	)
}

// Serve runs the HTTP API until ctx is cancelled.
func Serve(ctx context.Context, opts ServeOptions) error {
	app, err := NewApp(opts.Options, false)
	if err != nil {
		return err
	}
	port := app.Config.HTTP.Port
	if opts.Port > 0 {
		port = opts.Port
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           app.HTTPHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		app.Logger.Info("Starting Abacus Server", "address", srv.Addr, "angle_mode", app.Config.Mode())
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		app.Logger.Info("Start shutdown")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.Logger.Warn("Graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		app.Logger.Info("Abacus Server stopped gracefully")
		return nil
	}
}
