package app

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Eltn555/admin/internal/config"
)

const shutdownTimeout = 10 * time.Second

// Run builds the container, restores any persisted session and serves
// until SIGINT or SIGTERM
func Run(cfg *config.Config) error {
	c, err := NewContainer(cfg, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	undo := zap.ReplaceGlobals(c.Logger)
	defer undo()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if c.Store.CheckAuth(ctx) {
		c.Logger.Info("restored persisted session", zap.String("phone", c.Store.Snapshot().User.Phone))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           c.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", zap.String("addr", srv.Addr), zap.String("backend", c.APIClient.BaseURL()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
