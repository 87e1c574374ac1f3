package main

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hamed0406/fleetmon/internal/httpapi"
	apimw "github.com/hamed0406/fleetmon/internal/httpapi/middleware"
	"github.com/hamed0406/fleetmon/internal/repo/memory"
	"github.com/hamed0406/fleetmon/internal/scheduler"
)

func newServeCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run passes on SCHEDULE and serve the status API",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			a, err := setup(*envFile)
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()

			store := memory.New()
			sched, err := scheduler.New(a.logger, a.monitor, a.cfg.Schedule, store)
			if err != nil {
				return err
			}

			api := httpapi.NewServer(a.logger, a.monitor.Hosts(), a.monitor, store)
			srv := &http.Server{
				Addr: a.cfg.Addr,
				Handler: api.Router(
					apimw.Keys{Public: a.cfg.PublicKeys, Admin: a.cfg.AdminKeys},
					a.cfg.AllowedOrigins,
					a.cfg.PublicRPM, a.cfg.PublicBurst,
					a.cfg.AdminRPM, a.cfg.AdminBurst,
				),
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signalContext()
			defer stop()

			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				sched.Run(ctx)
			}()

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("api_listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			var serveErr error
			select {
			case <-ctx.Done():
			case serveErr = <-errCh:
				stop()
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.logger.Warn("api_shutdown", zap.Error(err))
			}
			wg.Wait()
			a.logger.Info("shutdown_complete")
			return serveErr
		},
	}
}
