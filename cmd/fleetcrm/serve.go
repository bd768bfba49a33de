package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/ukydev/fleet-crm/internal/db"
	"github.com/ukydev/fleet-crm/internal/lifecycle"
	"github.com/ukydev/fleet-crm/internal/middleware"
	"golang.org/x/sync/errgroup"
)

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := db.EnsureIndexes(ctx, a.database); err != nil {
		return err
	}

	limiter := middleware.NewRateLimitMiddleware()
	srv := &http.Server{
		Addr:              a.cfg.Addr(),
		Handler:           a.handler(limiter),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.WithField("addr", srv.Addr).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.log.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GetShutdownTimeout())
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if interval := a.cfg.GetSweepInterval(); interval > 0 {
		sweeper := lifecycle.NewSweeper(a.store.MonthlyChecks, a.pipeline, a.publisher, a.log)
		g.Go(func() error { return sweeper.Run(gctx, interval) })
	}
	if a.cfg.Server.RateLimitPerMinute > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					limiter.Prune(time.Minute)
				}
			}
		})
	}

	return g.Wait()
}

func runSweep(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context(), configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := lifecycle.NewSweeper(a.store.MonthlyChecks, a.pipeline, a.publisher, a.log).Sweep(cmd.Context())
	if err != nil {
		return err
	}
	a.log.WithField("overdue", n).Info("Sweep finished")
	return nil
}

func runEnsureIndexes(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context(), configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := db.EnsureIndexes(cmd.Context(), a.database); err != nil {
		return err
	}
	a.log.Info("Indexes ensured")
	return nil
}
