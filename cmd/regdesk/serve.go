package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"regdesk/internal/app"
	"regdesk/internal/platform/config"
	"regdesk/internal/platform/httpserver"
	"regdesk/internal/platform/logger"
)

const shutdownTimeout = 15 * time.Second

func serveCmd(flags *globalFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := flags.load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			log := logger.New(cfg.Log.Level, cfg.Log.Format)
			return serve(cmd.Context(), cfg, log)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address override (default $REGDESK_ADDR or :8080)")
	return cmd
}

// serve runs the servers and the event worker until SIGINT or SIGTERM.
// Queued events are delivered before storage is closed.
func serve(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}

	servers := []*http.Server{httpserver.New(cfg.Addr, a.Router())}
	if cfg.MetricsAddr != "" {
		servers = append(servers, httpserver.New(cfg.MetricsAddr, a.MetricsHandler()))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.RunWorker(gctx)
	})
	for _, srv := range servers {
		g.Go(func() error {
			log.Info("listening", "addr", srv.Addr, "storage", cfg.Storage.Driver, "events", cfg.Events.Sink)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("listen on %s: %w", srv.Addr, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		return shutdown(a, servers, log)
	})

	a.Ready.SetReady(true)
	log.Info("regdesk started", "version", Version, "schemes", len(a.Engines()))

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("regdesk stopped")
	return nil
}

func shutdown(a *app.App, servers []*http.Server, log *slog.Logger) error {
	log.Info("shutting down")
	a.Ready.SetReady(false)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	for _, srv := range servers {
		if err := srv.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown %s: %w", srv.Addr, err))
		}
	}
	if err := a.Close(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
