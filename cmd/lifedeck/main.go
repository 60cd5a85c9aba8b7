package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"lifedeck/internal/amqp"
	"lifedeck/internal/app"
	"lifedeck/internal/catalog"
	"lifedeck/internal/cli"
	apphttp "lifedeck/internal/http"
	applog "lifedeck/internal/log"
	"lifedeck/internal/services"
)

func main() {
	cfg, logger := cli.LoadConfig(applog.ComponentApp)

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	result := cli.InitBackend(ctx, logger, cfg)
	defer result.Close()

	// Change notices are optional; without a broker the mirror relies on its
	// periodic resync.
	var notifier services.Notifier
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Warn("AMQP unavailable, change notices disabled", applog.FieldError, err.Error())
		} else {
			defer client.Close()
			notifier = client
		}
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	svc := app.NewServices(result.Store, catalog.Default(), notifier, logger)
	srv := apphttp.NewServer(":"+cfg.Port, svc, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting lifedeck server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", applog.FieldError, err.Error(), "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
