package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"golang.org/x/sync/errgroup"

	"lifedeck/internal/amqp"
	"lifedeck/internal/app"
	"lifedeck/internal/backend"
	"lifedeck/internal/cli"
	applog "lifedeck/internal/log"
	"lifedeck/internal/sheets"
	gsheet "lifedeck/internal/sheets/google"
	mem "lifedeck/internal/sheets/memory"
	"lifedeck/internal/worker"
)

func main() {
	restore := flag.Bool("restore", false, "fill an empty transactions list from the spreadsheet before syncing")
	flag.Parse()

	cfg, logger := cli.LoadConfig(applog.ComponentWorker)
	logger.Info("Starting lifedeck-worker")

	if cfg.DataBackend == string(backend.MemoryBackend) {
		logger.Warn("Memory backend is private to this process; the mirror will not see server writes")
	}

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	result := cli.InitBackend(ctx, logger, cfg)
	defer result.Close()

	var ledger interface {
		sheets.LedgerWriter
		sheets.LedgerReader
	}
	if cfg.MirrorEnabled() {
		client, err := gsheet.New(ctx, gsheet.Config{
			SpreadsheetID:      cfg.GoogleSpreadsheetID,
			SheetName:          cfg.GoogleSheetName,
			ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
			ServiceAccountFile: cfg.GoogleServiceAccountFile,
			OAuthClientFile:    cfg.GoogleOAuthClientFile,
			OAuthTokenFile:     cfg.GoogleOAuthTokenFile,
		}, logger)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", applog.FieldError, err.Error())
			os.Exit(1)
		}
		ledger = client
		logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		ledger = mem.New()
		logger.Info("Google Sheets disabled - mirroring to memory")
	}

	lists := app.NewLists(result.Store, logger)
	mirror := worker.NewMirrorWorker(lists.Transactions, ledger, logger)

	if *restore {
		n, err := mirror.Restore(ctx, ledger)
		if err != nil {
			logger.Error("Ledger restore failed", applog.FieldError, err.Error())
			os.Exit(1)
		}
		logger.Info("Ledger restored", applog.FieldCount, n)
	}

	// Startup sync covers changes made while the worker was down.
	if err := mirror.Sync(ctx); err != nil {
		logger.Error("Startup sync failed", applog.FieldError, err.Error())
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return mirror.RunPeriodic(gctx, cfg.SyncInterval)
	})

	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", applog.FieldError, err.Error())
			os.Exit(1)
		}
		defer client.Close()
		g.Go(func() error {
			return client.ConsumeSlotChanged(gctx, mirror.HandleSlotChanged)
		})
	} else {
		logger.Info("Skipping AMQP message consumption - no AMQP_URL provided")
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", applog.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}
