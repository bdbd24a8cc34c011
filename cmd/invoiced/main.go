package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/reflection"

	"github.com/joseph-ayodele/invoices-tracker/internal/common"
	"github.com/joseph-ayodele/invoices-tracker/internal/core"
	"github.com/joseph-ayodele/invoices-tracker/internal/core/async"
	"github.com/joseph-ayodele/invoices-tracker/internal/export"
	"github.com/joseph-ayodele/invoices-tracker/internal/ingest"
	"github.com/joseph-ayodele/invoices-tracker/internal/invoices"
	"github.com/joseph-ayodele/invoices-tracker/internal/repository"
	"github.com/joseph-ayodele/invoices-tracker/internal/server"
	"github.com/joseph-ayodele/invoices-tracker/internal/validation"
	"github.com/joseph-ayodele/invoices-tracker/internal/web"
)

func main() {
	cfg := common.LoadConfig()
	logger := common.NewLogger(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("invoiced exited with error", "error", err)
		os.Exit(1)
	}
	logger.Info("stopped")
}

func run(ctx context.Context, cfg *common.Config, logger *slog.Logger) error {
	db, err := repository.Open(ctx, repository.ConfigFrom(cfg.Database), logger)
	if err != nil {
		return err
	}
	defer db.Close(logger)

	if err := db.HealthCheck(ctx, cfg.Database.DialTimeout, logger); err != nil {
		return err
	}
	if err := repository.Migrate(ctx, db, logger); err != nil {
		return err
	}

	vendors, err := validation.LoadVendorList(cfg.Validation.VendorMasterPath, logger)
	if err != nil {
		return err
	}

	repo := repository.NewInvoiceRepository(db, logger)
	processor := core.NewProcessor(logger, nil, nil, validation.NewValidator(vendors, logger), repo)
	svc := invoices.NewService(processor, repo, export.NewService(repo, logger), logger)

	// ingestor is assigned before anything is enqueued
	var ingestor *ingest.FSIngestor
	queue := async.NewProcessorQueue(processor, logger,
		async.WithWorkers(cfg.Intake.Workers),
		async.WithQueueSize(cfg.Intake.QueueSize),
		async.WithProcessTimeout(cfg.Intake.Timeout),
		async.WithResultHandler(func(r async.Result) { ingestor.HandleResult(r) }),
	)
	ingestor = ingest.NewFSIngestor(queue, logger)

	grpcServer, hs := server.NewGRPCServer(logger,
		server.NewInvoiceServer(svc, logger),
		server.NewIngestionServer(ingestor, logger),
	)
	reflection.Register(grpcServer)

	httpServer := web.NewServer(svc, func(ctx context.Context) error {
		return db.HealthCheck(ctx, cfg.Database.DialTimeout, logger)
	}, logger)

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Intake.WatchDir != "" {
		paths, errs, err := ingest.StartWatcher(gctx, ingest.WatchConfig{
			Roots:       []string{cfg.Intake.WatchDir},
			InitialScan: true,
			Debounce:    cfg.Intake.Debounce,
			SkipHidden:  true,
			Logger:      logger,
		})
		if err != nil {
			return err
		}
		g.Go(func() error {
			ingestor.Consume(gctx, paths, errs)
			return nil
		})
	}

	if cfg.Server.GRPCAddr != "" {
		lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
		if err != nil {
			return err
		}
		g.Go(func() error {
			logger.Info("grpc listening", "addr", cfg.Server.GRPCAddr)
			return grpcServer.Serve(lis)
		})
	}

	if cfg.Server.HTTPAddr != "" {
		g.Go(func() error {
			return httpServer.Start(cfg.Server.HTTPAddr)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down...")
		hs.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http shutdown", "error", err)
		}
		grpcServer.GracefulStop()
		queue.Shutdown(shutdownCtx)
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
