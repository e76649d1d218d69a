package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	apiserver "github.com/townplan/assessment-portal/internal/api_server"
	"github.com/townplan/assessment-portal/internal/catalog"
	"github.com/townplan/assessment-portal/internal/config"
	"github.com/townplan/assessment-portal/internal/events"
	"github.com/townplan/assessment-portal/internal/objectstore"
	"github.com/townplan/assessment-portal/internal/reconciler"
	"github.com/townplan/assessment-portal/internal/store"
	"github.com/townplan/assessment-portal/pkg/log"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the portal api",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			return err
		}

		logLvl, err := zap.ParseAtomicLevel(cfg.Service.LogLevel)
		if err != nil {
			logLvl = zap.NewAtomicLevelAt(zap.InfoLevel)
		}
		logger := log.InitLog(logLvl)
		defer func() { _ = logger.Sync() }()
		undo := zap.ReplaceGlobals(logger)
		defer undo()

		zap.S().Info("Starting API service")
		defer zap.S().Info("API service stopped")

		db, err := store.InitDB(cfg)
		if err != nil {
			zap.S().Fatalf("initializing data store: %v", err)
		}

		st := store.NewStore(db)
		defer st.Close()

		cat := catalog.Default()
		if cfg.Service.CatalogFile != "" {
			cat, err = catalog.Load(cfg.Service.CatalogFile)
			if err != nil {
				zap.S().Fatalf("loading assessment catalog: %v", err)
			}
		}

		objects, err := newObjectStore(cfg)
		if err != nil {
			zap.S().Fatalf("initializing object store: %v", err)
		}

		eventWriter := events.NewEventProducer(&events.StdoutWriter{}, events.WithOutputTopic(cfg.Service.EventsTopic))
		defer func() { _ = eventWriter.Close() }()

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
		defer cancel()

		sweepInterval, err := time.ParseDuration(cfg.Service.ReconcilerInterval)
		if err != nil {
			sweepInterval = 0
		}
		go reconciler.New(st, sweepInterval).Run(ctx)

		go func() {
			defer cancel()
			listener, err := newListener(cfg.Service.Address)
			if err != nil {
				zap.S().Fatalf("creating listener: %s", err)
			}

			server := apiserver.New(cfg, st, objects, cat, eventWriter, listener)
			if err := server.Run(ctx); err != nil {
				zap.S().Fatalf("Error running server: %s", err)
			}
		}()

		go func() {
			defer cancel()
			listener, err := newListener(cfg.Service.MetricsAddress)
			if err != nil {
				zap.S().Fatalf("creating metrics listener: %s", err)
			}

			metricsServer := apiserver.NewMetricServer(cfg.Service.MetricsAddress, listener)
			if err := metricsServer.Run(ctx); err != nil {
				zap.S().Fatalf("Error running metrics server: %s", err)
			}
		}()

		<-ctx.Done()
		return nil
	},
}

func newObjectStore(cfg *config.Config) (objectstore.Store, error) {
	if cfg.Service.ObjectStore.Type != "minio" {
		return objectstore.NewMemoryStore(), nil
	}
	return objectstore.NewMinioStore(
		objectstore.WithEndpoint(cfg.Service.ObjectStore.Endpoint),
		objectstore.WithBucket(cfg.Service.ObjectStore.Bucket),
		objectstore.WithAccessKey(cfg.Service.ObjectStore.AccessKey),
		objectstore.WithSecretKey(cfg.Service.ObjectStore.SecretKey),
		objectstore.WithSSL(cfg.Service.ObjectStore.UseSSL),
	)
}

func newListener(address string) (net.Listener, error) {
	if address == "" {
		address = "localhost:0"
	}
	return net.Listen("tcp", address)
}
