package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/analytics"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/archive"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/db"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
	httpapi "github.com/andreasstove999/ecommerce-system/storefront-go/internal/http"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/logging"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/sequence"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/shop"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogEnv)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	session := shop.NewSession(analytics.WithLimit(cfg.EventFeedLimit))
	session.Mirror.SetObserver(analytics.NewLogObserver(logger))
	logger.Info("session started", zap.String("session_id", session.ID))

	// --- DB ---
	var (
		seq         events.SequenceSource = events.NewMemorySequence()
		archiveRead httpapi.ArchiveReader
	)
	if cfg.DatabaseDSN != "" {
		pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
		if err != nil {
			logger.Fatal("db connect", zap.Error(err))
		}
		defer pool.Close()

		if cfg.RunMigrations {
			if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
				logger.Fatal("db migrate", zap.Error(err))
			}
		}

		archiver := archive.NewArchiver(archive.NewPostgresRepository(pool), session.ID, logger)
		session.Mirror.Subscribe(archiver)
		archiveRead = archiver
		seq = sequence.NewRepository(pool)
	} else {
		logger.Info("DATABASE_DSN not set, event archive disabled")
	}

	// --- AMQP ---
	if cfg.RabbitMQURL != "" {
		dialCtx, dialCancel := context.WithTimeout(ctx, 30*time.Second)
		conn, err := events.Dial(dialCtx, cfg.RabbitMQURL)
		dialCancel()
		if err != nil {
			logger.Fatal("rabbitmq connect", zap.Error(err))
		}
		defer conn.Close()

		publisher, err := events.NewPublisher(conn, seq, logger, events.PublisherOptions{PartitionKey: session.ID})
		if err != nil {
			logger.Fatal("create publisher", zap.Error(err))
		}
		defer publisher.Close()

		session.Mirror.Subscribe(publisher)
	} else {
		logger.Info("RABBITMQ_URL not set, event publishing disabled")
	}

	// --- HTTP ---
	svc := shop.NewService(catalog.Default(), session,
		shop.WithCurrency(cfg.Currency),
		shop.WithAffiliation(cfg.Affiliation),
	)
	h := httpapi.NewHandler(svc, archiveRead, logger)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(h, logger, cfg.CORSAllowOrigins),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Info("http listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.Error("http server failed", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	cancel()

	logger.Info("shutdown complete", zap.Int("events_recorded", session.Mirror.Len()))
}
