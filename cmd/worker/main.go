package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/preetatdate/docpipeline/internal/bootstrap"
	"github.com/preetatdate/docpipeline/internal/config"
	"github.com/preetatdate/docpipeline/internal/observability/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.NewLogger("error").Error("load config", "error", err)
		os.Exit(1)
	}
	logger := logging.NewLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	worker, err := bootstrap.NewWorker(ctx, cfg, logger)
	if err != nil {
		logger.Error("bootstrap worker", "error", err)
		os.Exit(1)
	}
	defer worker.Close()

	metricsServer := &http.Server{
		Addr:              ":" + cfg.WorkerMetricsPort,
		Handler:           worker.Metrics.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	logger.Info("worker consuming", "subject", cfg.NATSSubject, "queue_group", cfg.NATSQueueGroup)

	err = worker.Queue.SubscribeDocumentReceived(ctx, func(msgCtx context.Context, documentID string) error {
		jobCtx, cancel := context.WithTimeout(msgCtx, cfg.PerMessageTimeout)
		defer cancel()

		start := time.Now()
		docType, err := worker.Processor.ProcessByID(jobCtx, documentID)
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		worker.Metrics.ObserveClassification(string(docType), outcome, time.Since(start))
		return err
	})
	if err != nil {
		logger.Error("subscription ended", "error", err)
		os.Exit(1)
	}
	logger.Info("worker stopped")
}
