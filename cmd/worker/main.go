package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MaxKamachee/openrecord/internal/bootstrap"
	"github.com/MaxKamachee/openrecord/internal/config"
	"github.com/MaxKamachee/openrecord/internal/core/domain"
	"github.com/MaxKamachee/openrecord/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, "worker")
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics("worker")
	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: workerMetrics.Handler(),
	}
	go func() {
		log.Printf("worker metrics listening on :%s", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("worker metrics server error: %v", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	log.Printf("worker subscribed to %s.analysis.completed", cfg.NATSSubjectPrefix)
	err = app.Queue.SubscribeAnalysisCompleted(ctx, func(handlerCtx context.Context, ev domain.AnalysisCompletedEvent) error {
		workerMetrics.ObserveQueueLag("worker", time.Since(ev.CompletedAt))
		workerMetrics.StartExport()
		start := time.Now()

		exportCtx, cancel := context.WithTimeout(handlerCtx, 2*time.Minute)
		defer cancel()
		exportErr := app.ExportReport(exportCtx, ev)

		workerMetrics.FinishExport("worker", time.Since(start), exportErr)
		return exportErr
	})
	if err != nil {
		log.Fatalf("worker subscribe error: %v", err)
	}
}
