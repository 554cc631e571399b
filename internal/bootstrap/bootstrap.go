// Package bootstrap wires configuration into a running application graph
// shared by the api and worker binaries.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/MaxKamachee/openrecord/internal/config"
	"github.com/MaxKamachee/openrecord/internal/core/domain"
	"github.com/MaxKamachee/openrecord/internal/core/ports"
	"github.com/MaxKamachee/openrecord/internal/core/usecase"
	"github.com/MaxKamachee/openrecord/internal/infrastructure/catalog"
	"github.com/MaxKamachee/openrecord/internal/infrastructure/engine/redactsvc"
	"github.com/MaxKamachee/openrecord/internal/infrastructure/pdfinfo"
	"github.com/MaxKamachee/openrecord/internal/infrastructure/queue/nats"
	"github.com/MaxKamachee/openrecord/internal/infrastructure/repository/postgres"
	"github.com/MaxKamachee/openrecord/internal/infrastructure/report/excel"
	"github.com/MaxKamachee/openrecord/internal/infrastructure/resilience"
	snapshotfs "github.com/MaxKamachee/openrecord/internal/infrastructure/snapshot/localfs"
	archivefs "github.com/MaxKamachee/openrecord/internal/infrastructure/storage/localfs"
	"github.com/MaxKamachee/openrecord/internal/observability/logging"
)

type App struct {
	Config config.Config
	Logger *slog.Logger

	Store    *usecase.Store
	Engine   ports.DetectionEngine
	Queue    *nats.Queue
	Exporter ports.ReportExporter

	Documents *usecase.DocumentsUseCase
	Analyze   *usecase.AnalyzeUseCase
	Apply     *usecase.ApplyUseCase
	Pages     *usecase.PagesUseCase
	Patterns  *usecase.PatternsUseCase

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, service string) (*App, error) {
	logger := logging.NewJSONLogger(service, cfg.LogLevel)
	slog.SetDefault(logger)

	snapshots, closeSnapshots, err := newSnapshotStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store := usecase.NewStore(snapshots)
	if err := store.Restore(ctx); err != nil {
		logger.Warn("snapshot_restore_failed", "error", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())
	engine := redactsvc.New(cfg.EngineURL, time.Duration(cfg.EngineTimeoutSeconds)*time.Second, executor)

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubjectPrefix, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		closeSnapshots()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	archive, err := archivefs.New(cfg.ArchivePath)
	if err != nil {
		queue.Close()
		closeSnapshots()
		return nil, fmt.Errorf("init artifact archive: %w", err)
	}

	exporter, err := excel.New(cfg.ReportsPath, logger)
	if err != nil {
		queue.Close()
		closeSnapshots()
		return nil, fmt.Errorf("init report exporter: %w", err)
	}

	categories, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		queue.Close()
		closeSnapshots()
		return nil, fmt.Errorf("load category catalog: %w", err)
	}

	inspector := pdfinfo.New()

	return &App{
		Config:   cfg,
		Logger:   logger,
		Store:    store,
		Engine:   engine,
		Queue:    queue,
		Exporter: exporter,

		Documents: usecase.NewDocumentsUseCase(store, engine, inspector, cfg.MaxUploadBytes, logger),
		Analyze:   usecase.NewAnalyzeUseCase(store, engine, queue, logger),
		Apply:     usecase.NewApplyUseCase(store, engine, archive, queue, logger),
		Pages:     usecase.NewPagesUseCase(store, engine),
		Patterns:  usecase.NewPatternsUseCase(engine, categories, logger),

		closeFn: func() {
			queue.Close()
			closeSnapshots()
		},
	}, nil
}

func newSnapshotStore(ctx context.Context, cfg config.Config) (ports.SnapshotStore, func(), error) {
	if cfg.PostgresDSN != "" {
		db, err := postgres.OpenDB(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		repo := postgres.NewSnapshotRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("ensure schema: %w", err)
		}
		return repo, func() { _ = db.Close() }, nil
	}

	store, err := snapshotfs.New(cfg.SnapshotPath)
	if err != nil {
		return nil, nil, fmt.Errorf("init snapshot file: %w", err)
	}
	return store, func() {}, nil
}

// ExportReport resolves an analysis-completed event against the durable
// snapshot and writes the review workbook. The worker re-reads the snapshot
// so it sees analyses committed by the api process.
func (a *App) ExportReport(ctx context.Context, ev domain.AnalysisCompletedEvent) error {
	if err := a.Store.Restore(ctx); err != nil {
		return fmt.Errorf("refresh snapshot: %w", err)
	}

	analysis, ok := a.Store.Analysis(ev.AnalysisID)
	if !ok {
		return domain.WrapError(domain.ErrAnalysisNotFound, "export report", fmt.Errorf("analysis %q", ev.AnalysisID))
	}
	doc, ok := a.Store.Document(ev.DocumentID)
	if !ok {
		return domain.WrapError(domain.ErrDocumentNotFound, "export report", fmt.Errorf("document %q", ev.DocumentID))
	}

	path, err := a.Exporter.Export(ctx, &doc, &analysis)
	if err != nil {
		return fmt.Errorf("export report: %w", err)
	}
	a.Logger.Info("report_exported", "analysis_id", ev.AnalysisID, "path", path)
	return nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
