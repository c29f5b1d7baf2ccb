package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	httpadapter "github.com/preetatdate/docpipeline/internal/adapters/http"
	"github.com/preetatdate/docpipeline/internal/config"
	"github.com/preetatdate/docpipeline/internal/core/domain"
	"github.com/preetatdate/docpipeline/internal/core/usecase"
	"github.com/preetatdate/docpipeline/internal/infrastructure/llm/gemini"
	"github.com/preetatdate/docpipeline/internal/infrastructure/pdfinfo"
	natsqueue "github.com/preetatdate/docpipeline/internal/infrastructure/queue/nats"
	"github.com/preetatdate/docpipeline/internal/infrastructure/repository/postgres"
	"github.com/preetatdate/docpipeline/internal/infrastructure/resilience"
	"github.com/preetatdate/docpipeline/internal/infrastructure/storage/localfs"
	"github.com/preetatdate/docpipeline/internal/observability/metrics"
)

// API bundles everything the api binary serves and must tear down.
type API struct {
	Handler http.Handler

	db    *sql.DB
	queue *natsqueue.Queue
}

func (a *API) Close() {
	if a.queue != nil {
		a.queue.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}

// Worker bundles the classification consumer side.
type Worker struct {
	Processor *usecase.ProcessDocumentUseCase
	Queue     *natsqueue.Queue
	Metrics   *metrics.PipelineMetrics

	db *sql.DB
}

func (w *Worker) Close() {
	if w.Queue != nil {
		w.Queue.Close()
	}
	if w.db != nil {
		_ = w.db.Close()
	}
}

func NewAPI(ctx context.Context, cfg config.Config, logger *slog.Logger) (*API, error) {
	db, err := postgres.OpenDB(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	queue, err := natsqueue.NewQueue(natsqueue.Config{
		URL:        cfg.NATSURL,
		Subject:    cfg.NATSSubject,
		QueueGroup: cfg.NATSQueueGroup,
	}, logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect queue: %w", err)
	}

	storage, err := localfs.NewStorage(cfg.StoragePath)
	if err != nil {
		queue.Close()
		_ = db.Close()
		return nil, fmt.Errorf("open storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())
	gateway := gemini.New(cfg.GeminiBaseURL, cfg.GeminiAPIKey, executor, postgres.NewCallLogRepository(db))

	httpMetrics := metrics.NewHTTPMetrics()
	pipelineMetrics := metrics.NewPipelineMetricsOn(httpMetrics.Registry())

	classifier := usecase.NewClassifyDocumentUseCase(
		gateway, cfg.GeminiModelID, domain.DiagnosticTypes(), domain.DefaultDiagnosticKeywords())
	extractor := usecase.NewExtractDossierUseCase(
		gateway,
		usecase.NewRouter(),
		usecase.NewValidator(usecase.ValidatorConfig{ChargeTolerance: cfg.ChargeTolerance}),
		cfg.GeminiModelID,
		cfg.PhaseTimeout,
	).WithObserver(pipelineMetrics)
	ingestor := usecase.NewIngestDocumentUseCase(repo, storage, queue, pdfinfo.NewInspector())

	handlers := httpadapter.NewHandlers(classifier, extractor, ingestor, repo, logger)
	tc := httpadapter.NewTrafficControl(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.MaxConcurrentLLM)
	router := httpadapter.NewRouter(handlers, tc, httpMetrics, logger)

	return &API{Handler: router, db: db, queue: queue}, nil
}

func NewWorker(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Worker, error) {
	db, err := postgres.OpenDB(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	queue, err := natsqueue.NewQueue(natsqueue.Config{
		URL:        cfg.NATSURL,
		Subject:    cfg.NATSSubject,
		QueueGroup: cfg.NATSQueueGroup,
	}, logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect queue: %w", err)
	}

	storage, err := localfs.NewStorage(cfg.StoragePath)
	if err != nil {
		queue.Close()
		_ = db.Close()
		return nil, fmt.Errorf("open storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())
	gateway := gemini.New(cfg.GeminiBaseURL, cfg.GeminiAPIKey, executor, postgres.NewCallLogRepository(db))
	classifier := usecase.NewClassifyDocumentUseCase(
		gateway, cfg.GeminiModelID, domain.DiagnosticTypes(), domain.DefaultDiagnosticKeywords())

	return &Worker{
		Processor: usecase.NewProcessDocumentUseCase(repo, storage, classifier),
		Queue:     queue,
		Metrics:   metrics.NewPipelineMetrics(),
		db:        db,
	}, nil
}
