package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/shopassist/rag/internal/config"
	"github.com/shopassist/rag/internal/core/domain"
	"github.com/shopassist/rag/internal/core/ports"
	"github.com/shopassist/rag/internal/core/usecase"
	"github.com/shopassist/rag/internal/infrastructure/catalog"
	"github.com/shopassist/rag/internal/infrastructure/llm/openaichat"
	"github.com/shopassist/rag/internal/infrastructure/rerank/crossencoder"
	"github.com/shopassist/rag/internal/infrastructure/repository/postgres"
	"github.com/shopassist/rag/internal/infrastructure/resilience"
	"github.com/shopassist/rag/internal/infrastructure/search/weaviate"
	"github.com/shopassist/rag/internal/observability/logging"
	"github.com/shopassist/rag/internal/observability/metrics"
)

type App struct {
	Config   config.Config
	Answerer ports.QueryAnswerer
	Metrics  *metrics.PipelineMetrics

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger := logging.New(cfg.ServiceName, cfg.LogLevel)

	source, closeFn, err := newCatalogSource(cfg)
	if err != nil {
		return nil, err
	}

	dataset, err := source.Load(ctx)
	if err != nil {
		if closeFn != nil {
			closeFn()
		}
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	logger.Info("catalog_loaded", "products", len(dataset.Products), "faq_entries", len(dataset.FAQ))

	filterCatalog := domain.NewFilterCatalog(dataset.Products)
	knowledge := catalog.NewKnowledgeBase(dataset.FAQ)

	breaker := resilience.NewBreaker(resilience.Config{
		Enabled:      cfg.BreakerEnabled,
		MinRequests:  uint32(cfg.BreakerMinRequests),
		FailureRatio: cfg.BreakerFailureRatio,
		OpenTimeout:  time.Duration(cfg.BreakerOpenTimeoutSeconds) * time.Second,
	})

	generator := openaichat.NewWithOptions(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, openaichat.Options{
		Timeout: time.Duration(cfg.LLMTimeoutSeconds) * time.Second,
		Breaker: breaker,
	})

	backend := weaviate.New(cfg.WeaviateURL, map[string][]string{
		cfg.ProductsCollection: {
			"product_id", "productDisplayName", "gender", "masterCategory", "subCategory",
			"articleType", "baseColour", "season", "year", "usage", "price",
		},
		cfg.FAQCollection: {"question", "answer", "type"},
	})

	var encoder ports.CrossEncoder
	if cfg.RerankerURL != "" {
		encoder = crossencoder.NewWithOptions(cfg.RerankerURL, cfg.RerankerModel, crossencoder.Options{
			Breaker: breaker,
		})
	}

	router := usecase.NewRouter(generator, cfg.LLMModel, logger)
	extractor := usecase.NewFilterExtractor(generator, filterCatalog, cfg.LLMModel, logger)
	products := usecase.NewRetriever(backend, cfg.ProductsCollection, logger)
	faq := usecase.NewRetriever(backend, cfg.FAQCollection, logger)
	reranker := usecase.NewReranker(encoder, logger)

	pipeline := usecase.NewPipeline(router, extractor, products, faq, reranker, knowledge, cfg.LLMModel, logger)

	pipelineMetrics := metrics.NewPipelineMetrics(cfg.ServiceName)
	answerer := metrics.NewInstrumentedAnswerer(pipeline, pipelineMetrics, cfg.ServiceName)

	return &App{
		Config:   cfg,
		Answerer: answerer,
		Metrics:  pipelineMetrics,
		closeFn:  closeFn,
	}, nil
}

func newCatalogSource(cfg config.Config) (ports.CatalogSource, func(), error) {
	switch cfg.CatalogSource {
	case "file", "":
		return catalog.NewFileSource(cfg.ProductsPath, cfg.FAQPath), nil, nil
	case "xlsx":
		return catalog.NewXLSXSource(cfg.CatalogXLSXPath, "", ""), nil, nil
	case "postgres":
		db, err := postgres.OpenDB(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		return postgres.NewCatalogRepository(db), func() { _ = db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown catalog source %q", cfg.CatalogSource)
	}
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
