package metrics

import (
	"context"
	"time"

	"github.com/shopassist/rag/internal/core/domain"
	"github.com/shopassist/rag/internal/core/ports"
)

// InstrumentedAnswerer decorates the pipeline port with metrics so the core
// stays free of instrumentation concerns.
type InstrumentedAnswerer struct {
	next    ports.QueryAnswerer
	metrics *PipelineMetrics
	service string
}

func NewInstrumentedAnswerer(next ports.QueryAnswerer, metrics *PipelineMetrics, service string) *InstrumentedAnswerer {
	return &InstrumentedAnswerer{next: next, metrics: metrics, service: service}
}

func (a *InstrumentedAnswerer) AnswerQuery(ctx context.Context, query string, opts domain.QueryOptions) (*domain.PipelineResult, error) {
	started := time.Now()
	result, err := a.next.AnswerQuery(ctx, query, opts)
	if err != nil {
		a.metrics.ObserveFailure(a.service)
		return nil, err
	}
	a.metrics.ObserveQuery(a.service, string(result.Route), result.TotalTokens, time.Since(started))
	return result, nil
}
