package usecase

import (
	"context"
	"log/slog"

	"github.com/armenabnousi/NewsCollector/internal/domain"
)

// Aggregator runs the source processor over every configured source,
// sequentially and in source-list order.
type Aggregator struct {
	processor *SourceProcessor
	logger    *slog.Logger
}

// NewAggregator wires the per-source processor.
func NewAggregator(processor *SourceProcessor, logger *slog.Logger) *Aggregator {
	return &Aggregator{processor: processor, logger: logger}
}

// Aggregate concatenates the News extracted from each source. A failing
// source contributes nothing; the per-source caps are enforced by the
// processor.
func (a *Aggregator) Aggregate(ctx context.Context, sources []domain.Source, modelID string) []domain.News {
	var all []domain.News
	for _, src := range sources {
		all = append(all, a.processor.Process(ctx, src, modelID)...)
	}

	a.logger.Debug("aggregation done", "sources", len(sources), "items", len(all))
	return all
}
