package usecase

import (
	"context"
	"log/slog"

	"github.com/armenabnousi/NewsCollector/internal/domain"
	"github.com/armenabnousi/NewsCollector/internal/ports"
)

// SourceProcessor drives the chunker and extractor across one source's text
// until the source's item limit is reached or the chunks run out.
type SourceProcessor struct {
	fetcher   ports.ContentFetcher
	extractor *Extractor
	logger    *slog.Logger
}

// NewSourceProcessor wires the fetch boundary and the extractor.
func NewSourceProcessor(fetcher ports.ContentFetcher, extractor *Extractor, logger *slog.Logger) *SourceProcessor {
	return &SourceProcessor{
		fetcher:   fetcher,
		extractor: extractor,
		logger:    logger,
	}
}

// Process fetches the source's text and extracts at most src.Limit items
// from it. Fetch and per-chunk extraction failures are logged and degrade to
// zero items for the affected unit; they never propagate.
func (p *SourceProcessor) Process(ctx context.Context, src domain.Source, modelID string) []domain.News {
	log := p.logger.With("source", src.Name, "url", src.URL)

	text, err := p.fetcher.FetchText(ctx, src)
	if err != nil {
		log.Warn("source fetch failed, skipping", "error", err)
		return nil
	}

	var collected []domain.News
	for _, chunk := range chunkText(text, maxChunkSize) {
		remaining := src.Limit - len(collected)
		if remaining <= 0 {
			break
		}

		items, err := p.extractor.Extract(ctx, chunk, src, modelID)
		if err != nil {
			log.Warn("chunk extraction failed, skipping chunk", "error", err)
			continue
		}

		if len(items) > remaining {
			items = items[:remaining]
		}
		collected = append(collected, items...)
	}

	log.Debug("source processed", "items", len(collected), "limit", src.Limit)
	return collected
}
