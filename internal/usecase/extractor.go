package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/armenabnousi/NewsCollector/internal/domain"
	"github.com/armenabnousi/NewsCollector/internal/ports"
)

// Extractor turns one text chunk into News items via a single
// chat-completion call.
type Extractor struct {
	chat   ports.ChatCompleter
	logger *slog.Logger
	now    func() time.Time
}

// NewExtractor wires the chat boundary; now defaults to time.Now.
func NewExtractor(chat ports.ChatCompleter, logger *slog.Logger) *Extractor {
	return &Extractor{
		chat:   chat,
		logger: logger,
		now:    time.Now,
	}
}

// Extract asks the model for a JSON array of {title, summary} objects and
// stamps every parsed item with the source and the call time. A transport
// error or unparseable reply returns a non-nil error and no items; the
// caller treats that as a zero-yield chunk.
func (e *Extractor) Extract(ctx context.Context, chunk string, src domain.Source, modelID string) ([]domain.News, error) {
	prompt := fmt.Sprintf(
		"Extract headlines/summaries as JSON: [{\"title\":\"..\",\"summary\":\"..\"}] from: %s",
		chunk,
	)

	reply, err := e.chat.Complete(ctx, modelID, prompt)
	if err != nil {
		return nil, fmt.Errorf("extraction call: %w", err)
	}

	var dtos []extractedItemDTO
	if err := json.Unmarshal([]byte(stripCodeFence(reply)), &dtos); err != nil {
		return nil, fmt.Errorf("parse extraction reply: %w", err)
	}

	extractedAt := e.now()
	items := make([]domain.News, 0, len(dtos))
	for _, dto := range dtos {
		items = append(items, domain.News{
			Title:       string(dto.Title),
			Content:     string(dto.Summary),
			URL:         src.URL,
			ExtractedAt: extractedAt,
			Source:      src,
		})
	}

	return items, nil
}
