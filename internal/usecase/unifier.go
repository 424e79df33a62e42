package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/armenabnousi/NewsCollector/internal/domain"
	"github.com/armenabnousi/NewsCollector/internal/ports"
)

// untitledEvent labels a group the model returned without a title.
const untitledEvent = "Untitled Event"

// Unifier merges near-duplicate News items across sources into events via a
// single grouping call.
type Unifier struct {
	chat   ports.ChatCompleter
	logger *slog.Logger
	now    func() time.Time
}

// NewUnifier wires the chat boundary; now defaults to time.Now.
func NewUnifier(chat ports.ChatCompleter, logger *slog.Logger) *Unifier {
	return &Unifier{
		chat:   chat,
		logger: logger,
		now:    time.Now,
	}
}

// Unify groups allNews into UnifiedNews events. When the grouping call
// fails in any way, every input item degrades to its own singleton event
// with importance zero; fellBack reports which path produced the result.
// An empty input returns an empty list without touching the model.
func (u *Unifier) Unify(ctx context.Context, allNews []domain.News, modelID string) (unified []domain.UnifiedNews, fellBack bool) {
	if len(allNews) == 0 {
		return nil, false
	}

	unified, err := u.unifyWithModel(ctx, allNews, modelID)
	if err != nil {
		u.logger.Warn("unification failed, emitting per-article fallback", "error", err)
		return u.fallback(allNews), true
	}

	return unified, false
}

func (u *Unifier) unifyWithModel(ctx context.Context, allNews []domain.News, modelID string) ([]domain.UnifiedNews, error) {
	var listing strings.Builder
	for i, n := range allNews {
		fmt.Fprintf(&listing, "ID: %d | Title: %s\n", i, n.Title)
	}

	prompt := fmt.Sprintf(
		"Group these into events. Return JSON: [{\"title\":\"..\",\"summary\":\"..\",\"ids\":[0,1],\"importance\":8}]. Data: %s",
		listing.String(),
	)

	reply, err := u.chat.Complete(ctx, modelID, prompt)
	if err != nil {
		return nil, fmt.Errorf("grouping call: %w", err)
	}

	var groups []unifiedGroupDTO
	if err := json.Unmarshal([]byte(stripCodeFence(reply)), &groups); err != nil {
		return nil, fmt.Errorf("parse grouping reply: %w", err)
	}

	publishedAt := u.now()
	unified := make([]domain.UnifiedNews, 0, len(groups))
	for _, group := range groups {
		matching := matchArticles(group.IDs, allNews)

		title := untitledEvent
		if group.Title != nil {
			title = string(*group.Title)
		}

		unified = append(unified, domain.UnifiedNews{
			ID:               uuid.NewString(),
			Title:            title,
			MainContent:      string(group.Summary),
			PublishedAt:      publishedAt,
			Sources:          distinctSources(matching),
			OriginalArticles: matching,
			ImportanceScore:  int(group.Importance),
		})
	}

	return unified, nil
}

// matchArticles resolves positional ids against the input list, preserving
// id order. Invalid and out-of-range ids are dropped silently.
func matchArticles(ids []looseIndex, allNews []domain.News) []domain.News {
	var matching []domain.News
	for _, id := range ids {
		if !id.valid || id.value < 0 || id.value >= len(allNews) {
			continue
		}
		matching = append(matching, allNews[id.value])
	}
	return matching
}

// distinctSources keeps each contributing source once, in order of first
// appearance.
func distinctSources(articles []domain.News) []domain.Source {
	var sources []domain.Source
	seen := map[string]struct{}{}
	for _, article := range articles {
		if _, ok := seen[article.Source.ID]; ok {
			continue
		}
		seen[article.Source.ID] = struct{}{}
		sources = append(sources, article.Source)
	}
	return sources
}

// fallback emits one singleton event per input item, preserving every item
// exactly once. It cannot fail.
func (u *Unifier) fallback(allNews []domain.News) []domain.UnifiedNews {
	unified := make([]domain.UnifiedNews, 0, len(allNews))
	for _, n := range allNews {
		unified = append(unified, domain.UnifiedNews{
			ID:               uuid.NewString(),
			Title:            n.Title,
			MainContent:      n.Content,
			PublishedAt:      n.ExtractedAt,
			Sources:          []domain.Source{n.Source},
			OriginalArticles: []domain.News{n},
			ImportanceScore:  0,
		})
	}
	return unified
}
