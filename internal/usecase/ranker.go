package usecase

import (
	"sort"

	"github.com/armenabnousi/NewsCollector/internal/domain"
)

// Rank orders events by importance score, highest first. The sort is stable:
// equal scores keep their relative order from the input. The input slice is
// not modified.
func Rank(unified []domain.UnifiedNews) []domain.UnifiedNews {
	ranked := make([]domain.UnifiedNews, len(unified))
	copy(ranked, unified)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ImportanceScore > ranked[j].ImportanceScore
	})

	return ranked
}
