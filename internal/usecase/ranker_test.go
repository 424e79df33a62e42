package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armenabnousi/NewsCollector/internal/domain"
)

func TestRankSortsByImportanceDescending(t *testing.T) {
	t.Parallel()

	input := []domain.UnifiedNews{
		{Title: "A", ImportanceScore: 5},
		{Title: "B", ImportanceScore: 5},
		{Title: "C", ImportanceScore: 9},
	}

	ranked := Rank(input)

	require.Len(t, ranked, 3)
	assert.Equal(t, "C", ranked[0].Title)
	assert.Equal(t, "A", ranked[1].Title, "equal scores keep input order")
	assert.Equal(t, "B", ranked[2].Title)

	// The input slice is left untouched.
	assert.Equal(t, "A", input[0].Title)
}

func TestRankEmpty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Rank(nil))
}
