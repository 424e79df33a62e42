package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armenabnousi/NewsCollector/internal/domain"
)

// fetcherFunc adapts a function to the content-fetch boundary for tests.
type fetcherFunc func(ctx context.Context, src domain.Source) (string, error)

func (f fetcherFunc) FetchText(ctx context.Context, src domain.Source) (string, error) {
	return f(ctx, src)
}

func newProcessor(fetch fetcherFunc, chat chatFunc) *SourceProcessor {
	extractor := NewExtractor(chat, discardLogger())
	return NewSourceProcessor(fetch, extractor, discardLogger())
}

func TestSourceProcessorRespectsLimit(t *testing.T) {
	t.Parallel()

	// Three chunks of text, each extraction call yielding four items.
	fetch := fetcherFunc(func(ctx context.Context, src domain.Source) (string, error) {
		return strings.Repeat("x", 3*maxChunkSize), nil
	})
	chat := chatFunc(func(ctx context.Context, modelID, prompt string) (string, error) {
		return `[{"title":"1"},{"title":"2"},{"title":"3"},{"title":"4"}]`, nil
	})

	src := domain.Source{ID: "s", Name: "S", URL: "https://s", Limit: 5}
	items := newProcessor(fetch, chat).Process(context.Background(), src, "m")

	require.Len(t, items, 5, "a single over-producing call must be truncated to the remaining quota")
}

func TestSourceProcessorStopsCallingAtLimit(t *testing.T) {
	t.Parallel()

	fetch := fetcherFunc(func(ctx context.Context, src domain.Source) (string, error) {
		return strings.Repeat("x", 4*maxChunkSize), nil
	})

	calls := 0
	chat := chatFunc(func(ctx context.Context, modelID, prompt string) (string, error) {
		calls++
		return `[{"title":"a"},{"title":"b"}]`, nil
	})

	src := domain.Source{ID: "s", Name: "S", URL: "https://s", Limit: 3}
	items := newProcessor(fetch, chat).Process(context.Background(), src, "m")

	assert.Len(t, items, 3)
	assert.Equal(t, 2, calls, "no extraction call may be made once the quota is exhausted")
}

func TestSourceProcessorFetchFailure(t *testing.T) {
	t.Parallel()

	fetch := fetcherFunc(func(ctx context.Context, src domain.Source) (string, error) {
		return "", errors.New("connection refused")
	})
	chat := chatFunc(func(ctx context.Context, modelID, prompt string) (string, error) {
		t.Fatal("extractor must not be called when the fetch fails")
		return "", nil
	})

	items := newProcessor(fetch, chat).Process(context.Background(), testSource(), "m")
	assert.Empty(t, items)
}

func TestSourceProcessorSkipsFailedChunks(t *testing.T) {
	t.Parallel()

	fetch := fetcherFunc(func(ctx context.Context, src domain.Source) (string, error) {
		return strings.Repeat("x", 2*maxChunkSize), nil
	})

	call := 0
	chat := chatFunc(func(ctx context.Context, modelID, prompt string) (string, error) {
		call++
		if call == 1 {
			return "not json at all", nil
		}
		return `[{"title":"survivor"}]`, nil
	})

	items := newProcessor(fetch, chat).Process(context.Background(), testSource(), "m")

	require.Len(t, items, 1)
	assert.Equal(t, "survivor", items[0].Title)
}

func TestAggregatorKeepsSourceOrder(t *testing.T) {
	t.Parallel()

	fetch := fetcherFunc(func(ctx context.Context, src domain.Source) (string, error) {
		return "text for " + src.Name, nil
	})
	chat := chatFunc(func(ctx context.Context, modelID, prompt string) (string, error) {
		for _, name := range []string{"First", "Second"} {
			if strings.Contains(prompt, "text for "+name) {
				return fmt.Sprintf(`[{"title":"%s item"}]`, name), nil
			}
		}
		return "[]", nil
	})

	aggregator := NewAggregator(newProcessor(fetch, chat), discardLogger())
	sources := []domain.Source{
		{ID: "1", Name: "First", URL: "https://1", Limit: 5},
		{ID: "2", Name: "Second", URL: "https://2", Limit: 5},
	}

	all := aggregator.Aggregate(context.Background(), sources, "m")

	require.Len(t, all, 2)
	assert.Equal(t, "First item", all[0].Title)
	assert.Equal(t, "Second item", all[1].Title)
}
