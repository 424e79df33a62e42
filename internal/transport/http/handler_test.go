package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armenabnousi/NewsCollector/internal/domain"
	"github.com/armenabnousi/NewsCollector/internal/usecase"
)

type fakePipeline struct {
	snapshot   usecase.Snapshot
	refreshErr error
	refreshed  bool
}

func (f *fakePipeline) StartRefresh(ctx context.Context) error {
	f.refreshed = true
	return f.refreshErr
}

func (f *fakePipeline) Snapshot() usecase.Snapshot { return f.snapshot }

type fakeStore struct {
	sources []domain.Source
	modelID string
	token   string
}

func (f *fakeStore) Sources(ctx context.Context) ([]domain.Source, error) { return f.sources, nil }
func (f *fakeStore) AddSource(ctx context.Context, src domain.Source) error {
	f.sources = append(f.sources, src)
	return nil
}
func (f *fakeStore) RemoveSource(ctx context.Context, id string) error {
	kept := f.sources[:0]
	for _, src := range f.sources {
		if src.ID != id {
			kept = append(kept, src)
		}
	}
	f.sources = kept
	return nil
}
func (f *fakeStore) SelectedModel(ctx context.Context) (string, string, error) {
	return f.modelID, "", nil
}
func (f *fakeStore) SaveSelectedModel(ctx context.Context, id, name string) error {
	f.modelID = id
	return nil
}
func (f *fakeStore) Token(ctx context.Context) (string, error)         { return f.token, nil }
func (f *fakeStore) SaveToken(ctx context.Context, token string) error { f.token = token; return nil }

type fakeCatalog struct {
	models []domain.Model
}

func (f *fakeCatalog) Models(ctx context.Context) ([]domain.Model, error) { return f.models, nil }

func newTestRouter(pipeline *fakePipeline, store *fakeStore) http.Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(log, pipeline, store, &fakeCatalog{})
	return NewServer(log, handler)
}

func TestGetNews(t *testing.T) {
	t.Parallel()

	src := domain.Source{ID: "s1", Name: "One", URL: "https://one"}
	pipeline := &fakePipeline{
		snapshot: usecase.Snapshot{
			State: usecase.StateIdle,
			News: []domain.UnifiedNews{
				{
					ID:              "u1",
					Title:           "Event",
					ImportanceScore: 8,
					PublishedAt:     time.Now(),
					Sources:         []domain.Source{src},
					OriginalArticles: []domain.News{
						{Title: "a", Source: src},
					},
				},
			},
		},
	}

	rec := httptest.NewRecorder()
	newTestRouter(pipeline, &fakeStore{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/news", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var out []unifiedNewsDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "Event", out[0].Title)
	assert.Equal(t, 8, out[0].ImportanceScore)
	require.Len(t, out[0].OriginalArticles, 1)
	assert.Equal(t, "s1", out[0].OriginalArticles[0].SourceID)
}

func TestPostRefreshConfigError(t *testing.T) {
	t.Parallel()

	pipeline := &fakePipeline{refreshErr: usecase.ErrNoModelSelected}

	rec := httptest.NewRecorder()
	newTestRouter(pipeline, &fakeStore{}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/refresh", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no model selected")
}

func TestPostRefreshAccepted(t *testing.T) {
	t.Parallel()

	pipeline := &fakePipeline{}

	rec := httptest.NewRecorder()
	newTestRouter(pipeline, &fakeStore{}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/refresh", nil))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.True(t, pipeline.refreshed)
}

func TestPostSourceValidation(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	router := newTestRouter(&fakePipeline{}, store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sources", strings.NewReader(`{"name":"no url"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, store.sources)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sources",
		strings.NewReader(`{"name":"Example","url":"https://example.com","isFeed":false}`)))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, store.sources, 1)
	assert.NotEmpty(t, store.sources[0].ID)
	assert.Equal(t, 10, store.sources[0].Limit, "limit defaults when omitted")
}

func TestDeleteSource(t *testing.T) {
	t.Parallel()

	store := &fakeStore{sources: []domain.Source{{ID: "s1"}, {ID: "s2"}}}
	router := newTestRouter(&fakePipeline{}, store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/sources/s1", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.Len(t, store.sources, 1)
	assert.Equal(t, "s2", store.sources[0].ID)
}

func TestGetStatus(t *testing.T) {
	t.Parallel()

	pipeline := &fakePipeline{
		snapshot: usecase.Snapshot{State: usecase.StateFailed, LastError: "boom"},
	}

	rec := httptest.NewRecorder()
	newTestRouter(pipeline, &fakeStore{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var out statusDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "failed", out.State)
	assert.False(t, out.Refreshing)
	assert.Equal(t, "boom", out.LastError)
}
