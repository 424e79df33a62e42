package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/armenabnousi/NewsCollector/internal/domain"
	"github.com/armenabnousi/NewsCollector/internal/ports"
	"github.com/armenabnousi/NewsCollector/internal/usecase"
)

type refresher interface {
	StartRefresh(ctx context.Context) error
	Snapshot() usecase.Snapshot
}

// Handler exposes the pipeline and the user settings over a small JSON API.
type Handler struct {
	log      *slog.Logger
	pipeline refresher
	settings ports.SettingsStore
	catalog  ports.ModelCatalog
}

// NewHandler wires the collaborators the API serves.
func NewHandler(log *slog.Logger, pipeline refresher, settings ports.SettingsStore, catalog ports.ModelCatalog) *Handler {
	return &Handler{
		log:      log,
		pipeline: pipeline,
		settings: settings,
		catalog:  catalog,
	}
}

type sourceDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	URL    string `json:"url"`
	IsFeed bool   `json:"isFeed"`
	Limit  int    `json:"limit"`
}

type newsDTO struct {
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	URL         string    `json:"url"`
	ExtractedAt time.Time `json:"extractedAt"`
	SourceID    string    `json:"sourceId"`
}

type unifiedNewsDTO struct {
	ID               string      `json:"id"`
	Title            string      `json:"title"`
	MainContent      string      `json:"mainContent"`
	PublishedAt      time.Time   `json:"publishedAt"`
	ImportanceScore  int         `json:"importanceScore"`
	Sources          []sourceDTO `json:"sources"`
	OriginalArticles []newsDTO   `json:"originalArticles"`
}

type statusDTO struct {
	State      string `json:"state"`
	Refreshing bool   `json:"refreshing"`
	LastError  string `json:"lastError,omitempty"`
}

// getNews serves the published result set of the last completed run.
func (h *Handler) getNews(w http.ResponseWriter, r *http.Request) {
	snap := h.pipeline.Snapshot()
	out := make([]unifiedNewsDTO, 0, len(snap.News))
	for _, event := range snap.News {
		out = append(out, toUnifiedDTO(event))
	}
	respondWithJSON(w, http.StatusOK, out)
}

func (h *Handler) getStatus(w http.ResponseWriter, r *http.Request) {
	snap := h.pipeline.Snapshot()
	respondWithJSON(w, http.StatusOK, statusDTO{
		State:      string(snap.State),
		Refreshing: snap.Refreshing,
		LastError:  snap.LastError,
	})
}

// postRefresh triggers a pipeline run. Configuration problems are rejected
// up front; an accepted run proceeds in the background.
func (h *Handler) postRefresh(w http.ResponseWriter, r *http.Request) {
	if err := h.pipeline.StartRefresh(r.Context()); err != nil {
		if errors.Is(err, usecase.ErrNoModelSelected) || errors.Is(err, usecase.ErrNoCredential) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error("refresh trigger failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	respondWithJSON(w, http.StatusAccepted, map[string]string{"status": "refresh started"})
}

func (h *Handler) getSources(w http.ResponseWriter, r *http.Request) {
	sources, err := h.settings.Sources(r.Context())
	if err != nil {
		h.log.Error("failed to list sources", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	out := make([]sourceDTO, 0, len(sources))
	for _, src := range sources {
		out = append(out, toSourceDTO(src))
	}
	respondWithJSON(w, http.StatusOK, out)
}

func (h *Handler) postSource(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name   string `json:"name"`
		URL    string `json:"url"`
		IsFeed bool   `json:"isFeed"`
		Limit  int    `json:"limit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if in.URL == "" {
		respondWithError(w, http.StatusBadRequest, "url is required")
		return
	}
	if in.Limit <= 0 {
		in.Limit = 10
	}

	src := domain.NewSource(in.Name, in.URL, in.IsFeed, in.Limit)
	if err := h.settings.AddSource(r.Context(), src); err != nil {
		h.log.Error("failed to add source", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	respondWithJSON(w, http.StatusCreated, toSourceDTO(src))
}

func (h *Handler) deleteSource(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.settings.RemoveSource(r.Context(), id); err != nil {
		h.log.Error("failed to remove source", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getModels(w http.ResponseWriter, r *http.Request) {
	models, err := h.catalog.Models(r.Context())
	if err != nil {
		h.log.Error("failed to list models", "error", err)
		respondWithError(w, http.StatusBadGateway, "model catalog unavailable")
		return
	}

	type modelDTO struct {
		ID               string   `json:"id"`
		Name             string   `json:"name"`
		InputModalities  []string `json:"inputModalities"`
		OutputModalities []string `json:"outputModalities"`
		PromptPrice      string   `json:"promptPrice"`
		CompletionPrice  string   `json:"completionPrice"`
	}
	out := make([]modelDTO, 0, len(models))
	for _, m := range models {
		out = append(out, modelDTO{
			ID:               m.ID,
			Name:             m.Name,
			InputModalities:  m.InputModalities,
			OutputModalities: m.OutputModalities,
			PromptPrice:      m.Pricing.Prompt,
			CompletionPrice:  m.Pricing.Completion,
		})
	}
	respondWithJSON(w, http.StatusOK, out)
}

func (h *Handler) getSelectedModel(w http.ResponseWriter, r *http.Request) {
	id, name, err := h.settings.SelectedModel(r.Context())
	if err != nil {
		h.log.Error("failed to read selected model", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"id": id, "name": name})
}

func (h *Handler) postSelectedModel(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.ID == "" {
		respondWithError(w, http.StatusBadRequest, "model id is required")
		return
	}
	if err := h.settings.SaveSelectedModel(r.Context(), in.ID, in.Name); err != nil {
		h.log.Error("failed to save selected model", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"id": in.ID, "name": in.Name})
}

func (h *Handler) postToken(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Token == "" {
		respondWithError(w, http.StatusBadRequest, "token is required")
		return
	}
	if err := h.settings.SaveToken(r.Context(), in.Token); err != nil {
		h.log.Error("failed to save token", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func toSourceDTO(src domain.Source) sourceDTO {
	return sourceDTO{
		ID:     src.ID,
		Name:   src.Name,
		URL:    src.URL,
		IsFeed: src.IsFeed,
		Limit:  src.Limit,
	}
}

func toUnifiedDTO(event domain.UnifiedNews) unifiedNewsDTO {
	dto := unifiedNewsDTO{
		ID:               event.ID,
		Title:            event.Title,
		MainContent:      event.MainContent,
		PublishedAt:      event.PublishedAt,
		ImportanceScore:  event.ImportanceScore,
		Sources:          make([]sourceDTO, 0, len(event.Sources)),
		OriginalArticles: make([]newsDTO, 0, len(event.OriginalArticles)),
	}
	for _, src := range event.Sources {
		dto.Sources = append(dto.Sources, toSourceDTO(src))
	}
	for _, article := range event.OriginalArticles {
		dto.OriginalArticles = append(dto.OriginalArticles, newsDTO{
			Title:       article.Title,
			Content:     article.Content,
			URL:         article.URL,
			ExtractedAt: article.ExtractedAt,
			SourceID:    article.Source.ID,
		})
	}
	return dto
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
