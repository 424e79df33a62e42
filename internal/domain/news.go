package domain

import (
	"time"

	"github.com/google/uuid"
)

// Source is a user-configured content origin with a per-run extraction cap.
type Source struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	URL    string `json:"url"`
	IsFeed bool   `json:"isFeed"`
	Limit  int    `json:"limit"`
}

// NewSource assigns a fresh identity to a user-provided source definition.
func NewSource(name, url string, isFeed bool, limit int) Source {
	return Source{
		ID:     uuid.NewString(),
		Name:   name,
		URL:    url,
		IsFeed: isFeed,
		Limit:  limit,
	}
}

// News is a single extracted item attributed to exactly one Source.
// Instances are created by the extractor and never mutated afterwards.
type News struct {
	Title       string
	Content     string
	URL         string
	ExtractedAt time.Time
	Source      Source
}

// UnifiedNews groups one or more News items into a ranked event.
type UnifiedNews struct {
	ID               string
	Title            string
	MainContent      string
	PublishedAt      time.Time
	Sources          []Source
	OriginalArticles []News
	ImportanceScore  int
}

// Model describes one entry of the upstream model catalog.
type Model struct {
	ID               string
	Name             string
	InputModalities  []string
	OutputModalities []string
	Pricing          ModelPricing
}

// ModelPricing carries per-token price strings as reported by the catalog.
type ModelPricing struct {
	Prompt     string
	Completion string
}
