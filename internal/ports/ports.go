package ports

import (
	"context"
	"time"

	"github.com/armenabnousi/NewsCollector/internal/domain"
)

// SettingsStore persists the user configuration the pipeline reads at run
// start: the source list, the selected model and the API credential.
type SettingsStore interface {
	Sources(ctx context.Context) ([]domain.Source, error)
	AddSource(ctx context.Context, src domain.Source) error
	RemoveSource(ctx context.Context, id string) error

	SelectedModel(ctx context.Context) (id, name string, err error)
	SaveSelectedModel(ctx context.Context, id, name string) error

	Token(ctx context.Context) (string, error)
	SaveToken(ctx context.Context, token string) error
}

// ChatCompleter is the chat-completion boundary. One call sends a single
// user-role message and returns the first choice's content verbatim.
type ChatCompleter interface {
	Complete(ctx context.Context, modelID, prompt string) (string, error)
}

// ModelCatalog lists the models available upstream.
type ModelCatalog interface {
	Models(ctx context.Context) ([]domain.Model, error)
}

// ContentFetcher resolves a source's URL into plain text, either by
// stripping an HTML page or by flattening feed entries.
type ContentFetcher interface {
	FetchText(ctx context.Context, src domain.Source) (string, error)
}

// Scheduler controls when refresh runs are triggered.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
