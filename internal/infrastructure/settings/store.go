package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"github.com/armenabnousi/NewsCollector/internal/domain"
	"github.com/armenabnousi/NewsCollector/internal/ports"
)

const (
	keySelectedModelID   = "selected_model_id"
	keySelectedModelName = "selected_model_name"
	keyAPIToken          = "openrouter_bearer_token"
)

const schema = `
CREATE TABLE IF NOT EXISTS sources (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    url        TEXT NOT NULL,
    is_feed    INTEGER NOT NULL DEFAULT 0,
    item_limit INTEGER NOT NULL DEFAULT 10
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);`

// Store persists user settings in a local sqlite file: the source list, the
// selected model and the API credential.
type Store struct {
	db *sql.DB
}

var _ ports.SettingsStore = (*Store)(nil)

// Open opens (creating if needed) the sqlite file and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open settings db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply settings schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Sources returns all configured sources in insertion order.
func (s *Store) Sources(ctx context.Context) ([]domain.Source, error) {
	rows, err := sq.Select("id", "name", "url", "is_feed", "item_limit").
		From("sources").
		OrderBy("rowid").
		RunWith(s.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query sources: %w", err)
	}
	defer rows.Close()

	var sources []domain.Source
	for rows.Next() {
		var src domain.Source
		if err := rows.Scan(&src.ID, &src.Name, &src.URL, &src.IsFeed, &src.Limit); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		sources = append(sources, src)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return sources, nil
}

// AddSource stores a new source.
func (s *Store) AddSource(ctx context.Context, src domain.Source) error {
	_, err := sq.Insert("sources").
		Columns("id", "name", "url", "is_feed", "item_limit").
		Values(src.ID, src.Name, src.URL, src.IsFeed, src.Limit).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("insert source: %w", err)
	}
	return nil
}

// RemoveSource deletes a source by id. Removing an unknown id is a no-op.
func (s *Store) RemoveSource(ctx context.Context, id string) error {
	_, err := sq.Delete("sources").
		Where(sq.Eq{"id": id}).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("delete source: %w", err)
	}
	return nil
}

// SelectedModel returns the persisted model id and display name; both are
// empty when no model has been selected yet.
func (s *Store) SelectedModel(ctx context.Context) (id, name string, err error) {
	if id, err = s.value(ctx, keySelectedModelID); err != nil {
		return "", "", err
	}
	if name, err = s.value(ctx, keySelectedModelName); err != nil {
		return "", "", err
	}
	return id, name, nil
}

// SaveSelectedModel persists the model choice.
func (s *Store) SaveSelectedModel(ctx context.Context, id, name string) error {
	if err := s.setValue(ctx, keySelectedModelID, id); err != nil {
		return err
	}
	return s.setValue(ctx, keySelectedModelName, name)
}

// Token returns the stored bearer credential, empty when unset.
func (s *Store) Token(ctx context.Context) (string, error) {
	return s.value(ctx, keyAPIToken)
}

// SaveToken persists the bearer credential.
func (s *Store) SaveToken(ctx context.Context, token string) error {
	return s.setValue(ctx, keyAPIToken, token)
}

func (s *Store) value(ctx context.Context, key string) (string, error) {
	var value string
	err := sq.Select("value").
		From("settings").
		Where(sq.Eq{"key": key}).
		RunWith(s.db).
		QueryRowContext(ctx).
		Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read setting %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) setValue(ctx context.Context, key, value string) error {
	_, err := sq.Insert("settings").
		Columns("key", "value").
		Values(key, value).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value").
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("write setting %s: %w", key, err)
	}
	return nil
}
