// Package kvstore is the durable key/value surface the client-side features
// persist into. It replaces the browser localStorage the app grew out of:
// synchronous get/set of JSON blobs by string key, plus a cross-context
// change notification channel standing in for the window "storage" event.
package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const notifyChannel = "app_storage"

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Get returns the blob stored under key, or nil when the key is absent.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(ctx, "SELECT value FROM app_storage WHERE key = $1", key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("kvstore get %s: %w", key, err)
	}
	return value, nil
}

// Set upserts the blob under key and notifies every listening context about
// the change.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("kvstore set %s: %w", key, err)
	}
	defer tx.Rollback(ctx)

	const upsertSQL = `
		INSERT INTO app_storage (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = now()`

	if _, err := tx.Exec(ctx, upsertSQL, key, value); err != nil {
		return fmt.Errorf("kvstore set %s: %w", key, err)
	}
	if _, err := tx.Exec(ctx, "SELECT pg_notify($1, $2)", notifyChannel, key); err != nil {
		return fmt.Errorf("kvstore notify %s: %w", key, err)
	}
	return tx.Commit(ctx)
}
