package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"cardlens/internal/platform/pokemontcg"
)

// PostgresCache stores upstream card and set payloads as raw JSON with a
// fetch timestamp, so freshness is decided at read time.
type PostgresCache struct {
	db *pgxpool.Pool
}

func NewPostgresCache(db *pgxpool.Pool) *PostgresCache {
	return &PostgresCache{db: db}
}

func (c *PostgresCache) GetCard(ctx context.Context, id string, maxAgeSeconds float64) (*pokemontcg.Card, error) {
	raw, err := c.getRaw(ctx, "catalog_cards", id, maxAgeSeconds)
	if err != nil || raw == nil {
		return nil, err
	}

	var card pokemontcg.Card
	if err := json.Unmarshal(raw, &card); err != nil {
		return nil, fmt.Errorf("decode cached card %s: %w", id, err)
	}
	return &card, nil
}

func (c *PostgresCache) PutCard(ctx context.Context, card *pokemontcg.Card) error {
	raw, err := json.Marshal(card)
	if err != nil {
		return fmt.Errorf("encode card %s: %w", card.ID, err)
	}

	_, err = c.db.Exec(ctx, `
		INSERT INTO catalog_cards (id, set_id, raw_json, fetched_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (id) DO UPDATE
		SET set_id = EXCLUDED.set_id, raw_json = EXCLUDED.raw_json, fetched_at = now()
	`, card.ID, card.Set.ID, raw)
	if err != nil {
		return fmt.Errorf("upsert card %s: %w", card.ID, err)
	}
	return nil
}

func (c *PostgresCache) GetSet(ctx context.Context, id string, maxAgeSeconds float64) (*pokemontcg.SetRef, error) {
	raw, err := c.getRaw(ctx, "catalog_sets", id, maxAgeSeconds)
	if err != nil || raw == nil {
		return nil, err
	}

	var set pokemontcg.SetRef
	if err := json.Unmarshal(raw, &set); err != nil {
		return nil, fmt.Errorf("decode cached set %s: %w", id, err)
	}
	return &set, nil
}

func (c *PostgresCache) PutSet(ctx context.Context, set *pokemontcg.SetRef) error {
	raw, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("encode set %s: %w", set.ID, err)
	}

	_, err = c.db.Exec(ctx, `
		INSERT INTO catalog_sets (id, raw_json, fetched_at)
		VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE
		SET raw_json = EXCLUDED.raw_json, fetched_at = now()
	`, set.ID, raw)
	if err != nil {
		return fmt.Errorf("upsert set %s: %w", set.ID, err)
	}
	return nil
}

func (c *PostgresCache) getRaw(ctx context.Context, table, id string, maxAgeSeconds float64) ([]byte, error) {
	query := fmt.Sprintf(`SELECT raw_json FROM %s WHERE id = $1`, table)
	args := []any{id}
	if maxAgeSeconds > 0 {
		query += ` AND fetched_at > now() - make_interval(secs => $2)`
		args = append(args, maxAgeSeconds)
	}

	var raw []byte
	err := c.db.QueryRow(ctx, query, args...).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", table, id, err)
	}
	return raw, nil
}
