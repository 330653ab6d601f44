package scanhistory

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// StorageKey is the durable-storage key the history array lives under.
const StorageKey = "pokemon_scanned_cards"

// Storage is the durable surface the history is persisted to.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Store keeps the device's scan history ordered most-recent-first. Reads are
// served from memory; every mutation synchronously rewrites the persisted
// array. The history is a convenience cache, not a system of record, so
// storage failures degrade to logging.
type Store struct {
	storage Storage

	mu    sync.Mutex
	cards []ScannedCard
}

func NewStore(ctx context.Context, storage Storage) *Store {
	s := &Store{storage: storage}
	s.cards = s.read(ctx)
	return s
}

// Add assigns an id and capture timestamp, drops any existing record with
// the same (name, set, number) tuple and inserts the new record at the
// front. Tuple matching is exact: the client never normalized case here and
// previously stored histories rely on that.
func (s *Store) Add(ctx context.Context, card NewCard) ScannedCard {
	record := ScannedCard{
		ID:             newID(),
		Name:           card.Name,
		Type:           card.Type,
		Rarity:         card.Rarity,
		Set:            card.Set,
		Number:         card.Number,
		Condition:      card.Condition,
		EstimatedValue: card.EstimatedValue,
		Image:          card.Image,
		ScannedAt:      time.Now().UTC().Format(time.RFC3339),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	updated := make([]ScannedCard, 0, len(s.cards)+1)
	updated = append(updated, record)
	for _, existing := range s.cards {
		if existing.Name == record.Name && existing.Set == record.Set && existing.Number == record.Number {
			continue
		}
		updated = append(updated, existing)
	}
	s.cards = updated
	s.write(ctx, s.cards)

	return record
}

// Clear empties the history and persists the empty state.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cards = []ScannedCard{}
	s.write(ctx, s.cards)
}

// List returns a snapshot of the history, most recently scanned first.
func (s *Store) List() []ScannedCard {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ScannedCard, len(s.cards))
	copy(out, s.cards)
	return out
}

// Refresh replaces the in-memory history with the persisted state. It is
// wired to the storage change notification, so a write from another context
// wins over local state (last-writer-wins, no merge).
func (s *Store) Refresh(ctx context.Context) {
	cards := s.read(ctx)
	s.mu.Lock()
	s.cards = cards
	s.mu.Unlock()
}

func (s *Store) read(ctx context.Context) []ScannedCard {
	raw, err := s.storage.Get(ctx, StorageKey)
	if err != nil {
		log.WithError(err).Error("failed to read scan history from storage")
		return nil
	}
	if len(raw) == 0 {
		return nil
	}

	var cards []ScannedCard
	if err := json.Unmarshal(raw, &cards); err != nil {
		log.WithError(err).Error("failed to decode scan history")
		return nil
	}
	return cards
}

func (s *Store) write(ctx context.Context, cards []ScannedCard) {
	raw, err := json.Marshal(cards)
	if err != nil {
		log.WithError(err).Error("failed to encode scan history")
		return
	}
	if err := s.storage.Set(ctx, StorageKey, raw); err != nil {
		// In-memory state stays ahead of storage until the next successful
		// write; a restart loses the unsaved mutation.
		log.WithError(err).Error("failed to save scan history")
	}
}

// newID combines a millisecond timestamp with a random suffix so rapid
// successive scans never collide.
func newID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("card-%d-%s", time.Now().UnixMilli(), suffix)
}
