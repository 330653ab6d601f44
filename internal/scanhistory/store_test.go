package scanhistory

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	data   map[string][]byte
	getErr error
	setErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{data: map[string][]byte{}}
}

func (f *fakeStorage) Get(_ context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.data[key], nil
}

func (f *fakeStorage) Set(_ context.Context, key string, value []byte) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = value
	return nil
}

func TestStore_AddAssignsIDAndTimestamp(t *testing.T) {
	ctx := context.Background()
	storage := newFakeStorage()
	store := NewStore(ctx, storage)

	record := store.Add(ctx, NewCard{Name: "Pikachu", Set: "Base Set", Number: "58/102"})

	assert.Regexp(t, `^card-\d+-[0-9a-f]{6}$`, record.ID)
	assert.NotEmpty(t, record.ScannedAt)

	// Persisted synchronously.
	var persisted []ScannedCard
	require.NoError(t, json.Unmarshal(storage.data[StorageKey], &persisted))
	require.Len(t, persisted, 1)
	assert.Equal(t, record.ID, persisted[0].ID)
}

func TestStore_AddGeneratesUniqueIDs(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, newFakeStorage())

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		record := store.Add(ctx, NewCard{Name: "Eevee", Set: "Jungle", Number: "51/64"})
		assert.False(t, seen[record.ID], "duplicate id %s", record.ID)
		seen[record.ID] = true
	}
}

func TestStore_AddReplacesDuplicateTuple(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, newFakeStorage())

	store.Add(ctx, NewCard{Name: "Pikachu", Set: "Base Set", Number: "58/102"})
	store.Add(ctx, NewCard{Name: "Charizard", Set: "Base Set", Number: "4/102"})
	store.Add(ctx, NewCard{Name: "Pikachu", Set: "Base Set", Number: "58/102", Condition: "Mint"})

	cards := store.List()
	require.Len(t, cards, 2)
	assert.Equal(t, "Pikachu", cards[0].Name)
	assert.Equal(t, "Mint", cards[0].Condition)
	assert.Equal(t, "Charizard", cards[1].Name)
}

func TestStore_AddDedupeIsCaseSensitive(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, newFakeStorage())

	store.Add(ctx, NewCard{Name: "Pikachu", Set: "Base Set", Number: "58/102"})
	store.Add(ctx, NewCard{Name: "pikachu", Set: "Base Set", Number: "58/102"})

	assert.Len(t, store.List(), 2)
}

func TestStore_ListIsMostRecentFirst(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, newFakeStorage())

	store.Add(ctx, NewCard{Name: "Bulbasaur", Set: "Base Set", Number: "44/102"})
	store.Add(ctx, NewCard{Name: "Squirtle", Set: "Base Set", Number: "63/102"})
	store.Add(ctx, NewCard{Name: "Charmander", Set: "Base Set", Number: "46/102"})

	cards := store.List()
	require.Len(t, cards, 3)
	assert.Equal(t, "Charmander", cards[0].Name)
	assert.Equal(t, "Squirtle", cards[1].Name)
	assert.Equal(t, "Bulbasaur", cards[2].Name)
}

func TestStore_ClearPersistsEmptyState(t *testing.T) {
	ctx := context.Background()
	storage := newFakeStorage()
	store := NewStore(ctx, storage)

	store.Add(ctx, NewCard{Name: "Mew", Set: "Promo", Number: "8"})
	store.Clear(ctx)

	assert.Empty(t, store.List())
	assert.JSONEq(t, "[]", string(storage.data[StorageKey]))
}

func TestStore_ReadFailureBehavesAsEmpty(t *testing.T) {
	ctx := context.Background()
	storage := newFakeStorage()
	storage.data[StorageKey] = []byte(`[{"id":"card-1","name":"Mewtwo"}]`)
	storage.getErr = errors.New("storage unavailable")

	store := NewStore(ctx, storage)
	assert.Empty(t, store.List())
}

func TestStore_CorruptStateBehavesAsEmpty(t *testing.T) {
	ctx := context.Background()
	storage := newFakeStorage()
	storage.data[StorageKey] = []byte(`{not json`)

	store := NewStore(ctx, storage)
	assert.Empty(t, store.List())
}

func TestStore_WriteFailureKeepsInMemoryState(t *testing.T) {
	ctx := context.Background()
	storage := newFakeStorage()
	store := NewStore(ctx, storage)
	storage.setErr = errors.New("disk full")

	store.Add(ctx, NewCard{Name: "Snorlax", Set: "Jungle", Number: "11/64"})

	require.Len(t, store.List(), 1)
	assert.Empty(t, storage.data[StorageKey])
}

func TestStore_RefreshReplacesStateFromStorage(t *testing.T) {
	ctx := context.Background()
	storage := newFakeStorage()
	store := NewStore(ctx, storage)

	store.Add(ctx, NewCard{Name: "Local", Set: "Base Set", Number: "1/102"})

	// Another context rewrites the stored array.
	external := []ScannedCard{{ID: "card-ext", Name: "External", Set: "Fossil", Number: "5/62", ScannedAt: "2024-01-01T00:00:00Z"}}
	raw, err := json.Marshal(external)
	require.NoError(t, err)
	storage.data[StorageKey] = raw

	store.Refresh(ctx)

	cards := store.List()
	require.Len(t, cards, 1)
	assert.Equal(t, "External", cards[0].Name)
}

func TestStore_LoadsExistingHistoryAtStartup(t *testing.T) {
	ctx := context.Background()
	storage := newFakeStorage()
	existing := []ScannedCard{{ID: "card-old", Name: "Dragonite", Set: "Fossil", Number: "4/62", ScannedAt: "2024-01-01T00:00:00Z"}}
	raw, err := json.Marshal(existing)
	require.NoError(t, err)
	storage.data[StorageKey] = raw

	store := NewStore(ctx, storage)

	cards := store.List()
	require.Len(t, cards, 1)
	assert.Equal(t, "Dragonite", cards[0].Name)
}
