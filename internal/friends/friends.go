// Package friends keeps the user's friends list and builds invite links.
// Like the scan history it lives in durable key-value storage as one JSON
// array under a fixed key.
package friends

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"

	log "github.com/sirupsen/logrus"
)

// StorageKey is the durable-storage key the friends array lives under.
const StorageKey = "friends-list"

// DefaultInviteName is shown to the invitee when no email is attached.
const DefaultInviteName = "Pokemon-samlare"

// Friend is one accepted invite.
type Friend struct {
	ID    string  `json:"id"`
	Email *string `json:"email,omitempty"`
}

// Storage is the durable surface the list is persisted to.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Store keeps the friends list in memory and rewrites the persisted array on
// every mutation. Storage failures degrade to logging, same trade-off as the
// scan history.
type Store struct {
	storage Storage

	mu      sync.Mutex
	friends []Friend
}

func NewStore(ctx context.Context, storage Storage) *Store {
	s := &Store{storage: storage}
	s.friends = s.read(ctx)
	return s
}

// Accept adds the inviter to the list. Accepting your own invite or an
// invite from an existing friend is a silent no-op; the returned bool tells
// whether the list changed.
func (s *Store) Accept(ctx context.Context, selfID, inviterID string, email *string) bool {
	if inviterID == "" || inviterID == selfID {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.friends {
		if f.ID == inviterID {
			return false
		}
	}

	s.friends = append(s.friends, Friend{ID: inviterID, Email: email})
	s.write(ctx, s.friends)
	return true
}

// Remove deletes the friend with the given id and reports whether it existed.
func (s *Store) Remove(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]Friend, 0, len(s.friends))
	for _, f := range s.friends {
		if f.ID != id {
			kept = append(kept, f)
		}
	}
	if len(kept) == len(s.friends) {
		return false
	}

	s.friends = kept
	s.write(ctx, s.friends)
	return true
}

// List returns a snapshot of the friends list.
func (s *Store) List() []Friend {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Friend, len(s.friends))
	copy(out, s.friends)
	return out
}

// Refresh replaces the in-memory list with the persisted state. Wired to the
// storage change notification; last writer wins.
func (s *Store) Refresh(ctx context.Context) {
	friends := s.read(ctx)
	s.mu.Lock()
	s.friends = friends
	s.mu.Unlock()
}

// InviteLink builds the shareable invite URL for userID. The invitee sees
// email, or a generic collector name when none is given.
func InviteLink(baseURL, userID string, email *string) string {
	q := url.Values{}
	q.Set("invite", userID)
	if email != nil && *email != "" {
		q.Set("email", *email)
	} else {
		q.Set("email", DefaultInviteName)
	}
	return baseURL + "/?" + q.Encode()
}

func (s *Store) read(ctx context.Context) []Friend {
	raw, err := s.storage.Get(ctx, StorageKey)
	if err != nil {
		log.WithError(err).Error("failed to read friends list from storage")
		return nil
	}
	if len(raw) == 0 {
		return nil
	}

	var friends []Friend
	if err := json.Unmarshal(raw, &friends); err != nil {
		log.WithError(err).Error("failed to decode friends list")
		return nil
	}
	return friends
}

func (s *Store) write(ctx context.Context, friends []Friend) {
	raw, err := json.Marshal(friends)
	if err != nil {
		log.WithError(err).Error("failed to encode friends list")
		return
	}
	if err := s.storage.Set(ctx, StorageKey, raw); err != nil {
		log.WithError(err).Error("failed to save friends list")
	}
}
