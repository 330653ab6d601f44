// Package catalog serves the card and set browser. Reads go through a
// postgres cache in front of the Pokemon TCG API so browsing stays usable
// when the upstream is slow or down.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"cardlens/internal/platform/pokemontcg"
)

// Query describes a card listing request.
type Query struct {
	Search   string   // matched against the card name, prefix style
	Types    []string // e.g. Fire, Water
	Rarity   string
	SetID    string
	OrderBy  string
	Page     int
	PageSize int
}

// upstreamQ renders the query in the API's Lucene-style syntax.
func (q Query) upstreamQ() string {
	var parts []string
	if q.Search != "" {
		parts = append(parts, fmt.Sprintf("name:%q", q.Search+"*"))
	}
	for _, t := range q.Types {
		parts = append(parts, "types:"+t)
	}
	if q.Rarity != "" {
		parts = append(parts, fmt.Sprintf("rarity:%q", q.Rarity))
	}
	if q.SetID != "" {
		parts = append(parts, "set.id:"+q.SetID)
	}
	return strings.Join(parts, " ")
}

// Upstream is the card database the catalog fronts.
type Upstream interface {
	SearchCards(ctx context.Context, query string, page, pageSize int, orderBy string) (*pokemontcg.CardPage, error)
	GetCard(ctx context.Context, id string) (*pokemontcg.Card, error)
	ListSets(ctx context.Context, page, pageSize int) (*pokemontcg.SetPage, error)
	GetSet(ctx context.Context, id string) (*pokemontcg.SetRef, error)
}

// Cache stores upstream responses. Get methods return (nil, nil) on a miss;
// maxAgeSeconds <= 0 accepts entries of any age.
type Cache interface {
	GetCard(ctx context.Context, id string, maxAgeSeconds float64) (*pokemontcg.Card, error)
	PutCard(ctx context.Context, card *pokemontcg.Card) error
	GetSet(ctx context.Context, id string, maxAgeSeconds float64) (*pokemontcg.SetRef, error)
	PutSet(ctx context.Context, set *pokemontcg.SetRef) error
}
