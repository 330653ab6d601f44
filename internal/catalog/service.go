package catalog

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"cardlens/internal/platform/pokemontcg"
)

// ErrNotFound reports that neither the upstream nor the cache knows the id.
var ErrNotFound = errors.New("catalog: not found")

const defaultMaxAge = 24 * time.Hour

type Service struct {
	upstream Upstream
	cache    Cache
	maxAge   time.Duration
}

func NewService(upstream Upstream, cache Cache, maxAge time.Duration) *Service {
	if maxAge <= 0 {
		maxAge = defaultMaxAge
	}
	return &Service{upstream: upstream, cache: cache, maxAge: maxAge}
}

// ListCards queries the upstream and refreshes the card cache from the
// results. An upstream failure degrades to an empty page rather than an
// error; listings are not served from cache because the cache is keyed by
// id, not by query.
func (s *Service) ListCards(ctx context.Context, q Query) (*pokemontcg.CardPage, error) {
	page, err := s.upstream.SearchCards(ctx, q.upstreamQ(), q.Page, q.PageSize, q.OrderBy)
	if err != nil {
		log.WithError(err).Warn("card search failed, serving empty page")
		return &pokemontcg.CardPage{Data: []pokemontcg.Card{}, Page: q.Page, PageSize: q.PageSize}, nil
	}

	for i := range page.Data {
		if err := s.cache.PutCard(ctx, &page.Data[i]); err != nil {
			log.WithError(err).WithField("card_id", page.Data[i].ID).Warn("card cache write failed")
		}
	}
	return page, nil
}

// GetCard serves a fresh cache hit, otherwise asks the upstream. When the
// upstream fails, a stale cache entry is better than nothing.
func (s *Service) GetCard(ctx context.Context, id string) (*pokemontcg.Card, error) {
	cached, err := s.cache.GetCard(ctx, id, s.maxAge.Seconds())
	if err != nil {
		log.WithError(err).WithField("card_id", id).Warn("card cache read failed")
	}
	if cached != nil {
		return cached, nil
	}

	card, err := s.upstream.GetCard(ctx, id)
	if err == nil {
		if err := s.cache.PutCard(ctx, card); err != nil {
			log.WithError(err).WithField("card_id", id).Warn("card cache write failed")
		}
		return card, nil
	}
	if errors.Is(err, pokemontcg.ErrNotFound) {
		return nil, ErrNotFound
	}

	log.WithError(err).WithField("card_id", id).Warn("card lookup failed, trying stale cache")
	stale, cacheErr := s.cache.GetCard(ctx, id, 0)
	if cacheErr == nil && stale != nil {
		return stale, nil
	}
	return nil, err
}

func (s *Service) ListSets(ctx context.Context, page, pageSize int) (*pokemontcg.SetPage, error) {
	res, err := s.upstream.ListSets(ctx, page, pageSize)
	if err != nil {
		log.WithError(err).Warn("set listing failed, serving empty page")
		return &pokemontcg.SetPage{Data: []pokemontcg.SetRef{}, Page: page, PageSize: pageSize}, nil
	}

	for i := range res.Data {
		if err := s.cache.PutSet(ctx, &res.Data[i]); err != nil {
			log.WithError(err).WithField("set_id", res.Data[i].ID).Warn("set cache write failed")
		}
	}
	return res, nil
}

func (s *Service) GetSet(ctx context.Context, id string) (*pokemontcg.SetRef, error) {
	cached, err := s.cache.GetSet(ctx, id, s.maxAge.Seconds())
	if err != nil {
		log.WithError(err).WithField("set_id", id).Warn("set cache read failed")
	}
	if cached != nil {
		return cached, nil
	}

	set, err := s.upstream.GetSet(ctx, id)
	if err == nil {
		if err := s.cache.PutSet(ctx, set); err != nil {
			log.WithError(err).WithField("set_id", id).Warn("set cache write failed")
		}
		return set, nil
	}
	if errors.Is(err, pokemontcg.ErrNotFound) {
		return nil, ErrNotFound
	}

	log.WithError(err).WithField("set_id", id).Warn("set lookup failed, trying stale cache")
	stale, cacheErr := s.cache.GetSet(ctx, id, 0)
	if cacheErr == nil && stale != nil {
		return stale, nil
	}
	return nil, err
}

// SetCards lists the cards of one set ordered by collector number.
func (s *Service) SetCards(ctx context.Context, setID string, page, pageSize int) (*pokemontcg.CardPage, error) {
	return s.ListCards(ctx, Query{SetID: setID, OrderBy: "number", Page: page, PageSize: pageSize})
}
