// Package pokemontcg is a client for the Pokemon TCG API (api.pokemontcg.io).
package pokemontcg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// ErrNotFound reports that the upstream has no card or set with the given id.
var ErrNotFound = errors.New("pokemontcg: not found")

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	maxRetries int
}

// NewClient builds a client. apiKey may be empty; the API then serves
// requests at a lower unauthenticated rate limit.
func NewClient(apiKey string, rps int, maxRetries int) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL:    "https://api.pokemontcg.io/v2",
		apiKey:     apiKey,
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
		maxRetries: maxRetries,
	}
}

// SetRef is the set block embedded in a card.
type SetRef struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Series       string `json:"series"`
	PrintedTotal int    `json:"printedTotal"`
	Total        int    `json:"total"`
	ReleaseDate  string `json:"releaseDate"`
	Images       struct {
		Symbol string `json:"symbol"`
		Logo   string `json:"logo"`
	} `json:"images"`
}

// TypeValue is a weakness or resistance entry.
type TypeValue struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Cardmarket carries the market price block when the API has one.
type Cardmarket struct {
	URL    string `json:"url"`
	Prices struct {
		AverageSellPrice float64 `json:"averageSellPrice"`
		TrendPrice       float64 `json:"trendPrice"`
	} `json:"prices"`
}

// Card matches the API's card object; only the fields the app reads.
type Card struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Types    []string `json:"types"`
	HP       string   `json:"hp"`
	Rarity   string   `json:"rarity"`
	Number   string   `json:"number"`
	Artist   string   `json:"artist"`
	Set      SetRef   `json:"set"`
	Attacks  []struct {
		Name   string   `json:"name"`
		Damage string   `json:"damage"`
		Cost   []string `json:"cost"`
		Text   string   `json:"text"`
	} `json:"attacks"`
	Weaknesses  []TypeValue `json:"weaknesses"`
	Resistances []TypeValue `json:"resistances"`
	RetreatCost []string    `json:"retreatCost"`
	Images      struct {
		Small string `json:"small"`
		Large string `json:"large"`
	} `json:"images"`
	Cardmarket *Cardmarket `json:"cardmarket,omitempty"`
}

// CardPage is the API's paged card envelope.
type CardPage struct {
	Data       []Card `json:"data"`
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
	Count      int    `json:"count"`
	TotalCount int    `json:"totalCount"`
}

// SetPage is the API's paged set envelope.
type SetPage struct {
	Data       []SetRef `json:"data"`
	Page       int      `json:"page"`
	PageSize   int      `json:"pageSize"`
	Count      int      `json:"count"`
	TotalCount int      `json:"totalCount"`
}

// SearchCards runs a Lucene-style query, e.g. `name:"char*" set.id:base1`.
// An empty query lists all cards.
func (c *Client) SearchCards(ctx context.Context, query string, page, pageSize int, orderBy string) (*CardPage, error) {
	q := url.Values{}
	if query != "" {
		q.Set("q", query)
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(pageSize))
	if orderBy != "" {
		q.Set("orderBy", orderBy)
	}

	var res CardPage
	if err := c.get(ctx, c.baseURL+"/cards?"+q.Encode(), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) GetCard(ctx context.Context, id string) (*Card, error) {
	var res struct {
		Data Card `json:"data"`
	}
	if err := c.get(ctx, c.baseURL+"/cards/"+url.PathEscape(id), &res); err != nil {
		return nil, err
	}
	return &res.Data, nil
}

func (c *Client) ListSets(ctx context.Context, page, pageSize int) (*SetPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(pageSize))
	q.Set("orderBy", "-releaseDate")

	var res SetPage
	if err := c.get(ctx, c.baseURL+"/sets?"+q.Encode(), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) GetSet(ctx context.Context, id string) (*SetRef, error) {
	var res struct {
		Data SetRef `json:"data"`
	}
	if err := c.get(ctx, c.baseURL+"/sets/"+url.PathEscape(id), &res); err != nil {
		return nil, err
	}
	return &res.Data, nil
}

func (c *Client) get(ctx context.Context, url string, target interface{}) error {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			// Backoff: 1s, 2s, 4s...
			backoff := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
		if err != nil {
			return err
		}
		if c.apiKey != "" {
			req.Header.Set("X-Api-Key", c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			if resp.StatusCode == http.StatusNotFound {
				return ErrNotFound
			}
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				lastErr = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
				continue
			}
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		return json.NewDecoder(resp.Body).Decode(target)
	}
	return fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}
