package aigateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatReply(t *testing.T, content string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		})
	}
}

func TestClient_AnalyzeCard(t *testing.T) {
	analysis := `{"name":"Charizard","type":"Fire","rarity":"Rare Holo","set":"Base Set","number":"4/102","estimatedValue":"1200-1500 kr","condition":"Near Mint"}`

	t.Run("decodes a clean JSON reply", func(t *testing.T) {
		srv := httptest.NewServer(chatReply(t, analysis))
		defer srv.Close()

		c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL})
		got, err := c.AnalyzeCard(context.Background(), "data:image/jpeg;base64,AAAA")
		require.NoError(t, err)

		assert.Equal(t, "Charizard", got.Name)
		assert.Equal(t, "Base Set", got.Set)
		assert.Equal(t, "4/102", got.Number)
		assert.Equal(t, "1200-1500 kr", got.EstimatedValue)
	})

	t.Run("extracts the object from surrounding prose", func(t *testing.T) {
		srv := httptest.NewServer(chatReply(t, "Here is the analysis:\n```json\n"+analysis+"\n```\nLet me know!"))
		defer srv.Close()

		c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL})
		got, err := c.AnalyzeCard(context.Background(), "data:image/jpeg;base64,AAAA")
		require.NoError(t, err)
		assert.Equal(t, "Charizard", got.Name)
	})

	t.Run("reply without JSON is an error", func(t *testing.T) {
		srv := httptest.NewServer(chatReply(t, "I cannot identify this card."))
		defer srv.Close()

		c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL})
		_, err := c.AnalyzeCard(context.Background(), "data:image/jpeg;base64,AAAA")
		assert.Error(t, err)
	})

	t.Run("non-2xx status is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		defer srv.Close()

		c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL})
		_, err := c.AnalyzeCard(context.Background(), "data:image/jpeg;base64,AAAA")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "429")
	})
}

func TestClient_Translate(t *testing.T) {
	t.Run("returns the reply text", func(t *testing.T) {
		srv := httptest.NewServer(chatReply(t, "Scan card"))
		defer srv.Close()

		c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL})
		got, err := c.Translate(context.Background(), "Scanna kort", "en")
		require.NoError(t, err)
		assert.Equal(t, "Scan card", got)
	})

	t.Run("empty reply falls back to the input", func(t *testing.T) {
		srv := httptest.NewServer(chatReply(t, ""))
		defer srv.Close()

		c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL})
		got, err := c.Translate(context.Background(), "Scanna kort", "en")
		require.NoError(t, err)
		assert.Equal(t, "Scanna kort", got)
	})
}
