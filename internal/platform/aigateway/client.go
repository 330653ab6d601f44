// Package aigateway is the client for the hosted AI gateway the app relies
// on for card analysis and UI translation. The gateway speaks the OpenAI
// chat-completions dialect.
package aigateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// Config for the gateway client.
type Config struct {
	APIKey  string        // if empty, falls back to env AI_GATEWAY_API_KEY
	BaseURL string        // default https://ai.gateway.lovable.dev/v1
	Model   string        // default google/gemini-2.5-flash
	Timeout time.Duration // http client timeout
}

type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("AI_GATEWAY_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://ai.gateway.lovable.dev/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "google/gemini-2.5-flash"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Attack is one attack printed on a card.
type Attack struct {
	Name   string   `json:"name"`
	Damage string   `json:"damage"`
	Cost   []string `json:"cost"`
}

// TypeValue is a weakness or resistance entry.
type TypeValue struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// CardAnalysis is the structured description the gateway returns for an
// uploaded card image. EstimatedValue is a SEK price range in text form,
// e.g. "1200-1500 kr".
type CardAnalysis struct {
	Name           string      `json:"name"`
	Type           string      `json:"type"`
	Rarity         string      `json:"rarity"`
	Set            string      `json:"set"`
	SetCode        string      `json:"setCode,omitempty"`
	Number         string      `json:"number"`
	HP             string      `json:"hp,omitempty"`
	Attacks        []Attack    `json:"attacks,omitempty"`
	Weaknesses     []TypeValue `json:"weaknesses,omitempty"`
	Resistances    []TypeValue `json:"resistances,omitempty"`
	RetreatCost    int         `json:"retreatCost,omitempty"`
	EstimatedValue string      `json:"estimatedValue,omitempty"`
	Condition      string      `json:"condition,omitempty"`
	Description    string      `json:"description,omitempty"`
}

const analyzeSystemPrompt = `You are an expert on Pokemon trading cards. Analyze the card image very carefully.

Cross-check name, set, number and rarity against official sources (pokemon.com, Bulbapedia). Report a value as "Unknown" instead of guessing when it cannot be confirmed.

Set identification is critical:
1. Start from the BOTTOM-RIGHT CORNER: read the set symbol and the card number (format "X/Y").
2. Match the symbol against known sets and check the card number against plausible set sizes (Base Set 102, Jungle 64, Fossil 62, Team Rocket 82, Base Set 2 130, Gym Heroes 132, Gym Challenge 132, Neo Genesis 111, Neo Discovery 75).
3. A "2" above a star means Base Set 2 and an "R" symbol means Team Rocket; pick the specific set, not the original.
4. For modern sets, identify the logo (e.g. Evolving Skies, Celebrations, Crown Zenith) and validate that the card number falls within the set size.
5. If the symbol is unclear, also compare the number's typeface/placement and the card layout against known sets, and only pick a set that fits both symbol and number.
6. Prefer caution over guessing: answer "Unknown" when symbol and number cannot be matched to a set with confidence.

Classic set symbols, short checklist:
- Base Set (1999): no symbol, or a "1st Edition" stamp
- Jungle: leaf symbol
- Fossil: fossil spiral
- Team Rocket: R symbol
- Base Set 2: a "2" above a star
- Gym Heroes/Challenge: gym-badge style symbols
- Neo series: Neo text symbols

Respond ONLY with valid JSON in exactly this format (no extra text):
{
  "name": "card name",
  "type": "type (Fire, Water, Lightning, Grass, Psychic, Fighting, Darkness, Metal, Dragon, Fairy, Colorless)",
  "rarity": "rarity (Common, Uncommon, Rare, Rare Holo, Ultra Rare, Secret Rare)",
  "set": "exact set name based on the bottom-right symbol (or 'Unknown' when unsure)",
  "setCode": "set code if visible",
  "number": "card number/total (from the bottom-right corner)",
  "hp": "HP value",
  "attacks": [{"name": "attack name", "damage": "damage", "cost": ["energy type"]}],
  "weaknesses": [{"type": "type", "value": "value"}],
  "resistances": [{"type": "type", "value": "value"}],
  "retreatCost": count,
  "estimatedValue": "price range in SEK, e.g. 1200-1500 kr",
  "condition": "Near Mint/Lightly Played/Moderately Played/Heavily Played/Damaged",
  "description": "card description"
}`

const analyzeUserPrompt = `Analyze this Pokemon card from the image. Identify the set by reading the symbol first, then double-check that the card number fits within the set's size. If symbol and number disagree, report the set as "Unknown" instead of guessing.`

const translateSystemPrompt = `You are a translator for a Pokemon card collecting app. Translate the user's text into the requested language. Respond with the translated text only, no quotes and no commentary.`

var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

type message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

// AnalyzeCard sends the card image (a data URI) to the gateway and decodes
// the structured description from the reply.
func (c *Client) AnalyzeCard(ctx context.Context, imageDataURI string) (CardAnalysis, error) {
	content, err := c.complete(ctx, []message{
		{Role: "system", Content: analyzeSystemPrompt},
		{Role: "user", Content: []contentPart{
			{Type: "text", Text: analyzeUserPrompt},
			{Type: "image_url", ImageURL: &imageURL{URL: imageDataURI}},
		}},
	})
	if err != nil {
		return CardAnalysis{}, err
	}

	// The model wraps the object in prose or fencing often enough that we
	// extract the first {...} span instead of decoding content directly.
	raw := jsonObjectPattern.FindString(content)
	if raw == "" {
		return CardAnalysis{}, fmt.Errorf("no JSON object in gateway reply")
	}

	var analysis CardAnalysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return CardAnalysis{}, fmt.Errorf("decode card analysis: %w", err)
	}
	return analysis, nil
}

// Translate implements the translation collaborator on top of the same
// gateway. An empty reply falls back to the original text.
func (c *Client) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	content, err := c.complete(ctx, []message{
		{Role: "system", Content: translateSystemPrompt},
		{Role: "user", Content: fmt.Sprintf("Target language: %s\n\n%s", targetLanguage, text)},
	})
	if err != nil {
		return "", err
	}
	if content == "" {
		return text, nil
	}
	return content, nil
}

func (c *Client) complete(ctx context.Context, messages []message) (string, error) {
	start := time.Now()
	body := map[string]any{
		"model":    c.cfg.Model,
		"messages": messages,
	}

	raw, err := c.post(ctx, strings.TrimRight(c.cfg.BaseURL, "/")+"/chat/completions", body)
	if err != nil {
		return "", err
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return "", fmt.Errorf("decode gateway response: %w", err)
	}
	if len(cc.Choices) == 0 {
		return "", fmt.Errorf("no choices in gateway response")
	}

	log.WithFields(log.Fields{
		"model":      c.cfg.Model,
		"elapsed_ms": time.Since(start).Milliseconds(),
	}).Debug("ai gateway completion")

	return strings.TrimSpace(cc.Choices[0].Message.Content), nil
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway http error: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read gateway response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("gateway status %d: %s", resp.StatusCode, raw)
	}
	return raw, nil
}
