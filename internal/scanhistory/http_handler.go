package scanhistory

import (
	"encoding/json"
	"net/http"

	"cardlens/internal/httpx"
)

type HTTPHandler struct {
	store *Store
}

func NewHTTPHandler(store *Store) *HTTPHandler {
	return &HTTPHandler{store: store}
}

type addScanRequest struct {
	Name           string `json:"name" validate:"required"`
	Type           string `json:"type" validate:"required"`
	Rarity         string `json:"rarity" validate:"required"`
	Set            string `json:"set" validate:"required"`
	Number         string `json:"number" validate:"required"`
	Condition      string `json:"condition"`
	EstimatedValue string `json:"estimatedValue"`
	Image          string `json:"image"`
}

// List handles GET /scans
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	cards := h.store.List()
	httpx.JSONSuccess(r, w, cards, map[string]any{
		"total": len(cards),
	})
}

// Add handles POST /scans
func (h *HTTPHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "INVALID_BODY", "Request body must be valid JSON", nil)
		return
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid scan payload", details)
		return
	}

	record := h.store.Add(r.Context(), NewCard{
		Name:           req.Name,
		Type:           req.Type,
		Rarity:         req.Rarity,
		Set:            req.Set,
		Number:         req.Number,
		Condition:      req.Condition,
		EstimatedValue: req.EstimatedValue,
		Image:          req.Image,
	})
	httpx.JSONCreated(r, w, record)
}

// Clear handles DELETE /scans
func (h *HTTPHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.store.Clear(r.Context())
	httpx.JSONNoContent(w)
}
