package translate

import (
	"encoding/json"
	"net/http"

	"cardlens/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type translateRequest struct {
	Text           string `json:"text" validate:"required"`
	TargetLanguage string `json:"target_language" validate:"required,oneof=sv en de fr ja"`
}

type translateBatchRequest struct {
	Texts          []string `json:"texts" validate:"required,min=1"`
	TargetLanguage string   `json:"target_language" validate:"required,oneof=sv en de fr ja"`
}

// Translate handles POST /translate
func (h *HTTPHandler) Translate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "INVALID_BODY", "Request body must be valid JSON", nil)
		return
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid translate payload", details)
		return
	}

	translation := h.service.Translate(r.Context(), req.Text, req.TargetLanguage)
	httpx.JSONSuccess(r, w, map[string]string{"translation": translation}, nil)
}

// TranslateBatch handles POST /translate/batch
func (h *HTTPHandler) TranslateBatch(w http.ResponseWriter, r *http.Request) {
	var req translateBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "INVALID_BODY", "Request body must be valid JSON", nil)
		return
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid translate payload", details)
		return
	}

	translations := h.service.TranslateBatch(r.Context(), req.Texts, req.TargetLanguage)
	httpx.JSONSuccess(r, w, map[string]any{"translations": translations}, nil)
}
