package scanner

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

type analyzeRequest struct {
	Image string `json:"image" validate:"required,startswith=data:image/"`
}

// Analyze handles POST /scans/analyze
func (h *HTTPHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "INVALID_BODY", "Request body must be valid JSON", nil)
		return
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid analyze payload", details)
		return
	}

	analysis, record, err := h.service.Analyze(r.Context(), req.Image)
	if err != nil {
		httpx.JSONError(r, w, http.StatusBadGateway, "ANALYSIS_FAILED", "Card analysis failed, try again with a clearer photo", nil)
		return
	}

	httpx.JSONSuccess(r, w, map[string]interface{}{
		"analysis": analysis,
		"scan":     record,
	}, nil)
}
