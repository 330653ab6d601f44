package currency

import (
	"net/http"
	"strconv"

	"cardlens/internal/httpx"
)

type HTTPHandler struct{}

func NewHTTPHandler() *HTTPHandler {
	return &HTTPHandler{}
}

// Convert handles GET /currency/convert. Exactly one of value (numeric SEK)
// or range (text like "1200-1500 kr") is converted into the requested
// currency.
func (h *HTTPHandler) Convert(w http.ResponseWriter, r *http.Request) {
	c := Currency(r.URL.Query().Get("currency"))
	if !Valid(c) {
		httpx.JSONError(r, w, http.StatusBadRequest, "INVALID_CURRENCY", "currency must be one of SEK, USD, EUR, JPY", nil)
		return
	}

	if raw := r.URL.Query().Get("value"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			httpx.JSONError(r, w, http.StatusBadRequest, "INVALID_VALUE", "value must be numeric", nil)
			return
		}
		httpx.JSONSuccess(r, w, map[string]string{"converted": ConvertValue(value, c)}, nil)
		return
	}

	if rangeText := r.URL.Query().Get("range"); rangeText != "" {
		httpx.JSONSuccess(r, w, map[string]string{"converted": ConvertPriceRange(rangeText, c)}, nil)
		return
	}

	httpx.JSONError(r, w, http.StatusBadRequest, "MISSING_PARAMETER", "either value or range is required", nil)
}
