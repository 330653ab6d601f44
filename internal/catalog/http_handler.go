package catalog

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"cardlens/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func pagination(r *http.Request) (page, pageSize int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(r.URL.Query().Get("page_size"))
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// ListCards handles GET /cards
func (h *HTTPHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)

	q := Query{
		Search:   r.URL.Query().Get("q"),
		Rarity:   r.URL.Query().Get("rarity"),
		SetID:    r.URL.Query().Get("set"),
		OrderBy:  r.URL.Query().Get("order_by"),
		Page:     page,
		PageSize: pageSize,
	}
	if types := r.URL.Query().Get("types"); types != "" {
		q.Types = strings.Split(types, ",")
	}

	res, err := h.service.ListCards(r.Context(), q)
	if err != nil {
		httpx.JSONError(r, w, http.StatusBadGateway, "UPSTREAM_ERROR", "Card search failed", nil)
		return
	}

	httpx.JSONSuccess(r, w, res.Data, map[string]interface{}{
		"page":        res.Page,
		"page_size":   res.PageSize,
		"total_count": res.TotalCount,
	})
}

// GetCard handles GET /cards/{id}
func (h *HTTPHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	card, err := h.service.GetCard(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(r, w, http.StatusNotFound, "CARD_NOT_FOUND", "No card with that id", nil)
			return
		}
		httpx.JSONError(r, w, http.StatusBadGateway, "UPSTREAM_ERROR", "Card lookup failed", nil)
		return
	}
	httpx.JSONSuccess(r, w, card, nil)
}

// ListSets handles GET /sets
func (h *HTTPHandler) ListSets(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)

	res, err := h.service.ListSets(r.Context(), page, pageSize)
	if err != nil {
		httpx.JSONError(r, w, http.StatusBadGateway, "UPSTREAM_ERROR", "Set listing failed", nil)
		return
	}

	httpx.JSONSuccess(r, w, res.Data, map[string]interface{}{
		"page":        res.Page,
		"page_size":   res.PageSize,
		"total_count": res.TotalCount,
	})
}

// GetSet handles GET /sets/{id}
func (h *HTTPHandler) GetSet(w http.ResponseWriter, r *http.Request) {
	set, err := h.service.GetSet(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(r, w, http.StatusNotFound, "SET_NOT_FOUND", "No set with that id", nil)
			return
		}
		httpx.JSONError(r, w, http.StatusBadGateway, "UPSTREAM_ERROR", "Set lookup failed", nil)
		return
	}
	httpx.JSONSuccess(r, w, set, nil)
}

// SetCards handles GET /sets/{id}/cards
func (h *HTTPHandler) SetCards(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)

	res, err := h.service.SetCards(r.Context(), r.PathValue("id"), page, pageSize)
	if err != nil {
		httpx.JSONError(r, w, http.StatusBadGateway, "UPSTREAM_ERROR", "Set card listing failed", nil)
		return
	}

	httpx.JSONSuccess(r, w, res.Data, map[string]interface{}{
		"page":        res.Page,
		"page_size":   res.PageSize,
		"total_count": res.TotalCount,
	})
}
