package friends

import (
	"encoding/json"
	"net/http"

	"cardlens/internal/httpx"
)

// HTTPHandler exposes the friends list. selfID identifies this device's
// user so accepting your own invite link stays a no-op; baseURL is the
// public origin invite links point at.
type HTTPHandler struct {
	store   *Store
	selfID  string
	baseURL string
}

func NewHTTPHandler(store *Store, selfID, baseURL string) *HTTPHandler {
	return &HTTPHandler{store: store, selfID: selfID, baseURL: baseURL}
}

type acceptInviteRequest struct {
	InviterID string  `json:"inviter_id" validate:"required"`
	Email     *string `json:"email,omitempty"`
}

// List handles GET /friends
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	friends := h.store.List()
	httpx.JSONSuccess(r, w, friends, map[string]interface{}{"total": len(friends)})
}

// AcceptInvite handles POST /friends/invite
func (h *HTTPHandler) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	var req acceptInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "INVALID_BODY", "Request body must be valid JSON", nil)
		return
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid invite payload", details)
		return
	}

	added := h.store.Accept(r.Context(), h.selfID, req.InviterID, req.Email)
	httpx.JSONSuccess(r, w, map[string]interface{}{"added": added}, nil)
}

// Remove handles DELETE /friends/{id}
func (h *HTTPHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if !h.store.Remove(r.Context(), r.PathValue("id")) {
		httpx.JSONError(r, w, http.StatusNotFound, "FRIEND_NOT_FOUND", "No friend with that id", nil)
		return
	}
	httpx.JSONNoContent(w)
}

// InviteLink handles GET /friends/invite-link
func (h *HTTPHandler) InviteLink(w http.ResponseWriter, r *http.Request) {
	var email *string
	if e := r.URL.Query().Get("email"); e != "" {
		email = &e
	}
	httpx.JSONSuccess(r, w, map[string]string{
		"link": InviteLink(h.baseURL, h.selfID, email),
	}, nil)
}
