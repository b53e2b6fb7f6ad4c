package handler

import (
	"net/http"

	"github.com/forgo/gildr/internal/model"
	"github.com/forgo/gildr/internal/service"
)

// PlayerHandler handles player HTTP requests
type PlayerHandler struct {
	svc *service.PlayerService
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(svc *service.PlayerService) *PlayerHandler {
	return &PlayerHandler{svc: svc}
}

// PlayerList is the body of GET /v1/players
type PlayerList struct {
	Players []model.PlayerView `json:"players"`
}

// List handles GET /v1/players
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, PlayerList{Players: h.svc.List(r.Context())})
}

// Get handles GET /v1/players/{id} - the player with resolved memberships
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	profile, err := h.svc.Profile(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, profile)
}
