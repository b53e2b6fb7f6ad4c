package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/forgo/gildr/internal/middleware"
	"github.com/forgo/gildr/internal/model"
	"github.com/forgo/gildr/internal/service"
)

// GuildHandler handles guild HTTP requests
type GuildHandler struct {
	svc *service.GuildService
}

// NewGuildHandler creates a new guild handler
func NewGuildHandler(svc *service.GuildService) *GuildHandler {
	return &GuildHandler{svc: svc}
}

// GuildList is the body of GET /v1/guilds
type GuildList struct {
	Guilds []model.Guild `json:"guilds"`
}

// List handles GET /v1/guilds?q= - guilds whose name starts with q
func (h *GuildHandler) List(w http.ResponseWriter, r *http.Request) {
	guilds := h.svc.List(r.Context(), r.URL.Query().Get("q"))
	WriteJSON(w, http.StatusOK, GuildList{Guilds: guilds})
}

// Create handles POST /v1/guilds - the caller becomes the sole owner
func (h *GuildHandler) Create(w http.ResponseWriter, r *http.Request) {
	playerID, ok := principal(w, r)
	if !ok {
		return
	}

	var req model.CreateGuildRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	guild, err := h.svc.Create(r.Context(), playerID, req.Guild)
	if err != nil {
		handleError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusCreated, guild)
}

// Get handles GET /v1/guilds/{id} - the guild with owners and members resolved
func (h *GuildHandler) Get(w http.ResponseWriter, r *http.Request) {
	guildID, ok := pathID(w, r)
	if !ok {
		return
	}

	profile, err := h.svc.Profile(r.Context(), guildID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, profile)
}

// Delete handles DELETE /v1/guilds/{id} - owner only
func (h *GuildHandler) Delete(w http.ResponseWriter, r *http.Request) {
	playerID, ok := principal(w, r)
	if !ok {
		return
	}
	guildID, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), playerID, guildID); err != nil {
		handleError(w, r, err)
		return
	}

	WriteNoContent(w)
}

// Join handles PATCH /v1/guilds/{id}/join
func (h *GuildHandler) Join(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.svc.Join)
}

// Leave handles PATCH /v1/guilds/{id}/leave. An owner who leaves also gives
// up ownership.
func (h *GuildHandler) Leave(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.svc.Leave)
}

// Roster handles PATCH /v1/guilds/{id}/admin - owner only
func (h *GuildHandler) Roster(w http.ResponseWriter, r *http.Request) {
	var update model.RosterUpdate
	if err := DecodeJSON(r, &update); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	h.mutate(w, r, func(ctx context.Context, playerID, guildID uuid.UUID) (model.Guild, error) {
		return h.svc.EditRoster(ctx, playerID, guildID, update)
	})
}

func (h *GuildHandler) mutate(w http.ResponseWriter, r *http.Request, fn func(context.Context, uuid.UUID, uuid.UUID) (model.Guild, error)) {
	playerID, ok := principal(w, r)
	if !ok {
		return
	}
	guildID, ok := pathID(w, r)
	if !ok {
		return
	}

	guild, err := fn(r.Context(), playerID, guildID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, guild)
}

// principal returns the authenticated player. Routes behind the auth
// middleware always have one; a missing principal is answered with 401.
func principal(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	playerID := middleware.GetPlayerID(r.Context())
	if playerID == uuid.Nil {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return uuid.Nil, false
	}
	return playerID, true
}
