package handler

import (
	"net/http"

	"github.com/forgo/gildr/internal/model"
	"github.com/forgo/gildr/internal/service"
)

// InviteHandler handles invite HTTP requests
type InviteHandler struct {
	svc *service.InviteService
}

// NewInviteHandler creates a new invite handler
func NewInviteHandler(svc *service.InviteService) *InviteHandler {
	return &InviteHandler{svc: svc}
}

// InviteList is the body of GET /v1/invites
type InviteList struct {
	Invites []model.Invite `json:"invites"`
}

// List handles GET /v1/invites
func (h *InviteHandler) List(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, InviteList{Invites: h.svc.List(r.Context())})
}

// Create handles POST /v1/invites - the caller is the invitor
func (h *InviteHandler) Create(w http.ResponseWriter, r *http.Request) {
	playerID, ok := principal(w, r)
	if !ok {
		return
	}

	var req model.CreateInviteRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	invite, err := h.svc.Create(r.Context(), playerID, req.Invite.InviteeID, req.Invite.GuildID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusCreated, invite)
}

// Accept handles PATCH /v1/invites/{id}/accept - invitee only
func (h *InviteHandler) Accept(w http.ResponseWriter, r *http.Request) {
	playerID, ok := principal(w, r)
	if !ok {
		return
	}
	inviteID, ok := pathID(w, r)
	if !ok {
		return
	}

	guild, err := h.svc.Accept(r.Context(), playerID, inviteID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, guild)
}

// Delete handles DELETE /v1/invites/{id} - invitor or invitee
func (h *InviteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	playerID, ok := principal(w, r)
	if !ok {
		return
	}
	inviteID, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), playerID, inviteID); err != nil {
		handleError(w, r, err)
		return
	}

	WriteNoContent(w)
}
