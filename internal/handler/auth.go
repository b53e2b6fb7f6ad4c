package handler

import (
	"net/http"

	"github.com/forgo/gildr/internal/model"
	"github.com/forgo/gildr/internal/service"
)

// AuthHandler handles registration and login
type AuthHandler struct {
	svc *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login handles POST /login - exchange a name and password for a bearer token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.Credentials
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	token, err := h.svc.Login(r.Context(), req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, model.TokenResponse{Token: token})
}

// Register handles POST /v1/players - open so a first player can sign up
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterPlayerRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	player, err := h.svc.Register(r.Context(), req.Player)
	if err != nil {
		handleError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusCreated, player)
}
