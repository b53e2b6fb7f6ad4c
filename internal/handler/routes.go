package handler

import (
	"net/http"

	"github.com/forgo/gildr/internal/middleware"
)

// RouterConfig holds the handlers and guards mounted by NewRouter
type RouterConfig struct {
	Auth    *AuthHandler
	Players *PlayerHandler
	Guilds  *GuildHandler
	Invites *InviteHandler // nil leaves invite routes unmounted
	System  *SystemHandler

	AuthService  middleware.AuthService
	Owners       middleware.GuildOwnerChecker
	LoginLimiter *middleware.RateLimiter // nil disables login rate limiting
	StaticDir    string                  // empty disables /static/
}

// NewRouter mounts every route on a ServeMux. Everything under /v1 except
// registration requires a bearer token.
func NewRouter(cfg RouterConfig) *http.ServeMux {
	mux := http.NewServeMux()

	authed := middleware.Auth(cfg.AuthService)
	ownerOnly := middleware.GuildOwner(cfg.Owners)
	protect := func(h http.HandlerFunc) http.Handler {
		return authed(h)
	}
	owner := func(h http.HandlerFunc) http.Handler {
		return authed(ownerOnly(h))
	}

	// Public
	mux.HandleFunc("GET /{$}", cfg.System.Root)
	mux.HandleFunc("GET /health", cfg.System.Health)
	mux.HandleFunc("POST /v1/players", cfg.Auth.Register)

	var login http.Handler = http.HandlerFunc(cfg.Auth.Login)
	if cfg.LoginLimiter != nil {
		login = middleware.RateLimit(cfg.LoginLimiter)(login)
	}
	mux.Handle("POST /login", login)

	if cfg.StaticDir != "" {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir))))
	}

	// Players
	mux.Handle("GET /v1/players", protect(cfg.Players.List))
	mux.Handle("GET /v1/players/{id}", protect(cfg.Players.Get))

	// Guilds
	mux.Handle("GET /v1/guilds", protect(cfg.Guilds.List))
	mux.Handle("POST /v1/guilds", protect(cfg.Guilds.Create))
	mux.Handle("GET /v1/guilds/{id}", protect(cfg.Guilds.Get))
	mux.Handle("DELETE /v1/guilds/{id}", owner(cfg.Guilds.Delete))
	for _, method := range []string{http.MethodPatch, http.MethodPut} {
		mux.Handle(method+" /v1/guilds/{id}/join", protect(cfg.Guilds.Join))
		mux.Handle(method+" /v1/guilds/{id}/leave", protect(cfg.Guilds.Leave))
		mux.Handle(method+" /v1/guilds/{id}/admin", owner(cfg.Guilds.Roster))
		mux.Handle(method+" /v1/guilds/{id}/membership", owner(cfg.Guilds.Roster))
	}

	// Invites
	if cfg.Invites != nil {
		mux.Handle("GET /v1/invites", protect(cfg.Invites.List))
		mux.Handle("POST /v1/invites", protect(cfg.Invites.Create))
		mux.Handle("PATCH /v1/invites/{id}/accept", protect(cfg.Invites.Accept))
		mux.Handle("DELETE /v1/invites/{id}", protect(cfg.Invites.Delete))
	}

	return mux
}
