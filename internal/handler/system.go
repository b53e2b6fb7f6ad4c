package handler

import (
	"net/http"

	"github.com/forgo/gildr/internal/cache"
)

// StatsSource reports per-type cache effectiveness
type StatsSource interface {
	Stats() []cache.Stats
}

// SystemHandler serves the unauthenticated root and health endpoints
type SystemHandler struct {
	stats StatsSource
}

// NewSystemHandler creates a new system handler. stats may be nil.
func NewSystemHandler(stats StatsSource) *SystemHandler {
	return &SystemHandler{stats: stats}
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status string        `json:"status"`
	Cache  []cache.Stats `json:"cache,omitempty"`
}

// Root handles GET /{$}
func (h *SystemHandler) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("HELLO WORLD!"))
}

// Health handles GET /health
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok"}
	if h.stats != nil {
		resp.Cache = h.stats.Stats()
	}
	WriteJSON(w, http.StatusOK, resp)
}
