package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/forgo/gildr/internal/model"
)

// GuildOwnerChecker reports whether a player owns a guild
type GuildOwnerChecker interface {
	IsOwner(ctx context.Context, playerID, guildID uuid.UUID) (bool, error)
}

// GuildOwner admits only owners of the guild named by the {id} path value.
// It must run after Auth and on a mux pattern that declares {id}. Non-owners
// get the same 404 as a missing guild.
func GuildOwner(checker GuildOwnerChecker) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			playerID := GetPlayerID(r.Context())
			if playerID == uuid.Nil {
				model.NewUnauthorizedError("authentication required").WriteJSON(w)
				return
			}

			guildID, err := uuid.Parse(r.PathValue("id"))
			if err != nil {
				model.NewBadRequestError("invalid guild ID").WriteJSON(w)
				return
			}

			isOwner, err := checker.IsOwner(r.Context(), playerID, guildID)
			if err != nil || !isOwner {
				model.NewNotFoundError("guild").WriteJSON(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
