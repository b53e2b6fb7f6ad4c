package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/forgo/gildr/internal/model"
	"github.com/forgo/gildr/pkg/jwt"
)

// AuthService validates access tokens
type AuthService interface {
	ValidateAccessToken(token string) (*jwt.Claims, error)
}

// Auth admits requests carrying a valid "Bearer" access token whose subject
// is a player id. The id is available downstream through GetPlayerID.
func Auth(authService AuthService) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, problem := bearerToken(r.Header.Get("Authorization"))
			if problem != nil {
				problem.WriteJSON(w)
				return
			}

			claims, err := authService.ValidateAccessToken(token)
			if err != nil {
				tokenProblem(err).WriteJSON(w)
				return
			}
			playerID, err := uuid.Parse(claims.PlayerID())
			if err != nil {
				model.NewTokenInvalidError("token subject is not a player").WriteJSON(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(withPlayer(r.Context(), playerID)))
		})
	}
}

func bearerToken(header string) (string, *model.ProblemDetails) {
	if header == "" {
		return "", model.NewUnauthorizedError("missing authorization header")
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", model.NewUnauthorizedError("authorization header must be \"Bearer <token>\"")
	}
	return strings.TrimSpace(token), nil
}

func tokenProblem(err error) *model.ProblemDetails {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return model.NewTokenExpiredError()
	case errors.Is(err, jwt.ErrInvalidSignature):
		return model.NewTokenInvalidError("invalid token signature")
	case errors.Is(err, jwt.ErrTokenNotYetValid):
		return model.NewTokenInvalidError("token not yet valid")
	default:
		return model.NewTokenInvalidError("invalid token")
	}
}

func withPlayer(ctx context.Context, playerID uuid.UUID) context.Context {
	return context.WithValue(ctx, playerIDKey, playerID)
}

// GetPlayerID returns the player admitted by Auth, or uuid.Nil
func GetPlayerID(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(playerIDKey).(uuid.UUID)
	return id
}
