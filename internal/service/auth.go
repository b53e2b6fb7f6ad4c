package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/forgo/gildr/internal/model"
	"github.com/forgo/gildr/pkg/jwt"
)

// bcrypt ignores input past 72 bytes
const maxPasswordBytes = 72

// AuthService handles registration, login and token validation
type AuthService struct {
	players    PlayerRepository
	tokens     *jwt.Service
	bcryptCost int
}

// AuthServiceConfig holds configuration for the auth service
type AuthServiceConfig struct {
	Players    PlayerRepository
	Tokens     *jwt.Service
	BcryptCost int // defaults to bcrypt.DefaultCost
}

// NewAuthService creates a new auth service
func NewAuthService(cfg AuthServiceConfig) *AuthService {
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &AuthService{
		players:    cfg.Players,
		tokens:     cfg.Tokens,
		bcryptCost: cost,
	}
}

// Register creates a new player. The returned view never carries the hash.
func (s *AuthService) Register(ctx context.Context, creds model.Credentials) (model.PlayerView, error) {
	if err := validatePassword(creds.Password); err != nil {
		return model.PlayerView{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), s.bcryptCost)
	if err != nil {
		return model.PlayerView{}, err
	}

	player, err := model.NewPlayer(creds.Name, string(hash))
	if err != nil {
		return model.PlayerView{}, err
	}
	if err := s.players.Create(ctx, player); err != nil {
		return model.PlayerView{}, translate(err)
	}
	return player.View(), nil
}

// Login verifies credentials and returns a signed bearer token
func (s *AuthService) Login(ctx context.Context, creds model.Credentials) (string, error) {
	player, err := s.players.GetByName(ctx, strings.TrimSpace(creds.Name))
	if err != nil {
		if errors.Is(translate(err), ErrPlayerNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(player.Password), []byte(creds.Password)) != nil {
		return "", ErrInvalidCredentials
	}

	return s.tokens.SignPlayer(player.ID.String())
}

// ValidateAccessToken validates a bearer token. The subject must be a
// well-formed player id.
func (s *AuthService) ValidateAccessToken(token string) (*jwt.Claims, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(claims.PlayerID()); err != nil {
		return nil, jwt.ErrInvalidToken
	}
	return claims, nil
}

func validatePassword(password string) error {
	if password == "" {
		return ErrPasswordRequired
	}
	if len(password) > maxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}
