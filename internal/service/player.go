package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/forgo/gildr/internal/model"
)

// PlayerRepository defines the interface for player storage
type PlayerRepository interface {
	Create(ctx context.Context, player model.Player) error
	GetByID(ctx context.Context, id uuid.UUID) (model.Player, error)
	GetByName(ctx context.Context, name string) (model.Player, error)
	List(ctx context.Context) []model.Player
	Profile(ctx context.Context, id uuid.UUID) (model.PlayerProfile, error)
}

// PlayerService exposes player listings and profiles
type PlayerService struct {
	players PlayerRepository
}

// NewPlayerService creates a new player service
func NewPlayerService(players PlayerRepository) *PlayerService {
	return &PlayerService{players: players}
}

// List returns every player without password hashes
func (s *PlayerService) List(ctx context.Context) []model.PlayerView {
	players := s.players.List(ctx)
	views := make([]model.PlayerView, 0, len(players))
	for _, p := range players {
		views = append(views, p.View())
	}
	return views
}

// GetByID returns one player without its password hash
func (s *PlayerService) GetByID(ctx context.Context, id uuid.UUID) (model.PlayerView, error) {
	p, err := s.players.GetByID(ctx, id)
	if err != nil {
		return model.PlayerView{}, translate(err)
	}
	return p.View(), nil
}

// Profile returns a player with the guilds it belongs to and owns
func (s *PlayerService) Profile(ctx context.Context, id uuid.UUID) (model.PlayerProfile, error) {
	profile, err := s.players.Profile(ctx, id)
	if err != nil {
		return model.PlayerProfile{}, translate(err)
	}
	return profile, nil
}
