package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/forgo/gildr/internal/database"
	"github.com/forgo/gildr/internal/model"
)

// PlayerRepositoryConfig holds the stores a PlayerRepository reads
type PlayerRepositoryConfig struct {
	Players database.Store[model.Player]
	Guilds  database.Store[model.Guild]
	Invites database.Store[model.Invite] // optional; profiles omit invites when nil
}

// PlayerRepository handles player data access
type PlayerRepository struct {
	players database.Store[model.Player]
	guilds  database.Store[model.Guild]
	invites database.Store[model.Invite]

	createMu sync.Mutex
}

// NewPlayerRepository creates a new player repository
func NewPlayerRepository(cfg PlayerRepositoryConfig) *PlayerRepository {
	return &PlayerRepository{
		players: cfg.Players,
		guilds:  cfg.Guilds,
		invites: cfg.Invites,
	}
}

// Create validates and persists a new player. Names are unique ignoring case.
func (r *PlayerRepository) Create(ctx context.Context, player model.Player) error {
	if err := player.Validate(); err != nil {
		return err
	}

	r.createMu.Lock()
	defer r.createMu.Unlock()

	if _, err := r.GetByName(ctx, player.Name); err == nil {
		return ErrPlayerNameTaken
	}
	if err := r.players.Put(ctx, player); err != nil {
		return fmt.Errorf("create player: %w", err)
	}
	return nil
}

// GetByID retrieves a player by ID
func (r *PlayerRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Player, error) {
	p, ok := r.players.Get(ctx, id)
	if !ok {
		return model.Player{}, ErrPlayerNotFound
	}
	return p, nil
}

// GetByName finds a player by name, ignoring case
func (r *PlayerRepository) GetByName(ctx context.Context, name string) (model.Player, error) {
	name = strings.TrimSpace(name)
	for p := range r.players.All(ctx) {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return model.Player{}, ErrPlayerNotFound
}

// List returns every player ordered by name
func (r *PlayerRepository) List(ctx context.Context) []model.Player {
	out := filter(r.players.All(ctx), func(model.Player) bool { return true })
	sortByName(out, func(p model.Player) string { return p.Name }, func(p model.Player) uuid.UUID { return p.ID })
	return out
}

// Profile resolves the guilds the player belongs to and owns by scanning
// every guild, plus sent and received invites when invites are stored.
func (r *PlayerRepository) Profile(ctx context.Context, id uuid.UUID) (model.PlayerProfile, error) {
	ctx, span := tracer.Start(ctx, "repository.PlayerProfile")
	defer span.End()

	p, err := r.GetByID(ctx, id)
	if err != nil {
		return model.PlayerProfile{}, err
	}

	profile := model.PlayerProfile{
		PlayerView: p.View(),
		MemberOf:   []model.Guild{},
		OwnerOf:    []model.Guild{},
	}
	for g := range r.guilds.All(ctx) {
		if g.IsMember(id) {
			profile.MemberOf = append(profile.MemberOf, g)
		}
		if g.IsOwner(id) {
			profile.OwnerOf = append(profile.OwnerOf, g)
		}
	}
	byName := func(g model.Guild) string { return g.Name }
	byID := func(g model.Guild) uuid.UUID { return g.ID }
	sortByName(profile.MemberOf, byName, byID)
	sortByName(profile.OwnerOf, byName, byID)

	if r.invites != nil {
		profile.InvitesSent = []model.Invite{}
		profile.InvitesReceived = []model.Invite{}
		for inv := range r.invites.All(ctx) {
			if inv.InvitorID == id {
				profile.InvitesSent = append(profile.InvitesSent, inv)
			}
			if inv.InviteeID == id {
				profile.InvitesReceived = append(profile.InvitesReceived, inv)
			}
		}
	}
	return profile, nil
}
