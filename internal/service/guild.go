package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/forgo/gildr/internal/model"
)

// GuildRepository defines the interface for guild storage
type GuildRepository interface {
	Create(ctx context.Context, guild model.Guild) error
	GetByID(ctx context.Context, id uuid.UUID) (model.Guild, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, prefix string) []model.Guild
	AddMember(ctx context.Context, playerID, guildID uuid.UUID) (model.Guild, error)
	RemovePlayer(ctx context.Context, playerID, guildID uuid.UUID) (model.Guild, error)
	UpdateRoster(ctx context.Context, guildID uuid.UUID, update model.RosterUpdate) (model.Guild, error)
	Profile(ctx context.Context, id uuid.UUID) (model.GuildProfile, error)
}

// GuildService handles guild business logic
type GuildService struct {
	guilds  GuildRepository
	players PlayerRepository
}

// NewGuildService creates a new guild service
func NewGuildService(guilds GuildRepository, players PlayerRepository) *GuildService {
	return &GuildService{guilds: guilds, players: players}
}

// List returns guilds whose name starts with prefix, ignoring case. An empty
// prefix returns every guild.
func (s *GuildService) List(ctx context.Context, prefix string) []model.Guild {
	return s.guilds.List(ctx, prefix)
}

// Create creates a guild owned by the principal. Initial members must be
// registered players.
func (s *GuildService) Create(ctx context.Context, ownerID uuid.UUID, reg model.GuildRegistration) (model.Guild, error) {
	guild, err := model.NewGuild(reg.Name, reg.Description, []uuid.UUID{ownerID}, reg.MemberIDs)
	if err != nil {
		return model.Guild{}, err
	}
	for _, id := range guild.MemberIDs {
		if _, err := s.players.GetByID(ctx, id); err != nil {
			return model.Guild{}, translate(err)
		}
	}
	if err := s.guilds.Create(ctx, guild); err != nil {
		return model.Guild{}, translate(err)
	}
	return guild, nil
}

// GetByID retrieves a guild by ID
func (s *GuildService) GetByID(ctx context.Context, id uuid.UUID) (model.Guild, error) {
	g, err := s.guilds.GetByID(ctx, id)
	if err != nil {
		return model.Guild{}, translate(err)
	}
	return g, nil
}

// Profile returns a guild with its owners and members resolved
func (s *GuildService) Profile(ctx context.Context, id uuid.UUID) (model.GuildProfile, error) {
	profile, err := s.guilds.Profile(ctx, id)
	if err != nil {
		return model.GuildProfile{}, translate(err)
	}
	return profile, nil
}

// IsOwner reports whether the player owns the guild
func (s *GuildService) IsOwner(ctx context.Context, playerID, guildID uuid.UUID) (bool, error) {
	g, err := s.GetByID(ctx, guildID)
	if err != nil {
		return false, err
	}
	return g.IsOwner(playerID), nil
}

// Delete disbands a guild. Only an owner may do this.
func (s *GuildService) Delete(ctx context.Context, principal, guildID uuid.UUID) error {
	if err := s.requireOwner(ctx, principal, guildID); err != nil {
		return err
	}
	return translate(s.guilds.Delete(ctx, guildID))
}

// Join adds the principal to the member list. Joining twice is a no-op.
func (s *GuildService) Join(ctx context.Context, principal, guildID uuid.UUID) (model.Guild, error) {
	g, err := s.guilds.AddMember(ctx, principal, guildID)
	if err != nil {
		return model.Guild{}, translate(err)
	}
	return g, nil
}

// Leave removes the principal from both the member and owner lists. The
// last owner cannot leave.
func (s *GuildService) Leave(ctx context.Context, principal, guildID uuid.UUID) (model.Guild, error) {
	g, err := s.guilds.RemovePlayer(ctx, principal, guildID)
	if err != nil {
		return model.Guild{}, translate(err)
	}
	return g, nil
}

// EditRoster applies an owner's bulk roster edit
func (s *GuildService) EditRoster(ctx context.Context, principal, guildID uuid.UUID, update model.RosterUpdate) (model.Guild, error) {
	if err := s.requireOwner(ctx, principal, guildID); err != nil {
		return model.Guild{}, err
	}
	g, err := s.guilds.UpdateRoster(ctx, guildID, update)
	if err != nil {
		return model.Guild{}, translate(err)
	}
	return g, nil
}

func (s *GuildService) requireOwner(ctx context.Context, principal, guildID uuid.UUID) error {
	owner, err := s.IsOwner(ctx, principal, guildID)
	if err != nil {
		return err
	}
	if !owner {
		return ErrNotGuildOwner
	}
	return nil
}
