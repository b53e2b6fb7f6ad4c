package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/forgo/gildr/internal/model"
)

// InviteRepository defines the interface for invite storage
type InviteRepository interface {
	Create(ctx context.Context, invite model.Invite) error
	GetByID(ctx context.Context, id uuid.UUID) (model.Invite, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) []model.Invite
	ByInvitor(ctx context.Context, playerID uuid.UUID) []model.Invite
	ByInvitee(ctx context.Context, playerID uuid.UUID) []model.Invite
}

// InviteService handles guild invitations
type InviteService struct {
	invites InviteRepository
	guilds  GuildRepository
	players PlayerRepository
}

// InviteServiceConfig holds configuration for the invite service
type InviteServiceConfig struct {
	Invites InviteRepository
	Guilds  GuildRepository
	Players PlayerRepository
}

// NewInviteService creates a new invite service
func NewInviteService(cfg InviteServiceConfig) *InviteService {
	return &InviteService{
		invites: cfg.Invites,
		guilds:  cfg.Guilds,
		players: cfg.Players,
	}
}

// List returns every invite, oldest first
func (s *InviteService) List(ctx context.Context) []model.Invite {
	return s.invites.List(ctx)
}

// Sent returns invites the player has sent
func (s *InviteService) Sent(ctx context.Context, playerID uuid.UUID) []model.Invite {
	return s.invites.ByInvitor(ctx, playerID)
}

// Received returns invites addressed to the player
func (s *InviteService) Received(ctx context.Context, playerID uuid.UUID) []model.Invite {
	return s.invites.ByInvitee(ctx, playerID)
}

// Create records the principal inviting a player into a guild
func (s *InviteService) Create(ctx context.Context, invitorID, inviteeID, guildID uuid.UUID) (model.Invite, error) {
	inv, err := model.NewInvite(invitorID, inviteeID, guildID)
	if err != nil {
		return model.Invite{}, err
	}

	if _, err := s.players.GetByID(ctx, inviteeID); err != nil {
		return model.Invite{}, translate(err)
	}
	g, err := s.guilds.GetByID(ctx, guildID)
	if err != nil {
		return model.Invite{}, translate(err)
	}
	if g.IsMember(inviteeID) {
		return model.Invite{}, ErrAlreadyGuildMember
	}

	if err := s.invites.Create(ctx, inv); err != nil {
		return model.Invite{}, translate(err)
	}
	return inv, nil
}

// Accept joins the invitee to the guild and consumes the invite. Only the
// invitee may accept.
func (s *InviteService) Accept(ctx context.Context, principal, inviteID uuid.UUID) (model.Guild, error) {
	inv, err := s.invites.GetByID(ctx, inviteID)
	if err != nil {
		return model.Guild{}, translate(err)
	}
	if inv.InviteeID != principal {
		return model.Guild{}, ErrInviteNotFound
	}

	g, err := s.guilds.AddMember(ctx, inv.InviteeID, inv.GuildID)
	if err != nil {
		return model.Guild{}, translate(err)
	}
	if err := s.invites.Delete(ctx, inv.ID); err != nil {
		return model.Guild{}, translate(err)
	}
	return g, nil
}

// Delete withdraws or declines an invite. Either party may do this; anyone
// else sees it as missing.
func (s *InviteService) Delete(ctx context.Context, principal, inviteID uuid.UUID) error {
	inv, err := s.invites.GetByID(ctx, inviteID)
	if err != nil {
		return translate(err)
	}
	if inv.InvitorID != principal && inv.InviteeID != principal {
		return ErrInviteNotFound
	}
	if err := s.invites.Delete(ctx, inv.ID); err != nil && !errors.Is(translate(err), ErrInviteNotFound) {
		return err
	}
	return nil
}
