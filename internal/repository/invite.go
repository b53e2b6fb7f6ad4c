package repository

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/forgo/gildr/internal/database"
	"github.com/forgo/gildr/internal/model"
)

// InviteRepository handles invite data access
type InviteRepository struct {
	invites database.Store[model.Invite]
}

// NewInviteRepository creates a new invite repository
func NewInviteRepository(invites database.Store[model.Invite]) *InviteRepository {
	return &InviteRepository{invites: invites}
}

// Create validates and persists a new invite
func (r *InviteRepository) Create(ctx context.Context, invite model.Invite) error {
	if err := invite.Validate(); err != nil {
		return err
	}
	if err := r.invites.Put(ctx, invite); err != nil {
		return fmt.Errorf("create invite: %w", err)
	}
	return nil
}

// GetByID retrieves an invite by ID
func (r *InviteRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Invite, error) {
	inv, ok := r.invites.Get(ctx, id)
	if !ok {
		return model.Invite{}, ErrInviteNotFound
	}
	return inv, nil
}

// Delete removes an invite
func (r *InviteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.invites.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete invite: %w", err)
	}
	return nil
}

// List returns every invite, oldest first
func (r *InviteRepository) List(ctx context.Context) []model.Invite {
	return r.where(ctx, func(model.Invite) bool { return true })
}

// ByInvitor returns invites sent by the player
func (r *InviteRepository) ByInvitor(ctx context.Context, playerID uuid.UUID) []model.Invite {
	return r.where(ctx, func(inv model.Invite) bool { return inv.InvitorID == playerID })
}

// ByInvitee returns invites received by the player
func (r *InviteRepository) ByInvitee(ctx context.Context, playerID uuid.UUID) []model.Invite {
	return r.where(ctx, func(inv model.Invite) bool { return inv.InviteeID == playerID })
}

// ByGuild returns invites into the guild
func (r *InviteRepository) ByGuild(ctx context.Context, guildID uuid.UUID) []model.Invite {
	return r.where(ctx, func(inv model.Invite) bool { return inv.GuildID == guildID })
}

func (r *InviteRepository) where(ctx context.Context, keep func(model.Invite) bool) []model.Invite {
	out := filter(r.invites.All(ctx), keep)
	slices.SortFunc(out, func(a, b model.Invite) int {
		if c := cmp.Compare(a.CreatedOn, b.CreatedOn); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})
	return out
}
