package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/forgo/gildr/internal/database"
	"github.com/forgo/gildr/internal/model"
)

// GuildRepository handles guild data access and membership mutation
type GuildRepository struct {
	guilds  database.Store[model.Guild]
	players database.Store[model.Player]
	locks   *keyedMutex
}

// NewGuildRepository creates a new guild repository. Players are needed to
// check membership targets exist and to resolve profiles.
func NewGuildRepository(guilds database.Store[model.Guild], players database.Store[model.Player]) *GuildRepository {
	return &GuildRepository{
		guilds:  guilds,
		players: players,
		locks:   newKeyedMutex(),
	}
}

// Create validates and persists a new guild
func (r *GuildRepository) Create(ctx context.Context, guild model.Guild) error {
	if err := guild.Validate(); err != nil {
		return err
	}
	if err := r.guilds.Put(ctx, guild); err != nil {
		return fmt.Errorf("create guild: %w", err)
	}
	return nil
}

// GetByID retrieves a guild by ID
func (r *GuildRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Guild, error) {
	g, ok := r.guilds.Get(ctx, id)
	if !ok {
		return model.Guild{}, ErrGuildNotFound
	}
	return g, nil
}

// Delete removes a guild. Deleting a missing guild reports ErrGuildNotFound.
func (r *GuildRepository) Delete(ctx context.Context, id uuid.UUID) error {
	unlock := r.locks.lock(id)
	defer unlock()

	if _, ok := r.guilds.Get(ctx, id); !ok {
		return ErrGuildNotFound
	}
	if err := r.guilds.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete guild: %w", err)
	}
	return nil
}

// List returns every guild whose name starts with prefix, ignoring case,
// ordered by name. An empty prefix matches all guilds.
func (r *GuildRepository) List(ctx context.Context, prefix string) []model.Guild {
	out := filter(r.guilds.All(ctx), func(g model.Guild) bool {
		return hasPrefixFold(g.Name, prefix)
	})
	sortByName(out, func(g model.Guild) string { return g.Name }, func(g model.Guild) uuid.UUID { return g.ID })
	return out
}

// AddMember adds the player to the guild's member list. Adding an existing
// member leaves the list unchanged.
func (r *GuildRepository) AddMember(ctx context.Context, playerID, guildID uuid.UUID) (model.Guild, error) {
	ctx, span := r.span(ctx, "repository.AddMember", guildID, playerID)
	defer span.End()

	if _, ok := r.players.Get(ctx, playerID); !ok {
		return model.Guild{}, ErrPlayerNotFound
	}
	return r.mutate(ctx, guildID, func(g model.Guild) (model.Guild, error) {
		return g.WithMember(playerID), nil
	})
}

// RemovePlayer removes the player from both the member and owner lists.
// Removing the only owner is rejected with ErrLastOwner.
func (r *GuildRepository) RemovePlayer(ctx context.Context, playerID, guildID uuid.UUID) (model.Guild, error) {
	ctx, span := r.span(ctx, "repository.RemovePlayer", guildID, playerID)
	defer span.End()

	return r.mutate(ctx, guildID, func(g model.Guild) (model.Guild, error) {
		return g.WithoutPlayer(playerID), nil
	})
}

// UpdateRoster applies an owner/member onboard and deboard manifest. Every
// onboarded id must be an existing player.
func (r *GuildRepository) UpdateRoster(ctx context.Context, guildID uuid.UUID, update model.RosterUpdate) (model.Guild, error) {
	ctx, span := r.span(ctx, "repository.UpdateRoster", guildID, uuid.Nil)
	defer span.End()

	for _, id := range update.Onboarded() {
		if _, ok := r.players.Get(ctx, id); !ok {
			return model.Guild{}, fmt.Errorf("onboard %s: %w", id, ErrPlayerNotFound)
		}
	}
	return r.mutate(ctx, guildID, func(g model.Guild) (model.Guild, error) {
		return g.WithRoster(update), nil
	})
}

// mutate runs a read-modify-write of one guild under that guild's lock. The
// base is read from the file rather than the cache, the result must keep an
// owner and pass validation, and the cached entry is dropped again once the
// write lands.
func (r *GuildRepository) mutate(ctx context.Context, id uuid.UUID, fn func(model.Guild) (model.Guild, error)) (model.Guild, error) {
	unlock := r.locks.lock(id)
	defer unlock()

	invalidate(ctx, r.guilds, id)
	current, ok := r.guilds.Get(ctx, id)
	if !ok {
		return model.Guild{}, ErrGuildNotFound
	}
	next, err := fn(current)
	if err != nil {
		return model.Guild{}, err
	}
	if len(next.OwnerIDs) == 0 {
		return model.Guild{}, ErrLastOwner
	}
	if err := next.Validate(); err != nil {
		return model.Guild{}, err
	}
	if err := r.guilds.Put(ctx, next); err != nil {
		return model.Guild{}, fmt.Errorf("update guild: %w", err)
	}
	invalidate(ctx, r.guilds, id)
	return next, nil
}

// Profile resolves the guild's owners and members. Ids that no longer
// resolve to a player are skipped.
func (r *GuildRepository) Profile(ctx context.Context, id uuid.UUID) (model.GuildProfile, error) {
	g, err := r.GetByID(ctx, id)
	if err != nil {
		return model.GuildProfile{}, err
	}
	return model.GuildProfile{
		Guild:   g,
		Owners:  r.resolve(ctx, g.OwnerIDs),
		Members: r.resolve(ctx, g.MemberIDs),
	}, nil
}

func (r *GuildRepository) resolve(ctx context.Context, ids []uuid.UUID) []model.PlayerView {
	out := make([]model.PlayerView, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.players.Get(ctx, id); ok {
			out = append(out, p.View())
		}
	}
	return out
}

func (r *GuildRepository) span(ctx context.Context, name string, guildID, playerID uuid.UUID) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{attribute.String("guild.id", guildID.String())}
	if playerID != uuid.Nil {
		attrs = append(attrs, attribute.String("player.id", playerID.String()))
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}
