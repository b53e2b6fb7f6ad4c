package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// KindGuild is the record type suffix for guilds
const KindGuild = "guild"

// Business constraints
const (
	MaxGuildNameLength = 100
	MaxGuildDescLength = 500
)

// Guild represents a named group of players. Only ids are persisted for
// owners and members; resolved players live on GuildProfile.
type Guild struct {
	ID          uuid.UUID   `json:"id"`
	Type        string      `json:"type"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	OwnerIDs    []uuid.UUID `json:"ownerIds"`
	MemberIDs   []uuid.UUID `json:"memberIds"`
	CreatedOn   int64       `json:"createdOn,string"` // unix millis
}

// NewGuild builds a validated guild with a fresh id. Owner and member ids are
// de-duplicated.
func NewGuild(name, description string, ownerIDs, memberIDs []uuid.UUID) (Guild, error) {
	g := Guild{
		ID:          uuid.New(),
		Type:        KindGuild,
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		OwnerIDs:    Dedupe(ownerIDs),
		MemberIDs:   Dedupe(memberIDs),
		CreatedOn:   time.Now().UnixMilli(),
	}
	if err := g.Validate(); err != nil {
		return Guild{}, err
	}
	return g, nil
}

// RecordID implements the storage record contract
func (g Guild) RecordID() uuid.UUID {
	return g.ID
}

// Validate checks the guild invariants
func (g Guild) Validate() error {
	var errs []FieldError
	if g.ID == uuid.Nil {
		errs = append(errs, FieldError{Field: "id", Message: "guild id is required"})
	}
	if strings.TrimSpace(g.Name) == "" {
		errs = append(errs, FieldError{Field: "name", Message: "all guilds must have a name"})
	} else if len(g.Name) > MaxGuildNameLength {
		errs = append(errs, FieldError{Field: "name", Message: "guild name exceeds maximum length"})
	}
	if strings.TrimSpace(g.Description) == "" {
		errs = append(errs, FieldError{Field: "description", Message: "all guilds must have a description"})
	} else if len(g.Description) > MaxGuildDescLength {
		errs = append(errs, FieldError{Field: "description", Message: "guild description exceeds maximum length"})
	}
	if len(g.OwnerIDs) == 0 {
		errs = append(errs, FieldError{Field: "ownerIds", Message: "guild must have at least one owner"})
	}
	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// IsOwner reports whether the player id is in the owner list
func (g Guild) IsOwner(playerID uuid.UUID) bool {
	return Contains(g.OwnerIDs, playerID)
}

// IsMember reports whether the player id is in the member list
func (g Guild) IsMember(playerID uuid.UUID) bool {
	return Contains(g.MemberIDs, playerID)
}

// WithMember returns a copy with the player added to the member list.
func (g Guild) WithMember(playerID uuid.UUID) Guild {
	g.MemberIDs = Union(g.MemberIDs, []uuid.UUID{playerID})
	g.OwnerIDs = Dedupe(g.OwnerIDs)
	return g
}

// WithoutPlayer returns a copy with the player removed from both the member
// and the owner list.
func (g Guild) WithoutPlayer(playerID uuid.UUID) Guild {
	g.MemberIDs = Without(g.MemberIDs, playerID)
	g.OwnerIDs = Without(g.OwnerIDs, playerID)
	return g
}

// WithRoster returns a copy with the roster update applied: onboards first,
// then deboards, for owners and members independently.
func (g Guild) WithRoster(update RosterUpdate) Guild {
	g.OwnerIDs = update.Owners.apply(g.OwnerIDs)
	g.MemberIDs = update.Members.apply(g.MemberIDs)
	return g
}

// Manifest lists ids to add and remove from one roster list
type Manifest struct {
	Onboard []uuid.UUID `json:"onboard"`
	Deboard []uuid.UUID `json:"deboard"`
}

func (m Manifest) apply(ids []uuid.UUID) []uuid.UUID {
	out := Union(ids, m.Onboard)
	for _, id := range m.Deboard {
		out = Without(out, id)
	}
	return out
}

// RosterUpdate is the owner-only bulk membership edit
type RosterUpdate struct {
	Owners  Manifest `json:"owners"`
	Members Manifest `json:"members"`
}

// Onboarded returns every id the update adds, de-duplicated
func (u RosterUpdate) Onboarded() []uuid.UUID {
	return Union(u.Owners.Onboard, u.Members.Onboard)
}

// GuildProfile is a guild with its owners and members resolved
type GuildProfile struct {
	Guild
	Owners  []PlayerView `json:"owners"`
	Members []PlayerView `json:"members"`
}

// CreateGuildRequest is the body of POST /v1/guilds
type CreateGuildRequest struct {
	Guild GuildRegistration `json:"guild"`
}

// GuildRegistration carries the fields a caller may set on a new guild
type GuildRegistration struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	MemberIDs   []uuid.UUID `json:"memberIds,omitempty"`
}
