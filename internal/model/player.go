package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// KindPlayer is the record type suffix for players
const KindPlayer = "player"

// MaxPlayerNameLength bounds display names
const MaxPlayerNameLength = 64

// Player is an authenticatable identity. Password holds the bcrypt hash and
// is never exposed through PlayerView.
type Player struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	Password  string    `json:"password"`
	CreatedOn int64     `json:"createdOn,string"` // unix millis
}

// NewPlayer builds a validated player with a fresh id. The password must
// already be hashed.
func NewPlayer(name, passwordHash string) (Player, error) {
	p := Player{
		ID:        uuid.New(),
		Type:      KindPlayer,
		Name:      strings.TrimSpace(name),
		Password:  passwordHash,
		CreatedOn: time.Now().UnixMilli(),
	}
	if err := p.Validate(); err != nil {
		return Player{}, err
	}
	return p, nil
}

// RecordID implements the storage record contract
func (p Player) RecordID() uuid.UUID {
	return p.ID
}

// Validate checks the player invariants
func (p Player) Validate() error {
	var errs []FieldError
	if p.ID == uuid.Nil {
		errs = append(errs, FieldError{Field: "id", Message: "player id is required"})
	}
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, FieldError{Field: "name", Message: "all players must have a name"})
	} else if len(p.Name) > MaxPlayerNameLength {
		errs = append(errs, FieldError{Field: "name", Message: "player name exceeds maximum length"})
	}
	if strings.TrimSpace(p.Password) == "" {
		errs = append(errs, FieldError{Field: "password", Message: "all players must have a password"})
	}
	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// View strips the password hash
func (p Player) View() PlayerView {
	return PlayerView{
		ID:        p.ID,
		Type:      p.Type,
		Name:      p.Name,
		CreatedOn: p.CreatedOn,
	}
}

// PlayerView is the public representation of a player
type PlayerView struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	CreatedOn int64     `json:"createdOn,string"`
}

// PlayerProfile is a player with its guild relationships resolved
type PlayerProfile struct {
	PlayerView
	MemberOf        []Guild  `json:"memberOf"`
	OwnerOf         []Guild  `json:"ownerOf"`
	InvitesSent     []Invite `json:"invitesSent,omitempty"`
	InvitesReceived []Invite `json:"invitesReceived,omitempty"`
}

// RegisterPlayerRequest is the body of POST /v1/players
type RegisterPlayerRequest struct {
	Player Credentials `json:"player"`
}

// Credentials is a name/password pair, also the body of POST /login
type Credentials struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// TokenResponse is returned by a successful login
type TokenResponse struct {
	Token string `json:"token"`
}
