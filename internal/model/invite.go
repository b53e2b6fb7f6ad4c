package model

import (
	"time"

	"github.com/google/uuid"
)

// KindInvite is the record type suffix for invites
const KindInvite = "invite"

// Invite records one player inviting another into a guild
type Invite struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	InvitorID uuid.UUID `json:"invitorId"`
	InviteeID uuid.UUID `json:"inviteeId"`
	GuildID   uuid.UUID `json:"guildId"`
	CreatedOn int64     `json:"createdOn,string"`
}

// NewInvite builds a validated invite with a fresh id
func NewInvite(invitorID, inviteeID, guildID uuid.UUID) (Invite, error) {
	inv := Invite{
		ID:        uuid.New(),
		Type:      KindInvite,
		InvitorID: invitorID,
		InviteeID: inviteeID,
		GuildID:   guildID,
		CreatedOn: time.Now().UnixMilli(),
	}
	if err := inv.Validate(); err != nil {
		return Invite{}, err
	}
	return inv, nil
}

// RecordID implements the storage record contract
func (i Invite) RecordID() uuid.UUID {
	return i.ID
}

// Validate checks the invite invariants
func (i Invite) Validate() error {
	var errs []FieldError
	if i.InvitorID == uuid.Nil {
		errs = append(errs, FieldError{Field: "invitorId", Message: "invitor is required"})
	}
	if i.InviteeID == uuid.Nil {
		errs = append(errs, FieldError{Field: "inviteeId", Message: "invitee is required"})
	}
	if i.GuildID == uuid.Nil {
		errs = append(errs, FieldError{Field: "guildId", Message: "guild is required"})
	}
	if i.InvitorID != uuid.Nil && i.InvitorID == i.InviteeID {
		errs = append(errs, FieldError{Field: "inviteeId", Message: "cannot invite yourself"})
	}
	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// CreateInviteRequest is the body of POST /v1/invites
type CreateInviteRequest struct {
	Invite struct {
		InviteeID uuid.UUID `json:"inviteeId"`
		GuildID   uuid.UUID `json:"guildId"`
	} `json:"invite"`
}
