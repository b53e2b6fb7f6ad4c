package service

import (
	"errors"

	"github.com/forgo/gildr/internal/repository"
)

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable.

// ===== Authentication Errors =====
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes")
	ErrPlayerNameTaken    = errors.New("player name already taken")
	ErrPlayerNotFound     = errors.New("player not found")
)

// ===== Guild Errors =====
var (
	ErrGuildNotFound = errors.New("guild not found")
	ErrNotGuildOwner = errors.New("not an owner of this guild")
	ErrLastOwner     = errors.New("guild must keep at least one owner")
)

// ===== Invite Errors =====
var (
	ErrInviteNotFound     = errors.New("invite not found")
	ErrAlreadyGuildMember = errors.New("player is already a member of this guild")
)

// translate maps repository errors onto service sentinels. Validation and
// storage errors pass through unchanged.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrGuildNotFound):
		return ErrGuildNotFound
	case errors.Is(err, repository.ErrPlayerNotFound):
		return ErrPlayerNotFound
	case errors.Is(err, repository.ErrInviteNotFound):
		return ErrInviteNotFound
	case errors.Is(err, repository.ErrLastOwner):
		return ErrLastOwner
	case errors.Is(err, repository.ErrPlayerNameTaken):
		return ErrPlayerNameTaken
	default:
		return err
	}
}
