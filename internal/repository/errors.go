package repository

import (
	"errors"
	"fmt"

	"github.com/forgo/gildr/internal/database"
)

// Domain errors. The not-found errors wrap database.ErrNotFound.
var (
	ErrGuildNotFound  = fmt.Errorf("guild %w", database.ErrNotFound)
	ErrPlayerNotFound = fmt.Errorf("player %w", database.ErrNotFound)
	ErrInviteNotFound = fmt.Errorf("invite %w", database.ErrNotFound)

	ErrLastOwner       = errors.New("guild must keep at least one owner")
	ErrPlayerNameTaken = errors.New("player name already taken")
)
