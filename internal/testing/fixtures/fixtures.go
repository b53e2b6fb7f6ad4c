package fixtures

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/forgo/gildr/internal/model"
	"github.com/forgo/gildr/internal/testing/testdb"
)

// DefaultPassword is the plaintext password of every fixture player unless
// overridden
const DefaultPassword = "testpass123"

// Factory creates test records in a TestDB
type Factory struct {
	tdb *testdb.TestDB
}

// New creates a new fixture factory
func New(tdb *testdb.TestDB) *Factory {
	return &Factory{tdb: tdb}
}

// randomID generates a random hex suffix
func randomID() string {
	b := make([]byte, 6)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// ============================================================================
// Player Fixtures
// ============================================================================

// PlayerOpts customizes player creation
type PlayerOpts struct {
	Name     string
	Password string
}

// CreatePlayer creates a player with optional customizations
func (f *Factory) CreatePlayer(t *testing.T, opts ...func(*PlayerOpts)) model.Player {
	t.Helper()

	o := &PlayerOpts{
		Name:     fmt.Sprintf("player_%s", randomID()),
		Password: DefaultPassword,
	}
	for _, fn := range opts {
		fn(o)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(o.Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("fixtures: failed to hash password: %v", err)
	}
	p, err := model.NewPlayer(o.Name, string(hash))
	if err != nil {
		t.Fatalf("fixtures: invalid player: %v", err)
	}
	if err := f.tdb.Players.Put(context.Background(), p); err != nil {
		t.Fatalf("fixtures: failed to create player: %v", err)
	}
	return p
}

// WithName sets the player name
func WithName(name string) func(*PlayerOpts) {
	return func(o *PlayerOpts) { o.Name = name }
}

// ============================================================================
// Guild Fixtures
// ============================================================================

// GuildOpts customizes guild creation
type GuildOpts struct {
	Name        string
	Description string
	OwnerIDs    []uuid.UUID // in addition to the owner argument
	MemberIDs   []uuid.UUID
}

// CreateGuild creates a guild owned by owner
func (f *Factory) CreateGuild(t *testing.T, owner model.Player, opts ...func(*GuildOpts)) model.Guild {
	t.Helper()

	o := &GuildOpts{
		Name:        fmt.Sprintf("Guild %s", randomID()),
		Description: "Test guild description",
	}
	for _, fn := range opts {
		fn(o)
	}

	owners := append([]uuid.UUID{owner.ID}, o.OwnerIDs...)
	g, err := model.NewGuild(o.Name, o.Description, owners, o.MemberIDs)
	if err != nil {
		t.Fatalf("fixtures: invalid guild: %v", err)
	}
	if err := f.tdb.Guilds.Put(context.Background(), g); err != nil {
		t.Fatalf("fixtures: failed to create guild: %v", err)
	}
	return g
}

// ============================================================================
// Invite Fixtures
// ============================================================================

// CreateInvite records invitor inviting invitee into guild
func (f *Factory) CreateInvite(t *testing.T, invitor, invitee model.Player, guild model.Guild) model.Invite {
	t.Helper()

	inv, err := model.NewInvite(invitor.ID, invitee.ID, guild.ID)
	if err != nil {
		t.Fatalf("fixtures: invalid invite: %v", err)
	}
	if err := f.tdb.Invites.Put(context.Background(), inv); err != nil {
		t.Fatalf("fixtures: failed to create invite: %v", err)
	}
	return inv
}
