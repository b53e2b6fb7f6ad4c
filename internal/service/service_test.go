package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/forgo/gildr/internal/repository"
	"github.com/forgo/gildr/internal/testing/fixtures"
	"github.com/forgo/gildr/internal/testing/testdb"
	"github.com/forgo/gildr/pkg/jwt"
)

type testServices struct {
	tdb     *testdb.TestDB
	f       *fixtures.Factory
	auth    *AuthService
	players *PlayerService
	guilds  *GuildService
	invites *InviteService
	tokens  *jwt.Service
}

func setup(t *testing.T) *testServices {
	t.Helper()

	tdb := testdb.New(t)
	playerRepo := repository.NewPlayerRepository(repository.PlayerRepositoryConfig{
		Players: tdb.Players,
		Guilds:  tdb.Guilds,
		Invites: tdb.Invites,
	})
	guildRepo := repository.NewGuildRepository(tdb.Guilds, tdb.Players)
	inviteRepo := repository.NewInviteRepository(tdb.Invites)

	tokens, err := jwt.NewService(jwt.Config{Secret: []byte("service-test-secret"), Issuer: "gildr-test"})
	require.NoError(t, err)

	return &testServices{
		tdb:     tdb,
		f:       fixtures.New(tdb),
		auth:    NewAuthService(AuthServiceConfig{Players: playerRepo, Tokens: tokens, BcryptCost: 4}),
		players: NewPlayerService(playerRepo),
		guilds:  NewGuildService(guildRepo, playerRepo),
		invites: NewInviteService(InviteServiceConfig{Invites: inviteRepo, Guilds: guildRepo, Players: playerRepo}),
		tokens:  tokens,
	}
}
