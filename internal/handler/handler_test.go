package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/forgo/gildr/internal/model"
	"github.com/forgo/gildr/internal/repository"
	"github.com/forgo/gildr/internal/service"
	"github.com/forgo/gildr/internal/testing/fixtures"
	"github.com/forgo/gildr/internal/testing/helpers"
	"github.com/forgo/gildr/internal/testing/testdb"
	"github.com/forgo/gildr/pkg/jwt"
)

// ============================================================================
// Test Server
// ============================================================================

// testServer is the full stack over a temp data directory
type testServer struct {
	tdb    *testdb.TestDB
	f      *fixtures.Factory
	jwt    *helpers.Tokens
	tokens *jwt.Service
	router http.Handler
}

func newTestServer(t *testing.T, opts ...func(*RouterConfig)) *testServer {
	t.Helper()

	tdb := testdb.New(t)
	playerRepo := repository.NewPlayerRepository(repository.PlayerRepositoryConfig{
		Players: tdb.Players,
		Guilds:  tdb.Guilds,
		Invites: tdb.Invites,
	})
	guildRepo := repository.NewGuildRepository(tdb.Guilds, tdb.Players)
	inviteRepo := repository.NewInviteRepository(tdb.Invites)

	jh := helpers.NewTokens(t)
	authSvc := service.NewAuthService(service.AuthServiceConfig{Players: playerRepo, Tokens: jh.Service(), BcryptCost: 4})
	guildSvc := service.NewGuildService(guildRepo, playerRepo)
	inviteSvc := service.NewInviteService(service.InviteServiceConfig{
		Invites: inviteRepo,
		Guilds:  guildRepo,
		Players: playerRepo,
	})

	cfg := RouterConfig{
		Auth:        NewAuthHandler(authSvc),
		Players:     NewPlayerHandler(service.NewPlayerService(playerRepo)),
		Guilds:      NewGuildHandler(guildSvc),
		Invites:     NewInviteHandler(inviteSvc),
		System:      NewSystemHandler(tdb.Cache),
		AuthService: authSvc,
		Owners:      guildSvc,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &testServer{
		tdb:    tdb,
		f:      fixtures.New(tdb),
		jwt:    jh,
		tokens: jh.Service(),
		router: NewRouter(cfg),
	}
}

// do serves one request, authenticated as as when non-nil
func (s *testServer) do(t *testing.T, method, path string, body any, as *model.Player) *httptest.ResponseRecorder {
	t.Helper()

	rb := helpers.NewRequest(t, method, path)
	if body != nil {
		rb.WithBody(body)
	}
	if as != nil {
		rb.WithAuth(s.jwt, as.ID)
	}
	return serve(s, rb.Build())
}

func serve(s *testServer, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func serveFunc(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	helpers.DecodeResponse(t, rec, &v)
	return v
}
