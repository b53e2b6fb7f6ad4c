package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/gildr/internal/config"
	"github.com/forgo/gildr/pkg/jwt"
)

var testJWT = config.JWTConfig{Secret: "player-token-test-secret", Issuer: "gildr"}

func fixedNow() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

func TestRun_JSONTokenValidates(t *testing.T) {
	player := uuid.New()
	var out bytes.Buffer

	require.NoError(t, run([]string{"-player", player.String(), "-json", "-exp", "2h"}, testJWT, fixedNow, &out))

	var got tokenOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "Bearer", got.TokenType)
	assert.Equal(t, player.String(), got.PlayerID)
	assert.Equal(t, 7200, got.ExpiresIn)

	svc, err := jwt.NewService(jwt.Config{Secret: []byte(testJWT.Secret), Issuer: testJWT.Issuer})
	require.NoError(t, err)
	claims, err := svc.Validate(got.Token)
	require.NoError(t, err)
	assert.Equal(t, player.String(), claims.PlayerID())
}

func TestRun_TextOutput(t *testing.T) {
	player := uuid.New()
	var out bytes.Buffer

	require.NoError(t, run([]string{"-player", player.String(), "-exp", "0"}, testJWT, fixedNow, &out))

	assert.Contains(t, out.String(), "player:  "+player.String())
	assert.Contains(t, out.String(), "expires: never")
	assert.Contains(t, out.String(), "Authorization: Bearer ")
}

func TestRun_Rejects(t *testing.T) {
	tests := []struct {
		name string
		args []string
		cfg  config.JWTConfig
	}{
		{"missing player", nil, testJWT},
		{"player not a uuid", []string{"-player", "frodo"}, testJWT},
		{"short secret", []string{"-player", uuid.NewString(), "-secret", "short"}, testJWT},
		{"unknown flag", []string{"-guild", "x"}, testJWT},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := run(tt.args, tt.cfg, fixedNow, &out)
			assert.Error(t, err)
			assert.False(t, strings.Contains(out.String(), "Bearer"))
		})
	}
}
