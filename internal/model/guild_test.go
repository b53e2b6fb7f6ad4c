package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldNames(t *testing.T, err error) []string {
	t.Helper()
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "expected *ValidationError, got %v", err)
	names := make([]string, 0, len(ve.Fields))
	for _, f := range ve.Fields {
		names = append(names, f.Field)
	}
	return names
}

// ============================================================================
// Construction
// ============================================================================

func TestNewGuild_Valid(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	member := uuid.New()

	g, err := NewGuild("  Knights  ", "Round table", []uuid.UUID{owner, owner}, []uuid.UUID{member, member})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, g.ID)
	assert.Equal(t, KindGuild, g.Type)
	assert.Equal(t, "Knights", g.Name)
	assert.Equal(t, []uuid.UUID{owner}, g.OwnerIDs)
	assert.Equal(t, []uuid.UUID{member}, g.MemberIDs)
	assert.Positive(t, g.CreatedOn)
}

func TestNewGuild_NilMembersEncodeAsEmptyList(t *testing.T) {
	t.Parallel()

	g, err := NewGuild("Knights", "Round table", []uuid.UUID{uuid.New()}, nil)
	require.NoError(t, err)

	data, err := json.Marshal(g)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"memberIds":[]`)
}

func TestNewGuild_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		gname  string
		desc   string
		owners []uuid.UUID
		field  string
	}{
		{"blank name", "   ", "desc", []uuid.UUID{uuid.New()}, "name"},
		{"blank description", "Knights", "", []uuid.UUID{uuid.New()}, "description"},
		{"no owners", "Knights", "desc", nil, "ownerIds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewGuild(tt.gname, tt.desc, tt.owners, nil)
			require.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, fieldNames(t, err), tt.field)
		})
	}
}

func TestGuild_Validate_CollectsAllFields(t *testing.T) {
	t.Parallel()

	err := Guild{}.Validate()

	assert.ElementsMatch(t, []string{"id", "name", "description", "ownerIds"}, fieldNames(t, err))
}

// ============================================================================
// Roster helpers
// ============================================================================

func TestGuild_WithMember_IsIdempotent(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	p := uuid.New()
	g, err := NewGuild("Knights", "Round table", []uuid.UUID{owner}, nil)
	require.NoError(t, err)

	once := g.WithMember(p)
	twice := once.WithMember(p)

	assert.Equal(t, []uuid.UUID{p}, twice.MemberIDs)
	assert.Empty(t, g.MemberIDs, "original must not be mutated")
	assert.True(t, twice.IsMember(p))
	assert.False(t, twice.IsOwner(p))
}

func TestGuild_WithoutPlayer_RemovesFromBothLists(t *testing.T) {
	t.Parallel()

	a, b := uuid.New(), uuid.New()
	g, err := NewGuild("Knights", "Round table", []uuid.UUID{a, b}, []uuid.UUID{a, b})
	require.NoError(t, err)

	out := g.WithoutPlayer(a)

	assert.Equal(t, []uuid.UUID{b}, out.OwnerIDs)
	assert.Equal(t, []uuid.UUID{b}, out.MemberIDs)
	assert.Len(t, g.OwnerIDs, 2, "original must not be mutated")
}

func TestGuild_WithRoster_OnboardThenDeboard(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	x, y := uuid.New(), uuid.New()
	g, err := NewGuild("Knights", "Round table", []uuid.UUID{owner}, []uuid.UUID{y})
	require.NoError(t, err)

	out := g.WithRoster(RosterUpdate{
		Owners:  Manifest{Onboard: []uuid.UUID{x}},
		Members: Manifest{Onboard: []uuid.UUID{x, x}, Deboard: []uuid.UUID{y, x}},
	})

	assert.Equal(t, []uuid.UUID{owner, x}, out.OwnerIDs)
	assert.Empty(t, out.MemberIDs, "id in both onboard and deboard ends up removed")
}

func TestRosterUpdate_Onboarded(t *testing.T) {
	t.Parallel()

	x, y := uuid.New(), uuid.New()
	u := RosterUpdate{
		Owners:  Manifest{Onboard: []uuid.UUID{x}},
		Members: Manifest{Onboard: []uuid.UUID{x, y}},
	}

	assert.Equal(t, []uuid.UUID{x, y}, u.Onboarded())
}

func TestGuild_JSON_CreatedOnIsString(t *testing.T) {
	t.Parallel()

	g := Guild{ID: uuid.New(), Type: KindGuild, CreatedOn: 1700000000000}

	data, err := json.Marshal(g)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"createdOn":"1700000000000"`)
}
