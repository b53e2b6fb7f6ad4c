package codec

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/gildr/internal/model"
)

func TestCodec_RoundTrip_Guild(t *testing.T) {
	t.Parallel()

	c := New()
	g, err := model.NewGuild("Knights", "Round <table> & co", []uuid.UUID{uuid.New()}, []uuid.UUID{uuid.New(), uuid.New()})
	require.NoError(t, err)

	data, err := c.Marshal(g)
	require.NoError(t, err)

	var out model.Guild
	require.NoError(t, c.Unmarshal(data, &out))
	assert.Equal(t, g, out)
}

func TestCodec_Marshal_Format(t *testing.T) {
	t.Parallel()

	c := New()
	g := model.Guild{
		ID:          uuid.New(),
		Type:        model.KindGuild,
		Name:        "A & B",
		Description: "<b>bold</b>",
		CreatedOn:   9007199254740993,
	}

	data, err := c.Marshal(g)
	require.NoError(t, err)
	s := string(data)

	assert.Contains(t, s, "<b>bold</b>", "html must not be escaped")
	assert.Contains(t, s, "A & B")
	assert.Contains(t, s, `"createdOn": "9007199254740993"`, "long values encode as strings")
	assert.Contains(t, s, `"ownerIds": null`, "nil lists are encoded, not omitted")
	assert.True(t, strings.Contains(s, "\n  \"id\""), "output is indented")
}

func TestCodec_Unmarshal_Malformed(t *testing.T) {
	t.Parallel()

	c := New()
	var g model.Guild

	for _, in := range []string{"", "   ", "{", `{"id": 12}`, "not json"} {
		err := c.Unmarshal([]byte(in), &g)
		assert.ErrorIs(t, err, ErrMalformed, "input %q", in)
	}
}
