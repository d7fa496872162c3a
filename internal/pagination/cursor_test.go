package pagination

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeCursor(t *testing.T) {
	ts := time.Date(2024, 1, 15, 10, 30, 0, 123456000, time.UTC)

	encoded := EncodeCursor("TICKET-3F2A9C1E", ts)
	require.NotEmpty(t, encoded)
	assert.False(t, strings.ContainsAny(encoded, "+/="), "cursor must be safe in a query string")

	c, err := DecodeCursor(encoded)
	require.NoError(t, err)
	assert.Equal(t, "TICKET-3F2A9C1E", c.ID)
	assert.True(t, c.CreatedAt.Equal(ts))
}

func TestEncodeCursor_EmptyID(t *testing.T) {
	assert.Empty(t, EncodeCursor("", time.Now()))
}

func TestDecodeCursor_Invalid(t *testing.T) {
	c, err := DecodeCursor("")
	assert.NoError(t, err)
	assert.Nil(t, c)

	enc := func(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }

	for name, token := range map[string]string{
		"not base64":    "%%%",
		"no separator":  enc("no-separator"),
		"bad timestamp": enc("yesterday:TICKET-1"),
		"empty id":      enc("1700000000000000000:"),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeCursor(token)
			assert.ErrorIs(t, err, ErrInvalidCursor)
		})
	}
}

func TestCursor_Admits(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c := &Cursor{ID: "TICKET-M", CreatedAt: ts}

	assert.True(t, c.Admits(ts.Add(-time.Second), "TICKET-Z"))
	assert.False(t, c.Admits(ts.Add(time.Second), "TICKET-A"))
	assert.True(t, c.Admits(ts, "TICKET-A"))
	assert.False(t, c.Admits(ts, "TICKET-M"))
	assert.False(t, c.Admits(ts, "TICKET-Z"))
}
