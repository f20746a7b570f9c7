package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sqlmockTime = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func TestCursorRoundTrip(t *testing.T) {
	encoded, err := EncodeCursor(Cursor{CreatedAt: sqlmockTime, ID: 12})
	require.NoError(t, err)

	decoded, err := DecodeCursor(encoded)
	require.NoError(t, err)
	assert.Equal(t, 12, decoded.ID)
	assert.True(t, sqlmockTime.Equal(decoded.CreatedAt))
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	c, err := DecodeCursor("")
	assert.NoError(t, err)
	assert.Nil(t, c)

	_, err = DecodeCursor("%%%")
	assert.ErrorIs(t, err, ErrInvalidCursor)

	empty, _ := EncodeCursor(Cursor{})
	_, err = DecodeCursor(empty)
	assert.ErrorIs(t, err, ErrInvalidCursor)
}
