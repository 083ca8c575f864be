package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	token, err := EncodeCursor(Cursor{Seq: "42", OrderDate: "2024-03-01"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	cursor, err := DecodeCursor(token)
	require.NoError(t, err)
	assert.Equal(t, "42", cursor.Seq)
	assert.Equal(t, "2024-03-01", cursor.OrderDate)
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	_, err := DecodeCursor("%%%")
	assert.ErrorIs(t, err, ErrInvalidPageToken)

	_, err = DecodeCursor("bm90LWpzb24")
	assert.ErrorIs(t, err, ErrInvalidPageToken)
}

func TestPaginationSize(t *testing.T) {
	assert.Equal(t, DefaultPageSize, Pagination{}.Size())
	assert.Equal(t, 10, Pagination{PageSize: 10}.Size())
	assert.Equal(t, MaxPageSize, Pagination{PageSize: MaxPageSize + 1}.Size())
}
