package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	want := Cursor{CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 123, time.UTC), ID: uuid.New()}
	got, err := ParseCursor(EncodeCursor(want))
	require.NoError(t, err)
	require.True(t, want.CreatedAt.Equal(got.CreatedAt))
	require.Equal(t, want.ID, got.ID)

	empty, err := ParseCursor("  ")
	require.NoError(t, err)
	require.Nil(t, empty)

	_, err = ParseCursor("not-base64!")
	require.ErrorIs(t, err, ErrInvalidCursor)
}

func TestCursorIsQuerySafe(t *testing.T) {
	for i := 0; i < 20; i++ {
		token := EncodeCursor(Cursor{CreatedAt: time.Now().Add(time.Duration(i) * time.Millisecond), ID: uuid.New()})
		require.NotContains(t, token, "+")
		require.NotContains(t, token, "/")
		require.NotContains(t, token, "=")
	}
}

func TestParseCursorRejectsNilID(t *testing.T) {
	token := EncodeCursor(Cursor{CreatedAt: time.Now(), ID: uuid.Nil})
	_, err := ParseCursor(token)
	require.ErrorIs(t, err, ErrInvalidCursor)
}

func TestNormalizeLimit(t *testing.T) {
	require.Equal(t, DefaultLimit, NormalizeLimit(0))
	require.Equal(t, DefaultLimit, NormalizeLimit(-4))
	require.Equal(t, 7, NormalizeLimit(7))
	require.Equal(t, MaxLimit, NormalizeLimit(MaxLimit+1))
	require.Equal(t, 8, LimitWithBuffer(7))
}

func TestPageNormalize(t *testing.T) {
	p := Page{Page: 0, Limit: 500}.Normalize()
	require.Equal(t, 1, p.Page)
	require.Equal(t, MaxLimit, p.Limit)

	require.Equal(t, 0, Page{Page: 1, Limit: 10}.Offset())
	require.Equal(t, 50, Page{Page: 3, Limit: 25}.Offset())
	require.Equal(t, DefaultLimit, Page{}.Normalize().Limit)
}

func TestTotalPages(t *testing.T) {
	require.Equal(t, 0, TotalPages(0, 10))
	require.Equal(t, 1, TotalPages(10, 10))
	require.Equal(t, 2, TotalPages(11, 10))
}
