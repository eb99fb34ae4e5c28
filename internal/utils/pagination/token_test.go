package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janezhang99/SEW-v5-sub002/internal/apperrors"
)

func TestEncodeDecodeCursor(t *testing.T) {
	c := Cursor{ID: "abc-123", CreatedAt: time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC)}

	token := EncodeCursor(c)
	assert.NotEmpty(t, token)
	assert.NotContains(t, token, "=", "token is safe in a query string")

	decoded, err := DecodeCursor(token)
	require.NoError(t, err)
	assert.Equal(t, c.ID, decoded.ID)
	assert.True(t, c.CreatedAt.Equal(decoded.CreatedAt))
}

func TestEncodeDecodeCursor_IDWithSeparator(t *testing.T) {
	for _, id := range []string{"legacy|42", "|", "a||b|"} {
		c := Cursor{ID: id, CreatedAt: time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)}
		decoded, err := DecodeCursor(EncodeCursor(c))
		require.NoError(t, err, id)
		assert.Equal(t, id, decoded.ID)
		assert.True(t, c.CreatedAt.Equal(decoded.CreatedAt))
	}
}

func TestDecodeCursorError(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		wantMsg string
	}{
		{"not base64", "this is not base64!", "base64 decode"},
		{"missing separator", EncodeMultiFieldToken("2023-05-15T00:00:00Z"), "split"},
		{"empty id", EncodeMultiFieldToken("2023-05-15T00:00:00Z", ""), "split"},
		{"bad time", EncodeMultiFieldToken("notadate", "abc"), "created_at parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeCursor(tt.token)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestMultiFieldToken(t *testing.T) {
	token := EncodeMultiFieldToken("a", "b", "c")
	parts, err := DecodeMultiFieldToken(token)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, parts)
}

func TestResumeIndex(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ids := []string{"a", "b", "d"}
	created := []time.Time{base, base.Add(time.Minute), base.Add(3 * time.Minute)}
	id := func(i int) string { return ids[i] }
	at := func(i int) time.Time { return created[i] }

	assert.Equal(t, 2, ResumeIndex(Cursor{ID: "b", CreatedAt: created[1]}, 3, id, at))
	assert.Equal(t, 3, ResumeIndex(Cursor{ID: "d", CreatedAt: created[2]}, 3, id, at))
	// "c" was deleted; resume at the next record created after it
	assert.Equal(t, 2, ResumeIndex(Cursor{ID: "c", CreatedAt: base.Add(2 * time.Minute)}, 3, id, at))
	assert.Equal(t, 3, ResumeIndex(Cursor{ID: "z", CreatedAt: base.Add(time.Hour)}, 3, id, at))
}
