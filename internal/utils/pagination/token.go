package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/janezhang99/SEW-v5-sub002/internal/apperrors"
)

const (
	timeFormat     = time.RFC3339Nano
	tokenSeparator = "|"
)

// Cursor marks the last record a client has seen.
type Cursor struct {
	ID        string
	CreatedAt time.Time
}

// EncodeCursor creates an opaque, URL-safe token for c. The id goes last so it may contain the separator.
func EncodeCursor(c Cursor) string {
	return EncodeMultiFieldToken(c.CreatedAt.UTC().Format(timeFormat), c.ID)
}

// DecodeCursor parses a token produced by EncodeCursor.
func DecodeCursor(token string) (Cursor, error) {
	decoded, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: invalid pagination token format (base64 decode): %v", apperrors.ErrValidation, err)
	}
	parts := strings.SplitN(string(decoded), tokenSeparator, 2)
	if len(parts) != 2 || parts[1] == "" {
		return Cursor{}, fmt.Errorf("%w: invalid pagination token format (split)", apperrors.ErrValidation)
	}
	createdAt, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: invalid pagination token format (created_at parse): %v", apperrors.ErrValidation, err)
	}
	return Cursor{ID: parts[1], CreatedAt: createdAt}, nil
}

// ResumeIndex returns the position just after the cursor in a list ordered by insertion.
// When the cursor record is gone, it resumes at the first record created strictly after it,
// so other records sharing the cursor's exact createdAt are skipped.
func ResumeIndex(c Cursor, n int, id func(i int) string, createdAt func(i int) time.Time) int {
	for i := 0; i < n; i++ {
		if id(i) == c.ID {
			return i + 1
		}
	}
	for i := 0; i < n; i++ {
		if createdAt(i).After(c.CreatedAt) {
			return i
		}
	}
	return n
}

// EncodeMultiFieldToken creates a token with any number of string fields.
func EncodeMultiFieldToken(fields ...string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strings.Join(fields, tokenSeparator)))
}

// DecodeMultiFieldToken decodes a token into its component fields.
func DecodeMultiFieldToken(token string) ([]string, error) {
	decoded, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid pagination token format (base64 decode): %v", apperrors.ErrValidation, err)
	}
	return strings.Split(string(decoded), tokenSeparator), nil
}
