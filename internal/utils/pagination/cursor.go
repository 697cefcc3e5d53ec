package pagination

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"
)

// Cursor is the opaque pagination state we encode/decode.
// SortNano (Unix nanoseconds) + ID establish a stable keyset position. The
// sort key keeps full precision so it compares equal to the stored row.
type Cursor struct {
	ID       string `json:"id"`
	SortNano int64  `json:"sort_nano,omitempty"`
}

// After builds the cursor for the last row of a page.
func After(id string, sortKey time.Time) Cursor {
	return Cursor{ID: id, SortNano: sortKey.UTC().UnixNano()}
}

// SortTime returns the sort key as a UTC time.
func (c Cursor) SortTime() time.Time {
	return time.Unix(0, c.SortNano).UTC()
}

// IsZero reports whether the cursor points at the first page.
func (c Cursor) IsZero() bool {
	return c.ID == "" && c.SortNano == 0
}

// Encode converts a Cursor into a Base64 string.
func Encode(c Cursor) (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal cursor: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// EncodePtr encodes c and returns a pointer, the shape repositories hand back
// as next-page tokens.
func EncodePtr(c Cursor) (*string, error) {
	tok, err := Encode(c)
	if err != nil {
		return nil, err
	}
	return &tok, nil
}

// Decode parses a Base64 string into a Cursor.
// Empty token → empty cursor (first page).
func Decode(token string) (Cursor, error) {
	if token == "" {
		return Cursor{}, nil
	}

	b, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token")
	}

	var c Cursor
	if err := json.Unmarshal(b, &c); err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token")
	}
	return c, nil
}
