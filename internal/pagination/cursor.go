// Package pagination implements the opaque keyset cursor shared by the feed
// and the follower/following listings. A cursor encodes the (created_at,
// tie-break id) position of the last item on a page; resuming from it is
// stable under concurrent inserts and deletes, unlike page-number pagination.
package pagination

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidCursor is returned for malformed or tampered cursor tokens.
// Handlers translate it into a 400 response; clients recover by restarting
// pagination from the beginning.
var ErrInvalidCursor = errors.New("invalid pagination cursor")

// Position is the resume point of a time-ordered listing: the created_at and
// tie-break identity of the last item on the previous page. ID is a string so
// the same cursor serves relational edge IDs and Mongo object IDs.
type Position struct {
	CreatedAt time.Time
	ID        string
}

// Encode renders a position as an opaque URL-safe token.
func Encode(p Position) string {
	raw := fmt.Sprintf("%d:%s", p.CreatedAt.UnixMicro(), p.ID)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// Decode parses a token produced by Encode. Any deviation from the expected
// shape yields ErrInvalidCursor, never a panic or a partial position.
func Decode(token string) (Position, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Position{}, ErrInvalidCursor
	}
	ts, id, ok := strings.Cut(string(raw), ":")
	if !ok || id == "" {
		return Position{}, ErrInvalidCursor
	}
	micros, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return Position{}, ErrInvalidCursor
	}
	return Position{CreatedAt: time.UnixMicro(micros).UTC(), ID: id}, nil
}

// DecodeParam decodes an optional cursor query parameter. An empty token
// means "start from the most recent item" and yields a nil position.
func DecodeParam(token string) (*Position, error) {
	if token == "" {
		return nil, nil
	}
	p, err := Decode(token)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
