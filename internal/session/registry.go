package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strconv"
	"time"

	"github.com/molisezx/luct-reporting/internal/models"
)

// Registry maps opaque session tokens to authenticated-identity snapshots.
// Tokens are created at login, looked up on every protected call, and
// removed at logout or when the referenced user disappears. A zero TTL
// keeps tokens valid until explicitly invalidated or the process restarts.
type Registry interface {
	// Create stores the snapshot under a fresh unguessable token.
	Create(ctx context.Context, snapshot models.UserInfo) (string, error)
	// Lookup returns the snapshot for the token, or nil when absent.
	// Pure read, no side effect.
	Lookup(ctx context.Context, token string) (*models.UserInfo, error)
	// Invalidate removes the token. Removing an absent token is a no-op.
	Invalidate(ctx context.Context, token string) error
}

// newToken combines 24 random bytes with a nanosecond timestamp so a fresh
// token cannot collide with a live one.
func newToken() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf) + "." + strconv.FormatInt(time.Now().UnixNano(), 36), nil
}
