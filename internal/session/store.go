package session

import (
	"context"
	"errors"
)

// TokenKey is the fixed name the bearer token is persisted under.
const TokenKey = "token"

var ErrNoToken = errors.New("no stored token")

// Store persists the session token outside the in-memory state so that it
// survives restarts.
type Store interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}
