package auth

import (
	"context"
	"errors"
	"time"

	"github.com/2beens/fitcoach/internal/api"
)

var ErrNoSession = errors.New("no stored session")

// StoredSession is what survives a restart: the bearer token and the cached profile.
type StoredSession struct {
	Token     string    `json:"token"`
	User      api.User  `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

//go:generate mockgen -source=$GOFILE -destination=store_mocks_test.go -package=auth_test

type TokenStore interface {
	// Load returns ErrNoSession when nothing is stored.
	Load(ctx context.Context) (*StoredSession, error)
	Save(ctx context.Context, session StoredSession) error
	Clear(ctx context.Context) error
	Close() error
}
