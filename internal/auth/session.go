package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/fitcoach/internal/api"
	"github.com/2beens/fitcoach/internal/events"
	log "github.com/sirupsen/logrus"
)

var ErrNotLoggedIn = errors.New("not logged in")

//go:generate mockgen -source=$GOFILE -destination=session_mocks_test.go -package=auth_test

type Backend interface {
	Login(ctx context.Context, email, password string) (*api.LoginResponse, error)
	LoadProfile(ctx context.Context) (*api.User, error)
}

// Session holds the current bearer token and user. It satisfies
// api.TokenProvider so the api client can read the token on every call.
type Session struct {
	backend Backend
	store   TokenStore
	bus     *events.Bus
	now     func() time.Time
	limiter *LoginLimiter

	mu    sync.RWMutex
	token string
	user  *api.User
}

type SessionOption func(*Session)

func WithLoginLimiter(limiter *LoginLimiter) SessionOption {
	return func(s *Session) {
		s.limiter = limiter
	}
}

func NewSession(backend Backend, store TokenStore, bus *events.Bus, opts ...SessionOption) *Session {
	s := &Session{
		backend: backend,
		store:   store,
		bus:     bus,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore loads a previously saved session, if any. It reports whether one was found.
func (s *Session) Restore(ctx context.Context) (bool, error) {
	stored, err := s.store.Load(ctx)
	if errors.Is(err, ErrNoSession) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("restore session: %w", err)
	}
	if stored.Token == "" {
		return false, nil
	}

	user := stored.User
	s.mu.Lock()
	s.token = stored.Token
	s.user = &user
	s.mu.Unlock()

	log.Debugf("auth: restored session for %s (created %s)", user.Email, stored.CreatedAt.Format(time.RFC3339))
	return true, nil
}

func (s *Session) Login(ctx context.Context, email, password string) (*api.User, error) {
	if s.limiter != nil {
		if err := s.limiter.Check(ctx); err != nil {
			return nil, err
		}
	}

	resp, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("login: %w: empty token", api.ErrUnauthorized)
	}

	user := api.User{Email: email}
	if resp.User != nil {
		user = *resp.User
	}

	if err := s.store.Save(ctx, StoredSession{
		Token:     resp.Token,
		User:      user,
		CreatedAt: s.now(),
	}); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	s.mu.Lock()
	s.token = resp.Token
	s.user = &user
	s.mu.Unlock()

	log.Printf("auth: logged in as %s", user.Email)
	return &user, nil
}

// LoadProfile refreshes the cached user. A rejected token logs the session out.
func (s *Session) LoadProfile(ctx context.Context) (*api.User, error) {
	if !s.IsAuthenticated() {
		return nil, ErrNotLoggedIn
	}

	user, err := s.backend.LoadProfile(ctx)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			log.Warnln("auth: token rejected, logging out")
			if logoutErr := s.Logout(ctx); logoutErr != nil {
				log.Errorf("auth: logout after rejected token: %s", logoutErr)
			}
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}

	s.mu.Lock()
	token := s.token
	s.user = user
	s.mu.Unlock()

	if err := s.store.Save(ctx, StoredSession{Token: token, User: *user, CreatedAt: s.now()}); err != nil {
		log.Errorf("auth: persist refreshed profile: %s", err)
	}
	return user, nil
}

// Logout clears persisted and in-memory state and notifies every logout subscriber,
// even when clearing the store fails.
func (s *Session) Logout(ctx context.Context) error {
	storeErr := s.store.Clear(ctx)

	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if s.bus != nil {
		s.bus.EmitLogout()
	}

	if storeErr != nil {
		return fmt.Errorf("clear stored session: %w", storeErr)
	}
	return nil
}

func (s *Session) IsAuthenticated() bool {
	return s.CurrentToken() != ""
}

func (s *Session) CurrentToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) CurrentUser() *api.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}
