// Package session owns the login state of the console.
//
// A Service starts Initializing, and Initialize moves it to Authenticated
// or Anonymous from the stored access token. Login and Logout move between
// the two. Protected commands consult Guard before running.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/cgea-sas/console/internal/client/credstore"
	"github.com/cgea-sas/console/internal/client/models"
	"github.com/cgea-sas/console/internal/client/tokencodec"
	"github.com/cgea-sas/console/internal/logging"
)

type State int

const (
	Initializing State = iota
	Authenticated
	Anonymous
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Authenticated:
		return "authenticated"
	case Anonymous:
		return "anonymous"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Authenticator exchanges credentials for a token pair.
type Authenticator interface {
	Login(ctx context.Context, creds models.Credentials) (models.TokenPair, error)
}

// Snapshot is the observable session: the decoded identity, if any, and
// whether initialization is still running.
type Snapshot struct {
	Identity  tokencodec.Claims
	IsLoading bool
}

type Service struct {
	store credstore.Store
	auth  Authenticator
	log   logging.Logger

	mu       sync.RWMutex
	identity tokencodec.Claims
	loading  bool
}

func New(store credstore.Store, auth Authenticator, log logging.Logger) *Service {
	return &Service{store: store, auth: auth, log: log, loading: true}
}

// Initialize restores the session from the stored access token. A token
// that does not decode is cleared.
func (s *Service) Initialize(ctx context.Context) {
	var identity tokencodec.Claims
	if token, ok := credstore.AccessToken(ctx, s.store); ok {
		claims, valid := tokencodec.Decode(token)
		if valid {
			identity = claims
		} else {
			s.log.Info(ctx, "stored access token is unreadable, clearing session")
			credstore.Clear(ctx, s.store)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = identity
	s.loading = false
}

// Login authenticates against the backend. On failure neither the state
// nor the stored tokens change.
func (s *Service) Login(ctx context.Context, creds models.Credentials) error {
	pair, err := s.auth.Login(ctx, creds)
	if err != nil {
		return err
	}

	claims, ok := tokencodec.Decode(pair.Access)
	if !ok {
		return fmt.Errorf("login: backend returned an unreadable access token")
	}
	credstore.SavePair(ctx, s.store, pair)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = claims
	s.loading = false
	s.log.Info(ctx, "logged in", "user", tokencodec.Username(claims))
	return nil
}

// Logout clears both tokens. Calling it while anonymous is a no-op.
func (s *Service) Logout(ctx context.Context) {
	credstore.Clear(ctx, s.store)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = nil
	s.loading = false
}

func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Identity: s.identity, IsLoading: s.loading}
}

func (s *Service) State() State {
	snap := s.Snapshot()
	switch {
	case snap.IsLoading:
		return Initializing
	case snap.Identity != nil:
		return Authenticated
	default:
		return Anonymous
	}
}

// Decision is what a protected command does in the current state.
type Decision int

const (
	GuardLoading Decision = iota
	GuardRedirectLogin
	GuardRender
)

func (s *Service) Guard() Decision {
	switch s.State() {
	case Initializing:
		return GuardLoading
	case Authenticated:
		return GuardRender
	default:
		return GuardRedirectLogin
	}
}
