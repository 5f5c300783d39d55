// Package session holds the signed-in identity of the storefront client and
// keeps its token in local storage between runs.
package session

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/fanmerch/storefront/internal/client/api"
	"github.com/fanmerch/storefront/internal/client/localstore"
	"github.com/fanmerch/storefront/internal/client/notify"
	"github.com/fanmerch/storefront/internal/core/domain"
)

// ErrNotAuthenticated is returned by operations that need a signed-in user.
var ErrNotAuthenticated = domain.NewError(domain.ErrUnauthorized, "please sign in first")

// AuthAPI is the part of the REST client the session uses.
type AuthAPI interface {
	Signup(ctx context.Context, email, password, name string) (*api.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*api.AuthResponse, error)
	Me(ctx context.Context, token string) (*domain.User, error)
	UpdateProfile(ctx context.Context, token string, update domain.ProfileUpdate) (*domain.User, error)
}

// Listener is told about every sign-in and sign-out.
type Listener func(ctx context.Context, authenticated bool)

type Session struct {
	api    AuthAPI
	store  localstore.Store
	notify notify.Notifier
	log    zerolog.Logger

	mu        sync.RWMutex
	token     string
	user      *domain.User
	listeners []Listener

	busy atomic.Int32
}

func New(authAPI AuthAPI, store localstore.Store, n notify.Notifier, log zerolog.Logger) *Session {
	return &Session{api: authAPI, store: store, notify: n, log: log}
}

// OnChange registers l for auth transitions.
func (s *Session) OnChange(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Init restores a stored session. A token the server rejects is discarded
// and the session stays anonymous. When the server cannot be reached the
// token is kept for the next run. Init never fails.
func (s *Session) Init(ctx context.Context) {
	raw, err := s.store.Get(ctx, localstore.KeyAuthToken)
	if err != nil {
		s.log.Warn().Err(err).Msg("read stored token")
		return
	}
	if len(raw) == 0 {
		return
	}
	token := string(raw)

	defer s.track()()
	user, err := s.api.Me(ctx, token)
	if err != nil {
		if !rejected(err) {
			s.log.Warn().Err(err).Msg("could not verify stored token, keeping it")
			return
		}
		s.log.Debug().Err(err).Msg("stored token rejected, signing out")
		if err := s.store.Delete(ctx, localstore.KeyAuthToken); err != nil {
			s.log.Warn().Err(err).Msg("delete stored token")
		}
		return
	}

	s.signIn(ctx, token, user)
}

func (s *Session) Login(ctx context.Context, email, password string) error {
	defer s.track()()
	res, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.notify.Failure(api.Message(err))
		return err
	}
	return s.establish(ctx, res)
}

func (s *Session) Signup(ctx context.Context, email, password, name string) error {
	defer s.track()()
	res, err := s.api.Signup(ctx, email, password, name)
	if err != nil {
		s.notify.Failure(api.Message(err))
		return err
	}
	return s.establish(ctx, res)
}

// Logout forgets the token locally. Tokens are stateless, so the server is
// not involved.
func (s *Session) Logout(ctx context.Context) {
	s.mu.Lock()
	was := s.user != nil
	s.token, s.user = "", nil
	s.mu.Unlock()

	if err := s.store.Delete(ctx, localstore.KeyAuthToken); err != nil {
		s.log.Warn().Err(err).Msg("delete stored token")
	}
	if was {
		s.emit(ctx, false)
	}
}

// UpdateProfile replaces the local identity with the server's answer. On
// failure the identity is left as it was.
func (s *Session) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) error {
	token := s.Token()
	if token == "" {
		return ErrNotAuthenticated
	}

	defer s.track()()
	user, err := s.api.UpdateProfile(ctx, token, update)
	if err != nil {
		s.notify.Failure(api.Message(err))
		return err
	}

	s.mu.Lock()
	if s.token == token {
		s.user = user
	}
	s.mu.Unlock()
	s.notify.Success("Profile updated")
	return nil
}

// Refresh reloads the signed-in user from the server without signalling an
// auth transition.
func (s *Session) Refresh(ctx context.Context) error {
	token := s.Token()
	if token == "" {
		return ErrNotAuthenticated
	}

	defer s.track()()
	user, err := s.api.Me(ctx, token)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.token == token {
		s.user = user
	}
	s.mu.Unlock()
	return nil
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// User returns a copy of the signed-in user, or nil.
func (s *Session) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Busy reports whether a call to the server is outstanding.
func (s *Session) Busy() bool {
	return s.busy.Load() > 0
}

func (s *Session) track() func() {
	s.busy.Add(1)
	return func() { s.busy.Add(-1) }
}

func (s *Session) establish(ctx context.Context, res *api.AuthResponse) error {
	if err := s.store.Set(ctx, localstore.KeyAuthToken, []byte(res.Token)); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	user := res.User
	s.signIn(ctx, res.Token, &user)
	return nil
}

func (s *Session) signIn(ctx context.Context, token string, user *domain.User) {
	s.mu.Lock()
	s.token, s.user = token, user
	s.mu.Unlock()
	s.emit(ctx, true)
}

func (s *Session) emit(ctx context.Context, authenticated bool) {
	s.mu.RLock()
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.RUnlock()

	for _, l := range listeners {
		l(ctx, authenticated)
	}
}

// rejected reports whether the server refused a token, as opposed to not
// being reachable.
func rejected(err error) bool {
	switch api.StatusOf(err) {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return true
	}
	return false
}
