package userauth

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
	"gwconsole/internal/gateway"
	"gwconsole/internal/platform/auth"
	"gwconsole/internal/platform/session"
)

const (
	MsgRegistered     = "Registered. Please wait for admin approval."
	MsgRegisterFailed = "Registration failed. Email may be taken."
	MsgLoginFailed    = "Invalid credentials or account not approved"
	MsgNotSignedIn    = "Not signed in"
	MsgSessionExpired = "Session expired. Please sign in again."
)

var ErrNotSignedIn = errors.New("not signed in")

// Error carries a user-facing message over the underlying cause.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Err }

type State string

const (
	StateNone             State = "none"
	StateAccessOnly       State = "access-only"
	StateAccessAndRefresh State = "access-and-refresh"
)

type Gateway interface {
	Register(ctx context.Context, name, email, password string) (*gateway.RegisterResult, error)
	Login(ctx context.Context, email, password string) (*gateway.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*gateway.TokenPair, error)
}

type TokenStore interface {
	UserTokens(ctx context.Context) (session.UserTokens, error)
	SaveUserTokens(ctx context.Context, tokens session.UserTokens) error
	SaveAccessToken(ctx context.Context, token string) error
	ClearUserTokens(ctx context.Context) error
}

// Service tracks the end-user token pair and performs the single
// refresh-and-retry on unauthorized portal calls.
type Service struct {
	gw    Gateway
	store TokenStore

	mu            sync.Mutex
	tokens        session.UserTokens
	authenticated bool
}

func NewService(gw Gateway, store TokenStore) *Service {
	return &Service{gw: gw, store: store}
}

// Restore loads the persisted token pair.
func (s *Service) Restore(ctx context.Context) error {
	tokens, err := s.store.UserTokens(ctx)
	if err != nil {
		return session.StoreError(err)
	}
	s.mu.Lock()
	s.tokens = tokens
	s.authenticated = tokens.AccessToken != ""
	s.mu.Unlock()
	return nil
}

// Register creates a pending account. No tokens are issued.
func (s *Service) Register(ctx context.Context, name, email, password string) (string, error) {
	if _, err := s.gw.Register(ctx, name, email, password); err != nil {
		log.Debug().Err(err).Msg("registration rejected")
		return "", &Error{Message: MsgRegisterFailed, Err: err}
	}
	return MsgRegistered, nil
}

func (s *Service) Login(ctx context.Context, email, password string) error {
	pair, err := s.gw.Login(ctx, email, password)
	if err != nil || pair == nil || pair.AccessToken == "" {
		s.set(session.UserTokens{}, false)
		if clearErr := s.store.ClearUserTokens(ctx); clearErr != nil {
			log.Error().Err(clearErr).Msg("failed to clear user tokens")
		}
		if err == nil {
			err = errors.New("login returned no access token")
		}
		return &Error{Message: MsgLoginFailed, Err: err}
	}

	tokens := session.UserTokens{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}
	s.set(tokens, true)
	return session.StoreError(s.store.SaveUserTokens(ctx, tokens))
}

// Refresh exchanges the refresh token for a new access token. It reports
// false without touching state when no refresh token is held. On failure
// the access token is dropped and the refresh token kept.
func (s *Service) Refresh(ctx context.Context) (bool, error) {
	s.mu.Lock()
	refresh := s.tokens.RefreshToken
	s.mu.Unlock()
	if refresh == "" {
		return false, nil
	}

	pair, err := s.gw.Refresh(ctx, refresh)
	if err != nil || pair == nil || pair.AccessToken == "" {
		s.mu.Lock()
		s.tokens.AccessToken = ""
		s.authenticated = false
		s.mu.Unlock()
		if saveErr := s.store.SaveAccessToken(ctx, ""); saveErr != nil {
			log.Error().Err(saveErr).Msg("failed to clear access token")
		}
		if err == nil {
			err = errors.New("refresh returned no access token")
		}
		return false, err
	}

	s.mu.Lock()
	s.tokens.AccessToken = pair.AccessToken
	s.authenticated = true
	s.mu.Unlock()
	return true, session.StoreError(s.store.SaveAccessToken(ctx, pair.AccessToken))
}

func (s *Service) Logout(ctx context.Context) error {
	s.set(session.UserTokens{}, false)
	return session.StoreError(s.store.ClearUserTokens(ctx))
}

// Do runs fetch with the current access token. A 401 with a refresh token
// on hand triggers exactly one refresh and, if that succeeds, exactly one
// retry. Whatever the retry returns is final.
func (s *Service) Do(ctx context.Context, fetch func(ctx context.Context, accessToken string) error) error {
	token := s.AccessToken()
	if token == "" {
		return &Error{Message: MsgNotSignedIn, Err: ErrNotSignedIn}
	}

	err := fetch(ctx, token)
	if err == nil || !gateway.IsUnauthorized(err) {
		return err
	}
	if s.RefreshToken() == "" {
		return err
	}

	ok, refreshErr := s.Refresh(ctx)
	if !ok {
		if refreshErr != nil {
			log.Debug().Err(refreshErr).Msg("token refresh failed")
		}
		return &Error{Message: MsgSessionExpired, Err: err}
	}

	return fetch(ctx, s.AccessToken())
}

func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.tokens.AccessToken != "" && s.tokens.RefreshToken != "":
		return StateAccessAndRefresh
	case s.tokens.AccessToken != "":
		return StateAccessOnly
	default:
		return StateNone
	}
}

func (s *Service) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

func (s *Service) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens.AccessToken
}

func (s *Service) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens.RefreshToken
}

// Identity decodes the current access token for display.
func (s *Service) Identity() (*auth.Identity, error) {
	token := s.AccessToken()
	if token == "" {
		return nil, ErrNotSignedIn
	}
	return auth.ParseIdentity(token)
}

func (s *Service) set(tokens session.UserTokens, authenticated bool) {
	s.mu.Lock()
	s.tokens = tokens
	s.authenticated = authenticated
	s.mu.Unlock()
}
