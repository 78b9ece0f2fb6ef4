package adminauth

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/rs/zerolog/log"
	"gwconsole/internal/gateway"
	"gwconsole/internal/platform/session"
)

const (
	MsgKeyRequired = "Please enter an API key"
	MsgKeyInvalid  = "Invalid API key. Please check your credentials."
)

var ErrNoKey = errors.New("admin API key is not set")

type Gateway interface {
	SetAPIKey(key string)
	ValidateKey(ctx context.Context) error
}

type KeyStore interface {
	AdminKey(ctx context.Context) (string, error)
	SaveAdminKey(ctx context.Context, key string) error
	ClearAdminKey(ctx context.Context) error
}

// Reporter is told whenever the authenticated flag changes.
type Reporter interface {
	SetAdminAuthenticated(ok bool)
}

type Status struct {
	Authenticated bool   `json:"authenticated"`
	KeyHint       string `json:"key_hint,omitempty"`
}

// Service owns the admin API key: it attaches the key to the gateway
// client, validates it and persists it once validated.
type Service struct {
	gw       Gateway
	store    KeyStore
	reporter Reporter

	mu            sync.RWMutex
	key           string
	authenticated bool
}

func NewService(gw Gateway, store KeyStore, reporter Reporter) *Service {
	return &Service{gw: gw, store: store, reporter: reporter}
}

// SetAPIKey attaches key to the client. The session is unauthenticated
// until Validate succeeds.
func (s *Service) SetAPIKey(key string) {
	s.mu.Lock()
	s.key = key
	s.authenticated = false
	s.mu.Unlock()

	s.gw.SetAPIKey(key)
	s.report(false)
}

// Validate checks the attached key against the gateway. A rejected key is
// cleared from the client and from the session store.
func (s *Service) Validate(ctx context.Context) error {
	if s.APIKey() == "" {
		return ErrNoKey
	}

	if err := s.gw.ValidateKey(ctx); err != nil {
		if clearErr := s.clear(ctx); clearErr != nil {
			log.Error().Err(clearErr).Msg("failed to clear rejected admin key")
		}
		return err
	}

	s.mu.Lock()
	s.authenticated = true
	key := s.key
	s.mu.Unlock()
	s.report(true)

	if err := s.store.SaveAdminKey(ctx, key); err != nil {
		return session.StoreError(err)
	}
	return nil
}

// Login is SetAPIKey followed by Validate.
func (s *Service) Login(ctx context.Context, key string) error {
	s.SetAPIKey(key)
	return s.Validate(ctx)
}

func (s *Service) Logout(ctx context.Context) error {
	return s.clear(ctx)
}

// Restore loads a persisted key and re-validates it. Only a key the gateway
// rejects (401 or 403) is cleared. Transport errors and 5xx answers keep the
// key attached, unauthenticated, so a later Validate can succeed without
// asking for it again.
func (s *Service) Restore(ctx context.Context) error {
	key, err := s.store.AdminKey(ctx)
	if err != nil {
		return session.StoreError(err)
	}
	if key == "" {
		return nil
	}

	s.SetAPIKey(key)
	if err := s.gw.ValidateKey(ctx); err != nil {
		if !isRejected(err) {
			log.Warn().Err(err).Int("status", gateway.StatusCode(err)).Msg("gateway unavailable; admin key kept but not validated")
			return err
		}
		if clearErr := s.clear(ctx); clearErr != nil {
			log.Error().Err(clearErr).Msg("failed to clear rejected admin key")
		}
		return err
	}

	s.mu.Lock()
	s.authenticated = true
	s.mu.Unlock()
	s.report(true)
	return nil
}

func isRejected(err error) bool {
	switch gateway.StatusCode(err) {
	case http.StatusUnauthorized, http.StatusForbidden:
		return true
	default:
		return false
	}
}

func (s *Service) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

func (s *Service) APIKey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.key
}

func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status := Status{Authenticated: s.authenticated}
	if len(s.key) >= 4 {
		status.KeyHint = "…" + s.key[len(s.key)-4:]
	}
	return status
}

func (s *Service) clear(ctx context.Context) error {
	s.mu.Lock()
	s.key = ""
	s.authenticated = false
	s.mu.Unlock()

	s.gw.SetAPIKey("")
	s.report(false)
	return session.StoreError(s.store.ClearAdminKey(ctx))
}

func (s *Service) report(ok bool) {
	if s.reporter != nil {
		s.reporter.SetAdminAuthenticated(ok)
	}
}
