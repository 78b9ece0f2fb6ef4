package userauth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gwconsole/internal/gateway"
	"gwconsole/internal/platform/auth"
	"gwconsole/internal/platform/session"
)

type fakeGateway struct {
	registerErr  error
	loginPair    *gateway.TokenPair
	loginErr     error
	refreshPair  *gateway.TokenPair
	refreshErr   error
	refreshCalls int
}

func (f *fakeGateway) Register(ctx context.Context, name, email, password string) (*gateway.RegisterResult, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &gateway.RegisterResult{Message: "ok"}, nil
}

func (f *fakeGateway) Login(ctx context.Context, email, password string) (*gateway.TokenPair, error) {
	return f.loginPair, f.loginErr
}

func (f *fakeGateway) Refresh(ctx context.Context, refreshToken string) (*gateway.TokenPair, error) {
	f.refreshCalls++
	return f.refreshPair, f.refreshErr
}

type memoryStore struct {
	tokens  session.UserTokens
	saveErr error
}

func (m *memoryStore) UserTokens(ctx context.Context) (session.UserTokens, error) {
	return m.tokens, nil
}
func (m *memoryStore) SaveUserTokens(ctx context.Context, tokens session.UserTokens) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.tokens = tokens
	return nil
}
func (m *memoryStore) SaveAccessToken(ctx context.Context, token string) error {
	m.tokens.AccessToken = token
	return nil
}
func (m *memoryStore) ClearUserTokens(ctx context.Context) error {
	m.tokens = session.UserTokens{}
	return nil
}

var unauthorized = &gateway.APIError{StatusCode: 401, Message: "Invalid token"}

func signedIn(t *testing.T, gw *fakeGateway, tokens session.UserTokens) (*Service, *memoryStore) {
	t.Helper()
	store := &memoryStore{tokens: tokens}
	svc := NewService(gw, store)
	if err := svc.Restore(context.Background()); err != nil {
		t.Fatalf("restore: %v", err)
	}
	return svc, store
}

func TestService_Register(t *testing.T) {
	svc := NewService(&fakeGateway{}, &memoryStore{})
	msg, err := svc.Register(context.Background(), "Ada", "ada@example.com", "pw")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if msg != MsgRegistered {
		t.Errorf("Expected %q, got %q", MsgRegistered, msg)
	}
	if svc.State() != StateNone {
		t.Errorf("Expected no tokens after register, got %s", svc.State())
	}

	taken := &gateway.APIError{StatusCode: 409, Message: "Email already registered"}
	svc = NewService(&fakeGateway{registerErr: taken}, &memoryStore{})
	_, err = svc.Register(context.Background(), "Ada", "ada@example.com", "pw")
	if err == nil || err.Error() != MsgRegisterFailed {
		t.Errorf("Expected generic registration message, got %v", err)
	}
	if !errors.Is(err, taken) {
		t.Error("Expected underlying gateway error to be wrapped")
	}
}

func TestService_Login(t *testing.T) {
	t.Run("success stores both tokens", func(t *testing.T) {
		store := &memoryStore{}
		svc := NewService(&fakeGateway{loginPair: &gateway.TokenPair{AccessToken: "a1", RefreshToken: "r1"}}, store)

		if err := svc.Login(context.Background(), "ada@example.com", "pw"); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !svc.Authenticated() || svc.State() != StateAccessAndRefresh {
			t.Errorf("Expected authenticated with both tokens, got %s", svc.State())
		}
		if store.tokens.RefreshToken != "r1" {
			t.Errorf("Expected refresh token persisted, got %+v", store.tokens)
		}
	})

	t.Run("token save failure is a store error", func(t *testing.T) {
		diskFull := errors.New("database or disk is full")
		store := &memoryStore{saveErr: diskFull}
		svc := NewService(&fakeGateway{loginPair: &gateway.TokenPair{AccessToken: "a1", RefreshToken: "r1"}}, store)

		err := svc.Login(context.Background(), "ada@example.com", "pw")
		if !errors.Is(err, session.ErrStore) || !errors.Is(err, diskFull) {
			t.Errorf("Expected wrapped store error, got %v", err)
		}
		if gateway.StatusCode(err) != 0 {
			t.Errorf("Expected no gateway status, got %d", gateway.StatusCode(err))
		}
	})

	t.Run("failure clears tokens", func(t *testing.T) {
		gw := &fakeGateway{loginErr: unauthorized}
		svc, store := signedIn(t, gw, session.UserTokens{AccessToken: "old", RefreshToken: "old-r"})

		err := svc.Login(context.Background(), "ada@example.com", "wrong")
		if err == nil || err.Error() != MsgLoginFailed {
			t.Errorf("Expected %q, got %v", MsgLoginFailed, err)
		}
		if svc.Authenticated() || svc.State() != StateNone || store.tokens != (session.UserTokens{}) {
			t.Error("Expected tokens cleared after failed login")
		}
	})
}

func TestService_Refresh(t *testing.T) {
	t.Run("no refresh token", func(t *testing.T) {
		gw := &fakeGateway{}
		svc, _ := signedIn(t, gw, session.UserTokens{AccessToken: "a1"})

		ok, err := svc.Refresh(context.Background())
		if ok || err != nil {
			t.Errorf("Expected (false, nil), got (%v, %v)", ok, err)
		}
		if gw.refreshCalls != 0 || svc.AccessToken() != "a1" {
			t.Error("Expected no state change")
		}
	})

	t.Run("success replaces access token", func(t *testing.T) {
		gw := &fakeGateway{refreshPair: &gateway.TokenPair{AccessToken: "a2"}}
		svc, store := signedIn(t, gw, session.UserTokens{AccessToken: "a1", RefreshToken: "r1"})

		ok, err := svc.Refresh(context.Background())
		if !ok || err != nil {
			t.Fatalf("Expected (true, nil), got (%v, %v)", ok, err)
		}
		if svc.AccessToken() != "a2" || store.tokens.AccessToken != "a2" || store.tokens.RefreshToken != "r1" {
			t.Errorf("Unexpected tokens %+v", store.tokens)
		}
	})

	t.Run("failure keeps refresh token", func(t *testing.T) {
		gw := &fakeGateway{refreshErr: unauthorized}
		svc, store := signedIn(t, gw, session.UserTokens{AccessToken: "a1", RefreshToken: "r1"})

		ok, err := svc.Refresh(context.Background())
		if ok || err == nil {
			t.Fatalf("Expected failure, got (%v, %v)", ok, err)
		}
		if svc.Authenticated() || svc.AccessToken() != "" {
			t.Error("Expected access token and flag cleared")
		}
		if svc.RefreshToken() != "r1" || store.tokens.RefreshToken != "r1" {
			t.Error("Expected refresh token retained")
		}
	})
}

func TestService_DoRetriesOnceAfterRefresh(t *testing.T) {
	gw := &fakeGateway{refreshPair: &gateway.TokenPair{AccessToken: "a2"}}
	svc, _ := signedIn(t, gw, session.UserTokens{AccessToken: "a1", RefreshToken: "r1"})

	var seen []string
	err := svc.Do(context.Background(), func(ctx context.Context, token string) error {
		seen = append(seen, token)
		if token == "a1" {
			return unauthorized
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(seen) != 2 || seen[1] != "a2" {
		t.Errorf("Expected one retry with the new token, got %v", seen)
	}
	if gw.refreshCalls != 1 {
		t.Errorf("Expected exactly one refresh, got %d", gw.refreshCalls)
	}
}

func TestService_DoDoesNotLoop(t *testing.T) {
	gw := &fakeGateway{refreshPair: &gateway.TokenPair{AccessToken: "a2"}}
	svc, _ := signedIn(t, gw, session.UserTokens{AccessToken: "a1", RefreshToken: "r1"})

	calls := 0
	err := svc.Do(context.Background(), func(ctx context.Context, token string) error {
		calls++
		return unauthorized
	})
	if !gateway.IsUnauthorized(err) {
		t.Errorf("Expected the second 401 surfaced, got %v", err)
	}
	if calls != 2 || gw.refreshCalls != 1 {
		t.Errorf("Expected 2 fetches and 1 refresh, got %d and %d", calls, gw.refreshCalls)
	}
}

func TestService_DoWithoutRefreshToken(t *testing.T) {
	gw := &fakeGateway{}
	svc, _ := signedIn(t, gw, session.UserTokens{AccessToken: "a1"})

	calls := 0
	err := svc.Do(context.Background(), func(ctx context.Context, token string) error {
		calls++
		return unauthorized
	})
	if !gateway.IsUnauthorized(err) || calls != 1 || gw.refreshCalls != 0 {
		t.Errorf("Expected a single failed fetch, got err=%v calls=%d refreshes=%d", err, calls, gw.refreshCalls)
	}
}

func TestService_DoFailedRefresh(t *testing.T) {
	gw := &fakeGateway{refreshErr: unauthorized}
	svc, _ := signedIn(t, gw, session.UserTokens{AccessToken: "a1", RefreshToken: "r1"})

	calls := 0
	err := svc.Do(context.Background(), func(ctx context.Context, token string) error {
		calls++
		return unauthorized
	})
	if err == nil || err.Error() != MsgSessionExpired {
		t.Errorf("Expected session expired message, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected no retry after a failed refresh, got %d calls", calls)
	}
}

func TestService_DoPassesThroughOtherErrors(t *testing.T) {
	gw := &fakeGateway{}
	svc, _ := signedIn(t, gw, session.UserTokens{AccessToken: "a1", RefreshToken: "r1"})

	boom := &gateway.APIError{StatusCode: 500, Message: "boom"}
	err := svc.Do(context.Background(), func(ctx context.Context, token string) error { return boom })
	if !errors.Is(err, boom) || gw.refreshCalls != 0 {
		t.Errorf("Expected 500 returned without refresh, got %v", err)
	}

	signedOut := NewService(gw, &memoryStore{})
	if err := signedOut.Do(context.Background(), func(context.Context, string) error { return nil }); !errors.Is(err, ErrNotSignedIn) {
		t.Errorf("Expected ErrNotSignedIn, got %v", err)
	}
}

func TestService_Identity(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		Name: "Ada",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "usr_1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("x"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	svc, _ := signedIn(t, &fakeGateway{}, session.UserTokens{AccessToken: token})
	identity, err := svc.Identity()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if identity.UserID != "usr_1" || identity.DisplayName() != "Ada" {
		t.Errorf("Unexpected identity %+v", identity)
	}

	if err := svc.Logout(context.Background()); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.Identity(); !errors.Is(err, ErrNotSignedIn) {
		t.Errorf("Expected ErrNotSignedIn after logout, got %v", err)
	}
}
