package handlers

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"gwconsole/internal/engine/userauth"
	"gwconsole/internal/gateway"
	"gwconsole/internal/pkg/errors"
	"gwconsole/internal/platform/session"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"unauthorized", &gateway.APIError{StatusCode: 401, Message: "Invalid token"}, http.StatusUnauthorized, errors.ErrCodeUnauthorized},
		{"not signed in", &userauth.Error{Message: userauth.MsgNotSignedIn, Err: userauth.ErrNotSignedIn}, http.StatusUnauthorized, errors.ErrCodeUnauthorized},
		{"timeout", fmt.Errorf("list keys: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, errors.ErrCodeTimeout},
		{"gateway failure", &gateway.APIError{StatusCode: 503, Message: "unavailable"}, http.StatusBadGateway, errors.ErrCodeUpstream},
		{"session store", session.StoreError(stderrors.New("disk I/O error")), http.StatusInternalServerError, errors.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := classify(tt.err)
			if status != tt.status || code != tt.code {
				t.Errorf("Expected %d %s, got %d %s", tt.status, tt.code, status, code)
			}
		})
	}
}

func TestRejected(t *testing.T) {
	decodeBody := func(t *testing.T, rr *httptest.ResponseRecorder) errors.ErrorResponse {
		t.Helper()
		var body errors.ErrorResponse
		if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return body
	}

	t.Run("gateway rejection keeps the given status", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/console/portal/session", nil)
		err := &userauth.Error{Message: userauth.MsgLoginFailed, Err: &gateway.APIError{StatusCode: 401, Message: "Invalid credentials"}}

		rejected(rr, req, http.StatusUnauthorized, err)

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", rr.Code)
		}
		if body := decodeBody(t, rr); body.Code != errors.ErrCodeUnauthorized || body.Message != userauth.MsgLoginFailed {
			t.Errorf("Unexpected body %+v", body)
		}
	})

	t.Run("failed token save after login is internal", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/console/portal/session", nil)
		err := session.StoreError(stderrors.New("save user.refresh_token: database is locked"))

		rejected(rr, req, http.StatusUnauthorized, err)

		if rr.Code != http.StatusInternalServerError {
			t.Errorf("Expected 500, got %d", rr.Code)
		}
		body := decodeBody(t, rr)
		if body.Code != errors.ErrCodeInternal || body.Message != msgSessionStore {
			t.Errorf("Unexpected body %+v", body)
		}
	})

	t.Run("unreachable gateway is upstream", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/console/portal/session", nil)

		rejected(rr, req, http.StatusUnauthorized, &userauth.Error{Message: userauth.MsgLoginFailed, Err: stderrors.New("connection refused")})

		if rr.Code != http.StatusBadGateway {
			t.Errorf("Expected 502, got %d", rr.Code)
		}
	})
}
