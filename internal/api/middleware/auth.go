package middleware

import (
	"net/http"

	"gwconsole/internal/pkg/errors"
)

// AdminSession reports whether a validated admin API key is attached.
type AdminSession interface {
	Authenticated() bool
}

type AuthMiddleware struct {
	session AdminSession
}

func NewAuthMiddleware(session AdminSession) *AuthMiddleware {
	return &AuthMiddleware{session: session}
}

// Handle rejects admin routes until an admin key has been validated.
func (m *AuthMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !m.session.Authenticated() {
			errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Admin API key required", nil)
			return
		}
		next(w, r)
	}
}
