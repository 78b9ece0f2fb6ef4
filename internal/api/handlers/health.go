package handlers

import (
	"context"
	"net/http"
	"time"

	"gwconsole/internal/pkg/errors"
)

const pingTimeout = 2 * time.Second

type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	sessionDB Pinger
	admin     interface{ Authenticated() bool }
}

type HealthReport struct {
	Status    string            `json:"status"`
	Timestamp int64             `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

func NewHealthHandler(sessionDB Pinger, admin interface{ Authenticated() bool }) *HealthHandler {
	return &HealthHandler{sessionDB: sessionDB, admin: admin}
}

// Check reports 503 only when the session database is unreachable. The admin
// session is informational: an unauthenticated console is still healthy.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	report := HealthReport{Status: "healthy", Timestamp: time.Now().Unix(), Checks: map[string]string{}}
	code := http.StatusOK

	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()
	if err := h.sessionDB.PingContext(ctx); err != nil {
		report.Checks["session_db"] = "unhealthy: " + err.Error()
		report.Status = "degraded"
		code = http.StatusServiceUnavailable
	} else {
		report.Checks["session_db"] = "healthy"
	}

	report.Checks["admin_session"] = "unauthenticated"
	if h.admin.Authenticated() {
		report.Checks["admin_session"] = "authenticated"
	}

	errors.WriteJSON(w, code, report)
}
