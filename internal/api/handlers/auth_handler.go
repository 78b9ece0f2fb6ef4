package handlers

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"gwconsole/internal/engine/adminauth"
	"gwconsole/internal/engine/forms"
	"gwconsole/internal/engine/userauth"
	"gwconsole/internal/gateway"
	"gwconsole/internal/pkg/errors"
)

// AuthHandler serves both credentials the console holds: the admin API key
// and the end user's token pair.
type AuthHandler struct {
	admin *adminauth.Service
	users *userauth.Service
}

func NewAuthHandler(admin *adminauth.Service, users *userauth.Service) *AuthHandler {
	return &AuthHandler{admin: admin, users: users}
}

type AdminLoginRequest struct {
	APIKey string `json:"api_key"`
}

func (h *AuthHandler) AdminStatus(w http.ResponseWriter, r *http.Request) {
	errors.WriteJSON(w, http.StatusOK, h.admin.Status())
}

func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req AdminLoginRequest
	if !decode(w, r, &req) {
		return
	}

	key := strings.TrimSpace(req.APIKey)
	if key == "" {
		errors.WriteError(w, http.StatusUnprocessableEntity, errors.ErrCodeInvalidInput, adminauth.MsgKeyRequired, nil)
		return
	}

	if err := h.admin.Login(r.Context(), key); err != nil {
		var apiErr *gateway.APIError
		if stderrors.As(err, &apiErr) {
			log.Info().Int("status", apiErr.StatusCode).Msg("admin key rejected")
			errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, adminauth.MsgKeyInvalid, nil)
			return
		}
		respond(w, r, 0, nil, err)
		return
	}
	errors.WriteJSON(w, http.StatusOK, h.admin.Status())
}

func (h *AuthHandler) AdminLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.Logout(r.Context()); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to clear admin session", nil)
		return
	}
	errors.WriteJSON(w, http.StatusOK, h.admin.Status())
}

type PortalSession struct {
	State         userauth.State `json:"state"`
	Authenticated bool           `json:"authenticated"`
	User          string         `json:"user,omitempty"`
	Message       string         `json:"message,omitempty"`
}

func (h *AuthHandler) session(message string) PortalSession {
	s := PortalSession{State: h.users.State(), Authenticated: h.users.Authenticated(), Message: message}
	if identity, err := h.users.Identity(); err == nil {
		s.User = identity.DisplayName()
	}
	return s
}

func (h *AuthHandler) PortalSession(w http.ResponseWriter, r *http.Request) {
	errors.WriteJSON(w, http.StatusOK, h.session(""))
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var form forms.RegisterForm
	if !decode(w, r, &form) {
		return
	}
	form, err := form.Validate()
	if err != nil {
		respond(w, r, 0, nil, err)
		return
	}

	message, err := h.users.Register(r.Context(), form.Name, form.Email, form.Password)
	if err != nil {
		rejected(w, r, http.StatusBadRequest, err)
		return
	}
	errors.WriteJSON(w, http.StatusCreated, h.session(message))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var form forms.LoginForm
	if !decode(w, r, &form) {
		return
	}
	form, err := form.Validate()
	if err != nil {
		respond(w, r, 0, nil, err)
		return
	}

	if err := h.users.Login(r.Context(), form.Email, form.Password); err != nil {
		rejected(w, r, http.StatusUnauthorized, err)
		return
	}
	errors.WriteJSON(w, http.StatusOK, h.session(""))
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ok, err := h.users.Refresh(r.Context())
	switch {
	case err != nil && gateway.StatusCode(err) == 0:
		respond(w, r, 0, nil, err)
	case err != nil:
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, userauth.MsgSessionExpired, h.session(""))
	case !ok:
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, userauth.MsgNotSignedIn, h.session(""))
	default:
		errors.WriteJSON(w, http.StatusOK, h.session(""))
	}
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Logout(r.Context()); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to clear session", nil)
		return
	}
	errors.WriteJSON(w, http.StatusOK, h.session(""))
}
