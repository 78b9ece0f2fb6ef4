package handlers

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"
	"gwconsole/internal/pkg/errors"
	"gwconsole/internal/platform/session"
)

type ThemeStore interface {
	Theme(ctx context.Context) (session.Theme, error)
	SaveTheme(ctx context.Context, theme session.Theme) error
}

type ThemeHandler struct {
	store ThemeStore
}

func NewThemeHandler(store ThemeStore) *ThemeHandler {
	return &ThemeHandler{store: store}
}

type ThemeResponse struct {
	Theme session.Theme `json:"theme"`
}

func (h *ThemeHandler) Get(w http.ResponseWriter, r *http.Request) {
	theme, err := h.store.Theme(r.Context())
	if err != nil {
		log.Warn().Err(err).Msg("failed to read theme; using default")
	}
	errors.WriteJSON(w, http.StatusOK, ThemeResponse{Theme: theme})
}

func (h *ThemeHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	theme, err := h.store.Theme(r.Context())
	if err != nil {
		log.Warn().Err(err).Msg("failed to read theme; using default")
	}
	theme = theme.Toggle()
	if err := h.store.SaveTheme(r.Context(), theme); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to save theme", nil)
		return
	}
	errors.WriteJSON(w, http.StatusOK, ThemeResponse{Theme: theme})
}
