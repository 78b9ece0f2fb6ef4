package handlers

import (
	"net/http"

	"gwconsole/internal/engine/pages"
)

type PortalHandler struct {
	page *pages.PortalPage
}

func NewPortalHandler(page *pages.PortalPage) *PortalHandler {
	return &PortalHandler{page: page}
}

func (h *PortalHandler) Keys(w http.ResponseWriter, r *http.Request) {
	view, err := h.page.Load(r.Context())
	respond(w, r, http.StatusOK, view, err)
}
