package handlers

import (
	"net/http"

	"gwconsole/internal/engine/forms"
	"gwconsole/internal/engine/pages"
	"gwconsole/internal/gateway"
)

type APIKeyHandler struct {
	page *pages.KeysPage
}

func NewAPIKeyHandler(page *pages.KeysPage) *APIKeyHandler {
	return &APIKeyHandler{page: page}
}

// keysQuery reads the list state from the URL; mutations carry it too so
// the re-fetched page matches what the operator was looking at.
func keysQuery(r *http.Request) pages.KeysQuery {
	q := r.URL.Query()
	return pages.KeysQuery{
		Page:     queryInt(r, "page"),
		PageSize: queryInt(r, "page_size"),
		SortBy:   q.Get("sort_by"),
		SortDir:  gateway.SortDir(q.Get("sort_dir")),
		Status:   q.Get("status"),
		Search:   q.Get("q"),
		Expired:  queryBool(r, "expired"),
	}
}

func (h *APIKeyHandler) List(w http.ResponseWriter, r *http.Request) {
	view, err := h.page.Load(r.Context(), keysQuery(r))
	respond(w, r, http.StatusOK, view, err)
}

func (h *APIKeyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var form forms.CreateKeyForm
	if !decode(w, r, &form) {
		return
	}
	view, err := h.page.Create(r.Context(), keysQuery(r), form)
	respond(w, r, http.StatusCreated, view, err)
}

func (h *APIKeyHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	view, err := h.page.Revoke(r.Context(), keysQuery(r), param(r, "key_id"))
	respond(w, r, http.StatusOK, view, err)
}

func (h *APIKeyHandler) Rotate(w http.ResponseWriter, r *http.Request) {
	view, err := h.page.Rotate(r.Context(), keysQuery(r), param(r, "key_id"))
	respond(w, r, http.StatusOK, view, err)
}
