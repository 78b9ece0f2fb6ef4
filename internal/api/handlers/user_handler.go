package handlers

import (
	"net/http"

	"gwconsole/internal/engine/forms"
	"gwconsole/internal/engine/pages"
	"gwconsole/internal/gateway"
)

type UserHandler struct {
	list   *pages.UsersPage
	detail *pages.UserDetailPage
}

func NewUserHandler(list *pages.UsersPage, detail *pages.UserDetailPage) *UserHandler {
	return &UserHandler{list: list, detail: detail}
}

func usersQuery(r *http.Request) pages.UsersQuery {
	q := r.URL.Query()
	return pages.UsersQuery{
		Page:     queryInt(r, "page"),
		PageSize: queryInt(r, "page_size"),
		SortBy:   q.Get("sort_by"),
		SortDir:  gateway.SortDir(q.Get("sort_dir")),
		Search:   q.Get("q"),
	}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	view, err := h.list.Load(r.Context(), usersQuery(r))
	respond(w, r, http.StatusOK, view, err)
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var form forms.CreateUserForm
	if !decode(w, r, &form) {
		return
	}
	view, err := h.list.Create(r.Context(), usersQuery(r), form)
	respond(w, r, http.StatusCreated, view, err)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.detail.Load(r.Context(), param(r, "user_id"))
	respond(w, r, http.StatusOK, view, err)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var form forms.UpdateUserForm
	if !decode(w, r, &form) {
		return
	}
	view, err := h.detail.Update(r.Context(), param(r, "user_id"), form)
	respond(w, r, http.StatusOK, view, err)
}

func (h *UserHandler) CreateKey(w http.ResponseWriter, r *http.Request) {
	var form forms.CreateKeyInlineForm
	if !decode(w, r, &form) {
		return
	}
	view, err := h.detail.CreateKey(r.Context(), param(r, "user_id"), form)
	respond(w, r, http.StatusCreated, view, err)
}

func (h *UserHandler) RotateKey(w http.ResponseWriter, r *http.Request) {
	view, err := h.detail.RotateKey(r.Context(), param(r, "user_id"), param(r, "key_id"))
	respond(w, r, http.StatusOK, view, err)
}

func (h *UserHandler) RevokeKey(w http.ResponseWriter, r *http.Request) {
	view, err := h.detail.RevokeKey(r.Context(), param(r, "user_id"), param(r, "key_id"))
	respond(w, r, http.StatusOK, view, err)
}
