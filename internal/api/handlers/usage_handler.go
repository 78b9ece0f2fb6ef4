package handlers

import (
	"net/http"

	"gwconsole/internal/engine/pages"
)

type UsageHandler struct {
	usage     *pages.UsagePage
	requests  *pages.RequestsPage
	dashboard *pages.DashboardPage
}

func NewUsageHandler(usage *pages.UsagePage, requests *pages.RequestsPage, dashboard *pages.DashboardPage) *UsageHandler {
	return &UsageHandler{usage: usage, requests: requests, dashboard: dashboard}
}

func (h *UsageHandler) Usage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	view, err := h.usage.Load(r.Context(), pages.UsageQuery{
		From:  q.Get("from"),
		To:    q.Get("to"),
		KeyID: q.Get("key_id"),
	})
	respond(w, r, http.StatusOK, view, err)
}

func (h *UsageHandler) Requests(w http.ResponseWriter, r *http.Request) {
	view, err := h.requests.Load(r.Context())
	respond(w, r, http.StatusOK, view, err)
}

func (h *UsageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	view, err := h.dashboard.Load(r.Context())
	respond(w, r, http.StatusOK, view, err)
}
