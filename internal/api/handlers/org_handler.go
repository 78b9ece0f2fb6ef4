package handlers

import (
	"net/http"

	"gwconsole/internal/engine/forms"
	"gwconsole/internal/engine/pages"
)

// OrgHandler serves organizations, their teams and team memberships.
// Teams are scoped by ?organization_id and memberships by ?team_id.
type OrgHandler struct {
	orgs    *pages.OrganizationsPage
	teams   *pages.TeamsPage
	members *pages.MembershipsPage
}

func NewOrgHandler(orgs *pages.OrganizationsPage, teams *pages.TeamsPage, members *pages.MembershipsPage) *OrgHandler {
	return &OrgHandler{orgs: orgs, teams: teams, members: members}
}

func (h *OrgHandler) List(w http.ResponseWriter, r *http.Request) {
	view, err := h.orgs.Load(r.Context())
	respond(w, r, http.StatusOK, view, err)
}

func (h *OrgHandler) Create(w http.ResponseWriter, r *http.Request) {
	var form forms.OrganizationForm
	if !decode(w, r, &form) {
		return
	}
	view, err := h.orgs.Create(r.Context(), form)
	respond(w, r, http.StatusCreated, view, err)
}

func (h *OrgHandler) Update(w http.ResponseWriter, r *http.Request) {
	var form forms.OrganizationForm
	if !decode(w, r, &form) {
		return
	}
	view, err := h.orgs.Update(r.Context(), param(r, "org_id"), form)
	respond(w, r, http.StatusOK, view, err)
}

func (h *OrgHandler) Delete(w http.ResponseWriter, r *http.Request) {
	view, err := h.orgs.Delete(r.Context(), param(r, "org_id"))
	respond(w, r, http.StatusOK, view, err)
}

func (h *OrgHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	view, err := h.teams.Load(r.Context(), r.URL.Query().Get("organization_id"))
	respond(w, r, http.StatusOK, view, err)
}

func (h *OrgHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var form forms.TeamForm
	if !decode(w, r, &form) {
		return
	}
	view, err := h.teams.Create(r.Context(), r.URL.Query().Get("organization_id"), form)
	respond(w, r, http.StatusCreated, view, err)
}

func (h *OrgHandler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	var form forms.TeamForm
	if !decode(w, r, &form) {
		return
	}
	view, err := h.teams.Update(r.Context(), r.URL.Query().Get("organization_id"), param(r, "team_id"), form)
	respond(w, r, http.StatusOK, view, err)
}

func (h *OrgHandler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	view, err := h.teams.Delete(r.Context(), r.URL.Query().Get("organization_id"), param(r, "team_id"))
	respond(w, r, http.StatusOK, view, err)
}

func (h *OrgHandler) ListMemberships(w http.ResponseWriter, r *http.Request) {
	view, err := h.members.Load(r.Context(), r.URL.Query().Get("team_id"))
	respond(w, r, http.StatusOK, view, err)
}

func (h *OrgHandler) CreateMembership(w http.ResponseWriter, r *http.Request) {
	var form forms.MembershipForm
	if !decode(w, r, &form) {
		return
	}
	view, err := h.members.Create(r.Context(), r.URL.Query().Get("team_id"), form)
	respond(w, r, http.StatusCreated, view, err)
}

func (h *OrgHandler) UpdateMembership(w http.ResponseWriter, r *http.Request) {
	var form forms.MembershipForm
	if !decode(w, r, &form) {
		return
	}
	view, err := h.members.UpdateRole(r.Context(), r.URL.Query().Get("team_id"), param(r, "membership_id"), form)
	respond(w, r, http.StatusOK, view, err)
}

func (h *OrgHandler) DeleteMembership(w http.ResponseWriter, r *http.Request) {
	view, err := h.members.Delete(r.Context(), r.URL.Query().Get("team_id"), param(r, "membership_id"))
	respond(w, r, http.StatusOK, view, err)
}
