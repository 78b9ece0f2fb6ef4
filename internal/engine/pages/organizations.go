package pages

import (
	"context"
	"strings"

	"gwconsole/internal/engine/forms"
	"gwconsole/internal/gateway"
)

type OrganizationsGateway interface {
	ListOrganizations(ctx context.Context) (*gateway.Page[gateway.Organization], error)
	CreateOrganization(ctx context.Context, input gateway.OrganizationInput) (*gateway.Organization, error)
	UpdateOrganization(ctx context.Context, id string, input gateway.OrganizationInput) (*gateway.Organization, error)
	DeleteOrganization(ctx context.Context, id string) error
}

type OrganizationRow struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
	Quota  string `json:"monthly_token_quota"`
}

func newOrganizationRow(o gateway.Organization) OrganizationRow {
	return OrganizationRow{ID: o.ID, Name: o.Name, Status: optional(o.Status), Quota: QuotaText(o.MonthlyTokenQuota)}
}

type OrganizationsView struct {
	Notice
	Organizations []OrganizationRow `json:"organizations"`
}

type OrganizationsPage struct {
	gw OrganizationsGateway
}

func NewOrganizationsPage(gw OrganizationsGateway) *OrganizationsPage {
	return &OrganizationsPage{gw: gw}
}

func (p *OrganizationsPage) Load(ctx context.Context) (*OrganizationsView, error) {
	view := &OrganizationsView{Organizations: []OrganizationRow{}}
	page, err := p.gw.ListOrganizations(ctx)
	if err != nil {
		view.Error = errorText(err, "Failed to load organizations")
		return view, err
	}
	for _, o := range page.Items {
		view.Organizations = append(view.Organizations, newOrganizationRow(o))
	}
	return view, nil
}

func (p *OrganizationsPage) Create(ctx context.Context, form forms.OrganizationForm) (*OrganizationsView, error) {
	input, err := form.Validate()
	if err == nil {
		_, err = p.gw.CreateOrganization(ctx, input)
	}
	return p.reload(ctx, err, "Failed to create organization", "Organization created")
}

func (p *OrganizationsPage) Update(ctx context.Context, id string, form forms.OrganizationForm) (*OrganizationsView, error) {
	input, err := form.ValidateUpdate()
	if err == nil {
		_, err = p.gw.UpdateOrganization(ctx, id, input)
	}
	return p.reload(ctx, err, "Failed to update organization", "Organization updated")
}

func (p *OrganizationsPage) Delete(ctx context.Context, id string) (*OrganizationsView, error) {
	err := p.gw.DeleteOrganization(ctx, id)
	return p.reload(ctx, err, "Failed to delete organization", "Organization deleted")
}

func (p *OrganizationsPage) reload(ctx context.Context, err error, fallback, success string) (*OrganizationsView, error) {
	view, loadErr := p.Load(ctx)
	if err != nil {
		view.Error = errorText(err, fallback)
		return view, err
	}
	if loadErr == nil {
		view.Message = success
	}
	return view, loadErr
}

type TeamsGateway interface {
	ListOrganizations(ctx context.Context) (*gateway.Page[gateway.Organization], error)
	ListTeams(ctx context.Context, organizationID string) (*gateway.Page[gateway.Team], error)
	CreateTeam(ctx context.Context, input gateway.TeamInput) (*gateway.Team, error)
	UpdateTeam(ctx context.Context, id string, input gateway.TeamInput) (*gateway.Team, error)
	DeleteTeam(ctx context.Context, id string) error
}

type TeamRow struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
}

type Option struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type TeamsView struct {
	Notice
	OrganizationID string    `json:"organization_id"`
	Organizations  []Option  `json:"organizations"`
	Teams          []TeamRow `json:"teams"`
}

type TeamsPage struct {
	gw TeamsGateway
}

func NewTeamsPage(gw TeamsGateway) *TeamsPage {
	return &TeamsPage{gw: gw}
}

// Load lists teams for organizationID, or for the first organization when
// none is selected.
func (p *TeamsPage) Load(ctx context.Context, organizationID string) (*TeamsView, error) {
	view := &TeamsView{OrganizationID: strings.TrimSpace(organizationID), Organizations: []Option{}, Teams: []TeamRow{}}

	orgs, err := p.gw.ListOrganizations(ctx)
	if err != nil {
		view.Error = errorText(err, "Failed to load")
		return view, err
	}
	for _, o := range orgs.Items {
		view.Organizations = append(view.Organizations, Option{ID: o.ID, Name: o.Name})
	}
	if view.OrganizationID == "" && len(orgs.Items) > 0 {
		view.OrganizationID = orgs.Items[0].ID
	}
	if view.OrganizationID == "" {
		return view, nil
	}

	teams, err := p.gw.ListTeams(ctx, view.OrganizationID)
	if err != nil {
		view.Error = errorText(err, "Failed to load")
		return view, err
	}
	for _, t := range teams.Items {
		view.Teams = append(view.Teams, TeamRow{ID: t.ID, OrganizationID: t.OrganizationID, Name: t.Name, Description: optional(t.Description)})
	}
	return view, nil
}

// Create adds a team to form.OrganizationID, falling back to the selected
// organization.
func (p *TeamsPage) Create(ctx context.Context, organizationID string, form forms.TeamForm) (*TeamsView, error) {
	if strings.TrimSpace(form.OrganizationID) == "" {
		form.OrganizationID = organizationID
	}
	input, err := form.Validate()
	if err == nil {
		_, err = p.gw.CreateTeam(ctx, input)
	}
	return p.reload(ctx, organizationID, err, "Failed to create team", "Team created")
}

func (p *TeamsPage) Update(ctx context.Context, organizationID, id string, form forms.TeamForm) (*TeamsView, error) {
	input, err := form.ValidateUpdate()
	if err == nil {
		_, err = p.gw.UpdateTeam(ctx, id, input)
	}
	return p.reload(ctx, organizationID, err, "Failed to update team", "Team updated")
}

func (p *TeamsPage) Delete(ctx context.Context, organizationID, id string) (*TeamsView, error) {
	err := p.gw.DeleteTeam(ctx, id)
	return p.reload(ctx, organizationID, err, "Failed to delete team", "Team deleted")
}

func (p *TeamsPage) reload(ctx context.Context, organizationID string, err error, fallback, success string) (*TeamsView, error) {
	view, loadErr := p.Load(ctx, organizationID)
	if err != nil {
		view.Error = errorText(err, fallback)
		return view, err
	}
	if loadErr == nil {
		view.Message = success
	}
	return view, loadErr
}

type MembershipsGateway interface {
	ListMemberships(ctx context.Context, teamID string) (*gateway.Page[gateway.Membership], error)
	CreateMembership(ctx context.Context, input gateway.MembershipInput) (*gateway.Membership, error)
	UpdateMembership(ctx context.Context, id string, input gateway.MembershipInput) (*gateway.Membership, error)
	DeleteMembership(ctx context.Context, id string) error
}

type MembershipRow struct {
	ID     string `json:"id"`
	TeamID string `json:"team_id"`
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

type MembershipsView struct {
	Notice
	TeamID      string          `json:"team_id,omitempty"`
	Memberships []MembershipRow `json:"memberships"`
}

type MembershipsPage struct {
	gw MembershipsGateway
}

func NewMembershipsPage(gw MembershipsGateway) *MembershipsPage {
	return &MembershipsPage{gw: gw}
}

// Load lists memberships of teamID; an empty team lists them all.
func (p *MembershipsPage) Load(ctx context.Context, teamID string) (*MembershipsView, error) {
	view := &MembershipsView{TeamID: strings.TrimSpace(teamID), Memberships: []MembershipRow{}}
	page, err := p.gw.ListMemberships(ctx, view.TeamID)
	if err != nil {
		view.Error = errorText(err, "Failed to load memberships")
		return view, err
	}
	for _, m := range page.Items {
		view.Memberships = append(view.Memberships, MembershipRow{ID: m.ID, TeamID: m.TeamID, UserID: m.UserID, Role: optional(m.Role)})
	}
	return view, nil
}

func (p *MembershipsPage) Create(ctx context.Context, teamID string, form forms.MembershipForm) (*MembershipsView, error) {
	if strings.TrimSpace(form.TeamID) == "" {
		form.TeamID = teamID
	}
	input, err := form.Validate()
	if err == nil {
		_, err = p.gw.CreateMembership(ctx, input)
	}
	return p.reload(ctx, teamID, err, "Failed to add member", "Member added")
}

func (p *MembershipsPage) UpdateRole(ctx context.Context, teamID, id string, form forms.MembershipForm) (*MembershipsView, error) {
	input, err := form.ValidateRole()
	if err == nil {
		_, err = p.gw.UpdateMembership(ctx, id, input)
	}
	return p.reload(ctx, teamID, err, "Failed to update member", "Member updated")
}

func (p *MembershipsPage) Delete(ctx context.Context, teamID, id string) (*MembershipsView, error) {
	err := p.gw.DeleteMembership(ctx, id)
	return p.reload(ctx, teamID, err, "Failed to remove member", "Member removed")
}

func (p *MembershipsPage) reload(ctx context.Context, teamID string, err error, fallback, success string) (*MembershipsView, error) {
	view, loadErr := p.Load(ctx, teamID)
	if err != nil {
		view.Error = errorText(err, fallback)
		return view, err
	}
	if loadErr == nil {
		view.Message = success
	}
	return view, loadErr
}
