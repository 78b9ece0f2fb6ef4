package gateway

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) ListOrganizations(ctx context.Context) (*Page[Organization], error) {
	var page Page[Organization]
	err := c.do(ctx, call{operation: "organizations.list", method: http.MethodGet, path: "/admin/organizations"}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) CreateOrganization(ctx context.Context, input OrganizationInput) (*Organization, error) {
	var org Organization
	err := c.do(ctx, call{
		operation: "organizations.create",
		method:    http.MethodPost,
		path:      "/admin/organizations",
		body:      input,
	}, &org)
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (c *Client) UpdateOrganization(ctx context.Context, id string, input OrganizationInput) (*Organization, error) {
	var org Organization
	err := c.do(ctx, call{
		operation: "organizations.update",
		method:    http.MethodPatch,
		path:      pathID("/admin/organizations", id),
		body:      input,
	}, &org)
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (c *Client) DeleteOrganization(ctx context.Context, id string) error {
	return c.do(ctx, call{
		operation: "organizations.delete",
		method:    http.MethodDelete,
		path:      pathID("/admin/organizations", id),
	}, nil)
}

// ListTeams lists teams, scoped to one organization when organizationID is set.
func (c *Client) ListTeams(ctx context.Context, organizationID string) (*Page[Team], error) {
	q := url.Values{}
	setString(q, "organization_id", organizationID)

	var page Page[Team]
	err := c.do(ctx, call{operation: "teams.list", method: http.MethodGet, path: "/admin/teams", query: q}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) CreateTeam(ctx context.Context, input TeamInput) (*Team, error) {
	var team Team
	err := c.do(ctx, call{operation: "teams.create", method: http.MethodPost, path: "/admin/teams", body: input}, &team)
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func (c *Client) UpdateTeam(ctx context.Context, id string, input TeamInput) (*Team, error) {
	var team Team
	err := c.do(ctx, call{
		operation: "teams.update",
		method:    http.MethodPatch,
		path:      pathID("/admin/teams", id),
		body:      input,
	}, &team)
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func (c *Client) DeleteTeam(ctx context.Context, id string) error {
	return c.do(ctx, call{operation: "teams.delete", method: http.MethodDelete, path: pathID("/admin/teams", id)}, nil)
}

func (c *Client) ListMemberships(ctx context.Context, teamID string) (*Page[Membership], error) {
	q := url.Values{}
	setString(q, "team_id", teamID)

	var page Page[Membership]
	err := c.do(ctx, call{operation: "memberships.list", method: http.MethodGet, path: "/admin/memberships", query: q}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) CreateMembership(ctx context.Context, input MembershipInput) (*Membership, error) {
	var m Membership
	err := c.do(ctx, call{
		operation: "memberships.create",
		method:    http.MethodPost,
		path:      "/admin/memberships",
		body:      input,
	}, &m)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) UpdateMembership(ctx context.Context, id string, input MembershipInput) (*Membership, error) {
	var m Membership
	err := c.do(ctx, call{
		operation: "memberships.update",
		method:    http.MethodPatch,
		path:      pathID("/admin/memberships", id),
		body:      input,
	}, &m)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) DeleteMembership(ctx context.Context, id string) error {
	return c.do(ctx, call{
		operation: "memberships.delete",
		method:    http.MethodDelete,
		path:      pathID("/admin/memberships", id),
	}, nil)
}
