package pages

import (
	"context"
	"sync"
	"time"

	"gwconsole/internal/gateway"
)

var fixedNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func strPtr(s string) *string { return &s }
func intPtr(n int64) *int64   { return &n }

// fakeAdmin is an in-memory gateway that records the calls it receives.
type fakeAdmin struct {
	mu    sync.Mutex
	calls []string

	users   []gateway.User
	keys    []gateway.APIKey
	orgs    []gateway.Organization
	teams   []gateway.Team
	members []gateway.Membership
	usage   gateway.UsageData
	logs    []gateway.RequestLog

	lastUserParams gateway.UserListParams
	lastKeyParams  []gateway.KeyListParams
	lastUsage      gateway.UsageParams
	lastCreateKey  gateway.CreateKeyRequest
	lastTeamsOrg   string

	failOn map[string]error
}

func (f *fakeAdmin) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.failOn[call]
}

func (f *fakeAdmin) count(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeAdmin) ListUsers(ctx context.Context, params gateway.UserListParams) (*gateway.Page[gateway.User], error) {
	if err := f.record("users.list"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.lastUserParams = params
	f.mu.Unlock()
	return &gateway.Page[gateway.User]{Items: f.users, Total: len(f.users)}, nil
}

func (f *fakeAdmin) CreateUser(ctx context.Context, input gateway.CreateUser) (*gateway.User, error) {
	if err := f.record("users.create"); err != nil {
		return nil, err
	}
	u := gateway.User{ID: "usr_new", Name: input.Name, Email: input.Email}
	f.users = append(f.users, u)
	return &u, nil
}

func (f *fakeAdmin) GetUser(ctx context.Context, id string) (*gateway.UserDetail, error) {
	if err := f.record("users.get"); err != nil {
		return nil, err
	}
	for _, u := range f.users {
		if u.ID == id {
			var keys []gateway.APIKey
			for _, k := range f.keys {
				if k.UserID == id {
					keys = append(keys, k)
				}
			}
			return &gateway.UserDetail{User: u, Keys: keys}, nil
		}
	}
	return nil, &gateway.APIError{StatusCode: 404, Message: "User not found"}
}

func (f *fakeAdmin) UpdateUser(ctx context.Context, id string, input gateway.UpdateUser) (*gateway.User, error) {
	if err := f.record("users.update"); err != nil {
		return nil, err
	}
	for i := range f.users {
		if f.users[i].ID == id {
			if input.Name != nil {
				f.users[i].Name = *input.Name
			}
			if input.Status != nil {
				f.users[i].Status = input.Status
			}
			return &f.users[i], nil
		}
	}
	return nil, &gateway.APIError{StatusCode: 404, Message: "User not found"}
}

func (f *fakeAdmin) ListKeys(ctx context.Context, params gateway.KeyListParams) (*gateway.Page[gateway.APIKey], error) {
	if err := f.record("keys.list"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.lastKeyParams = append(f.lastKeyParams, params)
	f.mu.Unlock()
	var items []gateway.APIKey
	for _, k := range f.keys {
		if params.Status == "" || k.Status == params.Status {
			items = append(items, k)
		}
	}
	return &gateway.Page[gateway.APIKey]{Items: items, Total: len(items)}, nil
}

func (f *fakeAdmin) CreateKey(ctx context.Context, input gateway.CreateKeyRequest) (*gateway.CreatedKey, error) {
	if err := f.record("keys.create"); err != nil {
		return nil, err
	}
	f.lastCreateKey = input
	k := gateway.APIKey{ID: "key_new", UserID: input.UserID, Name: input.Name, Role: input.Role, Status: gateway.KeyActive, Last4: "9999", ExpiresAt: input.ExpiresAt}
	f.keys = append(f.keys, k)
	return &gateway.CreatedKey{APIKey: k, PlaintextKey: "gw_secret_9999"}, nil
}

func (f *fakeAdmin) RevokeKey(ctx context.Context, id string) (*gateway.APIKey, error) {
	if err := f.record("keys.revoke"); err != nil {
		return nil, err
	}
	for i := range f.keys {
		if f.keys[i].ID == id {
			f.keys[i].Status = gateway.KeyRevoked
			return &f.keys[i], nil
		}
	}
	return nil, &gateway.APIError{StatusCode: 404, Message: "Key not found"}
}

func (f *fakeAdmin) RotateKey(ctx context.Context, id string) (*gateway.CreatedKey, error) {
	if err := f.record("keys.rotate"); err != nil {
		return nil, err
	}
	for i := range f.keys {
		if f.keys[i].ID == id {
			f.keys[i].Last4 = "rot8"
			f.keys[i].ExpiresAt = nil
			return &gateway.CreatedKey{APIKey: f.keys[i], PlaintextKey: "gw_rotated_rot8"}, nil
		}
	}
	return nil, &gateway.APIError{StatusCode: 404, Message: "Key not found"}
}

func (f *fakeAdmin) GetUsage(ctx context.Context, params gateway.UsageParams) (*gateway.UsageData, error) {
	if err := f.record("usage.get"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.lastUsage = params
	f.mu.Unlock()
	usage := f.usage
	return &usage, nil
}

func (f *fakeAdmin) ListRequests(ctx context.Context) ([]gateway.RequestLog, error) {
	if err := f.record("requests.list"); err != nil {
		return nil, err
	}
	return f.logs, nil
}

func (f *fakeAdmin) ListOrganizations(ctx context.Context) (*gateway.Page[gateway.Organization], error) {
	if err := f.record("organizations.list"); err != nil {
		return nil, err
	}
	return &gateway.Page[gateway.Organization]{Items: f.orgs, Total: len(f.orgs)}, nil
}

func (f *fakeAdmin) CreateOrganization(ctx context.Context, input gateway.OrganizationInput) (*gateway.Organization, error) {
	if err := f.record("organizations.create"); err != nil {
		return nil, err
	}
	o := gateway.Organization{ID: "org_new", Name: *input.Name, MonthlyTokenQuota: input.MonthlyTokenQuota}
	f.orgs = append(f.orgs, o)
	return &o, nil
}

func (f *fakeAdmin) UpdateOrganization(ctx context.Context, id string, input gateway.OrganizationInput) (*gateway.Organization, error) {
	if err := f.record("organizations.update"); err != nil {
		return nil, err
	}
	for i := range f.orgs {
		if f.orgs[i].ID == id {
			if input.Name != nil {
				f.orgs[i].Name = *input.Name
			}
			return &f.orgs[i], nil
		}
	}
	return nil, &gateway.APIError{StatusCode: 404, Message: "Organization not found"}
}

func (f *fakeAdmin) DeleteOrganization(ctx context.Context, id string) error {
	if err := f.record("organizations.delete"); err != nil {
		return err
	}
	for i := range f.orgs {
		if f.orgs[i].ID == id {
			f.orgs = append(f.orgs[:i], f.orgs[i+1:]...)
			return nil
		}
	}
	return &gateway.APIError{StatusCode: 404, Message: "Organization not found"}
}

func (f *fakeAdmin) ListTeams(ctx context.Context, organizationID string) (*gateway.Page[gateway.Team], error) {
	if err := f.record("teams.list"); err != nil {
		return nil, err
	}
	f.lastTeamsOrg = organizationID
	var items []gateway.Team
	for _, t := range f.teams {
		if organizationID == "" || t.OrganizationID == organizationID {
			items = append(items, t)
		}
	}
	return &gateway.Page[gateway.Team]{Items: items, Total: len(items)}, nil
}

func (f *fakeAdmin) CreateTeam(ctx context.Context, input gateway.TeamInput) (*gateway.Team, error) {
	if err := f.record("teams.create"); err != nil {
		return nil, err
	}
	t := gateway.Team{ID: "team_new", OrganizationID: *input.OrganizationID, Name: *input.Name}
	f.teams = append(f.teams, t)
	return &t, nil
}

func (f *fakeAdmin) UpdateTeam(ctx context.Context, id string, input gateway.TeamInput) (*gateway.Team, error) {
	if err := f.record("teams.update"); err != nil {
		return nil, err
	}
	for i := range f.teams {
		if f.teams[i].ID == id {
			if input.Name != nil {
				f.teams[i].Name = *input.Name
			}
			return &f.teams[i], nil
		}
	}
	return nil, &gateway.APIError{StatusCode: 404, Message: "Team not found"}
}

func (f *fakeAdmin) DeleteTeam(ctx context.Context, id string) error {
	if err := f.record("teams.delete"); err != nil {
		return err
	}
	for i := range f.teams {
		if f.teams[i].ID == id {
			f.teams = append(f.teams[:i], f.teams[i+1:]...)
			return nil
		}
	}
	return &gateway.APIError{StatusCode: 404, Message: "Team not found"}
}

func (f *fakeAdmin) ListMemberships(ctx context.Context, teamID string) (*gateway.Page[gateway.Membership], error) {
	if err := f.record("memberships.list"); err != nil {
		return nil, err
	}
	var items []gateway.Membership
	for _, m := range f.members {
		if teamID == "" || m.TeamID == teamID {
			items = append(items, m)
		}
	}
	return &gateway.Page[gateway.Membership]{Items: items, Total: len(items)}, nil
}

func (f *fakeAdmin) CreateMembership(ctx context.Context, input gateway.MembershipInput) (*gateway.Membership, error) {
	if err := f.record("memberships.create"); err != nil {
		return nil, err
	}
	m := gateway.Membership{ID: "mem_new", TeamID: *input.TeamID, UserID: *input.UserID, Role: input.Role}
	f.members = append(f.members, m)
	return &m, nil
}

func (f *fakeAdmin) UpdateMembership(ctx context.Context, id string, input gateway.MembershipInput) (*gateway.Membership, error) {
	if err := f.record("memberships.update"); err != nil {
		return nil, err
	}
	for i := range f.members {
		if f.members[i].ID == id {
			f.members[i].Role = input.Role
			return &f.members[i], nil
		}
	}
	return nil, &gateway.APIError{StatusCode: 404, Message: "Membership not found"}
}

func (f *fakeAdmin) DeleteMembership(ctx context.Context, id string) error {
	if err := f.record("memberships.delete"); err != nil {
		return err
	}
	for i := range f.members {
		if f.members[i].ID == id {
			f.members = append(f.members[:i], f.members[i+1:]...)
			return nil
		}
	}
	return &gateway.APIError{StatusCode: 404, Message: "Membership not found"}
}
