package gateway

import (
	"context"
	"net/http"
	"net/url"
)

type UserListParams struct {
	Page     int
	PageSize int
	SortBy   string
	SortDir  SortDir
	Query    string
}

func (p UserListParams) values() url.Values {
	q := url.Values{}
	setInt(q, "page", p.Page)
	setInt(q, "page_size", p.PageSize)
	setString(q, "sort_by", p.SortBy)
	setString(q, "sort_dir", string(p.SortDir))
	setString(q, "q", p.Query)
	return q
}

type KeyListParams struct {
	Page     int
	PageSize int
	SortBy   string
	SortDir  SortDir
	// Status filters to active or revoked; empty lists both.
	Status KeyStatus
	Query  string
	// Expired narrows to keys past (true) or before (false) their expiry.
	Expired *bool
}

func (p KeyListParams) values() url.Values {
	q := url.Values{}
	setInt(q, "page", p.Page)
	setInt(q, "page_size", p.PageSize)
	setString(q, "sort_by", p.SortBy)
	setString(q, "sort_dir", string(p.SortDir))
	setString(q, "status", string(p.Status))
	setString(q, "q", p.Query)
	if p.Expired != nil {
		if *p.Expired {
			q.Set("expired", "true")
		} else {
			q.Set("expired", "false")
		}
	}
	return q
}

type UsageParams struct {
	From  string
	To    string
	KeyID string
}

// ValidateKey checks the configured admin key by listing users.
func (c *Client) ValidateKey(ctx context.Context) error {
	return c.do(ctx, call{operation: "admin.validate", method: http.MethodGet, path: "/admin/users"}, nil)
}

func (c *Client) ListUsers(ctx context.Context, params UserListParams) (*Page[User], error) {
	var page Page[User]
	err := c.do(ctx, call{
		operation: "users.list",
		method:    http.MethodGet,
		path:      "/admin/users",
		query:     params.values(),
	}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) CreateUser(ctx context.Context, input CreateUser) (*User, error) {
	var user User
	err := c.do(ctx, call{operation: "users.create", method: http.MethodPost, path: "/admin/users", body: input}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) GetUser(ctx context.Context, id string) (*UserDetail, error) {
	var user UserDetail
	err := c.do(ctx, call{operation: "users.get", method: http.MethodGet, path: pathID("/admin/users", id)}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateUser(ctx context.Context, id string, input UpdateUser) (*User, error) {
	var user User
	err := c.do(ctx, call{
		operation: "users.update",
		method:    http.MethodPatch,
		path:      pathID("/admin/users", id),
		body:      input,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) ListKeys(ctx context.Context, params KeyListParams) (*Page[APIKey], error) {
	var page Page[APIKey]
	err := c.do(ctx, call{
		operation: "keys.list",
		method:    http.MethodGet,
		path:      "/admin/keys",
		query:     params.values(),
	}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) CreateKey(ctx context.Context, input CreateKeyRequest) (*CreatedKey, error) {
	var key CreatedKey
	err := c.do(ctx, call{operation: "keys.create", method: http.MethodPost, path: "/admin/keys", body: input}, &key)
	if err != nil {
		return nil, err
	}
	return &key, nil
}

// RevokeKey is not idempotent on this side: a second call is sent as-is and
// the gateway decides the outcome.
func (c *Client) RevokeKey(ctx context.Context, id string) (*APIKey, error) {
	var key APIKey
	err := c.do(ctx, call{operation: "keys.revoke", method: http.MethodPost, path: pathID("/admin/keys", id, "revoke")}, &key)
	if err != nil {
		return nil, err
	}
	return &key, nil
}

func (c *Client) RotateKey(ctx context.Context, id string) (*CreatedKey, error) {
	var key CreatedKey
	err := c.do(ctx, call{operation: "keys.rotate", method: http.MethodPost, path: pathID("/admin/keys", id, "rotate")}, &key)
	if err != nil {
		return nil, err
	}
	return &key, nil
}

func (c *Client) GetUsage(ctx context.Context, params UsageParams) (*UsageData, error) {
	q := url.Values{}
	q.Set("from", params.From)
	q.Set("to", params.To)
	setString(q, "key_id", params.KeyID)

	var usage UsageData
	err := c.do(ctx, call{operation: "usage.get", method: http.MethodGet, path: "/admin/usage", query: q}, &usage)
	if err != nil {
		return nil, err
	}
	if usage.Timeseries == nil {
		usage.Timeseries = []UsagePoint{}
	}
	return &usage, nil
}

func (c *Client) ListRequests(ctx context.Context) ([]RequestLog, error) {
	var page Page[RequestLog]
	err := c.do(ctx, call{operation: "requests.list", method: http.MethodGet, path: "/admin/requests"}, &page)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}
