package pages

import (
	"context"
	"strings"

	"gwconsole/internal/engine/forms"
	"gwconsole/internal/gateway"
)

var KeySortFields = []string{"created_at", "name", "user_id", "role", "status"}

const (
	StatusAll     = "all"
	StatusActive  = "active"
	StatusRevoked = "revoked"
)

type KeysGateway interface {
	ListKeys(ctx context.Context, params gateway.KeyListParams) (*gateway.Page[gateway.APIKey], error)
	CreateKey(ctx context.Context, input gateway.CreateKeyRequest) (*gateway.CreatedKey, error)
	RevokeKey(ctx context.Context, id string) (*gateway.APIKey, error)
	RotateKey(ctx context.Context, id string) (*gateway.CreatedKey, error)
}

type KeysQuery struct {
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	SortBy   string          `json:"sort_by"`
	SortDir  gateway.SortDir `json:"sort_dir"`
	Status   string          `json:"status"`
	Search   string          `json:"q,omitempty"`
	Expired  *bool           `json:"expired,omitempty"`
}

func DefaultKeysQuery() KeysQuery {
	return KeysQuery{Page: FirstPage, PageSize: DefaultPageSize, SortBy: "created_at", SortDir: gateway.SortDesc, Status: StatusAll}
}

func (q KeysQuery) WithPage(page int) KeysQuery {
	q.Page = NormalizePage(page)
	return q
}

// WithPageSize, WithSort, WithStatus, WithSearch and WithExpired reset to the
// first page.
func (q KeysQuery) WithPageSize(size int) KeysQuery {
	q.PageSize = NormalizePageSize(size)
	q.Page = FirstPage
	return q
}

func (q KeysQuery) WithSort(by string, dir gateway.SortDir) KeysQuery {
	q.SortBy = oneOf(by, KeySortFields, "created_at")
	q.SortDir = normalizeSortDir(dir)
	q.Page = FirstPage
	return q
}

func (q KeysQuery) WithStatus(status string) KeysQuery {
	q.Status = oneOf(status, []string{StatusAll, StatusActive, StatusRevoked}, StatusAll)
	q.Page = FirstPage
	return q
}

func (q KeysQuery) WithSearch(search string) KeysQuery {
	q.Search = strings.TrimSpace(search)
	q.Page = FirstPage
	return q
}

// WithExpired filters on expiry; nil lists keys regardless of expiry.
func (q KeysQuery) WithExpired(expired *bool) KeysQuery {
	q.Expired = expired
	q.Page = FirstPage
	return q
}

func (q KeysQuery) normalized() KeysQuery {
	return KeysQuery{
		Page:     NormalizePage(q.Page),
		PageSize: NormalizePageSize(q.PageSize),
		SortBy:   oneOf(q.SortBy, KeySortFields, "created_at"),
		SortDir:  normalizeSortDir(q.SortDir),
		Status:   oneOf(q.Status, []string{StatusAll, StatusActive, StatusRevoked}, StatusAll),
		Search:   strings.TrimSpace(q.Search),
		Expired:  q.Expired,
	}
}

func (q KeysQuery) params() gateway.KeyListParams {
	params := gateway.KeyListParams{
		Page:     q.Page,
		PageSize: q.PageSize,
		SortBy:   q.SortBy,
		SortDir:  q.SortDir,
		Query:    q.Search,
		Expired:  q.Expired,
	}
	if q.Status != StatusAll {
		params.Status = gateway.KeyStatus(q.Status)
	}
	return params
}

type KeysView struct {
	Notice
	Query  KeysQuery   `json:"query"`
	Keys   []KeyRow    `json:"keys"`
	Pager  Pager       `json:"pager"`
	Secret *SecretView `json:"secret,omitempty"`
}

type KeysPage struct {
	gw  KeysGateway
	now clock
}

func NewKeysPage(gw KeysGateway) *KeysPage {
	return &KeysPage{gw: gw}
}

func (p *KeysPage) Load(ctx context.Context, q KeysQuery) (*KeysView, error) {
	q = q.normalized()
	view := &KeysView{Query: q, Keys: []KeyRow{}, Pager: NewPager(q.Page, q.PageSize, 0)}

	page, err := p.gw.ListKeys(ctx, q.params())
	if err != nil {
		view.Error = errorText(err, "Failed to fetch API keys")
		return view, err
	}
	view.Keys = newKeyRows(page.Items, p.now.now(), RotateActive)
	view.Pager = NewPager(q.Page, q.PageSize, page.Total)
	return view, nil
}

func (p *KeysPage) Create(ctx context.Context, q KeysQuery, form forms.CreateKeyForm) (*KeysView, error) {
	var created *gateway.CreatedKey
	req, err := form.Validate()
	if err == nil {
		created, err = p.gw.CreateKey(ctx, req)
	}
	return p.reload(ctx, q, err, "Failed to create API key", "API key created successfully", created)
}

func (p *KeysPage) Revoke(ctx context.Context, q KeysQuery, keyID string) (*KeysView, error) {
	_, err := p.gw.RevokeKey(ctx, keyID)
	return p.reload(ctx, q, err, "Failed to revoke key", "Key revoked successfully", nil)
}

func (p *KeysPage) Rotate(ctx context.Context, q KeysQuery, keyID string) (*KeysView, error) {
	created, err := p.gw.RotateKey(ctx, keyID)
	return p.reload(ctx, q, err, "Failed to rotate key", "Key rotated successfully", created)
}

func (p *KeysPage) reload(ctx context.Context, q KeysQuery, err error, fallback, success string, created *gateway.CreatedKey) (*KeysView, error) {
	view, loadErr := p.Load(ctx, q)
	if err != nil {
		view.Error = errorText(err, fallback)
		return view, err
	}
	view.Secret = newSecretView(created)
	if loadErr == nil {
		view.Message = success
	}
	return view, loadErr
}
