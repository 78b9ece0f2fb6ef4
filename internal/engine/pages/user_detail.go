package pages

import (
	"context"

	"gwconsole/internal/engine/forms"
	"gwconsole/internal/gateway"
)

type UserDetailGateway interface {
	GetUser(ctx context.Context, id string) (*gateway.UserDetail, error)
	UpdateUser(ctx context.Context, id string, input gateway.UpdateUser) (*gateway.User, error)
	CreateKey(ctx context.Context, input gateway.CreateKeyRequest) (*gateway.CreatedKey, error)
	RevokeKey(ctx context.Context, id string) (*gateway.APIKey, error)
	RotateKey(ctx context.Context, id string) (*gateway.CreatedKey, error)
}

type UserDetailView struct {
	Notice
	Breadcrumb string      `json:"breadcrumb"`
	User       *UserRow    `json:"user,omitempty"`
	Keys       []KeyRow    `json:"keys"`
	Secret     *SecretView `json:"secret,omitempty"`
}

type UserDetailPage struct {
	gw  UserDetailGateway
	now clock
}

func NewUserDetailPage(gw UserDetailGateway) *UserDetailPage {
	return &UserDetailPage{gw: gw}
}

func (p *UserDetailPage) Load(ctx context.Context, userID string) (*UserDetailView, error) {
	view := &UserDetailView{Breadcrumb: Breadcrumb(nil, userID), Keys: []KeyRow{}}

	detail, err := p.gw.GetUser(ctx, userID)
	if err != nil {
		view.Error = errorText(err, "Failed to fetch user")
		return view, err
	}

	row := newUserRow(detail.User)
	if row.Status == "" {
		row.Status = string(gateway.UserApproved)
	}
	view.User = &row
	view.Breadcrumb = Breadcrumb(&detail.User, userID)
	view.Keys = newKeyRows(detail.Keys, p.now.now(), RotateExpired)
	return view, nil
}

func (p *UserDetailPage) Update(ctx context.Context, userID string, form forms.UpdateUserForm) (*UserDetailView, error) {
	input, err := form.Validate()
	if err == nil {
		_, err = p.gw.UpdateUser(ctx, userID, input)
	}
	return p.reload(ctx, userID, err, "Failed to update user", "User updated successfully", nil)
}

// CreateKey issues a key owned by userID. The plaintext secret is only in
// the returned view.
func (p *UserDetailPage) CreateKey(ctx context.Context, userID string, form forms.CreateKeyInlineForm) (*UserDetailView, error) {
	var created *gateway.CreatedKey
	req, err := form.Validate(userID)
	if err == nil {
		created, err = p.gw.CreateKey(ctx, req)
	}
	return p.reload(ctx, userID, err, "Failed to create API key", "API key created successfully", created)
}

func (p *UserDetailPage) RotateKey(ctx context.Context, userID, keyID string) (*UserDetailView, error) {
	created, err := p.gw.RotateKey(ctx, keyID)
	return p.reload(ctx, userID, err, "Failed to rotate key", "Key rotated. Copy the new plaintext now.", created)
}

func (p *UserDetailPage) RevokeKey(ctx context.Context, userID, keyID string) (*UserDetailView, error) {
	_, err := p.gw.RevokeKey(ctx, keyID)
	return p.reload(ctx, userID, err, "Failed to revoke key", "Key revoked successfully", nil)
}

func (p *UserDetailPage) reload(ctx context.Context, userID string, err error, fallback, success string, created *gateway.CreatedKey) (*UserDetailView, error) {
	view, loadErr := p.Load(ctx, userID)
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
