package pages

import (
	"context"

	"golang.org/x/sync/errgroup"
	"gwconsole/internal/gateway"
	"gwconsole/internal/platform/auth"
)

type PortalGateway interface {
	MyKeys(ctx context.Context, accessToken string) ([]gateway.APIKey, error)
	MyUsage(ctx context.Context, accessToken string) ([]gateway.KeyUsage, error)
}

// Authorizer runs a fetch with the end user's access token and owns the
// refresh-and-retry policy.
type Authorizer interface {
	Do(ctx context.Context, fetch func(ctx context.Context, accessToken string) error) error
	Identity() (*auth.Identity, error)
}

type PortalRow struct {
	KeyRow
	Requests int64 `json:"requests_30d"`
	Tokens   int64 `json:"tokens_30d"`
}

type PortalView struct {
	Notice
	User string      `json:"user,omitempty"`
	Keys []PortalRow `json:"keys"`
}

type PortalPage struct {
	gw   PortalGateway
	auth Authorizer
	now  clock
}

func NewPortalPage(gw PortalGateway, authorizer Authorizer) *PortalPage {
	return &PortalPage{gw: gw, auth: authorizer}
}

// Load fetches the user's keys and their 30 day usage in parallel and joins
// them per key. Keys without usage show zeros.
func (p *PortalPage) Load(ctx context.Context) (*PortalView, error) {
	view := &PortalView{Keys: []PortalRow{}}
	if identity, err := p.auth.Identity(); err == nil {
		view.User = identity.DisplayName()
	}

	var (
		keys  []gateway.APIKey
		usage []gateway.KeyUsage
	)
	err := p.auth.Do(ctx, func(ctx context.Context, token string) error {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			keys, err = p.gw.MyKeys(gctx, token)
			return err
		})
		g.Go(func() error {
			var err error
			usage, err = p.gw.MyUsage(gctx, token)
			return err
		})
		return g.Wait()
	})
	if err != nil {
		view.Error = errorText(err, "Failed to load keys")
		return view, err
	}

	byKey := make(map[string]gateway.KeyUsage, len(usage))
	for _, u := range usage {
		byKey[u.KeyID] = u
	}
	now := p.now.now()
	for _, k := range keys {
		u := byKey[k.ID]
		view.Keys = append(view.Keys, PortalRow{
			KeyRow:   NewKeyRow(k, now, ReadOnly),
			Requests: u.RequestCount,
			Tokens:   u.TotalTokens,
		})
	}
	return view, nil
}
