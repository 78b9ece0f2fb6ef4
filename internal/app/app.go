// Package app assembles the console: session store, gateway client, auth
// services and page controllers. The HTTP server and the terminal console
// both start from a Console.
package app

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"gwconsole/internal/api"
	"gwconsole/internal/api/handlers"
	"gwconsole/internal/api/middleware"
	"gwconsole/internal/engine/adminauth"
	"gwconsole/internal/engine/pages"
	"gwconsole/internal/engine/userauth"
	"gwconsole/internal/gateway"
	"gwconsole/internal/platform/config"
	"gwconsole/internal/platform/database"
	"gwconsole/internal/platform/metrics"
	"gwconsole/internal/platform/session"
)

type Pages struct {
	Users         *pages.UsersPage
	UserDetail    *pages.UserDetailPage
	Keys          *pages.KeysPage
	Organizations *pages.OrganizationsPage
	Teams         *pages.TeamsPage
	Memberships   *pages.MembershipsPage
	Usage         *pages.UsagePage
	Requests      *pages.RequestsPage
	Dashboard     *pages.DashboardPage
	Portal        *pages.PortalPage
}

type Console struct {
	Config   *config.Config
	DB       *sql.DB
	Store    *session.Store
	Gateway  *gateway.Client
	Registry *prometheus.Registry
	Metrics  *metrics.GatewayMetrics
	Admin    *adminauth.Service
	Users    *userauth.Service
	Pages    Pages
}

// New opens and migrates the session store, then restores any persisted
// admin key and user tokens. A gateway that cannot be reached during restore
// is logged, not fatal.
func New(ctx context.Context, cfg *config.Config) (*Console, error) {
	db, err := database.Open(cfg.Session)
	if err != nil {
		return nil, err
	}

	store := session.NewStore(db, session.NewSealer(cfg.Session.Secret))
	if err := store.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	gatewayMetrics := metrics.NewGatewayMetrics(registry)

	client := gateway.New(cfg.Gateway.URL,
		gateway.WithHTTPClient(gateway.NewHTTPClient(cfg.Gateway.Timeout)),
		gateway.WithUserAgent(cfg.Gateway.UserAgent),
		gateway.WithObserver(gatewayMetrics),
	)

	c := &Console{
		Config:   cfg,
		DB:       db,
		Store:    store,
		Gateway:  client,
		Registry: registry,
		Metrics:  gatewayMetrics,
		Admin:    adminauth.NewService(client, store, gatewayMetrics),
		Users:    userauth.NewService(client, store),
	}
	c.Pages = Pages{
		Users:         pages.NewUsersPage(client),
		UserDetail:    pages.NewUserDetailPage(client),
		Keys:          pages.NewKeysPage(client),
		Organizations: pages.NewOrganizationsPage(client),
		Teams:         pages.NewTeamsPage(client),
		Memberships:   pages.NewMembershipsPage(client),
		Usage:         pages.NewUsagePage(client),
		Requests:      pages.NewRequestsPage(client),
		Dashboard:     pages.NewDashboardPage(client),
		Portal:        pages.NewPortalPage(client, c.Users),
	}

	if err := c.Admin.Restore(ctx); err != nil {
		log.Warn().Err(err).Msg("stored admin key could not be validated")
	}
	if err := c.Users.Restore(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to restore user session")
	}

	log.Info().
		Str("gateway", client.BaseURL()).
		Bool("admin_authenticated", c.Admin.Authenticated()).
		Str("user_session", string(c.Users.State())).
		Msg("console ready")
	return c, nil
}

// Handler builds the HTTP surface. The rate limiter's sweeper stops when ctx
// is done.
func (c *Console) Handler(ctx context.Context) http.Handler {
	return api.NewRouter(&api.Dependencies{
		AuthHandler:    handlers.NewAuthHandler(c.Admin, c.Users),
		UserHandler:    handlers.NewUserHandler(c.Pages.Users, c.Pages.UserDetail),
		APIKeyHandler:  handlers.NewAPIKeyHandler(c.Pages.Keys),
		UsageHandler:   handlers.NewUsageHandler(c.Pages.Usage, c.Pages.Requests, c.Pages.Dashboard),
		OrgHandler:     handlers.NewOrgHandler(c.Pages.Organizations, c.Pages.Teams, c.Pages.Memberships),
		PortalHandler:  handlers.NewPortalHandler(c.Pages.Portal),
		ThemeHandler:   handlers.NewThemeHandler(c.Store),
		HealthHandler:  handlers.NewHealthHandler(c.DB, c.Admin),
		MetricsHandler: handlers.NewMetricsHandler(c.Registry),
		AuthMiddleware: middleware.NewAuthMiddleware(c.Admin),
		RateLimiter:    middleware.NewRateLimiter(ctx, c.Config.Server.AuthRateLimit),
	})
}

func (c *Console) Close() error {
	return c.DB.Close()
}
