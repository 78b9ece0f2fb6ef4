package api

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"
	apiContext "gwconsole/internal/api/context"
	"gwconsole/internal/api/handlers"
	"gwconsole/internal/api/middleware"
	"gwconsole/internal/pkg/errors"
)

type Dependencies struct {
	AuthHandler    *handlers.AuthHandler
	UserHandler    *handlers.UserHandler
	APIKeyHandler  *handlers.APIKeyHandler
	UsageHandler   *handlers.UsageHandler
	OrgHandler     *handlers.OrgHandler
	PortalHandler  *handlers.PortalHandler
	ThemeHandler   *handlers.ThemeHandler
	HealthHandler  *handlers.HealthHandler
	MetricsHandler *handlers.MetricsHandler
	AuthMiddleware *middleware.AuthMiddleware
	RateLimiter    *middleware.RateLimiter
}

// NewRouter registers every console route and wraps the router with the
// request id, logging and panic recovery middleware.
func NewRouter(deps *Dependencies) http.Handler {
	router := httprouter.New()
	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Route not found", nil)
	})

	router.GET("/healthz", wrap(deps.HealthHandler.Check))
	router.GET("/metrics", wrap(deps.MetricsHandler.Export))

	// Admin session
	router.GET("/console/session/admin", wrap(deps.AuthHandler.AdminStatus))
	router.PUT("/console/session/admin", wrap(deps.AuthHandler.AdminLogin))
	router.DELETE("/console/session/admin", wrap(deps.AuthHandler.AdminLogout))

	// Theme
	router.GET("/console/theme", wrap(deps.ThemeHandler.Get))
	router.POST("/console/theme/toggle", wrap(deps.ThemeHandler.Toggle))

	// End-user portal
	limit := deps.RateLimiter
	router.GET("/console/portal/session", wrap(deps.AuthHandler.PortalSession))
	router.POST("/console/portal/register", chain(deps.AuthHandler.Register, limit.Handle))
	router.POST("/console/portal/login", chain(deps.AuthHandler.Login, limit.Handle))
	router.POST("/console/portal/refresh", wrap(deps.AuthHandler.Refresh))
	router.POST("/console/portal/logout", wrap(deps.AuthHandler.Logout))
	router.GET("/console/portal", wrap(deps.PortalHandler.Keys))

	admin := deps.AuthMiddleware

	// Dashboard, usage and request logs
	router.GET("/console/dashboard", chain(deps.UsageHandler.Dashboard, admin.Handle))
	router.GET("/console/usage", chain(deps.UsageHandler.Usage, admin.Handle))
	router.GET("/console/requests", chain(deps.UsageHandler.Requests, admin.Handle))

	// Users
	router.GET("/console/users", chain(deps.UserHandler.List, admin.Handle))
	router.POST("/console/users", chain(deps.UserHandler.Create, admin.Handle))
	router.GET("/console/users/:user_id", chain(deps.UserHandler.Get, admin.Handle))
	router.PATCH("/console/users/:user_id", chain(deps.UserHandler.Update, admin.Handle))
	router.POST("/console/users/:user_id/keys", chain(deps.UserHandler.CreateKey, admin.Handle))
	router.POST("/console/users/:user_id/keys/:key_id/rotate", chain(deps.UserHandler.RotateKey, admin.Handle))
	router.POST("/console/users/:user_id/keys/:key_id/revoke", chain(deps.UserHandler.RevokeKey, admin.Handle))

	// API keys
	router.GET("/console/keys", chain(deps.APIKeyHandler.List, admin.Handle))
	router.POST("/console/keys", chain(deps.APIKeyHandler.Create, admin.Handle))
	router.POST("/console/keys/:key_id/revoke", chain(deps.APIKeyHandler.Revoke, admin.Handle))
	router.POST("/console/keys/:key_id/rotate", chain(deps.APIKeyHandler.Rotate, admin.Handle))

	// Organizations, teams and memberships
	router.GET("/console/organizations", chain(deps.OrgHandler.List, admin.Handle))
	router.POST("/console/organizations", chain(deps.OrgHandler.Create, admin.Handle))
	router.PATCH("/console/organizations/:org_id", chain(deps.OrgHandler.Update, admin.Handle))
	router.DELETE("/console/organizations/:org_id", chain(deps.OrgHandler.Delete, admin.Handle))
	router.GET("/console/teams", chain(deps.OrgHandler.ListTeams, admin.Handle))
	router.POST("/console/teams", chain(deps.OrgHandler.CreateTeam, admin.Handle))
	router.PATCH("/console/teams/:team_id", chain(deps.OrgHandler.UpdateTeam, admin.Handle))
	router.DELETE("/console/teams/:team_id", chain(deps.OrgHandler.DeleteTeam, admin.Handle))
	router.GET("/console/memberships", chain(deps.OrgHandler.ListMemberships, admin.Handle))
	router.POST("/console/memberships", chain(deps.OrgHandler.CreateMembership, admin.Handle))
	router.PATCH("/console/memberships/:membership_id", chain(deps.OrgHandler.UpdateMembership, admin.Handle))
	router.DELETE("/console/memberships/:membership_id", chain(deps.OrgHandler.DeleteMembership, admin.Handle))

	return middleware.RequestID(middleware.Logger(middleware.Recoverer(router)))
}

// Helper function to chain middlewares
func chain(handler http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) httprouter.Handle {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return wrap(handler)
}

// Convert http.HandlerFunc to httprouter.Handle
func wrap(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx := context.WithValue(r.Context(), apiContext.Params, ps)
		handler(w, r.WithContext(ctx))
	}
}
