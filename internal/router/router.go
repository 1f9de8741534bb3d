package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4"
    "github.com/prometheus/client_golang/prometheus/promhttp"

    "github.com/iliyamo/facility-reservation/internal/handler"
    "github.com/iliyamo/facility-reservation/internal/middleware"
    "github.com/iliyamo/facility-reservation/internal/model"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance: the health check used by load balancers
// and the Prometheus scrape endpoint.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/healthz", handler.Health)
    e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAuth registers all authentication-related routes.
// Unauthenticated operations live under /v1/auth; /v1/auth/me requires
// a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
    g := e.Group("/v1/auth")
    g.POST("/register", a.Register)
    g.POST("/login", a.Login)
    // Refresh rotates the refresh token: the old one is revoked and a new pair issued.
    g.POST("/refresh", a.Refresh)
    // Logout accepts a refreshToken in the body to end one session, or a
    // bearer token alone to end every session for the user.
    g.POST("/logout", a.Logout)

    me := e.Group("/v1")
    me.Use(middleware.JWTAuth(jwtSecret))
    me.GET("/me", a.Me)
    me.PUT("/me", a.UpdateMe)

    users := e.Group("/v1")
    users.Use(middleware.JWTAuth(jwtSecret))
    users.Use(middleware.RequireRole(model.RoleAdmin))
    users.GET("/users", a.ListUsers)
}

// RegisterPublic registers unauthenticated browse endpoints.  Guests
// can list facilities and types and inspect a facility's reservation
// calendar before registering.  The optional middleware slot is where
// main wires the Redis response cache.
func RegisterPublic(e *echo.Echo, f *handler.FacilityHandler, mw ...echo.MiddlewareFunc) {
    e.GET("/v1/facilities", f.List, mw...)
    e.GET("/v1/facilities/:id", f.Get, mw...)
    e.GET("/v1/facilities/:id/reservations", f.ListReservations, mw...)
    e.GET("/v1/facility-types", f.ListTypes, mw...)
    e.GET("/v1/facility-types/:id", f.GetType, mw...)
}

// RegisterAPI registers the authenticated surface.  Every route below
// runs the JWT middleware; the admin group additionally requires the
// ADMIN role.  Finer checks (facility ownership, reservation access)
// live in the handlers because they depend on the row being acted on.
func RegisterAPI(e *echo.Echo, f *handler.FacilityHandler, r *handler.ReservationHandler, p *handler.PaymentHandler, jwtSecret string) {
    auth := e.Group("/v1")
    auth.Use(middleware.JWTAuth(jwtSecret))
    auth.Use(middleware.RequireRole(model.RoleNormal, model.RoleOwner, model.RoleAdmin))

    auth.GET("/facilities/me", f.ListMine)
    // Update allows admins and owners of the facility; the handler decides.
    auth.PUT("/facilities/:id", f.Update)

    auth.POST("/reservations", r.Create)
    auth.GET("/reservations/me", r.ListMine)
    auth.GET("/reservations/:id", r.Get)
    auth.DELETE("/reservations/:id", r.Delete)

    auth.GET("/payments/:id", p.Get)

    admin := e.Group("/v1")
    admin.Use(middleware.JWTAuth(jwtSecret))
    admin.Use(middleware.RequireRole(model.RoleAdmin))

    admin.GET("/facilities/admin", f.ListAdmin)
    admin.POST("/facilities", f.Create)
    admin.DELETE("/facilities/:id", f.Delete)
    admin.GET("/facilities/:id/owners", f.ListOwners)
    admin.POST("/facilities/assign-ownership", f.AssignOwner)
    admin.DELETE("/facilities/revoke-ownership", f.RevokeOwner)

    admin.POST("/facility-types", f.CreateType)
    admin.DELETE("/facility-types/:id", f.DeleteType)

    admin.GET("/reservations", r.ListAll)

    admin.GET("/payments", p.ListAll)
    admin.PATCH("/payments/:id/status", p.UpdateStatus)
}
