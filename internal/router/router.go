package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/avelarde/gymcore/internal/config"
	"github.com/avelarde/gymcore/internal/handler"
	"github.com/avelarde/gymcore/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication routes.  Unauthenticated
// operations live under /v1/auth; /v1/me requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// API bundles the handlers behind the protected /v1 group.
type API struct {
	Centers      *handler.CenterHandler
	Memberships  *handler.MembershipHandler
	Slots        *handler.ScheduleHandler
	Blackouts    *handler.BlackoutHandler
	Reservations *handler.ReservationHandler
}

// RegisterAPI wires the protected center-scoped routes.  Every route runs
// the JWT middleware; mutations additionally pass the Redis rate limiter and
// list endpoints go through the short-lived response cache.  Both Redis
// middlewares degrade to pass-through when the client is nil.
func RegisterAPI(e *echo.Echo, api *API, cfg *config.Config, rdb *redis.Client) {
	rl := middleware.RateLimit(config.LoadRateLimitConfig(), rdb)
	cache := middleware.CacheGET(config.LoadCacheConfig(), rdb)

	v1 := e.Group("/v1")
	v1.Use(middleware.JWTAuth(cfg.JWTSecret))

	v1.GET("/centers", api.Centers.List, cache)
	v1.POST("/centers", api.Centers.Create, rl)
	v1.GET("/centers/:id", api.Centers.Get, cache)
	v1.PUT("/centers/:id", api.Centers.Update, rl)
	v1.PUT("/centers/:id/service-status", api.Centers.UpdateServiceStatus, rl)

	v1.GET("/centers/:id/members", api.Memberships.List, cache)
	v1.POST("/centers/:id/members", api.Memberships.Assign, rl)
	v1.PUT("/centers/:id/members/:userId", api.Memberships.Update, rl)
	v1.DELETE("/centers/:id/members/:userId", api.Memberships.Remove, rl)

	v1.GET("/centers/:id/slots", api.Slots.List, cache)
	v1.POST("/centers/:id/slots", api.Slots.Create, rl)
	v1.PUT("/centers/:id/slots/:slotId", api.Slots.Update, rl)
	v1.DELETE("/centers/:id/slots/:slotId", api.Slots.Delete, rl)

	v1.GET("/centers/:id/blackouts", api.Blackouts.List, cache)
	v1.POST("/centers/:id/blackouts", api.Blackouts.Create, rl)
	v1.PUT("/centers/:id/blackouts/:blackoutId", api.Blackouts.Update, rl)
	v1.DELETE("/centers/:id/blackouts/:blackoutId", api.Blackouts.Remove, rl)

	v1.GET("/centers/:id/reservations", api.Reservations.List, cache)
	v1.POST("/centers/:id/reservations", api.Reservations.Create, rl)
	v1.PUT("/centers/:id/reservations/:reservationId", api.Reservations.Update, rl)
	v1.DELETE("/centers/:id/reservations/:reservationId", api.Reservations.Delete, rl)
}
