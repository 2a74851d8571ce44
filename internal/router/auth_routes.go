package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/jchiwaii/blood-donations-sub000/internal/config"
	"github.com/jchiwaii/blood-donations-sub000/internal/handler"
	"github.com/jchiwaii/blood-donations-sub000/internal/middleware"
)

// RegisterAuth wires the credential endpoints.  Register and login live
// under /v1/auth behind RedirectIfAuthenticated, so a caller holding a
// valid session is bounced to their dashboard instead of re-entering the
// auth flow.  The rate limiter sits on the same group to slow credential
// stuffing.  Logout and /v1/me require a resolved session of any role.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, gate echo.MiddlewareFunc, rdb *redis.Client) {
	g := e.Group("/v1/auth",
		middleware.RateLimit(config.LoadRateLimitConfig(), rdb),
		middleware.RedirectIfAuthenticated(a.Cfg.JWTSecret),
	)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	s := e.Group("/v1", gate)
	s.GET("/me", a.Me)
	s.POST("/auth/logout", a.Logout)
}
