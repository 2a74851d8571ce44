package router

import (
	"github.com/labstack/echo/v4"

	"github.com/jchiwaii/blood-donations-sub000/internal/handler"
	"github.com/jchiwaii/blood-donations-sub000/internal/middleware"
	"github.com/jchiwaii/blood-donations-sub000/internal/model"
)

// RegisterAdmin registers admin-scoped endpoints under /v1/admin: the
// unfiltered review listings and both status-transition operations.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, gate echo.MiddlewareFunc) {
	g := e.Group("/v1/admin",
		gate,
		middleware.RequireRole(model.RoleAdmin),
	)
	g.GET("/requests", h.ListRequests)
	g.GET("/donations", h.ListDonations)
	g.GET("/users", h.ListUsers)
	g.PATCH("/requests/:id/status", h.TransitionRequestStatus)
	g.PATCH("/donations/:id/status", h.TransitionDonationStatus)
}
