package router

import (
	"github.com/labstack/echo/v4"

	"github.com/jchiwaii/blood-donations-sub000/internal/handler"
	"github.com/jchiwaii/blood-donations-sub000/internal/middleware"
	"github.com/jchiwaii/blood-donations-sub000/internal/model"
)

// RegisterRecipient registers recipient-scoped endpoints under
// /v1/recipient.  All routes require a resolved session with the
// recipient role; anything else is redirected to the public home by the
// gate chain.
func RegisterRecipient(e *echo.Echo, h *handler.RecipientHandler, gate echo.MiddlewareFunc) {
	g := e.Group("/v1/recipient",
		gate,
		middleware.RequireRole(model.RoleRecipient),
	)
	g.POST("/requests", h.CreateRequest)
	g.GET("/requests", h.ListMyRequests)
	g.PUT("/requests/:id", h.UpdateRequest)
	g.PATCH("/requests/:id", h.UpdateRequest)
	g.DELETE("/requests/:id", h.DeleteRequest)
	g.GET("/requests/:id/donations", h.ListRequestDonations)
}
