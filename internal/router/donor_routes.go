package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/jchiwaii/blood-donations-sub000/internal/config"
	"github.com/jchiwaii/blood-donations-sub000/internal/handler"
	"github.com/jchiwaii/blood-donations-sub000/internal/middleware"
	"github.com/jchiwaii/blood-donations-sub000/internal/model"
)

// RegisterDonor registers donor-scoped endpoints under /v1/donor: the
// browse views over approved requests, and management of the donor's own
// offers.  The approved-request listing is read-heavy and sits behind the
// Redis response cache.
func RegisterDonor(e *echo.Echo, h *handler.DonorHandler, gate echo.MiddlewareFunc, rdb *redis.Client) {
	g := e.Group("/v1/donor",
		gate,
		middleware.RequireRole(model.RoleDonor),
	)

	// Browse approved requests.
	cache := middleware.CacheJSON(config.LoadCacheConfig(), rdb)
	g.GET("/requests", h.ListApprovedRequests, cache)
	g.GET("/requests/:id", h.GetApprovedRequest)
	g.POST("/requests/:id/donate", h.DonateToRequest)

	// Manage own offers.
	g.POST("/donations", h.CreateDonation)
	g.GET("/donations", h.ListMyDonations)
	g.PUT("/donations/:id", h.UpdateDonation)
	g.PATCH("/donations/:id", h.UpdateDonation)
	g.DELETE("/donations/:id", h.DeleteDonation)
}
