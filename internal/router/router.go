package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jchiwaii/blood-donations-sub000/internal/handler"
)

// RegisterPublic registers routes that require no session: the public
// home (which is also the redirect target for every gate denial), the
// health check, and the prometheus scrape endpoint.
func RegisterPublic(e *echo.Echo, reg *prometheus.Registry) {
	e.GET("/", handler.Home)
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
}
