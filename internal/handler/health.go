package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is a simple health-check endpoint used by load balancers and
// monitoring systems to verify that the service is running.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// Home is the public landing route.  It is also where the authorization
// gate sends anyone whose session fails to resolve or whose role does not
// match the area they tried to enter.
func Home(c echo.Context) error {
	return respond(c, http.StatusOK, echo.Map{
		"service": "blood-donations",
		"login":   "/v1/auth/login",
	}, "welcome")
}
