package handler // handler defines http handlers

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"
)

// Every endpoint answers with the same envelope so the UI layer renders
// success and failure uniformly: {"success": bool, "data"?, "message"?,
// "error"?}.  Nothing propagates to the client as an unhandled fault.

// respond writes a success envelope.  data may be nil.
func respond(c echo.Context, status int, data any, message string) error {
	body := echo.Map{"success": true}
	if data != nil {
		body["data"] = data
	}
	if message != "" {
		body["message"] = message
	}
	return c.JSON(status, body)
}

// fail writes a failure envelope with a short, non-leaking message.
func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, echo.Map{"success": false, "error": message})
}

// getUserID extracts the user_id stored in context by the session gate.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses the ":id" route parameter as a positive integer.
func pathID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}
