package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// currentUserID pulls the authenticated caller's id set by the auth
// middleware. Every mutating route sits behind that middleware, so a missing
// id means the request never authenticated.
func currentUserID(c echo.Context) (uint, error) {
	id, ok := c.Get("userID").(uint)
	if !ok || id == 0 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}
	return id, nil
}
