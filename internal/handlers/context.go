package handlers

import "github.com/labstack/echo/v4"

// getUserIDFromContext returns the authenticated user's ID set by the JWT
// middleware, or "" when the request is unauthenticated.
func getUserIDFromContext(c echo.Context) string {
	if v, ok := c.Get("userID").(string); ok {
		return v
	}
	return ""
}
