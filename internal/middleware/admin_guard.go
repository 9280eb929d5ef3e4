package middleware

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
)

// AdminGuard ensures only admin users can reach moderation routes
func AdminGuard(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if Role(c) != RoleAdmin {
			log.Printf("[admin] denied %s %s for user %q", c.Request().Method, c.Path(), UserID(c))
			return c.JSON(http.StatusForbidden, echo.Map{
				"error": "admin access only",
			})
		}
		return next(c)
	}
}
