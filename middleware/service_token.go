// middleware/service_token.go
package middleware

import (
	"crypto/subtle"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/affistack/affiliate_backend/models"
)

// RequireServiceToken guards machine-to-machine endpoints called by the
// tracking subsystem. Callers present the shared secret in X-Service-Token.
func RequireServiceToken() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			expected := os.Getenv("SERVICE_TOKEN")
			if expected == "" {
				return c.JSON(http.StatusServiceUnavailable, models.Response{
					Status:  http.StatusServiceUnavailable,
					Message: "Service token authentication is not configured",
				})
			}

			provided := c.Request().Header.Get("X-Service-Token")
			if subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
				return c.JSON(http.StatusUnauthorized, models.Response{
					Status:  http.StatusUnauthorized,
					Message: "Invalid service token",
				})
			}

			return next(c)
		}
	}
}
