package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/affistack/affiliate_backend/controllers"
)

// RegisterAuthRoutes sets up the public authentication routes
func RegisterAuthRoutes(e *echo.Echo, authController *controllers.AuthController) {
	e.POST("/api/admin/login", authController.AdminLogin)
}
