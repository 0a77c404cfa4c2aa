package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/affistack/affiliate_backend/controllers"
	"github.com/affistack/affiliate_backend/middleware"
)

// RegisterAdminRoutes sets up the admin console routes for managing
// marketers, products and reporting
func RegisterAdminRoutes(e *echo.Echo, marketerController *controllers.MarketerController,
	productController *controllers.ProductController, balanceController *controllers.BalanceController) {

	admin := e.Group("/api/admin")
	admin.Use(middleware.JWTMiddleware())
	admin.Use(middleware.RequireUserType("admin"))

	// Marketer management
	admin.POST("/marketers", marketerController.CreateMarketer)
	admin.GET("/marketers", marketerController.ListMarketers)
	admin.GET("/marketers/:id", marketerController.GetMarketer)
	admin.PUT("/marketers/:id/status", marketerController.UpdateMarketerStatus)

	// Product management
	admin.POST("/products", productController.CreateProduct)
	admin.GET("/products", productController.ListProducts)
	admin.GET("/products/:id", productController.GetProduct)
	admin.PUT("/products/:id", productController.UpdateProduct)

	// Reporting
	admin.GET("/commissions/stats/lifecycle", balanceController.GetCommissionLifecycleStats)
	admin.GET("/commissions/stats/clawbacks", balanceController.GetClawbackStatistics)
}
