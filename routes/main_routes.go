package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/affistack/affiliate_backend/controllers"
	"github.com/affistack/affiliate_backend/websocket"
)

// Controllers bundles the HTTP handlers wired in main.go
type Controllers struct {
	Auth       *controllers.AuthController
	Commission *controllers.CommissionController
	Adjustment *controllers.AdjustmentController
	Balance    *controllers.BalanceController
	Scheduler  *controllers.SchedulerController
	Marketer   *controllers.MarketerController
	Product    *controllers.ProductController
}

// SetupRoutes configures all API routes by calling individual route registration functions
func SetupRoutes(e *echo.Echo, ctrl Controllers, hub *websocket.Hub) {
	RegisterAuthRoutes(e, ctrl.Auth)
	RegisterCommissionRoutes(e, ctrl.Commission, ctrl.Adjustment, ctrl.Scheduler)
	RegisterAdminRoutes(e, ctrl.Marketer, ctrl.Product, ctrl.Balance)
	RegisterMarketerRoutes(e, ctrl.Marketer, ctrl.Balance, hub)
}
