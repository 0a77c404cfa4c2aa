package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/affistack/affiliate_backend/controllers"
	"github.com/affistack/affiliate_backend/middleware"
)

// RegisterCommissionRoutes sets up the commission lifecycle routes.
// Conversion intake is called by the tracking subsystem with a service token;
// everything that mutates lifecycle state requires an authenticated admin.
func RegisterCommissionRoutes(e *echo.Echo, commissionController *controllers.CommissionController,
	adjustmentController *controllers.AdjustmentController, schedulerController *controllers.SchedulerController) {

	// Conversion intake (machine-to-machine)
	intake := e.Group("/api/commissions")
	intake.Use(middleware.RequireServiceToken())
	intake.POST("/calculate", commissionController.CalculateCommission)
	intake.POST("/calculate/batch", commissionController.BatchCalculateCommissions)

	// Admin lifecycle routes
	admin := e.Group("/api/admin/commissions")
	admin.Use(middleware.JWTMiddleware())
	admin.Use(middleware.RequireUserType("admin"))

	admin.PUT("/:id/status", commissionController.UpdateCommissionStatus)
	admin.POST("/:id/approve", commissionController.ApproveCommission)
	admin.POST("/:id/reject", commissionController.RejectCommission)
	admin.POST("/:id/mark-paid", commissionController.MarkCommissionAsPaid)
	admin.POST("/:id/recalculate", commissionController.RecalculateCommission)
	admin.GET("/:id/status-history", commissionController.GetCommissionStatusHistory)

	// Ledger routes
	admin.POST("/:id/clawback", adjustmentController.ProcessClawback)
	admin.POST("/:id/clawback/partial", adjustmentController.ProcessPartialClawback)
	admin.POST("/:id/adjustments", adjustmentController.ApplyManualAdjustment)
	admin.GET("/:id/adjustments", adjustmentController.GetCommissionAdjustments)
	admin.GET("/:id/with-adjustments", adjustmentController.GetCommissionWithAdjustments)

	// Clearance-period scheduler routes, also hit by the external cron
	admin.GET("/eligible-for-approval", schedulerController.GetEligibleCommissions)
	admin.POST("/bulk-approve-eligible", schedulerController.BulkApproveEligibleCommissions)
	admin.POST("/process-automated-updates", schedulerController.ProcessAutomatedCommissionUpdates)
}
