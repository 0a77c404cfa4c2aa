package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/affistack/affiliate_backend/models"
	"github.com/affistack/affiliate_backend/services"
)

// SchedulerController exposes the clearance-period automation endpoints,
// invoked by an external cron or manually from the admin console
type SchedulerController struct {
	clearanceService *services.ClearanceService
}

func NewSchedulerController(clearanceService *services.ClearanceService) *SchedulerController {
	return &SchedulerController{clearanceService: clearanceService}
}

// GetEligibleCommissions lists pending commissions past their clearance period
func (sc *SchedulerController) GetEligibleCommissions(c echo.Context) error {
	ctx, cancel := requestContext()
	defer cancel()

	commissions, err := sc.clearanceService.GetCommissionsEligibleForApproval(ctx)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Eligible commissions retrieved",
		Data:    commissions,
	})
}

// BulkApproveEligibleCommissions approves every eligible commission,
// collecting per-item failures
func (sc *SchedulerController) BulkApproveEligibleCommissions(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	result, err := sc.clearanceService.BulkApproveEligibleCommissions(ctx)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Bulk approval completed",
		Data:    result,
	})
}

// ProcessAutomatedCommissionUpdates runs the scheduler unit of work
func (sc *SchedulerController) ProcessAutomatedCommissionUpdates(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	result, err := sc.clearanceService.ProcessAutomatedCommissionUpdates(ctx)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: result.Summary,
		Data:    result,
	})
}
