package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/affistack/affiliate_backend/middleware"
	"github.com/affistack/affiliate_backend/models"
	"github.com/affistack/affiliate_backend/services"
)

// AdjustmentController exposes the clawback and manual-adjustment ledger over HTTP
type AdjustmentController struct {
	adjustmentService *services.AdjustmentService
}

func NewAdjustmentController(adjustmentService *services.AdjustmentService) *AdjustmentController {
	return &AdjustmentController{adjustmentService: adjustmentService}
}

// ProcessClawback reverses an approved or paid commission in full
func (ac *AdjustmentController) ProcessClawback(c echo.Context) error {
	ctx, cancel := requestContext()
	defer cancel()

	commissionID, err := parseObjectIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	adminID, err := middleware.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Admin authentication required",
		})
	}

	var req models.ClawbackRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	adjustment, err := ac.adjustmentService.ProcessClawback(ctx, commissionID, req.Amount,
		req.Reason, adminID, models.ClawbackType(req.ClawbackType))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Clawback processed successfully",
		Data:    adjustment,
	})
}

// ProcessPartialClawback records a clawback for part of the commission amount
func (ac *AdjustmentController) ProcessPartialClawback(c echo.Context) error {
	ctx, cancel := requestContext()
	defer cancel()

	commissionID, err := parseObjectIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	adminID, err := middleware.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Admin authentication required",
		})
	}

	var req models.ClawbackRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	adjustment, err := ac.adjustmentService.ProcessPartialClawback(ctx, commissionID, req.Amount,
		req.Reason, adminID, models.ClawbackType(req.ClawbackType))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Partial clawback processed successfully",
		Data:    adjustment,
	})
}

// ApplyManualAdjustment appends a bonus or correction ledger entry
func (ac *AdjustmentController) ApplyManualAdjustment(c echo.Context) error {
	ctx, cancel := requestContext()
	defer cancel()

	commissionID, err := parseObjectIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	adminID, err := middleware.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Admin authentication required",
		})
	}

	var req models.ManualAdjustmentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	adjustment, err := ac.adjustmentService.ApplyManualAdjustment(ctx, commissionID, req.Amount,
		models.AdjustmentType(req.AdjustmentType), req.Reason, adminID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Adjustment applied successfully",
		Data:    adjustment,
	})
}

// GetCommissionAdjustments returns the full ledger of one commission
func (ac *AdjustmentController) GetCommissionAdjustments(c echo.Context) error {
	ctx, cancel := requestContext()
	defer cancel()

	commissionID, err := parseObjectIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	adjustments, err := ac.adjustmentService.GetCommissionAdjustments(ctx, commissionID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Adjustments retrieved",
		Data:    adjustments,
	})
}

// GetCommissionWithAdjustments returns the commission with its ledger and net amount
func (ac *AdjustmentController) GetCommissionWithAdjustments(c echo.Context) error {
	ctx, cancel := requestContext()
	defer cancel()

	commissionID, err := parseObjectIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	result, err := ac.adjustmentService.GetCommissionWithAdjustments(ctx, commissionID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission retrieved",
		Data:    result,
	})
}
