package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/affistack/affiliate_backend/middleware"
	"github.com/affistack/affiliate_backend/models"
	"github.com/affistack/affiliate_backend/services"
)

// CommissionController exposes commission calculation and the status state
// machine over HTTP
type CommissionController struct {
	commissionService *services.CommissionService
	statusService     *services.StatusService
}

func NewCommissionController(commissionService *services.CommissionService, statusService *services.StatusService) *CommissionController {
	return &CommissionController{
		commissionService: commissionService,
		statusService:     statusService,
	}
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

func parseObjectIDParam(c echo.Context, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		return primitive.NilObjectID, models.NewValidationError("Invalid " + name + " format")
	}
	return id, nil
}

// adminIDFromToken returns the acting admin's id, or nil when the request is
// not admin-authenticated (service tokens, scheduler)
func adminIDFromToken(c echo.Context) *primitive.ObjectID {
	if middleware.ExtractUserType(c) != "admin" {
		return nil
	}
	adminID, err := middleware.GetUserIDFromToken(c)
	if err != nil {
		return nil
	}
	return &adminID
}

// CalculateCommission records a commission for a customer conversion
func (cc *CommissionController) CalculateCommission(c echo.Context) error {
	ctx, cancel := requestContext()
	defer cancel()

	var req models.CalculateCommissionRequest
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

	commission, err := cc.commissionService.CalculateCommission(ctx, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Commission calculated successfully",
		Data:    commission,
	})
}

// BatchCalculateCommissions records a batch of conversions with per-item
// failure isolation
func (cc *CommissionController) BatchCalculateCommissions(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var req models.BatchCalculateCommissionsRequest
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

	result := cc.commissionService.BatchCalculateCommissions(ctx, req.Conversions)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Batch calculation completed",
		Data:    result,
	})
}

// UpdateCommissionStatus applies a generic admin status change. clawed_back
// is not reachable here; the clawback endpoints own that state.
func (cc *CommissionController) UpdateCommissionStatus(c echo.Context) error {
	ctx, cancel := requestContext()
	defer cancel()

	commissionID, err := parseObjectIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req models.UpdateCommissionStatusRequest
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

	commission, err := cc.statusService.UpdateCommissionStatus(ctx, commissionID,
		models.CommissionStatus(req.Status), adminIDFromToken(c), req.RejectionReason)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission status updated successfully",
		Data:    commission,
	})
}

// ApproveCommission approves a pending commission past its clearance period
func (cc *CommissionController) ApproveCommission(c echo.Context) error {
	ctx, cancel := requestContext()
	defer cancel()

	commissionID, err := parseObjectIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req models.ApproveCommissionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	commission, err := cc.statusService.ApproveCommission(ctx, commissionID, adminIDFromToken(c), req.OverrideClearancePeriod)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission approved successfully",
		Data:    commission,
	})
}

// RejectCommission rejects a pending commission with a mandatory reason
func (cc *CommissionController) RejectCommission(c echo.Context) error {
	ctx, cancel := requestContext()
	defer cancel()

	commissionID, err := parseObjectIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req models.RejectCommissionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Rejection reason is required",
		})
	}

	commission, err := cc.statusService.RejectCommission(ctx, commissionID, req.Reason, adminIDFromToken(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission rejected",
		Data:    commission,
	})
}

// MarkCommissionAsPaid marks an approved commission as paid out
func (cc *CommissionController) MarkCommissionAsPaid(c echo.Context) error {
	ctx, cancel := requestContext()
	defer cancel()

	commissionID, err := parseObjectIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req models.MarkCommissionPaidRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	commission, err := cc.statusService.MarkCommissionAsPaid(ctx, commissionID, adminIDFromToken(c), req.PaymentReference)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission marked as paid",
		Data:    commission,
	})
}

// RecalculateCommission re-derives a pending commission's amount from the
// current product definition
func (cc *CommissionController) RecalculateCommission(c echo.Context) error {
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

	var req models.RecalculateCommissionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Recalculation reason is required",
		})
	}

	commission, err := cc.commissionService.RecalculateCommission(ctx, commissionID, adminID, req.Reason)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission recalculated",
		Data:    commission,
	})
}

// GetCommissionStatusHistory returns the status_change ledger entries of a commission
func (cc *CommissionController) GetCommissionStatusHistory(c echo.Context) error {
	ctx, cancel := requestContext()
	defer cancel()

	commissionID, err := parseObjectIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	history, err := cc.statusService.GetCommissionStatusHistory(ctx, commissionID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Status history retrieved",
		Data:    history,
	})
}
