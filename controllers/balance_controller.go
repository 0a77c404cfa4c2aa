package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/affistack/affiliate_backend/models"
	"github.com/affistack/affiliate_backend/services"
)

// BalanceController exposes the read-only aggregation endpoints consumed by
// dashboards and the payout subsystem
type BalanceController struct {
	balanceService *services.BalanceService
}

func NewBalanceController(balanceService *services.BalanceService) *BalanceController {
	return &BalanceController{balanceService: balanceService}
}

// parseDateWindow reads optional startDate/endDate query parameters (RFC 3339
// or plain YYYY-MM-DD)
func parseDateWindow(c echo.Context) (*time.Time, *time.Time, error) {
	parse := func(value string) (*time.Time, error) {
		if value == "" {
			return nil, nil
		}
		if t, err := time.Parse(time.RFC3339, value); err == nil {
			return &t, nil
		}
		t, err := time.Parse("2006-01-02", value)
		if err != nil {
			return nil, models.NewValidationError("Invalid date format: " + value)
		}
		return &t, nil
	}

	start, err := parse(c.QueryParam("startDate"))
	if err != nil {
		return nil, nil, err
	}
	end, err := parse(c.QueryParam("endDate"))
	if err != nil {
		return nil, nil, err
	}
	return start, end, nil
}

// GetCommissionSummary returns per-status counts and sums for one marketer
func (bc *BalanceController) GetCommissionSummary(c echo.Context) error {
	ctx, cancel := requestContext()
	defer cancel()

	marketerID, err := parseObjectIDParam(c, "marketerId")
	if err != nil {
		return respondError(c, err)
	}

	summary, err := bc.balanceService.GetCommissionSummary(ctx, marketerID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission summary retrieved",
		Data:    summary,
	})
}

// GetAvailableBalance returns the approved-commission balance of one marketer
func (bc *BalanceController) GetAvailableBalance(c echo.Context) error {
	ctx, cancel := requestContext()
	defer cancel()

	marketerID, err := parseObjectIDParam(c, "marketerId")
	if err != nil {
		return respondError(c, err)
	}

	balance, err := bc.balanceService.GetAvailableBalance(ctx, marketerID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Available balance retrieved",
		Data: map[string]interface{}{
			"marketerId":       marketerID,
			"availableBalance": balance,
		},
	})
}

// GetMarketerCommissions lists one marketer's commissions
func (bc *BalanceController) GetMarketerCommissions(c echo.Context) error {
	ctx, cancel := requestContext()
	defer cancel()

	marketerID, err := parseObjectIDParam(c, "marketerId")
	if err != nil {
		return respondError(c, err)
	}

	commissions, err := bc.balanceService.GetMarketerCommissions(ctx, marketerID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commissions retrieved",
		Data:    commissions,
	})
}

// GetCommissionLifecycleStats returns lifecycle statistics over an optional window
func (bc *BalanceController) GetCommissionLifecycleStats(c echo.Context) error {
	ctx, cancel := requestContext()
	defer cancel()

	start, end, err := parseDateWindow(c)
	if err != nil {
		return respondError(c, err)
	}

	stats, err := bc.balanceService.GetCommissionLifecycleStats(ctx, start, end)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Lifecycle statistics retrieved",
		Data:    stats,
	})
}

// GetClawbackStatistics returns clawback statistics over an optional window,
// optionally restricted to one marketer via the marketerId query parameter
func (bc *BalanceController) GetClawbackStatistics(c echo.Context) error {
	ctx, cancel := requestContext()
	defer cancel()

	start, end, err := parseDateWindow(c)
	if err != nil {
		return respondError(c, err)
	}

	var marketerID *primitive.ObjectID
	if raw := c.QueryParam("marketerId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return respondError(c, models.NewValidationError("Invalid marketerId format"))
		}
		marketerID = &id
	}

	stats, err := bc.balanceService.GetClawbackStatistics(ctx, start, end, marketerID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Clawback statistics retrieved",
		Data:    stats,
	})
}
