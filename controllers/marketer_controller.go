package controllers

import (
	"bytes"
	"image/png"
	"net/http"
	"os"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/labstack/echo/v4"

	"github.com/affistack/affiliate_backend/models"
	"github.com/affistack/affiliate_backend/repositories"
	"github.com/affistack/affiliate_backend/utils"
)

// MarketerController is thin CRUD over marketers plus tracking-link helpers
type MarketerController struct {
	marketers *repositories.MarketerRepository
}

func NewMarketerController(marketers *repositories.MarketerRepository) *MarketerController {
	return &MarketerController{marketers: marketers}
}

// CreateMarketer registers a new marketer and assigns a tracking code
func (mc *MarketerController) CreateMarketer(c echo.Context) error {
	ctx, cancel := requestContext()
	defer cancel()

	var req models.MarketerRequest
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

	trackingCode, err := utils.GenerateTrackingCode()
	if err != nil {
		return respondError(c, err)
	}

	status := models.MarketerStatusActive
	if req.Status != "" {
		status = models.MarketerStatus(req.Status)
	}

	marketer := &models.Marketer{
		FullName:     req.FullName,
		Email:        req.Email,
		Status:       status,
		TrackingCode: trackingCode,
	}
	if err := mc.marketers.Create(ctx, marketer); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Marketer created successfully",
		Data:    marketer,
	})
}

// GetMarketer returns one marketer
func (mc *MarketerController) GetMarketer(c echo.Context) error {
	ctx, cancel := requestContext()
	defer cancel()

	marketerID, err := parseObjectIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	marketer, err := mc.marketers.FindByID(ctx, marketerID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Marketer retrieved",
		Data:    marketer,
	})
}

// ListMarketers returns all marketers
func (mc *MarketerController) ListMarketers(c echo.Context) error {
	ctx, cancel := requestContext()
	defer cancel()

	marketers, err := mc.marketers.List(ctx)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Marketers retrieved",
		Data:    marketers,
	})
}

// UpdateMarketerStatus flips a marketer between active and inactive
func (mc *MarketerController) UpdateMarketerStatus(c echo.Context) error {
	ctx, cancel := requestContext()
	defer cancel()

	marketerID, err := parseObjectIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		Status string `json:"status" validate:"required,oneof=active inactive"`
	}
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

	if err := mc.marketers.UpdateStatus(ctx, marketerID, models.MarketerStatus(req.Status)); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Marketer status updated",
	})
}

// ResolveTrackingCode resolves a tracking code to its marketer, so the
// tracking subsystem can attribute a conversion before submitting it
func (mc *MarketerController) ResolveTrackingCode(c echo.Context) error {
	ctx, cancel := requestContext()
	defer cancel()

	code := c.Param("code")
	if code == "" {
		return respondError(c, models.NewValidationError("Tracking code is required"))
	}

	marketer, err := mc.marketers.FindByTrackingCode(ctx, code)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Tracking code resolved",
		Data: map[string]interface{}{
			"marketerId": marketer.ID,
			"status":     marketer.Status,
		},
	})
}

// GetTrackingQRCode renders a marketer's tracking link as a PNG QR code
func (mc *MarketerController) GetTrackingQRCode(c echo.Context) error {
	ctx, cancel := requestContext()
	defer cancel()

	marketerID, err := parseObjectIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	marketer, err := mc.marketers.FindByID(ctx, marketerID)
	if err != nil {
		return respondError(c, err)
	}

	baseURL := os.Getenv("TRACKING_BASE_URL")
	if baseURL == "" {
		baseURL = "https://track.affistack.com/t/"
	}
	content := baseURL + marketer.TrackingCode

	qrCode, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate QR code",
		})
	}

	qrCode, err = barcode.Scale(qrCode, 200, 200)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to scale QR code",
		})
	}

	buffer := new(bytes.Buffer)
	if err := png.Encode(buffer, qrCode); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to encode QR code as PNG",
		})
	}

	c.Response().Header().Set("Content-Disposition", "inline; filename=tracking-"+marketer.TrackingCode+".png")
	return c.Blob(http.StatusOK, "image/png", buffer.Bytes())
}
