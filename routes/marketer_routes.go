package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/affistack/affiliate_backend/controllers"
	"github.com/affistack/affiliate_backend/middleware"
	"github.com/affistack/affiliate_backend/websocket"
)

// RegisterMarketerRoutes sets up the marketer-facing routes: balances,
// commission listings, tracking QR codes and the notification websocket
func RegisterMarketerRoutes(e *echo.Echo, marketerController *controllers.MarketerController,
	balanceController *controllers.BalanceController, hub *websocket.Hub) {

	// Tracking-code resolution for the conversion pipeline
	tracking := e.Group("/api/tracking")
	tracking.Use(middleware.RequireServiceToken())
	tracking.GET("/:code", marketerController.ResolveTrackingCode)

	marketers := e.Group("/api/marketers")
	marketers.Use(middleware.JWTMiddleware())
	marketers.Use(middleware.RequireUserType("admin", "marketer"))

	marketers.GET("/:marketerId/summary", balanceController.GetCommissionSummary)
	marketers.GET("/:marketerId/balance", balanceController.GetAvailableBalance)
	marketers.GET("/:marketerId/commissions", balanceController.GetMarketerCommissions)
	marketers.GET("/:id/tracking-qrcode", marketerController.GetTrackingQRCode)

	// WebSocket notifications. Unauthenticated connections are accepted but
	// only receive events after presenting a token.
	e.GET("/ws", func(c echo.Context) error {
		marketerID := primitive.NilObjectID
		if raw := c.QueryParam("marketerId"); raw != "" {
			if id, err := primitive.ObjectIDFromHex(raw); err == nil {
				marketerID = id
			}
		}
		return websocket.HandleWebSocket(c, hub, marketerID)
	})
}
