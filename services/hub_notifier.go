package services

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/affistack/affiliate_backend/models"
	"github.com/affistack/affiliate_backend/websocket"
)

// HubNotifier delivers commission events over the websocket hub and stores
// them as notification documents so disconnected marketers catch up later.
// Both channels are best-effort; failures are logged and swallowed.
type HubNotifier struct {
	hub *websocket.Hub
	db  *mongo.Database
}

func NewHubNotifier(hub *websocket.Hub, db *mongo.Database) *HubNotifier {
	return &HubNotifier{hub: hub, db: db}
}

func (n *HubNotifier) NotifyCommissionEvent(ctx context.Context, event CommissionEvent) {
	if n.db != nil {
		notification := models.Notification{
			MarketerID: event.MarketerID,
			Title:      "Commission update",
			Message:    event.Message,
			Type:       event.Type,
			Data:       event.Data,
			IsRead:     false,
			CreatedAt:  time.Now(),
		}
		if _, err := n.db.Collection("notifications").InsertOne(ctx, notification); err != nil {
			log.Printf("Failed to save notification for marketer %s: %v", event.MarketerID.Hex(), err)
		}
	}

	if n.hub != nil {
		err := n.hub.SendToMarketer(event.MarketerID, websocket.Notification{
			Type:       event.Type,
			Message:    event.Message,
			Data:       event.Data,
			MarketerID: event.MarketerID.Hex(),
		})
		if err != nil {
			// Marketer is simply not connected most of the time
			log.Printf("Websocket delivery skipped for marketer %s: %v", event.MarketerID.Hex(), err)
		}
	}
}
