package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification model
type Notification struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	MarketerID primitive.ObjectID `json:"marketerId" bson:"marketerId"` // The marketer who receives the notification
	Title      string             `json:"title" bson:"title"`
	Message    string             `json:"message" bson:"message"`
	Type       string             `json:"type" bson:"type"` // e.g. "commission_status", "clawback"
	Data       interface{}        `json:"data,omitempty" bson:"data"`
	IsRead     bool               `json:"isRead" bson:"isRead"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
}
