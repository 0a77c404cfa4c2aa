package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MarketerStatus marks whether a marketer can accrue new commissions
type MarketerStatus string

const (
	MarketerStatusActive   MarketerStatus = "active"
	MarketerStatusInactive MarketerStatus = "inactive"
)

// Marketer is an affiliate partner earning commissions on tracked conversions
type Marketer struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName     string             `bson:"fullName" json:"fullName"`
	Email        string             `bson:"email" json:"email"`
	Status       MarketerStatus     `bson:"status" json:"status"`
	TrackingCode string             `bson:"trackingCode" json:"trackingCode"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsActive reports whether the marketer can accrue new commissions
func (m *Marketer) IsActive() bool {
	return m.Status == MarketerStatusActive
}

// MarketerRequest is the payload for creating or updating a marketer
type MarketerRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Status   string `json:"status" validate:"omitempty,oneof=active inactive"`
}
