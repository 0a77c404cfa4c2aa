package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommissionType determines how a product's commission is computed
type CommissionType string

const (
	CommissionTypePercentage CommissionType = "percentage"
	CommissionTypeFlat       CommissionType = "flat"
)

// ProductStatus marks whether a product currently accrues commissions
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// Product is the commissionable product definition consulted at calculation
// time. CommissionRate applies to percentage products, CommissionFlatAmount
// to flat products; the unused field stays zero.
type Product struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                 string             `bson:"name" json:"name"`
	CommissionType       CommissionType     `bson:"commissionType" json:"commissionType"`
	CommissionRate       float64            `bson:"commissionRate,omitempty" json:"commissionRate,omitempty"`
	CommissionFlatAmount float64            `bson:"commissionFlatAmount,omitempty" json:"commissionFlatAmount,omitempty"`
	MinInitialSpend      float64            `bson:"minInitialSpend" json:"minInitialSpend"`
	Status               ProductStatus      `bson:"status" json:"status"`
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ProductRequest is the payload for creating or updating a product
type ProductRequest struct {
	Name                 string  `json:"name" validate:"required"`
	CommissionType       string  `json:"commissionType" validate:"required,oneof=percentage flat"`
	CommissionRate       float64 `json:"commissionRate" validate:"omitempty,gte=0,lte=1"`
	CommissionFlatAmount float64 `json:"commissionFlatAmount" validate:"omitempty,gte=0"`
	MinInitialSpend      float64 `json:"minInitialSpend" validate:"gte=0"`
	Status               string  `json:"status" validate:"omitempty,oneof=active inactive"`
}
