package model

import (
	"time"

	"github.com/google/uuid"
)

// WarehouseStock is the central inventory pool, one row per product.
// Quantity never goes negative: it is increased by warehouse receipts and
// decreased only by distributions to riders.
type WarehouseStock struct {
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey" json:"product_id"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int       `gorm:"not null;default:0" json:"quantity"`
	UpdatedAt time.Time `json:"updated_at"`
	UpdatedBy string    `gorm:"type:varchar(255)" json:"updated_by"`
}

func (WarehouseStock) TableName() string {
	return "warehouse_stocks"
}

// RiderStock is the per-rider inventory subset allocated from the warehouse,
// one row per (rider, product). Incremented by distribution, decremented by
// sales, never negative.
type RiderStock struct {
	RiderID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"rider_id"`
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey" json:"product_id"`
	Rider     *User     `gorm:"foreignKey:RiderID" json:"rider,omitempty"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int       `gorm:"not null;default:0" json:"quantity"`
	UpdatedAt time.Time `json:"updated_at"`
	UpdatedBy string    `gorm:"type:varchar(255)" json:"updated_by"`
}

func (RiderStock) TableName() string {
	return "rider_stocks"
}

type MovementKind string

const (
	// MovementReceipt is stock arriving into the warehouse pool.
	MovementReceipt MovementKind = "RECEIPT"
	// MovementAllocation is a warehouse -> rider distribution.
	MovementAllocation MovementKind = "ALLOCATION"
)

// StockMovement is the append-only log of every warehouse mutation. It is
// never updated or deleted; reporting reads it to reconstruct history.
type StockMovement struct {
	BaseModel
	Kind      MovementKind `gorm:"type:varchar(20);not null;index" json:"kind" validate:"required,oneof=RECEIPT ALLOCATION"`
	ProductID uuid.UUID    `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Product   *Product     `json:"product,omitempty" validate:"-"`
	RiderID   *uuid.UUID   `gorm:"type:uuid;index" json:"rider_id,omitempty"` // set for ALLOCATION only
	Rider     *User        `gorm:"foreignKey:RiderID" json:"rider,omitempty" validate:"-"`
	Quantity  int          `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	Note      string       `json:"note"`
}
