package model

import "github.com/google/uuid"

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "CASH"
	// PaymentQRIS is a non-cash method: no tender, no change calculation.
	PaymentQRIS PaymentMethod = "QRIS"
)

// Transaction is an immutable record of a completed sale by a rider.
// Rows are append-only: no handler or service exposes an update or delete,
// and totals are snapshotted at the moment of sale.
type Transaction struct {
	BaseModel
	RiderID uuid.UUID `gorm:"type:uuid;not null;index" json:"rider_id"`
	Rider   *User     `gorm:"foreignKey:RiderID" json:"rider,omitempty"`

	Items []TransactionItem `gorm:"foreignKey:TransactionID" json:"items"`

	PaymentMethod  PaymentMethod `gorm:"type:varchar(10);not null" json:"payment_method"`
	Subtotal       int64         `gorm:"not null" json:"subtotal"`
	TaxRateBps     int           `gorm:"not null" json:"tax_rate_bps"` // rate snapshot, basis points
	Tax            int64         `gorm:"not null" json:"tax"`
	Total          int64         `gorm:"not null" json:"total"`
	AmountTendered int64         `json:"amount_tendered"` // cash only
	Change         int64         `json:"change"`          // cash only
}

// TransactionItem is one cart line, keeping the unit price at time of sale
// so later catalog price edits never change recorded transactions.
type TransactionItem struct {
	BaseModel
	TransactionID uuid.UUID `gorm:"type:uuid;not null;index" json:"transaction_id"`
	LineNo        int       `gorm:"not null" json:"line_no"`
	ProductID     uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Product       *Product  `json:"product,omitempty"`
	Quantity      int       `gorm:"not null" json:"quantity"`
	UnitPrice     int64     `gorm:"not null" json:"unit_price"`
	LineTotal     int64     `gorm:"not null" json:"line_total"`
}
