package model

import "github.com/google/uuid"

type Product struct {
	BaseModel
	SKU        string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	CategoryID uuid.UUID `gorm:"type:uuid;not null;index" json:"category_id" validate:"uuid_required"`
	Category   *Category `json:"category,omitempty" validate:"-"`
	Unit       string    `gorm:"type:varchar(20)" json:"unit"`
	Price      int64     `gorm:"default:0" json:"price" validate:"gte=0"` // unit price in minor currency units

	// User tracking
	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
	UpdatedByUserID *string `gorm:"type:varchar(255)" json:"updated_by_user_id,omitempty"`
	CreatedByUser   *User   `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty"`
	UpdatedByUser   *User   `gorm:"foreignKey:UpdatedByUserID;references:ID" json:"updated_by_user,omitempty"`
}
