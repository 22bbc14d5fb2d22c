package model

// Category groups products for the catalog screens.
type Category struct {
	BaseModel
	Name string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name" validate:"required"`

	Products []Product `json:"products,omitempty"`
}
