package model

// Role represents user roles in the system. The set is closed: every user is
// either an ADMIN (warehouse, catalog, reports) or a RIDER (mobile sales).
type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // ADMIN, RIDER
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

// Role codes as constants
const (
	RoleAdmin = "ADMIN"
	RoleRider = "RIDER"
)

// DefaultRoles defines the default roles in the system
var DefaultRoles = []Role{
	{
		Code:        RoleAdmin,
		Name:        "Administrator",
		Description: "Warehouse, catalog, distribution, reporting and user management",
	},
	{
		Code:        RoleRider,
		Name:        "Rider",
		Description: "Mobile sales against allocated stock",
	},
}
