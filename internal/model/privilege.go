package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "sale:create"
	Name string `gorm:"type:varchar(100)" json:"name"`
}

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	// User management
	{Code: "user:view", Name: "View User"},
	{Code: "user:create", Name: "Create User"},
	{Code: "user:update", Name: "Update User"},
	{Code: "user:delete", Name: "Delete User"},
	{Code: "user:update_privilege", Name: "Update User Privileges"},
	// Catalog
	{Code: "category:manage", Name: "Manage Categories"},
	{Code: "product:view", Name: "View Product"},
	{Code: "product:create", Name: "Create Product"},
	{Code: "product:update", Name: "Update Product"},
	// Warehouse and distribution
	{Code: "warehouse:receive", Name: "Receive Warehouse Stock"},
	{Code: "distribution:create", Name: "Distribute Stock to Rider"},
	{Code: "stock:view", Name: "View Warehouse and Rider Stock"},
	// Sales
	{Code: "sale:create", Name: "Record Sale"},
	{Code: "sale:view", Name: "View Sales"},
	// Reporting
	{Code: "report:view", Name: "View Reports"},
}

// RiderPrivilegeCodes are the privileges seeded onto the RIDER role: riders
// sell from their own stock and see their own numbers, nothing else.
var RiderPrivilegeCodes = []string{
	"product:view",
	"stock:view",
	"sale:create",
	"sale:view",
}
