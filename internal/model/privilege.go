package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "transaction:create"
	Name string `gorm:"type:varchar(100)" json:"name"`
}

const (
	PrivProductView       = "product:view"
	PrivProductCreate     = "product:create"
	PrivProductUpdate     = "product:update"
	PrivProductDelete     = "product:delete"
	PrivTransactionView   = "transaction:view"
	PrivTransactionCreate = "transaction:create"
	PrivTransactionDelete = "transaction:delete"
	PrivSettingsUpdate    = "settings:update"
	PrivReferenceManage   = "reference:manage"
	PrivDashboardView     = "dashboard:view"
)

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	{Code: PrivProductView, Name: "View Product"},
	{Code: PrivProductCreate, Name: "Create Product"},
	{Code: PrivProductUpdate, Name: "Update Product"},
	{Code: PrivProductDelete, Name: "Delete Product"},
	{Code: PrivTransactionView, Name: "View Stock Transaction"},
	{Code: PrivTransactionCreate, Name: "Record Stock Transaction"},
	{Code: PrivTransactionDelete, Name: "Reverse Stock Transaction"},
	{Code: PrivSettingsUpdate, Name: "Update Inventory Settings"},
	{Code: PrivReferenceManage, Name: "Manage Categories and Suppliers"},
	{Code: PrivDashboardView, Name: "View Dashboard"},
}
