package model

// Category groups products. A category that still owns products cannot be deleted.
type Category struct {
	BaseModel
	Name        string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name" validate:"required,max=100"`
	Description string `gorm:"type:text" json:"description"`
}

// Supplier is optional reference data on a product; deleting one detaches its products.
type Supplier struct {
	BaseModel
	Name         string `gorm:"type:varchar(255);not null" json:"name" validate:"required,max=255"`
	ContactEmail string `gorm:"type:varchar(255)" json:"contact_email" validate:"omitempty,email"`
	Phone        string `gorm:"type:varchar(30)" json:"phone"`
}
