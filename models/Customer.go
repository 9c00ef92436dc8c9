package models

import (
	"gorm.io/gorm"
)

// Customer is the booking party. Uniqueness is per company and email so a
// returning guest is resolved instead of duplicated.
type Customer struct {
	gorm.Model
	CompanyID  uint    `json:"companyID" gorm:"not null;uniqueIndex:idx_company_email"`
	Email      string  `json:"email" gorm:"not null;uniqueIndex:idx_company_email"`
	FirstName  string  `json:"firstName"`
	LastName   string  `json:"lastName"`
	Phone      string  `json:"phone"`
	TotalSpent float64 `json:"totalSpent" gorm:"default:0"`
	OrderCount int     `json:"orderCount" gorm:"default:0"`
}
