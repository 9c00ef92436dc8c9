package models

import (
	"gorm.io/gorm"
)

// Company is the tenant: every room, reservation and calendar row belongs to
// exactly one company.
type Company struct {
	gorm.Model
	Name     string `json:"name" gorm:"not null"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Country  string `json:"country"`
	Currency string `json:"currency" gorm:"default:'USD'"`
	IsActive bool   `json:"isActive" gorm:"default:true"`

	Rooms []Room `json:"rooms,omitempty" gorm:"foreignKey:CompanyID"`
}
