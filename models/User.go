package models

import (
	"gorm.io/gorm"
)

const (
	RoleStaff = "staff"
	RoleAdmin = "admin"
)

// User is a staff account operating the admin surface of one company.
type User struct {
	gorm.Model
	CompanyID uint   `json:"companyID" gorm:"not null;index"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" gorm:"uniqueIndex;not null"`
	Password  string `json:"-"`
	Role      string `json:"role" gorm:"type:varchar(20);default:staff;index"` // staff, admin
	IsActive  bool   `json:"isActive" gorm:"default:true"`
}
