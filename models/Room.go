package models

import (
	"gorm.io/gorm"
)

type Room struct {
	gorm.Model
	CompanyID    uint    `json:"companyID" gorm:"not null;index"`
	Name         string  `json:"name" gorm:"not null"`
	Description  string  `json:"description"`
	BasePrice    float64 `json:"basePrice" gorm:"not null"`
	MaxOccupancy int     `json:"maxOccupancy" gorm:"default:2"`
	IsActive     bool    `json:"isActive" gorm:"default:true"`

	Company Company `json:"-" gorm:"foreignKey:CompanyID"`
}
