package models

import (
	"gorm.io/gorm"
)

// Notification is a persisted in-app message for a staff user, written on
// booking lifecycle events.
type Notification struct {
	gorm.Model
	CompanyID uint   `json:"companyID" gorm:"not null;index"`
	UserID    uint   `json:"userID" gorm:"index"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Type      string `json:"type"` // reservation_created, reservation_confirmed, reservation_cancelled, payment_received
	RefID     uint   `json:"refID"`
	RefType   string `json:"refType"`
	IsRead    bool   `json:"isRead" gorm:"default:false"`
}
