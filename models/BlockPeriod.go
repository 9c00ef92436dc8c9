package models

import (
	"time"

	"gorm.io/gorm"
)

// BlockPeriod marks a [StartDate, EndDate) range of days unavailable for
// maintenance or manual holds. A nil RoomID applies the block to every room
// of the company.
type BlockPeriod struct {
	gorm.Model
	CompanyID       uint      `json:"companyID" gorm:"not null;index"`
	RoomID          *uint     `json:"roomID" gorm:"index"`
	StartDate       time.Time `json:"startDate" gorm:"not null"`
	EndDate         time.Time `json:"endDate" gorm:"not null"`
	Reason          string    `json:"reason"`
	CreatedByUserID uint      `json:"createdByUserID"`

	Room *Room `json:"room,omitempty" gorm:"foreignKey:RoomID"`
}
