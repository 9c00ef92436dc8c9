package models

import (
	"time"

	"gorm.io/gorm"
)

// AvailabilityDay is one room-day cell of the calendar. Rows are created
// lazily: a missing row means the day is available with no overrides. A day
// is either free, reserved or blocked, never two of those at once; the unique
// (room_id, date) index is what serializes two concurrent claims on the same
// day.
type AvailabilityDay struct {
	gorm.Model
	CompanyID     uint      `json:"companyID" gorm:"not null;index"`
	RoomID        uint      `json:"roomID" gorm:"not null;uniqueIndex:idx_room_date"`
	Date          time.Time `json:"date" gorm:"not null;uniqueIndex:idx_room_date"`
	IsAvailable   bool      `json:"isAvailable" gorm:"default:true"`
	CustomPrice   *float64  `json:"customPrice"`
	MinNights     *int      `json:"minNights"`
	ReservationID *uint     `json:"reservationID" gorm:"index"`
	BlockPeriodID *uint     `json:"blockPeriodID" gorm:"index"`

	Room Room `json:"-" gorm:"foreignKey:RoomID"`
}

// IsClaimed reports whether a reservation or a block owns this day.
func (d *AvailabilityDay) IsClaimed() bool {
	return d.ReservationID != nil || d.BlockPeriodID != nil
}
