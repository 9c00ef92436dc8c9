package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Reservation statuses. Terminal states are checked_out, cancelled and
// expired.
const (
	ReservationPending    = "pending"
	ReservationConfirmed  = "confirmed"
	ReservationCheckedIn  = "checked_in"
	ReservationCheckedOut = "checked_out"
	ReservationCancelled  = "cancelled"
	ReservationExpired    = "expired"
)

// ActiveReservationStatuses are the statuses that claim calendar days. A
// pending reservation deliberately does not block availability so that
// speculative holds can expire without poisoning the calendar.
var ActiveReservationStatuses = []string{ReservationConfirmed, ReservationCheckedIn}

type Reservation struct {
	gorm.Model
	CompanyID    uint      `json:"companyID" gorm:"not null;index"`
	RoomID       uint      `json:"roomID" gorm:"not null;index"`
	CustomerID   uint      `json:"customerID" gorm:"not null;index"`
	CheckIn      time.Time `json:"checkIn" gorm:"not null"`
	CheckOut     time.Time `json:"checkOut" gorm:"not null"`
	Nights       int       `json:"nights" gorm:"not null"` // stored at creation, never recomputed
	NumGuests    int       `json:"numGuests" gorm:"default:1"`
	TotalAmount  float64   `json:"totalAmount"`
	Status       string    `json:"status" gorm:"type:varchar(20);default:pending;index"`
	Note         string    `json:"note"`
	CancelReason string    `json:"cancelReason"`
	ExpiresAt    time.Time `json:"expiresAt"` // pending hold window

	Room     *Room     `json:"room,omitempty" gorm:"foreignKey:RoomID"`
	Customer *Customer `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`

	Payments []ReservationPayment `json:"payments,omitempty" gorm:"foreignKey:ReservationID"`
}

// IsActive reports whether the reservation claims its calendar days.
func (r *Reservation) IsActive() bool {
	return r.Status == ReservationConfirmed || r.Status == ReservationCheckedIn
}

// Payment statuses. A refund is a new row pointing at the original payment,
// never an overwrite.
const (
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"
)

// ReservationPayment is an append-only ledger row per payment attempt.
type ReservationPayment struct {
	gorm.Model
	ReservationID    uint           `json:"reservationID" gorm:"not null;index"`
	Amount           float64        `json:"amount" gorm:"not null"`
	Method           string         `json:"method" gorm:"default:'card'"`
	Status           string         `json:"status" gorm:"type:varchar(20);not null"`
	TransactionID    string         `json:"transactionID"`
	RefundsPaymentID *uint          `json:"refundsPaymentID"` // set on refunded rows
	GatewayPayload   datatypes.JSON `json:"gatewayPayload"`
}
