package services

import (
	"fmt"
	"log"

	"hotel-platform-server/models"
	"hotel-platform-server/storage"
	"hotel-platform-server/utils"
)

// NotificationService persists in-app notifications for the company's staff
// on booking lifecycle events. Notification failures are logged and never
// propagate into the booking path.
type NotificationService struct{}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

func (ns *NotificationService) ReservationConfirmed(reservation *models.Reservation) {
	ns.notifyStaff(reservation, "Reservation Confirmed",
		fmt.Sprintf("Reservation #%d confirmed for room %d, %s to %s (%d nights).",
			reservation.ID, reservation.RoomID,
			reservation.CheckIn.Format(utils.DateFormat),
			reservation.CheckOut.Format(utils.DateFormat),
			reservation.Nights),
		"reservation_confirmed")
}

func (ns *NotificationService) ReservationCancelled(reservation *models.Reservation) {
	ns.notifyStaff(reservation, "Reservation Cancelled",
		fmt.Sprintf("Reservation #%d for room %d was cancelled: %s",
			reservation.ID, reservation.RoomID, reservation.CancelReason),
		"reservation_cancelled")
}

func (ns *NotificationService) notifyStaff(reservation *models.Reservation, title, message, notifType string) {
	var staff []models.User
	err := storage.DB.Where("company_id = ? AND is_active = ?", reservation.CompanyID, true).
		Find(&staff).Error
	if err != nil {
		log.Printf("notification: failed to load staff for company %d: %v", reservation.CompanyID, err)
		return
	}

	for _, user := range staff {
		notification := models.Notification{
			CompanyID: reservation.CompanyID,
			UserID:    user.ID,
			Title:     title,
			Message:   message,
			Type:      notifType,
			RefID:     reservation.ID,
			RefType:   "reservation",
		}
		if err := storage.DB.Create(&notification).Error; err != nil {
			log.Printf("notification: failed to create for user %d: %v", user.ID, err)
		}
	}
}
