package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"hotel-platform-server/models"
	"hotel-platform-server/storage"
	"hotel-platform-server/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PendingReservationTTL is the hold window for reservations that were
// created but never confirmed. Expired holds never blocked availability, so
// the sweep is pure bookkeeping.
const PendingReservationTTL = 24 * time.Hour

// legalPredecessors drives the reservation state machine:
// pending -> confirmed -> checked_in -> checked_out, with cancellation
// reachable from pending and confirmed only.
var legalPredecessors = map[string][]string{
	models.ReservationConfirmed:  {models.ReservationPending},
	models.ReservationCheckedIn:  {models.ReservationConfirmed},
	models.ReservationCheckedOut: {models.ReservationCheckedIn},
	models.ReservationCancelled:  {models.ReservationPending, models.ReservationConfirmed},
}

// BookingService orchestrates checkout: customer resolution, availability and
// rule re-validation, reservation + payment persistence and calendar claims,
// all inside one database transaction.
type BookingService struct {
	availability *AvailabilityService
	rules        *RuleService
	gateway      PaymentGateway
	notifier     *NotificationService
}

func NewBookingService(gateway PaymentGateway) *BookingService {
	return &BookingService{
		availability: NewAvailabilityService(),
		rules:        NewRuleService(),
		gateway:      gateway,
		notifier:     NewNotificationService(),
	}
}

// BookingRequest is the checkout payload after DTO validation.
type BookingRequest struct {
	RoomID        uint
	CheckIn       time.Time
	CheckOut      time.Time
	NumGuests     int
	Note          string
	PaymentMethod string

	// Customer resolution fields; an existing (companyID, email) customer
	// is reused, otherwise one is created inside the booking transaction.
	Email     string
	FirstName string
	LastName  string
	Phone     string
}

// ProcessRoomReservation performs the whole checkout atomically. A payment
// decline rolls everything back, including a customer created in this same
// call: a failed booking leaves no orphan rows behind.
func (s *BookingService) ProcessRoomReservation(companyID uint, req BookingRequest) (*models.Reservation, error) {
	rng := utils.NewDateRange(req.CheckIn, req.CheckOut)
	if !rng.IsValid() {
		return nil, fmt.Errorf("%w: checkIn must be before checkOut", ErrInvalidRange)
	}
	if req.Email == "" {
		return nil, fmt.Errorf("%w: customer email is required", ErrValidation)
	}

	var reservation models.Reservation
	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.Where("company_id = ? AND is_active = ?", companyID, true).
			First(&room, req.RoomID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("%w: room %d", ErrNotFound, req.RoomID)
			}
			return err
		}

		// Lock the day rows first so concurrent bookings for overlapping
		// ranges serialize here; the grid the client saw is not
		// authoritative.
		var lockedDays []models.AvailabilityDay
		if err := lockForUpdate(tx).
			Where("room_id = ? AND date >= ? AND date < ?", room.ID, rng.Start, rng.End).
			Find(&lockedDays).Error; err != nil {
			return err
		}

		available, err := s.availability.checkRoomAvailabilityTx(tx, companyID, room.ID, rng)
		if err != nil {
			return err
		}
		if !available {
			return fmt.Errorf("%w: room %d for %s..%s", ErrRoomNotAvailable,
				room.ID, rng.Start.Format(utils.DateFormat), rng.End.Format(utils.DateFormat))
		}

		if err := s.rules.validateTx(tx, companyID, room.ID, rng); err != nil {
			return err
		}

		customer, err := resolveOrCreateCustomerTx(tx, companyID, req)
		if err != nil {
			return err
		}

		total, err := s.totalForRangeTx(tx, &room, rng, lockedDays)
		if err != nil {
			return err
		}

		reservation = models.Reservation{
			CompanyID:   companyID,
			RoomID:      room.ID,
			CustomerID:  customer.ID,
			CheckIn:     rng.Start,
			CheckOut:    rng.End,
			Nights:      rng.Nights(),
			NumGuests:   req.NumGuests,
			TotalAmount: total,
			Status:      models.ReservationPending,
			Note:        req.Note,
			ExpiresAt:   time.Now().Add(PendingReservationTTL),
		}
		if err := tx.Create(&reservation).Error; err != nil {
			return err
		}

		charge, err := s.gateway.Charge(ChargeRequest{
			Amount:        total,
			Currency:      "USD",
			Method:        req.PaymentMethod,
			CustomerEmail: customer.Email,
			Reference:     fmt.Sprintf("reservation-%d", reservation.ID),
		})
		if err != nil {
			return fmt.Errorf("payment gateway: %w", err)
		}
		if !charge.Approved {
			// Rolls back the reservation, the payment attempt and any
			// customer created above.
			return fmt.Errorf("%w: transaction %s", ErrPaymentFailed, charge.TransactionID)
		}

		payment := models.ReservationPayment{
			ReservationID:  reservation.ID,
			Amount:         total,
			Method:         req.PaymentMethod,
			Status:         models.PaymentCompleted,
			TransactionID:  charge.TransactionID,
			GatewayPayload: datatypes.JSON(charge.RawPayload),
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		reservation.Status = models.ReservationConfirmed
		if err := tx.Save(&reservation).Error; err != nil {
			return err
		}

		if err := s.availability.claimRangeTx(tx, companyID, room.ID, reservation.ID, rng); err != nil {
			return err
		}

		customer.TotalSpent += total
		customer.OrderCount++
		return tx.Save(customer).Error
	})
	if err != nil {
		return nil, err
	}

	// Notification failures are logged, never unwound into the booking.
	s.notifier.ReservationConfirmed(&reservation)

	storage.DB.Preload("Room").Preload("Customer").Preload("Payments").First(&reservation, reservation.ID)
	return &reservation, nil
}

func resolveOrCreateCustomerTx(tx *gorm.DB, companyID uint, req BookingRequest) (*models.Customer, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	var customer models.Customer
	res := tx.Where("company_id = ? AND email = ?", companyID, email).First(&customer)
	if res.Error == nil {
		return &customer, nil
	}
	if res.Error != gorm.ErrRecordNotFound {
		return nil, res.Error
	}
	customer = models.Customer{
		CompanyID: companyID,
		Email:     email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	}
	if err := tx.Create(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// totalForRangeTx prices the stay: per-day custom price override when one
// exists, the room's base price otherwise.
func (s *BookingService) totalForRangeTx(tx *gorm.DB, room *models.Room, rng utils.DateRange, days []models.AvailabilityDay) (float64, error) {
	prices := make(map[time.Time]float64)
	for _, d := range days {
		if d.CustomPrice != nil {
			prices[utils.NormalizeDate(d.Date)] = *d.CustomPrice
		}
	}
	total := 0.0
	rng.EachDay(func(day time.Time) {
		if p, ok := prices[day]; ok {
			total += p
		} else {
			total += room.BasePrice
		}
	})
	return total, nil
}

func (s *BookingService) getReservation(companyID, reservationID uint) (*models.Reservation, error) {
	var reservation models.Reservation
	err := storage.DB.Where("company_id = ?", companyID).First(&reservation, reservationID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: reservation %d", ErrNotFound, reservationID)
		}
		return nil, err
	}
	return &reservation, nil
}

func transitionAllowed(from, to string) bool {
	for _, legal := range legalPredecessors[to] {
		if from == legal {
			return true
		}
	}
	return false
}

// Confirm promotes a pending hold whose payment arrived out of band. The
// calendar claim happens here, so availability is re-checked under the same
// transaction.
func (s *BookingService) Confirm(companyID, reservationID uint) (*models.Reservation, error) {
	var reservation *models.Reservation
	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		reservation, err = s.getReservation(companyID, reservationID)
		if err != nil {
			return err
		}
		if !transitionAllowed(reservation.Status, models.ReservationConfirmed) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidStateTransition, reservation.Status, models.ReservationConfirmed)
		}

		rng := utils.NewDateRange(reservation.CheckIn, reservation.CheckOut)
		available, err := s.availability.checkRoomAvailabilityTx(tx, companyID, reservation.RoomID, rng)
		if err != nil {
			return err
		}
		if !available {
			return fmt.Errorf("%w: dates were taken while the hold was pending", ErrRoomNotAvailable)
		}

		reservation.Status = models.ReservationConfirmed
		if err := tx.Save(reservation).Error; err != nil {
			return err
		}
		return s.availability.claimRangeTx(tx, companyID, reservation.RoomID, reservation.ID, rng)
	})
	if err != nil {
		return nil, err
	}
	s.notifier.ReservationConfirmed(reservation)
	return reservation, nil
}

func (s *BookingService) CheckIn(companyID, reservationID uint) (*models.Reservation, error) {
	return s.transition(companyID, reservationID, models.ReservationCheckedIn)
}

func (s *BookingService) CheckOut(companyID, reservationID uint) (*models.Reservation, error) {
	return s.transition(companyID, reservationID, models.ReservationCheckedOut)
}

func (s *BookingService) transition(companyID, reservationID uint, to string) (*models.Reservation, error) {
	reservation, err := s.getReservation(companyID, reservationID)
	if err != nil {
		return nil, err
	}
	if !transitionAllowed(reservation.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStateTransition, reservation.Status, to)
	}
	reservation.Status = to
	if err := storage.DB.Save(reservation).Error; err != nil {
		return nil, err
	}
	return reservation, nil
}

// Cancel requires a reason and releases the reservation's calendar days,
// recomputing each one rather than blindly clearing (another live
// reservation or block keeps a day claimed).
func (s *BookingService) Cancel(companyID, reservationID uint, reason string) (*models.Reservation, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("%w: cancellation reason is required", ErrValidation)
	}

	var reservation *models.Reservation
	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		reservation, err = s.getReservation(companyID, reservationID)
		if err != nil {
			return err
		}
		if !transitionAllowed(reservation.Status, models.ReservationCancelled) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidStateTransition, reservation.Status, models.ReservationCancelled)
		}
		reservation.Status = models.ReservationCancelled
		reservation.CancelReason = reason
		if err := tx.Save(reservation).Error; err != nil {
			return err
		}
		return s.availability.releaseReservationDaysTx(tx, reservation)
	})
	if err != nil {
		return nil, err
	}
	s.notifier.ReservationCancelled(reservation)
	return reservation, nil
}

type PaymentRequest struct {
	Amount float64
	Method string
}

// AddPayment appends a ledger row against the reservation. It never changes
// the reservation status; status transitions are explicit, separate calls.
func (s *BookingService) AddPayment(companyID, reservationID uint, req PaymentRequest) (*models.ReservationPayment, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: payment amount must be positive", ErrValidation)
	}
	reservation, err := s.getReservation(companyID, reservationID)
	if err != nil {
		return nil, err
	}

	charge, err := s.gateway.Charge(ChargeRequest{
		Amount:    req.Amount,
		Currency:  "USD",
		Method:    req.Method,
		Reference: fmt.Sprintf("reservation-%d", reservation.ID),
	})
	if err != nil {
		return nil, fmt.Errorf("payment gateway: %w", err)
	}
	if !charge.Approved {
		return nil, fmt.Errorf("%w: transaction %s", ErrPaymentFailed, charge.TransactionID)
	}

	payment := models.ReservationPayment{
		ReservationID:  reservation.ID,
		Amount:         req.Amount,
		Method:         req.Method,
		Status:         models.PaymentCompleted,
		TransactionID:  charge.TransactionID,
		GatewayPayload: datatypes.JSON(charge.RawPayload),
	}
	if err := storage.DB.Create(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// RefundPayment appends a refund row referencing the original completed
// payment. The original row is never overwritten.
func (s *BookingService) RefundPayment(companyID, reservationID, paymentID uint) (*models.ReservationPayment, error) {
	reservation, err := s.getReservation(companyID, reservationID)
	if err != nil {
		return nil, err
	}

	var original models.ReservationPayment
	err = storage.DB.Where("reservation_id = ?", reservation.ID).First(&original, paymentID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: payment %d", ErrNotFound, paymentID)
		}
		return nil, err
	}
	if original.Status != models.PaymentCompleted {
		return nil, fmt.Errorf("%w: only completed payments can be refunded", ErrValidation)
	}

	refund, err := s.gateway.Refund(original.TransactionID, original.Amount)
	if err != nil {
		return nil, fmt.Errorf("payment gateway: %w", err)
	}
	if !refund.Approved {
		return nil, fmt.Errorf("%w: refund of transaction %s", ErrPaymentFailed, original.TransactionID)
	}

	row := models.ReservationPayment{
		ReservationID:    reservation.ID,
		Amount:           -original.Amount,
		Method:           original.Method,
		Status:           models.PaymentRefunded,
		TransactionID:    refund.TransactionID,
		RefundsPaymentID: &original.ID,
		GatewayPayload:   datatypes.JSON(refund.RawPayload),
	}
	if err := storage.DB.Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// ExpirePendingReservations sweeps pending holds past their TTL. Pending
// holds never claimed calendar days, so no release is needed.
func (s *BookingService) ExpirePendingReservations(companyID uint) (int64, error) {
	res := storage.DB.Model(&models.Reservation{}).
		Where("company_id = ? AND status = ? AND expires_at < ?",
			companyID, models.ReservationPending, time.Now()).
		Update("status", models.ReservationExpired)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		log.Printf("expired %d pending reservations for company %d", res.RowsAffected, companyID)
	}
	return res.RowsAffected, nil
}

// ListReservations returns the company's reservations, newest first,
// optionally filtered by room or status.
func (s *BookingService) ListReservations(companyID uint, roomID *uint, status string) ([]models.Reservation, error) {
	q := storage.DB.Where("company_id = ?", companyID)
	if roomID != nil {
		q = q.Where("room_id = ?", *roomID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var reservations []models.Reservation
	err := q.Preload("Room").Preload("Customer").Preload("Payments").
		Order("created_at DESC").Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

// GetReservation loads one reservation with its relations.
func (s *BookingService) GetReservation(companyID, reservationID uint) (*models.Reservation, error) {
	var reservation models.Reservation
	err := storage.DB.Where("company_id = ?", companyID).
		Preload("Room").Preload("Customer").Preload("Payments").
		First(&reservation, reservationID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: reservation %d", ErrNotFound, reservationID)
		}
		return nil, err
	}
	return &reservation, nil
}
