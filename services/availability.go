package services

import (
	"fmt"
	"time"

	"hotel-platform-server/models"
	"hotel-platform-server/storage"
	"hotel-platform-server/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AvailabilityService owns the per-room, per-day calendar. Missing rows mean
// "available, no overrides"; rows are created lazily by updates, bookings,
// blocks and sync.
type AvailabilityService struct{}

func NewAvailabilityService() *AvailabilityService {
	return &AvailabilityService{}
}

// GridCell is one room-day of the availability grid. Cells for days without
// a stored row are synthesized as available with no overrides.
type GridCell struct {
	Date           time.Time `json:"date"`
	RoomID         uint      `json:"roomID"`
	IsAvailable    bool      `json:"isAvailable"`
	HasReservation bool      `json:"hasReservation"`
	IsBlocked      bool      `json:"isBlocked"`
	CustomPrice    *float64  `json:"customPrice,omitempty"`
	MinNights      *int      `json:"minNights,omitempty"`
}

// lockForUpdate adds a row lock on dialects that support it. SQLite (used by
// the test harness) has no FOR UPDATE; its single-writer model serializes
// anyway.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

func (s *AvailabilityService) companyRooms(tx *gorm.DB, companyID uint, roomID *uint) ([]models.Room, error) {
	var rooms []models.Room
	q := tx.Where("company_id = ? AND is_active = ?", companyID, true)
	if roomID != nil {
		q = q.Where("id = ?", *roomID)
	}
	if err := q.Find(&rooms).Error; err != nil {
		return nil, err
	}
	if roomID != nil && len(rooms) == 0 {
		return nil, fmt.Errorf("%w: room %d", ErrNotFound, *roomID)
	}
	return rooms, nil
}

// GetGrid returns a cell for every room in scope and every date in
// [startDate, endDate] inclusive.
func (s *AvailabilityService) GetGrid(companyID uint, startDate, endDate time.Time, roomID *uint) ([]GridCell, error) {
	startDate = utils.NormalizeDate(startDate)
	endDate = utils.NormalizeDate(endDate)
	if startDate.After(endDate) {
		return nil, fmt.Errorf("%w: startDate must not be after endDate", ErrInvalidRange)
	}

	rooms, err := s.companyRooms(storage.DB, companyID, roomID)
	if err != nil {
		return nil, err
	}

	roomIDs := make([]uint, len(rooms))
	for i, r := range rooms {
		roomIDs[i] = r.ID
	}

	var days []models.AvailabilityDay
	if len(roomIDs) > 0 {
		err = storage.DB.
			Where("room_id IN ? AND date >= ? AND date <= ?", roomIDs, startDate, endDate).
			Find(&days).Error
		if err != nil {
			return nil, err
		}
	}

	type dayKey struct {
		roomID uint
		date   time.Time
	}
	byKey := make(map[dayKey]*models.AvailabilityDay, len(days))
	for i := range days {
		d := &days[i]
		byKey[dayKey{d.RoomID, utils.NormalizeDate(d.Date)}] = d
	}

	var cells []GridCell
	window := utils.DateRange{Start: startDate, End: endDate}
	for _, room := range rooms {
		room := room
		window.EachDayInclusive(func(day time.Time) {
			cell := GridCell{Date: day, RoomID: room.ID, IsAvailable: true}
			if d, ok := byKey[dayKey{room.ID, day}]; ok {
				cell.IsAvailable = d.IsAvailable
				cell.HasReservation = d.ReservationID != nil
				cell.IsBlocked = d.BlockPeriodID != nil
				cell.CustomPrice = d.CustomPrice
				cell.MinNights = d.MinNights
			}
			cells = append(cells, cell)
		})
	}
	return cells, nil
}

// CheckRoomAvailability reports whether every date in [checkIn, checkOut)
// is free of live reservations and blocks. Pending, cancelled and expired
// reservations never block a date.
func (s *AvailabilityService) CheckRoomAvailability(companyID, roomID uint, checkIn, checkOut time.Time) (bool, error) {
	return s.checkRoomAvailabilityTx(storage.DB, companyID, roomID, utils.NewDateRange(checkIn, checkOut))
}

func (s *AvailabilityService) checkRoomAvailabilityTx(tx *gorm.DB, companyID, roomID uint, rng utils.DateRange) (bool, error) {
	if !rng.IsValid() {
		return false, fmt.Errorf("%w: checkIn must be before checkOut", ErrInvalidRange)
	}
	if _, err := s.companyRooms(tx, companyID, &roomID); err != nil {
		return false, err
	}

	// Days claimed by a confirmed or checked-in reservation.
	var reserved int64
	err := tx.Model(&models.AvailabilityDay{}).
		Joins("JOIN reservations ON reservations.id = availability_days.reservation_id").
		Where("availability_days.room_id = ? AND availability_days.date >= ? AND availability_days.date < ?",
			roomID, rng.Start, rng.End).
		Where("reservations.status IN ?", models.ActiveReservationStatuses).
		Count(&reserved).Error
	if err != nil {
		return false, err
	}
	if reserved > 0 {
		return false, nil
	}

	// Days claimed by a block, or marked unavailable by an admin override.
	var unavailable int64
	err = tx.Model(&models.AvailabilityDay{}).
		Where("room_id = ? AND date >= ? AND date < ?", roomID, rng.Start, rng.End).
		Where("block_period_id IS NOT NULL OR is_available = ?", false).
		Count(&unavailable).Error
	if err != nil {
		return false, err
	}
	if unavailable > 0 {
		return false, nil
	}

	// Active block periods overlapping the range, room-scoped or company-wide.
	var blocks int64
	err = tx.Model(&models.BlockPeriod{}).
		Where("company_id = ? AND (room_id = ? OR room_id IS NULL)", companyID, roomID).
		Where("start_date < ? AND end_date > ?", rng.End, rng.Start).
		Count(&blocks).Error
	if err != nil {
		return false, err
	}
	return blocks == 0, nil
}

// UpdateRoomAvailability upserts a single day for an explicit admin
// override. A day carrying a live reservation or block cannot be overridden;
// the reservation has to be cancelled (or the block deleted) first.
func (s *AvailabilityService) UpdateRoomAvailability(companyID, roomID uint, date time.Time, isAvailable bool, customPrice *float64, minNights *int) (*models.AvailabilityDay, error) {
	date = utils.NormalizeDate(date)
	var updated *models.AvailabilityDay
	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		updated, err = s.upsertDayTx(tx, companyID, roomID, date, isAvailable, customPrice, minNights)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *AvailabilityService) upsertDayTx(tx *gorm.DB, companyID, roomID uint, date time.Time, isAvailable bool, customPrice *float64, minNights *int) (*models.AvailabilityDay, error) {
	if _, err := s.companyRooms(tx, companyID, &roomID); err != nil {
		return nil, err
	}

	var day models.AvailabilityDay
	res := lockForUpdate(tx).Where("room_id = ? AND date = ?", roomID, date).First(&day)
	if res.Error != nil && res.Error != gorm.ErrRecordNotFound {
		return nil, res.Error
	}

	if res.Error == nil {
		if day.ReservationID != nil {
			return nil, fmt.Errorf("%w: day %s carries a reservation", ErrConflict, date.Format(utils.DateFormat))
		}
		if day.BlockPeriodID != nil {
			return nil, fmt.Errorf("%w: day %s is blocked", ErrConflict, date.Format(utils.DateFormat))
		}
		day.IsAvailable = isAvailable
		day.CustomPrice = customPrice
		day.MinNights = minNights
		if err := tx.Save(&day).Error; err != nil {
			return nil, err
		}
		return &day, nil
	}

	day = models.AvailabilityDay{
		CompanyID:   companyID,
		RoomID:      roomID,
		Date:        date,
		IsAvailable: isAvailable,
		CustomPrice: customPrice,
		MinNights:   minNights,
	}
	if err := tx.Create(&day).Error; err != nil {
		return nil, err
	}
	return &day, nil
}

// BulkUpdateRequest applies the same override to every day of a date range
// (inclusive) across a set of rooms. An empty RoomIDs slice targets every
// active room of the company.
type BulkUpdateRequest struct {
	RoomIDs     []uint
	StartDate   time.Time
	EndDate     time.Time
	IsAvailable bool
	CustomPrice *float64
	MinNights   *int
}

// BulkUpdateAvailability is all-or-nothing: a single reserved or blocked day
// in the range rolls the whole batch back.
func (s *AvailabilityService) BulkUpdateAvailability(companyID uint, req BulkUpdateRequest) ([]models.AvailabilityDay, error) {
	start := utils.NormalizeDate(req.StartDate)
	end := utils.NormalizeDate(req.EndDate)
	if start.After(end) {
		return nil, fmt.Errorf("%w: startDate must not be after endDate", ErrInvalidRange)
	}

	var updated []models.AvailabilityDay
	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		rooms, err := s.companyRooms(tx, companyID, nil)
		if err != nil {
			return err
		}
		targets := rooms
		if len(req.RoomIDs) > 0 {
			byID := make(map[uint]models.Room, len(rooms))
			for _, r := range rooms {
				byID[r.ID] = r
			}
			targets = targets[:0]
			for _, id := range req.RoomIDs {
				room, ok := byID[id]
				if !ok {
					return fmt.Errorf("%w: room %d", ErrNotFound, id)
				}
				targets = append(targets, room)
			}
		}

		window := utils.DateRange{Start: start, End: end}
		for _, room := range targets {
			var dayErr error
			window.EachDayInclusive(func(day time.Time) {
				if dayErr != nil {
					return
				}
				d, err := s.upsertDayTx(tx, companyID, room.ID, day, req.IsAvailable, req.CustomPrice, req.MinNights)
				if err != nil {
					dayErr = err
					return
				}
				updated = append(updated, *d)
			})
			if dayErr != nil {
				return dayErr
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SyncResult summarizes what a reconciliation run changed. A second run over
// an already-consistent calendar reports all zeros.
type SyncResult struct {
	DaysReserved int `json:"daysReserved"`
	DaysBlocked  int `json:"daysBlocked"`
	DaysReleased int `json:"daysReleased"`
}

// SyncAvailabilityWithReservations re-derives the calendar from the
// reservation and block tables: every day under a confirmed/checked-in
// reservation gets its reservation ref, every day under a block (and not
// under a reservation) gets its block ref, and every stale claim is released
// back to available. Admin price/min-night overrides are preserved.
// Idempotent and safe to run alongside bookings.
func (s *AvailabilityService) SyncAvailabilityWithReservations(companyID uint) (*SyncResult, error) {
	result := &SyncResult{}
	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		type dayKey struct {
			roomID uint
			date   time.Time
		}
		wantReservation := map[dayKey]uint{}
		wantBlock := map[dayKey]uint{}

		var reservations []models.Reservation
		if err := tx.Where("company_id = ? AND status IN ?", companyID, models.ActiveReservationStatuses).
			Find(&reservations).Error; err != nil {
			return err
		}
		for _, r := range reservations {
			r := r
			utils.NewDateRange(r.CheckIn, r.CheckOut).EachDay(func(day time.Time) {
				wantReservation[dayKey{r.RoomID, day}] = r.ID
			})
		}

		rooms, err := s.companyRooms(tx, companyID, nil)
		if err != nil {
			return err
		}

		var blocks []models.BlockPeriod
		if err := tx.Where("company_id = ?", companyID).Find(&blocks).Error; err != nil {
			return err
		}
		for _, b := range blocks {
			b := b
			targets := rooms
			if b.RoomID != nil {
				targets = []models.Room{{Model: gorm.Model{ID: *b.RoomID}}}
			}
			utils.NewDateRange(b.StartDate, b.EndDate).EachDay(func(day time.Time) {
				for _, room := range targets {
					key := dayKey{room.ID, day}
					// Reservations take precedence over blocks on shared days.
					if _, reserved := wantReservation[key]; !reserved {
						wantBlock[key] = b.ID
					}
				}
			})
		}

		var existing []models.AvailabilityDay
		if err := lockForUpdate(tx).Where("company_id = ?", companyID).Find(&existing).Error; err != nil {
			return err
		}
		seen := map[dayKey]bool{}
		for i := range existing {
			d := &existing[i]
			key := dayKey{d.RoomID, utils.NormalizeDate(d.Date)}
			seen[key] = true

			resID, wantRes := wantReservation[key]
			blockID, wantBlk := wantBlock[key]

			switch {
			case wantRes:
				if d.ReservationID == nil || *d.ReservationID != resID || d.BlockPeriodID != nil || d.IsAvailable {
					d.ReservationID = &resID
					d.BlockPeriodID = nil
					d.IsAvailable = false
					if err := tx.Save(d).Error; err != nil {
						return err
					}
					result.DaysReserved++
				}
			case wantBlk:
				if d.BlockPeriodID == nil || *d.BlockPeriodID != blockID || d.ReservationID != nil || d.IsAvailable {
					d.BlockPeriodID = &blockID
					d.ReservationID = nil
					d.IsAvailable = false
					if err := tx.Save(d).Error; err != nil {
						return err
					}
					result.DaysBlocked++
				}
			default:
				if d.IsClaimed() {
					d.ReservationID = nil
					d.BlockPeriodID = nil
					d.IsAvailable = true
					if err := tx.Save(d).Error; err != nil {
						return err
					}
					result.DaysReleased++
				}
			}
		}

		// Claims without a stored row yet: create them.
		for key, resID := range wantReservation {
			if seen[key] {
				continue
			}
			resID := resID
			day := models.AvailabilityDay{
				CompanyID:     companyID,
				RoomID:        key.roomID,
				Date:          key.date,
				IsAvailable:   false,
				ReservationID: &resID,
			}
			if err := tx.Create(&day).Error; err != nil {
				return err
			}
			result.DaysReserved++
		}
		for key, blockID := range wantBlock {
			if seen[key] {
				continue
			}
			if _, reserved := wantReservation[key]; reserved {
				continue
			}
			blockID := blockID
			day := models.AvailabilityDay{
				CompanyID:     companyID,
				RoomID:        key.roomID,
				Date:          key.date,
				IsAvailable:   false,
				BlockPeriodID: &blockID,
			}
			if err := tx.Create(&day).Error; err != nil {
				return err
			}
			result.DaysBlocked++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// claimRangeTx stamps every day in [checkIn, checkOut) with the reservation
// ref. Called inside the booking transaction, after availability has been
// re-checked under the same lock.
func (s *AvailabilityService) claimRangeTx(tx *gorm.DB, companyID, roomID, reservationID uint, rng utils.DateRange) error {
	var claimErr error
	rng.EachDay(func(day time.Time) {
		if claimErr != nil {
			return
		}
		var d models.AvailabilityDay
		res := lockForUpdate(tx).Where("room_id = ? AND date = ?", roomID, day).First(&d)
		switch {
		case res.Error == gorm.ErrRecordNotFound:
			d = models.AvailabilityDay{
				CompanyID:     companyID,
				RoomID:        roomID,
				Date:          day,
				IsAvailable:   false,
				ReservationID: &reservationID,
			}
			claimErr = tx.Create(&d).Error
		case res.Error != nil:
			claimErr = res.Error
		default:
			if d.ReservationID != nil && *d.ReservationID != reservationID {
				claimErr = fmt.Errorf("%w: day %s already reserved", ErrRoomNotAvailable, day.Format(utils.DateFormat))
				return
			}
			if d.BlockPeriodID != nil {
				claimErr = fmt.Errorf("%w: day %s is blocked", ErrRoomNotAvailable, day.Format(utils.DateFormat))
				return
			}
			d.ReservationID = &reservationID
			d.IsAvailable = false
			claimErr = tx.Save(&d).Error
		}
	})
	return claimErr
}

// releaseReservationDaysTx recomputes each day the reservation claimed
// instead of blindly clearing it: another live reservation or block covering
// the day keeps it claimed.
func (s *AvailabilityService) releaseReservationDaysTx(tx *gorm.DB, reservation *models.Reservation) error {
	var days []models.AvailabilityDay
	err := lockForUpdate(tx).
		Where("room_id = ? AND reservation_id = ?", reservation.RoomID, reservation.ID).
		Find(&days).Error
	if err != nil {
		return err
	}

	for i := range days {
		d := &days[i]
		day := utils.NormalizeDate(d.Date)

		// Another live reservation covering this day takes over the claim.
		var other models.Reservation
		res := tx.Where("room_id = ? AND id <> ? AND status IN ? AND check_in <= ? AND check_out > ?",
			reservation.RoomID, reservation.ID, models.ActiveReservationStatuses, day, day).
			First(&other)
		if res.Error == nil {
			d.ReservationID = &other.ID
			d.IsAvailable = false
			if err := tx.Save(d).Error; err != nil {
				return err
			}
			continue
		}
		if res.Error != gorm.ErrRecordNotFound {
			return res.Error
		}

		// A block covering this day keeps it unavailable.
		var block models.BlockPeriod
		res = tx.Where("company_id = ? AND (room_id = ? OR room_id IS NULL) AND start_date <= ? AND end_date > ?",
			reservation.CompanyID, reservation.RoomID, day, day).
			First(&block)
		if res.Error == nil {
			d.ReservationID = nil
			d.BlockPeriodID = &block.ID
			d.IsAvailable = false
			if err := tx.Save(d).Error; err != nil {
				return err
			}
			continue
		}
		if res.Error != gorm.ErrRecordNotFound {
			return res.Error
		}

		d.ReservationID = nil
		d.BlockPeriodID = nil
		d.IsAvailable = true
		if err := tx.Save(d).Error; err != nil {
			return err
		}
	}
	return nil
}
