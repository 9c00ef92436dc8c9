package services

import (
	"fmt"
	"time"

	"hotel-platform-server/models"
	"hotel-platform-server/storage"
	"hotel-platform-server/utils"

	"gorm.io/gorm"
)

// BlockService manages maintenance/hold periods. Creating or moving a block
// stamps the covered calendar days; deleting one releases them, except days
// a reservation also claims (reservations always win).
type BlockService struct {
	availability *AvailabilityService
}

func NewBlockService() *BlockService {
	return &BlockService{availability: NewAvailabilityService()}
}

type BlockPeriodRequest struct {
	RoomID    *uint
	StartDate time.Time
	EndDate   time.Time
	Reason    string
}

// Create validates the [start, end) range, rejects ranges that collide with
// live reservations and stamps every covered day.
func (s *BlockService) Create(companyID, userID uint, req BlockPeriodRequest) (*models.BlockPeriod, error) {
	rng := utils.NewDateRange(req.StartDate, req.EndDate)
	if !rng.IsValid() {
		return nil, fmt.Errorf("%w: startDate must be before endDate", ErrInvalidRange)
	}

	block := models.BlockPeriod{
		CompanyID:       companyID,
		RoomID:          req.RoomID,
		StartDate:       rng.Start,
		EndDate:         rng.End,
		Reason:          req.Reason,
		CreatedByUserID: userID,
	}
	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&block).Error; err != nil {
			return err
		}
		return s.applyBlockDaysTx(tx, &block, rng)
	})
	if err != nil {
		return nil, err
	}
	return &block, nil
}

// Update moves or re-scopes a block: old day claims are released first, then
// the new range is applied under the same conflict rules as Create.
func (s *BlockService) Update(companyID, blockID uint, req BlockPeriodRequest) (*models.BlockPeriod, error) {
	rng := utils.NewDateRange(req.StartDate, req.EndDate)
	if !rng.IsValid() {
		return nil, fmt.Errorf("%w: startDate must be before endDate", ErrInvalidRange)
	}

	var block models.BlockPeriod
	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("company_id = ?", companyID).First(&block, blockID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("%w: block period %d", ErrNotFound, blockID)
			}
			return err
		}
		if err := s.releaseBlockDaysTx(tx, block.ID); err != nil {
			return err
		}
		block.RoomID = req.RoomID
		block.StartDate = rng.Start
		block.EndDate = rng.End
		block.Reason = req.Reason
		if err := tx.Save(&block).Error; err != nil {
			return err
		}
		return s.applyBlockDaysTx(tx, &block, rng)
	})
	if err != nil {
		return nil, err
	}
	return &block, nil
}

// Delete removes a block and resets its days to available. Days claimed by a
// reservation are never touched.
func (s *BlockService) Delete(companyID, blockID uint) error {
	return storage.DB.Transaction(func(tx *gorm.DB) error {
		var block models.BlockPeriod
		if err := tx.Where("company_id = ?", companyID).First(&block, blockID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("%w: block period %d", ErrNotFound, blockID)
			}
			return err
		}
		if err := s.releaseBlockDaysTx(tx, block.ID); err != nil {
			return err
		}
		return tx.Delete(&block).Error
	})
}

// List returns the company's blocks, optionally only those overlapping the
// given window or scoped to one room.
func (s *BlockService) List(companyID uint, roomID *uint, window *utils.DateRange) ([]models.BlockPeriod, error) {
	q := storage.DB.Where("company_id = ?", companyID)
	if roomID != nil {
		q = q.Where("room_id = ? OR room_id IS NULL", *roomID)
	}
	if window != nil {
		q = q.Where("start_date < ? AND end_date > ?", window.End, window.Start)
	}
	var blocks []models.BlockPeriod
	if err := q.Order("start_date ASC").Find(&blocks).Error; err != nil {
		return nil, err
	}
	return blocks, nil
}

func (s *BlockService) applyBlockDaysTx(tx *gorm.DB, block *models.BlockPeriod, rng utils.DateRange) error {
	rooms, err := s.availability.companyRooms(tx, block.CompanyID, block.RoomID)
	if err != nil {
		return err
	}

	for _, room := range rooms {
		// A block cannot cover days a live reservation claims.
		var reserved int64
		err := tx.Model(&models.Reservation{}).
			Where("room_id = ? AND status IN ? AND check_in < ? AND check_out > ?",
				room.ID, models.ActiveReservationStatuses, rng.End, rng.Start).
			Count(&reserved).Error
		if err != nil {
			return err
		}
		if reserved > 0 {
			return fmt.Errorf("%w: room %d has reservations inside the block range", ErrConflict, room.ID)
		}

		var dayErr error
		rng.EachDay(func(day time.Time) {
			if dayErr != nil {
				return
			}
			var d models.AvailabilityDay
			res := lockForUpdate(tx).Where("room_id = ? AND date = ?", room.ID, day).First(&d)
			switch {
			case res.Error == gorm.ErrRecordNotFound:
				d = models.AvailabilityDay{
					CompanyID:     block.CompanyID,
					RoomID:        room.ID,
					Date:          day,
					IsAvailable:   false,
					BlockPeriodID: &block.ID,
				}
				dayErr = tx.Create(&d).Error
			case res.Error != nil:
				dayErr = res.Error
			default:
				if d.ReservationID != nil {
					dayErr = fmt.Errorf("%w: day %s carries a reservation", ErrConflict, day.Format(utils.DateFormat))
					return
				}
				d.BlockPeriodID = &block.ID
				d.IsAvailable = false
				dayErr = tx.Save(&d).Error
			}
		})
		if dayErr != nil {
			return dayErr
		}
	}
	return nil
}

func (s *BlockService) releaseBlockDaysTx(tx *gorm.DB, blockID uint) error {
	return tx.Model(&models.AvailabilityDay{}).
		Where("block_period_id = ? AND reservation_id IS NULL", blockID).
		Updates(map[string]interface{}{
			"block_period_id": nil,
			"is_available":    true,
		}).Error
}
