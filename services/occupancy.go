package services

import (
	"fmt"
	"time"

	"hotel-platform-server/models"
	"hotel-platform-server/storage"
	"hotel-platform-server/utils"
)

// OccupancyService aggregates room-night usage over a date window. Pure
// read; it never mutates the calendar.
type OccupancyService struct {
	availability *AvailabilityService
}

func NewOccupancyService() *OccupancyService {
	return &OccupancyService{availability: NewAvailabilityService()}
}

type DayOccupancy struct {
	Date         time.Time `json:"date"`
	TotalRooms   int       `json:"totalRooms"`
	Booked       int       `json:"booked"`
	Blocked      int       `json:"blocked"`
	Available    int       `json:"available"`
	OccupancyPct float64   `json:"occupancyPct"`
}

type OccupancyStats struct {
	StartDate       time.Time      `json:"startDate"`
	EndDate         time.Time      `json:"endDate"`
	Days            []DayOccupancy `json:"days"`
	TotalRoomNights int            `json:"totalRoomNights"`
	BookedNights    int            `json:"bookedNights"`
	BlockedNights   int            `json:"blockedNights"`
	OccupancyPct    float64        `json:"occupancyPct"`
}

// GetOccupancyStats reports, for each day in [startDate, endDate] inclusive,
// how many room-nights were booked, blocked and free, plus the overall
// occupancy percentage for the window.
func (s *OccupancyService) GetOccupancyStats(companyID uint, startDate, endDate time.Time) (*OccupancyStats, error) {
	startDate = utils.NormalizeDate(startDate)
	endDate = utils.NormalizeDate(endDate)
	if startDate.After(endDate) {
		return nil, fmt.Errorf("%w: startDate must not be after endDate", ErrInvalidRange)
	}

	rooms, err := s.availability.companyRooms(storage.DB, companyID, nil)
	if err != nil {
		return nil, err
	}

	var days []models.AvailabilityDay
	err = storage.DB.
		Joins("LEFT JOIN reservations ON reservations.id = availability_days.reservation_id").
		Where("availability_days.company_id = ? AND availability_days.date >= ? AND availability_days.date <= ?",
			companyID, startDate, endDate).
		Where("availability_days.reservation_id IS NULL OR reservations.status IN ?", models.ActiveReservationStatuses).
		Find(&days).Error
	if err != nil {
		return nil, err
	}

	bookedByDate := map[time.Time]int{}
	blockedByDate := map[time.Time]int{}
	for _, d := range days {
		date := utils.NormalizeDate(d.Date)
		if d.ReservationID != nil {
			bookedByDate[date]++
		} else if d.BlockPeriodID != nil {
			blockedByDate[date]++
		}
	}

	stats := &OccupancyStats{StartDate: startDate, EndDate: endDate}
	window := utils.DateRange{Start: startDate, End: endDate}
	window.EachDayInclusive(func(day time.Time) {
		booked := bookedByDate[day]
		blocked := blockedByDate[day]
		entry := DayOccupancy{
			Date:       day,
			TotalRooms: len(rooms),
			Booked:     booked,
			Blocked:    blocked,
			Available:  len(rooms) - booked - blocked,
		}
		if entry.TotalRooms > 0 {
			entry.OccupancyPct = float64(booked) / float64(entry.TotalRooms) * 100
		}
		stats.Days = append(stats.Days, entry)
		stats.TotalRoomNights += entry.TotalRooms
		stats.BookedNights += booked
		stats.BlockedNights += blocked
	})
	if stats.TotalRoomNights > 0 {
		stats.OccupancyPct = float64(stats.BookedNights) / float64(stats.TotalRoomNights) * 100
	}
	return stats, nil
}
