package services

import (
	"testing"

	"hotel-platform-server/models"
	"hotel-platform-server/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckRoomAvailabilityAroundBooking(t *testing.T) {
	resetDB(t)
	company := seedCompany(t)
	room := seedRoom(t, company.ID, 100)

	booking := NewBookingService(NewMockPaymentGateway())
	availability := NewAvailabilityService()

	_, err := booking.ProcessRoomReservation(company.ID, bookingRequest(room.ID, "2025-08-05", "2025-08-08"))
	require.NoError(t, err)

	// Overlapping window inside the stay.
	free, err := availability.CheckRoomAvailability(company.ID, room.ID, day("2025-08-06"), day("2025-08-07"))
	require.NoError(t, err)
	assert.False(t, free)

	// Checkout day is exclusive, so a stay starting on it is fine.
	free, err = availability.CheckRoomAvailability(company.ID, room.ID, day("2025-08-08"), day("2025-08-10"))
	require.NoError(t, err)
	assert.True(t, free)

	// Stay ending on the check-in day is fine too.
	free, err = availability.CheckRoomAvailability(company.ID, room.ID, day("2025-08-03"), day("2025-08-05"))
	require.NoError(t, err)
	assert.True(t, free)
}

func TestCheckRoomAvailabilityZeroNights(t *testing.T) {
	resetDB(t)
	company := seedCompany(t)
	room := seedRoom(t, company.ID, 100)

	availability := NewAvailabilityService()
	_, err := availability.CheckRoomAvailability(company.ID, room.ID, day("2025-08-05"), day("2025-08-05"))
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = availability.CheckRoomAvailability(company.ID, room.ID, day("2025-08-08"), day("2025-08-05"))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestPendingReservationDoesNotBlock(t *testing.T) {
	resetDB(t)
	company := seedCompany(t)
	room := seedRoom(t, company.ID, 100)

	customer := models.Customer{CompanyID: company.ID, Email: "hold@example.com"}
	require.NoError(t, storage.DB.Create(&customer).Error)
	pending := models.Reservation{
		CompanyID:  company.ID,
		RoomID:     room.ID,
		CustomerID: customer.ID,
		CheckIn:    day("2025-08-05"),
		CheckOut:   day("2025-08-08"),
		Nights:     3,
		Status:     models.ReservationPending,
	}
	require.NoError(t, storage.DB.Create(&pending).Error)

	availability := NewAvailabilityService()
	free, err := availability.CheckRoomAvailability(company.ID, room.ID, day("2025-08-05"), day("2025-08-08"))
	require.NoError(t, err)
	assert.True(t, free)
}

func TestUpdateRoomAvailabilityOverride(t *testing.T) {
	resetDB(t)
	company := seedCompany(t)
	room := seedRoom(t, company.ID, 100)

	availability := NewAvailabilityService()

	price := 150.0
	minNights := 2
	updated, err := availability.UpdateRoomAvailability(company.ID, room.ID, day("2025-09-01"), true, &price, &minNights)
	require.NoError(t, err)
	require.NotNil(t, updated.CustomPrice)
	assert.Equal(t, 150.0, *updated.CustomPrice)

	// Closing a day blocks bookings across it.
	_, err = availability.UpdateRoomAvailability(company.ID, room.ID, day("2025-09-02"), false, nil, nil)
	require.NoError(t, err)

	free, err := availability.CheckRoomAvailability(company.ID, room.ID, day("2025-09-01"), day("2025-09-03"))
	require.NoError(t, err)
	assert.False(t, free)
}

func TestUpdateRoomAvailabilityConflictsWithClaims(t *testing.T) {
	resetDB(t)
	company := seedCompany(t)
	room := seedRoom(t, company.ID, 100)

	booking := NewBookingService(NewMockPaymentGateway())
	availability := NewAvailabilityService()

	_, err := booking.ProcessRoomReservation(company.ID, bookingRequest(room.ID, "2025-08-05", "2025-08-08"))
	require.NoError(t, err)

	_, err = availability.UpdateRoomAvailability(company.ID, room.ID, day("2025-08-06"), true, nil, nil)
	assert.ErrorIs(t, err, ErrConflict)

	blocks := NewBlockService()
	_, err = blocks.Create(company.ID, 1, BlockPeriodRequest{
		RoomID:    &room.ID,
		StartDate: day("2025-09-01"),
		EndDate:   day("2025-09-05"),
		Reason:    "maintenance",
	})
	require.NoError(t, err)

	_, err = availability.UpdateRoomAvailability(company.ID, room.ID, day("2025-09-02"), true, nil, nil)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestBulkUpdateAllOrNothing(t *testing.T) {
	resetDB(t)
	company := seedCompany(t)
	room := seedRoom(t, company.ID, 100)

	booking := NewBookingService(NewMockPaymentGateway())
	availability := NewAvailabilityService()

	_, err := booking.ProcessRoomReservation(company.ID, bookingRequest(room.ID, "2025-08-05", "2025-08-08"))
	require.NoError(t, err)

	// The range crosses a reserved day, so nothing may change.
	price := 80.0
	_, err = availability.BulkUpdateAvailability(company.ID, BulkUpdateRequest{
		RoomIDs:     []uint{room.ID},
		StartDate:   day("2025-08-01"),
		EndDate:     day("2025-08-10"),
		IsAvailable: true,
		CustomPrice: &price,
	})
	assert.ErrorIs(t, err, ErrConflict)

	var withPrice int64
	storage.DB.Model(&models.AvailabilityDay{}).
		Where("room_id = ? AND custom_price IS NOT NULL", room.ID).Count(&withPrice)
	assert.Zero(t, withPrice)

	// A clean range applies everywhere.
	days, err := availability.BulkUpdateAvailability(company.ID, BulkUpdateRequest{
		RoomIDs:     []uint{room.ID},
		StartDate:   day("2025-09-01"),
		EndDate:     day("2025-09-03"),
		IsAvailable: true,
		CustomPrice: &price,
	})
	require.NoError(t, err)
	assert.Len(t, days, 3)

	// The grid reflects exactly the applied overrides.
	cells, err := availability.GetGrid(company.ID, day("2025-09-01"), day("2025-09-03"), &room.ID)
	require.NoError(t, err)
	require.Len(t, cells, 3)
	for _, cell := range cells {
		require.NotNil(t, cell.CustomPrice)
		assert.Equal(t, 80.0, *cell.CustomPrice)
		assert.True(t, cell.IsAvailable)
	}
}

func TestGetGridSynthesizesMissingDays(t *testing.T) {
	resetDB(t)
	company := seedCompany(t)
	room := seedRoom(t, company.ID, 100)

	availability := NewAvailabilityService()

	price := 120.0
	_, err := availability.UpdateRoomAvailability(company.ID, room.ID, day("2025-10-02"), true, &price, nil)
	require.NoError(t, err)

	cells, err := availability.GetGrid(company.ID, day("2025-10-01"), day("2025-10-03"), &room.ID)
	require.NoError(t, err)
	require.Len(t, cells, 3)

	assert.True(t, cells[0].IsAvailable)
	assert.Nil(t, cells[0].CustomPrice)
	require.NotNil(t, cells[1].CustomPrice)
	assert.Equal(t, 120.0, *cells[1].CustomPrice)
	assert.True(t, cells[2].IsAvailable)
}

func TestSyncAvailabilityIdempotent(t *testing.T) {
	resetDB(t)
	company := seedCompany(t)
	room := seedRoom(t, company.ID, 100)

	booking := NewBookingService(NewMockPaymentGateway())
	availability := NewAvailabilityService()
	blocks := NewBlockService()

	reservation, err := booking.ProcessRoomReservation(company.ID, bookingRequest(room.ID, "2025-08-05", "2025-08-08"))
	require.NoError(t, err)
	_, err = blocks.Create(company.ID, 1, BlockPeriodRequest{
		RoomID:    &room.ID,
		StartDate: day("2025-09-01"),
		EndDate:   day("2025-09-03"),
		Reason:    "painting",
	})
	require.NoError(t, err)

	// Corrupt the calendar: drop the claim rows entirely.
	require.NoError(t, storage.DB.Where("room_id = ?", room.ID).
		Unscoped().Delete(&models.AvailabilityDay{}).Error)

	result, err := availability.SyncAvailabilityWithReservations(company.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, result.DaysReserved)
	assert.Equal(t, 2, result.DaysBlocked)
	assert.Zero(t, result.DaysReleased)

	// Second run over a consistent calendar changes nothing.
	result, err = availability.SyncAvailabilityWithReservations(company.ID)
	require.NoError(t, err)
	assert.Zero(t, result.DaysReserved)
	assert.Zero(t, result.DaysBlocked)
	assert.Zero(t, result.DaysReleased)

	// Cancelling and re-syncing releases the reservation's days.
	_, err = booking.Cancel(company.ID, reservation.ID, "guest request")
	require.NoError(t, err)
	result, err = availability.SyncAvailabilityWithReservations(company.ID)
	require.NoError(t, err)
	assert.Zero(t, result.DaysReleased) // cancel already released them
}

func TestSyncReservationTakesPrecedenceOverBlock(t *testing.T) {
	resetDB(t)
	company := seedCompany(t)
	room := seedRoom(t, company.ID, 100)

	booking := NewBookingService(NewMockPaymentGateway())
	availability := NewAvailabilityService()

	_, err := booking.ProcessRoomReservation(company.ID, bookingRequest(room.ID, "2025-08-05", "2025-08-08"))
	require.NoError(t, err)

	// A block inserted out of band over the same days must not steal them.
	block := models.BlockPeriod{
		CompanyID: company.ID,
		RoomID:    &room.ID,
		StartDate: day("2025-08-04"),
		EndDate:   day("2025-08-09"),
		Reason:    "backfilled import",
	}
	require.NoError(t, storage.DB.Create(&block).Error)

	_, err = availability.SyncAvailabilityWithReservations(company.ID)
	require.NoError(t, err)

	var days []models.AvailabilityDay
	require.NoError(t, storage.DB.Where("room_id = ? AND date >= ? AND date < ?",
		room.ID, day("2025-08-05"), day("2025-08-08")).Find(&days).Error)
	require.Len(t, days, 3)
	for _, d := range days {
		assert.NotNil(t, d.ReservationID)
		assert.Nil(t, d.BlockPeriodID)
	}
}
