package services

import (
	"testing"

	"hotel-platform-server/models"
	"hotel-platform-server/storage"
	"hotel-platform-server/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockPeriodBlocksBooking(t *testing.T) {
	resetDB(t)
	company := seedCompany(t)
	room := seedRoom(t, company.ID, 100)

	blocks := NewBlockService()
	booking := NewBookingService(NewMockPaymentGateway())

	_, err := blocks.Create(company.ID, 1, BlockPeriodRequest{
		RoomID:    &room.ID,
		StartDate: day("2025-09-01"),
		EndDate:   day("2025-09-05"),
		Reason:    "renovation",
	})
	require.NoError(t, err)

	// Overlaps the block.
	_, err = booking.ProcessRoomReservation(company.ID, bookingRequest(room.ID, "2025-09-03", "2025-09-04"))
	assert.ErrorIs(t, err, ErrRoomNotAvailable)

	// Starts on the block's exclusive end date.
	_, err = booking.ProcessRoomReservation(company.ID, bookingRequest(room.ID, "2025-09-05", "2025-09-06"))
	assert.NoError(t, err)
}

func TestCompanyWideBlock(t *testing.T) {
	resetDB(t)
	company := seedCompany(t)
	room1 := seedRoom(t, company.ID, 100)
	room2 := seedRoom(t, company.ID, 120)

	blocks := NewBlockService()
	availability := NewAvailabilityService()

	// nil RoomID blocks every room.
	_, err := blocks.Create(company.ID, 1, BlockPeriodRequest{
		StartDate: day("2025-09-01"),
		EndDate:   day("2025-09-03"),
		Reason:    "deep clean",
	})
	require.NoError(t, err)

	for _, room := range []models.Room{room1, room2} {
		free, err := availability.CheckRoomAvailability(company.ID, room.ID, day("2025-09-01"), day("2025-09-02"))
		require.NoError(t, err)
		assert.False(t, free)
	}
}

func TestBlockOverLiveReservationConflicts(t *testing.T) {
	resetDB(t)
	company := seedCompany(t)
	room := seedRoom(t, company.ID, 100)

	booking := NewBookingService(NewMockPaymentGateway())
	blocks := NewBlockService()

	_, err := booking.ProcessRoomReservation(company.ID, bookingRequest(room.ID, "2025-08-05", "2025-08-08"))
	require.NoError(t, err)

	_, err = blocks.Create(company.ID, 1, BlockPeriodRequest{
		RoomID:    &room.ID,
		StartDate: day("2025-08-06"),
		EndDate:   day("2025-08-10"),
		Reason:    "renovation",
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestDeleteBlockReleasesDays(t *testing.T) {
	resetDB(t)
	company := seedCompany(t)
	room := seedRoom(t, company.ID, 100)

	blocks := NewBlockService()
	availability := NewAvailabilityService()

	block, err := blocks.Create(company.ID, 1, BlockPeriodRequest{
		RoomID:    &room.ID,
		StartDate: day("2025-09-01"),
		EndDate:   day("2025-09-05"),
		Reason:    "renovation",
	})
	require.NoError(t, err)

	free, err := availability.CheckRoomAvailability(company.ID, room.ID, day("2025-09-01"), day("2025-09-05"))
	require.NoError(t, err)
	require.False(t, free)

	require.NoError(t, blocks.Delete(company.ID, block.ID))

	free, err = availability.CheckRoomAvailability(company.ID, room.ID, day("2025-09-01"), day("2025-09-05"))
	require.NoError(t, err)
	assert.True(t, free)

	var claimed int64
	storage.DB.Model(&models.AvailabilityDay{}).
		Where("block_period_id = ?", block.ID).Count(&claimed)
	assert.Zero(t, claimed)
}

func TestUpdateBlockMovesClaimedDays(t *testing.T) {
	resetDB(t)
	company := seedCompany(t)
	room := seedRoom(t, company.ID, 100)

	blocks := NewBlockService()
	availability := NewAvailabilityService()

	block, err := blocks.Create(company.ID, 1, BlockPeriodRequest{
		RoomID:    &room.ID,
		StartDate: day("2025-09-01"),
		EndDate:   day("2025-09-03"),
		Reason:    "renovation",
	})
	require.NoError(t, err)

	_, err = blocks.Update(company.ID, block.ID, BlockPeriodRequest{
		RoomID:    &room.ID,
		StartDate: day("2025-09-10"),
		EndDate:   day("2025-09-12"),
		Reason:    "renovation moved",
	})
	require.NoError(t, err)

	free, err := availability.CheckRoomAvailability(company.ID, room.ID, day("2025-09-01"), day("2025-09-03"))
	require.NoError(t, err)
	assert.True(t, free)

	free, err = availability.CheckRoomAvailability(company.ID, room.ID, day("2025-09-10"), day("2025-09-12"))
	require.NoError(t, err)
	assert.False(t, free)
}

func TestListBlocksWindowFilter(t *testing.T) {
	resetDB(t)
	company := seedCompany(t)
	room := seedRoom(t, company.ID, 100)

	blocks := NewBlockService()
	_, err := blocks.Create(company.ID, 1, BlockPeriodRequest{
		RoomID: &room.ID, StartDate: day("2025-09-01"), EndDate: day("2025-09-05"), Reason: "a",
	})
	require.NoError(t, err)
	_, err = blocks.Create(company.ID, 1, BlockPeriodRequest{
		RoomID: &room.ID, StartDate: day("2025-11-01"), EndDate: day("2025-11-05"), Reason: "b",
	})
	require.NoError(t, err)

	window := utils.NewDateRange(day("2025-08-20"), day("2025-09-10"))
	got, err := blocks.List(company.ID, &room.ID, &window)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Reason)
}
