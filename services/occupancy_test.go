package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOccupancyStats(t *testing.T) {
	resetDB(t)
	company := seedCompany(t)
	room1 := seedRoom(t, company.ID, 100)
	room2 := seedRoom(t, company.ID, 120)

	booking := NewBookingService(NewMockPaymentGateway())
	blocks := NewBlockService()

	// room1 booked Aug 5..8 (3 nights), room2 blocked Aug 6..7 (1 night).
	_, err := booking.ProcessRoomReservation(company.ID, bookingRequest(room1.ID, "2025-08-05", "2025-08-08"))
	require.NoError(t, err)
	_, err = blocks.Create(company.ID, 1, BlockPeriodRequest{
		RoomID:    &room2.ID,
		StartDate: day("2025-08-06"),
		EndDate:   day("2025-08-07"),
		Reason:    "maintenance",
	})
	require.NoError(t, err)

	occupancy := NewOccupancyService()
	stats, err := occupancy.GetOccupancyStats(company.ID, day("2025-08-05"), day("2025-08-08"))
	require.NoError(t, err)

	require.Len(t, stats.Days, 4)
	assert.Equal(t, 8, stats.TotalRoomNights) // 2 rooms * 4 days
	assert.Equal(t, 3, stats.BookedNights)
	assert.Equal(t, 1, stats.BlockedNights)
	assert.InDelta(t, 37.5, stats.OccupancyPct, 0.01)

	// Aug 6: room1 booked, room2 blocked.
	aug6 := stats.Days[1]
	assert.Equal(t, 1, aug6.Booked)
	assert.Equal(t, 1, aug6.Blocked)
	assert.Equal(t, 0, aug6.Available)
	assert.InDelta(t, 50.0, aug6.OccupancyPct, 0.01)

	// Aug 8 is the checkout day: nothing claims it.
	aug8 := stats.Days[3]
	assert.Equal(t, 0, aug8.Booked)
	assert.Equal(t, 2, aug8.Available)
}

func TestOccupancyIgnoresCancelledReservations(t *testing.T) {
	resetDB(t)
	company := seedCompany(t)
	room := seedRoom(t, company.ID, 100)

	booking := NewBookingService(NewMockPaymentGateway())
	reservation, err := booking.ProcessRoomReservation(company.ID, bookingRequest(room.ID, "2025-08-05", "2025-08-08"))
	require.NoError(t, err)
	_, err = booking.Cancel(company.ID, reservation.ID, "plans changed")
	require.NoError(t, err)

	occupancy := NewOccupancyService()
	stats, err := occupancy.GetOccupancyStats(company.ID, day("2025-08-05"), day("2025-08-08"))
	require.NoError(t, err)
	assert.Zero(t, stats.BookedNights)
	assert.Zero(t, stats.OccupancyPct)
}

func TestOccupancyInvalidWindow(t *testing.T) {
	resetDB(t)
	company := seedCompany(t)

	occupancy := NewOccupancyService()
	_, err := occupancy.GetOccupancyStats(company.ID, day("2025-08-08"), day("2025-08-05"))
	assert.ErrorIs(t, err, ErrInvalidRange)
}
