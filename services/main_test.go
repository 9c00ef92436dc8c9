package services

import (
	"log"
	"os"
	"testing"
	"time"

	"hotel-platform-server/models"
	"hotel-platform-server/storage"
	"hotel-platform-server/utils"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("open test database: %v", err)
	}
	storage.DB = db
	storage.PerformMigrations(db)
	os.Exit(m.Run())
}

// resetDB wipes every table between tests. Order matters only for
// readability; sqlite does not enforce the foreign keys here.
func resetDB(t *testing.T) {
	t.Helper()
	tables := []interface{}{
		&models.AvailabilityDay{}, &models.ReservationPayment{}, &models.Reservation{},
		&models.BlockPeriod{}, &models.AvailabilityRule{}, &models.Notification{},
		&models.AuditLog{}, &models.Customer{}, &models.Room{}, &models.User{}, &models.Company{},
	}
	for _, table := range tables {
		if err := storage.DB.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Unscoped().Delete(table).Error; err != nil {
			t.Fatalf("reset: %v", err)
		}
	}
}

func seedCompany(t *testing.T) models.Company {
	t.Helper()
	company := models.Company{Name: "Harbor Hotel"}
	if err := storage.DB.Create(&company).Error; err != nil {
		t.Fatalf("seed company: %v", err)
	}
	return company
}

func seedRoom(t *testing.T, companyID uint, basePrice float64) models.Room {
	t.Helper()
	room := models.Room{
		CompanyID:    companyID,
		Name:         "Room 101",
		BasePrice:    basePrice,
		MaxOccupancy: 2,
		IsActive:     true,
	}
	if err := storage.DB.Create(&room).Error; err != nil {
		t.Fatalf("seed room: %v", err)
	}
	return room
}

func day(s string) time.Time {
	t, err := time.Parse(utils.DateFormat, s)
	if err != nil {
		panic(err)
	}
	return t
}

func bookingRequest(roomID uint, checkIn, checkOut string) BookingRequest {
	return BookingRequest{
		RoomID:        roomID,
		CheckIn:       day(checkIn),
		CheckOut:      day(checkOut),
		NumGuests:     2,
		PaymentMethod: "card",
		Email:         "guest@example.com",
		FirstName:     "Ana",
		LastName:      "Guest",
	}
}

// decliningGateway rejects every charge, for rollback tests.
type decliningGateway struct{}

func (decliningGateway) Charge(req ChargeRequest) (*ChargeResult, error) {
	return &ChargeResult{TransactionID: "declined_tx", Approved: false}, nil
}

func (decliningGateway) Refund(transactionID string, amount float64) (*ChargeResult, error) {
	return &ChargeResult{TransactionID: "declined_tx", Approved: false}, nil
}
