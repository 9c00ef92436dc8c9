package storage

import (
	"log"
	"os"

	"hotel-platform-server/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func connectToDB() *gorm.DB {
	// Only load .env in development (when RENDER env var is not set)
	if os.Getenv("RENDER") == "" {
		err := godotenv.Load()
		if err != nil {
			log.Println("Warning: Could not load .env file (this is normal in production)")
		}
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Panic("DB_CONNECTION_STRING environment variable is required")
	}

	db, dbError := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if dbError != nil {
		log.Panic("error connection to db: " + dbError.Error())
	}

	DB = db
	return db
}

// PerformMigrations creates or updates the schema. Exported so the test
// harness can run the same migrations against its own database handle.
func PerformMigrations(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.Company{},
		&models.User{},
		&models.Room{},
		&models.Customer{},
		&models.Reservation{},
		&models.ReservationPayment{},
		&models.BlockPeriod{},
		&models.AvailabilityRule{},
		&models.AvailabilityDay{},
		&models.Notification{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Panic("migration failed: " + err.Error())
	}
}

func InitializeDB() *gorm.DB {
	db := connectToDB()
	PerformMigrations(db)
	return db
}
