package database

import (
	"log"

	"github.com/fleetops/vehicle-booking/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Vehicle{}, &models.Booking{}); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}

	// Conflict scans always filter on vehicle + status.
	db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_vehicle_status
		ON bookings (vehicle_id, status)
	`)

	return db
}
