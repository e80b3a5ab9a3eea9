package db

import (
	"log"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/config"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.BusinessConfig{},
		&models.User{},
		&models.Service{},
		&models.AvailabilityRule{},
		&models.BlackoutWindow{},
		&models.Client{},
		&models.Booking{},
		&models.Deposit{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	// Invariante central de concorrência: no máximo um booking ocupando
	// (barbeiro, data, horário). O check de ocupação nos use cases é só
	// pré-filtro de UX; este índice é a garantia real.
	db.Exec(`
        CREATE UNIQUE INDEX IF NOT EXISTS uniq_bookings_occupied_slot
        ON bookings (barber_id, date, start_time)
        WHERE status IN ('pending', 'reserved')
    `)

	// No máximo uma regra de horário ativa por (escopo, weekday).
	db.Exec(`
        CREATE UNIQUE INDEX IF NOT EXISTS uniq_availability_rules_scope_weekday
        ON availability_rules (COALESCE(barber_id, 0), weekday)
        WHERE active
    `)

	return db
}
