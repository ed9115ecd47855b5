package db

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/NovaClinicas/clinic-scheduler/internal/config"
	"github.com/NovaClinicas/clinic-scheduler/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
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
		&models.User{},
		&models.Service{},
		&models.DoctorService{},
		&models.DoctorSchedule{},
		&models.Appointment{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	// Partial indexes AutoMigrate cannot express. The slot index is the
	// last line of defense against double booking: only blocking states
	// participate, so cancelled or expired rows never collide.
	db.Exec(`
        CREATE UNIQUE INDEX IF NOT EXISTS ux_appointments_doctor_slot
        ON appointments (doctor_id, start_at)
        WHERE status IN ('pending_confirm', 'confirmed')
    `)

	db.Exec(`
        CREATE UNIQUE INDEX IF NOT EXISTS ux_appointments_idempotency_key
        ON appointments (idempotency_key)
        WHERE idempotency_key IS NOT NULL
    `)

	return db
}
