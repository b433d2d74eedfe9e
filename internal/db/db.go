package db

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/smallbiz/booking-core/internal/config"
	"github.com/smallbiz/booking-core/internal/models"
)

// constraints gorm tags cannot express
var hardening = []string{
	`DO $$ BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'services_duration_positive') THEN
			ALTER TABLE services ADD CONSTRAINT services_duration_positive CHECK (duration_min > 0);
		END IF;
	END $$`,
	`CREATE INDEX IF NOT EXISTS idx_appointments_active_slot
		ON appointments (service_id, appointment_date)
		WHERE cancelled_at IS NULL`,
}

func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	level := gormlogger.Warn
	if cfg.IsProduction() {
		level = gormlogger.Error
	}

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.Customer{},
		&models.Service{},
		&models.Product{},
		&models.Appointment{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.EmailLog{},
		&models.AuditLog{},
	); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	for _, stmt := range hardening {
		if err := db.Exec(stmt).Error; err != nil {
			log.Warn("schema hardening statement failed", zap.Error(err))
		}
	}

	return db, nil
}
