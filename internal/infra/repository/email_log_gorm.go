package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/smallbiz/booking-core/internal/models"
	"github.com/smallbiz/booking-core/internal/notifications"
)

type EmailLogGormRepository struct {
	db *gorm.DB
}

func NewEmailLogGormRepository(db *gorm.DB) *EmailLogGormRepository {
	return &EmailLogGormRepository{db: db}
}

func (r *EmailLogGormRepository) CreateEmailLog(ctx context.Context, entry *models.EmailLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

var _ notifications.EmailLogStore = (*EmailLogGormRepository)(nil)
