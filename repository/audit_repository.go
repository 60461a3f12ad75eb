package repository

import (
	"context"

	"storefront-service/models"

	"gorm.io/gorm"
)

type AuditRepository interface {
	Append(ctx context.Context, line *models.AuditLine) error
	ReadAll(ctx context.Context) ([]models.AuditLine, error)
}

type gormAuditRepo struct {
	db *gorm.DB
}

func NewGormAuditRepo(db *gorm.DB) AuditRepository {
	return &gormAuditRepo{db: db}
}

func (r *gormAuditRepo) Append(ctx context.Context, line *models.AuditLine) error {
	return r.db.WithContext(ctx).Create(line).Error
}

// ReadAll returns every audit line in insertion order.
func (r *gormAuditRepo) ReadAll(ctx context.Context) ([]models.AuditLine, error) {
	var lines []models.AuditLine
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}
