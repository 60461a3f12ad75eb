package repository

import (
	"context"
	"errors"

	"storefront-service/apperrors"
	"storefront-service/models"

	"gorm.io/gorm"
)

type CatalogRepository interface {
	ListActive(ctx context.Context) ([]models.CatalogItem, error)
	FindByID(ctx context.Context, id string) (*models.CatalogItem, error)
}

type gormCatalogRepo struct {
	db *gorm.DB
}

func NewGormCatalogRepo(db *gorm.DB) CatalogRepository {
	return &gormCatalogRepo{db: db}
}

func (r *gormCatalogRepo) ListActive(ctx context.Context) ([]models.CatalogItem, error) {
	var items []models.CatalogItem
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *gormCatalogRepo) FindByID(ctx context.Context, id string) (*models.CatalogItem, error) {
	var item models.CatalogItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}
