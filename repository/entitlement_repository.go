package repository

import (
	"context"
	"errors"
	"time"

	"storefront-service/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EntitlementRepository interface {
	Grant(ctx context.Context, uid, itemID, sessionID string) error
	GrantSubscription(ctx context.Context, uid string) error
	RevokeAll(ctx context.Context, uid string) error
	IsEntitled(ctx context.Context, uid, itemID string) (bool, error)
	GetPrincipal(ctx context.Context, uid string) (*models.PrincipalView, error)
}

type gormEntitlementRepo struct {
	db *gorm.DB
}

func NewGormEntitlementRepo(db *gorm.DB) EntitlementRepository {
	return &gormEntitlementRepo{db: db}
}

// Grant adds itemID to the principal's owned set. The insert is
// ON CONFLICT DO NOTHING against the (uid, item_id) unique index, so a
// duplicate grant is success and concurrent grants commute.
func (r *gormEntitlementRepo) Grant(ctx context.Context, uid, itemID, sessionID string) error {
	if err := r.ensurePrincipal(ctx, uid); err != nil {
		return err
	}
	ent := models.Entitlement{UID: uid, ItemID: itemID, SessionID: sessionID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&ent).Error
}

// GrantSubscription marks the principal as a subscriber and stamps the
// renewal time. Repeating it only moves the renewal timestamp forward.
func (r *gormEntitlementRepo) GrantSubscription(ctx context.Context, uid string) error {
	now := time.Now().UTC()
	principal := models.Principal{
		UID:                   uid,
		IsSubscriber:          true,
		SubscriptionRenewedAt: &now,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "uid"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_subscriber", "subscription_renewed_at", "updated_at"}),
		}).
		Create(&principal).Error
}

// RevokeAll is the administrative reset: it clears the owned set and the
// subscription flag. Nothing else ever removes an entitlement row.
func (r *gormEntitlementRepo) RevokeAll(ctx context.Context, uid string) error {
	if err := r.db.WithContext(ctx).Where("uid = ?", uid).Delete(&models.Entitlement{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&models.Principal{}).
		Where("uid = ?", uid).
		Updates(map[string]interface{}{
			"is_subscriber":           false,
			"subscription_renewed_at": nil,
		}).Error
}

func (r *gormEntitlementRepo) IsEntitled(ctx context.Context, uid, itemID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Entitlement{}).
		Where("uid = ? AND item_id = ?", uid, itemID).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	// Subscribers are entitled to membership-gated content.
	var principal models.Principal
	err := r.db.WithContext(ctx).First(&principal, "uid = ?", uid).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return principal.IsSubscriber, nil
}

func (r *gormEntitlementRepo) GetPrincipal(ctx context.Context, uid string) (*models.PrincipalView, error) {
	view := &models.PrincipalView{UID: uid, OwnedItemIDs: []string{}}

	var principal models.Principal
	err := r.db.WithContext(ctx).First(&principal, "uid = ?", uid).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err == nil {
		view.IsSubscriber = principal.IsSubscriber
		view.SubscriptionRenewedAt = principal.SubscriptionRenewedAt
	}

	var items []string
	if err := r.db.WithContext(ctx).Model(&models.Entitlement{}).
		Where("uid = ?", uid).
		Order("id ASC").
		Pluck("item_id", &items).Error; err != nil {
		return nil, err
	}
	if items != nil {
		view.OwnedItemIDs = items
	}
	return view, nil
}

func (r *gormEntitlementRepo) ensurePrincipal(ctx context.Context, uid string) error {
	principal := models.Principal{UID: uid}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&principal).Error
}
