package models

import (
	"time"
)

// Principal is an actor who can own entitlements. UID comes from the
// storefront's auth provider; "anonymous" is used for guest checkouts.
type Principal struct {
	UID                   string     `gorm:"type:varchar(128);primaryKey" json:"uid"`
	IsSubscriber          bool       `gorm:"not null;default:false" json:"is_subscriber"`
	SubscriptionRenewedAt *time.Time `json:"subscription_renewed_at,omitempty"`
	CreatedAt             time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// Entitlement is one owned item for one principal. The composite unique index
// makes granting a set union: inserting a duplicate is a no-op, never an error.
// Rows are only ever removed by an administrative reset of the whole principal.
type Entitlement struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UID       string    `gorm:"type:varchar(128);not null;uniqueIndex:ux_entitlements_uid_item,priority:1" json:"uid"`
	ItemID    string    `gorm:"type:varchar(64);not null;uniqueIndex:ux_entitlements_uid_item,priority:2" json:"item_id"`
	SessionID string    `gorm:"type:varchar(255)" json:"session_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// PrincipalView is the admin-facing snapshot of a principal's grants.
type PrincipalView struct {
	UID                   string     `json:"uid"`
	OwnedItemIDs          []string   `json:"owned_item_ids"`
	IsSubscriber          bool       `json:"is_subscriber"`
	SubscriptionRenewedAt *time.Time `json:"subscription_renewed_at,omitempty"`
}
