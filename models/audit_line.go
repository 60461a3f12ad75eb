package models

import (
	"fmt"
	"time"
)

// Audit event types written by the fulfillment pipeline.
const (
	AuditEventSuccess         = "SUCCESS"
	AuditEventSubscriptionEnd = "SUBSCRIPTION_END"
	AuditEventAdminRevoke     = "ADMIN_REVOKE"
)

// AuditLine is one immutable fulfillment audit record. Lines are append-only
// and read back in insertion order; nothing ever updates or deletes them.
type AuditLine struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EventType string    `gorm:"type:varchar(32);not null" json:"event_type"`
	UID       string    `gorm:"type:varchar(128)" json:"uid"`
	ItemID    string    `gorm:"type:varchar(64)" json:"item_id"`
	SessionID string    `gorm:"type:varchar(255)" json:"session_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Render formats the line the way operators read it back.
func (l AuditLine) Render() string {
	return fmt.Sprintf("%s | %s | UID: %s | ITEM: %s | SID: %s",
		l.CreatedAt.UTC().Format("2006-01-02 15:04:05"), l.EventType, l.UID, l.ItemID, l.SessionID)
}
