package models

import (
	"strings"
	"time"
)

// Item kinds. Kind is the explicit tag on an order intent; the legacy SUB_
// identifier prefix is only consulted when the caller omits it.
const (
	KindOneTime   = "one_time"
	KindRecurring = "recurring"

	subscriptionPrefix = "SUB_"
)

// OrderIntent is the ephemeral checkout request. It is consumed immediately
// by the session broker and never persisted; the item metadata survives the
// redirect round-trip inside the processor's session object.
type OrderIntent struct {
	ItemID string `json:"itemId" binding:"required"`
	Name   string `json:"name"`
	Price  string `json:"price" binding:"required"`
	Img    string `json:"img"`
	UID    string `json:"uid"`
	Kind   string `json:"kind"` // one_time | recurring; empty means infer
}

// ResolveKind returns the explicit kind when set, otherwise falls back to the
// legacy identifier prefix convention.
func (o OrderIntent) ResolveKind() string {
	if o.Kind == KindOneTime || o.Kind == KindRecurring {
		return o.Kind
	}
	if strings.HasPrefix(o.ItemID, subscriptionPrefix) {
		return KindRecurring
	}
	return KindOneTime
}

// IsRecurringItem reports whether an item id denotes the recurring membership
// under the legacy prefix convention. Used where only the id is available
// (webhook metadata).
func IsRecurringItem(itemID string) bool {
	return strings.HasPrefix(itemID, subscriptionPrefix)
}

// ResolveItemKind mirrors OrderIntent.ResolveKind for callers that carry the
// kind detached from an intent (session metadata on the settlement path). An
// unrecognized or absent kind falls back to the identifier prefix.
func ResolveItemKind(itemID, kind string) string {
	if kind == KindOneTime || kind == KindRecurring {
		return kind
	}
	if IsRecurringItem(itemID) {
		return KindRecurring
	}
	return KindOneTime
}

// FulfillmentEvent is the message published after a grant for downstream
// consumers (mailers, analytics).
type FulfillmentEvent struct {
	EventID   string    `json:"event_id"`
	Type      string    `json:"type"` // "entitlement_granted" or "subscription_granted"
	UID       string    `json:"uid"`
	ItemID    string    `json:"item_id"`
	SessionID string    `json:"session_id"`
	Timestamp time.Time `json:"timestamp"` // UTC event time
}
