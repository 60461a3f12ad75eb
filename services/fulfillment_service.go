package services

import (
	"context"
	"time"

	"storefront-service/models"
	"storefront-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventPublisher receives fulfillment events for downstream consumers.
// Publishing is best effort; a publish failure never fails the grant.
type EventPublisher interface {
	SendFulfillmentEvent(event models.FulfillmentEvent) error
}

// FulfillmentService converts a settled session into durable entitlements.
// Both listener paths (webhook and synchronous verification) call Fulfill,
// any number of times per session.
type FulfillmentService struct {
	entitlements repository.EntitlementRepository
	audit        repository.AuditRepository
	publisher    EventPublisher // nil when no broker is configured
	logger       *zap.Logger
}

func NewFulfillmentService(
	entitlements repository.EntitlementRepository,
	audit repository.AuditRepository,
	publisher EventPublisher,
	logger *zap.Logger,
) *FulfillmentService {
	return &FulfillmentService{
		entitlements: entitlements,
		audit:        audit,
		publisher:    publisher,
		logger:       logger,
	}
}

// Fulfill appends the audit line, then grants. The grant is a set union, so
// repeated calls for the same (uid, itemID) leave one grant and one audit
// line per call. There is no transaction across the two writes; if the
// process dies in between, the audit line is the reconciliation record.
//
// kind is the resolved kind carried in the session metadata; when empty
// (sessions created before it was recorded) the item id prefix decides.
func (s *FulfillmentService) Fulfill(ctx context.Context, uid, itemID, sessionID, kind string) error {
	if uid == "" {
		uid = "anonymous"
	}

	line := &models.AuditLine{
		EventType: models.AuditEventSuccess,
		UID:       uid,
		ItemID:    itemID,
		SessionID: sessionID,
	}
	if err := s.audit.Append(ctx, line); err != nil {
		return err
	}

	eventType := "entitlement_granted"
	if models.ResolveItemKind(itemID, kind) == models.KindRecurring {
		eventType = "subscription_granted"
		if err := s.entitlements.GrantSubscription(ctx, uid); err != nil {
			return err
		}
	} else {
		if err := s.entitlements.Grant(ctx, uid, itemID, sessionID); err != nil {
			return err
		}
	}

	if s.publisher != nil {
		event := models.FulfillmentEvent{
			EventID:   uuid.NewString(),
			Type:      eventType,
			UID:       uid,
			ItemID:    itemID,
			SessionID: sessionID,
			Timestamp: time.Now().UTC(),
		}
		if err := s.publisher.SendFulfillmentEvent(event); err != nil {
			// logging only, avoid failing the grant over a broker hiccup
			s.logger.Warn("failed to publish fulfillment event",
				zap.String("uid", uid),
				zap.String("item_id", itemID),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("fulfillment complete",
		zap.String("uid", uid),
		zap.String("item_id", itemID),
		zap.String("session_id", sessionID),
	)
	return nil
}

// RecordSubscriptionEnd writes the cancellation audit line. Already-granted
// content is not revoked; cancellation only stops renewals.
func (s *FulfillmentService) RecordSubscriptionEnd(ctx context.Context, subscriptionID string) error {
	line := &models.AuditLine{
		EventType: models.AuditEventSubscriptionEnd,
		SessionID: subscriptionID,
	}
	return s.audit.Append(ctx, line)
}
