package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront-service/models"
	"storefront-service/services"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
)

// --- In-memory fakes ---

type memEntitlements struct {
	grants      map[string]map[string]bool
	subscribers map[string]bool
}

func newMemEntitlements() *memEntitlements {
	return &memEntitlements{grants: map[string]map[string]bool{}, subscribers: map[string]bool{}}
}

func (m *memEntitlements) Grant(ctx context.Context, uid, itemID, sessionID string) error {
	if m.grants[uid] == nil {
		m.grants[uid] = map[string]bool{}
	}
	m.grants[uid][itemID] = true
	return nil
}

func (m *memEntitlements) GrantSubscription(ctx context.Context, uid string) error {
	m.subscribers[uid] = true
	return nil
}

func (m *memEntitlements) RevokeAll(ctx context.Context, uid string) error {
	delete(m.grants, uid)
	delete(m.subscribers, uid)
	return nil
}

func (m *memEntitlements) IsEntitled(ctx context.Context, uid, itemID string) (bool, error) {
	return m.grants[uid][itemID] || m.subscribers[uid], nil
}

func (m *memEntitlements) GetPrincipal(ctx context.Context, uid string) (*models.PrincipalView, error) {
	view := &models.PrincipalView{UID: uid, OwnedItemIDs: []string{}, IsSubscriber: m.subscribers[uid]}
	for item := range m.grants[uid] {
		view.OwnedItemIDs = append(view.OwnedItemIDs, item)
	}
	return view, nil
}

type memAudit struct {
	lines []models.AuditLine
}

func (m *memAudit) Append(ctx context.Context, line *models.AuditLine) error {
	m.lines = append(m.lines, *line)
	return nil
}

func (m *memAudit) ReadAll(ctx context.Context) ([]models.AuditLine, error) {
	return m.lines, nil
}

type fakeParser struct {
	event stripe.Event
	err   error
}

func (f *fakeParser) ParseWebhook(r *http.Request) (stripe.Event, error) {
	return f.event, f.err
}

func sessionCompletedEvent(t *testing.T, sessionID, uid, itemID, kind string) stripe.Event {
	t.Helper()
	metadata := map[string]string{"uid": uid, "itemId": itemID}
	if kind != "" {
		metadata["kind"] = kind
	}
	raw, err := json.Marshal(map[string]interface{}{
		"id":       sessionID,
		"metadata": metadata,
	})
	if err != nil {
		t.Fatalf("failed to build event payload: %v", err)
	}
	return stripe.Event{
		Type: "checkout.session.completed",
		Data: &stripe.EventData{Raw: raw},
	}
}

func newWebhookRouter(parser services.WebhookParser, ents *memEntitlements, audit *memAudit) *gin.Engine {
	fulfillment := services.NewFulfillmentService(ents, audit, nil, zap.NewNop())
	controller := &WebhookController{Parser: parser, Fulfillment: fulfillment}
	router := gin.New()
	router.POST("/stripe/webhook", controller.StripeWebhook)
	return router
}

func postWebhook(router *gin.Engine) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/stripe/webhook", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// --- Tests ---

func TestWebhookDuplicateDeliveryGrantsOnce(t *testing.T) {
	ents := newMemEntitlements()
	audit := &memAudit{}
	parser := &fakeParser{event: sessionCompletedEvent(t, "cs_1", "P1", "CH_02", "")}
	router := newWebhookRouter(parser, ents, audit)

	for i := 0; i < 2; i++ {
		rec := postWebhook(router)
		if rec.Code != http.StatusOK {
			t.Fatalf("delivery %d: status %d", i+1, rec.Code)
		}
	}

	if len(ents.grants["P1"]) != 1 || !ents.grants["P1"]["CH_02"] {
		t.Fatalf("expected exactly one grant of CH_02, got %v", ents.grants["P1"])
	}
	if len(audit.lines) != 2 {
		t.Fatalf("expected two audit lines, got %d", len(audit.lines))
	}
}

func TestWebhookSubscriptionCompleted(t *testing.T) {
	ents := newMemEntitlements()
	audit := &memAudit{}
	parser := &fakeParser{event: sessionCompletedEvent(t, "cs_2", "P1", "SUB_MONTHLY", "")}
	router := newWebhookRouter(parser, ents, audit)

	rec := postWebhook(router)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if !ents.subscribers["P1"] {
		t.Fatal("expected P1 to be a subscriber")
	}
}

func TestWebhookHonorsKindMetadata(t *testing.T) {
	ents := newMemEntitlements()
	audit := &memAudit{}
	parser := &fakeParser{event: sessionCompletedEvent(t, "cs_3", "P1", "SUB_LEGACY_BUNDLE", models.KindOneTime)}
	router := newWebhookRouter(parser, ents, audit)

	rec := postWebhook(router)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	// sold as one-time: the legacy id prefix must not upgrade it
	if ents.subscribers["P1"] {
		t.Fatal("one-time sale must not create a subscriber")
	}
	if !ents.grants["P1"]["SUB_LEGACY_BUNDLE"] {
		t.Fatalf("expected an item grant, got %v", ents.grants["P1"])
	}
}

func TestWebhookSubscriptionDeletedIsAuditOnly(t *testing.T) {
	ents := newMemEntitlements()
	ents.subscribers["P1"] = true
	ents.grants["P1"] = map[string]bool{"CH_02": true}
	audit := &memAudit{}

	raw, _ := json.Marshal(map[string]string{"id": "sub_1"})
	parser := &fakeParser{event: stripe.Event{
		Type: "customer.subscription.deleted",
		Data: &stripe.EventData{Raw: raw},
	}}
	router := newWebhookRouter(parser, ents, audit)

	rec := postWebhook(router)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}

	// no entitlement change, one audit line
	if !ents.subscribers["P1"] || !ents.grants["P1"]["CH_02"] {
		t.Fatal("cancellation must not revoke anything")
	}
	if len(audit.lines) != 1 || audit.lines[0].EventType != models.AuditEventSubscriptionEnd {
		t.Fatalf("expected one SUBSCRIPTION_END line, got %+v", audit.lines)
	}
}

func TestWebhookUnknownTypeIsAcknowledged(t *testing.T) {
	ents := newMemEntitlements()
	audit := &memAudit{}
	parser := &fakeParser{event: stripe.Event{Type: "invoice.created", Data: &stripe.EventData{Raw: []byte("{}")}}}
	router := newWebhookRouter(parser, ents, audit)

	rec := postWebhook(router)
	if rec.Code != http.StatusOK {
		t.Fatalf("unknown types must be acknowledged, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ignored") {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
	if len(audit.lines) != 0 || len(ents.grants) != 0 {
		t.Fatal("unknown event must leave no state change")
	}
}

func TestWebhookMalformedPayload(t *testing.T) {
	parser := &fakeParser{err: errors.New("bad signature")}
	router := newWebhookRouter(parser, newMemEntitlements(), &memAudit{})

	rec := postWebhook(router)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
