package services

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/checkout/session"
	"github.com/stripe/stripe-go/v80/webhook"
)

// CheckoutProvider is the processor surface the broker and the verification
// path depend on. StripeService is the production implementation; tests use
// fakes.
type CheckoutProvider interface {
	CreateSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	GetSession(id string) (*stripe.CheckoutSession, error)
}

// WebhookParser turns an incoming HTTP request into a verified processor event.
type WebhookParser interface {
	ParseWebhook(r *http.Request) (stripe.Event, error)
}

type StripeService struct {
	SecretKey  string
	WebhookKey string
}

func NewStripeService(secretKey, webhookKey string) *StripeService {
	stripe.Key = secretKey
	return &StripeService{SecretKey: secretKey, WebhookKey: webhookKey}
}

func (s *StripeService) CreateSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return session.New(params)
}

func (s *StripeService) GetSession(id string) (*stripe.CheckoutSession, error) {
	return session.Get(id, nil)
}

// ParseWebhook verifies the Stripe signature when a webhook secret is
// configured. With no secret (local development, stripe CLI forwarding) the
// payload is decoded without verification.
func (s *StripeService) ParseWebhook(r *http.Request) (stripe.Event, error) {
	var event stripe.Event
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		return event, err
	}
	r.Body = io.NopCloser(bytes.NewBuffer(payload))

	if s.WebhookKey == "" {
		err = json.Unmarshal(payload, &event)
		return event, err
	}

	sigHeader := r.Header.Get("Stripe-Signature")
	return webhook.ConstructEvent(payload, sigHeader, s.WebhookKey)
}
