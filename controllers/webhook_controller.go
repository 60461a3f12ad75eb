package controllers

import (
	"encoding/json"
	"net/http"

	"storefront-service/logger"
	"storefront-service/services"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
)

type WebhookController struct {
	Parser      services.WebhookParser
	Fulfillment *services.FulfillmentService
}

// StripeWebhook handles processor-pushed settlement notifications. Delivery
// is at-least-once; duplicates are harmless because fulfillment is idempotent.
// Unknown event types are acknowledged so the processor stops retrying them.
func (wc *WebhookController) StripeWebhook(c *gin.Context) {
	event, err := wc.Parser.ParseWebhook(c.Request)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook"})
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook payload"})
			return
		}

		uid := session.Metadata["uid"]
		itemID := session.Metadata["itemId"]
		kind := session.Metadata["kind"]

		if err := wc.Fulfillment.Fulfill(c.Request.Context(), uid, itemID, session.ID, kind); err != nil {
			// 5xx makes the processor redeliver; the retry is safe
			logger.Log.Error("webhook fulfillment failed",
				zap.String("session_id", session.ID),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Fulfillment failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success"})

	case "customer.subscription.deleted":
		var subscription stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &subscription); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook payload"})
			return
		}

		// Cancellation stops renewals only; granted content stays granted.
		if err := wc.Fulfillment.RecordSubscriptionEnd(c.Request.Context(), subscription.ID); err != nil {
			logger.Log.Error("failed to record subscription end",
				zap.String("subscription_id", subscription.ID),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Audit write failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success"})

	default:
		logger.Log.Info("ignoring webhook event", zap.String("type", string(event.Type)))
		c.JSON(http.StatusOK, gin.H{"status": "ignored", "type": string(event.Type)})
	}
}
