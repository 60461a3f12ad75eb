package controllers

import (
	"net/http"

	"storefront-service/apperrors"
	"storefront-service/logger"
	"storefront-service/models"
	"storefront-service/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CheckoutController struct {
	Checkout    *services.CheckoutService
	Fulfillment *services.FulfillmentService
}

// CreateSession builds a processor checkout session from the posted order
// intent and returns the redirect URL.
func (cc *CheckoutController) CreateSession(c *gin.Context) {
	var intent models.OrderIntent
	if err := c.ShouldBindJSON(&intent); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": apperrors.ErrInvalidOrderIntent.Message})
		return
	}

	sessionURL, err := cc.Checkout.CreateSession(intent)
	if err != nil {
		logger.Log.Error("checkout session creation failed",
			zap.String("item_id", intent.ItemID),
			zap.Error(err),
		)
		c.JSON(apperrors.StatusOf(err), gin.H{"error": publicMessage(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessionUrl": sessionURL})
}

// VerifySession is the synchronous confirmation path: after the redirect the
// client presents the session id and, when the processor reports it paid,
// fulfillment runs with the same metadata the webhook path uses.
func (cc *CheckoutController) VerifySession(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "SESSION_ID_MISSING"})
		return
	}

	paid, itemID, uid, kind, err := cc.Checkout.VerifySession(sessionID)
	if err != nil {
		logger.Log.Error("session verification failed",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		c.JSON(apperrors.StatusOf(err), gin.H{"error": "Verification failed, try again"})
		return
	}

	if !paid {
		c.JSON(http.StatusOK, gin.H{"status": "unpaid"})
		return
	}

	if err := cc.Fulfillment.Fulfill(c.Request.Context(), uid, itemID, sessionID, kind); err != nil {
		logger.Log.Error("fulfillment failed on verify path",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Fulfillment failed, try again"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "paid",
		"itemId": itemID,
		"uid":    uid,
	})
}

// publicMessage strips internal causes; clients only see the taxonomy message.
func publicMessage(err error) string {
	if e, ok := err.(*apperrors.Error); ok {
		return e.Message
	}
	return apperrors.ErrInternalServer.Message
}
