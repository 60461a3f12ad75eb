package controllers

import (
	"net/http"
	"strings"

	"storefront-service/logger"
	"storefront-service/models"
	"storefront-service/repository"
	"storefront-service/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdminController struct {
	Audit        repository.AuditRepository
	Entitlements repository.EntitlementRepository
	Tokens       *services.TokenService
}

// ReadLogs returns the whole fulfillment audit trail as newline-delimited
// text, in insertion order.
func (ac *AdminController) ReadLogs(c *gin.Context) {
	lines, err := ac.Audit.ReadAll(c.Request.Context())
	if err != nil {
		logger.Log.Error("audit read failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "AUDIT_READ_FAILED"})
		return
	}

	if len(lines) == 0 {
		c.JSON(http.StatusOK, gin.H{"status": "success", "logs": "NO_LOGS_RECORDED"})
		return
	}

	rendered := make([]string, 0, len(lines))
	for _, line := range lines {
		rendered = append(rendered, line.Render())
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "logs": strings.Join(rendered, "\n")})
}

// IssueToken exchanges the static operator key (already checked by the
// gate) for a short-lived operator token.
func (ac *AdminController) IssueToken(c *gin.Context) {
	if ac.Tokens == nil || !ac.Tokens.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "TOKEN_MINTING_DISABLED"})
		return
	}
	token, err := ac.Tokens.GenerateOperatorToken()
	if err != nil {
		logger.Log.Error("operator token minting failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "TOKEN_MINTING_FAILED"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "token": token})
}

// GetEntitlements returns the principal's owned items and subscriber state.
func (ac *AdminController) GetEntitlements(c *gin.Context) {
	uid := c.Param("uid")
	view, err := ac.Entitlements.GetPrincipal(c.Request.Context(), uid)
	if err != nil {
		logger.Log.Error("entitlement lookup failed", zap.String("uid", uid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "ENTITLEMENT_LOOKUP_FAILED"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "principal": view})
}

// Revoke is the administrative reset: it clears the principal's owned set
// and subscription flag in one stroke.
func (ac *AdminController) Revoke(c *gin.Context) {
	var req struct {
		UID string `json:"uid" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "UID_REQUIRED"})
		return
	}

	if err := ac.Entitlements.RevokeAll(c.Request.Context(), req.UID); err != nil {
		logger.Log.Error("revoke failed", zap.String("uid", req.UID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "REVOKE_FAILED"})
		return
	}

	line := &models.AuditLine{EventType: models.AuditEventAdminRevoke, UID: req.UID}
	if err := ac.Audit.Append(c.Request.Context(), line); err != nil {
		logger.Log.Warn("failed to audit revoke", zap.String("uid", req.UID), zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "ENTITLEMENTS_CLEARED"})
}
