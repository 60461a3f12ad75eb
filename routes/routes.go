package routes

import (
	"storefront-service/controllers"
	"storefront-service/middleware"
	"storefront-service/services"

	"github.com/gin-gonic/gin"
)

type Controllers struct {
	Checkout *controllers.CheckoutController
	Webhook  *controllers.WebhookController
	Asset    *controllers.AssetController
	Admin    *controllers.AdminController
	Catalog  *controllers.CatalogController
}

func Register(r *gin.Engine, c Controllers, operatorKey string, tokens *services.TokenService) {
	// Checkout & settlement
	r.POST("/checkout/session", c.Checkout.CreateSession)
	r.GET("/checkout/verify", c.Checkout.VerifySession)
	r.POST("/stripe/webhook", c.Webhook.StripeWebhook)

	// Catalog (public, read-only)
	r.GET("/catalog", c.Catalog.ListItems)
	r.GET("/catalog/:id", c.Catalog.GetItem)

	// Object gateway: downloads are public by link, mutations are gated
	r.GET("/assets/:name", c.Asset.DownloadAsset)
	r.GET("/download", c.Asset.DownloadAsset)

	gated := r.Group("/")
	gated.Use(middleware.OperatorAuth(operatorKey, tokens))
	gated.POST("/assets", c.Asset.HandleAssetOp)

	admin := r.Group("/admin")
	admin.Use(middleware.OperatorAuth(operatorKey, tokens))
	admin.GET("/logs", c.Admin.ReadLogs)
	admin.POST("/token", c.Admin.IssueToken)
	admin.GET("/entitlements/:uid", c.Admin.GetEntitlements)
	admin.POST("/revoke", c.Admin.Revoke)
}
