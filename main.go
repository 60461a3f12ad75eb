package main

import (
	"log"
	"strings"

	"storefront-service/config"
	"storefront-service/controllers"
	"storefront-service/database"
	"storefront-service/kafka"
	"storefront-service/logger"
	"storefront-service/models"
	"storefront-service/repository"
	"storefront-service/routes"
	"storefront-service/services"
	"storefront-service/storage"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("[Storefront] Failed to load config:", err)
	}

	logger.Initialize(cfg.Env)
	defer logger.Log.Sync()

	if err := database.Connect(cfg); err != nil {
		log.Fatal("[Storefront] Failed to connect to DB:", err)
	}
	if err := database.DB.AutoMigrate(
		&models.Principal{},
		&models.Entitlement{},
		&models.AuditLine{},
		&models.CatalogItem{},
	); err != nil {
		log.Fatal("[Storefront] Failed to migrate models:", err)
	}

	store, err := storage.NewDiskStore(cfg.UploadDir)
	if err != nil {
		log.Fatal("[Storefront] Failed to prepare upload directory:", err)
	}

	entitlementRepo := repository.NewGormEntitlementRepo(database.DB)
	auditRepo := repository.NewGormAuditRepo(database.DB)
	catalogRepo := repository.NewGormCatalogRepo(database.DB)

	stripeSvc := services.NewStripeService(cfg.StripeSecretKey, cfg.StripeWebhookKey)
	tokenSvc := services.NewTokenService(cfg.JWTSecret)
	checkoutSvc := services.NewCheckoutService(stripeSvc, cfg.SuccessURLBase, cfg.CancelURL)

	var publisher services.EventPublisher
	if cfg.KafkaBrokers != "" {
		producer := kafka.NewFulfillmentEventProducer(
			strings.Split(cfg.KafkaBrokers, ","),
			cfg.KafkaTopic,
			logger.Log,
		)
		defer producer.Close()
		publisher = producer
	}

	fulfillmentSvc := services.NewFulfillmentService(entitlementRepo, auditRepo, publisher, logger.Log)

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())

	routes.Register(r, routes.Controllers{
		Checkout: &controllers.CheckoutController{Checkout: checkoutSvc, Fulfillment: fulfillmentSvc},
		Webhook:  &controllers.WebhookController{Parser: stripeSvc, Fulfillment: fulfillmentSvc},
		Asset:    &controllers.AssetController{Store: store, PublicBaseURL: cfg.PublicBaseURL},
		Admin:    &controllers.AdminController{Audit: auditRepo, Entitlements: entitlementRepo, Tokens: tokenSvc},
		Catalog:  &controllers.CatalogController{Catalog: catalogRepo, Redis: redisClient},
	}, cfg.OperatorKey, tokenSvc)

	log.Println("[Storefront] Running on port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("[Storefront] Server failed:", err)
	}
}
