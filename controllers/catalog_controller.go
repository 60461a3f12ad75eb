package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"storefront-service/apperrors"
	"storefront-service/logger"
	"storefront-service/models"
	"storefront-service/repository"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	catalogCacheKey = "catalog:active"
	catalogCacheTTL = 60 * time.Second
)

type CatalogController struct {
	Catalog repository.CatalogRepository
	Redis   *redis.Client // nil disables caching
}

// ListItems returns the active catalog. Reads go through a short redis cache;
// any cache failure falls back to the database.
func (cc *CatalogController) ListItems(c *gin.Context) {
	ctx := c.Request.Context()

	if cc.Redis != nil {
		if cached, err := cc.Redis.Get(ctx, catalogCacheKey).Result(); err == nil {
			var items []models.CatalogItem
			if json.Unmarshal([]byte(cached), &items) == nil {
				c.JSON(http.StatusOK, gin.H{"items": items})
				return
			}
		}
	}

	items, err := cc.Catalog.ListActive(ctx)
	if err != nil {
		logger.Log.Error("catalog list failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "CATALOG_READ_FAILED"})
		return
	}

	if cc.Redis != nil {
		if data, err := json.Marshal(items); err == nil {
			if err := cc.Redis.Set(ctx, catalogCacheKey, data, catalogCacheTTL).Err(); err != nil {
				logger.Log.Warn("catalog cache write failed", zap.Error(err))
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetItem returns a single catalog item by id.
func (cc *CatalogController) GetItem(c *gin.Context) {
	item, err := cc.Catalog.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if err == apperrors.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "ITEM_NOT_FOUND"})
			return
		}
		logger.Log.Error("catalog lookup failed", zap.String("id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "CATALOG_READ_FAILED"})
		return
	}
	c.JSON(http.StatusOK, item)
}
