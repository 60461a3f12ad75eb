package controllers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"storefront-service/apperrors"
	"storefront-service/logger"
	"storefront-service/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AssetController struct {
	Store         *storage.DiskStore
	PublicBaseURL string
}

type assetActionRequest struct {
	Action  string `json:"action"`
	FileURL string `json:"fileUrl"`
}

// HandleAssetOp serves the mutating side of the object gateway. A JSON or
// form body with action=delete removes an object; a multipart body with a
// "file" part uploads one. Both run behind the operator gate.
func (ac *AssetController) HandleAssetOp(c *gin.Context) {
	var req assetActionRequest

	if strings.HasPrefix(c.ContentType(), "application/json") {
		body, err := io.ReadAll(c.Request.Body)
		if err == nil {
			_ = json.Unmarshal(body, &req)
		}
	}
	if req.Action == "" {
		req.Action = c.Request.FormValue("action")
		req.FileURL = c.Request.FormValue("fileUrl")
	}

	if req.Action == "delete" {
		ac.deleteAsset(c, req.FileURL)
		return
	}

	ac.uploadAsset(c)
}

func (ac *AssetController) deleteAsset(c *gin.Context, fileURL string) {
	if fileURL == "" {
		c.JSON(http.StatusOK, gin.H{"status": "error", "message": "NO_URL_PROVIDED"})
		return
	}

	existed, err := ac.Store.Delete(fileURL)
	if err != nil {
		logger.Log.Error("asset delete failed", zap.String("file_url", fileURL), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "FS_DELETE_FAILED"})
		return
	}

	if existed {
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "ASSET_NEUTRALIZED"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "ASSET_ALREADY_GONE"})
}

func (ac *AssetController) uploadAsset(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "No file received."})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Reading upload failed."})
		return
	}
	defer f.Close()

	name, err := ac.Store.Save(f, fileHeader.Filename)
	if err != nil {
		if e, ok := err.(*apperrors.Error); ok {
			c.JSON(http.StatusOK, gin.H{"status": "error", "message": e.Message})
			return
		}
		logger.Log.Error("asset write failed", zap.String("original_name", fileHeader.Filename), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Storing file failed."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"url":    fmt.Sprintf("%s/assets/%s", ac.PublicBaseURL, name),
	})
}

// DownloadAsset is the public retrieval path. Holders of the generated link
// can fetch the bytes; the stored names are unguessable, which is the only
// gate here. Kept deliberately, matching the product's download behavior.
func (ac *AssetController) DownloadAsset(c *gin.Context) {
	ref := c.Param("name")
	if ref == "" {
		ref = c.Query("file")
	}
	if ref == "" {
		c.String(http.StatusBadRequest, "ACCESS_DENIED: NO_PAYLOAD_SPECIFIED")
		return
	}

	reader, contentType, size, err := ac.Store.Open(ref)
	if err != nil {
		if err == apperrors.ErrNotFound {
			c.String(http.StatusNotFound, "ACCESS_DENIED: ASSET_MISSING")
			return
		}
		logger.Log.Error("asset read failed", zap.String("ref", ref), zap.Error(err))
		c.String(http.StatusInternalServerError, "ASSET_READ_FAILED")
		return
	}
	defer reader.Close()

	name := ac.Store.Resolve(ref)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.DataFromReader(http.StatusOK, size, contentType, reader, nil)
}
