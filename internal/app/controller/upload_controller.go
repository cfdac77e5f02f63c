package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/okim/optionlogic-backend/internal/errors"
	"github.com/okim/optionlogic-backend/internal/middleware"
	"github.com/okim/optionlogic-backend/internal/storage"
)

type UploadController struct {
	storage *storage.S3Storage
}

func NewUploadController(s *storage.S3Storage) *UploadController {
	return &UploadController{storage: s}
}

type PresignUploadRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Folder      string `json:"folder"`
}

// PresignUpload issues a presigned PUT URL for a swatch or set image
// POST /api/v1/uploads/presign
func (ctrl *UploadController) PresignUpload(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req PresignUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid upload payload")
		return
	}

	if !storage.AllowedImageType(req.ContentType) {
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only JPEG, PNG, GIF, WEBP and SVG images are accepted")
		return
	}
	if !storage.AllowedFolder(req.Folder) {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Unknown upload folder")
		return
	}

	upload, err := ctrl.storage.PresignUpload(c.Request.Context(), req.Filename, req.ContentType, req.Folder)
	if err != nil {
		log.Error("Failed to presign upload", err, map[string]interface{}{
			"filename":     req.Filename,
			"content_type": req.ContentType,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Failed to prepare the upload")
		return
	}

	log.Info("Presigned upload issued", map[string]interface{}{
		"key": upload.Key,
	})

	c.JSON(http.StatusOK, upload)
}
