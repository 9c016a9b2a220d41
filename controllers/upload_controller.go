package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fixhub/repair-shop-api/middleware"
	"github.com/fixhub/repair-shop-api/models"
	"github.com/fixhub/repair-shop-api/services"
	"github.com/fixhub/repair-shop-api/utils"
)

// UploadController handles device photo uploads for repair requests
type UploadController struct {
	DB     *gorm.DB
	Images services.ImageService
}

// NewUploadController creates a new upload controller
func NewUploadController(db *gorm.DB, images services.ImageService) *UploadController {
	return &UploadController{DB: db, Images: images}
}

// UploadRequestPhoto handles POST /api/v1/requests/:id/photo - attaches a
// PNG photo of the device to a repair request (owner only)
func (ctl *UploadController) UploadRequestPhoto(c *gin.Context) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Authentication required",
			},
		})
		return
	}

	requestID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Request ID must be a positive integer",
			},
		})
		return
	}

	var request models.RepairRequest
	if err := ctl.DB.First(&request, requestID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "REQUEST_NOT_FOUND",
				"message": "Repair request not found",
			},
		})
		return
	}

	if request.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "You do not have permission to upload a photo for this repair request",
			},
		})
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "A photo file is required",
			},
		})
		return
	}

	imageKey, err := ctl.Images.UploadImage(fileHeader)
	if err != nil {
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    uploadErr.Code,
					"message": uploadErr.Message,
				},
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_ERROR",
				"message": "Failed to upload photo",
			},
		})
		return
	}

	// Replacing an existing photo leaves the old object behind; drop it so
	// the bucket does not accumulate orphans.
	oldKey := request.PhotoS3Key

	if err := ctl.DB.Model(&request).Update("photo_s3_key", imageKey).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save photo reference",
			},
		})
		return
	}

	if oldKey != nil && *oldKey != imageKey {
		if err := ctl.Images.DeleteImage(*oldKey); err != nil {
			// Not fatal; the new photo is already in place
			c.Error(err)
		}
	}

	request.PhotoS3Key = &imageKey
	if url, err := ctl.Images.GetImageURL(imageKey); err == nil && url != "" {
		request.PhotoURL = &url
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    request,
	})
}
