package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fixhub/repair-shop-api/middleware"
	"github.com/fixhub/repair-shop-api/models"
	"github.com/fixhub/repair-shop-api/services"
)

// RequestController handles the repair request lifecycle
type RequestController struct {
	DB     *gorm.DB
	Images services.ImageService
}

// NewRequestController creates a new repair request controller
func NewRequestController(db *gorm.DB, images services.ImageService) *RequestController {
	return &RequestController{DB: db, Images: images}
}

// CreateRequestRequest represents the request body for submitting a repair request
type CreateRequestRequest struct {
	Device string `json:"device" binding:"required"`
	Issue  string `json:"issue" binding:"required"`
}

// AssignTechnicianRequest represents the request body for assigning a technician
type AssignTechnicianRequest struct {
	TechnicianID uint `json:"technician_id" binding:"required,gt=0"`
}

// CreateRequest handles POST /api/v1/requests - submits a repair request (customers only)
func (ctl *RequestController) CreateRequest(c *gin.Context) {
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

	// Only customers submit repair requests
	if user.Role != models.RoleCustomer {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Only customers can submit repair requests",
			},
		})
		return
	}

	var req CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	request := models.RepairRequest{
		UserID: user.ID,
		Device: req.Device,
		Issue:  req.Issue,
		Status: models.StatusPending,
	}

	if err := ctl.DB.Create(&request).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create repair request",
			},
		})
		return
	}

	// Load the customer relationship to return complete data
	if err := ctl.DB.Preload("User").First(&request, request.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load repair request details",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    request,
	})
}

// ListMyRequests handles GET /api/v1/requests - lists the caller's repair requests
func (ctl *RequestController) ListMyRequests(c *gin.Context) {
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

	var requests []models.RepairRequest
	if err := ctl.DB.Preload("AssignedTechnician").
		Where("user_id = ?", user.ID).
		Order("id").
		Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list repair requests",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    requests,
	})
}

// ListAllRequests handles GET /api/v1/admin/requests - lists every repair request (admins only)
func (ctl *RequestController) ListAllRequests(c *gin.Context) {
	var requests []models.RepairRequest
	if err := ctl.DB.Preload("User").Preload("AssignedTechnician").
		Order("id").
		Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list repair requests",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    requests,
	})
}

// TrackStatus handles GET /api/v1/requests/:id - returns the full current
// snapshot of a request: status, assigned technician and payment history
func (ctl *RequestController) TrackStatus(c *gin.Context) {
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
	if err := ctl.DB.Preload("User").Preload("AssignedTechnician").Preload("Payments").
		First(&request, requestID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "REQUEST_NOT_FOUND",
				"message": "Repair request not found",
			},
		})
		return
	}

	// Customers can only see their own requests; admins see everything
	if user.Role != models.RoleAdmin && request.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "You do not have permission to view this repair request",
			},
		})
		return
	}

	if request.PhotoS3Key != nil {
		if url, err := ctl.Images.GetImageURL(*request.PhotoS3Key); err == nil && url != "" {
			request.PhotoURL = &url
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    request,
	})
}

// AssignTechnician handles PUT /api/v1/admin/requests/:id/technician -
// assigns a technician to a request and moves it to Assigned (admins only)
func (ctl *RequestController) AssignTechnician(c *gin.Context) {
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

	var req AssignTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Technician ID must be a positive integer",
				"details": err.Error(),
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

	var technician models.Technician
	if err := ctl.DB.First(&technician, req.TechnicianID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TECHNICIAN_NOT_FOUND",
				"message": "Technician not found",
			},
		})
		return
	}

	// A Paid request keeps its status; assignment only moves Pending/Assigned
	// requests to Assigned. Either way this is a single atomic UPDATE.
	updates := map[string]interface{}{
		"assigned_technician_id": technician.ID,
	}
	if request.Status != models.StatusPaid {
		updates["status"] = models.StatusAssigned
	}

	if err := ctl.DB.Model(&request).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to assign technician",
			},
		})
		return
	}

	if err := ctl.DB.Preload("User").Preload("AssignedTechnician").
		First(&request, request.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load repair request details",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    request,
	})
}
