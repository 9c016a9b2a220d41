package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fixhub/repair-shop-api/middleware"
	"github.com/fixhub/repair-shop-api/models"
)

// PaymentController handles payments recorded against repair requests
type PaymentController struct {
	DB *gorm.DB
}

// NewPaymentController creates a new payment controller
func NewPaymentController(db *gorm.DB) *PaymentController {
	return &PaymentController{DB: db}
}

// RecordPaymentRequest represents the request body for recording a payment.
// Amount is validated by hand rather than with binding tags so that every
// malformed amount (missing, non-numeric, zero, negative) maps to the same
// INVALID_AMOUNT failure.
type RecordPaymentRequest struct {
	Amount float64 `json:"amount"`
}

// RecordPayment handles POST /api/v1/requests/:id/payments - records a paid
// payment against a request and projects the request's status to Paid
func (ctl *PaymentController) RecordPayment(c *gin.Context) {
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

	// Customers can only pay on their own requests; admins may record a
	// payment on any request (e.g. taken over the counter)
	if user.Role != models.RoleAdmin && request.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "You do not have permission to pay on this repair request",
			},
		})
		return
	}

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_AMOUNT",
				"message": "Amount must be a positive number",
			},
		})
		return
	}

	payment := models.Payment{
		RequestID: request.ID,
		Amount:    req.Amount,
		Status:    models.PaymentPaid,
	}

	// The payment row is the source of truth; the request's status is a
	// cached projection. Both writes happen in one transaction so a failure
	// leaves no partial state.
	err = ctl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		return tx.Model(&request).Update("status", models.StatusPaid).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to record payment",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    payment,
	})
}

// ListPayments handles GET /api/v1/requests/:id/payments - returns the
// payment history of a request, oldest first
func (ctl *PaymentController) ListPayments(c *gin.Context) {
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

	if user.Role != models.RoleAdmin && request.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "You do not have permission to view payments on this repair request",
			},
		})
		return
	}

	var payments []models.Payment
	if err := ctl.DB.Where("request_id = ?", request.ID).
		Order("id").
		Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list payments",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    payments,
	})
}
