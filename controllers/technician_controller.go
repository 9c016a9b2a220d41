package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fixhub/repair-shop-api/models"
)

// TechnicianController handles technician management (admins only)
type TechnicianController struct {
	DB *gorm.DB
}

// NewTechnicianController creates a new technician controller
func NewTechnicianController(db *gorm.DB) *TechnicianController {
	return &TechnicianController{DB: db}
}

// CreateTechnicianRequest represents the request body for creating a technician
type CreateTechnicianRequest struct {
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Specialization string `json:"specialization" binding:"required"`
}

// CreateTechnician handles POST /api/v1/admin/technicians - registers a technician
func (ctl *TechnicianController) CreateTechnician(c *gin.Context) {
	var req CreateTechnicianRequest
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

	technician := models.Technician{
		Name:           req.Name,
		Email:          req.Email,
		Specialization: req.Specialization,
	}

	if err := ctl.DB.Create(&technician).Error; err != nil {
		// Check for duplicate email (works with both PostgreSQL and SQLite)
		errMsg := strings.ToLower(err.Error())
		if strings.Contains(errMsg, "duplicate") ||
			strings.Contains(errMsg, "unique constraint") ||
			strings.Contains(errMsg, "unique") {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "EMAIL_EXISTS",
					"message": "A technician with this email already exists",
				},
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create technician",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    technician,
	})
}

// ListTechnicians handles GET /api/v1/admin/technicians - lists all technicians
func (ctl *TechnicianController) ListTechnicians(c *gin.Context) {
	var technicians []models.Technician
	if err := ctl.DB.Order("id").Find(&technicians).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list technicians",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    technicians,
	})
}
