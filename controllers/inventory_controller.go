package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fixhub/repair-shop-api/models"
)

// InventoryController handles the spare-parts inventory (admins only)
type InventoryController struct {
	DB *gorm.DB
}

// NewInventoryController creates a new inventory controller
func NewInventoryController(db *gorm.DB) *InventoryController {
	return &InventoryController{DB: db}
}

// AddPartRequest represents the request body for adding an inventory part.
// Quantity and Price are pointers so that an explicit zero passes the
// required check while a missing field fails it.
type AddPartRequest struct {
	PartName string   `json:"part_name" binding:"required"`
	Quantity *int     `json:"quantity" binding:"required,gte=0"`
	Price    *float64 `json:"price" binding:"required,gte=0"`
}

// AddPart handles POST /api/v1/admin/inventory - adds a spare part
func (ctl *InventoryController) AddPart(c *gin.Context) {
	var req AddPartRequest
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

	part := models.Inventory{
		PartName: req.PartName,
		Quantity: *req.Quantity,
		Price:    *req.Price,
	}

	if err := ctl.DB.Create(&part).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to add inventory part",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    part,
	})
}

// ListParts handles GET /api/v1/admin/inventory - lists all spare parts
func (ctl *InventoryController) ListParts(c *gin.Context) {
	var parts []models.Inventory
	if err := ctl.DB.Order("id").Find(&parts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list inventory parts",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    parts,
	})
}

// DeletePart handles DELETE /api/v1/admin/inventory/:id - removes a part permanently
func (ctl *InventoryController) DeletePart(c *gin.Context) {
	partID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Part ID must be a positive integer",
			},
		})
		return
	}

	var part models.Inventory
	if err := ctl.DB.First(&part, partID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PART_NOT_FOUND",
				"message": "Inventory part not found",
			},
		})
		return
	}

	if err := ctl.DB.Delete(&part).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete inventory part",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Inventory part deleted",
	})
}
