package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/stitchly-app/stitchly-api/config"
	"github.com/stitchly-app/stitchly-api/models"
)

// ServiceRequest represents the request body for creating or updating a
// tailor service.
type ServiceRequest struct {
	CategoryID      uint            `json:"category_id" binding:"required"`
	Name            string          `json:"name" binding:"required"`
	Description     string          `json:"description" binding:"omitempty"`
	BasePrice       decimal.Decimal `json:"base_price" binding:"required"`
	DurationMinutes int             `json:"duration_minutes" binding:"omitempty,min=0"`
}

// CategoryRequest represents the request body for creating or updating a
// service category.
type CategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// ListTailorServices handles GET /api/v1/tailor/services - all of the
// tailor's services, active and inactive.
func ListTailorServices(c *gin.Context) {
	tailor, ok := currentTailor(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var tailorServices []models.Service
	if err := db.Preload("Category").
		Where("tailor_id = ?", tailor.ID).
		Find(&tailorServices).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch services",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    tailorServices,
	})
}

// CreateTailorService handles POST /api/v1/tailor/services
func CreateTailorService(c *gin.Context) {
	tailor, ok := currentTailor(c)
	if !ok {
		return
	}

	var req ServiceRequest
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
	if req.BasePrice.IsNegative() || req.BasePrice.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "base_price must be greater than zero",
			},
		})
		return
	}

	db := config.GetDB()
	var category models.Category
	if err := db.First(&category, req.CategoryID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CATEGORY_NOT_FOUND",
				"message": "Category not found",
			},
		})
		return
	}

	service := models.Service{
		CategoryID:      category.ID,
		TailorID:        tailor.ID,
		Name:            req.Name,
		Description:     req.Description,
		BasePrice:       req.BasePrice,
		DurationMinutes: req.DurationMinutes,
		IsActive:        true,
	}
	if err := db.Create(&service).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create service",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    service,
	})
}

// UpdateTailorService handles PUT /api/v1/tailor/services/:id
func UpdateTailorService(c *gin.Context) {
	tailor, ok := currentTailor(c)
	if !ok {
		return
	}
	serviceID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req ServiceRequest
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
	if req.BasePrice.IsNegative() || req.BasePrice.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "base_price must be greater than zero",
			},
		})
		return
	}

	db := config.GetDB()
	var service models.Service
	if err := db.Where("id = ? AND tailor_id = ?", serviceID, tailor.ID).First(&service).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SERVICE_NOT_FOUND",
				"message": "Service not found",
			},
		})
		return
	}

	service.CategoryID = req.CategoryID
	service.Name = req.Name
	service.Description = req.Description
	service.BasePrice = req.BasePrice
	service.DurationMinutes = req.DurationMinutes
	if err := db.Save(&service).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update service",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    service,
	})
}

// ToggleTailorService handles PUT /api/v1/tailor/services/:id/toggle -
// flips a service between active and inactive. Inactive services cannot be
// ordered but existing orders keep their snapshots.
func ToggleTailorService(c *gin.Context) {
	tailor, ok := currentTailor(c)
	if !ok {
		return
	}
	serviceID, ok := pathID(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var service models.Service
	if err := db.Where("id = ? AND tailor_id = ?", serviceID, tailor.ID).First(&service).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SERVICE_NOT_FOUND",
				"message": "Service not found",
			},
		})
		return
	}

	service.IsActive = !service.IsActive
	if err := db.Model(&service).Update("is_active", service.IsActive).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update service",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    service,
	})
}

// DeleteTailorService handles DELETE /api/v1/tailor/services/:id - removes
// a service. Past order snapshots are unaffected.
func DeleteTailorService(c *gin.Context) {
	tailor, ok := currentTailor(c)
	if !ok {
		return
	}
	serviceID, ok := pathID(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	result := db.Where("id = ? AND tailor_id = ?", serviceID, tailor.ID).Delete(&models.Service{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete service",
			},
		})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SERVICE_NOT_FOUND",
				"message": "Service not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"message": "Service deleted"},
	})
}

// ListCategories handles GET /api/v1/categories - public category list.
func ListCategories(c *gin.Context) {
	var categories []models.Category
	if err := config.GetDB().Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch categories",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    categories,
	})
}

// AdminCreateCategory handles POST /api/v1/admin/categories
func AdminCreateCategory(c *gin.Context) {
	admin, ok := currentAdmin(c)
	if !ok {
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "name is required",
			},
		})
		return
	}

	category := models.Category{
		AdminID: admin.ID,
		Name:    req.Name,
	}
	if err := config.GetDB().Create(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create category",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    category,
	})
}

// AdminUpdateCategory handles PUT /api/v1/admin/categories/:id
func AdminUpdateCategory(c *gin.Context) {
	if _, ok := currentAdmin(c); !ok {
		return
	}
	categoryID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "name is required",
			},
		})
		return
	}

	db := config.GetDB()
	var category models.Category
	if err := db.First(&category, categoryID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CATEGORY_NOT_FOUND",
				"message": "Category not found",
			},
		})
		return
	}

	category.Name = req.Name
	if err := db.Save(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update category",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    category,
	})
}

// AdminDeleteCategory handles DELETE /api/v1/admin/categories/:id - rejects
// deletion while services still reference the category.
func AdminDeleteCategory(c *gin.Context) {
	if _, ok := currentAdmin(c); !ok {
		return
	}
	categoryID, ok := pathID(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var inUse int64
	if err := db.Model(&models.Service{}).Where("category_id = ?", categoryID).Count(&inUse).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to check category usage",
			},
		})
		return
	}
	if inUse > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CATEGORY_IN_USE",
				"message": "Category still has services attached",
			},
		})
		return
	}

	result := db.Delete(&models.Category{}, categoryID)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete category",
			},
		})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CATEGORY_NOT_FOUND",
				"message": "Category not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"message": "Category deleted"},
	})
}
