package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/stitchly-app/stitchly-api/config"
	"github.com/stitchly-app/stitchly-api/models"
)

// CreateReviewRequest represents the request body for reviewing an order
type CreateReviewRequest struct {
	OrderID   uint   `json:"order_id" binding:"required"`
	ServiceID uint   `json:"service_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment" binding:"omitempty"`
}

// UpdateReviewRequest represents the request body for editing a review
type UpdateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"omitempty"`
}

// CreateReview handles POST /api/v1/client/reviews - reviews a completed
// order. One review per client per order.
func CreateReview(c *gin.Context) {
	client, ok := currentClient(c)
	if !ok {
		return
	}

	var req CreateReviewRequest
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

	db := config.GetDB()
	var order models.Order
	if err := db.Where("id = ? AND client_id = ?", req.OrderID, client.ID).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}
	if order.Status != models.OrderStatusCompleted {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_TRANSITION",
				"message": "Only completed orders can be reviewed",
			},
		})
		return
	}

	var booked int64
	db.Model(&models.OrderService{}).
		Where("order_id = ? AND service_id = ?", order.ID, req.ServiceID).
		Count(&booked)
	if booked == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Service was not part of this order",
			},
		})
		return
	}

	var existing int64
	db.Model(&models.Review{}).
		Where("client_id = ? AND order_id = ?", client.ID, order.ID).
		Count(&existing)
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "REVIEW_EXISTS",
				"message": "You have already reviewed this order",
			},
		})
		return
	}

	review := models.Review{
		ClientID:  client.ID,
		OrderID:   order.ID,
		ServiceID: req.ServiceID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := db.Create(&review).Error; err != nil {
		// A concurrent duplicate slips past the count above and lands on
		// the unique index instead (works with both PostgreSQL and SQLite)
		errMsg := strings.ToLower(err.Error())
		if strings.Contains(errMsg, "duplicate") ||
			strings.Contains(errMsg, "unique constraint") ||
			strings.Contains(errMsg, "unique") {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "REVIEW_EXISTS",
					"message": "You have already reviewed this order",
				},
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create review",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    review,
	})
}

// ListClientReviews handles GET /api/v1/client/reviews - the client's own
// reviews, newest first.
func ListClientReviews(c *gin.Context) {
	client, ok := currentClient(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var reviews []models.Review
	if err := db.Preload("Service").
		Where("client_id = ?", client.ID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch reviews",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    reviews,
	})
}

// UpdateReview handles PUT /api/v1/client/reviews/:id
func UpdateReview(c *gin.Context) {
	client, ok := currentClient(c)
	if !ok {
		return
	}
	reviewID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "rating must be between 1 and 5",
			},
		})
		return
	}

	db := config.GetDB()
	var review models.Review
	if err := db.Where("id = ? AND client_id = ?", reviewID, client.ID).First(&review).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "REVIEW_NOT_FOUND",
				"message": "Review not found",
			},
		})
		return
	}

	review.Rating = req.Rating
	review.Comment = req.Comment
	if err := db.Save(&review).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update review",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    review,
	})
}

// DeleteReview handles DELETE /api/v1/client/reviews/:id
func DeleteReview(c *gin.Context) {
	client, ok := currentClient(c)
	if !ok {
		return
	}
	reviewID, ok := pathID(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	result := db.Where("id = ? AND client_id = ?", reviewID, client.ID).Delete(&models.Review{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete review",
			},
		})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "REVIEW_NOT_FOUND",
				"message": "Review not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"message": "Review deleted"},
	})
}

// AdminListReviews handles GET /api/v1/admin/reviews - all reviews for
// moderation, newest first.
func AdminListReviews(c *gin.Context) {
	if _, ok := currentAdmin(c); !ok {
		return
	}

	db := config.GetDB()
	var total int64
	if err := db.Model(&models.Review{}).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to count reviews",
			},
		})
		return
	}

	page := newPageFromQuery(c, total)
	var reviews []models.Review
	if err := db.Preload("Client").Preload("Service").
		Order("created_at DESC").
		Offset(page.Offset()).
		Limit(page.PageSize).
		Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch reviews",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       reviews,
		"pagination": page,
	})
}

// AdminDeleteReview handles DELETE /api/v1/admin/reviews/:id - removes a
// review that violates platform rules.
func AdminDeleteReview(c *gin.Context) {
	if _, ok := currentAdmin(c); !ok {
		return
	}
	reviewID, ok := pathID(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	result := db.Delete(&models.Review{}, reviewID)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete review",
			},
		})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "REVIEW_NOT_FOUND",
				"message": "Review not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"message": "Review deleted"},
	})
}
