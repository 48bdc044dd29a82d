package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/stitchly-app/stitchly-api/config"
	"github.com/stitchly-app/stitchly-api/middleware"
	"github.com/stitchly-app/stitchly-api/models"
	"github.com/stitchly-app/stitchly-api/services"
)

// UpdateOrderStatusRequest represents the request body for advancing an order
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=accepted in_progress completed"`
}

// ListTailorOrders handles GET /api/v1/tailor/orders - the tailor's orders,
// optionally filtered by status, newest first.
func ListTailorOrders(c *gin.Context) {
	tailor, ok := currentTailor(c)
	if !ok {
		return
	}

	db := config.GetDB()
	query := db.Model(&models.Order{}).Where("tailor_id = ?", tailor.ID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to count orders",
			},
		})
		return
	}

	page := newPageFromQuery(c, total)
	var orders []models.Order
	if err := query.
		Preload("Client").
		Order("created_at DESC").
		Offset(page.Offset()).
		Limit(page.PageSize).
		Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       orders,
		"pagination": page,
	})
}

// GetTailorOrderStats handles GET /api/v1/tailor/orders/stats - order counts
// per status plus earnings from completed orders.
func GetTailorOrderStats(c *gin.Context) {
	tailor, ok := currentTailor(c)
	if !ok {
		return
	}

	db := config.GetDB()
	statuses := []string{
		models.OrderStatusRequested,
		models.OrderStatusAccepted,
		models.OrderStatusInProgress,
		models.OrderStatusCompleted,
		models.OrderStatusCancelled,
	}

	counts := make(map[string]int64, len(statuses))
	for _, status := range statuses {
		var n int64
		if err := db.Model(&models.Order{}).
			Where("tailor_id = ? AND status = ?", tailor.ID, status).
			Count(&n).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to compute order stats",
				},
			})
			return
		}
		counts[status] = n
	}

	var completed []models.Order
	if err := db.Where("tailor_id = ? AND status = ?", tailor.ID, models.OrderStatusCompleted).
		Find(&completed).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to compute earnings",
			},
		})
		return
	}

	earnings := decimal.Zero
	for _, order := range completed {
		earnings = earnings.Add(order.TailorPayout)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"counts":         counts,
			"total_earnings": earnings,
		},
	})
}

// GetTailorOrder handles GET /api/v1/tailor/orders/:id
func GetTailorOrder(c *gin.Context) {
	tailor, ok := currentTailor(c)
	if !ok {
		return
	}
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.Preload("Client").
		Where("id = ? AND tailor_id = ?", orderID, tailor.ID).
		First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	var orderServices []models.OrderService
	db.Preload("Service").Where("order_id = ?", order.ID).Find(&orderServices)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"order":    order,
			"services": orderServices,
		},
	})
}

// AcceptTailorOrder handles POST /api/v1/tailor/orders/:id/accept - moves a
// requested order to accepted and notifies the client.
func AcceptTailorOrder(c *gin.Context) {
	tailorOrderTransition(c, "accept", func(order *models.Order) error {
		return services.AcceptOrder(config.GetDB(), order)
	})
}

// DeclineTailorOrder handles POST /api/v1/tailor/orders/:id/decline - turns
// down a requested order, which cancels it and notifies the client.
func DeclineTailorOrder(c *gin.Context) {
	tailorOrderTransition(c, "decline", func(order *models.Order) error {
		return services.DeclineOrder(config.GetDB(), order)
	})
}

// UpdateTailorOrderStatus handles PUT /api/v1/tailor/orders/:id/status -
// advances an order to accepted, in_progress or completed. Backward moves
// are rejected.
func UpdateTailorOrderStatus(c *gin.Context) {
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "status must be accepted, in_progress or completed",
			},
		})
		return
	}

	tailorOrderTransition(c, "status_update", func(order *models.Order) error {
		return services.UpdateOrderStatus(config.GetDB(), order, req.Status)
	})
}

// tailorOrderTransition loads the tailor's order and applies a transition,
// mapping transition failures to a 409.
func tailorOrderTransition(c *gin.Context, operation string, fn func(order *models.Order) error) {
	tailor, ok := currentTailor(c)
	if !ok {
		return
	}
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.Where("id = ? AND tailor_id = ?", orderID, tailor.ID).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	if err := fn(&order); err != nil {
		middleware.RecordOrderOperation(operation, false)
		if errors.Is(err, services.ErrInvalidTransition) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_TRANSITION",
					"message": "Order cannot move to that status from its current state",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update order",
			},
		})
		return
	}

	middleware.RecordOrderOperation(operation, true)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}
