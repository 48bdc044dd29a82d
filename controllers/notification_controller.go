package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stitchly-app/stitchly-api/config"
	"github.com/stitchly-app/stitchly-api/models"
)

// ClientListNotifications handles GET /api/v1/client/notifications
func ClientListNotifications(c *gin.Context) {
	client, ok := currentClient(c)
	if !ok {
		return
	}
	listNotifications(c, "client_id", client.ID)
}

// ClientUnreadNotificationCount handles GET /api/v1/client/notifications/unread-count
func ClientUnreadNotificationCount(c *gin.Context) {
	client, ok := currentClient(c)
	if !ok {
		return
	}
	unreadNotificationCount(c, "client_id", client.ID)
}

// ClientMarkNotificationRead handles PUT /api/v1/client/notifications/:id/read
func ClientMarkNotificationRead(c *gin.Context) {
	client, ok := currentClient(c)
	if !ok {
		return
	}
	markNotificationRead(c, "client_id", client.ID)
}

// ClientMarkAllNotificationsRead handles PUT /api/v1/client/notifications/read-all
func ClientMarkAllNotificationsRead(c *gin.Context) {
	client, ok := currentClient(c)
	if !ok {
		return
	}
	markAllNotificationsRead(c, "client_id", client.ID)
}

// TailorListNotifications handles GET /api/v1/tailor/notifications
func TailorListNotifications(c *gin.Context) {
	tailor, ok := currentTailor(c)
	if !ok {
		return
	}
	listNotifications(c, "tailor_id", tailor.ID)
}

// TailorUnreadNotificationCount handles GET /api/v1/tailor/notifications/unread-count
func TailorUnreadNotificationCount(c *gin.Context) {
	tailor, ok := currentTailor(c)
	if !ok {
		return
	}
	unreadNotificationCount(c, "tailor_id", tailor.ID)
}

// TailorMarkNotificationRead handles PUT /api/v1/tailor/notifications/:id/read
func TailorMarkNotificationRead(c *gin.Context) {
	tailor, ok := currentTailor(c)
	if !ok {
		return
	}
	markNotificationRead(c, "tailor_id", tailor.ID)
}

// TailorMarkAllNotificationsRead handles PUT /api/v1/tailor/notifications/read-all
func TailorMarkAllNotificationsRead(c *gin.Context) {
	tailor, ok := currentTailor(c)
	if !ok {
		return
	}
	markAllNotificationsRead(c, "tailor_id", tailor.ID)
}

func listNotifications(c *gin.Context, ownerColumn string, ownerID uint) {
	db := config.GetDB()
	query := db.Model(&models.Notification{}).Where(ownerColumn+" = ?", ownerID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to count notifications",
			},
		})
		return
	}

	page := newPageFromQuery(c, total)
	var notifications []models.Notification
	if err := query.
		Order("date DESC").
		Offset(page.Offset()).
		Limit(page.PageSize).
		Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch notifications",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       notifications,
		"pagination": page,
	})
}

func unreadNotificationCount(c *gin.Context, ownerColumn string, ownerID uint) {
	var count int64
	if err := config.GetDB().Model(&models.Notification{}).
		Where(ownerColumn+" = ? AND status = ?", ownerID, models.NotificationUnread).
		Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to count notifications",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"unread_count": count},
	})
}

func markNotificationRead(c *gin.Context, ownerColumn string, ownerID uint) {
	notificationID, ok := pathID(c, "id")
	if !ok {
		return
	}

	result := config.GetDB().Model(&models.Notification{}).
		Where("id = ? AND "+ownerColumn+" = ?", notificationID, ownerID).
		Update("status", models.NotificationRead)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update notification",
			},
		})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOTIFICATION_NOT_FOUND",
				"message": "Notification not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"message": "Notification marked as read"},
	})
}

func markAllNotificationsRead(c *gin.Context, ownerColumn string, ownerID uint) {
	result := config.GetDB().Model(&models.Notification{}).
		Where(ownerColumn+" = ? AND status = ?", ownerID, models.NotificationUnread).
		Update("status", models.NotificationRead)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update notifications",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"updated": result.RowsAffected},
	})
}
