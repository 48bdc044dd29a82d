package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stitchly-app/stitchly-api/config"
	"github.com/stitchly-app/stitchly-api/models"
)

// BulkUserStatusRequest represents the request body for blocking or
// unblocking several accounts at once.
type BulkUserStatusRequest struct {
	UserIDs []uint `json:"user_ids" binding:"required,min=1"`
	Status  string `json:"status" binding:"required,oneof=active blocked"`
}

// RejectTailorRequest carries the optional reason sent with a rejection
type RejectTailorRequest struct {
	Reason string `json:"reason" binding:"omitempty"`
}

// AdminListUsers handles GET /api/v1/admin/users - accounts filtered by
// role, status and a search term matched against the email.
func AdminListUsers(c *gin.Context) {
	if _, ok := currentAdmin(c); !ok {
		return
	}

	db := config.GetDB()
	query := db.Model(&models.User{})
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("email LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to count users",
			},
		})
		return
	}

	page := newPageFromQuery(c, total)
	var users []models.User
	if err := query.
		Order("created_at DESC").
		Offset(page.Offset()).
		Limit(page.PageSize).
		Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch users",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       users,
		"pagination": page,
	})
}

// AdminBlockUser handles PUT /api/v1/admin/users/:id/block
func AdminBlockUser(c *gin.Context) {
	setUserStatus(c, models.UserStatusBlocked)
}

// AdminUnblockUser handles PUT /api/v1/admin/users/:id/unblock
func AdminUnblockUser(c *gin.Context) {
	setUserStatus(c, models.UserStatusActive)
}

func setUserStatus(c *gin.Context, status string) {
	admin, ok := currentAdmin(c)
	if !ok {
		return
	}
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if userID == admin.UserID {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "You cannot change your own account status",
			},
		})
		return
	}

	db := config.GetDB()
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "USER_NOT_FOUND",
				"message": "User not found",
			},
		})
		return
	}

	if err := db.Model(&user).Update("status", status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update user",
			},
		})
		return
	}

	user.Status = status
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// AdminBulkSetUserStatus handles PUT /api/v1/admin/users/bulk-status -
// applies a status to several accounts in one transaction.
func AdminBulkSetUserStatus(c *gin.Context) {
	admin, ok := currentAdmin(c)
	if !ok {
		return
	}

	var req BulkUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "user_ids and a valid status are required",
			},
		})
		return
	}
	for _, id := range req.UserIDs {
		if id == admin.UserID {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_REQUEST",
					"message": "You cannot change your own account status",
				},
			})
			return
		}
	}

	var updated int64
	err := config.GetDB().Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.User{}).
			Where("id IN ?", req.UserIDs).
			Update("status", req.Status)
		updated = result.RowsAffected
		return result.Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update users",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"updated": updated},
	})
}

// AdminListPendingTailors handles GET /api/v1/admin/tailors/pending - the
// tailor profiles awaiting approval.
func AdminListPendingTailors(c *gin.Context) {
	if _, ok := currentAdmin(c); !ok {
		return
	}

	var tailors []models.Tailor
	if err := config.GetDB().Preload("User").
		Where("is_approved = ?", false).
		Find(&tailors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch tailors",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    tailors,
	})
}

// AdminApproveTailor handles PUT /api/v1/admin/tailors/:id/approve - marks
// the tailor approved and notifies them.
func AdminApproveTailor(c *gin.Context) {
	if _, ok := currentAdmin(c); !ok {
		return
	}
	tailorID, ok := pathID(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var tailor models.Tailor
	if err := db.First(&tailor, tailorID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TAILOR_NOT_FOUND",
				"message": "Tailor not found",
			},
		})
		return
	}
	if tailor.IsApproved {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ALREADY_APPROVED",
				"message": "Tailor is already approved",
			},
		})
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&tailor).Update("is_approved", true).Error; err != nil {
			return err
		}
		notification := models.Notification{
			TailorID: &tailor.ID,
			Message:  "Your tailor profile has been approved. You can now receive orders.",
			Type:     "profile_approved",
			Status:   models.NotificationUnread,
			Date:     time.Now(),
		}
		return tx.Create(&notification).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to approve tailor",
			},
		})
		return
	}

	tailor.IsApproved = true
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    tailor,
	})
}

// AdminRejectTailor handles PUT /api/v1/admin/tailors/:id/reject - keeps
// the profile unapproved and notifies the tailor with the given reason.
func AdminRejectTailor(c *gin.Context) {
	if _, ok := currentAdmin(c); !ok {
		return
	}
	tailorID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req RejectTailorRequest
	_ = c.ShouldBindJSON(&req)

	db := config.GetDB()
	var tailor models.Tailor
	if err := db.First(&tailor, tailorID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TAILOR_NOT_FOUND",
				"message": "Tailor not found",
			},
		})
		return
	}

	message := "Your tailor profile was not approved."
	if req.Reason != "" {
		message += " Reason: " + req.Reason
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&tailor).Update("is_approved", false).Error; err != nil {
			return err
		}
		notification := models.Notification{
			TailorID: &tailor.ID,
			Message:  message,
			Type:     "profile_rejected",
			Status:   models.NotificationUnread,
			Date:     time.Now(),
		}
		return tx.Create(&notification).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to reject tailor",
			},
		})
		return
	}

	tailor.IsApproved = false
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    tailor,
	})
}
