package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stitchly-app/stitchly-api/config"
	"github.com/stitchly-app/stitchly-api/middleware"
	"github.com/stitchly-app/stitchly-api/models"
	"github.com/stitchly-app/stitchly-api/utils"
)

// currentClient resolves the authenticated principal to their client
// profile. On failure it writes the error response and returns false.
func currentClient(c *gin.Context) (*models.Client, bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return nil, false
	}

	db := config.GetDB()
	var client models.Client
	if err := db.Preload("User").Where("user_id = ?", userID).First(&client).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CLIENT_NOT_FOUND",
				"message": "Client profile not found",
			},
		})
		return nil, false
	}

	return &client, true
}

// currentTailor resolves the authenticated principal to their tailor
// profile and enforces that the tailor has been approved by an admin.
func currentTailor(c *gin.Context) (*models.Tailor, bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return nil, false
	}

	db := config.GetDB()
	var tailor models.Tailor
	if err := db.Preload("User").Where("user_id = ?", userID).First(&tailor).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TAILOR_NOT_FOUND",
				"message": "Tailor profile not found",
			},
		})
		return nil, false
	}

	if !tailor.IsApproved {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TAILOR_NOT_APPROVED",
				"message": "Your tailor account is pending admin approval",
			},
		})
		return nil, false
	}

	return &tailor, true
}

// currentAdmin resolves the authenticated principal to their admin profile.
func currentAdmin(c *gin.Context) (*models.Admin, bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return nil, false
	}

	db := config.GetDB()
	var admin models.Admin
	if err := db.Preload("User").Where("user_id = ?", userID).First(&admin).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ADMIN_NOT_FOUND",
				"message": "Admin profile not found",
			},
		})
		return nil, false
	}

	return &admin, true
}

// pathID parses a numeric path parameter. On failure it writes the error
// response and returns false.
func pathID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Invalid id in URL",
			},
		})
		return 0, false
	}
	return uint(id), true
}

// newPageFromQuery builds pagination from the request's page and page_size
// query parameters (defaulting to page 1, 10 per page).
func newPageFromQuery(c *gin.Context, total int64) utils.Pagination {
	pageSize := 10
	if raw := c.Query("page_size"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			pageSize = n
		}
	}
	return utils.NewPagination(utils.ParsePage(c.Query("page")), pageSize, total)
}
