package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stitchly-app/stitchly-api/config"
	"github.com/stitchly-app/stitchly-api/models"
)

// tailorListing is the public view of a tailor with their rating.
type tailorListing struct {
	models.Tailor
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
}

// ListTailors handles GET /api/v1/tailors - approved tailors, optionally
// filtered by a search term against the name or a category they serve.
func ListTailors(c *gin.Context) {
	db := config.GetDB()
	query := db.Model(&models.Tailor{}).Where("is_approved = ?", true)

	if search := c.Query("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("first_name LIKE ? OR last_name LIKE ?", pattern, pattern)
	}
	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Where(
			"id IN (?)",
			db.Model(&models.Service{}).
				Select("tailor_id").
				Where("category_id = ? AND is_active = ?", categoryID, true),
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to count tailors",
			},
		})
		return
	}

	page := newPageFromQuery(c, total)
	var tailors []models.Tailor
	if err := query.
		Offset(page.Offset()).
		Limit(page.PageSize).
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

	listings := make([]tailorListing, len(tailors))
	for i, tailor := range tailors {
		resolveTailorPictureURL(&tailor)
		avg, count := tailorRating(db, tailor.ID)
		listings[i] = tailorListing{Tailor: tailor, AverageRating: avg, ReviewCount: count}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       listings,
		"pagination": page,
	})
}

// GetTailorPublicProfile handles GET /api/v1/tailors/:id - an approved
// tailor's profile with active services, weekly schedule and reviews.
func GetTailorPublicProfile(c *gin.Context) {
	tailorID, ok := pathID(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var tailor models.Tailor
	if err := db.Where("id = ? AND is_approved = ?", tailorID, true).First(&tailor).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TAILOR_NOT_FOUND",
				"message": "Tailor not found",
			},
		})
		return
	}
	resolveTailorPictureURL(&tailor)

	var activeServices []models.Service
	db.Preload("Category").
		Where("tailor_id = ? AND is_active = ?", tailor.ID, true).
		Find(&activeServices)

	var schedule []models.Availability
	db.Where("tailor_id = ? AND is_available = ?", tailor.ID, true).Find(&schedule)

	var reviews []models.Review
	db.Preload("Client").
		Joins("JOIN orders ON orders.id = reviews.order_id").
		Where("orders.tailor_id = ?", tailor.ID).
		Order("reviews.created_at DESC").
		Limit(20).
		Find(&reviews)

	avg, count := tailorRating(db, tailor.ID)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"tailor":         tailorListing{Tailor: tailor, AverageRating: avg, ReviewCount: count},
			"services":       activeServices,
			"availabilities": schedule,
			"reviews":        reviews,
		},
	})
}

// tailorRating averages review ratings across the tailor's orders. Zero
// reviews yields a zero average.
func tailorRating(db *gorm.DB, tailorID uint) (float64, int64) {
	type aggregate struct {
		Avg   float64
		Count int64
	}

	var agg aggregate
	db.Model(&models.Review{}).
		Select("COALESCE(AVG(reviews.rating), 0) AS avg, COUNT(*) AS count").
		Joins("JOIN orders ON orders.id = reviews.order_id").
		Where("orders.tailor_id = ?", tailorID).
		Scan(&agg)
	return agg.Avg, agg.Count
}
