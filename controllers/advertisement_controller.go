package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stitchly-app/stitchly-api/config"
	"github.com/stitchly-app/stitchly-api/models"
	"github.com/stitchly-app/stitchly-api/services"
	"github.com/stitchly-app/stitchly-api/utils"
)

// ListActiveAdvertisements handles GET /api/v1/advertisements - the banners
// currently running, for guests and clients.
func ListActiveAdvertisements(c *gin.Context) {
	now := time.Now()
	db := config.GetDB()

	var ads []models.Advertisement
	if err := db.Where(
		"(start_date IS NULL OR start_date <= ?) AND (end_date IS NULL OR end_date >= ?)",
		now, now,
	).Order("id DESC").Find(&ads).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch advertisements",
			},
		})
		return
	}

	resolveAdImageURLs(ads)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    ads,
	})
}

// AdminListAdvertisements handles GET /api/v1/admin/advertisements
func AdminListAdvertisements(c *gin.Context) {
	if _, ok := currentAdmin(c); !ok {
		return
	}

	var ads []models.Advertisement
	if err := config.GetDB().Order("id DESC").Find(&ads).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch advertisements",
			},
		})
		return
	}

	resolveAdImageURLs(ads)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    ads,
	})
}

// AdminCreateAdvertisement handles POST /api/v1/admin/advertisements -
// multipart form with title, content, optional tailor_id, optional image
// and optional start/end dates (YYYY-MM-DD).
func AdminCreateAdvertisement(c *gin.Context) {
	admin, ok := currentAdmin(c)
	if !ok {
		return
	}

	title := c.PostForm("title")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "title is required",
			},
		})
		return
	}

	ad := models.Advertisement{
		AdminID: admin.ID,
		Title:   title,
		Content: c.PostForm("content"),
	}

	if raw := c.PostForm("tailor_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "tailor_id must be numeric",
				},
			})
			return
		}
		tailorID := uint(id)
		ad.TailorID = &tailorID
	}

	var parseErr string
	ad.StartDate, parseErr = parseDateForm(c, "start_date")
	if parseErr == "" {
		ad.EndDate, parseErr = parseDateForm(c, "end_date")
	}
	if parseErr != "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": parseErr,
			},
		})
		return
	}
	if ad.StartDate != nil && ad.EndDate != nil && ad.EndDate.Before(*ad.StartDate) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "end_date must not be before start_date",
			},
		})
		return
	}

	if fileHeader, err := c.FormFile("image"); err == nil {
		if err := utils.ValidateImageFile(fileHeader); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": err.Error(),
				},
			})
			return
		}
		key, err := services.GetImageService().UploadImage(fileHeader, services.ImagePrefixAdvertisements)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UPLOAD_ERROR",
					"message": err.Error(),
				},
			})
			return
		}
		ad.ImageKey = &key
	}

	if err := config.GetDB().Create(&ad).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create advertisement",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    ad,
	})
}

// AdminUpdateAdvertisement handles PUT /api/v1/admin/advertisements/:id -
// multipart form; only provided fields change. A new image replaces the
// stored one.
func AdminUpdateAdvertisement(c *gin.Context) {
	if _, ok := currentAdmin(c); !ok {
		return
	}
	adID, ok := pathID(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var ad models.Advertisement
	if err := db.First(&ad, adID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ADVERTISEMENT_NOT_FOUND",
				"message": "Advertisement not found",
			},
		})
		return
	}

	if title := c.PostForm("title"); title != "" {
		ad.Title = title
	}
	if content := c.PostForm("content"); content != "" {
		ad.Content = content
	}

	if raw := c.PostForm("start_date"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "start_date must be formatted as YYYY-MM-DD",
				},
			})
			return
		}
		ad.StartDate = &date
	}
	if raw := c.PostForm("end_date"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "end_date must be formatted as YYYY-MM-DD",
				},
			})
			return
		}
		ad.EndDate = &date
	}

	if fileHeader, err := c.FormFile("image"); err == nil {
		if err := utils.ValidateImageFile(fileHeader); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": err.Error(),
				},
			})
			return
		}
		key, err := services.GetImageService().UploadImage(fileHeader, services.ImagePrefixAdvertisements)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UPLOAD_ERROR",
					"message": err.Error(),
				},
			})
			return
		}
		if ad.ImageKey != nil {
			// Old image cleanup failure is not fatal.
			_ = services.GetImageService().DeleteImage(*ad.ImageKey)
		}
		ad.ImageKey = &key
	}

	if err := db.Save(&ad).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update advertisement",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    ad,
	})
}

// AdminDeleteAdvertisement handles DELETE /api/v1/admin/advertisements/:id
func AdminDeleteAdvertisement(c *gin.Context) {
	if _, ok := currentAdmin(c); !ok {
		return
	}
	adID, ok := pathID(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var ad models.Advertisement
	if err := db.First(&ad, adID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ADVERTISEMENT_NOT_FOUND",
				"message": "Advertisement not found",
			},
		})
		return
	}

	if err := db.Delete(&ad).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete advertisement",
			},
		})
		return
	}

	if ad.ImageKey != nil {
		_ = services.GetImageService().DeleteImage(*ad.ImageKey)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"message": "Advertisement deleted"},
	})
}

func parseDateForm(c *gin.Context, field string) (*time.Time, string) {
	raw := c.PostForm(field)
	if raw == "" {
		return nil, ""
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, field + " must be formatted as YYYY-MM-DD"
	}
	return &date, ""
}

// resolveAdImageURLs fills the transient ImageURL field with presigned
// links. Resolution failures leave the URL unset.
func resolveAdImageURLs(ads []models.Advertisement) {
	imageService := services.GetImageService()
	for i := range ads {
		if ads[i].ImageKey == nil {
			continue
		}
		if url, err := imageService.GetImageURL(*ads[i].ImageKey); err == nil {
			ads[i].ImageURL = &url
		}
	}
}
