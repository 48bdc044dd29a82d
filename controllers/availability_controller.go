package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stitchly-app/stitchly-api/config"
	"github.com/stitchly-app/stitchly-api/models"
)

// Default working hours used when a bulk update omits times.
const (
	defaultWorkdayStart = "09:00"
	defaultWorkdayEnd   = "17:00"
)

// AvailabilityRequest represents the request body for creating or updating
// a weekly availability window.
type AvailabilityRequest struct {
	DayOfWeek   string  `json:"day_of_week" binding:"required,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	StartTime   *string `json:"start_time" binding:"omitempty"`
	EndTime     *string `json:"end_time" binding:"omitempty"`
	IsAvailable *bool   `json:"is_available" binding:"omitempty"`
}

// BulkAvailabilityRequest replaces a tailor's full weekly schedule.
type BulkAvailabilityRequest struct {
	Days []AvailabilityRequest `json:"days" binding:"required,min=1,dive"`
}

// ListAvailabilities handles GET /api/v1/tailor/availabilities
func ListAvailabilities(c *gin.Context) {
	tailor, ok := currentTailor(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var availabilities []models.Availability
	if err := db.Where("tailor_id = ?", tailor.ID).Find(&availabilities).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch availabilities",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    availabilities,
	})
}

// CreateAvailability handles POST /api/v1/tailor/availabilities - adds a
// weekly window. Overlapping available windows on the same day are rejected.
func CreateAvailability(c *gin.Context) {
	tailor, ok := currentTailor(c)
	if !ok {
		return
	}

	var req AvailabilityRequest
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
	if msg, ok := validateWindow(req.StartTime, req.EndTime); !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": msg,
			},
		})
		return
	}

	availability := models.Availability{
		TailorID:    tailor.ID,
		DayOfWeek:   strings.ToLower(req.DayOfWeek),
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		IsAvailable: true,
	}
	if req.IsAvailable != nil {
		availability.IsAvailable = *req.IsAvailable
	}

	db := config.GetDB()
	if availability.IsAvailable {
		conflict, err := hasOverlap(db, tailor.ID, availability.DayOfWeek, availability.StartTime, availability.EndTime, 0)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to check schedule",
				},
			})
			return
		}
		if conflict {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "SCHEDULE_CONFLICT",
					"message": "This window overlaps an existing availability",
				},
			})
			return
		}
	}

	if err := db.Create(&availability).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create availability",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    availability,
	})
}

// UpdateAvailability handles PUT /api/v1/tailor/availabilities/:id
func UpdateAvailability(c *gin.Context) {
	tailor, ok := currentTailor(c)
	if !ok {
		return
	}
	availabilityID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req AvailabilityRequest
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
	if msg, ok := validateWindow(req.StartTime, req.EndTime); !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": msg,
			},
		})
		return
	}

	db := config.GetDB()
	var availability models.Availability
	if err := db.Where("id = ? AND tailor_id = ?", availabilityID, tailor.ID).First(&availability).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "AVAILABILITY_NOT_FOUND",
				"message": "Availability not found",
			},
		})
		return
	}

	availability.DayOfWeek = strings.ToLower(req.DayOfWeek)
	availability.StartTime = req.StartTime
	availability.EndTime = req.EndTime
	if req.IsAvailable != nil {
		availability.IsAvailable = *req.IsAvailable
	}

	if availability.IsAvailable {
		conflict, err := hasOverlap(db, tailor.ID, availability.DayOfWeek, availability.StartTime, availability.EndTime, availability.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to check schedule",
				},
			})
			return
		}
		if conflict {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "SCHEDULE_CONFLICT",
					"message": "This window overlaps an existing availability",
				},
			})
			return
		}
	}

	if err := db.Save(&availability).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update availability",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    availability,
	})
}

// DeleteAvailability handles DELETE /api/v1/tailor/availabilities/:id
func DeleteAvailability(c *gin.Context) {
	tailor, ok := currentTailor(c)
	if !ok {
		return
	}
	availabilityID, ok := pathID(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	result := db.Where("id = ? AND tailor_id = ?", availabilityID, tailor.ID).Delete(&models.Availability{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete availability",
			},
		})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "AVAILABILITY_NOT_FOUND",
				"message": "Availability not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"message": "Availability deleted"},
	})
}

// BulkSetAvailabilities handles PUT /api/v1/tailor/availabilities - replaces
// the tailor's entire weekly schedule in one transaction. Days without
// explicit times get the default 09:00-17:00 window.
func BulkSetAvailabilities(c *gin.Context) {
	tailor, ok := currentTailor(c)
	if !ok {
		return
	}

	var req BulkAvailabilityRequest
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

	rows := make([]models.Availability, 0, len(req.Days))
	seen := make(map[string]bool)
	for _, day := range req.Days {
		name := strings.ToLower(day.DayOfWeek)
		if seen[name] {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Duplicate day in schedule: " + name,
				},
			})
			return
		}
		seen[name] = true

		start, end := day.StartTime, day.EndTime
		if start == nil {
			s := defaultWorkdayStart
			start = &s
		}
		if end == nil {
			e := defaultWorkdayEnd
			end = &e
		}
		if msg, ok := validateWindow(start, end); !ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": msg,
				},
			})
			return
		}

		row := models.Availability{
			TailorID:    tailor.ID,
			DayOfWeek:   name,
			StartTime:   start,
			EndTime:     end,
			IsAvailable: true,
		}
		if day.IsAvailable != nil {
			row.IsAvailable = *day.IsAvailable
		}
		rows = append(rows, row)
	}

	db := config.GetDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tailor_id = ?", tailor.ID).Delete(&models.Availability{}).Error; err != nil {
			return err
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to replace schedule",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    rows,
	})
}

// validateWindow checks that start and end are well formed "HH:MM" values
// with start strictly before end. Both nil is allowed (day marked off).
func validateWindow(start, end *string) (string, bool) {
	if start == nil && end == nil {
		return "", true
	}
	if start == nil || end == nil {
		return "start_time and end_time must be provided together", false
	}
	if !validTimeOfDay(*start) || !validTimeOfDay(*end) {
		return "Times must be formatted as HH:MM", false
	}
	if *start >= *end {
		return "start_time must be before end_time", false
	}
	return "", true
}

func validTimeOfDay(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	hh := s[:2]
	mm := s[3:]
	for _, r := range hh + mm {
		if r < '0' || r > '9' {
			return false
		}
	}
	return hh <= "23" && mm <= "59"
}

// hasOverlap reports whether an available window on the same day intersects
// [start, end). Lexicographic comparison works for zero-padded "HH:MM".
func hasOverlap(db *gorm.DB, tailorID uint, dayOfWeek string, start, end *string, excludeID uint) (bool, error) {
	if start == nil || end == nil {
		return false, nil
	}

	var count int64
	err := db.Model(&models.Availability{}).
		Where("tailor_id = ? AND day_of_week = ? AND is_available = ?", tailorID, dayOfWeek, true).
		Where("id <> ?", excludeID).
		Where("start_time < ? AND end_time > ?", *end, *start).
		Count(&count).Error
	return count > 0, err
}
