package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/stitchly-app/stitchly-api/config"
	"github.com/stitchly-app/stitchly-api/middleware"
	"github.com/stitchly-app/stitchly-api/models"
	"github.com/stitchly-app/stitchly-api/services"
)

// UpdateProfileRequest represents the request body for editing contact
// details. Only provided fields change.
type UpdateProfileRequest struct {
	FirstName string `json:"first_name" binding:"omitempty"`
	LastName  string `json:"last_name" binding:"omitempty"`
	Phone     string `json:"phone" binding:"omitempty"`
	Address   string `json:"address" binding:"omitempty"`
}

// ChangePasswordRequest represents the request body for changing a password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// GetClientProfile handles GET /api/v1/client/profile
func GetClientProfile(c *gin.Context) {
	client, ok := currentClient(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    client,
	})
}

// UpdateClientProfile handles PUT /api/v1/client/profile
func UpdateClientProfile(c *gin.Context) {
	client, ok := currentClient(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
			},
		})
		return
	}

	applyProfileUpdates(&client.FirstName, &client.LastName, &client.Phone, &client.Address, req)
	if err := config.GetDB().Save(client).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update profile",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    client,
	})
}

// GetTailorProfile handles GET /api/v1/tailor/profile - the tailor's own
// profile with a resolved picture URL. Approval is not required here so
// pending tailors can still see and complete their profile.
func GetTailorProfile(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
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
		return
	}

	resolveTailorPictureURL(&tailor)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    tailor,
	})
}

// UpdateTailorProfile handles PUT /api/v1/tailor/profile - multipart form
// with contact fields and an optional profile picture.
func UpdateTailorProfile(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	db := config.GetDB()
	var tailor models.Tailor
	if err := db.Where("user_id = ?", userID).First(&tailor).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TAILOR_NOT_FOUND",
				"message": "Tailor profile not found",
			},
		})
		return
	}

	if v := c.PostForm("first_name"); v != "" {
		tailor.FirstName = v
	}
	if v := c.PostForm("last_name"); v != "" {
		tailor.LastName = v
	}
	if v := c.PostForm("phone"); v != "" {
		tailor.Phone = v
	}
	if v := c.PostForm("address"); v != "" {
		tailor.Address = v
	}

	if fileHeader, err := c.FormFile("profile_picture"); err == nil {
		key, err := services.GetImageService().UploadImage(fileHeader, services.ImagePrefixProfiles)
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
		if tailor.ProfilePictureKey != nil {
			_ = services.GetImageService().DeleteImage(*tailor.ProfilePictureKey)
		}
		tailor.ProfilePictureKey = &key
	}

	if err := db.Save(&tailor).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update profile",
			},
		})
		return
	}

	resolveTailorPictureURL(&tailor)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    tailor,
	})
}

// ChangePassword handles PUT password changes for any authenticated role.
func ChangePassword(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "new_password must be at least 8 characters",
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

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_CREDENTIALS",
				"message": "Current password is incorrect",
			},
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Failed to hash password",
			},
		})
		return
	}

	if err := db.Model(&user).Update("password_hash", string(hash)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update password",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"message": "Password updated"},
	})
}

// ListMeasurements handles GET /api/v1/client/measurements
func ListMeasurements(c *gin.Context) {
	client, ok := currentClient(c)
	if !ok {
		return
	}

	var measurements []models.Measurement
	if err := config.GetDB().
		Where("client_id = ?", client.ID).
		Order("id DESC").
		Find(&measurements).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch measurements",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    measurements,
	})
}

// CreateMeasurement handles POST /api/v1/client/measurements
func CreateMeasurement(c *gin.Context) {
	client, ok := currentClient(c)
	if !ok {
		return
	}

	var req MeasurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
			},
		})
		return
	}

	measurement := models.Measurement{
		ClientID:     client.ID,
		Chest:        nullDecimal(req.Chest),
		Waist:        nullDecimal(req.Waist),
		Hips:         nullDecimal(req.Hips),
		Length:       nullDecimal(req.Length),
		SleeveLength: nullDecimal(req.SleeveLength),
		Notes:        req.Notes,
	}
	if err := config.GetDB().Create(&measurement).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save measurements",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    measurement,
	})
}

// UpdateMeasurement handles PUT /api/v1/client/measurements/:id
func UpdateMeasurement(c *gin.Context) {
	client, ok := currentClient(c)
	if !ok {
		return
	}
	measurementID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req MeasurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
			},
		})
		return
	}

	db := config.GetDB()
	var measurement models.Measurement
	if err := db.Where("id = ? AND client_id = ?", measurementID, client.ID).First(&measurement).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MEASUREMENT_NOT_FOUND",
				"message": "Measurement not found",
			},
		})
		return
	}

	measurement.Chest = nullDecimal(req.Chest)
	measurement.Waist = nullDecimal(req.Waist)
	measurement.Hips = nullDecimal(req.Hips)
	measurement.Length = nullDecimal(req.Length)
	measurement.SleeveLength = nullDecimal(req.SleeveLength)
	measurement.Notes = req.Notes
	if err := db.Save(&measurement).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update measurements",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    measurement,
	})
}

// DeleteMeasurement handles DELETE /api/v1/client/measurements/:id
func DeleteMeasurement(c *gin.Context) {
	client, ok := currentClient(c)
	if !ok {
		return
	}
	measurementID, ok := pathID(c, "id")
	if !ok {
		return
	}

	result := config.GetDB().
		Where("id = ? AND client_id = ?", measurementID, client.ID).
		Delete(&models.Measurement{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete measurement",
			},
		})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MEASUREMENT_NOT_FOUND",
				"message": "Measurement not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"message": "Measurement deleted"},
	})
}

func applyProfileUpdates(firstName, lastName, phone, address *string, req UpdateProfileRequest) {
	if req.FirstName != "" {
		*firstName = req.FirstName
	}
	if req.LastName != "" {
		*lastName = req.LastName
	}
	if req.Phone != "" {
		*phone = req.Phone
	}
	if req.Address != "" {
		*address = req.Address
	}
}

func resolveTailorPictureURL(tailor *models.Tailor) {
	if tailor.ProfilePictureKey == nil {
		return
	}
	if url, err := services.GetImageService().GetImageURL(*tailor.ProfilePictureKey); err == nil {
		tailor.ProfilePictureURL = &url
	}
}
