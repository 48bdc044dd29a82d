package controllers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/stitchly-app/stitchly-api/models"
	"github.com/stitchly-app/stitchly-api/services"
	"github.com/stitchly-app/stitchly-api/tests/testutil"
)

type profileFixture struct {
	db           *gorm.DB
	client       *models.Client
	tailor       *models.Tailor
	clientRouter *gin.Engine
	tailorRouter *gin.Engine
}

func setupProfileTest(t *testing.T) *profileFixture {
	t.Helper()

	db := testutil.OpenTestDB(t)
	client := testutil.CreateClient(t, db, "profile-client@test.com")
	tailor := testutil.CreateTailor(t, db, "profile-tailor@test.com")

	clientRouter := setupTestRouter()
	clientAuth := testutil.MockAuth(userOf(t, db, client.UserID))
	clientRouter.GET("/client/profile", clientAuth, GetClientProfile)
	clientRouter.PUT("/client/profile", clientAuth, UpdateClientProfile)
	clientRouter.PUT("/client/password", clientAuth, ChangePassword)
	clientRouter.GET("/client/measurements", clientAuth, ListMeasurements)
	clientRouter.POST("/client/measurements", clientAuth, CreateMeasurement)
	clientRouter.PUT("/client/measurements/:id", clientAuth, UpdateMeasurement)
	clientRouter.DELETE("/client/measurements/:id", clientAuth, DeleteMeasurement)

	tailorRouter := setupTestRouter()
	tailorAuth := testutil.MockAuth(userOf(t, db, tailor.UserID))
	tailorRouter.GET("/tailor/profile", tailorAuth, GetTailorProfile)
	tailorRouter.PUT("/tailor/profile", tailorAuth, UpdateTailorProfile)

	return &profileFixture{
		db:           db,
		client:       client,
		tailor:       tailor,
		clientRouter: clientRouter,
		tailorRouter: tailorRouter,
	}
}

func putMultipart(t *testing.T, router *gin.Engine, path string, fields map[string]string, pictureName string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}
	if pictureName != "" {
		part, err := writer.CreateFormFile("profile_picture", pictureName)
		require.NoError(t, err)
		_, err = part.Write([]byte("fake image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPut, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetClientProfile(t *testing.T) {
	fx := setupProfileTest(t)

	w := doJSON(t, fx.clientRouter, http.MethodGet, "/client/profile", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "Test", data["first_name"])
	assert.Equal(t, "Client", data["last_name"])
	assert.Equal(t, "profile-client@test.com", data["user"].(map[string]interface{})["email"])
}

func TestUpdateClientProfile(t *testing.T) {
	fx := setupProfileTest(t)

	w := doJSON(t, fx.clientRouter, http.MethodPut, "/client/profile", gin.H{
		"phone":   "0509998877",
		"address": "5 New Street",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stored models.Client
	require.NoError(t, fx.db.First(&stored, fx.client.ID).Error)
	assert.Equal(t, "0509998877", stored.Phone)
	assert.Equal(t, "5 New Street", stored.Address)
	// omitted fields keep their values
	assert.Equal(t, "Test", stored.FirstName)
	assert.Equal(t, "Client", stored.LastName)
}

func TestUpdateClientProfileMalformed(t *testing.T) {
	fx := setupProfileTest(t)

	w := doJSON(t, fx.clientRouter, http.MethodPut, "/client/profile", gin.H{
		"first_name": 42,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeResponse(t, w)
	errObj := resp["error"].(map[string]interface{})
	assert.Equal(t, "VALIDATION_ERROR", errObj["code"])
}

func TestGetTailorProfilePendingApproval(t *testing.T) {
	fx := setupProfileTest(t)
	require.NoError(t, fx.db.Model(fx.tailor).Update("is_approved", false).Error)

	w := doJSON(t, fx.tailorRouter, http.MethodGet, "/tailor/profile", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "Tailor", data["last_name"])
	assert.Equal(t, false, data["is_approved"])
}

func TestUpdateTailorProfile(t *testing.T) {
	fx := setupProfileTest(t)

	mock := services.NewMockImageService()
	mock.Install()
	t.Cleanup(func() { services.SetImageService(nil) })

	w := putMultipart(t, fx.tailorRouter, "/tailor/profile",
		map[string]string{"phone": "0501112233"}, "portrait.png")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stored models.Tailor
	require.NoError(t, fx.db.First(&stored, fx.tailor.ID).Error)
	assert.Equal(t, "0501112233", stored.Phone)
	require.NotNil(t, stored.ProfilePictureKey)
	assert.Contains(t, *stored.ProfilePictureKey, services.ImagePrefixProfiles+"/")

	resp := decodeResponse(t, w)
	data := resp["data"].(map[string]interface{})
	assert.Contains(t, data["profile_picture_url"], *stored.ProfilePictureKey)

	// replacing the picture removes the old object
	firstKey := *stored.ProfilePictureKey
	w = putMultipart(t, fx.tailorRouter, "/tailor/profile", nil, "portrait2.png")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, mock.StoredCount())

	require.NoError(t, fx.db.First(&stored, fx.tailor.ID).Error)
	assert.NotEqual(t, firstKey, *stored.ProfilePictureKey)
}

func TestUpdateTailorProfileUploadFailure(t *testing.T) {
	fx := setupProfileTest(t)

	mock := services.NewMockImageService()
	mock.FailUploads = true
	mock.Install()
	t.Cleanup(func() { services.SetImageService(nil) })

	w := putMultipart(t, fx.tailorRouter, "/tailor/profile",
		map[string]string{"phone": "0507776655"}, "portrait.png")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeResponse(t, w)
	errObj := resp["error"].(map[string]interface{})
	assert.Equal(t, "UPLOAD_ERROR", errObj["code"])

	// a failed upload aborts the whole update
	var stored models.Tailor
	require.NoError(t, fx.db.First(&stored, fx.tailor.ID).Error)
	assert.Equal(t, "0500000002", stored.Phone)
	assert.Nil(t, stored.ProfilePictureKey)
}

func TestChangePassword(t *testing.T) {
	fx := setupProfileTest(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("old-password"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, fx.db.Model(&models.User{}).
		Where("id = ?", fx.client.UserID).
		Update("password_hash", string(hash)).Error)

	code := putJSON(t, fx.clientRouter, "/client/password", gin.H{
		"current_password": "old-password",
		"new_password":     "brand-new-password",
	})
	require.Equal(t, http.StatusOK, code)

	user := userOf(t, fx.db, fx.client.UserID)
	assert.NoError(t, bcrypt.CompareHashAndPassword(
		[]byte(user.PasswordHash), []byte("brand-new-password")))
}

func TestChangePasswordRejections(t *testing.T) {
	fx := setupProfileTest(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("old-password"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, fx.db.Model(&models.User{}).
		Where("id = ?", fx.client.UserID).
		Update("password_hash", string(hash)).Error)

	t.Run("wrong current password", func(t *testing.T) {
		w := doJSON(t, fx.clientRouter, http.MethodPut, "/client/password", gin.H{
			"current_password": "not-the-password",
			"new_password":     "brand-new-password",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		resp := decodeResponse(t, w)
		errObj := resp["error"].(map[string]interface{})
		assert.Equal(t, "INVALID_CREDENTIALS", errObj["code"])
	})

	t.Run("new password too short", func(t *testing.T) {
		code := putJSON(t, fx.clientRouter, "/client/password", gin.H{
			"current_password": "old-password",
			"new_password":     "short",
		})
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("missing current password", func(t *testing.T) {
		code := putJSON(t, fx.clientRouter, "/client/password", gin.H{
			"new_password": "brand-new-password",
		})
		assert.Equal(t, http.StatusBadRequest, code)
	})

	// nothing above should have changed the hash
	user := userOf(t, fx.db, fx.client.UserID)
	assert.NoError(t, bcrypt.CompareHashAndPassword(
		[]byte(user.PasswordHash), []byte("old-password")))
}

func TestMeasurementLifecycle(t *testing.T) {
	fx := setupProfileTest(t)

	w := postJSON(t, fx.clientRouter, "/client/measurements", gin.H{
		"chest": "98.5",
		"waist": "82",
		"notes": "Winter coat fitting",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := decodeResponse(t, w)
	created := resp["data"].(map[string]interface{})
	assert.Equal(t, "98.5", created["chest"])
	assert.Nil(t, created["hips"])

	w = postJSON(t, fx.clientRouter, "/client/measurements", gin.H{
		"length": "110",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// newest first
	w = doJSON(t, fx.clientRouter, http.MethodGet, "/client/measurements", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = decodeResponse(t, w)
	list := resp["data"].([]interface{})
	require.Len(t, list, 2)
	assert.Equal(t, "110", list[0].(map[string]interface{})["length"])
	assert.Equal(t, "Winter coat fitting", list[1].(map[string]interface{})["notes"])

	first := uint(created["id"].(float64))
	code := putJSON(t, fx.clientRouter, "/client/measurements/"+itoa(first), gin.H{
		"chest": "99",
		"waist": "83.5",
	})
	require.Equal(t, http.StatusOK, code)

	var stored models.Measurement
	require.NoError(t, fx.db.First(&stored, first).Error)
	assert.True(t, stored.Chest.Decimal.Equal(decimal.RequireFromString("99")))
	// an update replaces every field, so the note clears
	assert.Empty(t, stored.Notes)

	w = doJSON(t, fx.clientRouter, http.MethodDelete, "/client/measurements/"+itoa(first), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, fx.db.Model(&models.Measurement{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestMeasurementOwnership(t *testing.T) {
	fx := setupProfileTest(t)
	other := testutil.CreateClient(t, fx.db, "other-client@test.com")

	measurement := models.Measurement{
		ClientID: other.ID,
		Notes:    "someone else's",
	}
	require.NoError(t, fx.db.Create(&measurement).Error)

	code := putJSON(t, fx.clientRouter, "/client/measurements/"+itoa(measurement.ID), gin.H{
		"chest": "100",
	})
	assert.Equal(t, http.StatusNotFound, code)

	w := doJSON(t, fx.clientRouter, http.MethodDelete, "/client/measurements/"+itoa(measurement.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var count int64
	require.NoError(t, fx.db.Model(&models.Measurement{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestDeleteMeasurementUnknown(t *testing.T) {
	fx := setupProfileTest(t)

	w := doJSON(t, fx.clientRouter, http.MethodDelete, "/client/measurements/9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	resp := decodeResponse(t, w)
	errObj := resp["error"].(map[string]interface{})
	assert.Equal(t, "MEASUREMENT_NOT_FOUND", errObj["code"])
}
