package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/stitchly-app/stitchly-api/models"
	"github.com/stitchly-app/stitchly-api/tests/testutil"
)

func serviceRouter(t *testing.T, db *gorm.DB, tailor *models.Tailor) *gin.Engine {
	t.Helper()

	router := setupTestRouter()
	authed := router.Group("/tailor", testutil.MockAuth(userOf(t, db, tailor.UserID)))
	authed.GET("/services", ListTailorServices)
	authed.POST("/services", CreateTailorService)
	authed.PUT("/services/:id", UpdateTailorService)
	authed.PUT("/services/:id/toggle", ToggleTailorService)
	authed.DELETE("/services/:id", DeleteTailorService)
	return router
}

func categoryRouter(t *testing.T, db *gorm.DB, admin *models.Admin) *gin.Engine {
	t.Helper()

	router := setupTestRouter()
	router.GET("/categories", ListCategories)
	authed := router.Group("/admin", testutil.MockAuth(userOf(t, db, admin.UserID)))
	authed.POST("/categories", AdminCreateCategory)
	authed.PUT("/categories/:id", AdminUpdateCategory)
	authed.DELETE("/categories/:id", AdminDeleteCategory)
	return router
}

func TestCreateTailorService(t *testing.T) {
	db := testutil.OpenTestDB(t)
	tailor := testutil.CreateTailor(t, db, "svc-tailor@test.com")
	category := models.Category{AdminID: 1, Name: "Bespoke"}
	require.NoError(t, db.Create(&category).Error)

	router := serviceRouter(t, db, tailor)

	w := postJSON(t, router, "/tailor/services", map[string]interface{}{
		"category_id":      category.ID,
		"name":             "Three piece suit",
		"description":      "Full canvas construction",
		"base_price":       "450.00",
		"duration_minutes": 120,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var stored models.Service
	require.NoError(t, db.Where("tailor_id = ?", tailor.ID).First(&stored).Error)
	assert.Equal(t, "Three piece suit", stored.Name)
	assert.True(t, stored.BasePrice.Equal(decimal.RequireFromString("450.00")))
	assert.True(t, stored.IsActive)
}

func TestCreateTailorServiceValidation(t *testing.T) {
	db := testutil.OpenTestDB(t)
	tailor := testutil.CreateTailor(t, db, "svc-tailor@test.com")
	category := models.Category{AdminID: 1, Name: "Bespoke"}
	require.NoError(t, db.Create(&category).Error)

	router := serviceRouter(t, db, tailor)

	tests := []struct {
		name       string
		body       map[string]interface{}
		wantStatus int
	}{
		{
			"zero price",
			map[string]interface{}{"category_id": category.ID, "name": "Free", "base_price": "0"},
			http.StatusBadRequest,
		},
		{
			"negative price",
			map[string]interface{}{"category_id": category.ID, "name": "Refund", "base_price": "-5"},
			http.StatusBadRequest,
		},
		{
			"missing name",
			map[string]interface{}{"category_id": category.ID, "base_price": "10"},
			http.StatusBadRequest,
		},
		{
			"unknown category",
			map[string]interface{}{"category_id": 9999, "name": "Orphan", "base_price": "10"},
			http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, router, "/tailor/services", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}
}

func TestToggleTailorService(t *testing.T) {
	db := testutil.OpenTestDB(t)
	tailor := testutil.CreateTailor(t, db, "svc-tailor@test.com")
	service := testutil.CreateService(t, db, tailor, "Hemming", "40.00")
	router := serviceRouter(t, db, tailor)

	code := putJSON(t, router, "/tailor/services/"+itoa(service.ID)+"/toggle", nil)
	require.Equal(t, http.StatusOK, code)

	var stored models.Service
	require.NoError(t, db.First(&stored, service.ID).Error)
	assert.False(t, stored.IsActive)

	code = putJSON(t, router, "/tailor/services/"+itoa(service.ID)+"/toggle", nil)
	require.Equal(t, http.StatusOK, code)

	require.NoError(t, db.First(&stored, service.ID).Error)
	assert.True(t, stored.IsActive)
}

func TestServiceOwnership(t *testing.T) {
	db := testutil.OpenTestDB(t)
	owner := testutil.CreateTailor(t, db, "owner@test.com")
	other := testutil.CreateTailor(t, db, "other@test.com")
	service := testutil.CreateService(t, db, owner, "Hemming", "40.00")

	otherRouter := serviceRouter(t, db, other)

	code := putJSON(t, otherRouter, "/tailor/services/"+itoa(service.ID)+"/toggle", nil)
	assert.Equal(t, http.StatusNotFound, code)

	w := doJSON(t, otherRouter, http.MethodDelete, "/tailor/services/"+itoa(service.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var count int64
	db.Model(&models.Service{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestAdminCategoryLifecycle(t *testing.T) {
	db := testutil.OpenTestDB(t)
	admin := testutil.CreateAdmin(t, db, "admin@test.com")
	router := categoryRouter(t, db, admin)

	w := postJSON(t, router, "/admin/categories", map[string]interface{}{"name": "Repairs"})
	require.Equal(t, http.StatusCreated, w.Code)

	var category models.Category
	require.NoError(t, db.Where("name = ?", "Repairs").First(&category).Error)
	assert.Equal(t, admin.ID, category.AdminID)

	code := putJSON(t, router, "/admin/categories/"+itoa(category.ID), map[string]interface{}{"name": "Mending"})
	require.Equal(t, http.StatusOK, code)

	w = doJSON(t, router, http.MethodGet, "/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Mending")

	w = doJSON(t, router, http.MethodDelete, "/admin/categories/"+itoa(category.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.Category{}).Count(&count)
	assert.Zero(t, count)
}

func TestAdminDeleteCategoryInUse(t *testing.T) {
	db := testutil.OpenTestDB(t)
	admin := testutil.CreateAdmin(t, db, "admin@test.com")
	tailor := testutil.CreateTailor(t, db, "svc-tailor@test.com")
	service := testutil.CreateService(t, db, tailor, "Hemming", "40.00")
	router := categoryRouter(t, db, admin)

	w := doJSON(t, router, http.MethodDelete, "/admin/categories/"+itoa(service.CategoryID), nil)
	require.Equal(t, http.StatusConflict, w.Code)

	resp := decodeResponse(t, w)
	errObj := resp["error"].(map[string]interface{})
	assert.Equal(t, "CATEGORY_IN_USE", errObj["code"])
}
