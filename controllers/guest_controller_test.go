package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/stitchly-app/stitchly-api/models"
	"github.com/stitchly-app/stitchly-api/tests/testutil"
)

func guestRouter() *gin.Engine {
	router := setupTestRouter()
	router.GET("/tailors", ListTailors)
	router.GET("/tailors/:id", GetTailorPublicProfile)
	return router
}

func seedApprovedTailor(t *testing.T, db *gorm.DB, email, firstName string) *models.Tailor {
	t.Helper()

	tailor := testutil.CreateTailor(t, db, email)
	require.NoError(t, db.Model(tailor).Update("first_name", firstName).Error)
	tailor.FirstName = firstName
	return tailor
}

func TestListTailors(t *testing.T) {
	db := testutil.OpenTestDB(t)
	seedApprovedTailor(t, db, "ana@test.com", "Ana")
	seedApprovedTailor(t, db, "bruno@test.com", "Bruno")
	hidden := testutil.CreateTailor(t, db, "hidden@test.com")
	require.NoError(t, db.Model(hidden).Update("is_approved", false).Error)

	router := guestRouter()

	w := doJSON(t, router, http.MethodGet, "/tailors", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	listings := resp["data"].([]interface{})
	assert.Len(t, listings, 2)

	pagination := resp["pagination"].(map[string]interface{})
	assert.EqualValues(t, 2, pagination["total_count"])
}

func TestListTailorsSearchAndCategory(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ana := seedApprovedTailor(t, db, "ana@test.com", "Ana")
	seedApprovedTailor(t, db, "bruno@test.com", "Bruno")
	service := testutil.CreateService(t, db, ana, "Hemming", "40.00")

	router := guestRouter()

	w := doJSON(t, router, http.MethodGet, "/tailors?search=Ana", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.Len(t, resp["data"].([]interface{}), 1)

	// Only Ana serves the category.
	w = doJSON(t, router, http.MethodGet, "/tailors?category_id="+itoa(service.CategoryID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = decodeResponse(t, w)
	listings := resp["data"].([]interface{})
	require.Len(t, listings, 1)
	assert.EqualValues(t, ana.ID, listings[0].(map[string]interface{})["id"])

	// An inactive service no longer qualifies the tailor.
	require.NoError(t, db.Model(service).Update("is_active", false).Error)
	w = doJSON(t, router, http.MethodGet, "/tailors?category_id="+itoa(service.CategoryID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = decodeResponse(t, w)
	assert.Empty(t, resp["data"].([]interface{}))
}

func TestGetTailorPublicProfile(t *testing.T) {
	db := testutil.OpenTestDB(t)
	client := testutil.CreateClient(t, db, "reviewer@test.com")
	tailor := seedApprovedTailor(t, db, "ana@test.com", "Ana")
	active := testutil.CreateService(t, db, tailor, "Hemming", "40.00")
	inactive := testutil.CreateService(t, db, tailor, "Retired", "10.00")
	require.NoError(t, db.Model(inactive).Update("is_active", false).Error)

	order := testutil.CreateOrder(t, db, client, tailor, models.OrderStatusCompleted)
	require.NoError(t, db.Create(&models.Review{
		ClientID:  client.ID,
		OrderID:   order.ID,
		ServiceID: active.ID,
		Rating:    4,
		Comment:   "Great work",
	}).Error)

	router := guestRouter()

	w := doJSON(t, router, http.MethodGet, "/tailors/"+itoa(tailor.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeResponse(t, w)
	data := resp["data"].(map[string]interface{})

	services := data["services"].([]interface{})
	require.Len(t, services, 1)
	assert.Equal(t, "Hemming", services[0].(map[string]interface{})["name"])

	reviews := data["reviews"].([]interface{})
	require.Len(t, reviews, 1)

	listing := data["tailor"].(map[string]interface{})
	assert.EqualValues(t, 4, listing["average_rating"])
	assert.EqualValues(t, 1, listing["review_count"])
}

func TestGetTailorPublicProfileUnapproved(t *testing.T) {
	db := testutil.OpenTestDB(t)
	tailor := testutil.CreateTailor(t, db, "hidden@test.com")
	require.NoError(t, db.Model(tailor).Update("is_approved", false).Error)

	router := guestRouter()

	w := doJSON(t, router, http.MethodGet, "/tailors/"+itoa(tailor.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
