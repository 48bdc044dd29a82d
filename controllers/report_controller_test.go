package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/stitchly-app/stitchly-api/models"
	"github.com/stitchly-app/stitchly-api/tests/testutil"
)

func reportRouter(t *testing.T, db *gorm.DB, admin *models.Admin) *gin.Engine {
	t.Helper()

	router := setupTestRouter()
	authed := router.Group("/admin", testutil.MockAuth(userOf(t, db, admin.UserID)))
	authed.GET("/reports/revenue", AdminRevenueReport)
	authed.GET("/reports/users", AdminUsersReport)
	return router
}

func completeOrder(t *testing.T, db *gorm.DB, order *models.Order, completedAt time.Time) {
	t.Helper()
	require.NoError(t, db.Model(order).Updates(map[string]interface{}{
		"status":          models.OrderStatusCompleted,
		"completion_date": completedAt,
	}).Error)
}

func TestAdminRevenueReport(t *testing.T) {
	db := testutil.OpenTestDB(t)
	admin := testutil.CreateAdmin(t, db, "admin@test.com")
	client := testutil.CreateClient(t, db, "client@test.com")
	tailor := testutil.CreateTailor(t, db, "tailor@test.com")

	// Two completed orders in different months plus one still in progress.
	jan := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	completeOrder(t, db, testutil.CreateOrder(t, db, client, tailor, models.OrderStatusRequested), jan)
	completeOrder(t, db, testutil.CreateOrder(t, db, client, tailor, models.OrderStatusRequested), feb)
	testutil.CreateOrder(t, db, client, tailor, models.OrderStatusInProgress)

	router := reportRouter(t, db, admin)

	w := doJSON(t, router, http.MethodGet, "/admin/reports/revenue", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeResponse(t, w)
	data := resp["data"].(map[string]interface{})
	assert.EqualValues(t, 2, data["completed_orders"])
	assert.Equal(t, "200", data["gross_revenue"])
	assert.Equal(t, "20", data["platform_commission"])
	assert.Equal(t, "180", data["tailor_payouts"])

	monthly := data["monthly"].([]interface{})
	require.Len(t, monthly, 2)
	first := monthly[0].(map[string]interface{})
	assert.Equal(t, "2026-01", first["month"])
	assert.EqualValues(t, 1, first["orders"])
	assert.Equal(t, "100", first["revenue"])
}

func TestAdminRevenueReportWindow(t *testing.T) {
	db := testutil.OpenTestDB(t)
	admin := testutil.CreateAdmin(t, db, "admin@test.com")
	client := testutil.CreateClient(t, db, "client@test.com")
	tailor := testutil.CreateTailor(t, db, "tailor@test.com")

	jan := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	completeOrder(t, db, testutil.CreateOrder(t, db, client, tailor, models.OrderStatusRequested), jan)
	completeOrder(t, db, testutil.CreateOrder(t, db, client, tailor, models.OrderStatusRequested), feb)

	router := reportRouter(t, db, admin)

	w := doJSON(t, router, http.MethodGet, "/admin/reports/revenue?from=2026-02-01&to=2026-02-28", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	data := resp["data"].(map[string]interface{})
	assert.EqualValues(t, 1, data["completed_orders"])
	assert.Equal(t, "100", data["gross_revenue"])

	// Malformed and inverted windows are rejected.
	w = doJSON(t, router, http.MethodGet, "/admin/reports/revenue?from=01-02-2026", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, "/admin/reports/revenue?from=2026-03-01&to=2026-02-01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminUsersReport(t *testing.T) {
	db := testutil.OpenTestDB(t)
	admin := testutil.CreateAdmin(t, db, "admin@test.com")
	testutil.CreateClient(t, db, "c1@test.com")
	testutil.CreateClient(t, db, "c2@test.com")
	approved := testutil.CreateTailor(t, db, "t1@test.com")
	pending := testutil.CreateTailor(t, db, "t2@test.com")
	require.NoError(t, db.Model(&models.Tailor{}).Where("id = ?", pending.ID).
		Update("is_approved", false).Error)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", approved.UserID).
		Update("status", models.UserStatusBlocked).Error)

	router := reportRouter(t, db, admin)

	w := doJSON(t, router, http.MethodGet, "/admin/reports/users", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data := resp["data"].(map[string]interface{})
	assert.EqualValues(t, 5, data["total_users"])
	assert.EqualValues(t, 2, data["clients"])
	assert.EqualValues(t, 2, data["tailors"])
	assert.EqualValues(t, 1, data["blocked"])
	assert.EqualValues(t, 1, data["pending_tailors"])
	assert.EqualValues(t, 5, data["new_signups"])
}
