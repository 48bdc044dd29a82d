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

func tailorOrderRouter(t *testing.T, db *gorm.DB, tailor *models.Tailor) *gin.Engine {
	t.Helper()

	router := setupTestRouter()
	authed := router.Group("/tailor", testutil.MockAuth(userOf(t, db, tailor.UserID)))
	authed.GET("/orders", ListTailorOrders)
	authed.GET("/orders/stats", GetTailorOrderStats)
	authed.GET("/orders/:id", GetTailorOrder)
	authed.POST("/orders/:id/accept", AcceptTailorOrder)
	authed.POST("/orders/:id/decline", DeclineTailorOrder)
	authed.PUT("/orders/:id/status", UpdateTailorOrderStatus)
	return router
}

func putJSON(t *testing.T, router *gin.Engine, path string, body interface{}) int {
	t.Helper()

	w := doJSON(t, router, http.MethodPut, path, body)
	return w.Code
}

func TestAcceptTailorOrder(t *testing.T) {
	db := testutil.OpenTestDB(t)
	client := testutil.CreateClient(t, db, "accept-client@test.com")
	tailor := testutil.CreateTailor(t, db, "accept-tailor@test.com")
	order := testutil.CreateOrder(t, db, client, tailor, models.OrderStatusRequested)

	router := tailorOrderRouter(t, db, tailor)
	w := postJSON(t, router, "/tailor/orders/"+itoa(order.ID)+"/accept", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stored models.Order
	require.NoError(t, db.First(&stored, order.ID).Error)
	assert.Equal(t, models.OrderStatusAccepted, stored.Status)

	var notification models.Notification
	require.NoError(t, db.Where("client_id = ?", client.ID).First(&notification).Error)
	assert.Equal(t, "order_accepted", notification.Type)
}

func TestAcceptTailorOrderTwice(t *testing.T) {
	db := testutil.OpenTestDB(t)
	client := testutil.CreateClient(t, db, "accept-client@test.com")
	tailor := testutil.CreateTailor(t, db, "accept-tailor@test.com")
	order := testutil.CreateOrder(t, db, client, tailor, models.OrderStatusAccepted)

	router := tailorOrderRouter(t, db, tailor)
	w := postJSON(t, router, "/tailor/orders/"+itoa(order.ID)+"/accept", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDeclineTailorOrder(t *testing.T) {
	db := testutil.OpenTestDB(t)
	client := testutil.CreateClient(t, db, "decline-client@test.com")
	tailor := testutil.CreateTailor(t, db, "decline-tailor@test.com")
	order := testutil.CreateOrder(t, db, client, tailor, models.OrderStatusRequested)

	router := tailorOrderRouter(t, db, tailor)
	w := postJSON(t, router, "/tailor/orders/"+itoa(order.ID)+"/decline", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stored models.Order
	require.NoError(t, db.First(&stored, order.ID).Error)
	assert.Equal(t, models.OrderStatusCancelled, stored.Status)
}

func TestUpdateTailorOrderStatus(t *testing.T) {
	tests := []struct {
		name       string
		from       string
		to         string
		wantStatus int
	}{
		{"requested to accepted", models.OrderStatusRequested, "accepted", http.StatusOK},
		{"accepted to in_progress", models.OrderStatusAccepted, "in_progress", http.StatusOK},
		{"in_progress to completed", models.OrderStatusInProgress, "completed", http.StatusOK},
		{"backward move rejected", models.OrderStatusCompleted, "in_progress", http.StatusConflict},
		{"invalid target", models.OrderStatusAccepted, "cancelled", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.OpenTestDB(t)
			client := testutil.CreateClient(t, db, "status-client@test.com")
			tailor := testutil.CreateTailor(t, db, "status-tailor@test.com")
			order := testutil.CreateOrder(t, db, client, tailor, tt.from)

			router := tailorOrderRouter(t, db, tailor)
			code := putJSON(t, router, "/tailor/orders/"+itoa(order.ID)+"/status", map[string]interface{}{
				"status": tt.to,
			})
			assert.Equal(t, tt.wantStatus, code)

			var stored models.Order
			require.NoError(t, db.First(&stored, order.ID).Error)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.to, stored.Status)
				if tt.to == "completed" {
					assert.NotNil(t, stored.CompletionDate)
				}
			} else {
				assert.Equal(t, tt.from, stored.Status)
			}
		})
	}
}

func TestTailorCannotTouchOtherTailorsOrder(t *testing.T) {
	db := testutil.OpenTestDB(t)
	client := testutil.CreateClient(t, db, "client@test.com")
	owner := testutil.CreateTailor(t, db, "owner-tailor@test.com")
	other := testutil.CreateTailor(t, db, "other-tailor@test.com")
	order := testutil.CreateOrder(t, db, client, owner, models.OrderStatusRequested)

	router := tailorOrderRouter(t, db, other)
	w := postJSON(t, router, "/tailor/orders/"+itoa(order.ID)+"/accept", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUnapprovedTailorIsRejected(t *testing.T) {
	db := testutil.OpenTestDB(t)
	client := testutil.CreateClient(t, db, "client@test.com")
	tailor := testutil.CreateTailor(t, db, "pending-tailor@test.com")
	order := testutil.CreateOrder(t, db, client, tailor, models.OrderStatusRequested)
	require.NoError(t, db.Model(tailor).Update("is_approved", false).Error)

	router := tailorOrderRouter(t, db, tailor)
	w := postJSON(t, router, "/tailor/orders/"+itoa(order.ID)+"/accept", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	resp := decodeResponse(t, w)
	errObj := resp["error"].(map[string]interface{})
	assert.Equal(t, "TAILOR_NOT_APPROVED", errObj["code"])
}

func TestGetTailorOrderStats(t *testing.T) {
	db := testutil.OpenTestDB(t)
	client := testutil.CreateClient(t, db, "stats-client@test.com")
	tailor := testutil.CreateTailor(t, db, "stats-tailor@test.com")

	testutil.CreateOrder(t, db, client, tailor, models.OrderStatusRequested)
	testutil.CreateOrder(t, db, client, tailor, models.OrderStatusCompleted)
	testutil.CreateOrder(t, db, client, tailor, models.OrderStatusCompleted)

	router := tailorOrderRouter(t, db, tailor)
	w := getPath(t, router, "/tailor/orders/stats")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data := resp["data"].(map[string]interface{})
	counts := data["counts"].(map[string]interface{})
	assert.EqualValues(t, 1, counts["requested"])
	assert.EqualValues(t, 2, counts["completed"])

	// Two completed orders at a 90.00 payout each.
	assert.Equal(t, "180", data["total_earnings"])
}
