package controllers

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/stitchly-app/stitchly-api/config"
	"github.com/stitchly-app/stitchly-api/models"
)

// AdminRevenueReport handles GET /api/v1/admin/reports/revenue - platform
// totals over an optional from/to window (YYYY-MM-DD), computed from
// completed orders.
func AdminRevenueReport(c *gin.Context) {
	if _, ok := currentAdmin(c); !ok {
		return
	}

	from, to, ok := reportWindow(c)
	if !ok {
		return
	}

	db := config.GetDB()
	query := db.Where("status = ?", models.OrderStatusCompleted)
	if from != nil {
		query = query.Where("completion_date >= ?", *from)
	}
	if to != nil {
		query = query.Where("completion_date < ?", to.AddDate(0, 0, 1))
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch orders",
			},
		})
		return
	}

	grossRevenue := decimal.Zero
	commission := decimal.Zero
	payouts := decimal.Zero
	byMonth := make(map[string]*monthlyRevenue)
	for _, order := range orders {
		grossRevenue = grossRevenue.Add(order.TotalPrice)
		commission = commission.Add(order.PlatformCommission)
		payouts = payouts.Add(order.TailorPayout)

		if order.CompletionDate == nil {
			continue
		}
		month := order.CompletionDate.Format("2006-01")
		entry, exists := byMonth[month]
		if !exists {
			entry = &monthlyRevenue{Month: month}
			byMonth[month] = entry
		}
		entry.Orders++
		entry.Revenue = entry.Revenue.Add(order.TotalPrice)
		entry.Commission = entry.Commission.Add(order.PlatformCommission)
	}

	months := make([]string, 0, len(byMonth))
	for month := range byMonth {
		months = append(months, month)
	}
	sort.Strings(months)
	monthly := make([]monthlyRevenue, 0, len(months))
	for _, month := range months {
		monthly = append(monthly, *byMonth[month])
	}

	var paymentsTotal decimal.Decimal
	var payments []models.Payment
	paymentQuery := db.Model(&models.Payment{})
	if from != nil {
		paymentQuery = paymentQuery.Where("paid_at >= ?", *from)
	}
	if to != nil {
		paymentQuery = paymentQuery.Where("paid_at < ?", to.AddDate(0, 0, 1))
	}
	if err := paymentQuery.Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch payments",
			},
		})
		return
	}
	for _, payment := range payments {
		paymentsTotal = paymentsTotal.Add(payment.Amount)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"completed_orders":    len(orders),
			"gross_revenue":       grossRevenue,
			"platform_commission": commission,
			"tailor_payouts":      payouts,
			"payments_collected":  paymentsTotal,
			"monthly":             monthly,
		},
	})
}

// monthlyRevenue is one month of the revenue series.
type monthlyRevenue struct {
	Month      string          `json:"month"`
	Orders     int             `json:"orders"`
	Revenue    decimal.Decimal `json:"revenue"`
	Commission decimal.Decimal `json:"commission"`
}

// AdminUsersReport handles GET /api/v1/admin/reports/users - account counts
// by role and status plus signups in the window.
func AdminUsersReport(c *gin.Context) {
	if _, ok := currentAdmin(c); !ok {
		return
	}

	from, to, ok := reportWindow(c)
	if !ok {
		return
	}

	db := config.GetDB()
	fail := func() {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to compute user report",
			},
		})
	}

	var totalUsers, clients, tailors, blocked, pendingTailors, signups int64
	if err := db.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		fail()
		return
	}
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleClient).Count(&clients).Error; err != nil {
		fail()
		return
	}
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleTailor).Count(&tailors).Error; err != nil {
		fail()
		return
	}
	if err := db.Model(&models.User{}).Where("status = ?", models.UserStatusBlocked).Count(&blocked).Error; err != nil {
		fail()
		return
	}
	if err := db.Model(&models.Tailor{}).Where("is_approved = ?", false).Count(&pendingTailors).Error; err != nil {
		fail()
		return
	}

	signupQuery := db.Model(&models.User{})
	if from != nil {
		signupQuery = signupQuery.Where("created_at >= ?", *from)
	}
	if to != nil {
		signupQuery = signupQuery.Where("created_at < ?", to.AddDate(0, 0, 1))
	}
	if err := signupQuery.Count(&signups).Error; err != nil {
		fail()
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"total_users":     totalUsers,
			"clients":         clients,
			"tailors":         tailors,
			"blocked":         blocked,
			"pending_tailors": pendingTailors,
			"new_signups":     signups,
		},
	})
}

// reportWindow parses optional from/to query parameters. On a malformed
// date it writes the error response and returns false.
func reportWindow(c *gin.Context) (*time.Time, *time.Time, bool) {
	parse := func(field string) (*time.Time, bool) {
		raw := c.Query(field)
		if raw == "" {
			return nil, true
		}
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": field + " must be formatted as YYYY-MM-DD",
				},
			})
			return nil, false
		}
		return &date, true
	}

	from, ok := parse("from")
	if !ok {
		return nil, nil, false
	}
	to, ok := parse("to")
	if !ok {
		return nil, nil, false
	}
	if from != nil && to != nil && to.Before(*from) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "to must not be before from",
			},
		})
		return nil, nil, false
	}
	return from, to, true
}
