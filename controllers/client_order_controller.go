package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stitchly-app/stitchly-api/config"
	"github.com/stitchly-app/stitchly-api/middleware"
	"github.com/stitchly-app/stitchly-api/models"
	"github.com/stitchly-app/stitchly-api/services"
)

// paymentGateway processes charges for client orders. Bound to the
// simulated gateway in main; tests inject deterministic gateways.
var paymentGateway services.Gateway = &services.SimulatedGateway{}

// SetPaymentGateway swaps the payment gateway (primarily for testing).
func SetPaymentGateway(gw services.Gateway) {
	paymentGateway = gw
}

// CreateOrderRequest represents the request body for placing an order
type CreateOrderRequest struct {
	TailorID    uint   `json:"tailor_id" binding:"required"`
	ServiceIDs  []uint `json:"service_ids" binding:"required,min=1"`
	ServiceType string `json:"service_type" binding:"required,oneof=pickup home_visit"`
	Address     string `json:"address" binding:"required"`
	ClientNotes string `json:"client_notes" binding:"omitempty"`
	ScheduledAt string `json:"scheduled_at" binding:"required"` // RFC 3339

	Measurement *MeasurementRequest `json:"measurement" binding:"omitempty"`
}

// MeasurementRequest carries optional body measurements saved with an order
type MeasurementRequest struct {
	Chest        *decimal.Decimal `json:"chest"`
	Waist        *decimal.Decimal `json:"waist"`
	Hips         *decimal.Decimal `json:"hips"`
	Length       *decimal.Decimal `json:"length"`
	SleeveLength *decimal.Decimal `json:"sleeve_length"`
	Notes        string           `json:"notes"`
}

// CancelOrderRequest represents the request body for cancelling an order
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ProcessPaymentRequest represents the request body for paying an order.
// Card details are forwarded to the gateway without local validation.
type ProcessPaymentRequest struct {
	Method     string `json:"method" binding:"required,oneof=card cash_on_delivery"`
	CardNumber string `json:"card_number" binding:"omitempty"`
	CardHolder string `json:"card_holder" binding:"omitempty"`
	CardExpiry string `json:"card_expiry" binding:"omitempty"`
	CardCVC    string `json:"card_cvc" binding:"omitempty"`
}

// TimeSlotRequest represents the request body for listing bookable slots
type TimeSlotRequest struct {
	Date        string `json:"date" binding:"required"` // "2006-01-02"
	ServiceType string `json:"service_type" binding:"required,oneof=pickup home_visit"`
}

// ListClientOrders handles GET /api/v1/client/orders - lists the client's
// orders, optionally filtered by status, newest first.
func ListClientOrders(c *gin.Context) {
	client, ok := currentClient(c)
	if !ok {
		return
	}

	db := config.GetDB()
	query := db.Model(&models.Order{}).Where("client_id = ?", client.ID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to count orders",
			},
		})
		return
	}

	page := newPageFromQuery(c, total)
	var orders []models.Order
	if err := query.
		Preload("Tailor").
		Order("created_at DESC").
		Offset(page.Offset()).
		Limit(page.PageSize).
		Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       orders,
		"pagination": page,
	})
}

// GetClientOrder handles GET /api/v1/client/orders/:id - the order detail
// with services, payment and reviews. Only the owning client can see it.
func GetClientOrder(c *gin.Context) {
	client, ok := currentClient(c)
	if !ok {
		return
	}
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.Preload("Tailor").
		Where("id = ? AND client_id = ?", orderID, client.ID).
		First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	var orderServices []models.OrderService
	db.Preload("Service").Where("order_id = ?", order.ID).Find(&orderServices)

	var payment *models.Payment
	var paymentRow models.Payment
	if err := db.Where("order_id = ?", order.ID).First(&paymentRow).Error; err == nil {
		payment = &paymentRow
	}

	var reviews []models.Review
	db.Preload("Client").Where("order_id = ?", order.ID).Find(&reviews)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"order":    order,
			"services": orderServices,
			"payment":  payment,
			"reviews":  reviews,
		},
	})
}

// CreateOrder handles POST /api/v1/client/orders - places a new order with
// the selected services, snapshots their prices, computes the commission
// split and creates the pending invoice, all in one transaction.
func CreateOrder(c *gin.Context) {
	client, ok := currentClient(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
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

	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "scheduled_at must be an RFC 3339 timestamp",
			},
		})
		return
	}

	db := config.GetDB()
	var tailor models.Tailor
	if err := db.Where("id = ? AND is_approved = ?", req.TailorID, true).First(&tailor).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TAILOR_NOT_FOUND",
				"message": "Tailor not found",
			},
		})
		return
	}

	var selected []models.Service
	if err := db.Where("id IN ? AND tailor_id = ? AND is_active = ?", req.ServiceIDs, tailor.ID, true).
		Find(&selected).Error; err != nil || len(selected) != len(req.ServiceIDs) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "One or more selected services are unknown or inactive for this tailor",
			},
		})
		return
	}

	prices := make([]decimal.Decimal, len(selected))
	for i, s := range selected {
		prices[i] = s.BasePrice
	}
	quote := services.PriceQuote(prices)

	order := models.Order{
		ClientID:           client.ID,
		TailorID:           tailor.ID,
		Status:             models.OrderStatusRequested,
		Address:            req.Address,
		ClientNotes:        req.ClientNotes,
		TotalPrice:         quote.Total,
		PlatformCommission: quote.PlatformCommission,
		TailorPayout:       quote.TailorPayout,
		ServiceType:        req.ServiceType,
	}
	if req.ServiceType == models.ServiceTypePickup {
		order.ScheduledPickup = &scheduledAt
	} else {
		order.ScheduledVisit = &scheduledAt
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for _, svc := range selected {
			row := models.OrderService{
				OrderID:   order.ID,
				ServiceID: svc.ID,
				Price:     svc.BasePrice,
				Note:      req.ClientNotes,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}

		if m := req.Measurement; m != nil {
			measurement := models.Measurement{
				ClientID:     client.ID,
				Chest:        nullDecimal(m.Chest),
				Waist:        nullDecimal(m.Waist),
				Hips:         nullDecimal(m.Hips),
				Length:       nullDecimal(m.Length),
				SleeveLength: nullDecimal(m.SleeveLength),
				Notes:        m.Notes,
			}
			if err := tx.Create(&measurement).Error; err != nil {
				return err
			}
		}

		invoice := models.Invoice{
			OrderID:       order.ID,
			ClientID:      client.ID,
			TotalAmount:   quote.InvoiceTotal,
			PaymentStatus: models.InvoiceStatusPending,
		}
		if err := tx.Create(&invoice).Error; err != nil {
			return err
		}

		tailorID := tailor.ID
		notification := models.Notification{
			TailorID: &tailorID,
			Message:  "New order " + services.OrderRef(order.ID) + " has been placed.",
			Type:     "order_requested",
			Status:   models.NotificationUnread,
			Date:     time.Now(),
		}
		return tx.Create(&notification).Error
	})
	if err != nil {
		middleware.RecordOrderOperation("create", false)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create order",
			},
		})
		return
	}

	middleware.RecordOrderOperation("create", true)
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// AttachOrderImages handles POST /api/v1/client/orders/:id/images - uploads
// reference images to a requested order. Upload failures abort the request
// rather than silently dropping the file.
func AttachOrderImages(c *gin.Context) {
	client, ok := currentClient(c)
	if !ok {
		return
	}
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.Where("id = ? AND client_id = ?", orderID, client.ID).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}
	if order.Status != models.OrderStatusRequested {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_TRANSITION",
				"message": "Images can only be attached while the order is requested",
			},
		})
		return
	}

	form, err := c.MultipartForm()
	if err != nil || len(form.File["images"]) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "At least one image file is required",
			},
		})
		return
	}

	var keys []string
	if order.UploadedImageKeys != "" {
		if err := json.Unmarshal([]byte(order.UploadedImageKeys), &keys); err != nil {
			keys = nil
		}
	}

	imageService := services.GetImageService()
	var uploaded []string
	for _, fileHeader := range form.File["images"] {
		key, err := imageService.UploadImage(fileHeader, services.ImagePrefixOrders)
		if err != nil {
			// A failed batch keeps nothing; clean up what already went out.
			for _, k := range uploaded {
				_ = imageService.DeleteImage(k)
			}
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UPLOAD_ERROR",
					"message": err.Error(),
				},
			})
			return
		}
		uploaded = append(uploaded, key)
	}
	keys = append(keys, uploaded...)

	encoded, err := json.Marshal(keys)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Failed to encode image keys",
			},
		})
		return
	}

	if err := db.Model(&order).Update("uploaded_image_keys", string(encoded)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save image keys",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"image_keys": keys},
	})
}

// CancelClientOrder handles POST /api/v1/client/orders/:id/cancel - cancels
// an order that is still requested or accepted.
func CancelClientOrder(c *gin.Context) {
	client, ok := currentClient(c)
	if !ok {
		return
	}
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "A cancellation reason is required",
			},
		})
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.Where("id = ? AND client_id = ?", orderID, client.ID).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	if err := services.CancelOrder(db, &order, req.Reason); err != nil {
		middleware.RecordOrderOperation("cancel", false)
		if errors.Is(err, services.ErrInvalidTransition) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_TRANSITION",
					"message": "Order cannot be cancelled at this stage",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to cancel order",
			},
		})
		return
	}

	middleware.RecordOrderOperation("cancel", true)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// GetClientInvoice handles GET /api/v1/client/orders/:id/invoice
func GetClientInvoice(c *gin.Context) {
	client, ok := currentClient(c)
	if !ok {
		return
	}
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.Where("id = ? AND client_id = ?", orderID, client.ID).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	var invoice models.Invoice
	if err := db.Where("order_id = ?", order.ID).First(&invoice).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVOICE_NOT_FOUND",
				"message": "Invoice not found",
			},
		})
		return
	}

	var payment *models.Payment
	var paymentRow models.Payment
	if err := db.Where("order_id = ?", order.ID).First(&paymentRow).Error; err == nil {
		payment = &paymentRow
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"invoice": invoice,
			"payment": payment,
		},
	})
}

// PayClientOrder handles POST /api/v1/client/orders/:id/payment - charges
// the invoice total through the configured gateway. A decline leaves the
// order and invoice untouched.
func PayClientOrder(c *gin.Context) {
	client, ok := currentClient(c)
	if !ok {
		return
	}
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req ProcessPaymentRequest
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

	db := config.GetDB()
	var order models.Order
	if err := db.Where("id = ? AND client_id = ?", orderID, client.ID).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	payment, err := services.ProcessPayment(db, paymentGateway, &order, services.ChargeRequest{
		Method:     req.Method,
		CardNumber: req.CardNumber,
		CardHolder: req.CardHolder,
		CardExpiry: req.CardExpiry,
		CardCVC:    req.CardCVC,
	})
	if err != nil {
		middleware.RecordOrderOperation("payment", false)
		switch {
		case errors.Is(err, services.ErrPaymentDeclined):
			c.JSON(http.StatusPaymentRequired, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "PAYMENT_FAILED",
					"message": "Payment failed. Please try again or use a different payment method.",
				},
			})
		case errors.Is(err, services.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_TRANSITION",
					"message": "Order is not awaiting payment",
				},
			})
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVOICE_NOT_FOUND",
					"message": "Invoice not found",
				},
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to record payment",
				},
			})
		}
		return
	}

	middleware.RecordOrderOperation("payment", true)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"payment": payment,
			"order":   order,
		},
	})
}

// TrackClientOrder handles GET /api/v1/client/orders/:id/track - the status
// timeline for an order.
func TrackClientOrder(c *gin.Context) {
	client, ok := currentClient(c)
	if !ok {
		return
	}
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.Where("id = ? AND client_id = ?", orderID, client.ID).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"order":    order,
			"timeline": statusTimeline(&order),
		},
	})
}

// GetTimeSlots handles POST /api/v1/client/tailors/:id/slots - the bookable
// slots for a tailor on a date. No availability that day is a normal
// outcome with an empty slot list, not an error.
func GetTimeSlots(c *gin.Context) {
	if _, ok := currentClient(c); !ok {
		return
	}
	tailorID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req TimeSlotRequest
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

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "date must be formatted as YYYY-MM-DD",
			},
		})
		return
	}

	dayOfWeek := strings.ToLower(date.Weekday().String())
	db := config.GetDB()
	var availability models.Availability
	err = db.Where("tailor_id = ? AND day_of_week = ? AND is_available = ?", tailorID, dayOfWeek, true).
		First(&availability).Error
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"available": false,
				"message":   "Tailor is not available on this day",
				"slots":     []services.Slot{},
			},
		})
		return
	}

	booked, err := services.BookedStartTimes(db, tailorID, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load booked slots",
			},
		})
		return
	}

	slots := services.GenerateSlots(&availability, req.ServiceType, booked)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"available":    true,
			"availability": availability,
			"slots":        slots,
		},
	})
}

// timelineItem is one entry of an order's status timeline.
type timelineItem struct {
	Status    string     `json:"status"`
	Label     string     `json:"label"`
	Completed bool       `json:"completed"`
	Active    bool       `json:"active"`
	Date      *time.Time `json:"date"`
}

func statusTimeline(order *models.Order) []timelineItem {
	reached := func(statuses ...string) bool {
		for _, s := range statuses {
			if order.Status == s {
				return true
			}
		}
		return false
	}

	created := order.CreatedAt
	items := []timelineItem{
		{
			Status:    models.OrderStatusRequested,
			Label:     "Order Requested",
			Completed: true,
			Active:    order.Status == models.OrderStatusRequested,
			Date:      &created,
		},
		{
			Status:    models.OrderStatusAccepted,
			Label:     "Order Accepted",
			Completed: reached(models.OrderStatusAccepted, models.OrderStatusInProgress, models.OrderStatusCompleted),
			Active:    order.Status == models.OrderStatusAccepted,
		},
		{
			Status:    models.OrderStatusInProgress,
			Label:     "In Progress",
			Completed: reached(models.OrderStatusInProgress, models.OrderStatusCompleted),
			Active:    order.Status == models.OrderStatusInProgress,
		},
		{
			Status:    models.OrderStatusCompleted,
			Label:     "Completed",
			Completed: order.Status == models.OrderStatusCompleted,
			Active:    order.Status == models.OrderStatusCompleted,
			Date:      order.CompletionDate,
		},
	}

	if order.Status == models.OrderStatusCancelled {
		items = append(items, timelineItem{
			Status:    models.OrderStatusCancelled,
			Label:     "Cancelled",
			Completed: true,
			Active:    true,
		})
	}

	return items
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
