package services

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stitchly-app/stitchly-api/models"
)

// ChargeRequest is what the platform sends to a payment gateway. Card
// details are collected but only a real processor would validate them.
type ChargeRequest struct {
	OrderID    uint
	Amount     decimal.Decimal
	Method     string
	CardNumber string
	CardHolder string
	CardExpiry string
	CardCVC    string
}

// ChargeResult reports a successful charge.
type ChargeResult struct {
	TransactionID string
}

// Gateway is the pluggable payment processor. The simulated implementation
// below stands in for a real gateway client; tests inject deterministic
// gateways.
type Gateway interface {
	Charge(req ChargeRequest) (*ChargeResult, error)
}

// SimulatedGateway approves charges with a fixed success probability and
// invents a transaction id. It performs no card validation.
type SimulatedGateway struct {
	SuccessRate float64 // defaults to 0.9 when zero
}

// Charge implements Gateway.
func (g *SimulatedGateway) Charge(req ChargeRequest) (*ChargeResult, error) {
	rate := g.SuccessRate
	if rate == 0 {
		rate = 0.9
	}
	if rand.Float64() >= rate {
		return nil, ErrPaymentDeclined
	}
	return &ChargeResult{
		TransactionID: fmt.Sprintf("TXN_%s", uuid.NewString()),
	}, nil
}

// ProcessPayment charges the order's invoice total through the gateway and,
// on success, records the payment, marks the invoice paid and advances the
// order from requested to accepted, all in one transaction. The tailor is
// notified of the confirmed order. On gateway decline nothing is written
// and ErrPaymentDeclined is returned so the caller can retry.
func ProcessPayment(db *gorm.DB, gateway Gateway, order *models.Order, req ChargeRequest) (*models.Payment, error) {
	if order.Status != models.OrderStatusRequested {
		return nil, ErrInvalidTransition
	}

	var invoice models.Invoice
	if err := db.Where("order_id = ?", order.ID).First(&invoice).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if invoice.PaymentStatus != models.InvoiceStatusPending {
		return nil, ErrInvalidTransition
	}

	req.OrderID = order.ID
	req.Amount = invoice.TotalAmount
	result, err := gateway.Charge(req)
	if err != nil {
		return nil, err
	}

	payment := models.Payment{
		OrderID:       order.ID,
		ClientID:      order.ClientID,
		Amount:        invoice.TotalAmount,
		Method:        req.Method,
		Status:        "completed",
		TransactionID: result.TransactionID,
		PaidAt:        time.Now(),
	}

	message := fmt.Sprintf("Order %s has been paid and confirmed.", OrderRef(order.ID))
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		res := tx.Model(&models.Invoice{}).
			Where("id = ? AND payment_status = ?", invoice.ID, models.InvoiceStatusPending).
			Updates(map[string]interface{}{
				"payment_id":     payment.ID,
				"payment_status": models.InvoiceStatusPaid,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidTransition
		}

		if err := transitionOrder(tx, order.ID, models.OrderStatusRequested, map[string]interface{}{
			"status": models.OrderStatusAccepted,
		}); err != nil {
			return err
		}

		notification := models.Notification{
			TailorID: &order.TailorID,
			Message:  message,
			Type:     "order_paid",
			Status:   models.NotificationUnread,
			Date:     time.Now(),
		}
		return tx.Create(&notification).Error
	})
	if err != nil {
		return nil, err
	}

	order.Status = models.OrderStatusAccepted
	return &payment, nil
}
