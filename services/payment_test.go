package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitchly-app/stitchly-api/models"
)

// approveAllGateway charges everything and records the request it saw.
type approveAllGateway struct {
	lastRequest ChargeRequest
}

func (g *approveAllGateway) Charge(req ChargeRequest) (*ChargeResult, error) {
	g.lastRequest = req
	return &ChargeResult{TransactionID: "TXN_test"}, nil
}

// declineAllGateway rejects every charge.
type declineAllGateway struct{}

func (declineAllGateway) Charge(ChargeRequest) (*ChargeResult, error) {
	return nil, ErrPaymentDeclined
}

func TestProcessPaymentSuccess(t *testing.T) {
	db, order := seedOrder(t, models.OrderStatusRequested)
	gateway := &approveAllGateway{}

	payment, err := ProcessPayment(db, gateway, order, ChargeRequest{Method: "card"})
	require.NoError(t, err)
	require.NotNil(t, payment)

	// The gateway is charged the VAT-inclusive invoice total.
	assert.True(t, gateway.lastRequest.Amount.Equal(d("115.00")),
		"charged %s, want 115.00", gateway.lastRequest.Amount)
	assert.Equal(t, order.ID, gateway.lastRequest.OrderID)

	assert.Equal(t, "TXN_test", payment.TransactionID)
	assert.Equal(t, "completed", payment.Status)
	assert.True(t, payment.Amount.Equal(d("115.00")))

	var invoice models.Invoice
	require.NoError(t, db.Where("order_id = ?", order.ID).First(&invoice).Error)
	assert.Equal(t, models.InvoiceStatusPaid, invoice.PaymentStatus)
	require.NotNil(t, invoice.PaymentID)
	assert.Equal(t, payment.ID, *invoice.PaymentID)

	var stored models.Order
	require.NoError(t, db.First(&stored, order.ID).Error)
	assert.Equal(t, models.OrderStatusAccepted, stored.Status)
	assert.Equal(t, models.OrderStatusAccepted, order.Status)

	var notification models.Notification
	require.NoError(t, db.Where("tailor_id = ?", order.TailorID).First(&notification).Error)
	assert.Equal(t, "order_paid", notification.Type)
}

func TestProcessPaymentDeclined(t *testing.T) {
	db, order := seedOrder(t, models.OrderStatusRequested)

	payment, err := ProcessPayment(db, declineAllGateway{}, order, ChargeRequest{Method: "card"})
	assert.ErrorIs(t, err, ErrPaymentDeclined)
	assert.Nil(t, payment)

	// Nothing is written on a decline.
	var paymentCount int64
	db.Model(&models.Payment{}).Count(&paymentCount)
	assert.Zero(t, paymentCount)

	var invoice models.Invoice
	require.NoError(t, db.Where("order_id = ?", order.ID).First(&invoice).Error)
	assert.Equal(t, models.InvoiceStatusPending, invoice.PaymentStatus)

	var stored models.Order
	require.NoError(t, db.First(&stored, order.ID).Error)
	assert.Equal(t, models.OrderStatusRequested, stored.Status)
}

func TestProcessPaymentRetryAfterDecline(t *testing.T) {
	db, order := seedOrder(t, models.OrderStatusRequested)

	_, err := ProcessPayment(db, declineAllGateway{}, order, ChargeRequest{Method: "card"})
	require.ErrorIs(t, err, ErrPaymentDeclined)

	payment, err := ProcessPayment(db, &approveAllGateway{}, order, ChargeRequest{Method: "card"})
	require.NoError(t, err)
	assert.NotNil(t, payment)
	assert.Equal(t, models.OrderStatusAccepted, order.Status)
}

func TestProcessPaymentWrongOrderStatus(t *testing.T) {
	for _, status := range []string{
		models.OrderStatusAccepted,
		models.OrderStatusInProgress,
		models.OrderStatusCompleted,
		models.OrderStatusCancelled,
	} {
		db, order := seedOrder(t, status)

		_, err := ProcessPayment(db, &approveAllGateway{}, order, ChargeRequest{Method: "card"})
		assert.ErrorIs(t, err, ErrInvalidTransition, "status %s", status)

		var paymentCount int64
		db.Model(&models.Payment{}).Count(&paymentCount)
		assert.Zero(t, paymentCount)
	}
}

func TestProcessPaymentAlreadyPaidInvoice(t *testing.T) {
	db, order := seedOrder(t, models.OrderStatusRequested)
	require.NoError(t, db.Model(&models.Invoice{}).
		Where("order_id = ?", order.ID).
		Update("payment_status", models.InvoiceStatusPaid).Error)

	_, err := ProcessPayment(db, &approveAllGateway{}, order, ChargeRequest{Method: "card"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestProcessPaymentMissingInvoice(t *testing.T) {
	db, order := seedOrder(t, models.OrderStatusRequested)
	require.NoError(t, db.Where("order_id = ?", order.ID).Delete(&models.Invoice{}).Error)

	_, err := ProcessPayment(db, &approveAllGateway{}, order, ChargeRequest{Method: "card"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSimulatedGatewayTransactionIDs(t *testing.T) {
	gateway := &SimulatedGateway{SuccessRate: 1.0}

	first, err := gateway.Charge(ChargeRequest{})
	require.NoError(t, err)
	second, err := gateway.Charge(ChargeRequest{})
	require.NoError(t, err)

	assert.Contains(t, first.TransactionID, "TXN_")
	assert.NotEqual(t, first.TransactionID, second.TransactionID)
}
