package services

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/stitchly-app/stitchly-api/models"
)

// statusRank orders the forward lifecycle. Tailor status updates may only
// move an order to a strictly later rank.
var statusRank = map[string]int{
	models.OrderStatusRequested:  0,
	models.OrderStatusAccepted:   1,
	models.OrderStatusInProgress: 2,
	models.OrderStatusCompleted:  3,
}

// tailorTargets are the statuses a tailor may set through the explicit
// status-update operation.
var tailorTargets = map[string]bool{
	models.OrderStatusAccepted:   true,
	models.OrderStatusInProgress: true,
	models.OrderStatusCompleted:  true,
}

// OrderRef formats an order id the way it appears in user-facing messages.
func OrderRef(id uint) string {
	return fmt.Sprintf("#ORD-%04d", id)
}

func humanizeStatus(status string) string {
	return strings.ReplaceAll(status, "_", " ")
}

// CancelOrder cancels a client's order. Allowed only while the order is
// requested or accepted; the status change and the notification to the
// tailor commit in one transaction. The reason is appended to the client
// notes. On success the passed order is updated in place.
func CancelOrder(db *gorm.DB, order *models.Order, reason string) error {
	if order.Status != models.OrderStatusRequested && order.Status != models.OrderStatusAccepted {
		return ErrInvalidTransition
	}

	notes := order.ClientNotes
	if reason != "" {
		notes = strings.TrimSpace(notes + "\n\nCancellation Reason: " + reason)
	}

	message := fmt.Sprintf("Order %s has been cancelled by the client.", OrderRef(order.ID))
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := transitionOrder(tx, order.ID, order.Status, map[string]interface{}{
			"status":       models.OrderStatusCancelled,
			"client_notes": notes,
		}); err != nil {
			return err
		}

		notification := models.Notification{
			TailorID: &order.TailorID,
			Message:  message,
			Type:     "order_cancelled",
			Status:   models.NotificationUnread,
			Date:     time.Now(),
		}
		return tx.Create(&notification).Error
	})
	if err != nil {
		return err
	}

	order.Status = models.OrderStatusCancelled
	order.ClientNotes = notes
	return nil
}

// AcceptOrder moves a requested order to accepted on behalf of its tailor
// and notifies the client, atomically.
func AcceptOrder(db *gorm.DB, order *models.Order) error {
	if order.Status != models.OrderStatusRequested {
		return ErrInvalidTransition
	}

	message := fmt.Sprintf("Your order %s has been accepted by the tailor.", OrderRef(order.ID))
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := transitionOrder(tx, order.ID, models.OrderStatusRequested, map[string]interface{}{
			"status": models.OrderStatusAccepted,
		}); err != nil {
			return err
		}
		return createClientNotification(tx, order.ClientID, message, "order_accepted")
	})
	if err != nil {
		return err
	}

	order.Status = models.OrderStatusAccepted
	return nil
}

// DeclineOrder cancels a requested order on behalf of its tailor and
// notifies the client, atomically.
func DeclineOrder(db *gorm.DB, order *models.Order) error {
	if order.Status != models.OrderStatusRequested {
		return ErrInvalidTransition
	}

	message := fmt.Sprintf("Your order %s has been declined by the tailor.", OrderRef(order.ID))
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := transitionOrder(tx, order.ID, models.OrderStatusRequested, map[string]interface{}{
			"status": models.OrderStatusCancelled,
		}); err != nil {
			return err
		}
		return createClientNotification(tx, order.ClientID, message, "order_declined")
	})
	if err != nil {
		return err
	}

	order.Status = models.OrderStatusCancelled
	return nil
}

// UpdateOrderStatus applies a tailor-initiated status change. The target
// must be accepted, in_progress or completed and strictly later in the
// lifecycle than the current status. Completing an order stamps the
// completion date. The change and the client notification commit together.
func UpdateOrderStatus(db *gorm.DB, order *models.Order, target string) error {
	if !tailorTargets[target] {
		return ErrInvalidTransition
	}

	currentRank, ok := statusRank[order.Status]
	if !ok {
		// cancelled orders have no rank and cannot move
		return ErrInvalidTransition
	}
	if statusRank[target] <= currentRank {
		return ErrInvalidTransition
	}

	updates := map[string]interface{}{"status": target}
	var completedAt *time.Time
	if target == models.OrderStatusCompleted {
		now := time.Now()
		completedAt = &now
		updates["completion_date"] = now
	}

	oldStatus := order.Status
	message := fmt.Sprintf("Your order %s status has been updated from %s to %s",
		OrderRef(order.ID), humanizeStatus(oldStatus), humanizeStatus(target))

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := transitionOrder(tx, order.ID, oldStatus, updates); err != nil {
			return err
		}
		return createClientNotification(tx, order.ClientID, message, "order_status")
	})
	if err != nil {
		return err
	}

	order.Status = target
	if completedAt != nil {
		order.CompletionDate = completedAt
	}
	return nil
}

// transitionOrder performs a guarded status update: the WHERE clause pins
// the expected current status, so a concurrent writer that already moved
// the order makes this a no-op and the whole transaction fails.
func transitionOrder(tx *gorm.DB, orderID uint, expectedStatus string, updates map[string]interface{}) error {
	res := tx.Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, expectedStatus).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInvalidTransition
	}
	return nil
}

func createClientNotification(tx *gorm.DB, clientID uint, message, notifType string) error {
	notification := models.Notification{
		ClientID: &clientID,
		Message:  message,
		Type:     notifType,
		Status:   models.NotificationUnread,
		Date:     time.Now(),
	}
	return tx.Create(&notification).Error
}
