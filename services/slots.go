package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/stitchly-app/stitchly-api/models"
)

// SlotBufferMinutes is the gap between consecutive bookable slots.
const SlotBufferMinutes = 30

// Slot is one bookable time window on a given date. Times of day are
// "HH:MM" strings.
type Slot struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Available bool   `json:"available"`
	Display   string `json:"display"`
}

// SlotDurationMinutes returns the booking length for a service type:
// 60 minutes for pickups, 120 for home visits.
func SlotDurationMinutes(serviceType string) int {
	if serviceType == models.ServiceTypePickup {
		return 60
	}
	return 120
}

// GenerateSlots enumerates the bookable slots inside an availability window.
// Starting at the window's start time it emits [t, min(t+duration, end))
// while t is before the end, advancing by duration plus the buffer; the
// final slot may be truncated at closing time. A slot whose start matches a
// booked start time is marked unavailable. Unset start or end times yield
// an empty list.
func GenerateSlots(avail *models.Availability, serviceType string, bookedStarts map[string]bool) []Slot {
	slots := []Slot{}
	if avail == nil || avail.StartTime == nil || avail.EndTime == nil {
		return slots
	}

	start, okStart := parseTimeOfDay(*avail.StartTime)
	end, okEnd := parseTimeOfDay(*avail.EndTime)
	if !okStart || !okEnd || end <= start {
		return slots
	}

	duration := SlotDurationMinutes(serviceType)
	for t := start; t < end; t += duration + SlotBufferMinutes {
		slotEnd := t + duration
		if slotEnd > end {
			slotEnd = end
		}
		startStr := formatTimeOfDay(t)
		endStr := formatTimeOfDay(slotEnd)
		slots = append(slots, Slot{
			Start:     startStr,
			End:       endStr,
			Available: !bookedStarts[startStr],
			Display:   fmt.Sprintf("%s - %s", displayTime(t), displayTime(slotEnd)),
		})
	}

	return slots
}

// BookedStartTimes returns the "HH:MM" start times of a tailor's orders
// scheduled on the given date that still occupy their slot (requested,
// accepted or in progress).
func BookedStartTimes(db *gorm.DB, tailorID uint, date time.Time) (map[string]bool, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	var orders []models.Order
	err := db.
		Where("tailor_id = ?", tailorID).
		Where("status IN ?", []string{
			models.OrderStatusRequested,
			models.OrderStatusAccepted,
			models.OrderStatusInProgress,
		}).
		Where("(scheduled_pickup >= ? AND scheduled_pickup < ?) OR (scheduled_visit >= ? AND scheduled_visit < ?)",
			dayStart, dayEnd, dayStart, dayEnd).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	booked := make(map[string]bool, len(orders))
	for _, o := range orders {
		if at := o.ScheduledAt(); at != nil {
			booked[at.Format("15:04")] = true
		}
	}
	return booked, nil
}

// parseTimeOfDay converts "HH:MM" to minutes since midnight.
func parseTimeOfDay(s string) (int, bool) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

func formatTimeOfDay(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func displayTime(minutes int) string {
	t := time.Date(0, 1, 1, minutes/60, minutes%60, 0, 0, time.UTC)
	return t.Format("3:04 PM")
}
