package booking

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"salonflow/models"
)

// DateLayout is the calendar-date format bookings carry.
const DateLayout = "2006-01-02"

// ParseSlotMinutes converts a "15:04" time-slot string to minutes from
// midnight. Malformed strings are a caller validation error.
func ParseSlotMinutes(timeSlot string) (int, error) {
	parts := strings.Split(timeSlot, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time slot %q", timeSlot)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid time slot %q", timeSlot)
	}
	mins, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid time slot %q", timeSlot)
	}
	if hours < 0 || hours > 23 || mins < 0 || mins > 59 {
		return 0, fmt.Errorf("time slot %q out of range", timeSlot)
	}
	return hours*60 + mins, nil
}

// SlotKey is the storage key the partial unique index guards: one active
// booking per provider/employee/date/start.
func SlotKey(providerID, employee, date string, startMins int) string {
	return fmt.Sprintf("%s|%s|%s|%d", providerID, employee, date, startMins)
}

// IsSlotFree decides whether [startMins, startMins+durationMins) on date is
// free given the existing bookings. Only PAID, non-cancelled bookings
// occupy; intervals are half-open, so back-to-back slots do not conflict.
// Same-day slots must start strictly after now. This is a pre-check; the
// authoritative guard is the conditional write at commit time.
func IsSlotFree(now time.Time, date string, startMins, durationMins int, existing []models.Booking) bool {
	if date == now.Format(DateLayout) {
		nowMins := now.Hour()*60 + now.Minute()
		if startMins <= nowMins {
			return false
		}
	}

	end := startMins + durationMins
	for i := range existing {
		b := &existing[i]
		if b.Date != date || !b.Occupies() {
			continue
		}
		bStart, err := ParseSlotMinutes(b.TimeSlot)
		if err != nil {
			continue
		}
		bEnd := bStart + b.DurationMins
		if startMins < bEnd && bStart < end {
			return false
		}
	}
	return true
}

// OccupiedIntervals returns the [start, end) minute intervals held by
// occupying bookings, for the availability pre-check endpoint.
func OccupiedIntervals(existing []models.Booking) [][2]int {
	intervals := make([][2]int, 0, len(existing))
	for i := range existing {
		b := &existing[i]
		if !b.Occupies() {
			continue
		}
		start, err := ParseSlotMinutes(b.TimeSlot)
		if err != nil {
			continue
		}
		intervals = append(intervals, [2]int{start, start + b.DurationMins})
	}
	return intervals
}
