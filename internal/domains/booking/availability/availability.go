// Package availability decides whether a proposed time window may be
// admitted against the bookings a resource already holds. It is a pure
// engine: callers load the candidate set and hold whatever lock makes the
// read-check-write sequence atomic.
package availability

import (
	"fmt"
	"tably/internal/domains/booking/model"
)

// ConflictError carries every booking that conflicts with the proposed
// window, not just the first, so callers can present alternatives.
type ConflictError struct {
	Conflicting []model.Booking
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("window conflicts with %d existing booking(s)", len(e.Conflicting))
}

// CheckExclusive scans existing bookings for the resource and returns a
// ConflictError listing every active booking whose window overlaps the
// proposed one. Bookings in terminal states never conflict, and excludeID
// lets an update be checked against everything but itself.
func CheckExclusive(proposed Window, existing []model.Booking, excludeID string) error {
	if err := proposed.Validate(); err != nil {
		return err
	}

	var conflicting []model.Booking

	for _, booking := range existing {
		if (excludeID != "" && booking.ID == excludeID) || !booking.Status.Active() {
			continue
		}

		if proposed.Overlaps(Window{Start: booking.WindowStart, End: booking.WindowEnd}) {
			conflicting = append(conflicting, booking)
		}
	}

	if len(conflicting) > 0 {
		return &ConflictError{Conflicting: conflicting}
	}

	return nil
}

// CheckCapacity admits the request when the aggregate guest count of all
// active bookings overlapping the proposed window, plus the requested
// guests, stays within the resource capacity. On rejection the
// ConflictError lists the overlapping bookings that exhaust the capacity.
func CheckCapacity(proposed Window, guests, capacity int, existing []model.Booking, excludeID string) error {
	if err := proposed.Validate(); err != nil {
		return err
	}

	seated := 0

	var overlapping []model.Booking

	for _, booking := range existing {
		if (excludeID != "" && booking.ID == excludeID) || !booking.Status.Active() {
			continue
		}

		if proposed.Overlaps(Window{Start: booking.WindowStart, End: booking.WindowEnd}) {
			seated += booking.GuestCount
			overlapping = append(overlapping, booking)
		}
	}

	if seated+guests > capacity {
		return &ConflictError{Conflicting: overlapping}
	}

	return nil
}
