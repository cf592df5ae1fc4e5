package models

import "time"

type Booking struct {
	ID        int64     `json:"id"`
	ItemID    int64     `json:"item_id"`
	ItemName  string    `json:"item_name"`
	OwnerID   int64     `json:"owner_id"`
	BookerID  int64     `json:"booker_id"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int64     `json:"version"`
}

// Active сообщает, занимает ли бронирование слот (участвует в проверке конфликтов).
func (b *Booking) Active() bool {
	return b.Status == StatusWaiting || b.Status == StatusApproved
}

// Overlaps checks two half-open intervals [start, end): back-to-back
// bookings (one ends exactly when the other starts) do not overlap.
func (b *Booking) Overlaps(other *Booking) bool {
	return b.Start.Before(other.End) && other.Start.Before(b.End)
}

// OverlapsInterval is Overlaps against a raw interval.
func (b *Booking) OverlapsInterval(start, end time.Time) bool {
	return b.Start.Before(end) && start.Before(b.End)
}

// ValidateInterval проверяет границы интервала при создании.
func ValidateInterval(start, end, now time.Time) error {
	if start.IsZero() || end.IsZero() {
		return ErrInvalidInterval
	}
	if !end.After(start) {
		return ErrInvalidInterval
	}
	if start.Before(now) {
		return ErrPastStart
	}
	return nil
}
