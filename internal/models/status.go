package models

import "fmt"

// Status is the lifecycle state of a booking.
type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	StatusCanceled Status = "CANCELED"
)

// Event triggers a status transition.
type Event string

const (
	EventApprove Event = "APPROVE"
	EventReject  Event = "REJECT"
	EventCancel  Event = "CANCEL"
)

// Role of the caller relative to the booking.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleBooker Role = "booker"
	RoleNone   Role = "none"
)

// transitions: событие допустимо только из WAITING.
var transitions = map[Event]struct {
	next Status
	role Role
}{
	EventApprove: {StatusApproved, RoleOwner},
	EventReject:  {StatusRejected, RoleOwner},
	EventCancel:  {StatusCanceled, RoleBooker},
}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusWaiting, StatusApproved, StatusRejected, StatusCanceled:
		return true
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusCanceled
}

// Transition returns the next status for (s, event, role), or an error
// without any state change. The role check runs first: a caller who
// could never fire the event gets ErrNotAuthorized even on a terminal
// booking; a rightful caller on a terminal booking gets
// ErrInvalidTransition.
func Transition(s Status, event Event, role Role) (Status, error) {
	t, ok := transitions[event]
	if !ok {
		return s, fmt.Errorf("%w: unknown event %q", ErrInvalidTransition, event)
	}
	if role != t.role {
		return s, fmt.Errorf("%w: %s requires %s role", ErrNotAuthorized, event, t.role)
	}
	if s != StatusWaiting {
		return s, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, event, s)
	}
	return t.next, nil
}

// RoleFor определяет роль пользователя по отношению к бронированию.
func (b *Booking) RoleFor(userID int64) Role {
	switch userID {
	case b.OwnerID:
		return RoleOwner
	case b.BookerID:
		return RoleBooker
	default:
		return RoleNone
	}
}

// CanView: booking is visible to its booker and to the item's owner only.
func (b *Booking) CanView(userID int64) bool {
	return userID == b.BookerID || userID == b.OwnerID
}

// ParseStatus converts a string to a Status.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status: %s", s)
	}
	return status, nil
}
