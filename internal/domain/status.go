package domain

import "strings"

// ServiceStatus is the recognized subset of booking statuses. Anything the
// admin app writes outside this set parses to StatusOther.
type ServiceStatus int

const (
	StatusOther ServiceStatus = iota
	StatusConfirmed
	StatusCompleted
	StatusCanceled
)

// Canonical status strings as stored by the booking apps.
const (
	StatusConfirmedText = "Booking Confirmed"
	StatusCompletedText = "Completed"
	StatusCanceledText  = "Booking Canceled"
)

// ParseServiceStatus maps a stored status string onto the enumeration.
// Only the exact canonical strings are recognized; every other value,
// including other spellings of the same words, is StatusOther.
func ParseServiceStatus(raw string) ServiceStatus {
	switch raw {
	case StatusConfirmedText:
		return StatusConfirmed
	case StatusCompletedText:
		return StatusCompleted
	case StatusCanceledText:
		return StatusCanceled
	default:
		return StatusOther
	}
}

// IsTerminalStatus reports whether a booking with this stored status needs
// no reminder. Unlike ParseServiceStatus it ignores case and surrounding
// space and accepts the lowercase legacy spellings the first app release
// wrote.
func IsTerminalStatus(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "completed", "booking canceled", "booking cancelled", "canceled", "cancelled":
		return true
	default:
		return false
	}
}

// IsTerminal reports whether a booking in this status needs no reminder.
func (s ServiceStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCanceled
}

func (s ServiceStatus) String() string {
	switch s {
	case StatusConfirmed:
		return StatusConfirmedText
	case StatusCompleted:
		return StatusCompletedText
	case StatusCanceled:
		return StatusCanceledText
	default:
		return "other"
	}
}
