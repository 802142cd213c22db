package availability

import "errors"

var (
	// ErrInvalidDate is returned when a date is not a YYYY-MM-DD value.
	ErrInvalidDate = errors.New("invalid date")

	// ErrPastDate is returned when selecting or blocking a date before today.
	ErrPastDate = errors.New("date is in the past")

	// ErrSlotRequired is returned when a non-full-day block names no time slot.
	ErrSlotRequired = errors.New("time slot is required")

	// ErrInvalidSlot is returned for a slot outside the working window.
	ErrInvalidSlot = errors.New("invalid time slot")

	// ErrSlotTaken is returned when the slot is already blocked for the date.
	ErrSlotTaken = errors.New("time slot is already blocked")

	// ErrNotFound is returned when unblocking an unknown entry id.
	ErrNotFound = errors.New("blocked time not found")
)
