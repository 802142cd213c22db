package bookings

import "errors"

var (
	// ErrNotFound is returned for commands addressing an unknown booking id.
	ErrNotFound = errors.New("booking not found")

	// ErrInvalidStatus is returned when a status command names anything other
	// than confirmed or cancelled.
	ErrInvalidStatus = errors.New("invalid booking status")
)
