package errors

import "errors"

var (
	ErrNotFound = errors.New("car not found")

	ErrInvalidID = errors.New("invalid car ID format")

	// ErrNoAvailability is reported when a conditional reserve matches no
	// document because every unit is already booked.
	ErrNoAvailability = errors.New("car has no available units")

	// ErrFleetFull is reported when a conditional release matches no document
	// because available already equals quantity.
	ErrFleetFull = errors.New("car already has all units available")
)
