package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	// ErrDuplicateSlot is the storage-layer conflict signal: the
	// deterministic _id for (vin, date, slot) already exists.
	ErrDuplicateSlot = errors.New("time slot already booked")
)
