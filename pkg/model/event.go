package model

const EventTypeBookingCreated = "booking.created"

// BookingCreatedEvent is published after a booking commits. Consumers use
// it to dispatch notifications without blocking the write path.
type BookingCreatedEvent struct {
	Booking Booking `json:"booking"`
}
