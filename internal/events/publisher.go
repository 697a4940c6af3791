package events

import (
	"context"

	"ontrack/pkg/kafka"
	"ontrack/pkg/logger"
	"ontrack/pkg/model"
)

const source = "dealer-api"

// Producer is the slice of the kafka producer this package needs.
type Producer interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// BookingPublisher turns committed bookings into booking.created events.
// Messages are keyed by booking id so replays of the same booking land on
// the same partition.
type BookingPublisher struct {
	producer Producer
	log      *logger.Logger
}

func NewBookingPublisher(producer Producer, log *logger.Logger) *BookingPublisher {
	return &BookingPublisher{
		producer: producer,
		log:      log,
	}
}

func (p *BookingPublisher) PublishBookingCreated(ctx context.Context, booking *model.Booking) error {
	msg := kafka.NewMessage().
		WithKey(booking.ID).
		WithValue(model.BookingCreatedEvent{Booking: *booking}).
		WithEventType(model.EventTypeBookingCreated).
		WithSource(source).
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		return err
	}

	p.log.Info("booking event published",
		"event_type", model.EventTypeBookingCreated,
		"booking_id", booking.ID,
	)
	return nil
}
