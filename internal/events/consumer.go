package events

import (
	"context"
	"fmt"

	"ontrack/internal/notify"
	"ontrack/pkg/kafka"
	"ontrack/pkg/logger"
	"ontrack/pkg/model"
)

// NewBookingEventHandler builds the consumer-side handler that hands
// booking.created events to the notification dispatcher. Unknown event
// types are acknowledged and skipped so a topic schema addition does not
// poison the group.
func NewBookingEventHandler(dispatcher *notify.Dispatcher, log *logger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		if msg.GetEventType() != model.EventTypeBookingCreated {
			log.Warn("skipping unexpected event type",
				"event_type", msg.GetEventType(),
				"event_id", msg.GetEventID(),
			)
			return nil
		}

		var event model.BookingCreatedEvent
		if err := msg.DecodeValue(&event); err != nil {
			return fmt.Errorf("failed to decode booking event: %w", err)
		}

		log.Info("processing booking event",
			"event_id", msg.GetEventID(),
			"booking_id", event.Booking.ID,
		)

		dispatcher.SendConfirmations(ctx, &event.Booking)
		return nil
	}
}
