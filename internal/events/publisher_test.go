package events

import (
	"context"
	"errors"
	"io"
	"testing"

	"ontrack/internal/notify"
	"ontrack/pkg/config"
	"ontrack/pkg/kafka"
	"ontrack/pkg/logger"
	"ontrack/pkg/model"
)

type fakeProducer struct {
	messages []kafka.Message
	err      error
}

func (f *fakeProducer) Publish(ctx context.Context, msg kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msg)
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard})
}

func sampleBooking() *model.Booking {
	return &model.Booking{
		ID:       "booking-VIN1-2026-09-05-10-00",
		Name:     "Jordan Reyes",
		Phone:    "+14165551234",
		Date:     "2026-09-05",
		TimeSlot: "10:00",
		Vehicle:  model.VehicleSnapshot{VIN: "VIN1", Make: "Honda", Model: "Accord", Year: 2021},
	}
}

func TestPublishBookingCreated(t *testing.T) {
	producer := &fakeProducer{}
	publisher := NewBookingPublisher(producer, testLogger())

	if err := publisher.PublishBookingCreated(context.Background(), sampleBooking()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(producer.messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(producer.messages))
	}
	msg := producer.messages[0]
	if msg.Key != "booking-VIN1-2026-09-05-10-00" {
		t.Errorf("message should be keyed by booking id: %s", msg.Key)
	}
	if msg.GetEventType() != model.EventTypeBookingCreated {
		t.Errorf("unexpected event type: %s", msg.GetEventType())
	}
	if msg.GetEventID() == "" {
		t.Error("event id should be assigned")
	}

	var event model.BookingCreatedEvent
	if err := msg.DecodeValue(&event); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	if event.Booking.Vehicle.Make != "Honda" {
		t.Errorf("payload lost vehicle snapshot: %+v", event.Booking)
	}
}

func TestPublishBookingCreated_ProducerError(t *testing.T) {
	producer := &fakeProducer{err: errors.New("broker down")}
	publisher := NewBookingPublisher(producer, testLogger())

	if err := publisher.PublishBookingCreated(context.Background(), sampleBooking()); err == nil {
		t.Error("producer failure should surface to the caller")
	}
}

type captureSMS struct {
	bodies []string
}

func (c *captureSMS) SendSMS(ctx context.Context, to string, body string) error {
	c.bodies = append(c.bodies, body)
	return nil
}

func TestBookingEventHandler(t *testing.T) {
	sms := &captureSMS{}
	cfg := &config.Config{Log: testLogger()}
	dispatcher := notify.NewDispatcher(sms, nil, cfg)
	handler := NewBookingEventHandler(dispatcher, testLogger())

	msg := kafka.NewMessage().
		WithKey("booking-VIN1-2026-09-05-10-00").
		WithValue(model.BookingCreatedEvent{Booking: *sampleBooking()}).
		WithEventType(model.EventTypeBookingCreated).
		Build()

	if err := handler(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sms.bodies) != 1 {
		t.Errorf("dispatcher should have sent one SMS, got %d", len(sms.bodies))
	}
}

func TestBookingEventHandler_SkipsUnknownEventType(t *testing.T) {
	sms := &captureSMS{}
	cfg := &config.Config{Log: testLogger()}
	dispatcher := notify.NewDispatcher(sms, nil, cfg)
	handler := NewBookingEventHandler(dispatcher, testLogger())

	msg := kafka.NewMessage().
		WithKey("k").
		WithRawValue([]byte(`{}`)).
		WithEventType("booking.cancelled").
		Build()

	if err := handler(context.Background(), msg); err != nil {
		t.Fatalf("unknown event types must be acknowledged, got %v", err)
	}
	if len(sms.bodies) != 0 {
		t.Error("no notification should be sent for unknown event types")
	}
}

func TestBookingEventHandler_MalformedPayload(t *testing.T) {
	cfg := &config.Config{Log: testLogger()}
	dispatcher := notify.NewDispatcher(nil, nil, cfg)
	handler := NewBookingEventHandler(dispatcher, testLogger())

	msg := kafka.NewMessage().
		WithKey("k").
		WithRawValue([]byte(`{not json`)).
		WithEventType(model.EventTypeBookingCreated).
		Build()

	if err := handler(context.Background(), msg); err == nil {
		t.Error("malformed payload should error so retry/DLQ policy applies")
	}
}
