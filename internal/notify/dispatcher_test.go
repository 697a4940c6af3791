package notify

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"ontrack/pkg/config"
	"ontrack/pkg/logger"
	"ontrack/pkg/model"
)

type fakeSMSSender struct {
	to   string
	body string
	err  error
}

func (f *fakeSMSSender) SendSMS(ctx context.Context, to string, body string) error {
	f.to = to
	f.body = body
	return f.err
}

type fakeEmailSender struct {
	sent []Email
	err  error
}

func (f *fakeEmailSender) SendEmail(ctx context.Context, email Email) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, email)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		DealershipEmail: "sales@ontrackauto.com",
		Log:             logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard}),
	}
}

func testBooking() *model.Booking {
	return &model.Booking{
		ID:       "booking-1HGCM82633A004352-2026-09-05-10-00",
		Name:     "Jordan Reyes",
		Email:    "jordan@example.com",
		Phone:    "+14165551234",
		Date:     "2026-09-05",
		TimeSlot: "10:00",
		Vehicle: model.VehicleSnapshot{
			VIN:     "1HGCM82633A004352",
			Make:    "Honda",
			Model:   "Accord",
			Year:    2021,
			Mileage: 42000,
			Price:   21995,
		},
	}
}

func TestSendConfirmations_BothChannels(t *testing.T) {
	sms := &fakeSMSSender{}
	email := &fakeEmailSender{}
	d := NewDispatcher(sms, email, testConfig())

	d.SendConfirmations(context.Background(), testBooking())

	if sms.to != "+14165551234" {
		t.Errorf("SMS sent to wrong number: %s", sms.to)
	}
	for _, want := range []string{"Jordan Reyes", "2021 Honda Accord", "Saturday, September 5, 2026", "10:00"} {
		if !strings.Contains(sms.body, want) {
			t.Errorf("SMS body missing %q: %s", want, sms.body)
		}
	}

	if len(email.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(email.sent))
	}
	msg := email.sent[0]
	if msg.To != "sales@ontrackauto.com" {
		t.Errorf("email sent to wrong address: %s", msg.To)
	}
	if msg.ReplyTo != "jordan@example.com" {
		t.Errorf("reply-to should be the customer: %s", msg.ReplyTo)
	}
	if !strings.Contains(msg.PlainText, "1HGCM82633A004352") {
		t.Errorf("email body missing VIN: %s", msg.PlainText)
	}
}

func TestSendConfirmations_SMSFailureStillSendsEmail(t *testing.T) {
	sms := &fakeSMSSender{err: errors.New("provider down")}
	email := &fakeEmailSender{}
	d := NewDispatcher(sms, email, testConfig())

	d.SendConfirmations(context.Background(), testBooking())

	if len(email.sent) != 1 {
		t.Errorf("email must still be attempted when SMS fails, got %d", len(email.sent))
	}
}

func TestSendConfirmations_NilChannels(t *testing.T) {
	d := NewDispatcher(nil, nil, testConfig())
	// Must not panic with no channels wired.
	d.SendConfirmations(context.Background(), testBooking())
}

func TestSendContactMessage(t *testing.T) {
	email := &fakeEmailSender{}
	d := NewDispatcher(nil, email, testConfig())

	contact := &model.ContactRequest{
		Name:    "Sam Ko",
		Email:   "sam@example.com",
		Phone:   "+14165550000",
		Message: "Is the Accord still available?",
	}

	if err := d.SendContactMessage(context.Background(), "OT-1A2B3C4D", contact); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(email.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(email.sent))
	}
	msg := email.sent[0]
	if !strings.Contains(msg.Subject, "OT-1A2B3C4D") {
		t.Errorf("subject missing reference: %s", msg.Subject)
	}
	if msg.ReplyTo != "sam@example.com" {
		t.Errorf("reply-to should be the sender: %s", msg.ReplyTo)
	}
}

func TestSendContactMessage_NoEmailChannel(t *testing.T) {
	d := NewDispatcher(nil, nil, testConfig())
	if err := d.SendContactMessage(context.Background(), "OT-1A2B3C4D", &model.ContactRequest{}); err == nil {
		t.Error("expected error when no email channel is configured")
	}
}
