package notify

import "context"

// SMSSender delivers a single text message to an E.164 number.
type SMSSender interface {
	SendSMS(ctx context.Context, to string, body string) error
}

// Email is one outbound message. ReplyTo is set when a dealership reply
// should go back to the customer rather than the sending address.
type Email struct {
	To          string
	ToName      string
	ReplyTo     string
	ReplyToName string
	Subject     string
	PlainText   string
	HTML        string
}

type EmailSender interface {
	SendEmail(ctx context.Context, email Email) error
}
