package notify

import (
	"context"
	"fmt"
	"time"

	"ontrack/pkg/config"
	"ontrack/pkg/logger"
	"ontrack/pkg/model"
)

const dateDisplayLayout = "Monday, January 2, 2006"

// Dispatcher fans a committed booking out to its notification channels.
// Each channel is attempted independently; a provider failure is logged
// and never surfaces to the caller. Bookings stand on their own once
// written.
type Dispatcher struct {
	sms             SMSSender
	email           EmailSender
	dealershipEmail string
	log             *logger.Logger
}

func NewDispatcher(sms SMSSender, email EmailSender, cfg *config.Config) *Dispatcher {
	return &Dispatcher{
		sms:             sms,
		email:           email,
		dealershipEmail: cfg.DealershipEmail,
		log:             cfg.Log,
	}
}

func (d *Dispatcher) SendConfirmations(ctx context.Context, booking *model.Booking) {
	if d.sms != nil {
		if err := d.sms.SendSMS(ctx, booking.Phone, confirmationSMS(booking)); err != nil {
			d.log.Error("failed to send confirmation SMS",
				"booking_id", booking.ID,
				"error", err,
			)
		} else {
			d.log.Info("confirmation SMS sent", "booking_id", booking.ID)
		}
	}

	if d.email != nil && d.dealershipEmail != "" {
		if err := d.email.SendEmail(ctx, bookingEmail(d.dealershipEmail, booking)); err != nil {
			d.log.Error("failed to send booking email",
				"booking_id", booking.ID,
				"error", err,
			)
		} else {
			d.log.Info("booking email sent", "booking_id", booking.ID)
		}
	}
}

// SendContactMessage forwards a contact form submission to the
// dealership inbox, keyed by its reference number.
func (d *Dispatcher) SendContactMessage(ctx context.Context, ref string, contact *model.ContactRequest) error {
	if d.email == nil || d.dealershipEmail == "" {
		return fmt.Errorf("email channel is not configured")
	}
	return d.email.SendEmail(ctx, contactEmail(d.dealershipEmail, ref, contact))
}

func displayDate(date string) string {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return d.Format(dateDisplayLayout)
}

func confirmationSMS(b *model.Booking) string {
	return fmt.Sprintf(
		"Hi %s, your test drive for the %d %s %s is confirmed for %s at %s. See you soon! OnTrack Automotive Group",
		b.Name, b.Vehicle.Year, b.Vehicle.Make, b.Vehicle.Model, displayDate(b.Date), b.TimeSlot,
	)
}

func bookingEmail(to string, b *model.Booking) Email {
	subject := fmt.Sprintf("New test drive: %d %s %s on %s at %s",
		b.Vehicle.Year, b.Vehicle.Make, b.Vehicle.Model, b.Date, b.TimeSlot)

	plain := fmt.Sprintf(
		"New test drive booking\n\n"+
			"Customer: %s\nEmail: %s\nPhone: %s\n\n"+
			"Vehicle: %d %s %s\nVIN: %s\nMileage: %d km\nPrice: $%.2f\n\n"+
			"Date: %s\nTime: %s\nBooking ID: %s\n",
		b.Name, b.Email, b.Phone,
		b.Vehicle.Year, b.Vehicle.Make, b.Vehicle.Model, b.Vehicle.VIN, b.Vehicle.Mileage, b.Vehicle.Price,
		displayDate(b.Date), b.TimeSlot, b.ID,
	)

	return Email{
		To:          to,
		ToName:      "Sales Team",
		ReplyTo:     b.Email,
		ReplyToName: b.Name,
		Subject:     subject,
		PlainText:   plain,
	}
}

func contactEmail(to string, ref string, c *model.ContactRequest) Email {
	subject := fmt.Sprintf("Contact form [%s] from %s", ref, c.Name)

	plain := fmt.Sprintf(
		"Reference: %s\n\nName: %s\nEmail: %s\nPhone: %s\n\nMessage:\n%s\n",
		ref, c.Name, c.Email, c.Phone, c.Message,
	)

	return Email{
		To:          to,
		ToName:      "Sales Team",
		ReplyTo:     c.Email,
		ReplyToName: c.Name,
		Subject:     subject,
		PlainText:   plain,
	}
}
