package service

import (
	"context"
	"errors"
	"sort"
	"time"

	bookingserrors "ontrack/internal/bookings/errors"
	"ontrack/internal/bookings/repository"
	"ontrack/internal/bookings/validator"
	inventoryerrors "ontrack/internal/inventory/errors"
	"ontrack/pkg/config"
	apperrors "ontrack/pkg/errors"
	"ontrack/pkg/logger"
	"ontrack/pkg/model"
	"ontrack/pkg/sanitizer"
)

// maxBulkDates bounds a single bulk availability query. The booking
// window is 15 days, so anything near this limit is a misbehaving client.
const maxBulkDates = 31

const notifyTimeout = 30 * time.Second

// VehicleSource is the inventory lookup the booking gate needs.
type VehicleSource interface {
	FindByVIN(ctx context.Context, vin string) (*model.Vehicle, error)
}

// ConfirmationSender delivers customer and dealership notifications.
// Delivery is best-effort and never affects the booking outcome.
type ConfirmationSender interface {
	SendConfirmations(ctx context.Context, booking *model.Booking)
}

// EventPublisher emits booking lifecycle events for async consumers.
type EventPublisher interface {
	PublishBookingCreated(ctx context.Context, booking *model.Booking) error
}

type BookingService interface {
	CreateBooking(ctx context.Context, req *model.BookingRequest) (*model.Booking, error)
	BookedSlots(ctx context.Context, vin string, date string) ([]string, error)
	BookedSlotsBulk(ctx context.Context, vin string, dates []string) (map[string][]string, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	vehicles  VehicleSource
	validator *validator.BookingValidator
	notifier  ConfirmationSender
	publisher EventPublisher
	cfg       *config.Config
	logger    *logger.Logger
	now       func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	vehicles VehicleSource,
	bookingValidator *validator.BookingValidator,
	notifier ConfirmationSender,
	publisher EventPublisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		vehicles:  vehicles,
		validator: bookingValidator,
		notifier:  notifier,
		publisher: publisher,
		cfg:       cfg,
		logger:    cfg.Log,
		now:       time.Now,
	}
}

// CreateBooking validates the request, gates it on live inventory, and
// writes the booking under its deterministic id. Exactly one caller wins
// a given (vin, date, slot) triple; losers get a conflict. Notifications
// are dispatched after the write commits and cannot fail the booking.
func (s *bookingService) CreateBooking(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
	req.Name = sanitizer.NormalizeName(req.Name)
	req.Email = sanitizer.NormalizeEmail(req.Email)
	req.VIN = sanitizer.SanitizeVIN(req.VIN)

	if err := s.validator.ValidateRequest(req); err != nil {
		return nil, apperrors.Validation("Invalid booking request", map[string]any{"errors": err.Error()})
	}

	date, err := validator.ParseDateOnly(req.Date)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	if err := s.validator.ValidateHorizon(date, s.now(), s.cfg.BookingHorizonDays); err != nil {
		return nil, apperrors.Validation("Invalid booking date", map[string]any{"errors": err.Error()})
	}
	if err := s.validator.ValidateSlot(req.TimeSlot, s.cfg.SlotLabels()); err != nil {
		return nil, apperrors.Validation("Invalid time slot", map[string]any{"errors": err.Error()})
	}

	phone, err := s.validator.NormalizePhone(req.Phone)
	if err != nil {
		return nil, apperrors.Validation("Invalid phone number", map[string]any{"errors": err.Error()})
	}

	vehicle, err := s.vehicles.FindByVIN(ctx, req.VIN)
	if err != nil {
		if errors.Is(err, inventoryerrors.ErrNotFound) {
			return nil, apperrors.NotFound("Vehicle")
		}
		return nil, apperrors.Internal("Failed to verify vehicle", err)
	}
	if !vehicle.IsAvailable {
		return nil, apperrors.Conflict("This vehicle is sold or unavailable for booking.")
	}

	booking := &model.Booking{
		ID:         model.BookingID(req.VIN, date, req.TimeSlot),
		BookingKey: model.BookingKey(req.VIN, date, req.TimeSlot),
		Name:       req.Name,
		Email:      req.Email,
		Phone:      phone,
		Date:       date,
		TimeSlot:   req.TimeSlot,
		Vehicle:    vehicle.Snapshot(),
	}

	if err := s.repo.Insert(ctx, booking); err != nil {
		if errors.Is(err, bookingserrors.ErrDuplicateSlot) {
			return nil, apperrors.Conflict("This time slot is already booked.")
		}
		return nil, apperrors.Internal("Failed to create booking", err)
	}

	s.logger.Info("booking created",
		"booking_id", booking.ID,
		"vin", booking.Vehicle.VIN,
		"date", booking.Date,
		"time_slot", booking.TimeSlot,
	)

	s.afterCreate(booking)

	return booking, nil
}

// afterCreate hands the committed booking to the notification path.
// When an event publisher is wired the notifier service consumes the
// event; otherwise confirmations are sent in-process on a detached
// context so a slow provider cannot hold the response.
func (s *bookingService) afterCreate(booking *model.Booking) {
	if s.publisher != nil {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.publisher.PublishBookingCreated(ctx, booking); err != nil {
			s.logger.Error("failed to publish booking event",
				"booking_id", booking.ID,
				"error", err,
			)
		}
		return
	}

	if s.notifier != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
			defer cancel()
			s.notifier.SendConfirmations(ctx, booking)
		}()
	}
}

// BookedSlots returns the taken slot labels for one vehicle and date.
// An empty result is a valid answer meaning every slot is open.
func (s *bookingService) BookedSlots(ctx context.Context, vin string, date string) ([]string, error) {
	if vin == "" || date == "" {
		return nil, apperrors.InvalidInput("Date and VIN are required")
	}

	dateOnly, err := validator.ParseDateOnly(date)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	vin = sanitizer.SanitizeVIN(vin)

	booked, err := s.repo.FindBookedSlots(ctx, vin, []string{dateOnly})
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch booked slots", err)
	}

	slots := make([]string, 0, len(booked))
	for _, b := range booked {
		slots = append(slots, b.TimeSlot)
	}
	sort.Strings(slots)
	return slots, nil
}

// BookedSlotsBulk answers availability for several dates in one query.
// Every requested date appears as a key in the result, mapped to an
// empty list when nothing is booked, so the client can cache per date
// without distinguishing absent from empty.
func (s *bookingService) BookedSlotsBulk(ctx context.Context, vin string, dates []string) (map[string][]string, error) {
	if vin == "" || len(dates) == 0 {
		return nil, apperrors.InvalidInput("Dates and VIN are required")
	}
	if len(dates) > maxBulkDates {
		return nil, apperrors.InvalidInput("Too many dates requested")
	}
	vin = sanitizer.SanitizeVIN(vin)

	normalized := make([]string, 0, len(dates))
	seen := make(map[string]bool, len(dates))
	for _, raw := range dates {
		dateOnly, err := validator.ParseDateOnly(raw)
		if err != nil {
			return nil, apperrors.InvalidInput(err.Error())
		}
		if !seen[dateOnly] {
			seen[dateOnly] = true
			normalized = append(normalized, dateOnly)
		}
	}

	booked, err := s.repo.FindBookedSlots(ctx, vin, normalized)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch booked slots", err)
	}

	result := make(map[string][]string, len(normalized))
	for _, date := range normalized {
		result[date] = []string{}
	}
	for _, b := range booked {
		result[b.Date] = append(result[b.Date], b.TimeSlot)
	}
	for date := range result {
		sort.Strings(result[date])
	}
	return result, nil
}
