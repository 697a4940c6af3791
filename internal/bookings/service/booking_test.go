package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	bookingserrors "ontrack/internal/bookings/errors"
	"ontrack/internal/bookings/repository"
	"ontrack/internal/bookings/validator"
	inventoryerrors "ontrack/internal/inventory/errors"
	"ontrack/pkg/config"
	apperrors "ontrack/pkg/errors"
	"ontrack/pkg/logger"
	"ontrack/pkg/model"
)

type mockBookingRepo struct {
	InsertFn          func(ctx context.Context, booking *model.Booking) error
	FindByIDFn        func(ctx context.Context, id string) (*model.Booking, error)
	FindBookedSlotsFn func(ctx context.Context, vin string, dates []string) ([]repository.BookedSlot, error)
	CountFn           func(ctx context.Context) (int64, error)
}

func (m *mockBookingRepo) Insert(ctx context.Context, booking *model.Booking) error {
	return m.InsertFn(ctx, booking)
}

func (m *mockBookingRepo) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	return m.FindByIDFn(ctx, id)
}

func (m *mockBookingRepo) FindBookedSlots(ctx context.Context, vin string, dates []string) ([]repository.BookedSlot, error) {
	return m.FindBookedSlotsFn(ctx, vin, dates)
}

func (m *mockBookingRepo) Count(ctx context.Context) (int64, error) {
	return m.CountFn(ctx)
}

type mockVehicleSource struct {
	FindByVINFn func(ctx context.Context, vin string) (*model.Vehicle, error)
}

func (m *mockVehicleSource) FindByVIN(ctx context.Context, vin string) (*model.Vehicle, error) {
	return m.FindByVINFn(ctx, vin)
}

type mockNotifier struct {
	called chan *model.Booking
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{called: make(chan *model.Booking, 1)}
}

func (m *mockNotifier) SendConfirmations(ctx context.Context, booking *model.Booking) {
	m.called <- booking
}

type mockPublisher struct {
	published []*model.Booking
	err       error
}

func (m *mockPublisher) PublishBookingCreated(ctx context.Context, booking *model.Booking) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, booking)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		BookingHorizonDays: 14,
		FirstSlotHour:      9,
		SlotCount:          10,
		Log:                logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard}),
	}
}

func availableVehicle() *model.Vehicle {
	return &model.Vehicle{
		VIN:         "1HGCM82633A004352",
		Make:        "Honda",
		Model:       "Accord",
		Year:        2021,
		Mileage:     42000,
		Price:       21995,
		IsAvailable: true,
	}
}

func validRequest() *model.BookingRequest {
	return &model.BookingRequest{
		Name:     "Jordan Reyes",
		Email:    "Jordan@Example.com",
		Phone:    "(416) 555-1234",
		VIN:      "1hgcm82633a004352",
		Date:     "2026-09-05",
		TimeSlot: "10:00",
	}
}

func newTestService(repo repository.BookingRepository, vehicles VehicleSource, notifier ConfirmationSender, publisher EventPublisher) *bookingService {
	cfg := testConfig()
	svc := NewBookingService(repo, vehicles, validator.NewBookingValidator(cfg.Log), notifier, publisher, cfg).(*bookingService)
	svc.now = func() time.Time { return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestCreateBooking_Success(t *testing.T) {
	var inserted *model.Booking
	repo := &mockBookingRepo{
		InsertFn: func(ctx context.Context, booking *model.Booking) error {
			inserted = booking
			return nil
		},
	}
	vehicles := &mockVehicleSource{
		FindByVINFn: func(ctx context.Context, vin string) (*model.Vehicle, error) {
			return availableVehicle(), nil
		},
	}
	notifier := newMockNotifier()

	svc := newTestService(repo, vehicles, notifier, nil)
	booking, err := svc.CreateBooking(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.ID != "booking-1HGCM82633A004352-2026-09-05-10-00" {
		t.Errorf("unexpected booking id: %s", booking.ID)
	}
	if booking.BookingKey != "1HGCM82633A004352_2026-09-05_10-00" {
		t.Errorf("unexpected booking key: %s", booking.BookingKey)
	}
	if booking.Phone != "+14165551234" {
		t.Errorf("phone not normalized: %s", booking.Phone)
	}
	if booking.Email != "jordan@example.com" {
		t.Errorf("email not normalized: %s", booking.Email)
	}
	if booking.Vehicle.Make != "Honda" || booking.Vehicle.Price != 21995 {
		t.Errorf("snapshot not taken from inventory: %+v", booking.Vehicle)
	}
	if inserted == nil || inserted.ID != booking.ID {
		t.Error("booking was not handed to the repository")
	}

	select {
	case notified := <-notifier.called:
		if notified.ID != booking.ID {
			t.Errorf("notifier received wrong booking: %s", notified.ID)
		}
	case <-time.After(2 * time.Second):
		t.Error("notifier was not invoked")
	}
}

func TestCreateBooking_SnapshotIgnoresClientFields(t *testing.T) {
	repo := &mockBookingRepo{
		InsertFn: func(ctx context.Context, booking *model.Booking) error { return nil },
	}
	vehicles := &mockVehicleSource{
		FindByVINFn: func(ctx context.Context, vin string) (*model.Vehicle, error) {
			return availableVehicle(), nil
		},
	}

	req := validRequest()
	req.Make = "Ferrari"
	req.Price = 1

	svc := newTestService(repo, vehicles, nil, nil)
	booking, err := svc.CreateBooking(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Vehicle.Make != "Honda" {
		t.Errorf("client-supplied make leaked into snapshot: %s", booking.Vehicle.Make)
	}
	if booking.Vehicle.Price != 21995 {
		t.Errorf("client-supplied price leaked into snapshot: %v", booking.Vehicle.Price)
	}
}

func TestCreateBooking_SlotConflict(t *testing.T) {
	repo := &mockBookingRepo{
		InsertFn: func(ctx context.Context, booking *model.Booking) error {
			return bookingserrors.ErrDuplicateSlot
		},
	}
	vehicles := &mockVehicleSource{
		FindByVINFn: func(ctx context.Context, vin string) (*model.Vehicle, error) {
			return availableVehicle(), nil
		},
	}
	notifier := newMockNotifier()

	svc := newTestService(repo, vehicles, notifier, nil)
	_, err := svc.CreateBooking(context.Background(), validRequest())
	if err == nil {
		t.Fatal("expected conflict error")
	}

	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
	if appErr.Message != "This time slot is already booked." {
		t.Errorf("unexpected conflict message: %s", appErr.Message)
	}

	select {
	case <-notifier.called:
		t.Error("notifier must not run for a failed booking")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestCreateBooking_VehicleNotFound(t *testing.T) {
	repo := &mockBookingRepo{
		InsertFn: func(ctx context.Context, booking *model.Booking) error {
			t.Fatal("insert must not be reached")
			return nil
		},
	}
	vehicles := &mockVehicleSource{
		FindByVINFn: func(ctx context.Context, vin string) (*model.Vehicle, error) {
			return nil, inventoryerrors.ErrNotFound
		},
	}

	svc := newTestService(repo, vehicles, nil, nil)
	_, err := svc.CreateBooking(context.Background(), validRequest())

	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestCreateBooking_VehicleUnavailable(t *testing.T) {
	vehicle := availableVehicle()
	vehicle.IsAvailable = false

	repo := &mockBookingRepo{
		InsertFn: func(ctx context.Context, booking *model.Booking) error {
			t.Fatal("insert must not be reached")
			return nil
		},
	}
	vehicles := &mockVehicleSource{
		FindByVINFn: func(ctx context.Context, vin string) (*model.Vehicle, error) {
			return vehicle, nil
		},
	}

	svc := newTestService(repo, vehicles, nil, nil)
	_, err := svc.CreateBooking(context.Background(), validRequest())

	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
	if appErr.Message != "This vehicle is sold or unavailable for booking." {
		t.Errorf("unexpected message: %s", appErr.Message)
	}
}

func TestCreateBooking_ValidationFailures(t *testing.T) {
	repo := &mockBookingRepo{
		InsertFn: func(ctx context.Context, booking *model.Booking) error {
			t.Fatal("insert must not be reached")
			return nil
		},
	}
	vehicles := &mockVehicleSource{
		FindByVINFn: func(ctx context.Context, vin string) (*model.Vehicle, error) {
			return availableVehicle(), nil
		},
	}

	tests := []struct {
		name   string
		mutate func(r *model.BookingRequest)
	}{
		{name: "bad phone", mutate: func(r *model.BookingRequest) { r.Phone = "123" }},
		{name: "bad date format", mutate: func(r *model.BookingRequest) { r.Date = "tomorrow" }},
		{name: "date in the past", mutate: func(r *model.BookingRequest) { r.Date = "2026-08-30" }},
		{name: "date past horizon", mutate: func(r *model.BookingRequest) { r.Date = "2026-10-01" }},
		{name: "slot not in set", mutate: func(r *model.BookingRequest) { r.TimeSlot = "10:30" }},
		{name: "missing email", mutate: func(r *model.BookingRequest) { r.Email = "" }},
	}

	svc := newTestService(repo, vehicles, nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			_, err := svc.CreateBooking(context.Background(), req)
			appErr := apperrors.AsAppError(err)
			if appErr == nil {
				t.Fatalf("expected AppError, got %v", err)
			}
			if appErr.HTTPStatus != 400 {
				t.Errorf("expected 400, got %d (%s)", appErr.HTTPStatus, appErr.Code)
			}
		})
	}
}

func TestCreateBooking_PublisherPreferredOverNotifier(t *testing.T) {
	repo := &mockBookingRepo{
		InsertFn: func(ctx context.Context, booking *model.Booking) error { return nil },
	}
	vehicles := &mockVehicleSource{
		FindByVINFn: func(ctx context.Context, vin string) (*model.Vehicle, error) {
			return availableVehicle(), nil
		},
	}
	notifier := newMockNotifier()
	publisher := &mockPublisher{}

	svc := newTestService(repo, vehicles, notifier, publisher)
	booking, err := svc.CreateBooking(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(publisher.published) != 1 || publisher.published[0].ID != booking.ID {
		t.Errorf("event not published: %+v", publisher.published)
	}
	select {
	case <-notifier.called:
		t.Error("notifier must not run when a publisher is wired")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestCreateBooking_PublishFailureDoesNotFailBooking(t *testing.T) {
	repo := &mockBookingRepo{
		InsertFn: func(ctx context.Context, booking *model.Booking) error { return nil },
	}
	vehicles := &mockVehicleSource{
		FindByVINFn: func(ctx context.Context, vin string) (*model.Vehicle, error) {
			return availableVehicle(), nil
		},
	}
	publisher := &mockPublisher{err: errors.New("broker down")}

	svc := newTestService(repo, vehicles, nil, publisher)
	if _, err := svc.CreateBooking(context.Background(), validRequest()); err != nil {
		t.Fatalf("booking must succeed when publishing fails, got %v", err)
	}
}

func TestBookedSlots(t *testing.T) {
	repo := &mockBookingRepo{
		FindBookedSlotsFn: func(ctx context.Context, vin string, dates []string) ([]repository.BookedSlot, error) {
			if vin != "1HGCM82633A004352" {
				t.Errorf("vin not normalized: %s", vin)
			}
			if len(dates) != 1 || dates[0] != "2026-09-05" {
				t.Errorf("unexpected dates: %v", dates)
			}
			return []repository.BookedSlot{
				{Date: "2026-09-05", TimeSlot: "14:00"},
				{Date: "2026-09-05", TimeSlot: "10:00"},
			}, nil
		},
	}

	svc := newTestService(repo, nil, nil, nil)
	slots, err := svc.BookedSlots(context.Background(), "1hgcm82633a004352", "2026-09-05T00:00:00Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 2 || slots[0] != "10:00" || slots[1] != "14:00" {
		t.Errorf("unexpected slots: %v", slots)
	}
}

func TestBookedSlots_EmptyIsNotNil(t *testing.T) {
	repo := &mockBookingRepo{
		FindBookedSlotsFn: func(ctx context.Context, vin string, dates []string) ([]repository.BookedSlot, error) {
			return nil, nil
		},
	}

	svc := newTestService(repo, nil, nil, nil)
	slots, err := svc.BookedSlots(context.Background(), "VIN123", "2026-09-05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slots == nil {
		t.Error("expected empty slice, got nil")
	}
	if len(slots) != 0 {
		t.Errorf("expected no slots, got %v", slots)
	}
}

func TestBookedSlots_MissingParams(t *testing.T) {
	svc := newTestService(&mockBookingRepo{}, nil, nil, nil)

	if _, err := svc.BookedSlots(context.Background(), "", "2026-09-05"); err == nil {
		t.Error("missing vin should be rejected")
	}
	if _, err := svc.BookedSlots(context.Background(), "VIN123", ""); err == nil {
		t.Error("missing date should be rejected")
	}
}

func TestBookedSlotsBulk_EveryDateKeyed(t *testing.T) {
	repo := &mockBookingRepo{
		FindBookedSlotsFn: func(ctx context.Context, vin string, dates []string) ([]repository.BookedSlot, error) {
			return []repository.BookedSlot{
				{Date: "2026-09-05", TimeSlot: "10:00"},
			}, nil
		},
	}

	svc := newTestService(repo, nil, nil, nil)
	result, err := svc.BookedSlotsBulk(context.Background(), "VIN123", []string{
		"2026-09-05", "2026-09-06", "2026-09-06", "2026-09-07T12:00:00Z",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result) != 3 {
		t.Fatalf("expected 3 date keys after dedup, got %d: %v", len(result), result)
	}
	for _, date := range []string{"2026-09-05", "2026-09-06", "2026-09-07"} {
		slots, ok := result[date]
		if !ok {
			t.Errorf("date %s missing from result", date)
			continue
		}
		if slots == nil {
			t.Errorf("date %s mapped to nil instead of empty slice", date)
		}
	}
	if len(result["2026-09-05"]) != 1 || result["2026-09-05"][0] != "10:00" {
		t.Errorf("unexpected slots for 2026-09-05: %v", result["2026-09-05"])
	}
}

func TestBookedSlotsBulk_TooManyDates(t *testing.T) {
	svc := newTestService(&mockBookingRepo{}, nil, nil, nil)

	dates := make([]string, 0, 40)
	base := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 40; i++ {
		dates = append(dates, base.AddDate(0, 0, i).Format("2006-01-02"))
	}

	if _, err := svc.BookedSlotsBulk(context.Background(), "VIN123", dates); err == nil {
		t.Error("oversized date list should be rejected")
	}
}
