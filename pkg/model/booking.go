package model

import (
	"fmt"
	"time"

	"ontrack/pkg/sanitizer"
)

// VehicleSnapshot is a denormalized copy of vehicle identity taken at
// booking time. It is deliberately decoupled from live inventory so later
// price or availability changes do not alter historical bookings.
type VehicleSnapshot struct {
	VIN     string  `json:"vin" bson:"vin"`
	Make    string  `json:"make" bson:"make"`
	Model   string  `json:"model" bson:"model"`
	Year    int     `json:"year" bson:"year"`
	Mileage int     `json:"mileage" bson:"mileage"`
	Price   float64 `json:"price" bson:"price"`
}

// Booking is the persisted appointment record. The ID is derived
// deterministically from (vin, date, timeSlot) so a duplicate submission
// collides at the storage layer. Bookings are immutable once created.
type Booking struct {
	ID         string          `json:"id,omitempty" bson:"_id,omitempty"`
	BookingKey string          `json:"bookingKey" bson:"booking_key"`
	Name       string          `json:"name" bson:"customer_name"`
	Email      string          `json:"email" bson:"customer_email"`
	Phone      string          `json:"phone" bson:"customer_phone"`
	Date       string          `json:"date" bson:"date"`
	TimeSlot   string          `json:"timeSlot" bson:"time_slot"`
	Vehicle    VehicleSnapshot `json:"vehicle" bson:"vehicle"`
	CreatedAt  time.Time       `json:"createdAt" bson:"created_at"`
}

// BookingRequest is the write-endpoint payload. The snapshot fields sent
// by the client are accepted for compatibility with the site form but the
// authoritative snapshot is rebuilt from inventory at write time.
type BookingRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	VIN      string `json:"vin" validate:"required"`
	Date     string `json:"date" validate:"required"`
	TimeSlot string `json:"timeSlot" validate:"required"`

	Make    string  `json:"make,omitempty"`
	Model   string  `json:"model,omitempty"`
	Year    int     `json:"year,omitempty"`
	Mileage int     `json:"mileage,omitempty"`
	Price   float64 `json:"price,omitempty"`
}

// BookingID derives the deterministic record identifier for a
// (vin, date, slot) triple. Equal triples always collide on _id.
func BookingID(vin, date, slot string) string {
	return fmt.Sprintf("booking-%s-%s-%s", sanitizer.SanitizeVIN(vin), date, sanitizer.SanitizeSlot(slot))
}

// BookingKey is the human-readable composite kept alongside the id for
// lookups and auditing.
func BookingKey(vin, date, slot string) string {
	return fmt.Sprintf("%s_%s_%s", sanitizer.SanitizeVIN(vin), date, sanitizer.SanitizeSlot(slot))
}
