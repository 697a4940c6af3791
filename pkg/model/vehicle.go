package model

import "time"

// Vehicle mirrors the inventory document. Inventory is read-only from
// this service's perspective; its lifecycle is owned by the CMS.
type Vehicle struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty"`
	VIN           string    `json:"vin" bson:"vin"`
	Year          int       `json:"year" bson:"year"`
	Make          string    `json:"make" bson:"make"`
	Model         string    `json:"model" bson:"model"`
	Trim          string    `json:"trim,omitempty" bson:"trim,omitempty"`
	Mileage       int       `json:"mileage,omitempty" bson:"mileage,omitempty"`
	ExteriorColor string    `json:"exteriorColor,omitempty" bson:"exterior_color,omitempty"`
	InteriorColor string    `json:"interiorColor,omitempty" bson:"interior_color,omitempty"`
	FuelType      string    `json:"fuelType,omitempty" bson:"fuel_type,omitempty"`
	Transmission  string    `json:"transmission,omitempty" bson:"transmission,omitempty"`
	Drivetrain    string    `json:"drivetrain,omitempty" bson:"drivetrain,omitempty"`
	Engine        string    `json:"engine,omitempty" bson:"engine,omitempty"`
	BodyType      string    `json:"bodyType,omitempty" bson:"body_type,omitempty"`
	Condition     string    `json:"condition,omitempty" bson:"condition,omitempty"`
	CityMPG       int       `json:"cityMpg,omitempty" bson:"city_mpg,omitempty"`
	HighwayMPG    int       `json:"highwayMpg,omitempty" bson:"highway_mpg,omitempty"`
	Price         float64   `json:"price" bson:"price"`
	Dealership    string    `json:"dealership,omitempty" bson:"dealership,omitempty"`
	Address       string    `json:"address,omitempty" bson:"address,omitempty"`
	Description   string    `json:"description,omitempty" bson:"description,omitempty"`
	Slug          string    `json:"slug" bson:"slug"`
	IsAvailable   bool      `json:"isAvailable" bson:"is_available"`
	CarfaxURL     string    `json:"carfaxUrl,omitempty" bson:"carfax_url,omitempty"`
	CreatedAt     time.Time `json:"createdAt,omitempty" bson:"created_at,omitempty"`
}

// Snapshot builds the denormalized copy embedded in a booking.
func (v *Vehicle) Snapshot() VehicleSnapshot {
	return VehicleSnapshot{
		VIN:     v.VIN,
		Make:    v.Make,
		Model:   v.Model,
		Year:    v.Year,
		Mileage: v.Mileage,
		Price:   v.Price,
	}
}

// VehicleFacets holds the distinct filter values the inventory UI offers.
type VehicleFacets struct {
	Makes         []string `json:"makes"`
	Models        []string `json:"models"`
	Years         []int    `json:"years"`
	FuelTypes     []string `json:"fuelTypes"`
	Transmissions []string `json:"transmissions"`
	BodyTypes     []string `json:"bodyTypes"`
}
