package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	inventoryerrors "ontrack/internal/inventory/errors"
	"ontrack/pkg/config"
	"ontrack/pkg/model"
)

const (
	CollectionName = "Vehicles"
)

// VehicleFilter mirrors the inventory page controls. Zero values mean
// "no constraint"; the builder only adds clauses for set fields.
type VehicleFilter struct {
	Make          string
	Model         string
	YearMin       int
	YearMax       int
	PriceMin      float64
	PriceMax      float64
	MileageMax    int
	FuelType      string
	Transmission  string
	BodyType      string
	Condition     string
	OnlyAvailable bool
}

type VehicleRepository interface {
	List(ctx context.Context, filter VehicleFilter, limit int, offset int64) ([]model.Vehicle, error)
	Count(ctx context.Context, filter VehicleFilter) (int64, error)
	FindByVIN(ctx context.Context, vin string) (*model.Vehicle, error)
	FindBySlug(ctx context.Context, slug string) (*model.Vehicle, error)
	Latest(ctx context.Context, limit int) ([]model.Vehicle, error)
	Facets(ctx context.Context) (*model.VehicleFacets, error)
}

type mongoVehicleRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
}

func NewMongoVehicleRepository(cfg *config.Config) VehicleRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoVehicleRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoVehicleRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func buildFilter(f VehicleFilter) bson.M {
	filter := bson.M{}

	if f.Make != "" {
		filter["make"] = f.Make
	}
	if f.Model != "" {
		filter["model"] = f.Model
	}
	if f.FuelType != "" {
		filter["fuel_type"] = f.FuelType
	}
	if f.Transmission != "" {
		filter["transmission"] = f.Transmission
	}
	if f.BodyType != "" {
		filter["body_type"] = f.BodyType
	}
	if f.Condition != "" {
		filter["condition"] = f.Condition
	}
	if f.OnlyAvailable {
		filter["is_available"] = true
	}

	year := bson.M{}
	if f.YearMin > 0 {
		year["$gte"] = f.YearMin
	}
	if f.YearMax > 0 {
		year["$lte"] = f.YearMax
	}
	if len(year) > 0 {
		filter["year"] = year
	}

	price := bson.M{}
	if f.PriceMin > 0 {
		price["$gte"] = f.PriceMin
	}
	if f.PriceMax > 0 {
		price["$lte"] = f.PriceMax
	}
	if len(price) > 0 {
		filter["price"] = price
	}

	if f.MileageMax > 0 {
		filter["mileage"] = bson.M{"$lte": f.MileageMax}
	}

	return filter
}

func (r *mongoVehicleRepository) List(ctx context.Context, filter VehicleFilter, limit int, offset int64) ([]model.Vehicle, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, buildFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	defer cursor.Close(ctx)

	vehicles := []model.Vehicle{}
	if err := cursor.All(ctx, &vehicles); err != nil {
		return nil, fmt.Errorf("failed to decode vehicles: %w", err)
	}
	return vehicles, nil
}

func (r *mongoVehicleRepository) Count(ctx context.Context, filter VehicleFilter) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, buildFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count vehicles: %w", err)
	}
	return count, nil
}

func (r *mongoVehicleRepository) FindByVIN(ctx context.Context, vin string) (*model.Vehicle, error) {
	return r.findOne(ctx, bson.M{"vin": vin})
}

func (r *mongoVehicleRepository) FindBySlug(ctx context.Context, slug string) (*model.Vehicle, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *mongoVehicleRepository) findOne(ctx context.Context, filter bson.M) (*model.Vehicle, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var vehicle model.Vehicle
	err := r.collection.FindOne(ctx, filter).Decode(&vehicle)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, inventoryerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find vehicle: %w", err)
	}
	return &vehicle, nil
}

func (r *mongoVehicleRepository) Latest(ctx context.Context, limit int) ([]model.Vehicle, error) {
	return r.List(ctx, VehicleFilter{OnlyAvailable: true}, limit, 0)
}

// Facets collects the distinct values the inventory filter controls
// offer. Only available vehicles contribute so sold stock does not leave
// dangling filter options.
func (r *mongoVehicleRepository) Facets(ctx context.Context) (*model.VehicleFacets, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	available := bson.M{"is_available": true}

	facets := &model.VehicleFacets{}

	fields := []struct {
		name string
		dest *[]string
	}{
		{"make", &facets.Makes},
		{"model", &facets.Models},
		{"fuel_type", &facets.FuelTypes},
		{"transmission", &facets.Transmissions},
		{"body_type", &facets.BodyTypes},
	}

	for _, f := range fields {
		values, err := r.collection.Distinct(ctx, f.name, available)
		if err != nil {
			return nil, fmt.Errorf("failed to load distinct %s values: %w", f.name, err)
		}
		for _, v := range values {
			if s, ok := v.(string); ok && s != "" {
				*f.dest = append(*f.dest, s)
			}
		}
	}

	years, err := r.collection.Distinct(ctx, "year", available)
	if err != nil {
		return nil, fmt.Errorf("failed to load distinct year values: %w", err)
	}
	for _, v := range years {
		switch y := v.(type) {
		case int32:
			facets.Years = append(facets.Years, int(y))
		case int64:
			facets.Years = append(facets.Years, int(y))
		case int:
			facets.Years = append(facets.Years, y)
		}
	}

	return facets, nil
}
