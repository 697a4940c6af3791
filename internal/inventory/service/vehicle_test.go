package service

import (
	"context"
	"io"
	"testing"

	inventoryerrors "ontrack/internal/inventory/errors"
	"ontrack/internal/inventory/repository"
	apperrors "ontrack/pkg/errors"
	"ontrack/pkg/logger"
	"ontrack/pkg/model"
)

type mockVehicleRepo struct {
	ListFn       func(ctx context.Context, filter repository.VehicleFilter, limit int, offset int64) ([]model.Vehicle, error)
	CountFn      func(ctx context.Context, filter repository.VehicleFilter) (int64, error)
	FindByVINFn  func(ctx context.Context, vin string) (*model.Vehicle, error)
	FindBySlugFn func(ctx context.Context, slug string) (*model.Vehicle, error)
	LatestFn     func(ctx context.Context, limit int) ([]model.Vehicle, error)
	FacetsFn     func(ctx context.Context) (*model.VehicleFacets, error)
}

func (m *mockVehicleRepo) List(ctx context.Context, filter repository.VehicleFilter, limit int, offset int64) ([]model.Vehicle, error) {
	return m.ListFn(ctx, filter, limit, offset)
}

func (m *mockVehicleRepo) Count(ctx context.Context, filter repository.VehicleFilter) (int64, error) {
	return m.CountFn(ctx, filter)
}

func (m *mockVehicleRepo) FindByVIN(ctx context.Context, vin string) (*model.Vehicle, error) {
	return m.FindByVINFn(ctx, vin)
}

func (m *mockVehicleRepo) FindBySlug(ctx context.Context, slug string) (*model.Vehicle, error) {
	return m.FindBySlugFn(ctx, slug)
}

func (m *mockVehicleRepo) Latest(ctx context.Context, limit int) ([]model.Vehicle, error) {
	return m.LatestFn(ctx, limit)
}

func (m *mockVehicleRepo) Facets(ctx context.Context) (*model.VehicleFacets, error) {
	return m.FacetsFn(ctx)
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard})
}

func TestList(t *testing.T) {
	repo := &mockVehicleRepo{
		ListFn: func(ctx context.Context, filter repository.VehicleFilter, limit int, offset int64) ([]model.Vehicle, error) {
			if filter.Make != "Honda" {
				t.Errorf("filter not forwarded: %+v", filter)
			}
			return []model.Vehicle{{VIN: "VIN1"}, {VIN: "VIN2"}}, nil
		},
		CountFn: func(ctx context.Context, filter repository.VehicleFilter) (int64, error) {
			return 12, nil
		},
	}

	svc := NewVehicleService(repo, testLogger())
	vehicles, total, err := svc.List(context.Background(), repository.VehicleFilter{Make: "Honda"}, 2, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vehicles) != 2 {
		t.Errorf("expected 2 vehicles, got %d", len(vehicles))
	}
	if total != 12 {
		t.Errorf("expected total 12, got %d", total)
	}
}

func TestGetByVIN_NormalizesAndMapsNotFound(t *testing.T) {
	repo := &mockVehicleRepo{
		FindByVINFn: func(ctx context.Context, vin string) (*model.Vehicle, error) {
			if vin != "1HGCM82633A004352" {
				t.Errorf("vin not normalized: %s", vin)
			}
			return nil, inventoryerrors.ErrNotFound
		},
	}

	svc := NewVehicleService(repo, testLogger())
	_, err := svc.GetByVIN(context.Background(), " 1hgcm82633a004352 ")

	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestGetByVIN_Empty(t *testing.T) {
	svc := NewVehicleService(&mockVehicleRepo{}, testLogger())
	if _, err := svc.GetByVIN(context.Background(), ""); err == nil {
		t.Error("empty vin should be rejected")
	}
}

func TestGetBySlug(t *testing.T) {
	repo := &mockVehicleRepo{
		FindBySlugFn: func(ctx context.Context, slug string) (*model.Vehicle, error) {
			return &model.Vehicle{VIN: "VIN1", Slug: slug}, nil
		},
	}

	svc := NewVehicleService(repo, testLogger())
	vehicle, err := svc.GetBySlug(context.Background(), "2021-honda-accord")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vehicle.Slug != "2021-honda-accord" {
		t.Errorf("unexpected slug: %s", vehicle.Slug)
	}
}

func TestLatest(t *testing.T) {
	repo := &mockVehicleRepo{
		LatestFn: func(ctx context.Context, limit int) ([]model.Vehicle, error) {
			if limit != 6 {
				t.Errorf("unexpected limit: %d", limit)
			}
			return []model.Vehicle{{VIN: "VIN1"}}, nil
		},
	}

	svc := NewVehicleService(repo, testLogger())
	vehicles, err := svc.Latest(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vehicles) != 1 {
		t.Errorf("expected 1 vehicle, got %d", len(vehicles))
	}
}

func TestFacets(t *testing.T) {
	repo := &mockVehicleRepo{
		FacetsFn: func(ctx context.Context) (*model.VehicleFacets, error) {
			return &model.VehicleFacets{Makes: []string{"Honda", "Toyota"}}, nil
		},
	}

	svc := NewVehicleService(repo, testLogger())
	facets, err := svc.Facets(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(facets.Makes) != 2 {
		t.Errorf("unexpected facets: %+v", facets)
	}
}
