package service

import (
	"context"
	"errors"

	inventoryerrors "ontrack/internal/inventory/errors"
	"ontrack/internal/inventory/repository"
	apperrors "ontrack/pkg/errors"
	"ontrack/pkg/logger"
	"ontrack/pkg/model"
	"ontrack/pkg/sanitizer"
)

const latestVehicleCount = 6

type VehicleService interface {
	List(ctx context.Context, filter repository.VehicleFilter, limit int, offset int64) ([]model.Vehicle, int64, error)
	GetByVIN(ctx context.Context, vin string) (*model.Vehicle, error)
	GetBySlug(ctx context.Context, slug string) (*model.Vehicle, error)
	Latest(ctx context.Context) ([]model.Vehicle, error)
	Facets(ctx context.Context) (*model.VehicleFacets, error)
}

type vehicleService struct {
	repo   repository.VehicleRepository
	logger *logger.Logger
}

func NewVehicleService(repo repository.VehicleRepository, log *logger.Logger) VehicleService {
	return &vehicleService{
		repo:   repo,
		logger: log,
	}
}

func (s *vehicleService) List(ctx context.Context, filter repository.VehicleFilter, limit int, offset int64) ([]model.Vehicle, int64, error) {
	vehicles, err := s.repo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to list vehicles", err)
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to count vehicles", err)
	}

	return vehicles, total, nil
}

func (s *vehicleService) GetByVIN(ctx context.Context, vin string) (*model.Vehicle, error) {
	if vin == "" {
		return nil, apperrors.InvalidInput("VIN is required")
	}

	vehicle, err := s.repo.FindByVIN(ctx, sanitizer.SanitizeVIN(vin))
	if err != nil {
		if errors.Is(err, inventoryerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Vehicle", vin)
		}
		return nil, apperrors.Internal("Failed to fetch vehicle", err)
	}
	return vehicle, nil
}

func (s *vehicleService) GetBySlug(ctx context.Context, slug string) (*model.Vehicle, error) {
	if slug == "" {
		return nil, apperrors.InvalidInput("Slug is required")
	}

	vehicle, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, inventoryerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Vehicle", slug)
		}
		return nil, apperrors.Internal("Failed to fetch vehicle", err)
	}
	return vehicle, nil
}

func (s *vehicleService) Latest(ctx context.Context) ([]model.Vehicle, error) {
	vehicles, err := s.repo.Latest(ctx, latestVehicleCount)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch latest vehicles", err)
	}
	return vehicles, nil
}

func (s *vehicleService) Facets(ctx context.Context) (*model.VehicleFacets, error) {
	facets, err := s.repo.Facets(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch inventory facets", err)
	}
	return facets, nil
}
