package service

import (
	"context"
	"errors"

	govalidator "github.com/go-playground/validator/v10"

	carserrors "rentcar/internal/cars/errors"
	"rentcar/internal/cars/repository"
	"rentcar/pkg/config"
	apperrors "rentcar/pkg/errors"
	"rentcar/pkg/model"
	"rentcar/pkg/sanitizer"
)

type CarService interface {
	Create(ctx context.Context, car *model.Car) error
	GetByID(ctx context.Context, id string) (*model.Car, error)
	GetAll(ctx context.Context) ([]*model.Car, error)
	Update(ctx context.Context, id string, updates *model.CarUpdate) (*model.Car, error)
	Delete(ctx context.Context, id string) error
}

type carService struct {
	repo     repository.CarRepository
	validate *govalidator.Validate
	cfg      *config.Config
}

func NewCarService(repo repository.CarRepository, cfg *config.Config) CarService {
	return &carService{
		repo:     repo,
		validate: govalidator.New(),
		cfg:      cfg,
	}
}

func (s *carService) Create(ctx context.Context, car *model.Car) error {
	car.Name = sanitizer.TrimAndNormalize(car.Name)
	car.Model = sanitizer.TrimAndNormalize(car.Model)
	// New cars enter the fleet with every unit available.
	car.Available = car.Quantity

	if err := s.validate.Struct(car); err != nil {
		s.cfg.Log.Warn("Car validation failed", "error", err)
		return apperrors.Validation("Invalid car data", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, car); err != nil {
		s.cfg.Log.Error("Failed to create car", "error", err)
		return apperrors.Internal("Failed to create car", err)
	}

	s.cfg.Log.Info("Car created", "id", car.ID, "name", car.Name, "quantity", car.Quantity)
	return nil
}

func (s *carService) GetByID(ctx context.Context, id string) (*model.Car, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Car ID cannot be empty")
	}

	car, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateLookupError(err, id)
	}
	return car, nil
}

func (s *carService) GetAll(ctx context.Context) ([]*model.Car, error) {
	cars, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list cars", "error", err)
		return nil, apperrors.Internal("Error fetching cars", err)
	}
	if cars == nil {
		cars = []*model.Car{}
	}
	return cars, nil
}

func (s *carService) Update(ctx context.Context, id string, updates *model.CarUpdate) (*model.Car, error) {
	if err := s.validate.Struct(updates); err != nil {
		s.cfg.Log.Warn("Car update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid car data", map[string]any{"error": err.Error()})
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateLookupError(err, id)
	}

	merged, err := s.merge(existing, updates)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, carserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Car", id)
		}
		s.cfg.Log.Error("Failed to update car", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update car", err)
	}

	s.cfg.Log.Info("Car updated", "id", id)
	merged.ID = id
	return merged, nil
}

func (s *carService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, carserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Car", id)
		}
		if errors.Is(err, carserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid car ID format")
		}
		s.cfg.Log.Error("Failed to delete car", "id", id, "error", err)
		return apperrors.Internal("Failed to delete car", err)
	}

	s.cfg.Log.Info("Car deleted", "id", id)
	return nil
}

// merge applies the edit onto a copy of the stored car. A quantity change
// shifts available by the same delta so units held by active bookings stay
// reserved; shrinking the fleet below the booked count is rejected.
func (s *carService) merge(existing *model.Car, updates *model.CarUpdate) (*model.Car, error) {
	merged := *existing

	if updates.Name != "" {
		merged.Name = sanitizer.TrimAndNormalize(updates.Name)
	}
	if updates.Model != "" {
		merged.Model = sanitizer.TrimAndNormalize(updates.Model)
	}
	if updates.Image != "" {
		merged.Image = updates.Image
	}
	if updates.PricePerHour != nil {
		merged.PricePerHour = *updates.PricePerHour
	}
	if updates.Description != "" {
		merged.Description = updates.Description
	}
	if updates.Category != "" {
		merged.Category = updates.Category
	}
	if updates.Transmission != "" {
		merged.Transmission = updates.Transmission
	}
	if updates.Seats != nil {
		merged.Seats = *updates.Seats
	}
	if updates.Features != nil {
		merged.Features = updates.Features
	}
	if updates.Quantity != nil {
		delta := *updates.Quantity - existing.Quantity
		newAvailable := existing.Available + delta
		if newAvailable < 0 {
			return nil, apperrors.Validation(
				"Quantity cannot be reduced below the number of currently booked units", nil)
		}
		merged.Quantity = *updates.Quantity
		merged.Available = newAvailable
	}

	return &merged, nil
}

func (s *carService) translateLookupError(err error, id string) error {
	if errors.Is(err, carserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Car", id)
	}
	if errors.Is(err, carserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid car ID format")
	}
	s.cfg.Log.Error("Failed to retrieve car", "id", id, "error", err)
	return apperrors.Internal("Error fetching car", err)
}
