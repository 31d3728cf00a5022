package service

import (
	"context"
	"io"
	"testing"

	carserrors "rentcar/internal/cars/errors"
	"rentcar/pkg/config"
	apperrors "rentcar/pkg/errors"
	"rentcar/pkg/logger"
	"rentcar/pkg/model"
)

const testCarID = "64f1a2b3c4d5e6f7a8b9c0d2"

type mockCarRepo struct {
	createFn   func(ctx context.Context, car *model.Car) error
	findByIDFn func(ctx context.Context, id string) (*model.Car, error)
	findAllFn  func(ctx context.Context) ([]*model.Car, error)
	updateFn   func(ctx context.Context, id string, car *model.Car) error
	deleteFn   func(ctx context.Context, id string) error
}

func (m *mockCarRepo) Create(ctx context.Context, car *model.Car) error {
	return m.createFn(ctx, car)
}

func (m *mockCarRepo) FindByID(ctx context.Context, id string) (*model.Car, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockCarRepo) FindAll(ctx context.Context) ([]*model.Car, error) {
	return m.findAllFn(ctx)
}

func (m *mockCarRepo) FindByIDs(context.Context, []string) (map[string]*model.Car, error) {
	return nil, nil
}

func (m *mockCarRepo) Update(ctx context.Context, id string, car *model.Car) error {
	return m.updateFn(ctx, id, car)
}

func (m *mockCarRepo) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func (m *mockCarRepo) ReserveUnit(context.Context, string) error { return nil }
func (m *mockCarRepo) ReleaseUnit(context.Context, string) error { return nil }

func testConfig() *config.Config {
	return &config.Config{Log: logger.New(logger.Config{Output: io.Discard})}
}

func validCar() *model.Car {
	return &model.Car{
		Name:         "Corolla",
		Model:        "2024",
		Image:        "https://example.com/corolla.jpg",
		PricePerHour: 50,
		Description:  "Compact sedan",
		Quantity:     3,
		Category:     "sedan",
		Transmission: "automatic",
		Seats:        5,
	}
}

func assertStatus(t *testing.T, err error, want int) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.HTTPStatus != want {
		t.Fatalf("expected HTTP status %d, got %d (%v)", want, appErr.HTTPStatus, err)
	}
}

func TestCreateCarSetsAvailable(t *testing.T) {
	var stored *model.Car
	repo := &mockCarRepo{
		createFn: func(_ context.Context, car *model.Car) error {
			stored = car
			return nil
		},
	}
	svc := NewCarService(repo, testConfig())

	car := validCar()
	car.Available = 99 // client-supplied availability is ignored

	if err := svc.Create(context.Background(), car); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.Available != stored.Quantity {
		t.Errorf("expected available %d to equal quantity, got %d", stored.Quantity, stored.Available)
	}
}

func TestCreateCarValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *model.Car)
	}{
		{"missing name", func(c *model.Car) { c.Name = "" }},
		{"bad transmission", func(c *model.Car) { c.Transmission = "tiptronic" }},
		{"zero quantity", func(c *model.Car) { c.Quantity = 0 }},
		{"negative price", func(c *model.Car) { c.PricePerHour = -5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewCarService(&mockCarRepo{}, testConfig())
			car := validCar()
			tt.mutate(car)
			assertStatus(t, svc.Create(context.Background(), car), 400)
		})
	}
}

func TestUpdateCarQuantityShiftsAvailable(t *testing.T) {
	tests := []struct {
		name          string
		quantity      int
		available     int
		newQuantity   int
		wantAvailable int
		wantErr       bool
	}{
		{"grow fleet", 3, 1, 5, 3, false},
		{"shrink within free units", 3, 2, 2, 1, false},
		{"shrink to exactly booked", 3, 1, 2, 0, false},
		{"shrink below booked", 3, 1, 1, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stored *model.Car
			repo := &mockCarRepo{
				findByIDFn: func(_ context.Context, _ string) (*model.Car, error) {
					car := validCar()
					car.ID = testCarID
					car.Quantity = tt.quantity
					car.Available = tt.available
					return car, nil
				},
				updateFn: func(_ context.Context, _ string, car *model.Car) error {
					stored = car
					return nil
				},
			}
			svc := NewCarService(repo, testConfig())

			updated, err := svc.Update(context.Background(), testCarID, &model.CarUpdate{Quantity: &tt.newQuantity})
			if tt.wantErr {
				assertStatus(t, err, 400)
				if stored != nil {
					t.Error("nothing may be written when the shrink is rejected")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if updated.Quantity != tt.newQuantity {
				t.Errorf("expected quantity %d, got %d", tt.newQuantity, updated.Quantity)
			}
			if updated.Available != tt.wantAvailable {
				t.Errorf("expected available %d, got %d", tt.wantAvailable, updated.Available)
			}
		})
	}
}

func TestUpdateCarPartialEdit(t *testing.T) {
	repo := &mockCarRepo{
		findByIDFn: func(_ context.Context, _ string) (*model.Car, error) {
			car := validCar()
			car.ID = testCarID
			car.Available = 2
			return car, nil
		},
		updateFn: func(_ context.Context, _ string, _ *model.Car) error { return nil },
	}
	svc := NewCarService(repo, testConfig())

	price := 75.0
	updated, err := svc.Update(context.Background(), testCarID, &model.CarUpdate{PricePerHour: &price})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.PricePerHour != 75 {
		t.Errorf("expected price 75, got %v", updated.PricePerHour)
	}
	if updated.Name != "Corolla" || updated.Quantity != 3 || updated.Available != 2 {
		t.Errorf("untouched fields must survive the edit: %+v", updated)
	}
}

func TestGetCarNotFound(t *testing.T) {
	repo := &mockCarRepo{
		findByIDFn: func(_ context.Context, _ string) (*model.Car, error) {
			return nil, carserrors.ErrNotFound
		},
	}
	svc := NewCarService(repo, testConfig())

	_, err := svc.GetByID(context.Background(), testCarID)
	assertStatus(t, err, 404)
}

func TestGetAllCarsEmpty(t *testing.T) {
	repo := &mockCarRepo{
		findAllFn: func(_ context.Context) ([]*model.Car, error) { return nil, nil },
	}
	svc := NewCarService(repo, testConfig())

	cars, err := svc.GetAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cars == nil {
		t.Error("an empty catalog must serialize as [], not null")
	}
}

func TestDeleteCarNotFound(t *testing.T) {
	repo := &mockCarRepo{
		deleteFn: func(_ context.Context, _ string) error { return carserrors.ErrNotFound },
	}
	svc := NewCarService(repo, testConfig())

	assertStatus(t, svc.Delete(context.Background(), testCarID), 404)
}
