package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "rentcar/internal/bookings/errors"
	"rentcar/internal/bookings/repository"
	"rentcar/internal/bookings/validator"
	carserrors "rentcar/internal/cars/errors"
	carsrepo "rentcar/internal/cars/repository"
	usersrepo "rentcar/internal/users/repository"
	"rentcar/pkg/config"
	apperrors "rentcar/pkg/errors"
	"rentcar/pkg/events"
	"rentcar/pkg/model"
	"rentcar/pkg/sanitizer"
)

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.BookingDetail, error)
	GetAll(ctx context.Context) ([]*model.BookingDetail, error)
	GetByUser(ctx context.Context, userID string) ([]*model.BookingDetail, error)
	UpdateStatus(ctx context.Context, id string, status string) (*model.Booking, error)
}

// Notifier is the slice of the notifications service the booking ledger needs.
type Notifier interface {
	Notify(ctx context.Context, userID, title, message, notifType string) error
}

type bookingService struct {
	repo      repository.BookingRepository
	carRepo   carsrepo.CarRepository
	userRepo  usersrepo.UserRepository
	validator *validator.BookingValidator
	notifier  Notifier
	producer  events.Producer
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	carRepo carsrepo.CarRepository,
	userRepo usersrepo.UserRepository,
	bookingValidator *validator.BookingValidator,
	notifier Notifier,
	producer events.Producer,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		carRepo:   carRepo,
		userRepo:  userRepo,
		validator: bookingValidator,
		notifier:  notifier,
		producer:  producer,
		cfg:       cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	s.sanitize(booking)
	// Bookings always enter the ledger pending, whatever the client sent.
	booking.Status = model.BookingPending

	if err := s.validate(booking); err != nil {
		return err
	}

	car, err := s.carRepo.FindByID(ctx, booking.CarID)
	if err != nil {
		return s.translateCarError(err, booking.CarID)
	}

	if err := s.priceBooking(booking, car); err != nil {
		return err
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		// The conditional decrement is the availability check: if every unit
		// was taken between the read above and this write, it matches nothing
		// and the whole transaction aborts without a booking record.
		if err := s.carRepo.ReserveUnit(sessCtx, booking.CarID); err != nil {
			return s.translateCarError(err, booking.CarID)
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Error creating booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "car_id", booking.CarID, "user_id", booking.UserID, "error", err)
		return err
	}

	s.cfg.Log.Info("Booking created",
		"id", booking.ID,
		"car_id", booking.CarID,
		"user_id", booking.UserID,
		"total_amount", booking.TotalAmount,
	)

	s.notify(ctx, booking, "Booking received",
		fmt.Sprintf("Your booking for %s is pending confirmation.", car.Name))
	s.publish(ctx, events.BookingCreated, booking)
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.BookingDetail, error) {
	booking, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	details, err := s.populate(ctx, []*model.Booking{booking})
	if err != nil {
		return nil, err
	}
	return details[0], nil
}

func (s *bookingService) GetAll(ctx context.Context) ([]*model.BookingDetail, error) {
	bookings, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings", "error", err)
		return nil, apperrors.Internal("Error fetching bookings", err)
	}
	return s.populate(ctx, bookings)
}

func (s *bookingService) GetByUser(ctx context.Context, userID string) ([]*model.BookingDetail, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	bookings, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		s.cfg.Log.Error("Failed to list user bookings", "user_id", userID, "error", err)
		return nil, apperrors.Internal("Error fetching user bookings", err)
	}
	return s.populate(ctx, bookings)
}

func (s *bookingService) UpdateStatus(ctx context.Context, id string, status string) (*model.Booking, error) {
	if err := s.validator.ValidateStatusUpdate(&model.BookingStatusUpdate{Status: status}); err != nil {
		s.cfg.Log.Warn("Booking status update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid booking status", map[string]any{"error": err.Error()})
	}

	booking, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !model.CanTransition(booking.Status, status) {
		return nil, apperrors.Conflict(
			fmt.Sprintf("Cannot change booking status from %s to %s", booking.Status, status))
	}

	if status == model.BookingCancelled {
		// Status write and the compensating increment commit together, so a
		// cancelled booking can never leave the unit unaccounted for. The
		// transition table above already rules out cancelling twice.
		err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
			if err := s.repo.UpdateStatus(sessCtx, id, status); err != nil {
				return s.translateStatusError(err, id)
			}
			if err := s.carRepo.ReleaseUnit(sessCtx, booking.CarID); err != nil {
				if errors.Is(err, carserrors.ErrNotFound) {
					// Car was deleted administratively; the cancellation still stands.
					s.cfg.Log.Warn("Cancelled booking references a missing car", "booking_id", id, "car_id", booking.CarID)
					return nil
				}
				return apperrors.Internal("Error updating booking", err)
			}
			return nil
		})
	} else {
		if updateErr := s.repo.UpdateStatus(ctx, id, status); updateErr != nil {
			err = s.translateStatusError(updateErr, id)
		}
	}
	if err != nil {
		s.cfg.Log.Error("Failed to update booking status", "id", id, "status", status, "error", err)
		return nil, err
	}

	booking.Status = status
	s.cfg.Log.Info("Booking status updated", "id", id, "status", status)

	s.notify(ctx, booking, "Booking "+status,
		fmt.Sprintf("Your booking is now %s.", status))
	s.publish(ctx, events.BookingStatusChanged, booking)
	return booking, nil
}

// --- Helpers ---

// translateStatusError classifies a failed status write. The booking may
// have been deleted between the initial fetch and the update, which is a
// not-found condition rather than a server fault.
func (s *bookingService) translateStatusError(err error, id string) error {
	if errors.Is(err, bookingserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Booking", id)
	}
	return apperrors.Internal("Error updating booking", err)
}

func (s *bookingService) findByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Error fetching booking", err)
	}
	return booking, nil
}

func (s *bookingService) sanitize(b *model.Booking) {
	b.DriverContact = sanitizer.NormalizePhone(b.DriverContact)
	if !b.NeedDriver {
		b.DriverContact = ""
	}
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

// priceBooking recomputes the rental total from the car's hourly rate. The
// client-supplied figure is checked, never trusted: a mismatch beyond a cent
// is rejected rather than persisted.
func (s *bookingService) priceBooking(booking *model.Booking, car *model.Car) error {
	start, end, err := validator.RentalSpan(booking)
	if err != nil {
		return apperrors.Validation(err.Error(), nil)
	}

	rate := car.PricePerHour
	if booking.NeedDriver {
		rate += s.cfg.DriverFeePerHour
	}
	computed := math.Round(end.Sub(start).Hours()*rate*100) / 100

	if booking.TotalAmount != 0 && math.Abs(booking.TotalAmount-computed) > 0.01 {
		return apperrors.Validation("Total amount does not match the rental price", map[string]any{
			"expected": computed,
			"received": booking.TotalAmount,
		})
	}

	booking.TotalAmount = computed
	return nil
}

func (s *bookingService) translateCarError(err error, carID string) error {
	if apperrors.IsAppError(err) {
		return err
	}
	switch {
	case errors.Is(err, carserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Car", carID)
	case errors.Is(err, carserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid car ID format")
	case errors.Is(err, carserrors.ErrNoAvailability):
		return apperrors.InvalidInput("Car is not available for booking")
	default:
		return apperrors.Internal("Error creating booking", err)
	}
}

func (s *bookingService) populate(ctx context.Context, bookings []*model.Booking) ([]*model.BookingDetail, error) {
	carIDs := make([]string, 0, len(bookings))
	userIDs := make([]string, 0, len(bookings))
	seenCars := make(map[string]struct{})
	seenUsers := make(map[string]struct{})
	for _, b := range bookings {
		if _, ok := seenCars[b.CarID]; !ok {
			seenCars[b.CarID] = struct{}{}
			carIDs = append(carIDs, b.CarID)
		}
		if _, ok := seenUsers[b.UserID]; !ok {
			seenUsers[b.UserID] = struct{}{}
			userIDs = append(userIDs, b.UserID)
		}
	}

	cars, err := s.carRepo.FindByIDs(ctx, carIDs)
	if err != nil {
		s.cfg.Log.Error("Failed to load cars for bookings", "error", err)
		return nil, apperrors.Internal("Error fetching bookings", err)
	}
	users, err := s.userRepo.FindByIDs(ctx, userIDs)
	if err != nil {
		s.cfg.Log.Error("Failed to load users for bookings", "error", err)
		return nil, apperrors.Internal("Error fetching bookings", err)
	}

	details := make([]*model.BookingDetail, 0, len(bookings))
	for _, b := range bookings {
		details = append(details, &model.BookingDetail{
			Booking: *b,
			Car:     cars[b.CarID],
			User:    users[b.UserID],
		})
	}
	return details, nil
}

// notify and publish are best-effort side channels; neither failure unwinds
// the booking write.
func (s *bookingService) notify(ctx context.Context, booking *model.Booking, title, message string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, booking.UserID, title, message, model.NotificationInfo); err != nil {
		s.cfg.Log.Warn("Failed to create booking notification", "booking_id", booking.ID, "error", err)
	}
}

func (s *bookingService) publish(ctx context.Context, eventType string, booking *model.Booking) {
	msg, err := events.NewMessage(eventType, booking.ID, booking)
	if err != nil {
		s.cfg.Log.Warn("Failed to encode booking event", "booking_id", booking.ID, "error", err)
		return
	}
	if err := s.producer.Publish(ctx, msg); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event", "booking_id", booking.ID, "type", eventType, "error", err)
	}
}
