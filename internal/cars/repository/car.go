package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	carserrors "rentcar/internal/cars/errors"
	"rentcar/pkg/config"
	"rentcar/pkg/model"
)

const CollectionName = "cars"

type CarRepository interface {
	Create(ctx context.Context, car *model.Car) error
	FindByID(ctx context.Context, id string) (*model.Car, error)
	FindAll(ctx context.Context) ([]*model.Car, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]*model.Car, error)
	Update(ctx context.Context, id string, car *model.Car) error
	Delete(ctx context.Context, id string) error

	// ReserveUnit decrements available by one, but only while available > 0.
	// The filter and the decrement are a single document operation, so two
	// concurrent bookings against the last unit cannot both succeed.
	ReserveUnit(ctx context.Context, id string) error

	// ReleaseUnit increments available by one, but only while
	// available < quantity, keeping the upper bound of the invariant.
	ReleaseUnit(ctx context.Context, id string) error
}

type mongoCarRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoCarRepository(cfg *config.Config) CarRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoCarRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

// withTimeout wraps the context with a timeout unless it already carries a
// transaction session, which must not be re-wrapped.
func (r *mongoCarRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoCarRepository) Create(ctx context.Context, car *model.Car) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.InsertOne(ctx, car)
	if err != nil {
		return fmt.Errorf("failed to create car: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		car.ID = oid.Hex()
	}
	return nil
}

func (r *mongoCarRepository) FindByID(ctx context.Context, id string) (*model.Car, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", carserrors.ErrInvalidID, id)
	}

	var car model.Car
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&car)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, carserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find car: %w", err)
	}
	return &car, nil
}

func (r *mongoCarRepository) FindAll(ctx context.Context) ([]*model.Car, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find cars: %w", err)
	}
	defer cursor.Close(ctx)

	var cars []*model.Car
	if err = cursor.All(ctx, &cars); err != nil {
		return nil, fmt.Errorf("failed to decode cars: %w", err)
	}
	return cars, nil
}

func (r *mongoCarRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*model.Car, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		objectIDs = append(objectIDs, oid)
	}
	if len(objectIDs) == 0 {
		return map[string]*model.Car{}, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": objectIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to find cars by ids: %w", err)
	}
	defer cursor.Close(ctx)

	var cars []*model.Car
	if err = cursor.All(ctx, &cars); err != nil {
		return nil, fmt.Errorf("failed to decode cars: %w", err)
	}

	byID := make(map[string]*model.Car, len(cars))
	for _, car := range cars {
		byID[car.ID] = car
	}
	return byID, nil
}

func (r *mongoCarRepository) Update(ctx context.Context, id string, car *model.Car) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", carserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"name":         car.Name,
			"model":        car.Model,
			"image":        car.Image,
			"pricePerHour": car.PricePerHour,
			"description":  car.Description,
			"quantity":     car.Quantity,
			"available":    car.Available,
			"category":     car.Category,
			"transmission": car.Transmission,
			"seats":        car.Seats,
			"features":     car.Features,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update car: %w", err)
	}
	if result.MatchedCount == 0 {
		return carserrors.ErrNotFound
	}
	return nil
}

func (r *mongoCarRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", carserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete car: %w", err)
	}
	if result.DeletedCount == 0 {
		return carserrors.ErrNotFound
	}
	return nil
}

func (r *mongoCarRepository) ReserveUnit(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", carserrors.ErrInvalidID, id)
	}

	filter := bson.M{
		"_id":       objectID,
		"available": bson.M{"$gt": 0},
	}
	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"available": -1}})
	if err != nil {
		return fmt.Errorf("failed to reserve car unit: %w", err)
	}
	if result.MatchedCount == 0 {
		return r.classifyNoMatch(ctx, objectID, carserrors.ErrNoAvailability)
	}
	return nil
}

func (r *mongoCarRepository) ReleaseUnit(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", carserrors.ErrInvalidID, id)
	}

	filter := bson.M{
		"_id":   objectID,
		"$expr": bson.M{"$lt": bson.A{"$available", "$quantity"}},
	}
	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"available": 1}})
	if err != nil {
		return fmt.Errorf("failed to release car unit: %w", err)
	}
	if result.MatchedCount == 0 {
		return r.classifyNoMatch(ctx, objectID, carserrors.ErrFleetFull)
	}
	return nil
}

// classifyNoMatch distinguishes "car absent" from "condition failed" after a
// conditional update matched nothing.
func (r *mongoCarRepository) classifyNoMatch(ctx context.Context, objectID primitive.ObjectID, conditionErr error) error {
	err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return carserrors.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check car existence: %w", err)
	}
	return conditionErr
}
