package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	autherrors "rentcar/internal/auth/errors"
	"rentcar/pkg/config"
	"rentcar/pkg/model"
)

const CollectionName = "otps"

type OTPRepository interface {
	Create(ctx context.Context, otp *model.OTP) error
	// FindActive returns the OTP matching email, code and type whose expiry
	// is still in the future.
	FindActive(ctx context.Context, email, code, otpType string) (*model.OTP, error)
	// FindActiveByEmail reports whether a non-expired OTP of the given type
	// already exists for the email.
	FindActiveByEmail(ctx context.Context, email, otpType string) (*model.OTP, error)
	Delete(ctx context.Context, id string) error
	// DeleteExpired removes every OTP whose expiry has passed and returns
	// the number deleted.
	DeleteExpired(ctx context.Context) (int64, error)
}

type mongoOTPRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoOTPRepository(cfg *config.Config) OTPRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoOTPRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoOTPRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoOTPRepository) Create(ctx context.Context, otp *model.OTP) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	otp.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, otp)
	if err != nil {
		return fmt.Errorf("failed to create otp: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		otp.ID = oid.Hex()
	}
	return nil
}

func (r *mongoOTPRepository) FindActive(ctx context.Context, email, code, otpType string) (*model.OTP, error) {
	return r.findOne(ctx, bson.M{
		"email":     email,
		"otp":       code,
		"type":      otpType,
		"expiresAt": bson.M{"$gt": time.Now()},
	})
}

func (r *mongoOTPRepository) FindActiveByEmail(ctx context.Context, email, otpType string) (*model.OTP, error) {
	return r.findOne(ctx, bson.M{
		"email":     email,
		"type":      otpType,
		"expiresAt": bson.M{"$gt": time.Now()},
	})
}

func (r *mongoOTPRepository) findOne(ctx context.Context, filter bson.M) (*model.OTP, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var otp model.OTP
	err := r.collection.FindOne(ctx, filter).Decode(&otp)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, autherrors.ErrOTPNotFound
		}
		return nil, fmt.Errorf("failed to find otp: %w", err)
	}
	return &otp, nil
}

func (r *mongoOTPRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", autherrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete otp: %w", err)
	}
	if result.DeletedCount == 0 {
		return autherrors.ErrOTPNotFound
	}
	return nil
}

func (r *mongoOTPRepository) DeleteExpired(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{
		"expiresAt": bson.M{"$lt": time.Now()},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired otps: %w", err)
	}
	return result.DeletedCount, nil
}
