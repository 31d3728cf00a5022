package main

import (
	"context"

	authhandler "rentcar/internal/auth/handler"
	authrepo "rentcar/internal/auth/repository"
	authservice "rentcar/internal/auth/service"
	bookingshandler "rentcar/internal/bookings/handler"
	bookingsrepo "rentcar/internal/bookings/repository"
	bookingsservice "rentcar/internal/bookings/service"
	bookingsvalidator "rentcar/internal/bookings/validator"
	carshandler "rentcar/internal/cars/handler"
	carsrepo "rentcar/internal/cars/repository"
	carsservice "rentcar/internal/cars/service"
	notifhandler "rentcar/internal/notifications/handler"
	notifrepo "rentcar/internal/notifications/repository"
	notifservice "rentcar/internal/notifications/service"
	usershandler "rentcar/internal/users/handler"
	usersrepo "rentcar/internal/users/repository"
	usersservice "rentcar/internal/users/service"
	"rentcar/pkg/app"
	"rentcar/pkg/config"
	dbmongo "rentcar/pkg/db/mongo"
	"rentcar/pkg/events"
	"rentcar/pkg/mail"
)

const ServiceName = "rentcar"

func main() {
	cfg := config.Load(ServiceName)

	cfg.Log.Info("Starting RentCar service")
	cfg.SetMongo()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnTimeout)
	if err := dbmongo.EnsureIndexes(ctx, cfg.Client.Mongo.Database(cfg.MongoDatabaseName)); err != nil {
		cancel()
		cfg.Log.Fatal("Failed to ensure indexes", "error", err)
	}
	cancel()

	producer := initProducer(cfg)

	carRepo := carsrepo.NewMongoCarRepository(cfg)
	userRepo := usersrepo.NewMongoUserRepository(cfg)
	otpRepo := authrepo.NewMongoOTPRepository(cfg)
	bookingRepo := bookingsrepo.NewMongoBookingRepository(cfg)
	notifRepo := notifrepo.NewMongoNotificationRepository(cfg)

	carService := carsservice.NewCarService(carRepo, cfg)
	userService := usersservice.NewUserService(userRepo, cfg)
	notifService := notifservice.NewNotificationService(notifRepo, cfg)
	authService := authservice.NewAuthService(otpRepo, userRepo, mail.NewSender(cfg), cfg)
	bookingService := bookingsservice.NewBookingService(
		bookingRepo,
		carRepo,
		userRepo,
		bookingsvalidator.NewBookingValidator(cfg.Log),
		notifService,
		producer,
		cfg,
	)

	sweeper := authservice.NewSweeper(authService, cfg)
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	go sweeper.Run(sweepCtx)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg,
		carshandler.NewCarHandler(carService, cfg.Log),
		bookingshandler.NewBookingHandler(bookingService, cfg.Log),
		usershandler.NewUserHandler(userService, cfg.Log),
		authhandler.NewAuthHandler(authService, cfg.Log),
		notifhandler.NewNotificationHandler(notifService, cfg.Log),
	)
	serverApp.OnShutdown(func() {
		stopSweeper()
		sweeper.Wait()
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close event producer", "error", err)
		}
	})

	cfg.Log.Info("RentCar service initialized", "database", cfg.MongoDatabaseName)
	serverApp.Run()
}

func initProducer(cfg *config.Config) events.Producer {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("No Kafka brokers configured, booking events disabled")
		return events.NopProducer{}
	}
	producer, err := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize event producer", "error", err)
	}
	cfg.Log.Info("Event producer initialized", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	return producer
}
