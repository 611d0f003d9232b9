package main

import (
	"github.com/joho/godotenv"

	availabilityhandler "meetsync/internal/availability/handler"
	availabilityrepo "meetsync/internal/availability/repository"
	availabilityservice "meetsync/internal/availability/service"
	availabilityvalidator "meetsync/internal/availability/validator"
	bookinghandler "meetsync/internal/bookings/handler"
	bookingrepo "meetsync/internal/bookings/repository"
	bookingservice "meetsync/internal/bookings/service"
	bookingvalidator "meetsync/internal/bookings/validator"
	credentialrepo "meetsync/internal/credentials/repository"
	"meetsync/internal/gateway"
	"meetsync/internal/gateway/google"
	lockrepo "meetsync/internal/locks/repository"
	"meetsync/internal/resolver"
	"meetsync/pkg/app"
	"meetsync/pkg/config"
	"meetsync/pkg/kafka"
)

const ServiceName = "scheduler"

func main() {
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Scheduler service")

	availabilitySvc, bookingSvc := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		availabilityhandler.NewSlotHandler(availabilitySvc, cfg.Log),
		bookinghandler.NewBookingHandler(bookingSvc, cfg.Log),
	)
	serverApp.Run()
}

func initServices(cfg *config.Config) (availabilityservice.AvailabilityService, bookingservice.BookingService) {
	lockRepository := lockrepo.NewOwnerLockRepository(cfg)

	slotValidator := availabilityvalidator.NewSlotValidator(cfg.Log)
	slotRepository := availabilityrepo.NewMongoSlotRepository(cfg)
	availabilitySvc := availabilityservice.NewAvailabilityService(
		slotRepository,
		lockRepository,
		slotValidator,
		cfg,
	)

	credentialRepository := credentialrepo.NewMongoCredentialRepository(cfg)
	calendarGateway := gateway.WithRetry(
		google.New(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.Log),
		credentialRepository,
		cfg.GatewayCallTimeout,
		cfg.Log,
	)

	freeBusyResolver := resolver.New(availabilitySvc, calendarGateway, cfg.ResolutionLocation, cfg.Log)

	var publisher bookingservice.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.BookingEventsTopic, cfg.Log)
		if err != nil {
			cfg.Log.Fatal("Failed to initialize Kafka producer", "error", err)
		}
		publisher = producer
	} else {
		cfg.Log.Warn("No Kafka brokers configured, booking events disabled")
	}

	bookingValidator := bookingvalidator.NewBookingValidator(cfg.Log)
	bookingRepository := bookingrepo.NewMongoBookingRepository(cfg)
	bookingSvc := bookingservice.NewBookingService(
		bookingRepository,
		lockRepository,
		credentialRepository,
		freeBusyResolver,
		calendarGateway,
		publisher,
		bookingValidator,
		cfg,
	)

	cfg.Log.Info("Scheduler services initialized", "database", cfg.MongoDatabaseName)
	return availabilitySvc, bookingSvc
}
