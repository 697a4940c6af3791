package main

import (
	"github.com/joho/godotenv"

	bookinghandler "ontrack/internal/bookings/handler"
	bookingrepository "ontrack/internal/bookings/repository"
	bookingservice "ontrack/internal/bookings/service"
	bookingvalidator "ontrack/internal/bookings/validator"
	contacthandler "ontrack/internal/contact/handler"
	contactservice "ontrack/internal/contact/service"
	"ontrack/internal/events"
	vehiclehandler "ontrack/internal/inventory/handler"
	vehiclerepository "ontrack/internal/inventory/repository"
	vehicleservice "ontrack/internal/inventory/service"
	"ontrack/internal/notify"
	"ontrack/pkg/app"
	"ontrack/pkg/config"
	"ontrack/pkg/kafka"
	kafka_config "ontrack/pkg/kafka/config"
)

const ServiceName = "dealer"

func main() {
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()

	cfg.Log.Info("Starting dealer API")
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	dispatcher := initDispatcher(cfg)
	producer := initProducer(cfg)
	if producer != nil {
		defer producer.Close()
	}

	bookingService := initBookingService(cfg, dispatcher, producer)
	vehicleService := initVehicleService(cfg)
	contactService := contactservice.NewContactService(dispatcher, cfg.Log)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg,
		bookinghandler.NewBookingHandler(bookingService, cfg.Log),
		vehiclehandler.NewVehicleHandler(vehicleService, cfg.Log),
		contacthandler.NewContactHandler(contactService, cfg.Log),
	)
	serverApp.Run()
}

// initDispatcher wires whichever notification channels have credentials.
// Missing credentials disable a channel rather than failing startup, so
// local development runs without provider accounts.
func initDispatcher(cfg *config.Config) *notify.Dispatcher {
	var sms notify.SMSSender
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" && cfg.TwilioFromNumber != "" {
		sms = notify.NewTwilioSMSSender(cfg)
		cfg.Log.Info("SMS notifications enabled")
	}

	var email notify.EmailSender
	if cfg.SendGridAPIKey != "" && cfg.EmailFrom != "" {
		email = notify.NewSendGridEmailSender(cfg)
		cfg.Log.Info("Email notifications enabled")
	}

	return notify.NewDispatcher(sms, email, cfg)
}

func initProducer(cfg *config.Config) *kafka.Producer {
	if !cfg.KafkaEnabled {
		return nil
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}

	producer, err := kafka.NewProducer(kafkaCfg, cfg.BookingEventsTopic, cfg.BookingEventsDLQTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	cfg.Log.Info("Booking event publishing enabled", "topic", cfg.BookingEventsTopic)
	return producer
}

func initBookingService(cfg *config.Config, dispatcher *notify.Dispatcher, producer *kafka.Producer) bookingservice.BookingService {
	bookingValidator := bookingvalidator.NewBookingValidator(cfg.Log)
	bookingRepo := bookingrepository.NewMongoBookingRepository(cfg)
	vehicleRepo := vehiclerepository.NewMongoVehicleRepository(cfg)

	// With Kafka enabled the notifier service owns delivery; otherwise
	// confirmations are sent in-process.
	var publisher bookingservice.EventPublisher
	var notifier bookingservice.ConfirmationSender
	if producer != nil {
		publisher = events.NewBookingPublisher(producer, cfg.Log)
	} else {
		notifier = dispatcher
	}

	bookingService := bookingservice.NewBookingService(
		bookingRepo,
		vehicleRepo,
		bookingValidator,
		notifier,
		publisher,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}

func initVehicleService(cfg *config.Config) vehicleservice.VehicleService {
	vehicleRepo := vehiclerepository.NewMongoVehicleRepository(cfg)
	return vehicleservice.NewVehicleService(vehicleRepo, cfg.Log)
}
