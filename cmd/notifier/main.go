package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"ontrack/internal/events"
	"ontrack/internal/notify"
	"ontrack/pkg/config"
	"ontrack/pkg/kafka"
	kafka_config "ontrack/pkg/kafka/config"
)

const ServiceName = "notifier"

func main() {
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()

	if !cfg.KafkaEnabled {
		cfg.Log.Fatal("Notifier requires Kafka", "hint", "set KAFKA_ENABLED=true")
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}

	dispatcher := initDispatcher(cfg)
	handler := events.NewBookingEventHandler(dispatcher, cfg.Log)

	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		cfg.BookingEventsTopic,
		cfg.NotifierConsumerGroup,
		cfg.BookingEventsDLQTopic,
		handler,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-shutdown
		cfg.Log.Info("Shutdown signal received", "signal", sig)
		cancel()
	}()

	cfg.Log.Info("Starting notifier",
		"topic", cfg.BookingEventsTopic,
		"group", cfg.NotifierConsumerGroup,
	)

	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Fatal("Consumer stopped with error", "error", err)
	}

	cfg.Log.Info("Notifier stopped")
}

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

	if sms == nil && email == nil {
		cfg.Log.Warn("No notification channels configured; events will be consumed and dropped")
	}

	return notify.NewDispatcher(sms, email, cfg)
}
