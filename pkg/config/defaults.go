package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "ontrack"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Ten hourly appointment slots, "9:00" through "18:00", bookable up
	// to fourteen days out.
	DefaultBookingHorizonDays = 14
	DefaultFirstSlotHour      = 9
	DefaultSlotCount          = 10

	DefaultEmailFromName = "OnTrack Automotive Group"

	DefaultBookingEventsTopic    = "ontrack.booking.created"
	DefaultBookingEventsDLQTopic = "ontrack.booking.created.dlq"
	DefaultNotifierConsumerGroup = "ontrack-notifier"
)
