package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvBookingHorizonDays = "BOOKING_HORIZON_DAYS"
	EnvFirstSlotHour      = "FIRST_SLOT_HOUR"
	EnvSlotCount          = "SLOT_COUNT"

	EnvTwilioAccountSID = "TWILIO_ACCOUNT_SID"
	EnvTwilioAuthToken  = "TWILIO_AUTH_TOKEN"
	EnvTwilioFromNumber = "TWILIO_FROM_NUMBER"

	EnvSendGridAPIKey  = "SENDGRID_API_KEY"
	EnvEmailFrom       = "EMAIL_FROM"
	EnvEmailFromName   = "EMAIL_FROM_NAME"
	EnvDealershipEmail = "DEALERSHIP_EMAIL"

	EnvKafkaEnabled           = "KAFKA_ENABLED"
	EnvBookingEventsTopic     = "BOOKING_EVENTS_TOPIC"
	EnvBookingEventsDLQTopic  = "BOOKING_EVENTS_DLQ_TOPIC"
	EnvNotifierConsumerGroup  = "NOTIFIER_CONSUMER_GROUP"
)
