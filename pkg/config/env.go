package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvAuthRateLimitRequests = "AUTH_RATE_LIMIT_REQUESTS"
	EnvAuthRateLimitWindow   = "AUTH_RATE_LIMIT_WINDOW"

	EnvOTPTTL           = "OTP_TTL"
	EnvOTPSweepInterval = "OTP_SWEEP_INTERVAL"

	EnvSMTPHost     = "SMTP_HOST"
	EnvSMTPPort     = "SMTP_PORT"
	EnvSMTPUsername = "EMAIL_USER"
	EnvSMTPPassword = "EMAIL_PASS"
	EnvUseTestEmail = "USE_TEST_EMAIL"

	EnvDriverFeePerHour = "DRIVER_FEE_PER_HOUR"

	EnvKafkaBrokers = "KAFKA_BROKERS"
	EnvKafkaTopic   = "KAFKA_TOPIC"

	EnvAllowedOrigins = "ALLOWED_ORIGINS"
)
