package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "rentcar"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort = "5000"

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultAuthRateLimitRequests = 10
	DefaultAuthRateLimitWindow   = 1 * time.Minute

	DefaultOTPTTL           = 10 * time.Minute
	DefaultOTPSweepInterval = 5 * time.Minute

	DefaultSMTPHost = "smtp.gmail.com"
	DefaultSMTPPort = 587

	DefaultDriverFeePerHour = 0.0

	DefaultKafkaTopic = "booking-events"
)

var DefaultAllowedOrigins = []string{
	"http://localhost:8080",
	"http://localhost:5173",
	"http://localhost:5174",
}
