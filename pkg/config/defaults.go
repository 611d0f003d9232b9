package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "meetsync"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort = "8080"

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultGatewayCallTimeout = 10 * time.Second

	// The whole system resolves availability in one fixed zone.
	DefaultResolutionTimeZone = "Asia/Kolkata"

	DefaultOwnerLockTTL = 10 * time.Second

	DefaultBookingEventsTopic = "booking-events"

	DefaultLogLevel = "info"

	DefaultPaginationLimit = 100
)
