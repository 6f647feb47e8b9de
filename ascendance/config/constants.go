package config

import "time"

// Application-wide constants organized by domain

// Database and Performance Constants
const (
	// Timeouts
	DefaultQueryTimeout = 30 * time.Second
	HealthCheckTimeout  = 5 * time.Second
	SeedTimeout         = 2 * time.Minute
	ShutdownTimeout     = 15 * time.Second
	SlowQueryThreshold  = 500 * time.Millisecond

	// Connection retries
	NetworkDialTimeout = 5 * time.Second
	MaxDialRetries     = 3
	DialRetryInterval  = time.Second
)

// Catalog field rules
const (
	MaxNameLength        = 100
	MinMaxOccurrence     = 1
	DefaultMaxOccurrence = 1
	MinDeckQuantity      = 1
)

// Asset paths
const (
	APIPrefix             = "/api/v1"
	IllustrationDirPrefix = "archetype_"
	IllustrationFileURL   = APIPrefix + "/illustrations/%d/file"
	TypeIconURL           = APIPrefix + "/types/icon/%s"
)

// Rate limiting defaults
const (
	DefaultRateLimitRequests = 300
	DefaultRateLimitWindow   = time.Minute
)
