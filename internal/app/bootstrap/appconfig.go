// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP ports,
// TLS, logging level and format, CORS and request body limits.
//
// The struct is passed to most lifecycle hooks, so any configuration needed
// during startup, request handling, or shutdown should live here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connections in the driver pool
	MongoMinPoolSize uint64 // Min connections kept open

	// Schedule scope served by the API (one AppState document per scope)
	ScheduleScope string

	// External optimizer
	OptimizerURL     string        // Base URL of the optimizer service; blank disables solving
	OptimizerTimeout time.Duration // Upper bound of one solve including its stream
	SolveRateLimit   int           // Solves per client per minute (scope limit is 4x)

	// Background state repair
	RepairEnabled  bool          // Run the state repair worker
	RepairInterval time.Duration // Time between repair passes
	RunStaleAfter  time.Duration // Running solver runs older than this are failed
}
