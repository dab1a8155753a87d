package publish

import (
	"fmt"
	"time"
)

// Config holds configuration for publishing report artifacts to GCS
type Config struct {
	Bucket       string        // GCS bucket name (required)
	ObjectPrefix string        // Object prefix (e.g., "nmt/reports")
	MaxRetries   int           // Max retry attempts (default: 3)
	RetryDelay   time.Duration // Delay between retries (default: 2s)
	UseGRPC      bool          // Use the gRPC storage API instead of JSON
	GRPCPoolSize int           // gRPC connection pool size (default: 4)
}

// DefaultConfig returns a publish configuration with defaults
func DefaultConfig(bucket string) Config {
	return Config{
		Bucket:       bucket,
		ObjectPrefix: "",
		MaxRetries:   3,
		RetryDelay:   2 * time.Second,
		UseGRPC:      false,
		GRPCPoolSize: 4,
	}
}

// Validate checks if the configuration is valid and applies defaults where needed
func (c *Config) Validate() error {
	if c.Bucket == "" {
		return fmt.Errorf("bucket name is required")
	}

	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}

	if c.RetryDelay <= 0 {
		c.RetryDelay = 2 * time.Second
	}

	if c.GRPCPoolSize <= 0 {
		c.GRPCPoolSize = 4
	}

	return nil
}
