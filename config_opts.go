package bundlecache

import "time"

// ConfigOption mutates one field of the live configuration through
// Manager.UpdateConfig. Unmentioned fields keep their current values.
type ConfigOption func(*Config)

// WithMaxAge sets the freshness window. Zero or negative disables
// expiration.
func WithMaxAge(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.MaxAge = d
	}
}

// WithMaxSize bounds the serialized size of a single entry. Zero or
// negative disables the bound.
func WithMaxSize(n int64) ConfigOption {
	return func(c *Config) {
		c.MaxSize = n
	}
}

// WithCompressionThreshold sets the minimum serialized size at which Set
// attempts compression.
func WithCompressionThreshold(n int64) ConfigOption {
	return func(c *Config) {
		c.CompressionThreshold = n
	}
}

// WithCompression enables or disables compression on write.
func WithCompression(enabled bool) ConfigOption {
	return func(c *Config) {
		c.EnableCompression = enabled
	}
}

// WithVersioning enables or disables versioned storage keys.
func WithVersioning(enabled bool) ConfigOption {
	return func(c *Config) {
		c.EnableVersioning = enabled
	}
}

// WithKeyPrefix sets the store namespace for subsequent operations.
// Entries written under the old prefix become invisible but are not
// migrated or removed.
func WithKeyPrefix(prefix string) ConfigOption {
	return func(c *Config) {
		c.KeyPrefix = prefix
	}
}
