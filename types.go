package bundlecache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/opencontainers/go-digest"
)

// Default configuration values. See DefaultConfig.
const (
	// DefaultKeyPrefix namespaces cache keys inside a shared store.
	DefaultKeyPrefix = "translation_cache_"

	defaultMaxAge               = 24 * time.Hour
	defaultMaxSize              = 10 << 20
	defaultCompressionThreshold = 1 << 10
)

// Metadata describes a cached bundle.
//
// Language, Version, and Coverage are supplied by the writer; Timestamp,
// Compressed, Size, and Checksum are stamped by Set and describe the stored
// form.
type Metadata struct {
	Language   string        `json:"language"`
	Version    string        `json:"version"`
	Coverage   float64       `json:"coverage"`
	Timestamp  int64         `json:"timestamp"` // unix milliseconds
	Compressed bool          `json:"compressed"`
	Size       int64         `json:"size"` // serialized payload bytes
	Checksum   digest.Digest `json:"checksum,omitempty"`
}

// Time returns the write timestamp as a time.Time.
func (m Metadata) Time() time.Time {
	return time.UnixMilli(m.Timestamp)
}

// Entry is a cached bundle as returned by Get: the decompressed serialized
// payload plus its metadata. Entries are immutable; callers must not modify
// Data.
type Entry struct {
	Data     json.RawMessage `json:"data"`
	Metadata Metadata        `json:"metadata"`
}

// Decode unmarshals the entry payload into v.
func (e *Entry) Decode(v any) error {
	return json.Unmarshal(e.Data, v)
}

// Config holds the runtime-tunable cache policy. All fields take effect for
// subsequent operations only; entries already stored are never revalidated
// retroactively.
type Config struct {
	// MaxAge is the freshness window. Entries older than this are treated
	// as absent by Get and removed by ClearExpired. Zero or negative
	// disables expiration.
	MaxAge time.Duration

	// MaxSize bounds the serialized size of a single entry. Set rejects
	// larger payloads with ErrEntryTooLarge. Zero or negative disables the
	// bound.
	MaxSize int64

	// CompressionThreshold is the minimum serialized size at which Set
	// attempts compression.
	CompressionThreshold int64

	// EnableCompression controls whether Set attempts compression at all.
	EnableCompression bool

	// EnableVersioning controls whether storage keys carry versions. When
	// disabled, reads and writes share one unversioned key per language and
	// version arguments affect metadata only.
	EnableVersioning bool

	// KeyPrefix namespaces this cache's keys inside the store.
	KeyPrefix string
}

// DefaultConfig returns the stock cache policy: 24h freshness, 10 MiB entry
// bound, compression above 1 KiB, versioning enabled.
func DefaultConfig() Config {
	return Config{
		MaxAge:               defaultMaxAge,
		MaxSize:              defaultMaxSize,
		CompressionThreshold: defaultCompressionThreshold,
		EnableCompression:    true,
		EnableVersioning:     true,
		KeyPrefix:            DefaultKeyPrefix,
	}
}

// buildKey returns the storage key for a language/version pair.
func (c Config) buildKey(language, version string) string {
	if version != "" && c.EnableVersioning {
		return c.KeyPrefix + language + "_v" + version
	}
	return c.KeyPrefix + language
}

// expired reports whether an entry written at ts (unix milliseconds) has
// outlived MaxAge at the given instant.
func (c Config) expired(ts int64, now time.Time) bool {
	if c.MaxAge <= 0 {
		return false
	}
	return now.Sub(time.UnixMilli(ts)) > c.MaxAge
}

// Stats reports cache effectiveness and footprint. Hits and Misses count
// Get outcomes since the Manager was constructed; TotalSize and ItemCount
// are recomputed from the store on every call.
type Stats struct {
	Hits      int64   `json:"hits"`
	Misses    int64   `json:"misses"`
	HitRate   float64 `json:"hit_rate"`
	TotalSize int64   `json:"total_size"`
	ItemCount int     `json:"item_count"`
}

// IntegrityReport classifies the persisted entries under the cache prefix.
// Total is the number of keys examined.
type IntegrityReport struct {
	Valid     int `json:"valid"`
	Corrupted int `json:"corrupted"`
	Expired   int `json:"expired"`
	Total     int `json:"total"`
}

// FetchFunc retrieves a bundle for one language during Preload. It returns
// the payload (any JSON-serializable value) and its metadata; Language,
// Version, and Coverage are the fields Preload passes on to Set.
type FetchFunc func(ctx context.Context, language string) (any, Metadata, error)
