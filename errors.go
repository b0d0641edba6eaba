package bundlecache

import "errors"

// Sentinel errors for the write and validation paths. Read-path anomalies
// (absent, expired, corrupted entries) are reported as misses, never as
// errors.
var (
	// ErrLanguageRequired is returned when an operation is given an empty
	// language code.
	ErrLanguageRequired = errors.New("bundlecache: language is required")

	// ErrVersionRequired is returned by Set when versioning is enabled and
	// the metadata carries no version.
	ErrVersionRequired = errors.New("bundlecache: version is required when versioning is enabled")

	// ErrInvalidCoverage is returned when metadata coverage is outside the
	// 0-100 range.
	ErrInvalidCoverage = errors.New("bundlecache: coverage must be between 0 and 100")

	// ErrEntryTooLarge is returned by Set when the serialized payload
	// exceeds Config.MaxSize.
	ErrEntryTooLarge = errors.New("bundlecache: entry exceeds configured max size")

	// ErrFetchRequired is returned by Preload when no fetch function is
	// given.
	ErrFetchRequired = errors.New("bundlecache: fetch function is required")
)
