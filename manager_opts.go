package bundlecache

import (
	"log/slog"

	"github.com/lingopack/bundlecache/codec"
	"github.com/lingopack/bundlecache/store"
)

// Option configures a Manager at construction time.
type Option func(*Manager)

// WithStore sets the persistent store backing the cache. Defaults to an
// in-process store.NewMemory.
func WithStore(s store.Store) Option {
	return func(m *Manager) {
		m.store = s
	}
}

// WithCodec sets the compression codec. Defaults to codec.NewZstd.
func WithCodec(c codec.Codec) Option {
	return func(m *Manager) {
		m.codec = c
	}
}

// WithLogger sets the logger for diagnostics. Without it all logging is
// discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithConfig replaces the initial configuration wholesale. Combine with
// DefaultConfig to tweak individual fields:
//
//	cfg := bundlecache.DefaultConfig()
//	cfg.MaxAge = time.Hour
//	m := bundlecache.New(bundlecache.WithConfig(cfg))
func WithConfig(cfg Config) Option {
	return func(m *Manager) {
		m.cfg = cfg
	}
}

// WithPreloadConcurrency sets the number of languages Preload fetches in
// parallel. Values < 1 are treated as 1. Defaults to 4.
func WithPreloadConcurrency(workers int) Option {
	return func(m *Manager) {
		m.preloadWorkers = workers
	}
}
