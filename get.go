package bundlecache

import (
	"context"
	"time"
)

// Get retrieves a bundle. An empty version resolves to the most recently
// written version of the language; an explicit version requires an exact
// match and does not consult the version index.
//
// Get never returns an error: absent keys, store read failures, corrupted
// entries, and entries older than MaxAge all report (nil, false). Every
// call increments exactly one of the hit/miss counters.
func (m *Manager) Get(ctx context.Context, language, version string) (*Entry, bool) {
	if language == "" {
		m.misses.Add(1)
		return nil, false
	}
	cfg := m.Config()

	key, ok := m.resolveReadKey(ctx, cfg, language, version)
	if !ok {
		m.misses.Add(1)
		return nil, false
	}

	if e, ok := m.memoryGet(key); ok {
		if !cfg.expired(e.Metadata.Timestamp, time.Now()) {
			m.hits.Add(1)
			return &e, true
		}
		// Aged out in place; drop it and fall through to the store, which
		// holds the same or newer bytes.
		m.memoryDelete(key)
	}

	entry := m.readThrough(ctx, cfg, key)
	if entry == nil {
		m.misses.Add(1)
		return nil, false
	}
	m.hits.Add(1)
	e := *entry
	return &e, true
}

// readThrough fetches and decodes one key from the store, deduplicating
// concurrent calls for the same key. Returns nil for every read-path
// anomaly.
func (m *Manager) readThrough(ctx context.Context, cfg Config, key string) *Entry {
	v, _, _ := m.readGroup.Do(key, func() (any, error) {
		return m.readStore(ctx, cfg, key), nil
	})
	entry, _ := v.(*Entry)
	return entry
}

func (m *Manager) readStore(ctx context.Context, cfg Config, key string) *Entry {
	raw, ok, err := m.store.Get(ctx, key)
	if err != nil {
		m.log().Warn("store read failed", "key", key, "error", err)
		return nil
	}
	if !ok {
		return nil
	}

	entry, err := decodeEnvelope(raw, m.codec)
	if err != nil {
		m.log().Warn("corrupt cache entry", "key", key, "error", err)
		return nil
	}
	if cfg.expired(entry.Metadata.Timestamp, time.Now()) {
		return nil
	}

	m.memorySet(key, *entry)
	return entry
}
