package bundlecache

import (
	"context"
	"fmt"
	"time"
)

// ClearExpired removes every persisted entry under the prefix whose age
// exceeds MaxAge and reports how many were removed. Corrupted entries are
// deliberately left in place: expiring by policy must not mask
// data-corruption bugs, and ValidateIntegrity exists to surface those.
func (m *Manager) ClearExpired(ctx context.Context) (int, error) {
	cfg := m.Config()

	keys, err := m.prefixKeys(ctx, cfg)
	if err != nil {
		return 0, fmt.Errorf("enumerate store: %w", err)
	}

	now := time.Now()
	removed := 0
	for _, key := range keys {
		raw, ok, err := m.store.Get(ctx, key)
		if err != nil {
			m.log().Warn("expiry sweep: store read failed", "key", key, "error", err)
			continue
		}
		if !ok {
			continue
		}
		entry, err := decodeEnvelope(raw, m.codec)
		if err != nil {
			continue
		}
		if !cfg.expired(entry.Metadata.Timestamp, now) {
			continue
		}
		if err := m.store.Remove(ctx, key); err != nil {
			return removed, fmt.Errorf("remove expired %q: %w", key, err)
		}
		m.memoryDelete(key)
		m.indexDrop(entry.Metadata.Language, key)
		removed++
	}

	if removed > 0 {
		m.log().Debug("cleared expired entries", "removed", removed, "scanned", len(keys))
	}
	return removed, nil
}

// ValidateIntegrity classifies every persisted entry under the prefix as
// valid, corrupted (fails to parse, decompress, or pass its checksum), or
// expired. It is read-only: storage, the memory tier, the index, and the
// hit/miss counters are all untouched.
func (m *Manager) ValidateIntegrity(ctx context.Context) (IntegrityReport, error) {
	cfg := m.Config()

	keys, err := m.prefixKeys(ctx, cfg)
	if err != nil {
		return IntegrityReport{}, fmt.Errorf("enumerate store: %w", err)
	}

	now := time.Now()
	var report IntegrityReport
	for _, key := range keys {
		raw, ok, err := m.store.Get(ctx, key)
		if err != nil {
			m.log().Warn("integrity scan: store read failed", "key", key, "error", err)
			report.Total++
			report.Corrupted++
			continue
		}
		if !ok {
			// Removed between enumeration and read.
			continue
		}
		report.Total++
		entry, err := decodeEnvelope(raw, m.codec)
		switch {
		case err != nil:
			report.Corrupted++
		case cfg.expired(entry.Metadata.Timestamp, now):
			report.Expired++
		default:
			report.Valid++
		}
	}
	return report, nil
}
