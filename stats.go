package bundlecache

import (
	"context"
	"fmt"
)

// Stats returns the running hit/miss counters together with the persisted
// footprint under the prefix. ItemCount and TotalSize cover decodable
// entries only (expired ones included, corrupted ones not); the counters
// reset only when the Manager is discarded.
func (m *Manager) Stats(ctx context.Context) (Stats, error) {
	cfg := m.Config()

	s := Stats{
		Hits:   m.hits.Load(),
		Misses: m.misses.Load(),
	}
	if total := s.Hits + s.Misses; total > 0 {
		s.HitRate = float64(s.Hits) / float64(total)
	}

	keys, err := m.prefixKeys(ctx, cfg)
	if err != nil {
		return Stats{}, fmt.Errorf("enumerate store: %w", err)
	}
	for _, key := range keys {
		raw, ok, err := m.store.Get(ctx, key)
		if err != nil || !ok {
			continue
		}
		entry, err := decodeEnvelope(raw, m.codec)
		if err != nil {
			continue
		}
		s.ItemCount++
		s.TotalSize += entry.Metadata.Size
	}
	return s, nil
}
