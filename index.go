package bundlecache

import (
	"context"
)

// The version index maps a language to the storage key of its most
// recently written version. Set maintains it, unversioned reads consult
// it, and Remove/ClearExpired drop entries that pointed at removed keys.
//
// A Manager constructed over a pre-existing store starts with a cold
// index. The first unversioned lookup that finds it cold rebuilds it by
// scanning the prefix: fully decodable entries are grouped by language and
// the newest metadata timestamp wins. Freshness is not applied during the
// rebuild; an expired latest version simply resolves to a key that Get
// then reports as a miss.

// indexLookup resolves a language through the index, rebuilding it first
// if it has never been populated from the store.
func (m *Manager) indexLookup(ctx context.Context, cfg Config, language string) (string, bool) {
	m.idxMu.RLock()
	key, ok := m.index[language]
	ready := m.idxReady
	m.idxMu.RUnlock()
	if ok || ready {
		return key, ok
	}

	m.ensureIndex(ctx, cfg)

	m.idxMu.RLock()
	defer m.idxMu.RUnlock()
	key, ok = m.index[language]
	return key, ok
}

// indexSet records key as the latest for language.
func (m *Manager) indexSet(language, key string) {
	m.idxMu.Lock()
	defer m.idxMu.Unlock()
	m.index[language] = key
}

// indexDrop clears the language's index entry if it points at key.
func (m *Manager) indexDrop(language, key string) {
	m.idxMu.Lock()
	defer m.idxMu.Unlock()
	if m.index[language] == key {
		delete(m.index, language)
	}
}

// indexReset empties the index. ready marks it authoritative again, used
// by Clear when the store is known to hold nothing under the prefix.
func (m *Manager) indexReset(ready bool) {
	m.idxMu.Lock()
	defer m.idxMu.Unlock()
	clear(m.index)
	m.idxReady = ready
}

// ensureIndex rebuilds the index from the store exactly once. Languages
// already indexed by concurrent Sets are left alone: a live write is by
// definition newer than anything the scan can find. A failed enumeration
// leaves the index cold so the next unversioned lookup retries.
func (m *Manager) ensureIndex(ctx context.Context, cfg Config) {
	m.rebuildMu.Lock()
	defer m.rebuildMu.Unlock()

	m.idxMu.RLock()
	ready := m.idxReady
	m.idxMu.RUnlock()
	if ready {
		return
	}

	latest, err := m.scanLatest(ctx, cfg)
	if err != nil {
		m.log().Warn("index rebuild: store enumeration failed", "error", err)
		return
	}

	m.idxMu.Lock()
	for language, key := range latest {
		if _, ok := m.index[language]; !ok {
			m.index[language] = key
		}
	}
	m.idxReady = true
	m.idxMu.Unlock()
}

// scanLatest reads every entry under the prefix and returns the storage
// key with the newest timestamp per language. Undecodable entries are
// skipped.
func (m *Manager) scanLatest(ctx context.Context, cfg Config) (map[string]string, error) {
	keys, err := m.prefixKeys(ctx, cfg)
	if err != nil {
		return nil, err
	}

	type candidate struct {
		key string
		ts  int64
	}
	latest := make(map[string]candidate)

	for _, key := range keys {
		raw, ok, err := m.store.Get(ctx, key)
		if err != nil {
			m.log().Warn("index rebuild: store read failed", "key", key, "error", err)
			continue
		}
		if !ok {
			continue
		}
		entry, err := decodeEnvelope(raw, m.codec)
		if err != nil {
			m.log().Debug("index rebuild: skipping undecodable entry", "key", key, "error", err)
			continue
		}
		lang := entry.Metadata.Language
		if lang == "" {
			continue
		}
		if cur, ok := latest[lang]; !ok || entry.Metadata.Timestamp > cur.ts {
			latest[lang] = candidate{key: key, ts: entry.Metadata.Timestamp}
		}
	}

	out := make(map[string]string, len(latest))
	for lang, c := range latest {
		out[lang] = c.key
	}
	if len(out) > 0 {
		m.log().Debug("rebuilt version index", "languages", len(out), "scanned", len(keys))
	}
	return out, nil
}
