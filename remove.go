package bundlecache

import (
	"context"
	"fmt"
)

// Remove deletes the entry the equivalent Get would resolve: the exact
// versioned key, or the language's latest when version is empty. Removing
// a language's latest clears its version index entry: unversioned reads
// then miss even if older versions remain persisted. A Manager that later
// rebuilds its index from the store resolves the newest remaining version
// instead.
//
// Removing an absent entry is not an error.
func (m *Manager) Remove(ctx context.Context, language, version string) error {
	if language == "" {
		return ErrLanguageRequired
	}
	cfg := m.Config()

	key, ok := m.resolveReadKey(ctx, cfg, language, version)
	if !ok {
		return nil
	}
	if err := m.store.Remove(ctx, key); err != nil {
		return fmt.Errorf("remove %q: %w", key, err)
	}
	m.memoryDelete(key)
	m.indexDrop(language, key)
	return nil
}

// Clear removes every persisted entry under the configured prefix, empties
// the memory tier, and resets the version index. It does not consult age
// or validity, and it leaves store keys outside the prefix untouched.
func (m *Manager) Clear(ctx context.Context) error {
	cfg := m.Config()

	if cfg.KeyPrefix == "" {
		if err := m.store.Clear(ctx); err != nil {
			return fmt.Errorf("clear store: %w", err)
		}
	} else {
		keys, err := m.prefixKeys(ctx, cfg)
		if err != nil {
			return fmt.Errorf("enumerate store: %w", err)
		}
		for _, key := range keys {
			if err := m.store.Remove(ctx, key); err != nil {
				return fmt.Errorf("remove %q: %w", key, err)
			}
		}
	}

	m.memoryClear()
	m.indexReset(true)
	m.log().Debug("cleared cache", "prefix", cfg.KeyPrefix)
	return nil
}
