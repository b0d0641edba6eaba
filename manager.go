package bundlecache

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/lingopack/bundlecache/codec"
	"github.com/lingopack/bundlecache/store"
)

const defaultPreloadWorkers = 4

// Manager orchestrates the memory tier, the persistent store, the
// compression codec, and the version index behind the public cache API.
//
// A Manager is safe for concurrent use. Its memory tier and version index
// are private; two Managers constructed over the same store and prefix
// observe each other's writes through the store but never invalidate each
// other's memory tiers.
type Manager struct {
	store  store.Store
	codec  codec.Codec
	logger *slog.Logger

	cfgMu sync.RWMutex
	cfg   Config

	memMu  sync.RWMutex
	memory map[string]Entry

	idxMu     sync.RWMutex
	index     map[string]string
	idxReady  bool
	rebuildMu sync.Mutex

	readGroup singleflight.Group

	hits   atomic.Int64
	misses atomic.Int64

	preloadWorkers int
}

// New creates a Manager. Without options it caches in process memory with
// the zstd codec and DefaultConfig policy.
func New(opts ...Option) *Manager {
	m := &Manager{
		cfg:            DefaultConfig(),
		memory:         make(map[string]Entry),
		index:          make(map[string]string),
		preloadWorkers: defaultPreloadWorkers,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(m)
	}
	if m.store == nil {
		m.store = store.NewMemory()
	}
	if m.codec == nil {
		m.codec = codec.NewZstd()
	}
	if m.preloadWorkers < 1 {
		m.preloadWorkers = 1
	}
	return m
}

func (m *Manager) log() *slog.Logger {
	if m.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return m.logger
}

// Config returns a snapshot of the live configuration.
func (m *Manager) Config() Config {
	m.cfgMu.RLock()
	defer m.cfgMu.RUnlock()
	return m.cfg
}

// UpdateConfig merges the given options into the live configuration. The
// result takes effect for subsequent operations immediately; entries
// already stored are not revalidated.
func (m *Manager) UpdateConfig(opts ...ConfigOption) {
	m.cfgMu.Lock()
	defer m.cfgMu.Unlock()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&m.cfg)
	}
}

// resolveReadKey maps a Get/Remove request onto a storage key. An explicit
// version demands the exact versioned key. An empty version resolves
// through the version index when versioning is enabled, or the unversioned
// key when it is not. The boolean is false when no key can be resolved.
func (m *Manager) resolveReadKey(ctx context.Context, cfg Config, language, version string) (string, bool) {
	if version != "" || !cfg.EnableVersioning {
		return cfg.buildKey(language, version), true
	}
	return m.indexLookup(ctx, cfg, language)
}

func (m *Manager) memoryGet(key string) (Entry, bool) {
	m.memMu.RLock()
	defer m.memMu.RUnlock()
	e, ok := m.memory[key]
	return e, ok
}

func (m *Manager) memorySet(key string, e Entry) {
	m.memMu.Lock()
	defer m.memMu.Unlock()
	m.memory[key] = e
}

func (m *Manager) memoryDelete(key string) {
	m.memMu.Lock()
	defer m.memMu.Unlock()
	delete(m.memory, key)
}

func (m *Manager) memoryClear() {
	m.memMu.Lock()
	defer m.memMu.Unlock()
	clear(m.memory)
}

// prefixKeys enumerates the store keys belonging to this cache.
func (m *Manager) prefixKeys(ctx context.Context, cfg Config) ([]string, error) {
	keys, err := m.store.Keys(ctx)
	if err != nil {
		return nil, err
	}
	out := keys[:0]
	for _, key := range keys {
		if strings.HasPrefix(key, cfg.KeyPrefix) {
			out = append(out, key)
		}
	}
	return out, nil
}
