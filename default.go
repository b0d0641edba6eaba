package bundlecache

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/lingopack/bundlecache/store"
	"github.com/lingopack/bundlecache/store/disk"
)

var (
	defaultOnce    sync.Once
	defaultManager *Manager
)

// Default returns the process-wide Manager, constructing it on first use.
// It persists under the user cache directory (fallback: process memory
// when no cache directory is available) with the stock configuration.
// Applications needing their own store, codec, or policy should construct
// a Manager with New instead.
func Default() *Manager {
	defaultOnce.Do(func() {
		defaultManager = New(WithStore(defaultStore()))
	})
	return defaultManager
}

func defaultStore() store.Store {
	dir, err := os.UserCacheDir()
	if err != nil {
		return store.NewMemory()
	}
	ds, err := disk.New(filepath.Join(dir, "bundlecache"))
	if err != nil {
		return store.NewMemory()
	}
	return ds
}

// GetCachedTranslation retrieves a bundle from the default Manager.
func GetCachedTranslation(ctx context.Context, language, version string) (*Entry, bool) {
	return Default().Get(ctx, language, version)
}

// SetCachedTranslation stores a bundle in the default Manager.
func SetCachedTranslation(ctx context.Context, language string, data any, meta Metadata) error {
	return Default().Set(ctx, language, data, meta)
}

// ClearTranslationCache removes every bundle under the default Manager's
// prefix.
func ClearTranslationCache(ctx context.Context) error {
	return Default().Clear(ctx)
}
