// Package store defines the persistent tier contract for bundlecache and
// provides an in-process implementation. A durable filesystem store lives
// in the disk subpackage.
package store

import "context"

// Store is a durable key/value store of opaque byte values.
//
// Get reports absence with a false boolean and reserves the error for
// transport or IO failures. Set may fail (quota, IO); that failure is the
// one write-path error the cache propagates to callers. Keys returns a
// snapshot of every key currently stored, across all namespaces; the
// cache filters by its own prefix.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Keys(ctx context.Context) ([]string, error)
}
