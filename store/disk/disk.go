// Package disk provides a durable filesystem-backed store.
//
// Each key maps to one file whose name is the hex encoding of the key
// (reversible, safe on case-insensitive filesystems), placed in a shard
// directory derived from the key's digest so sibling keys with a common
// prefix spread across directories. Writes go through a temp file and an
// atomic rename, so readers never observe partial values and a crash
// leaves at worst an orphaned temp file.
package disk

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/opencontainers/go-digest"

	"github.com/lingopack/bundlecache/store"
)

const (
	defaultShardPrefixLen = 2
	defaultDirPerm        = 0o700
	defaultFilePerm       = 0o600

	// maxKeyLen keeps hex-encoded filenames within common filesystem
	// name limits.
	maxKeyLen = 120
)

// Store implements store.Store on the local filesystem.
type Store struct {
	dir            string
	shardPrefixLen int
	dirPerm        os.FileMode
	filePerm       os.FileMode
}

var _ store.Store = (*Store)(nil)

// Option configures a disk store.
type Option func(*Store)

// WithShardPrefixLen sets the number of digest characters used for shard
// directories. Use 0 to store all files flat. Defaults to 2.
func WithShardPrefixLen(n int) Option {
	return func(s *Store) {
		s.shardPrefixLen = n
	}
}

// WithDirPerm sets the permissions for created directories.
func WithDirPerm(mode os.FileMode) Option {
	return func(s *Store) {
		s.dirPerm = mode
	}
}

// WithFilePerm sets the permissions for stored files.
func WithFilePerm(mode os.FileMode) Option {
	return func(s *Store) {
		s.filePerm = mode
	}
}

// New creates a disk store rooted at dir. The directory is created if it
// does not exist and is owned by the store: Clear removes everything
// beneath it.
func New(dir string, opts ...Option) (*Store, error) {
	if dir == "" {
		return nil, errors.New("disk: store dir is empty")
	}
	s := &Store{
		dir:            dir,
		shardPrefixLen: defaultShardPrefixLen,
		dirPerm:        defaultDirPerm,
		filePerm:       defaultFilePerm,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.shardPrefixLen < 0 {
		return nil, errors.New("disk: shard prefix length must be >= 0")
	}
	if err := os.MkdirAll(dir, s.dirPerm); err != nil {
		return nil, fmt.Errorf("disk: create store dir: %w", err)
	}
	return s, nil
}

// Get returns the value stored under key.
func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(path) //nolint:gosec // path is derived from an encoded key, not user input
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("disk: read %q: %w", key, err)
	}
	return data, true, nil
}

// Set stores value under key, replacing any previous value atomically.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, s.dirPerm); err != nil {
		return fmt.Errorf("disk: create shard dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "bundle-*")
	if err != nil {
		return fmt.Errorf("disk: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("disk: write %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("disk: write %q: %w", key, err)
	}
	if err := os.Chmod(tmpPath, s.filePerm); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("disk: write %q: %w", key, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		// Values are mutable, so an existing destination must be
		// replaced, not treated as satisfied. Clearing it handles
		// platforms where rename does not overwrite.
		_ = os.Remove(path)
		if err := os.Rename(tmpPath, path); err != nil {
			_ = os.Remove(tmpPath)
			return fmt.Errorf("disk: write %q: %w", key, err)
		}
	}
	return nil
}

// Remove deletes key. Removing an absent key is not an error.
func (s *Store) Remove(_ context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("disk: remove %q: %w", key, err)
	}
	return nil
}

// Clear removes every stored value and leaves the root directory in place.
func (s *Store) Clear(_ context.Context) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("disk: clear: %w", err)
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(s.dir, entry.Name())); err != nil {
			return fmt.Errorf("disk: clear: %w", err)
		}
	}
	return nil
}

// Keys returns every stored key by decoding the filenames under the root.
// Temp files and foreign files are skipped.
func (s *Store) Keys(_ context.Context) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		raw, err := hex.DecodeString(d.Name())
		if err != nil {
			return nil
		}
		keys = append(keys, string(raw))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("disk: enumerate keys: %w", err)
	}
	return keys, nil
}

// path maps a key to its file location.
func (s *Store) path(key string) (string, error) {
	if key == "" {
		return "", errors.New("disk: key is empty")
	}
	if len(key) > maxKeyLen {
		return "", fmt.Errorf("disk: key exceeds %d bytes", maxKeyLen)
	}
	name := hex.EncodeToString([]byte(key))
	if s.shardPrefixLen <= 0 {
		return filepath.Join(s.dir, name), nil
	}
	shard := digest.FromString(key).Encoded()
	prefixLen := s.shardPrefixLen
	if prefixLen > len(shard) {
		prefixLen = len(shard)
	}
	return filepath.Join(s.dir, shard[:prefixLen], name), nil
}
