package bundlecache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/opencontainers/go-digest"
)

// Set stores a bundle for a language. data may be any JSON-serializable
// value; meta must carry Version (when versioning is enabled) and a
// Coverage within [0,100]. Set stamps Language, Timestamp, Size,
// Compressed, and Checksum itself.
//
// When compression is enabled and the serialized payload exceeds the
// threshold, the codec is attempted; a codec failure is logged and the
// entry stored uncompressed. The call still succeeds and Compressed
// records the actual outcome. Only a store write failure makes Set fail.
//
// A later Set for the same (language, version) replaces the entry
// wholesale.
func (m *Manager) Set(ctx context.Context, language string, data any, meta Metadata) error {
	if language == "" {
		return ErrLanguageRequired
	}
	cfg := m.Config()
	if cfg.EnableVersioning && meta.Version == "" {
		return ErrVersionRequired
	}
	if meta.Coverage < 0 || meta.Coverage > 100 {
		return fmt.Errorf("%w: got %v", ErrInvalidCoverage, meta.Coverage)
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("serialize bundle for %q: %w", language, err)
	}
	if cfg.MaxSize > 0 && int64(len(payload)) > cfg.MaxSize {
		return fmt.Errorf("%w: %d bytes, max %d", ErrEntryTooLarge, len(payload), cfg.MaxSize)
	}

	meta.Language = language
	meta.Timestamp = time.Now().UnixMilli()
	meta.Size = int64(len(payload))
	meta.Checksum = digest.FromBytes(payload)
	meta.Compressed = false

	var compressed []byte
	if cfg.EnableCompression && int64(len(payload)) > cfg.CompressionThreshold {
		out, err := m.codec.Compress(payload)
		if err != nil {
			m.log().Warn("compression failed, storing uncompressed",
				"language", language, "version", meta.Version, "error", err)
		} else {
			compressed = out
			meta.Compressed = true
		}
	}

	raw, err := encodeEnvelope(payload, compressed, meta)
	if err != nil {
		return fmt.Errorf("encode entry for %q: %w", language, err)
	}

	key := cfg.buildKey(language, meta.Version)
	if err := m.store.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}

	m.memorySet(key, Entry{Data: payload, Metadata: meta})
	if cfg.EnableVersioning {
		m.indexSet(language, key)
	}

	m.log().Debug("stored bundle",
		"language", language, "version", meta.Version,
		"size", meta.Size, "compressed", meta.Compressed)
	return nil
}
