// Package codec defines the compression strategy used by bundlecache and
// provides zstd (default), gzip, and brotli implementations.
//
// Codecs operate on whole payloads: cached bundles are single documents,
// not streams. A cache manager holds exactly one codec; the persisted
// envelope records only whether a payload is compressed, so entries must
// be read back through a codec compatible with the one that wrote them.
package codec

// Codec compresses and decompresses bundle payloads. Implementations must
// be safe for concurrent use, and Decompress must fail on input it did
// not produce rather than return garbage.
type Codec interface {
	// Name identifies the codec in logs and tooling.
	Name() string

	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}
