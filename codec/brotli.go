package codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
)

// Brotli compresses with brotli, trading encode speed for density on
// text-heavy bundles.
type Brotli struct {
	quality int
}

var _ Codec = (*Brotli)(nil)

// NewBrotli creates a brotli codec. quality ranges from
// brotli.BestSpeed (0) to brotli.BestCompression (11).
func NewBrotli(quality int) *Brotli {
	return &Brotli{quality: quality}
}

// Name implements Codec.
func (b *Brotli) Name() string { return "brotli" }

// Compress implements Codec.
func (b *Brotli) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := brotli.NewWriterLevel(&buf, b.quality)
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("brotli: compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("brotli: compress: %w", err)
	}
	return buf.Bytes(), nil
}

// Decompress implements Codec.
func (b *Brotli) Decompress(data []byte) ([]byte, error) {
	out, err := io.ReadAll(brotli.NewReader(bytes.NewReader(data)))
	if err != nil {
		return nil, fmt.Errorf("brotli: decompress: %w", err)
	}
	return out, nil
}
