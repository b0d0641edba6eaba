package codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// Gzip compresses with gzip. Useful when cached envelopes must stay
// readable by tooling without zstd support.
type Gzip struct {
	level int
}

var _ Codec = (*Gzip)(nil)

// NewGzip creates a gzip codec. level follows gzip's constants; values
// outside the valid range surface as errors from Compress.
func NewGzip(level int) *Gzip {
	return &Gzip{level: level}
}

// Name implements Codec.
func (g *Gzip) Name() string { return "gzip" }

// Compress implements Codec.
func (g *Gzip) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, g.level)
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("gzip: compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("gzip: compress: %w", err)
	}
	return buf.Bytes(), nil
}

// Decompress implements Codec.
func (g *Gzip) Decompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gzip: decompress: %w", err)
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("gzip: decompress: %w", err)
	}
	return out, nil
}
