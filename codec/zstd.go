package codec

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// defaultMaxDecodedMemory bounds decoder memory so a corrupted or hostile
// envelope cannot balloon during decompression.
const defaultMaxDecodedMemory = 128 << 20

// Zstd compresses with zstandard. The zero value is not usable; construct
// with NewZstd.
//
// The underlying encoder and decoder are created on first use and reused
// for every call; both are safe for concurrent whole-buffer operations.
type Zstd struct {
	level     zstd.EncoderLevel
	maxMemory uint64

	encOnce sync.Once
	enc     *zstd.Encoder
	encErr  error

	decOnce sync.Once
	dec     *zstd.Decoder
	decErr  error
}

var _ Codec = (*Zstd)(nil)

// ZstdOption configures a Zstd codec.
type ZstdOption func(*Zstd)

// WithLevel sets the encoder level. Defaults to zstd.SpeedDefault.
func WithLevel(level zstd.EncoderLevel) ZstdOption {
	return func(z *Zstd) {
		z.level = level
	}
}

// WithMaxMemory caps decoder memory. Use 0 for the package default.
func WithMaxMemory(limit uint64) ZstdOption {
	return func(z *Zstd) {
		z.maxMemory = limit
	}
}

// NewZstd creates a zstd codec.
func NewZstd(opts ...ZstdOption) *Zstd {
	z := &Zstd{
		level:     zstd.SpeedDefault,
		maxMemory: defaultMaxDecodedMemory,
	}
	for _, opt := range opts {
		opt(z)
	}
	return z
}

// Name implements Codec.
func (z *Zstd) Name() string { return "zstd" }

// Compress implements Codec.
func (z *Zstd) Compress(data []byte) ([]byte, error) {
	z.encOnce.Do(func() {
		z.enc, z.encErr = zstd.NewWriter(nil, zstd.WithEncoderLevel(z.level))
	})
	if z.encErr != nil {
		return nil, fmt.Errorf("zstd: init encoder: %w", z.encErr)
	}
	return z.enc.EncodeAll(data, nil), nil
}

// Decompress implements Codec.
func (z *Zstd) Decompress(data []byte) ([]byte, error) {
	z.decOnce.Do(func() {
		opts := []zstd.DOption{}
		if z.maxMemory > 0 {
			opts = append(opts, zstd.WithDecoderMaxMemory(z.maxMemory))
		}
		z.dec, z.decErr = zstd.NewReader(nil, opts...)
	})
	if z.decErr != nil {
		return nil, fmt.Errorf("zstd: init decoder: %w", z.decErr)
	}
	out, err := z.dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd: decompress: %w", err)
	}
	return out, nil
}
