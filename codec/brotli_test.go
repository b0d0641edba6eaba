package codec

import (
	"bytes"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
)

func TestBrotliRoundtrip(t *testing.T) {
	t.Parallel()

	c := NewBrotli(brotli.DefaultCompression)
	data := []byte(strings.Repeat(`{"hello":"Hallo"}`, 128))

	compressed, err := c.Compress(data)
	if err != nil {
		t.Fatalf("Compress() error = %v", err)
	}
	if len(compressed) >= len(data) {
		t.Fatalf("Compress() produced %d bytes for %d input bytes", len(compressed), len(data))
	}

	out, err := c.Decompress(compressed)
	if err != nil {
		t.Fatalf("Decompress() error = %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Fatal("Decompress() did not restore the input")
	}
}

func TestBrotliRejectsGarbage(t *testing.T) {
	t.Parallel()

	c := NewBrotli(brotli.DefaultCompression)
	if _, err := c.Decompress([]byte("definitely not a brotli stream")); err == nil {
		t.Fatal("Decompress() of garbage should fail")
	}
}

func TestBrotliName(t *testing.T) {
	t.Parallel()

	if got := NewBrotli(brotli.DefaultCompression).Name(); got != "brotli" {
		t.Fatalf("Name() = %q, want %q", got, "brotli")
	}
}
