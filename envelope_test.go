package bundlecache

import (
	"testing"

	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lingopack/bundlecache/codec"
)

func TestEnvelopeRoundtrip(t *testing.T) {
	t.Parallel()

	payload := []byte(`{"hello":"Hallo"}`)
	meta := Metadata{
		Language:  "de",
		Version:   "1.0.0",
		Coverage:  100,
		Timestamp: 1700000000000,
		Size:      int64(len(payload)),
		Checksum:  digest.FromBytes(payload),
	}

	raw, err := encodeEnvelope(payload, nil, meta)
	require.NoError(t, err)

	entry, err := decodeEnvelope(raw, nil)
	require.NoError(t, err)
	assert.JSONEq(t, string(payload), string(entry.Data))
	assert.Equal(t, meta, entry.Metadata)
}

func TestEnvelopeCompressedRoundtrip(t *testing.T) {
	t.Parallel()

	c := codec.NewZstd()
	payload := []byte(`{"hello":"Hallo","bye":"Tschuess"}`)
	compressed, err := c.Compress(payload)
	require.NoError(t, err)

	meta := Metadata{
		Language:   "de",
		Version:    "1.0.0",
		Timestamp:  1700000000000,
		Compressed: true,
		Size:       int64(len(payload)),
		Checksum:   digest.FromBytes(payload),
	}

	raw, err := encodeEnvelope(payload, compressed, meta)
	require.NoError(t, err)

	entry, err := decodeEnvelope(raw, c)
	require.NoError(t, err)
	assert.Equal(t, payload, []byte(entry.Data))
	assert.True(t, entry.Metadata.Compressed)
}

func TestEnvelopeChecksumMismatch(t *testing.T) {
	t.Parallel()

	payload := []byte(`{"hello":"Hallo"}`)
	meta := Metadata{
		Language: "de",
		Checksum: digest.FromBytes([]byte("something else entirely")),
	}

	raw, err := encodeEnvelope(payload, nil, meta)
	require.NoError(t, err)

	_, err = decodeEnvelope(raw, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checksum mismatch")
}

func TestEnvelopeMissingChecksumAccepted(t *testing.T) {
	t.Parallel()

	// Entries written by other tooling may omit the checksum.
	raw := []byte(`{"data":{"hello":"Hallo"},"metadata":{"language":"de","version":"1.0.0"}}`)
	entry, err := decodeEnvelope(raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "de", entry.Metadata.Language)
}

func TestEnvelopeDecodeRejectsGarbage(t *testing.T) {
	t.Parallel()

	c := codec.NewZstd()

	// Not JSON at all.
	_, err := decodeEnvelope([]byte("{truncated"), c)
	require.Error(t, err)

	// Compressed flag with a non-string data field.
	_, err = decodeEnvelope([]byte(`{"data":{"x":1},"metadata":{"compressed":true}}`), c)
	require.Error(t, err)

	// Compressed flag with bytes the codec never produced.
	raw, err := encodeEnvelope(nil, []byte("definitely not zstd"), Metadata{Compressed: true})
	require.NoError(t, err)
	_, err = decodeEnvelope(raw, c)
	require.Error(t, err)

	// Compressed entry but no codec to reverse it.
	good, err := c.Compress([]byte(`{}`))
	require.NoError(t, err)
	raw, err = encodeEnvelope([]byte(`{}`), good, Metadata{Compressed: true})
	require.NoError(t, err)
	_, err = decodeEnvelope(raw, nil)
	require.Error(t, err)
}

func TestEnvelopeDecompressedMustBeJSON(t *testing.T) {
	t.Parallel()

	c := codec.NewZstd()
	compressed, err := c.Compress([]byte("plain text, not JSON"))
	require.NoError(t, err)

	raw, err := encodeEnvelope(nil, compressed, Metadata{Compressed: true})
	require.NoError(t, err)

	_, err = decodeEnvelope(raw, c)
	require.Error(t, err)
}
