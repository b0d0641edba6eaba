package bundlecache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lingopack/bundlecache/store"
)

func TestSetCompressesLargePayloads(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := store.NewMemory()
	m := New(WithStore(st))

	data := map[string]string{"text": strings.Repeat("translation payload ", 200)}
	require.NoError(t, m.Set(ctx, "de", data, Metadata{Version: "1.0.0"}))

	entry, ok := m.Get(ctx, "de", "1.0.0")
	require.True(t, ok)
	assert.True(t, entry.Metadata.Compressed)

	// Size records the uncompressed payload; the payload itself comes back
	// intact.
	payload, err := json.Marshal(data)
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), entry.Metadata.Size)

	var got map[string]string
	require.NoError(t, entry.Decode(&got))
	assert.Equal(t, data, got)

	// The persisted envelope is the compressed form.
	raw, ok, err := st.Get(ctx, DefaultKeyPrefix+"de_v1.0.0")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Less(t, len(raw), len(payload))

	// A second manager over the same store decompresses it back.
	fresh := New(WithStore(st))
	entry, ok = fresh.Get(ctx, "de", "1.0.0")
	require.True(t, ok)
	require.NoError(t, entry.Decode(&got))
	assert.Equal(t, data, got)
}

func TestSetLeavesSmallPayloadsUncompressed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := store.NewMemory()
	m := New(WithStore(st))

	require.NoError(t, m.Set(ctx, "de", map[string]string{"hello": "Hallo"}, Metadata{Version: "1.0.0"}))

	entry, ok := m.Get(ctx, "de", "1.0.0")
	require.True(t, ok)
	assert.False(t, entry.Metadata.Compressed)

	// Below the threshold the payload is persisted as plain JSON.
	raw, ok, err := st.Get(ctx, DefaultKeyPrefix+"de_v1.0.0")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, bytes.Contains(raw, []byte("Hallo")))
}

func TestSetCompressionThresholdIsStrict(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := New()

	payload := json.RawMessage(`"` + strings.Repeat("a", 200) + `"`)

	// Exactly at the threshold: stays uncompressed.
	m.UpdateConfig(WithCompressionThreshold(int64(len(payload))))
	require.NoError(t, m.Set(ctx, "de", payload, Metadata{Version: "1.0.0"}))
	entry, ok := m.Get(ctx, "de", "1.0.0")
	require.True(t, ok)
	assert.False(t, entry.Metadata.Compressed)

	// One byte below: compressed.
	m.UpdateConfig(WithCompressionThreshold(int64(len(payload)) - 1))
	require.NoError(t, m.Set(ctx, "de", payload, Metadata{Version: "2.0.0"}))
	entry, ok = m.Get(ctx, "de", "2.0.0")
	require.True(t, ok)
	assert.True(t, entry.Metadata.Compressed)
}

func TestSetCompressionDisabled(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := New()
	m.UpdateConfig(WithCompression(false))

	data := map[string]string{"text": strings.Repeat("translation payload ", 200)}
	require.NoError(t, m.Set(ctx, "de", data, Metadata{Version: "1.0.0"}))

	entry, ok := m.Get(ctx, "de", "1.0.0")
	require.True(t, ok)
	assert.False(t, entry.Metadata.Compressed)
}

func TestSetSurvivesCompressionFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := store.NewMemory()
	m := New(WithStore(st), WithCodec(failCodec{}))

	data := map[string]string{"text": strings.Repeat("translation payload ", 200)}
	err := m.Set(ctx, "de", data, Metadata{Version: "1.0.0"})
	require.NoError(t, err, "a broken codec must not fail the write")

	entry, ok := m.Get(ctx, "de", "1.0.0")
	require.True(t, ok)
	assert.False(t, entry.Metadata.Compressed, "the fallback stores plain bytes")

	var got map[string]string
	require.NoError(t, entry.Decode(&got))
	assert.Equal(t, data, got)

	// The entry reads back even on a manager that cannot decompress
	// anything, because nothing was compressed.
	fresh := New(WithStore(st), WithCodec(failCodec{}))
	_, ok = fresh.Get(ctx, "de", "1.0.0")
	assert.True(t, ok)
}

// failCodec rejects every payload in both directions.
type failCodec struct{}

func (failCodec) Name() string { return "fail" }

func (failCodec) Compress([]byte) ([]byte, error) {
	return nil, errors.New("compressor broken")
}

func (failCodec) Decompress([]byte) ([]byte, error) {
	return nil, errors.New("compressor broken")
}
