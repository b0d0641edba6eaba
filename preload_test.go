package bundlecache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreloadFetchesUncachedExactlyOnce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := New()

	require.NoError(t, m.Set(ctx, "de", map[string]string{"hello": "Hallo"}, Metadata{Version: "1.0.0"}))

	var mu sync.Mutex
	calls := make(map[string]int)
	fetch := func(_ context.Context, language string) (any, Metadata, error) {
		mu.Lock()
		calls[language]++
		mu.Unlock()
		return map[string]string{"lang": language}, Metadata{Version: "1.0.0", Coverage: 80}, nil
	}

	// "de" is already cached, "fr" appears twice, "ja" once.
	err := m.Preload(ctx, []string{"de", "fr", "fr", "ja"}, fetch)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, map[string]int{"fr": 1, "ja": 1}, calls)

	for _, language := range []string{"de", "fr", "ja"} {
		_, ok := m.Get(ctx, language, "")
		assert.True(t, ok, "%s should be cached after preload", language)
	}
}

func TestPreloadPropagatesFetchError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := New()
	errUpstream := errors.New("upstream down")

	fetch := func(_ context.Context, language string) (any, Metadata, error) {
		if language == "xx" {
			return nil, Metadata{}, errUpstream
		}
		return map[string]string{"lang": language}, Metadata{Version: "1.0.0"}, nil
	}

	err := m.Preload(ctx, []string{"de", "xx"}, fetch)
	require.ErrorIs(t, err, errUpstream)

	// Languages that completed stay cached.
	_, ok := m.Get(ctx, "de", "")
	assert.True(t, ok)
	_, ok = m.Get(ctx, "xx", "")
	assert.False(t, ok)
}

func TestPreloadPropagatesStoreFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := New()

	// Versioning demands a version; a fetch that supplies none fails Set.
	fetch := func(_ context.Context, language string) (any, Metadata, error) {
		return map[string]string{"lang": language}, Metadata{}, nil
	}

	err := m.Preload(ctx, []string{"de"}, fetch)
	require.ErrorIs(t, err, ErrVersionRequired)
}

func TestPreloadInputValidation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := New()

	err := m.Preload(ctx, []string{"de"}, nil)
	require.ErrorIs(t, err, ErrFetchRequired)

	fetch := func(_ context.Context, language string) (any, Metadata, error) {
		return map[string]string{}, Metadata{Version: "1.0.0"}, nil
	}
	err = m.Preload(ctx, []string{"de", ""}, fetch)
	require.ErrorIs(t, err, ErrLanguageRequired)

	// Nothing to do is not an error.
	require.NoError(t, m.Preload(ctx, nil, fetch))
}

func TestPreloadHonorsConcurrencyLimit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := New(WithPreloadConcurrency(1))

	var inFlight, peak atomic.Int64
	fetch := func(_ context.Context, language string) (any, Metadata, error) {
		cur := inFlight.Add(1)
		for {
			old := peak.Load()
			if cur <= old || peak.CompareAndSwap(old, cur) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		inFlight.Add(-1)
		return map[string]string{"lang": language}, Metadata{Version: "1.0.0"}, nil
	}

	err := m.Preload(ctx, []string{"de", "fr", "ja", "ko"}, fetch)
	require.NoError(t, err)
	assert.Equal(t, int64(1), peak.Load(), "fetches must run serially at concurrency 1")
}
