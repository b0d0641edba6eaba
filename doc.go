// Package bundlecache implements a layered cache for localized content
// bundles (translation/string tables) fetched from a remote source.
//
// A Manager combines a private in-process memory tier with a durable
// [store.Store], optional payload compression through a [codec.Codec],
// explicit versioning with a latest-version index, time-based expiration,
// corruption tolerance, usage statistics, and batch preloading.
//
// # Basic usage
//
//	m := bundlecache.New(
//		bundlecache.WithStore(diskStore),
//		bundlecache.WithCodec(codec.NewZstd()),
//	)
//
//	err := m.Set(ctx, "de", bundle, bundlecache.Metadata{
//		Version:  "1.2.0",
//		Coverage: 100,
//	})
//
//	entry, ok := m.Get(ctx, "de", "1.2.0")
//	if ok {
//		var bundle map[string]string
//		_ = entry.Decode(&bundle)
//	}
//
// Reads never fail: absent, expired, and corrupted entries all surface as a
// plain miss, so a damaged cache can at worst force a re-fetch upstream.
// Write failures (store quota, IO) propagate to the caller.
//
// # Preloading
//
// Preload populates the cache for a set of languages from an injected fetch
// function, skipping languages that are already cached:
//
//	src, _ := bundlehttp.NewSource("https://cdn.example.com/i18n/{language}.json")
//	err := m.Preload(ctx, []string{"de", "fr", "ja"}, src.FetchFunc())
//
// # Default instance
//
// A lazily-constructed process-wide Manager backed by the user cache
// directory is available through [Default], with package-level helpers
// [GetCachedTranslation], [SetCachedTranslation], and
// [ClearTranslationCache] delegating to it.
package bundlecache
