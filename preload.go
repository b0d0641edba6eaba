package bundlecache

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Preload populates the cache for a set of languages. Languages that
// already resolve through an unversioned Get are skipped without invoking
// fetch; every other language is fetched exactly once (duplicates in the
// input are collapsed) and stored via Set.
//
// Languages are fetched concurrently up to the configured preload
// concurrency. The first fetch or store failure cancels the remaining
// work and is returned; languages that completed before the failure stay
// cached.
func (m *Manager) Preload(ctx context.Context, languages []string, fetch FetchFunc) error {
	if fetch == nil {
		return ErrFetchRequired
	}

	todo := make([]string, 0, len(languages))
	seen := make(map[string]struct{}, len(languages))
	for _, language := range languages {
		if language == "" {
			return ErrLanguageRequired
		}
		if _, dup := seen[language]; dup {
			continue
		}
		seen[language] = struct{}{}
		todo = append(todo, language)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.preloadWorkers)

	for _, language := range todo {
		language := language
		g.Go(func() error {
			if _, ok := m.Get(ctx, language, ""); ok {
				m.log().Debug("preload: already cached", "language", language)
				return nil
			}
			data, meta, err := fetch(ctx, language)
			if err != nil {
				return fmt.Errorf("fetch %q: %w", language, err)
			}
			if err := m.Set(ctx, language, data, meta); err != nil {
				return fmt.Errorf("preload %q: %w", language, err)
			}
			return nil
		})
	}

	return g.Wait()
}
