// Package registry fetches translation bundles published to OCI registries
// as single-layer artifacts.
//
// A bundle artifact is an OCI manifest whose artifact type is
// [ArtifactType], carrying one layer of media type [MediaTypeBundle] (the
// bundle document itself) and annotations describing the bundle: language,
// version, and translation coverage.
//
// Client wraps ORAS with shared token-cached authentication and maps
// registry failures onto sentinel errors. Fetcher binds a Client to one
// repository and tag scheme and adapts it to bundlecache's preload
// contract:
//
//	client := registry.New(registry.WithAnonymous())
//	fetcher, _ := registry.NewFetcher(client, "ghcr.io/acme/i18n-bundles")
//	err := manager.Preload(ctx, languages, fetcher.FetchFunc())
package registry
