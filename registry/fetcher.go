package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/lingopack/bundlecache"
)

const defaultMaxBundleSize = 32 << 20

// Fetcher retrieves translation bundles from one repository, one tag per
// language.
type Fetcher struct {
	client  *Client
	repoRef string
	tag     func(language string) string
	maxSize int64
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithTagFormat sets how a language code maps to a tag. The default uses
// the language code itself.
func WithTagFormat(format func(language string) string) FetcherOption {
	return func(f *Fetcher) {
		f.tag = format
	}
}

// WithMaxBundleSize caps the accepted bundle layer size. Defaults to
// 32 MiB.
func WithMaxBundleSize(n int64) FetcherOption {
	return func(f *Fetcher) {
		f.maxSize = n
	}
}

// NewFetcher binds a Client to a repository reference such as
// "ghcr.io/acme/i18n-bundles".
func NewFetcher(client *Client, repoRef string, opts ...FetcherOption) (*Fetcher, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: client is nil", ErrInvalidReference)
	}
	if _, err := parseRef(repoRef); err != nil {
		return nil, err
	}
	f := &Fetcher{
		client:  client,
		repoRef: repoRef,
		tag:     func(language string) string { return language },
		maxSize: defaultMaxBundleSize,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// FetchBundle retrieves and verifies the bundle for one language: resolve
// the language's tag, fetch the manifest, check it is a bundle artifact,
// and download the bundle layer.
func (f *Fetcher) FetchBundle(ctx context.Context, language string) (json.RawMessage, bundlecache.Metadata, error) {
	tag := f.tag(language)

	desc, err := f.client.Resolve(ctx, f.repoRef, tag)
	if err != nil {
		return nil, bundlecache.Metadata{}, fmt.Errorf("resolve %s:%s: %w", f.repoRef, tag, err)
	}

	manifest, err := f.client.FetchManifest(ctx, f.repoRef, &desc)
	if err != nil {
		return nil, bundlecache.Metadata{}, fmt.Errorf("fetch manifest %s:%s: %w", f.repoRef, tag, err)
	}

	layer, err := bundleLayer(manifest)
	if err != nil {
		return nil, bundlecache.Metadata{}, err
	}
	if layer.Size > f.maxSize {
		return nil, bundlecache.Metadata{}, fmt.Errorf("%w: %d bytes, max %d", ErrBundleTooLarge, layer.Size, f.maxSize)
	}

	data, err := f.client.FetchBlob(ctx, f.repoRef, &layer)
	if err != nil {
		return nil, bundlecache.Metadata{}, fmt.Errorf("fetch bundle %s:%s: %w", f.repoRef, tag, err)
	}
	if !json.Valid(data) {
		return nil, bundlecache.Metadata{}, fmt.Errorf("%w: bundle layer is not valid JSON", ErrManifestInvalid)
	}

	meta, err := metadataFromManifest(language, manifest)
	if err != nil {
		return nil, bundlecache.Metadata{}, err
	}

	f.client.log().Debug("fetched bundle",
		"language", language, "tag", tag, "version", meta.Version, "size", len(data))
	return data, meta, nil
}

// FetchFunc adapts the Fetcher to bundlecache.Preload.
func (f *Fetcher) FetchFunc() bundlecache.FetchFunc {
	return func(ctx context.Context, language string) (any, bundlecache.Metadata, error) {
		data, meta, err := f.FetchBundle(ctx, language)
		if err != nil {
			return nil, bundlecache.Metadata{}, err
		}
		return data, meta, nil
	}
}

// bundleLayer finds the bundle document layer in a manifest, requiring
// the manifest to identify itself as a bundle artifact. OCI 1.1 artifacts
// carry ArtifactType on the manifest; 1.0-compatible publishers put it on
// the config media type instead.
func bundleLayer(manifest ocispec.Manifest) (ocispec.Descriptor, error) {
	if manifest.ArtifactType != ArtifactType && manifest.Config.MediaType != ArtifactType {
		return ocispec.Descriptor{}, fmt.Errorf("%w: not a bundle artifact", ErrManifestInvalid)
	}
	for _, layer := range manifest.Layers {
		if layer.MediaType == MediaTypeBundle {
			return layer, nil
		}
	}
	return ocispec.Descriptor{}, fmt.Errorf("%w: no bundle layer", ErrManifestInvalid)
}

// metadataFromManifest reads bundle metadata from manifest annotations.
// A language annotation, when present, must match the requested language;
// version and coverage are optional.
func metadataFromManifest(language string, manifest ocispec.Manifest) (bundlecache.Metadata, error) {
	meta := bundlecache.Metadata{Language: language}

	if lang, ok := manifest.Annotations[AnnotationLanguage]; ok && lang != language {
		return bundlecache.Metadata{}, fmt.Errorf("%w: language %q does not match requested %q",
			ErrManifestInvalid, lang, language)
	}
	meta.Version = manifest.Annotations[ocispec.AnnotationVersion]
	if raw, ok := manifest.Annotations[AnnotationCoverage]; ok {
		coverage, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return bundlecache.Metadata{}, fmt.Errorf("%w: bad coverage annotation %q", ErrManifestInvalid, raw)
		}
		meta.Coverage = coverage
	}

	return meta, nil
}
