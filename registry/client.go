package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"oras.land/oras-go/v2/content"
	"oras.land/oras-go/v2/errdef"
	orasregistry "oras.land/oras-go/v2/registry"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"
	"oras.land/oras-go/v2/registry/remote/errcode"
	"oras.land/oras-go/v2/registry/remote/retry"
)

// Client provides fetch-side OCI registry operations for bundle artifacts.
//
// It wraps ORAS with a shared auth client so tokens are cached and reused
// across requests. OCI 1.0/1.1 manifests are handled transparently.
type Client struct {
	plainHTTP  bool
	userAgent  string
	anonymous  bool // skip credential lookup entirely
	credStore  credentials.Store
	authClient *auth.Client
	logger     *slog.Logger
}

// New creates a registry client with the given options.
func New(opts ...Option) *Client {
	c := &Client{
		userAgent: "bundlecache/1.0",
	}
	for _, opt := range opts {
		opt(c)
	}

	c.authClient = &auth.Client{
		Client: retry.DefaultClient,
		Cache:  auth.NewCache(),
		Credential: func(ctx context.Context, hostport string) (auth.Credential, error) {
			if c.anonymous || c.credStore == nil {
				return auth.EmptyCredential, nil
			}
			return c.credStore.Get(ctx, hostport)
		},
		Header: http.Header{
			"User-Agent": []string{c.userAgent},
		},
	}

	return c
}

func (c *Client) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.logger
}

// repository creates a Repository for the given reference, backed by the
// shared auth client.
func (c *Client) repository(ref string) (*remote.Repository, error) {
	repo, err := remote.NewRepository(ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReference, err)
	}

	repo.PlainHTTP = c.plainHTTP
	repo.Client = c.authClient

	return repo, nil
}

// parseRef parses a full reference into registry, repository, and
// tag/digest parts.
func parseRef(ref string) (orasregistry.Reference, error) {
	r, err := orasregistry.ParseReference(ref)
	if err != nil {
		return orasregistry.Reference{}, fmt.Errorf("%w: %v", ErrInvalidReference, err)
	}
	return r, nil
}

// Resolve resolves a tag or digest to a descriptor.
func (c *Client) Resolve(ctx context.Context, repoRef, ref string) (ocispec.Descriptor, error) {
	repo, err := c.repository(repoRef)
	if err != nil {
		return ocispec.Descriptor{}, err
	}

	c.log().Debug("resolving reference", "repo", repoRef, "ref", ref)
	desc, err := repo.Resolve(ctx, ref)
	if err != nil {
		return ocispec.Descriptor{}, mapError(err)
	}

	return desc, nil
}

// FetchManifest fetches a manifest by resolved descriptor.
//
// Call Resolve first and pass the resolved descriptor. Both OCI 1.0 and
// 1.1 manifest formats are accepted.
func (c *Client) FetchManifest(ctx context.Context, repoRef string, expected *ocispec.Descriptor) (ocispec.Manifest, error) {
	if err := validateDescriptor(expected); err != nil {
		return ocispec.Manifest{}, err
	}
	if expected.MediaType != "" && expected.MediaType != ocispec.MediaTypeImageManifest {
		return ocispec.Manifest{}, fmt.Errorf("%w: unsupported media type %s", ErrManifestInvalid, expected.MediaType)
	}

	repo, err := c.repository(repoRef)
	if err != nil {
		return ocispec.Manifest{}, err
	}

	desc, rc, err := repo.FetchReference(ctx, expected.Digest.String())
	if err != nil {
		return ocispec.Manifest{}, mapError(err)
	}
	defer rc.Close()

	if expected.MediaType == "" && desc.MediaType != "" && desc.MediaType != ocispec.MediaTypeImageManifest {
		return ocispec.Manifest{}, fmt.Errorf("%w: unsupported media type %s", ErrManifestInvalid, desc.MediaType)
	}

	limited := io.LimitReader(rc, expected.Size)

	var manifest ocispec.Manifest
	if err := json.NewDecoder(limited).Decode(&manifest); err != nil {
		return ocispec.Manifest{}, fmt.Errorf("%w: %v", ErrManifestInvalid, err)
	}

	return manifest, nil
}

// FetchBlob fetches a blob by descriptor, verifying its size and digest.
func (c *Client) FetchBlob(ctx context.Context, repoRef string, desc *ocispec.Descriptor) ([]byte, error) {
	if err := validateDescriptor(desc); err != nil {
		return nil, err
	}

	repo, err := c.repository(repoRef)
	if err != nil {
		return nil, err
	}

	rc, err := repo.Fetch(ctx, *desc)
	if err != nil {
		return nil, mapError(err)
	}
	defer rc.Close()

	data, err := content.ReadAll(rc, *desc)
	if err != nil {
		if errors.Is(err, content.ErrTrailingData) || errors.Is(err, content.ErrMismatchedDigest) {
			return nil, fmt.Errorf("%w: %v", ErrSizeMismatch, err)
		}
		return nil, fmt.Errorf("read blob %s: %w", desc.Digest, err)
	}

	return data, nil
}

// validateDescriptor checks that a descriptor is usable for a fetch.
func validateDescriptor(desc *ocispec.Descriptor) error {
	if desc == nil {
		return fmt.Errorf("%w: descriptor is nil", ErrInvalidDescriptor)
	}
	if desc.Size < 0 {
		return fmt.Errorf("%w: negative size %d", ErrInvalidDescriptor, desc.Size)
	}
	if desc.Digest == "" {
		return fmt.Errorf("%w: empty digest", ErrInvalidDescriptor)
	}
	if err := desc.Digest.Validate(); err != nil {
		return fmt.Errorf("%w: invalid digest %q: %v", ErrInvalidDescriptor, desc.Digest, err)
	}
	return nil
}

// mapError maps ORAS errors to sentinel errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, errdef.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	// ORAS wraps HTTP errors, check for specific error types
	var errResp *errcode.ErrorResponse
	if errors.As(err, &errResp) {
		switch errResp.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: %v", ErrUnauthorized, err)
		case http.StatusForbidden:
			return fmt.Errorf("%w: %v", ErrForbidden, err)
		}
	}
	return err
}
