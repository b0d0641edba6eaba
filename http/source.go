// Package http provides an HTTP bundle source for preloading.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	nethttp "net/http"
	"net/url"
	"strings"

	"github.com/lingopack/bundlecache"
)

// languagePlaceholder marks where the language code lands in a URL
// template.
const languagePlaceholder = "{language}"

const defaultMaxBodySize = 32 << 20

// ErrNotFound is returned when the remote has no bundle for a language.
var ErrNotFound = errors.New("http: bundle not found")

// Source fetches bundle documents over HTTP. The remote responds with the
// preload fetch contract:
//
//	{"data": <bundle JSON>, "metadata": {"language", "version", "coverage"}}
type Source struct {
	urlTemplate string
	client      *nethttp.Client
	headers     nethttp.Header
	maxBodySize int64
}

// Option configures a Source.
type Option func(*Source)

// WithClient sets the HTTP client used for requests.
func WithClient(client *nethttp.Client) Option {
	return func(s *Source) {
		s.client = client
	}
}

// WithHeaders sets additional headers on each request.
func WithHeaders(headers nethttp.Header) Option {
	return func(s *Source) {
		if headers == nil {
			return
		}
		s.headers = headers.Clone()
	}
}

// WithHeader sets a single header on each request.
func WithHeader(key, value string) Option {
	return func(s *Source) {
		if s.headers == nil {
			s.headers = make(nethttp.Header)
		}
		s.headers.Set(key, value)
	}
}

// WithMaxBodySize caps the accepted response size. Defaults to 32 MiB.
func WithMaxBodySize(n int64) Option {
	return func(s *Source) {
		s.maxBodySize = n
	}
}

// NewSource creates a Source from a URL template containing a {language}
// placeholder, e.g. "https://cdn.example.com/i18n/{language}.json".
func NewSource(urlTemplate string, opts ...Option) (*Source, error) {
	if !strings.Contains(urlTemplate, languagePlaceholder) {
		return nil, fmt.Errorf("http: url template %q has no %s placeholder", urlTemplate, languagePlaceholder)
	}
	s := &Source{
		urlTemplate: urlTemplate,
		client:      nethttp.DefaultClient,
		maxBodySize: defaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.client == nil {
		s.client = nethttp.DefaultClient
	}
	return s, nil
}

// bundleDocument is the wire form of a fetched bundle.
type bundleDocument struct {
	Data     json.RawMessage      `json:"data"`
	Metadata bundlecache.Metadata `json:"metadata"`
}

// Fetch retrieves the bundle for one language.
func (s *Source) Fetch(ctx context.Context, language string) (json.RawMessage, bundlecache.Metadata, error) {
	target := strings.ReplaceAll(s.urlTemplate, languagePlaceholder, url.PathEscape(language))

	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodGet, target, nil)
	if err != nil {
		return nil, bundlecache.Metadata{}, fmt.Errorf("http: build request for %q: %w", language, err)
	}
	for key, values := range s.headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, bundlecache.Metadata{}, fmt.Errorf("http: fetch %q: %w", language, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	switch resp.StatusCode {
	case nethttp.StatusOK:
		// ok
	case nethttp.StatusNotFound:
		return nil, bundlecache.Metadata{}, fmt.Errorf("%w: %q", ErrNotFound, language)
	default:
		return nil, bundlecache.Metadata{}, fmt.Errorf("http: fetch %q: unexpected status %s", language, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBodySize+1))
	if err != nil {
		return nil, bundlecache.Metadata{}, fmt.Errorf("http: read bundle %q: %w", language, err)
	}
	if int64(len(body)) > s.maxBodySize {
		return nil, bundlecache.Metadata{}, fmt.Errorf("http: bundle %q exceeds %d bytes", language, s.maxBodySize)
	}

	var doc bundleDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, bundlecache.Metadata{}, fmt.Errorf("http: parse bundle %q: %w", language, err)
	}
	if len(doc.Data) == 0 {
		return nil, bundlecache.Metadata{}, fmt.Errorf("http: bundle %q has no data", language)
	}
	return doc.Data, doc.Metadata, nil
}

// FetchFunc adapts the Source to bundlecache.Preload.
func (s *Source) FetchFunc() bundlecache.FetchFunc {
	return func(ctx context.Context, language string) (any, bundlecache.Metadata, error) {
		data, meta, err := s.Fetch(ctx, language)
		if err != nil {
			return nil, bundlecache.Metadata{}, err
		}
		return data, meta, nil
	}
}
