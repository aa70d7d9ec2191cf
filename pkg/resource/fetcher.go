package resource

import (
	"fmt"
	"strings"

	stdnet "minibrowser/std/net"
)

// Fetcher retrieves resources by URI.
type Fetcher interface {
	Fetch(uri string) (body []byte, contentType string, err error)
}

// DefaultFetcher loads http(s) and file URLs, resolving relative URIs
// against a base URL.
type DefaultFetcher struct {
	baseURL string
}

// NewFetcher creates a DefaultFetcher with the given base URL. An empty
// base leaves relative URIs to be read as paths from the working directory.
func NewFetcher(baseURL string) *DefaultFetcher {
	return &DefaultFetcher{baseURL: baseURL}
}

func (f *DefaultFetcher) Fetch(uri string) ([]byte, string, error) {
	resolved := uri
	if f.baseURL != "" && !stdnet.IsNetworkURL(uri) && !stdnet.IsFileURL(uri) {
		resolved = stdnet.ResolveURL(f.baseURL, uri)
	}
	return stdnet.Load(resolved)
}

// FetchCSS fetches a stylesheet and returns its text. Content that is
// labelled as something other than text or CSS is rejected.
func FetchCSS(f Fetcher, uri string) (string, error) {
	body, contentType, err := f.Fetch(uri)
	if err != nil {
		return "", err
	}
	ct := strings.ToLower(contentType)
	if ct != "" && !strings.HasPrefix(ct, "text/") && !strings.Contains(ct, "css") {
		return "", fmt.Errorf("unexpected content type for CSS: %s", contentType)
	}
	return string(body), nil
}

// FetchFont fetches the bytes of a font file.
func FetchFont(f Fetcher, uri string) ([]byte, error) {
	body, _, err := f.Fetch(uri)
	if err != nil {
		return nil, err
	}
	return body, nil
}
