package images

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"minibrowser/pkg/html"
	"minibrowser/std/net"
)

// LoadedImage is a decoded image with its intrinsic size.
type LoadedImage struct {
	Width  int
	Height int
	Image  image.Image
}

// FetchFunc retrieves the bytes behind a resolved URL.
type FetchFunc func(rawURL string) (body []byte, contentType string, err error)

// Loader resolves, fetches, decodes and caches images. It is safe for
// concurrent use.
type Loader struct {
	fetch FetchFunc
	cache map[string]*LoadedImage
	mu    sync.RWMutex
}

// NewLoader returns a loader that reads file and http(s) URLs.
func NewLoader() *Loader {
	return NewLoaderWithFetch(net.Load)
}

func NewLoaderWithFetch(fetch FetchFunc) *Loader {
	return &Loader{
		fetch: fetch,
		cache: make(map[string]*LoadedImage),
	}
}

// Load loads the image referenced by src, resolved against the document's
// base URL.
func (l *Loader) Load(doc *html.Document, src string) (*LoadedImage, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, errors.New("empty image source")
	}

	key := src
	if !IsDataURI(src) && doc != nil && doc.BaseURL != "" {
		key = net.ResolveURL(doc.BaseURL, src)
	}

	// Check cache first
	l.mu.RLock()
	if img, ok := l.cache[key]; ok {
		l.mu.RUnlock()
		return img, nil
	}
	l.mu.RUnlock()

	var img image.Image
	var err error
	if IsDataURI(key) {
		img, err = LoadImageFromDataURI(key)
	} else {
		img, err = l.loadURL(key)
	}
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	loaded := &LoadedImage{Width: bounds.Dx(), Height: bounds.Dy(), Image: img}

	l.mu.Lock()
	l.cache[key] = loaded
	l.mu.Unlock()

	return loaded, nil
}

func (l *Loader) loadURL(rawURL string) (image.Image, error) {
	data, _, err := l.fetch(rawURL)
	if err != nil {
		return nil, fmt.Errorf("loading image %s: %w", rawURL, err)
	}
	img, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding image %s: %w", rawURL, err)
	}
	return img, nil
}

// Decode decodes png, jpeg, gif, bmp or webp data.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}

// IsDataURI reports whether s is a data: URI.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// LoadImageFromDataURI decodes an image embedded in a data URI, either
// base64 or percent encoded.
func LoadImageFromDataURI(uri string) (image.Image, error) {
	if !IsDataURI(uri) {
		return nil, fmt.Errorf("not a data URI")
	}
	comma := strings.IndexByte(uri, ',')
	if comma == -1 {
		return nil, fmt.Errorf("malformed data URI: missing comma")
	}
	meta, payload := uri[len("data:"):comma], uri[comma+1:]

	var data []byte
	if strings.HasSuffix(meta, ";base64") {
		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("decoding base64 data URI: %w", err)
		}
		data = decoded
	} else {
		unescaped, err := url.PathUnescape(payload)
		if err != nil {
			return nil, fmt.Errorf("decoding data URI: %w", err)
		}
		data = []byte(unescaped)
	}

	img, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding data URI image: %w", err)
	}
	return img, nil
}
