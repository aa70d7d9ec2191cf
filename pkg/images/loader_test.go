package images

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"minibrowser/pkg/html"
	"minibrowser/std/net"
)

func testPNG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	red := color.RGBA{255, 0, 0, 255}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, red)
		}
	}
	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}

// createTestPNGDataURI creates a small 2x2 red PNG as a data URI.
func createTestPNGDataURI() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(testPNG(2, 2))
}

func TestIsDataURI(t *testing.T) {
	if !IsDataURI("data:image/png;base64,abc") {
		t.Error("expected true for data URI")
	}
	if IsDataURI("/path/to/file.png") {
		t.Error("expected false for file path")
	}
	if IsDataURI("") {
		t.Error("expected false for empty string")
	}
}

func TestLoadImageFromDataURI(t *testing.T) {
	img, err := LoadImageFromDataURI(createTestPNGDataURI())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 2 || bounds.Dy() != 2 {
		t.Errorf("expected 2x2 image, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestLoadImageFromDataURI_Invalid(t *testing.T) {
	tests := []string{
		"not-a-data-uri",
		"data:image/png;base64", // no comma
		"data:image/png;base64,!!!invalid-base64!!!",
		"data:image/png;base64,aGVsbG8=", // valid base64 but not an image
		"data:text/plain,hello",
	}
	for _, uri := range tests {
		if _, err := LoadImageFromDataURI(uri); err == nil {
			t.Errorf("expected error for %q", uri)
		}
	}
}

func TestLoader_CachesByResolvedURL(t *testing.T) {
	calls := map[string]int{}
	loader := NewLoaderWithFetch(func(rawURL string) ([]byte, string, error) {
		calls[rawURL]++
		if rawURL == "https://example.com/img/pic.png" {
			return testPNG(3, 4), "image/png", nil
		}
		return nil, "", errors.New("not found")
	})
	doc := html.NewDocument()
	doc.BaseURL = "https://example.com/img/index.html"

	img, err := loader.Load(doc, "pic.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Width != 3 || img.Height != 4 {
		t.Errorf("expected 3x4, got %dx%d", img.Width, img.Height)
	}

	again, err := loader.Load(doc, "/img/pic.png")
	if err != nil {
		t.Fatalf("unexpected error on cached load: %v", err)
	}
	if again != img {
		t.Error("expected cached image to be the same pointer")
	}
	if calls["https://example.com/img/pic.png"] != 1 {
		t.Errorf("expected one fetch, got %d", calls["https://example.com/img/pic.png"])
	}

	if _, err := loader.Load(doc, "missing.png"); err == nil {
		t.Error("expected an error for a missing image")
	}
	if _, err := loader.Load(doc, "  "); err == nil {
		t.Error("expected an error for an empty src")
	}
}

func TestLoader_FileRelativeToDocument(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.png"), testPNG(5, 6), 0o644); err != nil {
		t.Fatal(err)
	}
	base, err := net.FileURL(filepath.Join(dir, "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	doc := html.NewDocument()
	doc.BaseURL = base

	img, err := NewLoader().Load(doc, "a.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Width != 5 || img.Height != 6 {
		t.Errorf("expected 5x6, got %dx%d", img.Width, img.Height)
	}
}

func TestLoader_DataURI(t *testing.T) {
	img, err := NewLoader().Load(nil, createTestPNGDataURI())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Width != 2 || img.Height != 2 {
		t.Errorf("expected 2x2, got %dx%d", img.Width, img.Height)
	}
}
