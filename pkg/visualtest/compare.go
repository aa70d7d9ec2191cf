// Package visualtest renders pages to images and compares them pixel by
// pixel. It backs the reftests, where a test page and a reference page
// written differently must paint the same pixels.
package visualtest

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
)

type CompareResult struct {
	Match           bool
	DifferentPixels int
	TotalPixels     int
	MaxDifference   int // largest channel difference seen, 0-255
}

type CompareOptions struct {
	// Tolerance is the largest per channel difference (0-255) that still
	// counts as equal.
	Tolerance int

	// FuzzyRadius lets a pixel match any expected pixel within this many
	// pixels, for antialiasing that lands one pixel off.
	FuzzyRadius int

	// MaxDifferentPercent accepts the images when at most this share of
	// the pixels differ.
	MaxDifferentPercent float64

	// DiffImagePath, if set, receives an image of the differences when the
	// comparison fails: differing pixels in red over the actual image in
	// grey.
	DiffImagePath string
}

func DefaultOptions() CompareOptions {
	return CompareOptions{Tolerance: 2}
}

// CompareImages compares actual against expected. Images of different
// bounds are an error.
func CompareImages(actual, expected image.Image, opts CompareOptions) (*CompareResult, error) {
	bounds := actual.Bounds()
	if bounds != expected.Bounds() {
		return &CompareResult{}, fmt.Errorf("image bounds differ: actual=%v, expected=%v", bounds, expected.Bounds())
	}

	result := &CompareResult{Match: true, TotalPixels: bounds.Dx() * bounds.Dy()}
	var diffImg *image.RGBA
	if opts.DiffImagePath != "" {
		diffImg = image.NewRGBA(bounds)
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			a := rgba8(actual.At(x, y))
			diff := channelDiff(a, rgba8(expected.At(x, y)))
			result.MaxDifference = max(result.MaxDifference, diff)

			same := diff <= opts.Tolerance ||
				(opts.FuzzyRadius > 0 && fuzzyMatch(a, expected, x, y, opts.FuzzyRadius, opts.Tolerance))
			if !same {
				result.Match = false
				result.DifferentPixels++
			}
			if diffImg != nil {
				if same {
					diffImg.Set(x, y, color.RGBA{a.R, a.R, a.R, 255})
				} else {
					diffImg.Set(x, y, color.RGBA{255, 0, 0, 255})
				}
			}
		}
	}

	if !result.Match && opts.MaxDifferentPercent > 0 && result.TotalPixels > 0 {
		pct := float64(result.DifferentPixels) / float64(result.TotalPixels) * 100
		result.Match = pct <= opts.MaxDifferentPercent
	}

	if diffImg != nil && !result.Match {
		if err := SavePNG(diffImg, opts.DiffImagePath); err != nil {
			return result, fmt.Errorf("saving diff image: %w", err)
		}
	}
	return result, nil
}

// fuzzyMatch reports whether any expected pixel within radius of (x, y)
// is within tolerance of a.
func fuzzyMatch(a color.RGBA, expected image.Image, x, y, radius, tolerance int) bool {
	bounds := expected.Bounds()
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			p := image.Pt(x+dx, y+dy)
			if !p.In(bounds) {
				continue
			}
			if channelDiff(a, rgba8(expected.At(p.X, p.Y))) <= tolerance {
				return true
			}
		}
	}
	return false
}

func rgba8(c color.Color) color.RGBA {
	r, g, b, a := c.RGBA()
	return color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}

func channelDiff(a, b color.RGBA) int {
	return max(absInt(int(a.R)-int(b.R)), absInt(int(a.G)-int(b.G)),
		absInt(int(a.B)-int(b.B)), absInt(int(a.A)-int(b.A)))
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func SavePNG(img image.Image, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return png.Encode(file, img)
}
