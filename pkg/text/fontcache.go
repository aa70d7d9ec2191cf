package text

import (
	"fmt"
	"os"
	"strings"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// DefaultFamily is used when no requested family is installed.
const DefaultFamily = "sans-serif"

type variant struct {
	font   *truetype.Font
	weight int
	style  string
}

type faceKey struct {
	font  *truetype.Font
	scale float64
}

// FontCache holds the installed fonts by family and the faces created from
// them. LookupFont selects the font that Measure uses. A FontCache is not
// safe for concurrent use.
type FontCache struct {
	families map[string][]variant
	faces    map[faceKey]font.Face
	current  *truetype.Font
}

func NewFontCache() *FontCache {
	return &FontCache{
		families: make(map[string][]variant),
		faces:    make(map[faceKey]font.Face),
	}
}

// InstallFont registers f under family for the given weight and style.
// A later install with the same weight and style replaces the earlier one.
func (fc *FontCache) InstallFont(f *truetype.Font, family string, weight int, style string) {
	family = normalizeFamily(family)
	style = normalizeStyle(style)
	variants := fc.families[family]
	for i, v := range variants {
		if v.weight == weight && v.style == style {
			variants[i].font = f
			return
		}
	}
	fc.families[family] = append(variants, variant{font: f, weight: weight, style: style})
}

// InstallFontBytes parses TrueType data and installs it.
func (fc *FontCache) InstallFontBytes(data []byte, family string, weight int, style string) error {
	f, err := truetype.Parse(data)
	if err != nil {
		return fmt.Errorf("parsing font for %s: %w", family, err)
	}
	fc.InstallFont(f, family, weight, style)
	return nil
}

// InstallFontFile reads a TrueType file from disk and installs it.
func (fc *FontCache) InstallFontFile(path, family string, weight int, style string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading font file: %w", err)
	}
	return fc.InstallFontBytes(data, family, weight, style)
}

// InstallStandardFonts installs the Go fonts as sans-serif, serif and
// monospace.
func (fc *FontCache) InstallStandardFonts() error {
	standard := []struct {
		data     []byte
		families []string
		weight   int
		style    string
	}{
		{goregular.TTF, []string{"sans-serif", "serif"}, 400, "normal"},
		{gomedium.TTF, []string{"sans-serif", "serif"}, 500, "normal"},
		{gobold.TTF, []string{"sans-serif", "serif"}, 700, "normal"},
		{goitalic.TTF, []string{"sans-serif", "serif"}, 400, "italic"},
		{gobolditalic.TTF, []string{"sans-serif", "serif"}, 700, "italic"},
		{gomono.TTF, []string{"monospace"}, 400, "normal"},
		{gomonobold.TTF, []string{"monospace"}, 700, "normal"},
		{gomonoitalic.TTF, []string{"monospace"}, 400, "italic"},
	}
	for _, s := range standard {
		f, err := truetype.Parse(s.data)
		if err != nil {
			return fmt.Errorf("parsing bundled font: %w", err)
		}
		for _, family := range s.families {
			fc.InstallFont(f, family, s.weight, s.style)
		}
	}
	return nil
}

// HasFontFamily reports whether any font is installed under name.
func (fc *FontCache) HasFontFamily(name string) bool {
	_, ok := fc.families[normalizeFamily(name)]
	return ok
}

// Families returns the installed family names.
func (fc *FontCache) Families() []string {
	names := make([]string, 0, len(fc.families))
	for name := range fc.families {
		names = append(names, name)
	}
	return names
}

// LookupFont makes the closest installed match the current font for
// Measure. Unknown families fall back to DefaultFamily.
func (fc *FontCache) LookupFont(family string, weight int, style string) {
	fc.current = fc.match(family, weight, style)
}

// match picks, within the family, a variant with the requested style if
// there is one and then the nearest weight.
func (fc *FontCache) match(family string, weight int, style string) *truetype.Font {
	variants, ok := fc.families[normalizeFamily(family)]
	if !ok {
		variants = fc.families[DefaultFamily]
	}
	if len(variants) == 0 {
		for _, vs := range fc.families {
			variants = vs
			break
		}
	}
	if len(variants) == 0 {
		return nil
	}

	style = normalizeStyle(style)
	candidates := make([]variant, 0, len(variants))
	for _, v := range variants {
		if v.style == style {
			candidates = append(candidates, v)
		}
	}
	if len(candidates) == 0 {
		candidates = variants
	}

	best := candidates[0]
	for _, v := range candidates[1:] {
		if abs(v.weight-weight) < abs(best.weight-weight) {
			best = v
		}
	}
	return best.font
}

// Face returns a face for the matching font at a pixel size of scale.
// Faces are cached per font and scale.
func (fc *FontCache) Face(family string, weight int, style string, scale float64) font.Face {
	return fc.faceFor(fc.match(family, weight, style), scale)
}

func (fc *FontCache) faceFor(f *truetype.Font, scale float64) font.Face {
	if f == nil {
		return nil
	}
	key := faceKey{font: f, scale: scale}
	if face, ok := fc.faces[key]; ok {
		return face
	}
	face := truetype.NewFace(f, &truetype.Options{
		Size:    scale,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	fc.faces[key] = face
	return face
}

func normalizeFamily(family string) string {
	return strings.ToLower(strings.TrimSpace(family))
}

func normalizeStyle(style string) string {
	style = strings.ToLower(strings.TrimSpace(style))
	if style == "oblique" {
		return "italic"
	}
	if style == "" {
		return "normal"
	}
	return style
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
