package text

import (
	"golang.org/x/image/font"
)

// Section is a run of text to measure with the current font at a pixel
// scale.
type Section struct {
	Text  string
	Scale float64
}

// Bounds is the measured box of a section, relative to the pen position on
// the baseline. MaxX is the advance width, so the widths of consecutive
// sections add up.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

func (b Bounds) Width() float64  { return b.MaxX - b.MinX }
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Measure measures sec with the font selected by the last LookupFont.
// It reports false when there is nothing to measure or no font installed.
func (fc *FontCache) Measure(sec Section) (Bounds, bool) {
	if sec.Text == "" {
		return Bounds{}, false
	}
	if fc.current == nil {
		fc.current = fc.match(DefaultFamily, 400, "normal")
	}
	face := fc.faceFor(fc.current, sec.Scale)
	if face == nil {
		return Bounds{}, false
	}

	advance := font.MeasureString(face, sec.Text)
	metrics := face.Metrics()
	return Bounds{
		MinX: 0,
		MinY: -fixedToFloat(metrics.Ascent),
		MaxX: fixedToFloat(advance),
		MaxY: fixedToFloat(metrics.Descent),
	}, true
}

// MeasureText measures the width and height of text in the given face,
// as the painter needs it.
func MeasureText(face font.Face, text string) (width, height float64) {
	if face == nil {
		return 0, 0
	}
	m := face.Metrics()
	return fixedToFloat(font.MeasureString(face, text)), fixedToFloat(m.Ascent + m.Descent)
}

func fixedToFloat[T ~int32](v T) float64 {
	return float64(v) / 64
}
