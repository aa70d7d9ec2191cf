package layout

import "math"

type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Contains reports whether the point lies inside r. Both horizontal edges
// are inclusive; the bottom edge is exclusive.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// WithInset shrinks r by v on every side, snapping the result to the
// half-pixel grid so one pixel strokes land on whole pixels.
func (r Rect) WithInset(v float64) Rect {
	return Rect{
		X:      math.Floor(r.X+v) + 0.5,
		Y:      math.Floor(r.Y+v) + 0.5,
		Width:  math.Floor(r.Width - v*2),
		Height: math.Floor(r.Height - v*2),
	}
}

// ExpandedBy grows r outward by the given edges.
func (r Rect) ExpandedBy(e EdgeSizes) Rect {
	return Rect{
		X:      r.X - e.Left,
		Y:      r.Y - e.Top,
		Width:  r.Width + e.Left + e.Right,
		Height: r.Height + e.Top + e.Bottom,
	}
}

// Translate moves r by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

type EdgeSizes struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// Dimensions is the box model of a laid out box. Content is in absolute
// coordinates; the edges surround it.
type Dimensions struct {
	Content Rect
	Padding EdgeSizes
	Border  EdgeSizes
	Margin  EdgeSizes
}

func (d Dimensions) PaddingBox() Rect { return d.Content.ExpandedBy(d.Padding) }
func (d Dimensions) BorderBox() Rect  { return d.PaddingBox().ExpandedBy(d.Border) }
func (d Dimensions) MarginBox() Rect  { return d.BorderBox().ExpandedBy(d.Margin) }
