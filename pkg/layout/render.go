package layout

import (
	"image"

	"minibrowser/pkg/css"
)

// RenderBox is a top level entry of the render tree: a block, an anonymous
// inline formatting context, or a stub for inline content that escaped one.
type RenderBox interface {
	renderBox()
}

// RenderInline is a fragment placed on a line.
type RenderInline interface {
	frame() *Rect
	verticalAlign() string
}

type RenderBlockBox struct {
	Title           string
	Rect            Rect
	Margin          EdgeSizes
	Padding         EdgeSizes
	BorderWidth     EdgeSizes
	BackgroundColor *css.Color
	BorderColor     *css.Color
	Valign          string
	Children        []RenderBox
}

// ContentAreaAsRect returns the area a background covers: the content
// rect grown by padding and border widths.
func (b *RenderBlockBox) ContentAreaAsRect() Rect {
	return b.PaddingBox().ExpandedBy(b.BorderWidth)
}

func (b *RenderBlockBox) PaddingBox() Rect {
	return b.Rect.ExpandedBy(b.Padding)
}

// BorderBox returns the outer edge of the border.
func (b *RenderBlockBox) BorderBox() Rect {
	return b.ContentAreaAsRect()
}

// translate moves the block and everything inside it.
func (b *RenderBlockBox) translate(dx, dy float64) {
	b.Rect = b.Rect.Translate(dx, dy)
	for _, child := range b.Children {
		switch c := child.(type) {
		case *RenderBlockBox:
			c.translate(dx, dy)
		case *RenderAnonymousBox:
			c.translate(dx, dy)
		}
	}
}

// RenderAnonymousBox holds the lines of an inline formatting context.
type RenderAnonymousBox struct {
	Rect     Rect
	Children []*RenderLineBox
}

func (b *RenderAnonymousBox) translate(dx, dy float64) {
	b.Rect = b.Rect.Translate(dx, dy)
	for _, line := range b.Children {
		line.Rect = line.Rect.Translate(dx, dy)
		for _, in := range line.Children {
			if blk, ok := in.(*RenderBlockBox); ok {
				blk.translate(dx, dy)
				continue
			}
			r := in.frame()
			*r = r.Translate(dx, dy)
		}
	}
}

// RenderInlineBox and RenderInlineBlockBox are emitted for inline-level
// boxes laid out outside an inline formatting context. They have no
// geometry.
type RenderInlineBox struct{}

type RenderInlineBlockBox struct{}

type RenderLineBox struct {
	Rect     Rect
	Baseline float64
	Children []RenderInline
}

type RenderTextBox struct {
	Rect       Rect
	Text       string
	Color      *css.Color
	FontSize   float64
	FontFamily string
	FontWeight int
	FontStyle  string
	Valign     string
	// Link is the href of the enclosing <a>, or nil outside of links.
	Link *string
}

type RenderImageBox struct {
	Rect   Rect
	Valign string
	Image  image.Image
}

// RenderErrorBox stands in for an image that could not be loaded.
type RenderErrorBox struct {
	Rect   Rect
	Valign string
}

func (*RenderBlockBox) renderBox()       {}
func (*RenderAnonymousBox) renderBox()   {}
func (*RenderInlineBox) renderBox()      {}
func (*RenderInlineBlockBox) renderBox() {}

func (b *RenderBlockBox) frame() *Rect { return &b.Rect }
func (b *RenderTextBox) frame() *Rect  { return &b.Rect }
func (b *RenderImageBox) frame() *Rect { return &b.Rect }
func (b *RenderErrorBox) frame() *Rect { return &b.Rect }

func (b *RenderBlockBox) verticalAlign() string { return b.Valign }
func (b *RenderTextBox) verticalAlign() string  { return b.Valign }
func (b *RenderImageBox) verticalAlign() string { return b.Valign }
func (b *RenderErrorBox) verticalAlign() string { return b.Valign }
