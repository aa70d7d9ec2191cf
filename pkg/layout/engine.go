package layout

import (
	"minibrowser/pkg/html"
	"minibrowser/pkg/images"
	"minibrowser/pkg/style"
	"minibrowser/pkg/text"
)

// FontCache selects fonts and measures text with the selected font.
// *text.FontCache implements it.
type FontCache interface {
	LookupFont(family string, weight int, style string)
	HasFontFamily(name string) bool
	Measure(sec text.Section) (text.Bounds, bool)
}

// ImageLoader loads the image an <img> src refers to. *images.Loader
// implements it.
type ImageLoader interface {
	Load(doc *html.Document, src string) (*images.LoadedImage, error)
}

type LayoutEngine struct {
	fonts  FontCache
	images ImageLoader
}

func NewLayoutEngine(fonts FontCache) *LayoutEngine {
	return &LayoutEngine{fonts: fonts}
}

// SetImageLoader sets the loader used for <img> elements. Without one
// every image becomes an error box.
func (le *LayoutEngine) SetImageLoader(loader ImageLoader) {
	le.images = loader
}

// Layout builds the layout tree for root and lays it out inside
// containing. Layout either returns a complete render tree or an error.
func (le *LayoutEngine) Layout(root *style.StyledNode, doc *html.Document, containing Dimensions) (RenderBox, error) {
	box, err := BuildLayoutTree(root)
	if err != nil {
		return nil, err
	}
	return le.LayoutTree(box, doc, &containing)
}

// LayoutTree lays out an already generated layout tree. The dimensions of
// every box are filled in as a side effect.
func (le *LayoutEngine) LayoutTree(box *LayoutBox, doc *html.Document, containing *Dimensions) (RenderBox, error) {
	ctx := &layoutContext{fonts: le.fonts, images: le.images, doc: doc}
	return box.layout(containing, ctx)
}

// layoutContext carries the collaborators of one layout pass.
type layoutContext struct {
	fonts  FontCache
	images ImageLoader
	doc    *html.Document
}

// measure returns the advance width of s in the given font at font-size
// size. Glyphs are measured at twice the font size.
func (ctx *layoutContext) measure(s string, size float64, family string, weight int, fontStyle string) float64 {
	if ctx.fonts == nil {
		return 0
	}
	ctx.fonts.LookupFont(family, weight, fontStyle)
	b, ok := ctx.fonts.Measure(text.Section{Text: s, Scale: size * 2})
	if !ok {
		return 0
	}
	return b.MaxX
}
