package layout

import (
	"strings"

	"minibrowser/pkg/css"
	"minibrowser/pkg/html"
	"minibrowser/pkg/logger"
	"minibrowser/pkg/style"
)

// baselineOffset is the distance between the bottom of a line and the
// baseline fragments are aligned on.
const baselineOffset = 10.0

// looper is the cursor of an inline formatting context. It walks the
// inline descendants of one anonymous block or table cell, filling lines
// from left to right and wrapping when a fragment no longer fits.
type looper struct {
	ctx *layoutContext

	// style is the nearest element being laid out; text reads its font
	// and colour from it.
	style *style.StyledNode
	// link is the href of the nearest enclosing <a>.
	link *string

	extents       Rect
	current       *RenderLineBox
	currentStart  float64
	currentEnd    float64
	currentBottom float64
	lines         []*RenderLineBox
}

func newLooper(containing *Dimensions, sn *style.StyledNode, ctx *layoutContext) *looper {
	top := containing.Content.Y + containing.Content.Height
	lp := &looper{
		ctx:   ctx,
		style: sn,
		extents: Rect{
			X:     containing.Content.X,
			Y:     top,
			Width: containing.Content.Width,
		},
		currentStart:  containing.Content.X,
		currentEnd:    containing.Content.X,
		currentBottom: top,
	}
	lp.current = lp.newLine()
	return lp
}

func (lp *looper) newLine() *RenderLineBox {
	return &RenderLineBox{
		Rect: Rect{X: lp.extents.X, Y: lp.currentBottom, Width: lp.extents.Width},
	}
}

// layoutAnonymous runs an inline formatting context over the children of
// an anonymous block or a table cell.
func (b *LayoutBox) layoutAnonymous(containing *Dimensions, ctx *layoutContext) (*RenderAnonymousBox, error) {
	lp := newLooper(containing, b.Style, ctx)
	if n := b.Style.Node; n != nil && n.IsElement("a") {
		lp.enterLink(n.Attributes)
	}
	for _, child := range b.Children {
		if err := child.layoutInlineChild(lp); err != nil {
			return nil, err
		}
	}
	lp.finish()

	b.Dimensions.Content = Rect{
		X:      lp.extents.X,
		Y:      lp.extents.Y,
		Width:  lp.extents.Width,
		Height: lp.currentBottom - lp.extents.Y,
	}
	return &RenderAnonymousBox{Rect: b.Dimensions.Content, Children: lp.lines}, nil
}

func (b *LayoutBox) layoutInlineChild(lp *looper) error {
	switch b.Type {
	case InlineBox:
		return b.layoutInline(lp)
	case InlineBlockBox:
		return b.layoutInlineBlock(lp)
	}
	logger.WarningLogger.Printf("skipping %s box <%s> inside an inline formatting context", b.Type, b.Name())
	return nil
}

// layoutInline lays out a text run, or the children of an inline element
// with that element as the active style.
func (b *LayoutBox) layoutInline(lp *looper) error {
	if b.isText() {
		lp.layoutText(b.Style.Node.Text)
		return nil
	}
	if b.Style.Node == nil || b.Style.Node.Type != html.ElementNode {
		return nil
	}

	savedStyle, savedLink := lp.style, lp.link
	lp.style = b.Style
	if b.Style.Node.IsElement("a") {
		lp.enterLink(b.Style.Node.Attributes)
	}
	defer func() { lp.style, lp.link = savedStyle, savedLink }()

	for _, child := range b.Children {
		if err := child.layoutInlineChild(lp); err != nil {
			return err
		}
	}
	return nil
}

func (lp *looper) enterLink(attrs map[string]string) {
	if href, ok := attrs["href"]; ok {
		lp.link = &href
	} else {
		lp.link = nil
	}
}

// layoutText splits text into words and packs them into runs. A run is
// emitted as a text box whenever a word wraps, and once at the end.
func (lp *looper) layoutText(txt string) {
	st := lp.style
	family := lp.fontFamily()
	weight := st.LookupFontWeight(400)
	size := st.LookupLengthPx("font-size", style.DefaultFontSize)
	fontStyle := st.LookupString("font-style", "normal")
	valign := st.LookupString("vertical-align", "baseline")
	lineHeight := size * 2
	color := st.LookupColor("color", css.Black)

	emit := func(run string) {
		if run == "" {
			return
		}
		c := color
		lp.addBox(&RenderTextBox{
			Rect: Rect{
				X:      lp.currentStart,
				Y:      lp.currentBottom,
				Width:  lp.currentEnd - lp.currentStart,
				Height: lineHeight,
			},
			Text:       run,
			Color:      &c,
			FontSize:   size,
			FontFamily: family,
			FontWeight: weight,
			FontStyle:  fontStyle,
			Valign:     valign,
			Link:       lp.link,
		})
	}

	var run strings.Builder
	for _, word := range strings.Fields(txt) {
		word = " " + word
		w := lp.ctx.measure(word, size, family, weight, fontStyle)
		if lp.currentEnd+w > lp.extents.Right() && (run.Len() > 0 || len(lp.current.Children) > 0) {
			emit(run.String())
			run.Reset()
			lp.breakLine()
		}
		run.WriteString(word)
		lp.currentEnd += w
	}
	emit(run.String())
}

// fontFamily picks the first family of the font-family stack that the
// font cache knows.
func (lp *looper) fontFamily() string {
	v := lp.style.Lookup("font-family", "font-family", css.Keyword(defaultFamily))
	var stack []css.Value
	switch fv := v.(type) {
	case css.ArrayValue:
		stack = fv
	default:
		stack = []css.Value{fv}
	}
	for _, entry := range stack {
		var name string
		switch e := entry.(type) {
		case css.StringLiteral:
			name = string(e)
		case css.Keyword:
			name = string(e)
		default:
			continue
		}
		if lp.ctx.fonts == nil || lp.ctx.fonts.HasFontFamily(name) {
			return name
		}
	}
	logger.WarningLogger.Printf("no installed font in stack %s, using %s", v, defaultFamily)
	return defaultFamily
}

const defaultFamily = "sans-serif"

// breakLine closes the current line below the content placed so far and
// opens an empty one.
func (lp *looper) breakLine() {
	lp.currentBottom += lp.current.Rect.Height
	lp.extents.Height += lp.current.Rect.Height
	lp.alignCurrentLine()
	lp.startNewLine()
}

func (lp *looper) startNewLine() {
	lp.lines = append(lp.lines, lp.current)
	lp.current = lp.newLine()
	lp.currentStart = lp.extents.X
	lp.currentEnd = lp.extents.X
}

// addBox appends a fragment that ends at currentEnd to the current line.
func (lp *looper) addBox(in RenderInline) {
	if h := in.frame().Height; h > lp.current.Rect.Height {
		lp.current.Rect.Height = h
	}
	lp.current.Children = append(lp.current.Children, in)
	lp.currentStart = lp.currentEnd
}

// finish closes the last line.
func (lp *looper) finish() {
	lp.alignCurrentLine()
	lp.currentBottom += lp.current.Rect.Height
	lp.extents.Height += lp.current.Rect.Height
	lp.lines = append(lp.lines, lp.current)
	lp.current = nil
}

// alignCurrentLine positions every fragment of the current line vertically
// according to its vertical-align. Fragments never leave the line box.
func (lp *looper) alignCurrentLine() {
	line := lp.current
	top, height := line.Rect.Y, line.Rect.Height
	line.Baseline = top + max(height-baselineOffset, 0)

	for _, in := range line.Children {
		r := in.frame()
		y := r.Y
		switch in.verticalAlign() {
		case "top":
			y = top
		case "middle":
			y = top + (height-r.Height)/2
		case "bottom", "sub":
			y = top + height - r.Height
		case "baseline":
			y = top + height - r.Height - baselineOffset
		case "super":
			y = top + height - r.Height - baselineOffset*2
		default:
			logger.WarningLogger.Printf("unknown vertical-align %q", in.verticalAlign())
		}
		y = min(max(y, top), top+height-r.Height)

		if blk, ok := in.(*RenderBlockBox); ok {
			blk.translate(0, y-r.Y)
			continue
		}
		r.Y = y
	}
}
