package layout

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"minibrowser/pkg/images"
	"minibrowser/pkg/logger"
	"minibrowser/pkg/style"
)

const (
	defaultImageSize = 100.0
	// buttonWidth is the containing width a button is laid out in until
	// buttons are sized to their content.
	buttonWidth = 50.0
)

func (b *LayoutBox) layoutInlineBlock(lp *looper) error {
	switch tag := b.tagName(); tag {
	case "img":
		b.layoutImage(lp)
		return nil
	case "button":
		return b.layoutButton(lp)
	default:
		return fmt.Errorf("%w: <%s>", ErrUnsupportedInlineBlock, tag)
	}
}

// layoutImage places an <img> on the current line, or an error box of the
// same size when the image cannot be loaded.
func (b *LayoutBox) layoutImage(lp *looper) {
	node := b.Style.Node
	valign := b.Style.LookupString("vertical-align", "baseline")
	width, hasWidth := imageDimension(node.Attributes, "width")
	height, hasHeight := imageDimension(node.Attributes, "height")

	src, _ := node.GetAttribute("src")
	var in RenderInline
	loaded, err := lp.loadImage(src)
	if err != nil {
		logger.WarningLogger.Printf("image %q: %v", src, err)
		in = &RenderErrorBox{Rect: Rect{Width: width, Height: height}, Valign: valign}
	} else {
		if !hasWidth {
			width = float64(loaded.Width)
		}
		if !hasHeight {
			height = float64(loaded.Height)
		}
		in = &RenderImageBox{Rect: Rect{Width: width, Height: height}, Valign: valign, Image: loaded.Image}
	}

	if lp.currentEnd+width > lp.extents.Right() && len(lp.current.Children) > 0 {
		lp.breakLine()
	}
	r := in.frame()
	r.X = lp.currentStart
	r.Y = lp.current.Rect.Y
	lp.currentEnd += width
	lp.addBox(in)
}

func (lp *looper) loadImage(src string) (*images.LoadedImage, error) {
	if lp.ctx.images == nil {
		return nil, errors.New("no image loader")
	}
	if strings.TrimSpace(src) == "" {
		return nil, errors.New("missing src")
	}
	return lp.ctx.images.Load(lp.ctx.doc, src)
}

// imageDimension reads a width or height attribute in pixels. It reports
// whether the attribute was present and valid.
func imageDimension(attrs map[string]string, name string) (float64, bool) {
	raw, ok := attrs[name]
	if !ok {
		return defaultImageSize, false
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(raw), "px"), 64)
	if err != nil || v < 0 {
		logger.WarningLogger.Printf("invalid img %s %q, using %v", name, raw, defaultImageSize)
		return defaultImageSize, false
	}
	return v, true
}

// layoutButton lays the button out as a block of fixed width and places
// it on the current line. Its only child must be text.
func (b *LayoutBox) layoutButton(lp *looper) error {
	if len(b.Children) != 1 || !b.Children[0].isText() {
		return ErrButtonChildNotText
	}
	st := b.Style
	label := b.Children[0].Style.Node.Text
	w := lp.ctx.measure(label,
		st.LookupLengthPx("font-size", style.DefaultFontSize),
		defaultFamily,
		st.LookupFontWeight(400),
		st.LookupString("font-style", "normal"))

	containing := Dimensions{Content: Rect{Width: buttonWidth}}
	b.calculateBlockWidth(&containing)
	b.calculateBlockPosition(&containing)
	content := &LayoutBox{Type: AnonymousBlockBox, Style: b.Style, Children: b.Children}
	b.Dimensions.Content.Height = 0
	anon, err := content.layoutAnonymous(&b.Dimensions, lp.ctx)
	if err != nil {
		return err
	}
	b.Dimensions.Content.Height = content.Dimensions.MarginBox().Height
	b.calculateBlockHeight()

	block := b.renderBlock([]RenderBox{anon})
	block.Valign = st.LookupString("vertical-align", "baseline")

	m := b.Dimensions.Margin
	advance := max(w, b.Dimensions.BorderBox().Width+max(m.Left, 0)+max(m.Right, 0))
	if lp.currentEnd+advance > lp.extents.Right() && len(lp.current.Children) > 0 {
		lp.breakLine()
	}
	block.translate(lp.currentStart-block.Rect.X, lp.current.Rect.Y-block.Rect.Y)
	lp.currentEnd += advance
	lp.addBox(block)
	return nil
}
