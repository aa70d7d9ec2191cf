package layout

import (
	"minibrowser/pkg/css"
	"minibrowser/pkg/logger"
	"minibrowser/pkg/style"
)

var (
	autoValue = css.Keyword("auto")
	zeroValue = css.PxLength(0)
)

func (b *LayoutBox) layout(containing *Dimensions, ctx *layoutContext) (RenderBox, error) {
	var (
		rb  RenderBox
		err error
	)
	switch b.Type {
	case BlockBox, TableBox, TableRowGroupBox:
		var blk *RenderBlockBox
		if blk, err = b.layoutBlock(containing, ctx); err == nil {
			rb = blk
		}
	case TableRowBox:
		var row *RenderBlockBox
		if row, err = b.layoutTableRow(containing, ctx); err == nil {
			rb = row
		}
	case AnonymousBlockBox, TableCellBox:
		var anon *RenderAnonymousBox
		if anon, err = b.layoutAnonymous(containing, ctx); err == nil {
			rb = anon
		}
	case InlineBox:
		rb = &RenderInlineBox{}
	case InlineBlockBox:
		rb = &RenderInlineBlockBox{}
	}
	return rb, err
}

// layoutBlock lays out a block in normal flow. Widths are resolved from
// the containing block downwards, heights from the children upwards.
func (b *LayoutBox) layoutBlock(containing *Dimensions, ctx *layoutContext) (*RenderBlockBox, error) {
	b.calculateBlockWidth(containing)
	b.calculateBlockPosition(containing)
	children, err := b.layoutBlockChildren(ctx)
	if err != nil {
		return nil, err
	}
	b.calculateBlockHeight()
	return b.renderBlock(children), nil
}

func (b *LayoutBox) renderBlock(children []RenderBox) *RenderBlockBox {
	d := b.Dimensions
	rb := &RenderBlockBox{
		Title:       b.Name(),
		Rect:        d.Content,
		Margin:      d.Margin,
		Padding:     d.Padding,
		BorderWidth: d.Border,
		Valign:      "baseline",
		Children:    children,
	}
	if c, ok := b.Style.Color("background-color"); ok {
		rb.BackgroundColor = &c
	}
	if c, ok := b.Style.Color("border-color"); ok {
		rb.BorderColor = &c
	}
	return rb
}

// calculateBlockWidth resolves width, horizontal margins, borders and
// padding so that together they fill the containing block exactly.
func (b *LayoutBox) calculateBlockWidth(containing *Dimensions) {
	st := b.Style
	cw := containing.Content.Width

	width := st.Lookup("width", "width", autoValue)
	if l, ok := width.(css.Length); ok && l.Unit == css.Per {
		width = css.PxLength(cw * l.Value / 100)
	}

	marginLeft := st.Lookup("margin-left", "margin", zeroValue)
	marginRight := st.Lookup("margin-right", "margin", zeroValue)
	borderLeft := st.Lookup("border-left-width", "border-width", zeroValue)
	borderRight := st.Lookup("border-right-width", "border-width", zeroValue)
	paddingLeft := st.Lookup("padding-left", "padding", zeroValue)
	paddingRight := st.Lookup("padding-right", "padding", zeroValue)

	total := 0.0
	for _, v := range []css.Value{marginLeft, marginRight, borderLeft, borderRight, paddingLeft, paddingRight, width} {
		total += b.lengthToPx(v)
	}

	// A fixed width that overflows leaves no room for auto margins.
	if !isAuto(width) && total > cw {
		if isAuto(marginLeft) {
			marginLeft = zeroValue
		}
		if isAuto(marginRight) {
			marginRight = zeroValue
		}
	}

	underflow := cw - total
	widthAuto, leftAuto, rightAuto := isAuto(width), isAuto(marginLeft), isAuto(marginRight)
	switch {
	case !widthAuto && !leftAuto && !rightAuto:
		// Over-constrained: the right margin absorbs the difference.
		marginRight = css.PxLength(b.lengthToPx(marginRight) + underflow)
	case !widthAuto && !leftAuto && rightAuto:
		marginRight = css.PxLength(underflow)
	case !widthAuto && leftAuto && !rightAuto:
		marginLeft = css.PxLength(underflow)
	case !widthAuto && leftAuto && rightAuto:
		marginLeft = css.PxLength(underflow / 2)
		marginRight = css.PxLength(underflow / 2)
	default:
		if leftAuto {
			marginLeft = zeroValue
		}
		if rightAuto {
			marginRight = zeroValue
		}
		if underflow >= 0 {
			width = css.PxLength(underflow)
		} else {
			width = zeroValue
			marginRight = css.PxLength(b.lengthToPx(marginRight) + underflow)
		}
	}

	d := &b.Dimensions
	d.Content.Width = b.lengthToPx(width)
	d.Padding.Left = b.lengthToPx(paddingLeft)
	d.Padding.Right = b.lengthToPx(paddingRight)
	d.Border.Left = b.lengthToPx(borderLeft)
	d.Border.Right = b.lengthToPx(borderRight)
	d.Margin.Left = b.lengthToPx(marginLeft)
	d.Margin.Right = b.lengthToPx(marginRight)
}

// calculateBlockPosition places the block below the content already laid
// out in its containing block.
func (b *LayoutBox) calculateBlockPosition(containing *Dimensions) {
	st := b.Style
	d := &b.Dimensions

	d.Margin.Top = b.lengthToPx(st.Lookup("margin-top", "margin", zeroValue))
	d.Margin.Bottom = b.lengthToPx(st.Lookup("margin-bottom", "margin", zeroValue))
	d.Border.Top = b.lengthToPx(st.Lookup("border-top-width", "border-width", zeroValue))
	d.Border.Bottom = b.lengthToPx(st.Lookup("border-bottom-width", "border-width", zeroValue))
	d.Padding.Top = b.lengthToPx(st.Lookup("padding-top", "padding", zeroValue))
	d.Padding.Bottom = b.lengthToPx(st.Lookup("padding-bottom", "padding", zeroValue))

	d.Content.X = containing.Content.X + d.Margin.Left + d.Border.Left + d.Padding.Left
	d.Content.Y = containing.Content.Y + containing.Content.Height + d.Margin.Top + d.Border.Top + d.Padding.Top
}

// layoutBlockChildren stacks the children vertically. Each child sees the
// height accumulated so far through its containing block.
func (b *LayoutBox) layoutBlockChildren(ctx *layoutContext) ([]RenderBox, error) {
	b.Dimensions.Content.Height = 0
	children := make([]RenderBox, 0, len(b.Children))
	for _, child := range b.Children {
		rb, err := child.layout(&b.Dimensions, ctx)
		if err != nil {
			return nil, err
		}
		children = append(children, rb)
		b.Dimensions.Content.Height += child.Dimensions.MarginBox().Height
	}
	return children, nil
}

// calculateBlockHeight applies an explicit height, if any.
func (b *LayoutBox) calculateBlockHeight() {
	if l, ok := b.Style.Lookup("height", "height", autoValue).(css.Length); ok {
		b.Dimensions.Content.Height = b.lengthToPx(l)
	}
}

// lengthToPx converts a declared length to pixels. em and rem are relative
// to the box's own font size. Percentages must be resolved by the caller.
func (b *LayoutBox) lengthToPx(v css.Value) float64 {
	l, ok := v.(css.Length)
	if !ok {
		return 0
	}
	switch l.Unit {
	case css.Px:
		return l.Value
	case css.Em, css.Rem:
		return l.Value * b.fontSize()
	case css.Per:
		logger.WarningLogger.Printf("percentage %s on <%s> where pixels were required, using 0", l, b.Name())
		return 0
	}
	return 0
}

func (b *LayoutBox) fontSize() float64 {
	if b.Style == nil {
		return style.DefaultFontSize
	}
	return b.Style.LookupLengthPx("font-size", style.DefaultFontSize)
}

func isAuto(v css.Value) bool {
	return css.IsKeyword(v, "auto")
}
