package layout

import (
	"fmt"

	"minibrowser/pkg/html"
	"minibrowser/pkg/style"
)

type BoxType int

const (
	BlockBox BoxType = iota
	InlineBox
	InlineBlockBox
	AnonymousBlockBox
	TableBox
	TableRowGroupBox
	TableRowBox
	TableCellBox
)

func (t BoxType) String() string {
	switch t {
	case BlockBox:
		return "block"
	case InlineBox:
		return "inline"
	case InlineBlockBox:
		return "inline-block"
	case AnonymousBlockBox:
		return "anonymous"
	case TableBox:
		return "table"
	case TableRowGroupBox:
		return "table-row-group"
	case TableRowBox:
		return "table-row"
	case TableCellBox:
		return "table-cell"
	}
	return fmt.Sprintf("BoxType(%d)", int(t))
}

// LayoutBox is a node of the layout tree. Style points into the styled
// tree; an anonymous block shares the style of the block that owns it.
type LayoutBox struct {
	Dimensions Dimensions
	Type       BoxType
	Style      *style.StyledNode
	Children   []*LayoutBox
}

func newLayoutBox(t BoxType, sn *style.StyledNode) *LayoutBox {
	return &LayoutBox{Type: t, Style: sn}
}

// BuildLayoutTree generates the box tree for a styled tree. The root must
// not be display: none.
func BuildLayoutTree(root *style.StyledNode) (*LayoutBox, error) {
	t, ok := boxTypeFor(root.Display())
	if !ok {
		return nil, ErrRootDisplayNone
	}
	return buildBox(root, t), nil
}

func buildBox(sn *style.StyledNode, t BoxType) *LayoutBox {
	box := newLayoutBox(t, sn)
	for _, child := range sn.Children {
		ct, ok := boxTypeFor(child.Display())
		if !ok {
			continue
		}
		childBox := buildBox(child, ct)
		switch ct {
		case InlineBox, InlineBlockBox:
			container := box.inlineContainer()
			container.Children = append(container.Children, childBox)
		default:
			box.Children = append(box.Children, childBox)
		}
	}
	return box
}

func boxTypeFor(d style.Display) (BoxType, bool) {
	switch d {
	case style.Block:
		return BlockBox, true
	case style.Inline:
		return InlineBox, true
	case style.InlineBlock:
		return InlineBlockBox, true
	case style.Table:
		return TableBox, true
	case style.TableRowGroup:
		return TableRowGroupBox, true
	case style.TableRow:
		return TableRowBox, true
	case style.TableCell:
		return TableCellBox, true
	}
	return 0, false
}

// inlineContainer returns the box that should receive an inline child.
// Inline-level boxes, anonymous blocks and table cells take inline
// children directly. Block-level boxes reuse a trailing anonymous block or
// open a new one.
func (b *LayoutBox) inlineContainer() *LayoutBox {
	switch b.Type {
	case InlineBox, InlineBlockBox, AnonymousBlockBox, TableCellBox:
		return b
	}
	if n := len(b.Children); n > 0 && b.Children[n-1].Type == AnonymousBlockBox {
		return b.Children[n-1]
	}
	anon := newLayoutBox(AnonymousBlockBox, b.Style)
	b.Children = append(b.Children, anon)
	return anon
}

// Name is a short label for debugging and render tree titles.
func (b *LayoutBox) Name() string {
	if b.Type == AnonymousBlockBox {
		return "anonymous"
	}
	if b.Style != nil && b.Style.Node != nil {
		switch b.Style.Node.Type {
		case html.ElementNode:
			return b.Style.Node.TagName
		case html.TextNode:
			return "#text"
		}
	}
	return "non-element"
}

func (b *LayoutBox) isText() bool {
	return b.Style != nil && b.Style.Node != nil && b.Style.Node.Type == html.TextNode
}

func (b *LayoutBox) tagName() string {
	if b.Style == nil || b.Style.Node == nil || b.Style.Node.Type != html.ElementNode {
		return ""
	}
	return b.Style.Node.TagName
}
