package layout

import "minibrowser/pkg/logger"

// rowHeight is the height given to every table row until rows are sized
// from their cells.
const rowHeight = 50.0

// layoutTableRow positions the row as a block and splits its width evenly
// between its cells. Each cell is an inline formatting context.
func (b *LayoutBox) layoutTableRow(containing *Dimensions, ctx *layoutContext) (*RenderBlockBox, error) {
	b.calculateBlockWidth(containing)
	b.calculateBlockPosition(containing)
	b.Dimensions.Content.Height = rowHeight

	var cells []*LayoutBox
	for _, child := range b.Children {
		if child.Type != TableCellBox {
			logger.WarningLogger.Printf("table row cannot hold a %s box <%s>, skipping it", child.Type, child.Name())
			continue
		}
		cells = append(cells, child)
	}

	children := make([]RenderBox, 0, len(cells))
	if len(cells) > 0 {
		row := b.Dimensions.Content
		cellWidth := row.Width / float64(len(cells))
		for i, cell := range cells {
			cb := Dimensions{
				Content: Rect{
					X:     row.X + cellWidth*float64(i),
					Y:     row.Y,
					Width: cellWidth,
				},
			}
			rb, err := cell.layout(&cb, ctx)
			if err != nil {
				return nil, err
			}
			children = append(children, rb)
		}
	}
	return b.renderBlock(children), nil
}
