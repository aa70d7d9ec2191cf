package layout

// FindBoxContaining returns the text fragment under the point (x, y), or
// nil. The tree is searched depth first in paint order and the first hit
// wins. Other fragments are transparent.
func FindBoxContaining(root RenderBox, x, y float64) *RenderTextBox {
	switch b := root.(type) {
	case *RenderBlockBox:
		return findInBlock(b, x, y)
	case *RenderAnonymousBox:
		return findInLines(b.Children, x, y)
	}
	return nil
}

func findInBlock(b *RenderBlockBox, x, y float64) *RenderTextBox {
	for _, child := range b.Children {
		if hit := FindBoxContaining(child, x, y); hit != nil {
			return hit
		}
	}
	return nil
}

func findInLines(lines []*RenderLineBox, x, y float64) *RenderTextBox {
	for _, line := range lines {
		for _, in := range line.Children {
			switch c := in.(type) {
			case *RenderTextBox:
				if c.Rect.Contains(x, y) {
					return c
				}
			case *RenderBlockBox:
				if hit := findInBlock(c, x, y); hit != nil {
					return hit
				}
			}
		}
	}
	return nil
}
