package style

import "strings"

type Display int

const (
	Inline Display = iota
	Block
	InlineBlock
	Table
	TableRowGroup
	TableRow
	TableCell
	None
)

func (d Display) String() string {
	switch d {
	case Inline:
		return "inline"
	case Block:
		return "block"
	case InlineBlock:
		return "inline-block"
	case Table:
		return "table"
	case TableRowGroup:
		return "table-row-group"
	case TableRow:
		return "table-row"
	case TableCell:
		return "table-cell"
	case None:
		return "none"
	}
	return "unknown"
}

// Display returns the display of the node. Elements without a declaration
// are inline.
func (s *StyledNode) Display() Display {
	switch strings.ToLower(s.LookupString("display", "inline")) {
	case "block", "list-item":
		return Block
	case "inline-block":
		return InlineBlock
	case "table":
		return Table
	case "table-row-group", "table-header-group", "table-footer-group":
		return TableRowGroup
	case "table-row":
		return TableRow
	case "table-cell":
		return TableCell
	case "none":
		return None
	}
	return Inline
}
