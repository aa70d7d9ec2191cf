package layout

import "errors"

var (
	// ErrRootDisplayNone is returned when the root of the styled tree
	// generates no box.
	ErrRootDisplayNone = errors.New("layout: root node has display: none")

	// ErrUnsupportedInlineBlock is returned for inline-block elements other
	// than img and button.
	ErrUnsupportedInlineBlock = errors.New("layout: unsupported inline-block element")

	// ErrButtonChildNotText is returned when a button's only child is not a
	// text node.
	ErrButtonChildNotText = errors.New("layout: button content must be a single text node")
)
