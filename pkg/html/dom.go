package html

import (
	"strings"
)

type Node struct {
	Type       NodeType
	TagName    string
	Attributes map[string]string
	Text       string // Text, comment or doctype content
	Children   []*Node
	Parent     *Node
}

type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
	CommentNode
	MetaNode // <!DOCTYPE ...> and other markup declarations
)

func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case CommentNode:
		return "comment"
	case MetaNode:
		return "meta"
	}
	return "unknown"
}

type Document struct {
	Root            *Node
	BaseURL         string   // Used to resolve relative stylesheet, image and link URLs
	Title           string   // Text of the <title> element, if any
	Stylesheets     []string // CSS from <style> tags
	StylesheetLinks []string // href of <link rel="stylesheet"> tags, unresolved
	Scripts         []string // JavaScript from <script> tags
}

func NewDocument() *Document {
	return &Document{
		Root: &Node{
			Type:     ElementNode,
			TagName:  "document",
			Children: make([]*Node, 0),
		},
		Stylesheets: make([]string, 0),
		Scripts:     make([]string, 0),
	}
}

// RootElement returns the first element written at the top level of the
// source, which is where styling and layout start. Returns nil for a
// document without elements.
func (d *Document) RootElement() *Node {
	for _, child := range d.Root.Children {
		if child.Type == ElementNode {
			return child
		}
	}
	return nil
}

func (n *Node) GetAttribute(name string) (string, bool) {
	if n.Attributes == nil {
		return "", false
	}
	val, ok := n.Attributes[name]
	return val, ok
}

func (n *Node) SetAttribute(name, value string) {
	if n.Attributes == nil {
		n.Attributes = make(map[string]string)
	}
	n.Attributes[name] = value
}

// IsElement reports whether n is an element with the given tag name.
func (n *Node) IsElement(tag string) bool {
	return n.Type == ElementNode && n.TagName == tag
}

// AddChild adds a child node and sets up the parent relationship
func (n *Node) AddChild(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// AppendText creates a text node and adds it as a child. Adjacent text is
// merged into the previous text node.
func (n *Node) AppendText(text string) {
	if text == "" {
		return
	}
	if last := len(n.Children) - 1; last >= 0 && n.Children[last].Type == TextNode {
		n.Children[last].Text += text
		return
	}
	n.AddChild(&Node{Type: TextNode, Text: text})
}

// RemoveChild removes the given child from this node's children list,
// clears its parent pointer, and returns the removed child.
// Returns nil if child is not found.
func (n *Node) RemoveChild(child *Node) *Node {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.Parent = nil
			return child
		}
	}
	return nil
}

// TextContent returns the concatenated text of all descendant text nodes.
func (n *Node) TextContent() string {
	if n.Type == TextNode {
		return n.Text
	}
	var sb strings.Builder
	for _, child := range n.Children {
		if child.Type == ElementNode || child.Type == TextNode {
			sb.WriteString(child.TextContent())
		}
	}
	return sb.String()
}

// SetTextContent replaces all children with a single text node.
func (n *Node) SetTextContent(text string) {
	for _, child := range n.Children {
		child.Parent = nil
	}
	n.Children = make([]*Node, 0, 1)
	n.AppendText(text)
}

// StripEmptyNodes removes text nodes that contain only whitespace, so the
// indentation between tags does not turn into inline content.
func StripEmptyNodes(doc *Document) {
	stripEmpty(doc.Root)
}

func stripEmpty(n *Node) {
	kept := n.Children[:0]
	for _, child := range n.Children {
		if child.Type == TextNode && strings.TrimSpace(child.Text) == "" {
			child.Parent = nil
			continue
		}
		stripEmpty(child)
		kept = append(kept, child)
	}
	n.Children = kept
}
