package html

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestParser_SingleElement(t *testing.T) {
	doc, err := Parse("<div></div>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Root.Children) != 1 {
		t.Errorf("expected 1 child, got %d", len(doc.Root.Children))
	}
	if doc.Root.Children[0].TagName != "div" {
		t.Errorf("expected tag 'div', got '%s'", doc.Root.Children[0].TagName)
	}
}

func TestParser_MultipleElements(t *testing.T) {
	doc, err := Parse("<div></div><p></p>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Root.Children) != 2 {
		t.Errorf("expected 2 children, got %d", len(doc.Root.Children))
	}
}

func TestParser_WithAttributes(t *testing.T) {
	doc, err := Parse(`<div style="color: red"></div>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	style, ok := doc.Root.Children[0].GetAttribute("style")
	if !ok || style != "color: red" {
		t.Error("expected style attribute 'color: red'")
	}
}

func TestParser_NoImpliedElements(t *testing.T) {
	doc, err := Parse(`<body>text</body>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	root := doc.RootElement()
	if root == nil || root.TagName != "body" {
		t.Fatalf("expected body to be the root element, got %+v", root)
	}

	doc, err = Parse(`<table><tr><td>1</td></tr></table>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	table := doc.RootElement()
	if table.Children[0].TagName != "tr" {
		t.Errorf("expected tr directly under table, got %s", table.Children[0].TagName)
	}
}

type shape struct {
	Tag      string
	Text     string
	Children []shape
}

func shapeOf(n *Node) shape {
	s := shape{Tag: n.TagName, Text: n.Text}
	for _, c := range n.Children {
		s.Children = append(s.Children, shapeOf(c))
	}
	return s
}

func TestParser_TreeShape(t *testing.T) {
	doc, err := Parse(`<div><p>Hello <b>big</b> world</p><img src="a.png"><p>Two</div>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := shape{Tag: "div", Children: []shape{
		{Tag: "p", Children: []shape{
			{Text: "Hello "},
			{Tag: "b", Children: []shape{{Text: "big"}}},
			{Text: " world"},
		}},
		{Tag: "img"},
		{Tag: "p", Children: []shape{{Text: "Two"}}},
	}}
	if diff := cmp.Diff(want, shapeOf(doc.RootElement()), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestParser_ParentReferences(t *testing.T) {
	doc, err := Parse(`<div><p>Text</p></div>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	div := doc.Root.Children[0]
	p := div.Children[0]
	if p.Parent != div {
		t.Error("expected p's parent to be div")
	}
	if p.Children[0].Parent != p {
		t.Error("expected text's parent to be p")
	}
}

func TestParser_EntitiesAreExpanded(t *testing.T) {
	doc, err := Parse(`<p>a &amp; b &lt;c&gt;</p>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := doc.RootElement().TextContent(); got != "a & b <c>" {
		t.Errorf("expected expanded entities, got %q", got)
	}
}

func TestParser_StyleScriptAndLinks(t *testing.T) {
	doc, err := Parse(`<html><head>
		<title> Page </title>
		<style>p { color: red; }</style>
		<link rel="stylesheet" href="site.css">
		<script>console.log("<b>")</script>
	</head><body><p>x</p></body></html>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Stylesheets) != 1 || !strings.Contains(doc.Stylesheets[0], "color: red") {
		t.Errorf("unexpected stylesheets %q", doc.Stylesheets)
	}
	if len(doc.StylesheetLinks) != 1 || doc.StylesheetLinks[0] != "site.css" {
		t.Errorf("unexpected stylesheet links %q", doc.StylesheetLinks)
	}
	if len(doc.Scripts) != 1 || doc.Scripts[0] != `console.log("<b>")` {
		t.Errorf("unexpected scripts %q", doc.Scripts)
	}
	if doc.Title != "Page" {
		t.Errorf("expected title 'Page', got %q", doc.Title)
	}
}

func TestParser_CommentsAndDoctype(t *testing.T) {
	doc, err := Parse(`<!DOCTYPE html><div><!-- note -->x</div>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Root.Children[0].Type != MetaNode {
		t.Errorf("expected doctype meta node, got %v", doc.Root.Children[0].Type)
	}
	div := doc.RootElement()
	if div.Children[0].Type != CommentNode || div.Children[0].Text != " note " {
		t.Errorf("expected comment node, got %+v", div.Children[0])
	}
}

func TestParser_AutoCloseP(t *testing.T) {
	doc, err := Parse(`<p>one<div>two</div>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Root.Children) != 2 {
		t.Fatalf("expected p and div as siblings, got %d top-level nodes", len(doc.Root.Children))
	}
}

func TestParseReader_Charset(t *testing.T) {
	// "café" in ISO-8859-1
	src := "<p>caf\xe9</p>"
	doc, err := ParseReader(strings.NewReader(src), "text/html; charset=iso-8859-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := doc.RootElement().TextContent(); got != "café" {
		t.Errorf("expected decoded text, got %q", got)
	}
}
