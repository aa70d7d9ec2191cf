package style

import (
	"sort"
	"strings"

	"minibrowser/pkg/css"
	"minibrowser/pkg/html"
)

// DefaultFontSize is the font size, in pixels, used when nothing declares one.
const DefaultFontSize = 10.0

// StyledNode is a DOM node with its cascaded values attached.
type StyledNode struct {
	Node     *html.Node
	Values   map[string]css.Value
	Children []*StyledNode
}

// inherited lists the properties a node takes from its parent when it does
// not declare them itself.
var inherited = []string{
	"color",
	"font-family",
	"font-size",
	"font-weight",
	"font-style",
	"line-height",
}

// StyleTree builds the styled tree for root. Stylesheets are given in
// increasing precedence: for equal specificity a later sheet wins.
func StyleTree(root *html.Node, sheets ...*css.Stylesheet) *StyledNode {
	return styleNode(root, nil, sheets)
}

func styleNode(node *html.Node, parent *StyledNode, sheets []*css.Stylesheet) *StyledNode {
	sn := &StyledNode{
		Node:   node,
		Values: make(map[string]css.Value),
	}

	switch node.Type {
	case html.ElementNode:
		sn.Values = ComputeStyle(node, sheets)
		resolveFontSize(sn, parent)
		inherit(sn, parent)
	case html.TextNode:
		inherit(sn, parent)
		sn.Values["display"] = css.Keyword("inline")
	default:
		sn.Values["display"] = css.Keyword("none")
	}

	sn.Children = make([]*StyledNode, 0, len(node.Children))
	for _, child := range node.Children {
		sn.Children = append(sn.Children, styleNode(child, sn, sheets))
	}
	return sn
}

type cascaded struct {
	decl        css.Declaration
	specificity int
	order       int
}

// ComputeStyle computes the declared values for a single element: matching
// rules sorted by importance and specificity, then the style attribute.
func ComputeStyle(node *html.Node, sheets []*css.Stylesheet) map[string]css.Value {
	var all []cascaded
	order := 0
	for _, sheet := range sheets {
		if sheet == nil {
			continue
		}
		for _, m := range css.FindMatchingRules(node, sheet) {
			for _, d := range m.Rule.Declarations {
				all = append(all, cascaded{decl: d, specificity: m.Specificity, order: order})
				order++
			}
		}
	}

	// Inline styles have the highest specificity
	if styleAttr, ok := node.GetAttribute("style"); ok {
		for _, d := range css.ParseInlineStyle(styleAttr) {
			all = append(all, cascaded{decl: d, specificity: 1000, order: order})
			order++
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.decl.Important != b.decl.Important {
			return !a.decl.Important
		}
		if a.specificity != b.specificity {
			return a.specificity < b.specificity
		}
		return a.order < b.order
	})

	values := make(map[string]css.Value, len(all))
	for _, c := range all {
		values[c.decl.Name] = c.decl.Value
	}
	return values
}

// resolveFontSize turns a relative font-size into pixels against the
// parent's size, so descendants inherit an absolute length.
func resolveFontSize(sn *StyledNode, parent *StyledNode) {
	v, ok := sn.Values["font-size"]
	if !ok {
		return
	}
	base := DefaultFontSize
	if parent != nil {
		base = parent.LookupLengthPx("font-size", DefaultFontSize)
	}
	if css.IsKeyword(v, "inherit") {
		delete(sn.Values, "font-size")
		return
	}
	l, ok := v.(css.Length)
	if !ok {
		return
	}
	switch l.Unit {
	case css.Em, css.Rem:
		sn.Values["font-size"] = css.PxLength(l.Value * base)
	case css.Per:
		sn.Values["font-size"] = css.PxLength(l.Value * base / 100)
	}
}

func inherit(sn *StyledNode, parent *StyledNode) {
	if parent == nil {
		return
	}
	for _, name := range inherited {
		if v, ok := sn.Values[name]; ok && !css.IsKeyword(v, "inherit") {
			continue
		}
		if pv, ok := parent.Values[name]; ok {
			sn.Values[name] = pv
		} else {
			delete(sn.Values, name)
		}
	}
}

// Value returns the declared value of a property.
func (s *StyledNode) Value(name string) (css.Value, bool) {
	v, ok := s.Values[name]
	return v, ok
}

// Lookup returns the value of primary, then of shorthand, then def.
func (s *StyledNode) Lookup(primary, shorthand string, def css.Value) css.Value {
	if v, ok := s.Values[primary]; ok {
		return v
	}
	if v, ok := s.Values[shorthand]; ok {
		return v
	}
	return def
}

// Color returns the named property if it holds a colour.
func (s *StyledNode) Color(name string) (css.Color, bool) {
	if c, ok := s.Values[name].(css.Color); ok {
		return c, true
	}
	return css.Color{}, false
}

// LookupLengthPx returns a pixel length or a bare number, else def.
func (s *StyledNode) LookupLengthPx(name string, def float64) float64 {
	switch v := s.Values[name].(type) {
	case css.Length:
		if v.Unit == css.Px {
			return v.Value
		}
	case css.Number:
		return float64(v)
	}
	return def
}

func (s *StyledNode) LookupFontWeight(def int) int {
	v, ok := s.Values["font-weight"]
	if !ok {
		return def
	}
	return css.ParseFontWeight(v, def)
}

func (s *StyledNode) LookupString(name, def string) string {
	switch v := s.Values[name].(type) {
	case css.Keyword:
		return strings.ToLower(string(v))
	case css.StringLiteral:
		return string(v)
	case css.Number:
		return v.String()
	}
	return def
}

func (s *StyledNode) LookupColor(name string, def css.Color) css.Color {
	if c, ok := s.Color(name); ok {
		return c
	}
	return def
}
