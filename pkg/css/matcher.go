package css

import (
	"slices"
	"strings"

	"minibrowser/pkg/html"
)

// MatchesSelector reports whether the element node matches sel. Parts are
// matched right to left, so the last part is the node itself.
func MatchesSelector(node *html.Node, sel Selector) bool {
	if node.Type != html.ElementNode || len(sel.Parts) == 0 {
		return false
	}
	return matchFrom(node, sel, len(sel.Parts)-1)
}

func matchFrom(node *html.Node, sel Selector, i int) bool {
	if !matchesPart(node, sel.Parts[i]) {
		return false
	}
	if i == 0 {
		return true
	}

	switch sel.Combinators[i-1] {
	case DescendantCombinator:
		for up := elementParent(node); up != nil; up = elementParent(up) {
			if matchFrom(up, sel, i-1) {
				return true
			}
		}
	case ChildCombinator:
		if up := elementParent(node); up != nil {
			return matchFrom(up, sel, i-1)
		}
	case AdjacentSiblingCombinator:
		if prev := previousElement(node); prev != nil {
			return matchFrom(prev, sel, i-1)
		}
	case GeneralSiblingCombinator:
		for prev := previousElement(node); prev != nil; prev = previousElement(prev) {
			if matchFrom(prev, sel, i-1) {
				return true
			}
		}
	}
	return false
}

func matchesPart(node *html.Node, part SelectorPart) bool {
	if part.Element != "" && part.Element != "*" && node.TagName != part.Element {
		return false
	}
	if part.ID != "" {
		if id, _ := node.GetAttribute("id"); id != part.ID {
			return false
		}
	}
	if len(part.Classes) > 0 {
		class, _ := node.GetAttribute("class")
		have := strings.Fields(class)
		for _, want := range part.Classes {
			if !slices.Contains(have, want) {
				return false
			}
		}
	}
	for _, attr := range part.Attributes {
		if !matchesAttribute(node, attr) {
			return false
		}
	}
	// No element is ever hovered, focused or visited.
	return len(part.PseudoClasses) == 0
}

func matchesAttribute(node *html.Node, attr AttributeSelector) bool {
	got, ok := node.GetAttribute(attr.Name)
	if !ok {
		return false
	}
	want := attr.Value
	switch attr.Operator {
	case "":
		return true
	case "=":
		return got == want
	case "~=":
		return slices.Contains(strings.Fields(got), want)
	case "|=":
		return got == want || strings.HasPrefix(got, want+"-")
	case "^=":
		return want != "" && strings.HasPrefix(got, want)
	case "$=":
		return want != "" && strings.HasSuffix(got, want)
	case "*=":
		return want != "" && strings.Contains(got, want)
	}
	return false
}

// elementParent returns the parent element, stopping at the document node.
func elementParent(node *html.Node) *html.Node {
	up := node.Parent
	if up == nil || up.Type != html.ElementNode || up.TagName == "document" {
		return nil
	}
	return up
}

func previousElement(node *html.Node) *html.Node {
	if node.Parent == nil {
		return nil
	}
	siblings := node.Parent.Children
	i := slices.Index(siblings, node)
	for i--; i >= 0; i-- {
		if siblings[i].Type == html.ElementNode {
			return siblings[i]
		}
	}
	return nil
}

// MatchedRule is a rule that applies to a node, with the specificity of
// its most specific matching selector.
type MatchedRule struct {
	Rule        *Rule
	Specificity int
}

// FindMatchingRules returns the rules of sheet that match node, in source
// order.
func FindMatchingRules(node *html.Node, sheet *Stylesheet) []MatchedRule {
	var matches []MatchedRule
	for i := range sheet.Rules {
		rule := &sheet.Rules[i]
		best := -1
		for _, sel := range rule.Selectors {
			if sel.Specificity > best && MatchesSelector(node, sel) {
				best = sel.Specificity
			}
		}
		if best >= 0 {
			matches = append(matches, MatchedRule{Rule: rule, Specificity: best})
		}
	}
	return matches
}
