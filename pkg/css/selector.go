package css

import (
	"fmt"
	"strings"
)

// Selector is a complex selector: compound parts joined by combinators.
// Combinators[i] joins Parts[i] and Parts[i+1].
type Selector struct {
	Raw         string
	Parts       []SelectorPart
	Combinators []Combinator
	Specificity int // ids*100 + (classes, attributes, pseudo-classes)*10 + elements
}

// SelectorPart is a compound selector such as div.note#main[lang].
type SelectorPart struct {
	Element       string // tag name or "*", empty when omitted
	ID            string
	Classes       []string
	Attributes    []AttributeSelector
	PseudoClasses []string
}

type AttributeSelector struct {
	Name     string
	Operator string // "", "=", "~=", "|=", "^=", "$=", "*="
	Value    string
}

type Combinator int

const (
	DescendantCombinator      Combinator = iota // div p
	ChildCombinator                             // div > p
	AdjacentSiblingCombinator                   // h1 + p
	GeneralSiblingCombinator                    // h1 ~ p
)

// ParseSelectorGroup parses a comma separated selector list. The whole
// group is rejected if any selector in it is invalid.
func ParseSelectorGroup(group string) ([]Selector, error) {
	group = strings.TrimSpace(group)
	if !isValidSelector(group) {
		return nil, fmt.Errorf("invalid selector %q", group)
	}
	var selectors []Selector
	for _, raw := range splitTopLevel(group, ',') {
		sel, err := ParseSelector(raw)
		if err != nil {
			return nil, err
		}
		selectors = append(selectors, sel)
	}
	return selectors, nil
}

// isValidSelector rejects preludes that cannot be a selector list: empty
// text, braces or semicolons, and unbalanced brackets.
func isValidSelector(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{', '}', ';':
			return false
		case '[':
			depth++
		case ']':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// ParseSelector parses a single complex selector.
func ParseSelector(raw string) (Selector, error) {
	raw = strings.TrimSpace(raw)
	sel := Selector{Raw: raw}
	if raw == "" {
		return sel, fmt.Errorf("empty selector")
	}

	pending := -1 // combinator seen since the last compound, -1 for none
	sawSpace := false
	i := 0
	for i < len(raw) {
		ch := raw[i]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			sawSpace = true
			i++
			continue
		case ch == '>' || ch == '+' || ch == '~':
			if len(sel.Parts) == 0 || pending != -1 {
				return sel, fmt.Errorf("misplaced combinator in %q", raw)
			}
			pending = int(combinatorFor(ch))
			i++
			continue
		}

		end := compoundEnd(raw, i)
		part, err := parseCompound(raw[i:end])
		if err != nil {
			return sel, err
		}
		if len(sel.Parts) > 0 {
			switch {
			case pending != -1:
				sel.Combinators = append(sel.Combinators, Combinator(pending))
			case sawSpace:
				sel.Combinators = append(sel.Combinators, DescendantCombinator)
			}
		}
		sel.Parts = append(sel.Parts, part)
		pending = -1
		sawSpace = false
		i = end
	}
	if pending != -1 {
		return sel, fmt.Errorf("dangling combinator in %q", raw)
	}

	sel.Specificity = specificity(sel.Parts)
	return sel, nil
}

func combinatorFor(ch byte) Combinator {
	switch ch {
	case '>':
		return ChildCombinator
	case '+':
		return AdjacentSiblingCombinator
	}
	return GeneralSiblingCombinator
}

// compoundEnd returns the index just past the compound selector starting at i.
func compoundEnd(s string, i int) int {
	depth := 0
	for ; i < len(s); i++ {
		switch s[i] {
		case '[', '(':
			depth++
		case ']', ')':
			depth--
		case ' ', '\t', '\n', '\r', '>', '+', '~':
			if depth == 0 {
				return i
			}
		}
	}
	return i
}

func parseCompound(s string) (SelectorPart, error) {
	var part SelectorPart
	i := 0
	if s[0] == '*' {
		part.Element = "*"
		i = 1
	} else if isNameStart(s[0]) {
		j := nameEnd(s, 0)
		part.Element = strings.ToLower(s[:j])
		i = j
	}

	for i < len(s) {
		switch s[i] {
		case '#':
			j := nameEnd(s, i+1)
			if j == i+1 {
				return part, fmt.Errorf("empty id in %q", s)
			}
			part.ID = s[i+1 : j]
			i = j
		case '.':
			j := nameEnd(s, i+1)
			if j == i+1 {
				return part, fmt.Errorf("empty class in %q", s)
			}
			part.Classes = append(part.Classes, s[i+1:j])
			i = j
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end == -1 {
				return part, fmt.Errorf("unclosed attribute selector in %q", s)
			}
			attr, err := parseAttributeSelector(s[i+1 : i+end])
			if err != nil {
				return part, err
			}
			part.Attributes = append(part.Attributes, attr)
			i += end + 1
		case ':':
			j := i + 1
			for j < len(s) && s[j] == ':' {
				j++
			}
			k := nameEnd(s, j)
			if k < len(s) && s[k] == '(' {
				closing := strings.IndexByte(s[k:], ')')
				if closing == -1 {
					return part, fmt.Errorf("unclosed pseudo-class in %q", s)
				}
				k += closing + 1
			}
			part.PseudoClasses = append(part.PseudoClasses, s[j:k])
			i = k
		default:
			return part, fmt.Errorf("unexpected %q in selector %q", s[i], s)
		}
	}
	return part, nil
}

func parseAttributeSelector(s string) (AttributeSelector, error) {
	s = strings.TrimSpace(s)
	for _, op := range []string{"~=", "|=", "^=", "$=", "*=", "="} {
		if idx := strings.Index(s, op); idx != -1 {
			name := strings.TrimSpace(s[:idx])
			if name == "" {
				return AttributeSelector{}, fmt.Errorf("empty attribute name in [%s]", s)
			}
			value := strings.Trim(strings.TrimSpace(s[idx+len(op):]), `"'`)
			return AttributeSelector{Name: name, Operator: op, Value: value}, nil
		}
	}
	if s == "" {
		return AttributeSelector{}, fmt.Errorf("empty attribute selector")
	}
	return AttributeSelector{Name: s}, nil
}

func isNameStart(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch == '_' || ch == '-' || ch >= 0x80
}

func nameEnd(s string, i int) int {
	for i < len(s) && (isNameStart(s[i]) || s[i] >= '0' && s[i] <= '9') {
		i++
	}
	return i
}

func specificity(parts []SelectorPart) int {
	ids, classes, elements := 0, 0, 0
	for _, p := range parts {
		if p.ID != "" {
			ids++
		}
		classes += len(p.Classes) + len(p.Attributes) + len(p.PseudoClasses)
		if p.Element != "" && p.Element != "*" {
			elements++
		}
	}
	return ids*100 + classes*10 + elements
}
