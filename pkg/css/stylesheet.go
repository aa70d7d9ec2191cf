package css

import (
	"fmt"
	"strconv"
	"strings"
)

// Declaration is one property: value pair with a typed value.
type Declaration struct {
	Name      string
	Value     Value
	Important bool
}

// Rule represents a CSS rule (selector group + declarations)
type Rule struct {
	Selectors    []Selector
	Declarations []Declaration
}

// Value returns the last declared value of the named property.
func (r Rule) Value(name string) (Value, bool) {
	for i := len(r.Declarations) - 1; i >= 0; i-- {
		if r.Declarations[i].Name == name {
			return r.Declarations[i].Value, true
		}
	}
	return nil, false
}

// FontFace is an @font-face rule.
type FontFace struct {
	Family string
	Src    []string // url(...) references in declaration order
	Weight int
	Style  string
}

// Stylesheet represents a parsed CSS stylesheet
type Stylesheet struct {
	Rules     []Rule
	FontFaces []FontFace
}

// ParseStylesheet parses CSS stylesheet content into rules. Malformed rules,
// unknown at-rules and invalid declarations are skipped, so the only error
// reported is for input that cannot be read at all.
func ParseStylesheet(css string) (*Stylesheet, error) {
	stylesheet := &Stylesheet{
		Rules: make([]Rule, 0),
	}

	css = strings.TrimSpace(stripCSSComments(css))
	if css == "" {
		return stylesheet, nil
	}

	for _, ruleStr := range splitRules(css) {
		if strings.HasPrefix(ruleStr, "@") {
			stylesheet.parseAtRule(ruleStr)
			continue
		}
		rule, err := parseRule(ruleStr)
		if err != nil {
			// Skip malformed rules
			continue
		}
		stylesheet.Rules = append(stylesheet.Rules, rule)
	}

	return stylesheet, nil
}

// MustParseStylesheet is ParseStylesheet for stylesheets compiled into the
// program.
func MustParseStylesheet(css string) *Stylesheet {
	ss, err := ParseStylesheet(css)
	if err != nil {
		panic(err)
	}
	return ss
}

// stripCSSComments removes /* */ comments outside of string literals.
// An unterminated comment runs to the end of the input.
func stripCSSComments(css string) string {
	var sb strings.Builder
	var quote byte
	for i := 0; i < len(css); i++ {
		ch := css[i]
		if quote != 0 {
			sb.WriteByte(ch)
			if ch == '\\' && i+1 < len(css) {
				i++
				sb.WriteByte(css[i])
			} else if ch == quote || ch == '\n' {
				quote = 0
			}
			continue
		}
		if ch == '"' || ch == '\'' {
			quote = ch
			sb.WriteByte(ch)
			continue
		}
		if ch == '/' && i+1 < len(css) && css[i+1] == '*' {
			end := strings.Index(css[i+2:], "*/")
			if end == -1 {
				break
			}
			i += 2 + end + 1
			continue
		}
		sb.WriteByte(ch)
	}
	return sb.String()
}

// splitRules splits CSS into top-level rules and at-rule statements. A
// closing brace without an opening one discards the text before it, and an
// unclosed block at the end of the input is dropped.
func splitRules(css string) []string {
	rules := make([]string, 0)
	depth := 0
	start := 0
	var quote byte

	for i := 0; i < len(css); i++ {
		ch := css[i]
		if quote != 0 {
			if ch == '\\' {
				i++
			} else if ch == quote || ch == '\n' {
				quote = 0
			}
			continue
		}
		switch ch {
		case '"', '\'':
			quote = ch
		case '{':
			depth++
		case '}':
			if depth == 0 {
				start = i + 1
				continue
			}
			depth--
			if depth == 0 {
				// Found complete rule
				if ruleStr := strings.TrimSpace(css[start : i+1]); ruleStr != "" {
					rules = append(rules, ruleStr)
				}
				start = i + 1
			}
		case ';':
			// Block-less at-rules such as @import end at the semicolon
			if depth == 0 && strings.HasPrefix(strings.TrimSpace(css[start:i]), "@") {
				rules = append(rules, strings.TrimSpace(css[start:i+1]))
				start = i + 1
			}
		}
	}

	return rules
}

// parseRule parses a single CSS rule
func parseRule(ruleStr string) (Rule, error) {
	bracePos := strings.Index(ruleStr, "{")
	if bracePos == -1 {
		return Rule{}, fmt.Errorf("no opening brace found")
	}

	selectors, err := ParseSelectorGroup(ruleStr[:bracePos])
	if err != nil {
		return Rule{}, err
	}

	declEnd := strings.LastIndex(ruleStr, "}")
	if declEnd < bracePos {
		declEnd = len(ruleStr)
	}

	return Rule{
		Selectors:    selectors,
		Declarations: ParseDeclarations(ruleStr[bracePos+1 : declEnd]),
	}, nil
}

func (s *Stylesheet) parseAtRule(ruleStr string) {
	bracePos := strings.Index(ruleStr, "{")
	if bracePos == -1 {
		// @import, @charset and friends are not supported
		return
	}
	prelude := strings.TrimSpace(ruleStr[1:bracePos])
	name := prelude
	if sp := strings.IndexAny(prelude, " \t\n"); sp != -1 {
		name = prelude[:sp]
	}
	end := strings.LastIndex(ruleStr, "}")
	if end < bracePos {
		return
	}
	body := ruleStr[bracePos+1 : end]

	switch strings.ToLower(name) {
	case "font-face":
		if face, ok := parseFontFace(body); ok {
			s.FontFaces = append(s.FontFaces, face)
		}
	case "media":
		if !mediaApplies(strings.TrimSpace(prelude[len(name):])) {
			return
		}
		inner, _ := ParseStylesheet(body)
		s.Rules = append(s.Rules, inner.Rules...)
		s.FontFaces = append(s.FontFaces, inner.FontFaces...)
	}
}

// mediaApplies evaluates a media query list for an on-screen renderer.
// Media features are not evaluated and count as matching.
func mediaApplies(query string) bool {
	if query == "" {
		return true
	}
	for _, q := range strings.Split(strings.ToLower(query), ",") {
		fields := strings.Fields(q)
		if len(fields) > 0 && fields[0] == "only" {
			fields = fields[1:]
		}
		if len(fields) == 0 {
			continue
		}
		switch {
		case fields[0] == "screen", fields[0] == "all", strings.HasPrefix(fields[0], "("):
			return true
		}
	}
	return false
}

type rawDeclaration struct {
	name, value string
	important   bool
}

func splitDeclarations(declStr string) []rawDeclaration {
	var out []rawDeclaration
	for _, part := range splitTopLevel(declStr, ';') {
		colonPos := strings.Index(part, ":")
		if colonPos == -1 {
			continue
		}
		property := strings.ToLower(strings.TrimSpace(part[:colonPos]))
		value := strings.TrimSpace(part[colonPos+1:])
		important := false
		if idx := strings.Index(strings.ToLower(value), "!important"); idx != -1 {
			value = strings.TrimSpace(value[:idx])
			important = true
		}
		if !isValidProperty(property) || value == "" {
			continue
		}
		out = append(out, rawDeclaration{name: property, value: value, important: important})
	}
	return out
}

func isValidProperty(name string) bool {
	if name == "" {
		return false
	}
	first := name[0]
	if !(first >= 'a' && first <= 'z') && first != '-' {
		return false
	}
	for i := 1; i < len(name); i++ {
		ch := name[i]
		if !(ch >= 'a' && ch <= 'z') && !(ch >= '0' && ch <= '9') && ch != '-' {
			return false
		}
	}
	return true
}

// ParseDeclarations parses the body of a rule or a style attribute,
// expanding shorthand properties.
func ParseDeclarations(declStr string) []Declaration {
	declarations := make([]Declaration, 0)
	for _, raw := range splitDeclarations(declStr) {
		for _, d := range expandShorthand(raw.name, raw.value) {
			d.Important = raw.important
			declarations = append(declarations, d)
		}
	}
	return declarations
}

// ParseInlineStyle parses the value of a style="" attribute.
func ParseInlineStyle(styleAttr string) []Declaration {
	return ParseDeclarations(styleAttr)
}

func parseFontFace(body string) (FontFace, bool) {
	face := FontFace{Weight: 400, Style: "normal"}
	for _, raw := range splitDeclarations(body) {
		switch raw.name {
		case "font-family":
			face.Family = strings.Trim(raw.value, `"'`)
		case "src":
			face.Src = extractURLs(raw.value)
		case "font-weight":
			face.Weight = ParseFontWeight(ParseValue(raw.name, raw.value), 400)
		case "font-style":
			face.Style = strings.ToLower(raw.value)
		}
	}
	return face, face.Family != "" && len(face.Src) > 0
}

// extractURLs returns the arguments of every url(...) in value.
func extractURLs(value string) []string {
	var urls []string
	for {
		idx := strings.Index(value, "url(")
		if idx == -1 {
			return urls
		}
		value = value[idx+4:]
		end := strings.Index(value, ")")
		if end == -1 {
			return urls
		}
		u := strings.Trim(strings.TrimSpace(value[:end]), `"'`)
		if u != "" {
			urls = append(urls, u)
		}
		value = value[end+1:]
	}
}

// ParseFontWeight maps a font-weight value to its numeric weight.
func ParseFontWeight(v Value, def int) int {
	switch val := v.(type) {
	case Number:
		return int(val)
	case Keyword:
		switch strings.ToLower(string(val)) {
		case "normal":
			return 400
		case "bold":
			return 700
		case "lighter":
			return 100
		case "bolder":
			return 900
		}
		if n, err := strconv.Atoi(string(val)); err == nil {
			return n
		}
	}
	return def
}

// expandShorthand expands shorthand CSS properties into individual properties
func expandShorthand(property, value string) []Declaration {
	switch property {
	case "margin", "padding":
		return expandBoxProperty(property, value, func(side string) string { return property + "-" + side })
	case "border-width":
		return expandBoxProperty(property, value, func(side string) string { return "border-" + side + "-width" })
	case "border":
		return expandBorderProperty(value)
	case "background":
		return expandBackgroundProperty(value)
	}
	return []Declaration{{Name: property, Value: ParseValue(property, value)}}
}

// expandBoxProperty expands margin/padding/border-width shorthand
// Supports: "10px" (all), "10px 20px" (vertical horizontal),
// "10px 20px 30px" (top h bottom), "10px 20px 30px 40px" (t r b l).
// A single value is also kept under the shorthand name.
func expandBoxProperty(shorthand, value string, longhand func(side string) string) []Declaration {
	parts := strings.Fields(value)
	var top, right, bottom, left string

	switch len(parts) {
	case 1:
		top, right, bottom, left = parts[0], parts[0], parts[0], parts[0]
	case 2:
		top, right, bottom, left = parts[0], parts[1], parts[0], parts[1]
	case 3:
		top, right, bottom, left = parts[0], parts[1], parts[2], parts[1]
	case 4:
		top, right, bottom, left = parts[0], parts[1], parts[2], parts[3]
	default:
		return nil
	}

	decls := make([]Declaration, 0, 5)
	if len(parts) == 1 {
		decls = append(decls, Declaration{Name: shorthand, Value: ParseValue(shorthand, parts[0])})
	}
	for _, side := range []struct{ name, value string }{
		{"top", top}, {"right", right}, {"bottom", bottom}, {"left", left},
	} {
		name := longhand(side.name)
		decls = append(decls, Declaration{Name: name, Value: ParseValue(name, side.value)})
	}
	return decls
}

// expandBorderProperty expands border shorthand
// Format: "1px solid black" or "2px dotted #FF0000"
func expandBorderProperty(value string) []Declaration {
	var decls []Declaration
	for _, part := range strings.Fields(value) {
		switch {
		case isLengthToken(part):
			decls = append(decls, expandBoxProperty("border-width", part, func(side string) string { return "border-" + side + "-width" })...)
		case isBorderStyle(part):
			decls = append(decls, Declaration{Name: "border-style", Value: Keyword(part)})
		default:
			if c, ok := ParseColor(part); ok {
				decls = append(decls, Declaration{Name: "border-color", Value: c})
			}
		}
	}
	return decls
}

func expandBackgroundProperty(value string) []Declaration {
	for _, part := range strings.Fields(value) {
		if c, ok := ParseColor(part); ok {
			return []Declaration{{Name: "background-color", Value: c}}
		}
	}
	return nil
}

func isLengthToken(s string) bool {
	_, ok := ParseLength(s)
	return ok
}

func isBorderStyle(s string) bool {
	switch s {
	case "none", "hidden", "solid", "dotted", "dashed", "double", "groove", "ridge", "inset", "outset":
		return true
	}
	return false
}
