package css

import (
	"strconv"
	"strings"
)

// Value is a declared CSS value. The concrete types are Keyword, Length,
// StringLiteral, ArrayValue, Color and Number.
type Value interface {
	String() string
	isValue()
}

type Unit int

const (
	Px Unit = iota
	Em
	Rem
	Per
)

func (u Unit) String() string {
	switch u {
	case Px:
		return "px"
	case Em:
		return "em"
	case Rem:
		return "rem"
	case Per:
		return "%"
	}
	return "?"
}

// Keyword is an unquoted identifier such as auto, bold or sans-serif.
type Keyword string

// Length is a number with a unit.
type Length struct {
	Value float64
	Unit  Unit
}

// StringLiteral is a quoted string, stored without its quotes.
type StringLiteral string

// ArrayValue is a comma separated list, as used by font-family.
type ArrayValue []Value

// Number is a unitless number, e.g. font-weight: 700.
type Number float64

func (Keyword) isValue()       {}
func (Length) isValue()        {}
func (StringLiteral) isValue() {}
func (ArrayValue) isValue()    {}
func (Number) isValue()        {}
func (Color) isValue()         {}

func (k Keyword) String() string { return string(k) }

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + l.Unit.String()
}

func (s StringLiteral) String() string { return strconv.Quote(string(s)) }

func (a ArrayValue) String() string {
	parts := make([]string, len(a))
	for i, v := range a {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}

func (n Number) String() string { return strconv.FormatFloat(float64(n), 'f', -1, 64) }

// PxLength returns a pixel length.
func PxLength(v float64) Length { return Length{Value: v, Unit: Px} }

// IsKeyword reports whether v is the given keyword.
func IsKeyword(v Value, keyword string) bool {
	k, ok := v.(Keyword)
	return ok && strings.EqualFold(string(k), keyword)
}

// ParseValue converts the raw text of a declaration into a typed value.
// The property name decides whether colour names are recognised.
func ParseValue(property, raw string) Value {
	raw = strings.TrimSpace(raw)

	if items := splitTopLevel(raw, ','); len(items) > 1 {
		arr := make(ArrayValue, 0, len(items))
		for _, item := range items {
			arr = append(arr, parseSingleValue(property, item))
		}
		return arr
	}
	return parseSingleValue(property, raw)
}

func parseSingleValue(property, raw string) Value {
	raw = strings.TrimSpace(raw)
	if len(raw) >= 2 && (raw[0] == '"' || raw[0] == '\'') && raw[len(raw)-1] == raw[0] {
		return StringLiteral(raw[1 : len(raw)-1])
	}
	if isColorProperty(property) {
		if c, ok := ParseColor(raw); ok {
			return c
		}
	}
	if l, ok := ParseLength(raw); ok {
		return l
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return Number(n)
	}
	return Keyword(raw)
}

// ParseLength parses "10px", "1.5em", "2rem", "50%" or a bare "0".
func ParseLength(raw string) (Length, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "0" {
		return PxLength(0), true
	}
	units := []struct {
		suffix string
		unit   Unit
	}{
		{"rem", Rem},
		{"px", Px},
		{"em", Em},
		{"%", Per},
	}
	for _, u := range units {
		if !strings.HasSuffix(raw, u.suffix) {
			continue
		}
		num, err := strconv.ParseFloat(strings.TrimSuffix(raw, u.suffix), 64)
		if err != nil {
			return Length{}, false
		}
		return Length{Value: num, Unit: u.unit}, true
	}
	return Length{}, false
}

func isColorProperty(property string) bool {
	return property == "color" || strings.HasSuffix(property, "-color") || property == "background"
}

// splitTopLevel splits s on sep, ignoring separators inside quotes or
// parentheses.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == '(':
			depth++
		case ch == ')':
			if depth > 0 {
				depth--
			}
		case ch == sep && depth == 0:
			parts = append(parts, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	parts = append(parts, strings.TrimSpace(s[start:]))
	return parts
}
