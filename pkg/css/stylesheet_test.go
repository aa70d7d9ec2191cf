package css

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestParseStylesheet_SingleRule(t *testing.T) {
	css := `div { color: red; }`
	stylesheet, err := ParseStylesheet(css)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(stylesheet.Rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(stylesheet.Rules))
	}

	rule := stylesheet.Rules[0]
	if rule.Selectors[0].Parts[0].Element != "div" {
		t.Errorf("expected selector 'div', got '%s'", rule.Selectors[0].Raw)
	}

	if v, _ := rule.Value("color"); v != (Color{255, 0, 0, 255}) {
		t.Errorf("expected color=red, got %v", v)
	}
}

func TestParseStylesheet_MultipleRules(t *testing.T) {
	css := `
		div { color: red; }
		p { color: blue; }
		span { color: green; }
	`
	stylesheet, err := ParseStylesheet(css)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(stylesheet.Rules) != 3 {
		t.Fatalf("expected 3 rules, got %d", len(stylesheet.Rules))
	}

	expected := []struct {
		selector string
		color    string
	}{
		{"div", "red"},
		{"p", "blue"},
		{"span", "green"},
	}

	for i, exp := range expected {
		if stylesheet.Rules[i].Selectors[0].Raw != exp.selector {
			t.Errorf("rule %d: expected selector '%s', got '%s'", i, exp.selector, stylesheet.Rules[i].Selectors[0].Raw)
		}
		want, _ := ParseColor(exp.color)
		if v, _ := stylesheet.Rules[i].Value("color"); v != want {
			t.Errorf("rule %d: expected color '%s', got '%v'", i, exp.color, v)
		}
	}
}

func TestParseStylesheet_TypedValues(t *testing.T) {
	stylesheet, err := ParseStylesheet(`
		body {
			width: 50%;
			font-size: 1.5em;
			height: 2rem;
			font-weight: 700;
			font-style: italic;
			font-family: "Open Sans", serif;
			margin-left: 0;
			background-color: #0f0;
		}
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := map[string]Value{}
	for _, d := range stylesheet.Rules[0].Declarations {
		got[d.Name] = d.Value
	}
	want := map[string]Value{
		"width":            Length{50, Per},
		"font-size":        Length{1.5, Em},
		"height":           Length{2, Rem},
		"font-weight":      Number(700),
		"font-style":       Keyword("italic"),
		"font-family":      ArrayValue{StringLiteral("Open Sans"), Keyword("serif")},
		"margin-left":      Length{0, Px},
		"background-color": Color{0, 255, 0, 255},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("declarations mismatch (-want +got):\n%s", diff)
	}
}

func TestParseStylesheet_ShorthandExpansion(t *testing.T) {
	decls := ParseDeclarations("margin: 50px; padding: 1px 2px 3px; border-width: 4px 5px; border: 2px solid black")

	names := make([]string, len(decls))
	for i, d := range decls {
		names[i] = d.Name
	}
	want := []string{
		"margin", "margin-top", "margin-right", "margin-bottom", "margin-left",
		"padding-top", "padding-right", "padding-bottom", "padding-left",
		"border-top-width", "border-right-width", "border-bottom-width", "border-left-width",
		"border-width", "border-top-width", "border-right-width", "border-bottom-width", "border-left-width",
		"border-style", "border-color",
	}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("expanded names mismatch (-want +got):\n%s", diff)
	}

	rule := Rule{Declarations: decls}
	checks := map[string]Value{
		"margin":              Length{50, Px},
		"padding-left":        Length{2, Px},
		"padding-bottom":      Length{3, Px},
		"border-right-width":  Length{2, Px},
		"border-bottom-width": Length{2, Px},
		"border-color":        Black,
	}
	for name, want := range checks {
		if v, ok := rule.Value(name); !ok || v != want {
			t.Errorf("%s: expected %v, got %v", name, want, v)
		}
	}
}

func TestParseStylesheet_Important(t *testing.T) {
	decls := ParseDeclarations("color: red !important; width: 10px")
	if len(decls) != 2 || !decls[0].Important || decls[1].Important {
		t.Errorf("unexpected importance flags: %+v", decls)
	}
}

func TestParseStylesheet_SelectorGroup(t *testing.T) {
	stylesheet, _ := ParseStylesheet(`h1, h2 > em, .note { color: red; }`)
	if len(stylesheet.Rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(stylesheet.Rules))
	}
	sels := stylesheet.Rules[0].Selectors
	if len(sels) != 3 {
		t.Fatalf("expected 3 selectors, got %d", len(sels))
	}
	if sels[1].Combinators[0] != ChildCombinator {
		t.Errorf("expected child combinator, got %v", sels[1].Combinators)
	}
}

func TestParseSelector(t *testing.T) {
	tests := []struct {
		raw         string
		want        []SelectorPart
		combinators []Combinator
		specificity int
	}{
		{"div", []SelectorPart{{Element: "div"}}, nil, 1},
		{".myclass", []SelectorPart{{Classes: []string{"myclass"}}}, nil, 10},
		{"#myid", []SelectorPart{{ID: "myid"}}, nil, 100},
		{"div.a.b#c", []SelectorPart{{Element: "div", ID: "c", Classes: []string{"a", "b"}}}, nil, 121},
		{"*", []SelectorPart{{Element: "*"}}, nil, 0},
		{"a[href^=http]", []SelectorPart{{Element: "a", Attributes: []AttributeSelector{{"href", "^=", "http"}}}}, nil, 11},
		{"ul li", []SelectorPart{{Element: "ul"}, {Element: "li"}}, []Combinator{DescendantCombinator}, 2},
		{"ul>li", []SelectorPart{{Element: "ul"}, {Element: "li"}}, []Combinator{ChildCombinator}, 2},
		{"h1 + p ~ span", []SelectorPart{{Element: "h1"}, {Element: "p"}, {Element: "span"}},
			[]Combinator{AdjacentSiblingCombinator, GeneralSiblingCombinator}, 3},
		{"a:hover", []SelectorPart{{Element: "a", PseudoClasses: []string{"hover"}}}, nil, 11},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			sel, err := ParseSelector(tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, sel.Parts, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("parts mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.combinators, sel.Combinators, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("combinators mismatch (-want +got):\n%s", diff)
			}
			if sel.Specificity != tt.specificity {
				t.Errorf("expected specificity %d, got %d", tt.specificity, sel.Specificity)
			}
		})
	}
}

func TestParseSelector_Invalid(t *testing.T) {
	for _, raw := range []string{"> p", "div >", "div $ p", "#", "p[]"} {
		if _, err := ParseSelector(raw); err == nil {
			t.Errorf("expected an error for %q", raw)
		}
	}
}

func TestParseStylesheet_FontFace(t *testing.T) {
	stylesheet, err := ParseStylesheet(`
		@font-face {
			font-family: "Fira";
			src: url(fonts/fira.ttf) format("truetype"), url('fira-bold.ttf');
			font-weight: bold;
		}
		@font-face { font-family: NoSource; }
		p { font-family: Fira; }
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []FontFace{{
		Family: "Fira",
		Src:    []string{"fonts/fira.ttf", "fira-bold.ttf"},
		Weight: 700,
		Style:  "normal",
	}}
	if diff := cmp.Diff(want, stylesheet.FontFaces); diff != "" {
		t.Errorf("font faces mismatch (-want +got):\n%s", diff)
	}
	if len(stylesheet.Rules) != 1 {
		t.Errorf("expected the p rule to survive, got %d rules", len(stylesheet.Rules))
	}
}

func TestParseStylesheet_Media(t *testing.T) {
	stylesheet, _ := ParseStylesheet(`
		@media print { p { color: red; } }
		@media screen and (min-width: 10px) { p { color: blue; } }
		@import "other.css";
		div { color: green; }
	`)
	if len(stylesheet.Rules) != 2 {
		t.Fatalf("expected screen and div rules, got %d", len(stylesheet.Rules))
	}
	if v, _ := stylesheet.Rules[0].Value("color"); v != (Color{0, 0, 255, 255}) {
		t.Errorf("expected the screen rule first, got %v", v)
	}
}
