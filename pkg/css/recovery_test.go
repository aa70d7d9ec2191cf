package css

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var (
	red   = Color{255, 0, 0, 255}
	green = Color{0, 128, 0, 255}
	blue  = Color{0, 0, 255, 255}
)

type parsedRule struct {
	Selectors    string
	Declarations []Declaration
}

func parsedRules(t *testing.T, src string) []parsedRule {
	t.Helper()
	ss, err := ParseStylesheet(src)
	if err != nil {
		t.Fatalf("ParseStylesheet(%q): %v", src, err)
	}
	var out []parsedRule
	for _, r := range ss.Rules {
		raw := make([]string, len(r.Selectors))
		for i, sel := range r.Selectors {
			raw[i] = sel.Raw
		}
		out = append(out, parsedRule{strings.Join(raw, ", "), r.Declarations})
	}
	return out
}

func decl(name string, v Value) Declaration {
	return Declaration{Name: name, Value: v}
}

func TestParseStylesheet_Recovery(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []parsedRule
	}{
		{
			name: "stray closing brace",
			src:  `} { color: red; } p { color: blue; }`,
			want: []parsedRule{{"p", []Declaration{decl("color", blue)}}},
		},
		{
			name: "semicolon selector",
			src:  `{; color: red; } p { color: blue; }`,
			want: []parsedRule{{"p", []Declaration{decl("color", blue)}}},
		},
		{
			name: "unbalanced bracket",
			src:  `[} { color: red; } p { color: green; }`,
			want: []parsedRule{{"p", []Declaration{decl("color", green)}}},
		},
		{
			name: "empty selector",
			src:  ` { color: red; } p { color: blue; }`,
			want: []parsedRule{{"p", []Declaration{decl("color", blue)}}},
		},
		{
			name: "valid rules around a bad one",
			src:  `body { color: red; } [} { bad: true; } h1 { font-size: 20px; }`,
			want: []parsedRule{
				{"body", []Declaration{decl("color", red)}},
				{"h1", []Declaration{decl("font-size", PxLength(20))}},
			},
		},
		{
			name: "unknown at-rule block",
			src:  `@three-dee { body { color: red; } } p { color: blue; }`,
			want: []parsedRule{{"p", []Declaration{decl("color", blue)}}},
		},
		{
			name: "import statement",
			src:  `@import url("foo.css"); p { color: blue; }`,
			want: []parsedRule{{"p", []Declaration{decl("color", blue)}}},
		},
		{
			name: "several unknown at-rules",
			src:  `@foo { x: y; } @bar { a: b; } div { color: red; }`,
			want: []parsedRule{{"div", []Declaration{decl("color", red)}}},
		},
		{
			name: "declaration without colon",
			src:  `p { badstuff; color: red; }`,
			want: []parsedRule{{"p", []Declaration{decl("color", red)}}},
		},
		{
			name: "declaration without value",
			src:  `p { bad: ; color: green; }`,
			want: []parsedRule{{"p", []Declaration{decl("color", green)}}},
		},
		{
			name: "property starting with a digit",
			src:  `p { 123abc: red; color: blue; }`,
			want: []parsedRule{{"p", []Declaration{decl("color", blue)}}},
		},
		{
			name: "vendor property kept",
			src:  `p { -webkit-thing: value; color: red; }`,
			want: []parsedRule{{"p", []Declaration{decl("-webkit-thing", Keyword("value")), decl("color", red)}}},
		},
		{
			name: "unclosed block at the end is dropped",
			src:  `p { color: red; } h1 { font-size: 20px`,
			want: []parsedRule{{"p", []Declaration{decl("color", red)}}},
		},
		{
			name: "comments between and inside rules",
			src:  `/* c1 */ body /* c2 */ { /* c3 */ color: red; } /* c4 */ p { color: blue; } /* unterminated`,
			want: []parsedRule{
				{"body", []Declaration{decl("color", red)}},
				{"p", []Declaration{decl("color", blue)}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, parsedRules(t, tt.src)); diff != "" {
				t.Errorf("rules mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseStylesheet_UnclosedStrings(t *testing.T) {
	for _, src := range []string{
		`p { content: "unclosed; } h1 { color: red; }`,
		`p { content: 'unclosed; } h1 { color: red; }`,
		`p[attr="unclosed { color: red; }`,
	} {
		if _, err := ParseStylesheet(src); err != nil {
			t.Errorf("ParseStylesheet(%q): %v", src, err)
		}
	}
}

// Malformed rules in the style of the Acid2 test page.
func TestParseStylesheet_Acid2Garbage(t *testing.T) {
	ss, err := ParseStylesheet(`
		.eyes { background: yellow; }
		@three-dee {
			@background-lighting { azimuth: 30deg; elevation: 190deg; }
			h1 { color: red; }
		}
		[} { color: red; }
		.nose { width: 0; }
		{; color: red; }
		.mouth { color: blue; }
	`)
	if err != nil {
		t.Fatal(err)
	}

	var got []string
	for _, r := range ss.Rules {
		got = append(got, r.Selectors[0].Raw)
	}
	if diff := cmp.Diff([]string{".eyes", ".nose", ".mouth"}, got); diff != "" {
		t.Fatalf("selectors mismatch (-want +got):\n%s", diff)
	}
	if v, _ := ss.Rules[0].Value("background-color"); v != (Color{255, 255, 0, 255}) {
		t.Errorf(".eyes background-color = %v, want yellow", v)
	}
	if v, _ := ss.Rules[1].Value("width"); v != PxLength(0) {
		t.Errorf(".nose width = %v, want 0px", v)
	}
}

func TestStripCSSComments(t *testing.T) {
	tests := []struct{ in, want string }{
		{"/* outer /* inner */ still-outside */", " still-outside */"},
		{"/*** stars ***/", ""},
		{"/**/", ""},
		{"", ""},
		{`p { content: "/* kept */"; }`, `p { content: "/* kept */"; }`},
		{"body { color: red; } /* unterminated", "body { color: red; } "},
		{"a /* x */ { }", "a  { }"},
	}
	for _, tt := range tests {
		if got := stripCSSComments(tt.in); got != tt.want {
			t.Errorf("stripCSSComments(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSplitRules_NestedBlockIsOneRule(t *testing.T) {
	rules := splitRules(`@media screen { p { color: red; } h1 { font-size: 20px; } }`)
	if len(rules) != 1 {
		t.Errorf("got %d top-level rules, want 1: %q", len(rules), rules)
	}
}

func TestIsValidSelector(t *testing.T) {
	tests := []struct {
		sel  string
		want bool
	}{
		{"p", true},
		{".class", true},
		{"div.class", true},
		{"[attr=val]", true},
		{"", false},
		{"}", false},
		{";", false},
		{"[}", false},
		{"[attr", false},
		{"div { }", false},
	}
	for _, tt := range tests {
		if got := isValidSelector(tt.sel); got != tt.want {
			t.Errorf("isValidSelector(%q) = %v, want %v", tt.sel, got, tt.want)
		}
	}
}
