package heuristics

import (
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/hazyhaar/uxrefactor/brand"
	"github.com/hazyhaar/uxrefactor/idgen"
	"github.com/hazyhaar/uxrefactor/snapshot"
)

func elements(t *testing.T, src string) []snapshot.Element {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	return snapshot.FromDocument(doc)
}

func ofType(fs []Finding, typ string) []Finding {
	var out []Finding
	for _, f := range fs {
		if f.Type == typ {
			out = append(out, f)
		}
	}
	return out
}

func TestContrastRule(t *testing.T) {
	tests := []struct {
		name   string
		el     snapshot.Element
		expect bool
	}{
		{"white on white", snapshot.Element{Background: "rgb(255, 255, 255)", Color: "rgb(255, 255, 255)", FontSize: 16, FontWeight: 400}, true},
		{"black on white", snapshot.Element{Background: "rgb(255, 255, 255)", Color: "rgb(0, 0, 0)", FontSize: 16, FontWeight: 400}, false},
		// #767676 on white is 4.54:1, just above AA.
		{"grey at threshold", snapshot.Element{Background: "#ffffff", Color: "#767676", FontSize: 16, FontWeight: 400}, false},
		// #949494 on white is ~3.03:1: fails for body text, passes when large.
		{"grey small", snapshot.Element{Background: "#ffffff", Color: "#949494", FontSize: 16, FontWeight: 400}, true},
		{"grey large", snapshot.Element{Background: "#ffffff", Color: "#949494", FontSize: 24, FontWeight: 400}, false},
		{"transparent bg", snapshot.Element{Background: snapshot.Transparent, Color: "rgb(255, 255, 255)"}, false},
		{"keyword transparent", snapshot.Element{Background: "transparent", Color: "rgb(255, 255, 255)"}, false},
		{"missing color", snapshot.Element{Background: "rgb(255, 255, 255)"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := checkContrast(tt.el, brand.Default())
			if (f != nil) != tt.expect {
				t.Fatalf("finding = %+v, expected %v", f, tt.expect)
			}
			if f != nil && (f.Type != TypeContrast || f.Severity != SeverityError) {
				t.Fatalf("unexpected finding %+v", f)
			}
		})
	}
}

func TestContrastRule_Suggestion(t *testing.T) {
	el := snapshot.Element{
		Background: "rgb(255, 255, 255)", Color: "rgb(255, 255, 255)",
		FontSize: 13.333, FontWeight: 400,
		OuterHTML: `<button style="color:#fff;background:#fff">Go</button>`,
	}
	f := checkContrast(el, brand.Default())
	if f == nil {
		t.Fatal("no finding")
	}
	want := "Increase contrast ratio from 1.00:1 to at least 4.5:1. Consider using a darker text color or lighter background."
	if f.Suggestion != want {
		t.Fatalf("suggestion: %q", f.Suggestion)
	}
	if f.SuggestedCode != `<button style="color: #000000; background: #fff;">Go</button>` {
		t.Fatalf("suggested code: %q", f.SuggestedCode)
	}
}

func TestSpacingRule(t *testing.T) {
	p := brand.Default()
	if f := checkSpacing(snapshot.Element{Margin: 10, Padding: 10}, p); f != nil {
		t.Fatalf("20px is on scale: %+v", f)
	}
	if f := checkSpacing(snapshot.Element{}, p); f != nil {
		t.Fatalf("zero spacing must be skipped: %+v", f)
	}
	f := checkSpacing(snapshot.Element{Margin: 13, Padding: 15, OuterHTML: `<div class="box" id="a">x</div>`}, p)
	if f == nil {
		t.Fatal("28px should deviate")
	}
	if f.Severity != SeverityWarn {
		t.Fatalf("severity %s", f.Severity)
	}
	want := "Use consistent spacing: 24px instead of 28px. Consider using Tailwind classes like 'p-6' or 'm-6'."
	if f.Suggestion != want {
		t.Fatalf("suggestion: %q", f.Suggestion)
	}
	if f.SuggestedCode != `<div class="p-6" id="a">x</div>` {
		t.Fatalf("suggested code: %q", f.SuggestedCode)
	}
}

func TestComponentMisuseRule(t *testing.T) {
	f := checkComponentMisuse(snapshot.Element{Tag: "button", Text: "Go"}, brand.Default())
	if f == nil {
		t.Fatal("no finding for button")
	}
	if !strings.HasPrefix(f.SuggestedCode, "<Button ") || strings.Contains(f.SuggestedCode, "<button") {
		t.Fatalf("suggested code root: %q", f.SuggestedCode)
	}
	if !strings.HasSuffix(f.SuggestedCode, ">Go</Button>") || !strings.Contains(f.SuggestedCode, `variant="default"`) {
		t.Fatalf("suggested code: %q", f.SuggestedCode)
	}
	if f.Suggestion != "Replace <button> with Button for better accessibility and consistency." {
		t.Fatalf("suggestion: %q", f.Suggestion)
	}

	if f := checkComponentMisuse(snapshot.Element{Tag: "select"}, brand.Default()); f == nil || f.SuggestedCode != "<Select></Select>" {
		t.Fatalf("select: %+v", f)
	}
	if f := checkComponentMisuse(snapshot.Element{Tag: "div"}, brand.Default()); f != nil {
		t.Fatalf("div: %+v", f)
	}
}

func TestBestPracticesRule(t *testing.T) {
	el := snapshot.Element{Tag: "div", FontFamily: "Inter", FontSize: 16, BoxShadow: "none", ChildCount: 9, Text: "x"}
	f := checkBestPractices(el, brand.Default())
	if f == nil {
		t.Fatal("no finding")
	}
	if f.Type != TypeDesignBestPractice || f.Severity != SeverityWarn || f.Principle != "cognitive-load" {
		t.Fatalf("finding: %+v", f)
	}
	if !strings.Contains(f.SuggestedCode, `<div className="space-y-4">`) {
		t.Fatalf("canned snippet expected, got %q", f.SuggestedCode)
	}

	el.ChildCount = 0
	el.Outline = "none"
	f = checkBestPractices(el, brand.Default())
	if f == nil || f.Severity != SeverityError || f.Category != "Accessibility" {
		t.Fatalf("focus finding: %+v", f)
	}
	if f.SuggestedCode != `className="focus:outline-none focus:ring-2 focus:ring-blue-500 focus:ring-offset-2"` {
		t.Fatalf("fix: %q", f.SuggestedCode)
	}
}

func TestEngine_ButtonScenario(t *testing.T) {
	e := NewEngine(WithIDGenerator(idgen.Sequence("fnd_")))
	fs := e.Analyze(elements(t, `<button style="color:#fff;background:#fff">Go</button>`), brand.Default())
	c := ofType(fs, TypeContrast)
	if len(c) != 1 || c[0].Severity != SeverityError {
		t.Fatalf("contrast findings: %+v", c)
	}
	if !strings.Contains(c[0].Suggestion, "from 1.00:1 to at least 4.5:1") {
		t.Fatalf("suggestion: %s", c[0].Suggestion)
	}
	m := ofType(fs, TypeComponentMisuse)
	if len(m) != 1 || m[0].Tag != "button" {
		t.Fatalf("misuse findings: %+v", m)
	}
	if fs[0].ID != "fnd_1" || fs[0].Rule != "contrast-check" {
		t.Fatalf("first finding: %+v", fs[0])
	}
}

func TestEngine_SuggestedFragments(t *testing.T) {
	fs := NewEngine().Analyze(elements(t,
		`<button style="color:#fff;background:#fff">Go</button><div style="margin:13px;padding:15px">x</div>`),
		brand.Default())
	c := ofType(fs, TypeContrast)
	if len(c) != 1 || c[0].SuggestedCode != `<button style="color: #000000; background: #fff;">Go</button>` {
		t.Fatalf("contrast fragment: %+v", c)
	}
	s := ofType(fs, TypeSpacing)
	if len(s) != 1 || s[0].SuggestedCode != `<div style="margin:13px;padding:15px" class="p-6">x</div>` {
		t.Fatalf("spacing fragment: %+v", s)
	}
}

func TestEngine_BackgroundWithoutColor(t *testing.T) {
	for _, bg := range []string{"none", "url(hero.png)", "linear-gradient(#fff, #eee)", "inherit", "var(--bg)"} {
		fs := NewEngine().Analyze(elements(t, `<div style="background:`+bg+`">Readable black text</div>`), brand.Default())
		if c := ofType(fs, TypeContrast); len(c) != 0 {
			t.Errorf("background:%s: unexpected contrast finding %+v", bg, c[0])
		}
	}
}

func TestEngine_SpacingOnScale(t *testing.T) {
	fs := NewEngine().Analyze(elements(t, `<div style="margin:10px;padding:10px">x</div>`), brand.Default())
	if s := ofType(fs, TypeSpacing); len(s) != 0 {
		t.Fatalf("unexpected spacing findings: %+v", s)
	}
}

func TestEngine_Empty(t *testing.T) {
	fs := NewEngine().Analyze(elements(t, ``), brand.Default())
	if fs == nil || len(fs) != 0 {
		t.Fatalf("findings: %#v", fs)
	}
}

func TestEngine_TraversalOrder(t *testing.T) {
	fs := NewEngine().Analyze(elements(t, `<input style="padding:9px"><button>b</button>`), brand.Default())
	var tags []string
	for _, f := range fs {
		tags = append(tags, f.Tag)
	}
	if len(tags) < 2 || tags[0] != "input" || tags[len(tags)-1] != "button" {
		t.Fatalf("order: %v", tags)
	}
}

func TestEngine_PanickingRule(t *testing.T) {
	boom := Rule{ID: "boom", Check: func(snapshot.Element, brand.Profile) *Finding { panic("x") }}
	ok := Rule{ID: "ok", Check: func(el snapshot.Element, _ brand.Profile) *Finding { return &Finding{Type: "t"} }}
	fs := NewEngine(WithRules(boom, ok)).Analyze([]snapshot.Element{{Tag: "p"}}, brand.Default())
	if len(fs) != 1 || fs[0].Rule != "ok" {
		t.Fatalf("findings: %+v", fs)
	}
}

func TestGroup(t *testing.T) {
	fs := []Finding{
		{ID: "1", Type: TypeSpacing, Severity: SeverityWarn},
		{ID: "2", Type: TypeContrast, Severity: SeverityError},
		{ID: "3", Type: TypeComponentMisuse, Severity: SeverityWarn},
		{ID: "4", Type: TypeSpacing, Severity: SeverityWarn},
	}
	g := Group(fs)
	if len(g) != 2 || g[0].Severity != SeverityError || g[1].Count != 3 {
		t.Fatalf("groups: %+v", g)
	}
	if g[1].Types[0].Type != TypeSpacing || len(g[1].Types[0].Findings) != 2 {
		t.Fatalf("warn types: %+v", g[1].Types)
	}
}
