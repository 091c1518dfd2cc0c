package remedy

import (
	"strings"
	"testing"

	"github.com/hazyhaar/uxrefactor/brand"
	"github.com/hazyhaar/uxrefactor/heuristics"
)

func TestFormat(t *testing.T) {
	in := "<body>\n  <div className=\"a\">\n\n    <p>hello   world</p>\n  </div>\n</body>\n"
	want := "<body>\n<div className=\"a\">\n<p>hello world</p>\n</div>\n</body>"
	if got := Format(in); got != want {
		t.Fatalf("Format:\n%q\nwant\n%q", got, want)
	}
}

func TestFormat_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"<a>x</a> <b> y </b>",
		"<body>\n  <div className=\"card\">\n    <h1>Title</h1>\n\n\n  </div>\n</body>",
		"text only\n\n\twith\ttabs",
	}
	for _, in := range inputs {
		once := Format(in)
		if twice := Format(once); twice != once {
			t.Errorf("Format not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}

func TestRemediate_ComponentFirstOccurrence(t *testing.T) {
	src := "<div>\n  <button>Go</button>\n  <button>Go</button>\n</div>"
	fs := []heuristics.Finding{{
		Type:          heuristics.TypeComponentMisuse,
		OriginalCode:  "<button>Go</button>",
		SuggestedCode: `<Button variant="default">Go</Button>`,
	}}
	got := Remediate(src, fs, brand.Default())
	want := "<div>\n<Button variant=\"default\">Go</Button>\n<button>Go</button>\n</div>"
	if got != want {
		t.Fatalf("got\n%s\nwant\n%s", got, want)
	}
}

func TestRemediate_SpacingGlobal(t *testing.T) {
	src := `<div className="a"><span className="b">x</span></div>`
	fs := []heuristics.Finding{{
		Type:       heuristics.TypeSpacing,
		Suggestion: "Use consistent spacing: 24px instead of 28px. Consider using Tailwind classes like 'p-6' or 'm-6'.",
	}}
	got := Remediate(src, fs, brand.Default())
	// adjacent tags without whitespace between them stay on one line
	want := `<div className="a p-6"><span className="b p-6">x</span></div>`
	if got != want {
		t.Fatalf("got %q", got)
	}
}

func TestRemediate_FailureReturnsSource(t *testing.T) {
	saved := steps
	t.Cleanup(func() { steps = saved })
	steps = append([]func(string, []heuristics.Finding) string{applyContrast}, func(string, []heuristics.Finding) string {
		panic("patch failed")
	})

	src := "<div className=\"a\">\n\n  x</div>"
	got := Remediate(src, []heuristics.Finding{{Type: heuristics.TypeContrast}}, brand.Default())
	if got != src {
		t.Fatalf("got %q, want the unmodified source", got)
	}
}

func TestRemediate_ContrastOnce(t *testing.T) {
	src := `<div className="a">x</div>`
	fs := []heuristics.Finding{
		{Type: heuristics.TypeContrast},
		{Type: heuristics.TypeContrast},
	}
	got := Remediate(src, fs, brand.Default())
	if got != `<div className="a text-foreground bg-background">x</div>` {
		t.Fatalf("got %q", got)
	}
}

func TestRemediate_Order(t *testing.T) {
	src := "<body>\n  <button style=\"color:#fff\">Go</button>\n</body>"
	fs := []heuristics.Finding{
		{Type: heuristics.TypeContrast},
		{Type: heuristics.TypeSpacing, Suggestion: "Use consistent spacing: 16px instead of 20px."},
		{Type: heuristics.TypeComponentMisuse, OriginalCode: `<button style="color:#fff">Go</button>`, SuggestedCode: `<Button className="x">Go</Button>`},
	}
	got := Remediate(src, fs, brand.Default())
	if !strings.Contains(got, `<Button className="x p-4 text-foreground bg-background">Go</Button>`) {
		t.Fatalf("got %q", got)
	}
}

func TestRemediate_NoFindings(t *testing.T) {
	src := "<body>\n  <p>hi</p>\n</body>"
	if got := Remediate(src, nil, brand.Default()); got != Format(src) {
		t.Fatalf("got %q", got)
	}
}

func TestDiff_Identical(t *testing.T) {
	d := Diff("<body />", "<body />")
	if d.UnifiedDiff != "" || len(d.Changes) != 0 || d.Changes == nil {
		t.Fatalf("diff: %+v", d)
	}
}

func TestDiff_Changes(t *testing.T) {
	orig := "a\nb\nc\nd"
	gen := "a\nB\nc\nd\ne"
	d := Diff(orig, gen)
	if !strings.HasPrefix(d.UnifiedDiff, "--- original.jsx\n+++ improved.jsx\n") {
		t.Fatalf("unified diff header: %q", d.UnifiedDiff)
	}
	if !strings.Contains(d.UnifiedDiff, "-b\n") || !strings.Contains(d.UnifiedDiff, "+B\n") {
		t.Fatalf("unified diff body: %q", d.UnifiedDiff)
	}
	var kinds []string
	for _, c := range d.Changes {
		if c.Line != 0 {
			t.Fatalf("line tracked: %+v", c)
		}
		kinds = append(kinds, c.Type+":"+c.Content)
	}
	got := strings.Join(kinds, ",")
	if !strings.Contains(got, "modified:B") {
		t.Fatalf("changes: %s", got)
	}
	if len(d.Changes) < 2 {
		t.Fatalf("changes: %s", got)
	}
}

func TestDiff_RemovedAndAdded(t *testing.T) {
	d := Diff("x\ny\nz\n", "x\n")
	for _, c := range d.Changes {
		if c.Type != Removed {
			t.Fatalf("unexpected change %+v", c)
		}
	}
	if len(d.Changes) != 2 {
		t.Fatalf("changes: %+v", d.Changes)
	}
	d = Diff("", "p\nq")
	if len(d.Changes) != 2 || d.Changes[0].Type != Added {
		t.Fatalf("changes: %+v", d.Changes)
	}
}
