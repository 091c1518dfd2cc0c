package pipeline

import (
	"strings"
	"testing"
	"time"

	"github.com/hazyhaar/uxrefactor/brand"
	"github.com/hazyhaar/uxrefactor/capture"
	"github.com/hazyhaar/uxrefactor/heuristics"
	"github.com/hazyhaar/uxrefactor/idgen"
	"github.com/hazyhaar/uxrefactor/remedy"
)

func static(t *testing.T, markup string) capture.Result {
	t.Helper()
	res, err := capture.FromHTML("https://example.test/", markup, "")
	if err != nil {
		t.Fatal(err)
	}
	return *res
}

func countType(fs []heuristics.Finding, typ string) int {
	n := 0
	for _, f := range fs {
		if f.Type == typ {
			n++
		}
	}
	return n
}

func TestRun_LowContrastButton(t *testing.T) {
	a := Run(static(t, `<button style="color:#fff;background:#fff">Go</button>`), brand.Default())

	if n := countType(a.Findings, heuristics.TypeContrast); n != 1 {
		t.Fatalf("contrast findings: got %d, want 1", n)
	}
	if n := countType(a.Findings, heuristics.TypeComponentMisuse); n != 1 {
		t.Fatalf("component findings: got %d, want 1", n)
	}
	if !strings.Contains(a.Generated, "<Button") {
		t.Errorf("generated should use the Button component:\n%s", a.Generated)
	}
	if strings.Contains(a.Generated, "<button") {
		t.Errorf("raw button should be replaced:\n%s", a.Generated)
	}
	if !strings.Contains(a.Generated, remedy.ContrastMarker) {
		t.Errorf("generated should carry the contrast marker:\n%s", a.Generated)
	}
	if len(a.Diff.Changes) == 0 || a.Diff.UnifiedDiff == "" {
		t.Errorf("expected a non-empty diff: %+v", a.Diff)
	}
	if a.Stats.Buttons != 1 {
		t.Errorf("stats: %+v", a.Stats)
	}
}

func TestRun_FindingsCarryFragments(t *testing.T) {
	a := Run(static(t, `<button style="color:#fff;background:#fff">Go</button><div style="margin:13px;padding:15px">x</div>`), brand.Default())
	for _, typ := range []string{heuristics.TypeContrast, heuristics.TypeSpacing, heuristics.TypeComponentMisuse} {
		if countType(a.Findings, typ) == 0 {
			t.Errorf("no %s finding", typ)
		}
	}
	for _, f := range a.Findings {
		switch f.Type {
		case heuristics.TypeContrast, heuristics.TypeSpacing, heuristics.TypeComponentMisuse:
			if f.SuggestedCode == "" || f.OriginalCode == "" {
				t.Errorf("%s on <%s>: original %q suggested %q", f.Type, f.Tag, f.OriginalCode, f.SuggestedCode)
			}
		}
	}
}

func TestRun_NoElements(t *testing.T) {
	res := static(t, "")
	a := Run(res, brand.Default())
	if len(a.Findings) != 0 {
		t.Fatalf("findings: %+v", a.Findings)
	}
	if a.Generated != remedy.Format(res.Source) {
		t.Errorf("generated: got %q, want %q", a.Generated, remedy.Format(res.Source))
	}
	if len(a.Diff.Changes) != 0 {
		t.Errorf("changes: %+v", a.Diff.Changes)
	}
}

func TestRun_EmptySource(t *testing.T) {
	a := Run(capture.Result{}, brand.Default())
	if a.Findings == nil || len(a.Findings) != 0 {
		t.Fatalf("findings: %#v", a.Findings)
	}
	if a.Generated != "" || len(a.Diff.Changes) != 0 {
		t.Errorf("generated %q changes %+v", a.Generated, a.Diff.Changes)
	}
}

func TestRun_SpacingOnScale(t *testing.T) {
	a := Run(static(t, `<div style="margin:10px;padding:10px">text</div>`), brand.Default())
	if n := countType(a.Findings, heuristics.TypeSpacing); n != 0 {
		t.Fatalf("spacing findings: got %d, want 0", n)
	}
}

func TestRun_Metadata(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	res := static(t, `<p>hello</p>`)
	res.Screenshot = []byte{1, 2}
	p := brand.Default()
	p.SpacingScale = []float64{8, 4, 4}

	a := Run(res, p, WithIDGenerator(idgen.Sequence("ana_")), WithClock(func() time.Time { return at }))
	if a.ID != "ana_1" {
		t.Errorf("id: %q", a.ID)
	}
	if !a.Timestamp.Equal(at) || a.Timestamp.Location() != time.UTC {
		t.Errorf("timestamp: %v", a.Timestamp)
	}
	if a.ProfileID != brand.DefaultID || a.URL != res.URL || a.Level != capture.LevelStatic {
		t.Errorf("metadata: %+v", a)
	}
	if a.SourceHash != Hash(res.Source) || a.SourceHash == Hash("") {
		t.Errorf("hash: %q", a.SourceHash)
	}
	if len(a.Screenshot) != 2 {
		t.Error("screenshot should be carried over")
	}
}

func TestRun_Independent(t *testing.T) {
	res := static(t, `<button style="color:#fff;background:#fff">Go</button>`)
	a := Run(res, brand.Default())
	b := Run(res, brand.Default())
	if a.ID == b.ID {
		t.Error("each cycle needs its own id")
	}
	a.Findings[0].Suggestion = "mutated"
	if b.Findings[0].Suggestion == "mutated" {
		t.Error("cycles must not share findings")
	}
}

func TestHash(t *testing.T) {
	if Hash("a") == Hash("b") {
		t.Error("distinct inputs should hash differently")
	}
	if Hash("a") != Hash("a") {
		t.Error("hash must be stable")
	}
}
