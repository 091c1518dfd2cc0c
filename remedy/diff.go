package remedy

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Change kinds.
const (
	Added    = "added"
	Removed  = "removed"
	Modified = "modified"
)

// Change is one changed line. Line is not tracked and is always 0.
type Change struct {
	Type     string `json:"type"`
	Line     int    `json:"line"`
	Content  string `json:"content"`
	Previous string `json:"previous,omitempty"`
}

// DiffResult pairs the original and generated text with their diff.
type DiffResult struct {
	Original    string   `json:"original"`
	Generated   string   `json:"generated"`
	UnifiedDiff string   `json:"unified_diff"`
	Changes     []Change `json:"changes"`
}

// Diff computes a unified diff with three lines of context and the list of
// changed lines. Identical inputs give an empty diff and no changes.
func Diff(original, generated string) DiffResult {
	res := DiffResult{
		Original:  original,
		Generated: generated,
		Changes:   make([]Change, 0),
	}
	if original == generated {
		return res
	}

	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(generated),
		FromFile: "original.jsx",
		ToFile:   "improved.jsx",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(ud)
	if err == nil {
		res.UnifiedDiff = text
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(original, generated)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)
	res.Changes = changes(diffs)
	return res
}

// changes turns a line diff into per-line changes. A deletion directly
// followed by an insertion is reported line by line as modifications; the
// surplus of either side keeps its own kind.
func changes(diffs []diffmatchpatch.Diff) []Change {
	out := make([]Change, 0)
	for i := 0; i < len(diffs); i++ {
		d := diffs[i]
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			continue
		case diffmatchpatch.DiffInsert:
			for _, l := range splitLines(d.Text) {
				out = append(out, Change{Type: Added, Content: l})
			}
		case diffmatchpatch.DiffDelete:
			removed := splitLines(d.Text)
			var added []string
			if i+1 < len(diffs) && diffs[i+1].Type == diffmatchpatch.DiffInsert {
				added = splitLines(diffs[i+1].Text)
				i++
			}
			n := min(len(removed), len(added))
			for j := 0; j < n; j++ {
				out = append(out, Change{Type: Modified, Content: added[j], Previous: removed[j]})
			}
			for _, l := range removed[n:] {
				out = append(out, Change{Type: Removed, Content: l})
			}
			for _, l := range added[n:] {
				out = append(out, Change{Type: Added, Content: l})
			}
		}
	}
	return out
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}
