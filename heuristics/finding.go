// Package heuristics runs the UI rule set over element snapshots and
// reports findings.
package heuristics

import (
	"github.com/hazyhaar/uxrefactor/snapshot"
)

// Finding types.
const (
	TypeContrast           = "contrast"
	TypeSpacing            = "spacing"
	TypeComponentMisuse    = "component-misuse"
	TypeDesignBestPractice = "design-best-practice"
)

// Severities.
const (
	SeverityError = "error"
	SeverityWarn  = "warn"
)

// Finding is one detected UI defect. Findings are values; the engine
// produces a fresh slice per analysis.
type Finding struct {
	ID            string        `json:"id"`
	Rule          string        `json:"rule"`
	Type          string        `json:"type"`
	Severity      string        `json:"severity"`
	Tag           string        `json:"tag"`
	Location      snapshot.Rect `json:"location"`
	Suggestion    string        `json:"suggestion"`
	OriginalCode  string        `json:"original_code"`
	SuggestedCode string        `json:"suggested_code,omitempty"`
	Principle     string        `json:"principle,omitempty"`
	Category      string        `json:"category,omitempty"`
}

// Group buckets findings by severity then type, keeping traversal order
// inside each bucket. Errors sort before warnings.
func Group(findings []Finding) []SeverityGroup {
	var out []SeverityGroup
	for _, sev := range []string{SeverityError, SeverityWarn} {
		g := SeverityGroup{Severity: sev}
		idx := map[string]int{}
		for _, f := range findings {
			if f.Severity != sev {
				continue
			}
			i, ok := idx[f.Type]
			if !ok {
				i = len(g.Types)
				idx[f.Type] = i
				g.Types = append(g.Types, TypeGroup{Type: f.Type})
			}
			g.Types[i].Findings = append(g.Types[i].Findings, f)
			g.Count++
		}
		if g.Count > 0 {
			out = append(out, g)
		}
	}
	return out
}

// SeverityGroup holds the findings of one severity.
type SeverityGroup struct {
	Severity string      `json:"severity"`
	Count    int         `json:"count"`
	Types    []TypeGroup `json:"types"`
}

// TypeGroup holds the findings of one type within a severity.
type TypeGroup struct {
	Type     string    `json:"type"`
	Findings []Finding `json:"findings"`
}
