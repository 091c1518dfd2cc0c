// Package remedy patches extracted source text according to findings and
// diffs the result against the original.
//
// Patching is textual. Class-list markers from spacing and contrast
// findings are appended to every className attribute in the text, not only
// to the offending element, and a component replacement only touches the
// first literal occurrence of the original fragment.
package remedy

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/hazyhaar/uxrefactor/brand"
	"github.com/hazyhaar/uxrefactor/heuristics"
	"github.com/hazyhaar/uxrefactor/spacing"
)

// ContrastMarker is appended to class lists when any contrast finding exists.
const ContrastMarker = "text-foreground bg-background"

var (
	pixelRe     = regexp.MustCompile(`(\d+(?:\.\d+)?)px`)
	classNameRe = regexp.MustCompile(`className="([^"]*)"`)
	spaceRunRe  = regexp.MustCompile(`\s+`)
	betweenRe   = regexp.MustCompile(`>\s+<`)
	blankLineRe = regexp.MustCompile(`\n\s*\n`)
)

// steps run in order over the source text.
var steps = []func(code string, findings []heuristics.Finding) string{
	applyComponents,
	applySpacing,
	applyContrast,
}

// Remediate applies component, spacing and contrast fixes in that order and
// formats the result. If anything goes wrong the source is returned as is.
func Remediate(source string, findings []heuristics.Finding, _ brand.Profile) (out string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("remedy: remediation failed, returning source", "panic", r)
			out = source
		}
	}()
	code := source
	for _, step := range steps {
		code = step(code, findings)
	}
	return Format(code)
}

func applyComponents(code string, findings []heuristics.Finding) string {
	for _, f := range findings {
		if f.Type != heuristics.TypeComponentMisuse || f.OriginalCode == "" || f.SuggestedCode == "" {
			continue
		}
		code = strings.Replace(code, f.OriginalCode, f.SuggestedCode, 1)
	}
	return code
}

func applySpacing(code string, findings []heuristics.Finding) string {
	for _, f := range findings {
		if f.Type != heuristics.TypeSpacing {
			continue
		}
		m := pixelRe.FindStringSubmatch(f.Suggestion)
		if m == nil {
			continue
		}
		px, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		code = appendClass(code, "p-"+spacing.Token(px))
	}
	return code
}

func applyContrast(code string, findings []heuristics.Finding) string {
	for _, f := range findings {
		if f.Type == heuristics.TypeContrast {
			return appendClass(code, ContrastMarker)
		}
	}
	return code
}

// appendClass adds class to every className attribute in code.
func appendClass(code, class string) string {
	return classNameRe.ReplaceAllStringFunc(code, func(attr string) string {
		classes := classNameRe.FindStringSubmatch(attr)[1]
		return `className="` + classes + " " + class + `"`
	})
}

// Format collapses whitespace, puts each adjacent tag on its own line and
// drops blank lines. Format(Format(s)) == Format(s).
func Format(code string) string {
	code = spaceRunRe.ReplaceAllString(code, " ")
	code = betweenRe.ReplaceAllString(code, ">\n<")
	code = blankLineRe.ReplaceAllString(code, "\n")
	return strings.TrimSpace(code)
}
