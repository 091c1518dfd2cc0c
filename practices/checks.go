package practices

import (
	"github.com/hazyhaar/uxrefactor/brand"
	"github.com/hazyhaar/uxrefactor/snapshot"
)

// MinTouchTarget is the smallest comfortable touch target edge in pixels.
const MinTouchTarget = 44

// MaxChildren is the largest number of direct children before an element
// is considered to overload the user.
const MaxChildren = 7

// Check binds a principle to a predicate over an element. Fix is nil when
// the check has no generator of its own.
type Check struct {
	ID          string
	PrincipleID string
	Passes      func(el snapshot.Element, p brand.Profile) bool
	Suggestion  string
	Fix         func(el snapshot.Element) string
}

// Principle returns the catalog entry the check is bound to.
func (c Check) Principle() Principle {
	p, _ := ByID(c.PrincipleID)
	return p
}

var checks = []Check{
	{
		ID:          "check-component-consistency",
		PrincipleID: "design-system-consistency",
		Passes: func(el snapshot.Element, _ brand.Profile) bool {
			return el.FontFamily != "" && el.FontSize > 0
		},
		Suggestion: "Use consistent design system components instead of custom styling",
	},
	{
		ID:          "check-touch-targets",
		PrincipleID: "fitts-law",
		Passes: func(el snapshot.Element, _ brand.Profile) bool {
			if el.Tag != "button" && el.Tag != "a" {
				return true
			}
			if !el.HasLayout {
				return true
			}
			return el.Rect.Width >= MinTouchTarget && el.Rect.Height >= MinTouchTarget
		},
		Suggestion: "Increase touch target size to at least 44x44px for better mobile usability",
		Fix: func(snapshot.Element) string {
			return `className="min-w-[44px] min-h-[44px] px-4 py-2"`
		},
	},
	{
		ID:          "check-focus-indicators",
		PrincipleID: "keyboard-navigation",
		Passes: func(el snapshot.Element, _ brand.Profile) bool {
			return el.Outline != "none" || el.BoxShadow != "none"
		},
		Suggestion: "Add visible focus indicators for keyboard navigation",
		Fix: func(snapshot.Element) string {
			return `className="focus:outline-none focus:ring-2 focus:ring-blue-500 focus:ring-offset-2"`
		},
	},
	{
		ID:          "check-cognitive-load",
		PrincipleID: "cognitive-load",
		Passes: func(el snapshot.Element, _ brand.Profile) bool {
			return el.ChildCount <= MaxChildren
		},
		Suggestion: "Reduce cognitive load by limiting options to 7 or fewer items",
	},
}

// Checks returns the executable checks in catalog order. Most principles
// have none and are only reachable through the lookup functions.
func Checks() []Check {
	out := make([]Check, len(checks))
	copy(out, checks)
	return out
}

// Result is the outcome of one check against one element.
type Result struct {
	Check  Check
	Passed bool
	// Fix is the check's own fix output, empty when it has none.
	Fix string
}

// Run evaluates every check against el.
func Run(el snapshot.Element, p brand.Profile) []Result {
	out := make([]Result, 0, len(checks))
	for _, c := range checks {
		r := Result{Check: c, Passed: c.Passes(el, p)}
		if c.Fix != nil {
			r.Fix = c.Fix(el)
		}
		out = append(out, r)
	}
	return out
}

// MostSevere picks the failing result to report: the first whose principle
// is critical, else the first failing one. ok is false when all passed.
func MostSevere(results []Result) (Result, bool) {
	var first *Result
	for i := range results {
		r := &results[i]
		if r.Passed {
			continue
		}
		if r.Check.Principle().Severity == Critical {
			return *r, true
		}
		if first == nil {
			first = r
		}
	}
	if first == nil {
		return Result{}, false
	}
	return *first, true
}
