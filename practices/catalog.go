// Package practices is the static catalog of UX/UI design principles and
// the few executable checks bound to them.
//
// The catalog is package-level data built once at init and never mutated.
// Accessors return copies so callers cannot alter it.
package practices

import (
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Severity tiers of a principle.
const (
	Critical    = "critical"
	Important   = "important"
	Recommended = "recommended"
)

// Principle is one catalog entry.
type Principle struct {
	ID          string   `json:"id"`
	Category    string   `json:"category"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Checklist   []string `json:"checklist"`
	Severity    string   `json:"severity"`
}

var principles = []Principle{
	{
		ID: "design-system-consistency", Category: "Design System", Name: "Component Consistency",
		Description: "Ensure components follow consistent design patterns and reuse established components",
		Checklist: []string{
			"Use standardized components from design system",
			"Maintain consistent spacing and typography",
			"Follow established color palette",
			"Ensure component reusability",
		},
		Severity: Critical,
	},
	{
		ID: "design-tokens", Category: "Design System", Name: "Design Tokens",
		Description: "Use design tokens for colors, spacing, typography, and other design values",
		Checklist: []string{
			"Use CSS custom properties for colors",
			"Implement consistent spacing scale",
			"Standardize typography scale",
			"Maintain token documentation",
		},
		Severity: Important,
	},
	{
		ID: "clarity-simplicity", Category: "Design Principles", Name: "Clarity and Simplicity",
		Description: "Design should be clear, purposeful, and free of unnecessary elements",
		Checklist: []string{
			"Remove unnecessary elements",
			"Clear visual hierarchy",
			"Purposeful design elements",
			"Minimal cognitive load",
		},
		Severity: Critical,
	},
	{
		ID: "visual-hierarchy", Category: "Design Principles", Name: "Visual Hierarchy",
		Description: "Guide user attention through size, color, and whitespace",
		Checklist: []string{
			"Clear heading structure",
			"Consistent typography scale",
			"Appropriate use of color",
			"Effective use of whitespace",
		},
		Severity: Important,
	},
	{
		ID: "immediate-feedback", Category: "Design Principles", Name: "Immediate Feedback",
		Description: "Users need to see that their actions have been registered",
		Checklist: []string{
			"Button state changes",
			"Loading indicators",
			"Success confirmations",
			"Clear error messages",
		},
		Severity: Critical,
	},
	{
		ID: "system-status-visibility", Category: "Usability Heuristics", Name: "System Status Visibility",
		Description: "Keep users informed about what is going on through appropriate feedback",
		Checklist: []string{
			"Loading states for actions",
			"Progress indicators",
			"Status messages",
			"Clear system feedback",
		},
		Severity: Critical,
	},
	{
		ID: "user-control-freedom", Category: "Usability Heuristics", Name: "User Control and Freedom",
		Description: "Users should be able to undo/redo actions and exit easily",
		Checklist: []string{
			"Cancel buttons on modals",
			"Back navigation",
			"Undo functionality",
			"Clear exit paths",
		},
		Severity: Important,
	},
	{
		ID: "consistency-standards", Category: "Usability Heuristics", Name: "Consistency and Standards",
		Description: "Follow platform conventions and maintain internal consistency",
		Checklist: []string{
			"Platform-specific patterns",
			"Internal consistency",
			"Standardized interactions",
			"Familiar conventions",
		},
		Severity: Critical,
	},
	{
		ID: "error-prevention", Category: "Usability Heuristics", Name: "Error Prevention",
		Description: "Prevent errors and provide graceful error handling",
		Checklist: []string{
			"Inline form validation",
			"Confirmation dialogs",
			"Clear error messages",
			"Prevent destructive actions",
		},
		Severity: Important,
	},
	{
		ID: "cognitive-load", Category: "Cognitive Principles", Name: "Cognitive Load Management",
		Description: "Keep interfaces simple and avoid overwhelming users with choices",
		Checklist: []string{
			"Limit options (7±2 rule)",
			"Group related items",
			"Highlight essential actions",
			"Progressive disclosure",
		},
		Severity: Important,
	},
	{
		ID: "hick-law", Category: "Cognitive Principles", Name: "Hick's Law",
		Description: "Decision time increases with the number and complexity of choices",
		Checklist: []string{
			"Minimize choice options",
			"Simplify decision trees",
			"Clear default selections",
			"Streamlined workflows",
		},
		Severity: Recommended,
	},
	{
		ID: "fitts-law", Category: "Cognitive Principles", Name: "Fitts's Law",
		Description: "Target acquisition depends on size and distance",
		Checklist: []string{
			"Adequate touch targets (44px+)",
			"Strategic button placement",
			"Reduced travel distance",
			"Larger targets for important actions",
		},
		Severity: Important,
	},
	{
		ID: "color-contrast", Category: "Accessibility", Name: "Color Contrast",
		Description: "Ensure sufficient color contrast for text readability",
		Checklist: []string{
			"WCAG 2.2 AA compliance",
			"4.5:1 ratio for normal text",
			"3:1 ratio for large text",
			"Color-independent information",
		},
		Severity: Critical,
	},
	{
		ID: "keyboard-navigation", Category: "Accessibility", Name: "Keyboard Navigation",
		Description: "Ensure all interactive elements are keyboard accessible",
		Checklist: []string{
			"Tab order logical",
			"Focus indicators visible",
			"Skip links available",
			"No keyboard traps",
		},
		Severity: Critical,
	},
	{
		ID: "screen-reader-support", Category: "Accessibility", Name: "Screen Reader Support",
		Description: "Provide proper ARIA labels and semantic HTML",
		Checklist: []string{
			"Semantic HTML elements",
			"ARIA labels and roles",
			"Alt text for images",
			"Descriptive link text",
		},
		Severity: Important,
	},
	{
		ID: "mobile-first", Category: "Responsive Design", Name: "Mobile-First Design",
		Description: "Design for mobile users first, then enhance for larger screens",
		Checklist: []string{
			"Touch-friendly targets",
			"Responsive breakpoints",
			"Mobile navigation patterns",
			"Optimized content layout",
		},
		Severity: Important,
	},
	{
		ID: "touch-targets", Category: "Responsive Design", Name: "Touch Target Size",
		Description: "Ensure touch targets are large enough for mobile interaction",
		Checklist: []string{
			"Minimum 44x44px targets",
			"Adequate spacing between targets",
			"Thumb-friendly placement",
			"Visual feedback on touch",
		},
		Severity: Important,
	},
	{
		ID: "user-autonomy", Category: "Ethical Design", Name: "User Autonomy",
		Description: "Respect user control and avoid manipulative patterns",
		Checklist: []string{
			"Clear privacy controls",
			"Opt-out options",
			"No dark patterns",
			"Transparent data usage",
		},
		Severity: Important,
	},
	{
		ID: "inclusive-design", Category: "Ethical Design", Name: "Inclusive Design",
		Description: "Design for diverse users and avoid exclusionary patterns",
		Checklist: []string{
			"Cultural sensitivity",
			"Language accessibility",
			"Diverse user representation",
			"Universal design principles",
		},
		Severity: Recommended,
	},
}

var byID = func() map[string]int {
	m := make(map[string]int, len(principles))
	for i, p := range principles {
		m[p.ID] = i
	}
	return m
}()

func clone(p Principle) Principle {
	p.Checklist = slices.Clone(p.Checklist)
	return p
}

// All returns every principle in catalog order.
func All() []Principle {
	out := make([]Principle, len(principles))
	for i, p := range principles {
		out[i] = clone(p)
	}
	return out
}

// ByID returns the principle with the given ID.
func ByID(id string) (Principle, bool) {
	i, ok := byID[id]
	if !ok {
		return Principle{}, false
	}
	return clone(principles[i]), true
}

// ByCategory returns the principles of a category, in catalog order.
// Matching ignores case.
func ByCategory(category string) []Principle {
	var out []Principle
	for _, p := range principles {
		if strings.EqualFold(p.Category, category) {
			out = append(out, clone(p))
		}
	}
	return out
}

// Categories lists the distinct categories in catalog order.
func Categories() []string {
	var out []string
	for _, p := range principles {
		if !slices.Contains(out, p.Category) {
			out = append(out, p.Category)
		}
	}
	return out
}

// SuggestCategory returns the category closest to name by edit distance,
// for "did you mean" hints on mistyped lookups.
func SuggestCategory(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	best, bestDist := "", -1
	for _, c := range Categories() {
		d := levenshtein.ComputeDistance(name, strings.ToLower(c))
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

var recommendations = map[string][]string{
	"button":     {"design-system-consistency", "fitts-law", "keyboard-navigation"},
	"input":      {"design-system-consistency", "error-prevention", "keyboard-navigation"},
	"form":       {"cognitive-load", "error-prevention", "user-control-freedom"},
	"navigation": {"visual-hierarchy", "consistency-standards", "mobile-first"},
	"modal":      {"user-control-freedom", "system-status-visibility", "keyboard-navigation"},
}

// Recommend returns the principles relevant to an element type such as
// "button" or "modal", in catalog order. Unknown types yield nil.
func Recommend(elementType string) []Principle {
	ids := recommendations[strings.ToLower(elementType)]
	var out []Principle
	for _, p := range principles {
		if slices.Contains(ids, p.ID) {
			out = append(out, clone(p))
		}
	}
	return out
}

// ElementTypes lists the element types Recommend knows about.
func ElementTypes() []string {
	out := make([]string, 0, len(recommendations))
	for k := range recommendations {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

var codeSuggestions = map[string]string{
	"design-system-consistency": "\n// Use design system component\n<Button variant=\"primary\" size=\"md\">\n  %TEXT%\n</Button>",
	"fitts-law":                 "\n// Ensure adequate touch target size\nclassName=\"min-w-[44px] min-h-[44px] px-4 py-2\"",
	"keyboard-navigation":       "\n// Add focus indicators\nclassName=\"focus:outline-none focus:ring-2 focus:ring-blue-500 focus:ring-offset-2\"",
	"color-contrast":            "\n// Use high contrast colors\nclassName=\"text-gray-900 bg-white border border-gray-300\"",
	"cognitive-load":            "\n// Group related items\n<div className=\"space-y-4\">\n  {/* Group related form fields */}\n</div>",
}

// CodeSuggestion returns the canned snippet for a principle. text is the
// element's text content, used by snippets that wrap it.
func CodeSuggestion(p Principle, text string) string {
	s, ok := codeSuggestions[p.ID]
	if !ok {
		return "// Apply " + p.Name + " principles"
	}
	return strings.ReplaceAll(s, "%TEXT%", text)
}
