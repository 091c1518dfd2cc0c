// Package brand holds the brand profile used as the yardstick for analysis.
package brand

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// DefaultID is the identifier of the built-in profile.
const DefaultID = "default"

// Profile is a brand style standard: colors, typography and spacing scale.
type Profile struct {
	ID           string    `json:"id" yaml:"id"`
	Name         string    `json:"name" yaml:"name"`
	Primary      string    `json:"primary_color" yaml:"primary_color"`
	Secondary    string    `json:"secondary_color" yaml:"secondary_color"`
	Accents      []string  `json:"accent_colors" yaml:"accent_colors"`
	FontFamily   string    `json:"font_family" yaml:"font_family"`
	SpacingScale []float64 `json:"spacing_scale" yaml:"spacing_scale"`
}

// Default returns the built-in profile. Each call returns a fresh copy.
func Default() Profile {
	return Profile{
		ID:         DefaultID,
		Name:       "Default",
		Primary:    "#3b82f6",
		Secondary:  "#64748b",
		Accents:    []string{"#f59e0b", "#10b981", "#ef4444"},
		FontFamily: "Inter",
		SpacingScale: []float64{
			2, 4, 8, 12, 16, 20, 24, 32, 40, 48, 64, 80, 96,
		},
	}
}

// AccentNames labels the default accents in the profile editor.
var AccentNames = map[string]string{
	"#f59e0b": "amber",
	"#10b981": "emerald",
	"#ef4444": "red",
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-f]{3}|[0-9a-f]{6})$`)

// Normalize lower-cases and trims colors, drops empty accents and sorts and
// de-duplicates the spacing scale. The receiver is not modified.
func (p Profile) Normalize() Profile {
	out := p
	out.Name = strings.TrimSpace(p.Name)
	out.FontFamily = strings.TrimSpace(p.FontFamily)
	out.Primary = normColor(p.Primary)
	out.Secondary = normColor(p.Secondary)
	out.Accents = nil
	for _, a := range p.Accents {
		if a = normColor(a); a != "" {
			out.Accents = append(out.Accents, a)
		}
	}
	out.SpacingScale = slices.Clone(p.SpacingScale)
	slices.Sort(out.SpacingScale)
	out.SpacingScale = slices.Compact(out.SpacingScale)
	return out
}

func normColor(c string) string {
	return strings.ToLower(strings.TrimSpace(c))
}

// ValidationError lists every invalid field of a profile.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "brand: invalid profile: " + strings.Join(parts, "; ")
}

// Validate checks colors and spacing scale. It expects a normalized profile:
// the scale must be non-empty, positive and strictly ascending.
func (p Profile) Validate() error {
	bad := map[string]string{}
	if !hexColor.MatchString(p.Primary) {
		bad["primary_color"] = fmt.Sprintf("%q is not a hex color", p.Primary)
	}
	if !hexColor.MatchString(p.Secondary) {
		bad["secondary_color"] = fmt.Sprintf("%q is not a hex color", p.Secondary)
	}
	for i, a := range p.Accents {
		if !hexColor.MatchString(a) {
			bad[fmt.Sprintf("accent_colors[%d]", i)] = fmt.Sprintf("%q is not a hex color", a)
		}
	}
	switch {
	case len(p.SpacingScale) == 0:
		bad["spacing_scale"] = "empty"
	case p.SpacingScale[0] <= 0:
		bad["spacing_scale"] = "values must be positive"
	default:
		for i := 1; i < len(p.SpacingScale); i++ {
			if p.SpacingScale[i] <= p.SpacingScale[i-1] {
				bad["spacing_scale"] = "not strictly ascending"
				break
			}
		}
	}
	if len(bad) > 0 {
		return &ValidationError{Fields: bad}
	}
	return nil
}
