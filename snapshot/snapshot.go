// Package snapshot describes the computed data the rule set needs for each
// inspected element, and resolves it statically from parsed markup when no
// live browser is available.
package snapshot

// Rect is the bounding geometry of an element in CSS pixels.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Element is the computed view of one page element.
//
// Margin and Padding hold the top edge of the computed shorthand, the value
// a float parse of the browser's "margin"/"padding" string yields.
// HasLayout is false when no geometry could be measured.
type Element struct {
	Tag        string  `json:"tag"`
	Rect       Rect    `json:"rect"`
	HasLayout  bool    `json:"has_layout"`
	Background string  `json:"background"`
	Color      string  `json:"color"`
	Margin     float64 `json:"margin"`
	Padding    float64 `json:"padding"`
	FontSize   float64 `json:"font_size"`
	FontWeight float64 `json:"font_weight"`
	FontFamily string  `json:"font_family"`
	Outline    string  `json:"outline"`
	BoxShadow  string  `json:"box_shadow"`
	ChildCount int     `json:"child_count"`
	OuterHTML  string  `json:"outer_html"`
	Text       string  `json:"text"`
}

// Selector is the set of tags the analysis engine inspects.
var Selector = []string{
	"button", "input", "a", "p",
	"h1", "h2", "h3", "h4", "h5", "h6",
	"div", "span",
}

// Inspected reports whether tag belongs to Selector.
func Inspected(tag string) bool {
	for _, s := range Selector {
		if s == tag {
			return true
		}
	}
	return false
}

// Stats counts inspected elements by kind.
type Stats struct {
	Total      int `json:"total"`
	Buttons    int `json:"buttons"`
	Inputs     int `json:"inputs"`
	Links      int `json:"links"`
	Headings   int `json:"headings"`
	Paragraphs int `json:"paragraphs"`
}

// Count tallies the inspected elements of els.
func Count(els []Element) Stats {
	var s Stats
	for _, e := range els {
		if !Inspected(e.Tag) {
			continue
		}
		s.Total++
		switch e.Tag {
		case "button":
			s.Buttons++
		case "input":
			s.Inputs++
		case "a":
			s.Links++
		case "h1", "h2", "h3", "h4", "h5", "h6":
			s.Headings++
		case "p":
			s.Paragraphs++
		}
	}
	return s
}
