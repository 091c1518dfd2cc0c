package heuristics

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/hazyhaar/uxrefactor/brand"
	"github.com/hazyhaar/uxrefactor/contrast"
	"github.com/hazyhaar/uxrefactor/extract"
	"github.com/hazyhaar/uxrefactor/practices"
	"github.com/hazyhaar/uxrefactor/snapshot"
	"github.com/hazyhaar/uxrefactor/spacing"
)

// Rule inspects one element against a profile. Check returns nil when the
// element is fine or the data it needs is missing.
type Rule struct {
	ID          string
	Name        string
	Description string
	Check       func(el snapshot.Element, p brand.Profile) *Finding
}

// Rules returns the rule set in its fixed evaluation order.
func Rules() []Rule {
	return []Rule{
		{
			ID:          "contrast-check",
			Name:        "Color Contrast Check",
			Description: "Check if text has sufficient contrast against background",
			Check:       checkContrast,
		},
		{
			ID:          "spacing-check",
			Name:        "Spacing Consistency Check",
			Description: "Check if spacing follows consistent grid system",
			Check:       checkSpacing,
		},
		{
			ID:          "component-misuse",
			Name:        "Component Misuse Check",
			Description: "Check for raw HTML elements that should use accessible components",
			Check:       checkComponentMisuse,
		},
		{
			ID:          "design-best-practices",
			Name:        "Design Best Practices Check",
			Description: "Check for adherence to UX/UI design best practices",
			Check:       checkBestPractices,
		},
	}
}

func checkContrast(el snapshot.Element, _ brand.Profile) *Finding {
	if el.Background == "" || el.Color == "" || contrast.IsTransparent(el.Background) {
		return nil
	}
	ratio := contrast.Ratio(el.Background, el.Color)
	required := contrast.Required(el.FontSize, el.FontWeight)
	if ratio >= required {
		return nil
	}
	return &Finding{
		Type:     TypeContrast,
		Severity: SeverityError,
		Location: el.Rect,
		Suggestion: fmt.Sprintf(
			"Increase contrast ratio from %.2f:1 to at least %s:1. Consider using a darker text color or lighter background.",
			ratio, num(required)),
		OriginalCode:  el.OuterHTML,
		SuggestedCode: withStyle(el.OuterHTML, "color", "#000000"),
	}
}

func checkSpacing(el snapshot.Element, p brand.Profile) *Finding {
	if el.Margin == 0 && el.Padding == 0 {
		return nil
	}
	total := el.Margin + el.Padding
	nearest, deviates := spacing.Deviates(total, p.SpacingScale)
	if !deviates {
		return nil
	}
	token := spacing.Token(nearest)
	return &Finding{
		Type:     TypeSpacing,
		Severity: SeverityWarn,
		Location: el.Rect,
		Suggestion: fmt.Sprintf(
			"Use consistent spacing: %spx instead of %spx. Consider using Tailwind classes like 'p-%s' or 'm-%s'.",
			num(nearest), num(total), token, token),
		OriginalCode:  el.OuterHTML,
		SuggestedCode: withAttr(el.OuterHTML, "class", "p-"+token),
	}
}

// Component maps a raw element to its accessible component equivalent.
type Component struct {
	Name      string
	Props     [][2]string
	ClassName string
}

var components = map[string]Component{
	"button": {
		Name:      "Button",
		Props:     [][2]string{{"variant", "default"}},
		ClassName: "inline-flex items-center justify-center rounded-md text-sm font-medium transition-colors focus-visible:outline-none focus-visible:ring-2 focus-visible:ring-ring focus-visible:ring-offset-2 disabled:opacity-50 disabled:pointer-events-none ring-offset-background",
	},
	"input": {
		Name:      "Input",
		ClassName: "flex h-10 w-full rounded-md border border-input bg-background px-3 py-2 text-sm ring-offset-background file:border-0 file:bg-transparent file:text-sm file:font-medium placeholder:text-muted-foreground focus-visible:outline-none focus-visible:ring-2 focus-visible:ring-ring focus-visible:ring-offset-2 disabled:cursor-not-allowed disabled:opacity-50",
	},
	"select": {
		Name: "Select",
	},
}

// ComponentFor returns the replacement for a raw tag.
func ComponentFor(tag string) (Component, bool) {
	c, ok := components[strings.ToLower(tag)]
	return c, ok
}

// Markup renders the replacement wrapping text.
func (c Component) Markup(text string) string {
	parts := []string{c.Name}
	for _, kv := range c.Props {
		parts = append(parts, kv[0]+`="`+kv[1]+`"`)
	}
	if c.ClassName != "" {
		parts = append(parts, `className="`+c.ClassName+`"`)
	}
	return "<" + strings.Join(parts, " ") + ">" + text + "</" + c.Name + ">"
}

func checkComponentMisuse(el snapshot.Element, _ brand.Profile) *Finding {
	c, ok := ComponentFor(el.Tag)
	if !ok {
		return nil
	}
	return &Finding{
		Type:          TypeComponentMisuse,
		Severity:      SeverityWarn,
		Location:      el.Rect,
		Suggestion:    fmt.Sprintf("Replace <%s> with %s for better accessibility and consistency.", el.Tag, c.Name),
		OriginalCode:  el.OuterHTML,
		SuggestedCode: c.Markup(el.Text),
	}
}

func checkBestPractices(el snapshot.Element, p brand.Profile) *Finding {
	r, failed := practices.MostSevere(practices.Run(el, p))
	if !failed {
		return nil
	}
	pr := r.Check.Principle()
	sev := SeverityWarn
	if pr.Severity == practices.Critical {
		sev = SeverityError
	}
	code := r.Fix
	if code == "" {
		code = practices.CodeSuggestion(pr, el.Text)
	}
	return &Finding{
		Type:          TypeDesignBestPractice,
		Severity:      sev,
		Location:      el.Rect,
		Suggestion:    r.Check.Suggestion,
		OriginalCode:  el.OuterHTML,
		SuggestedCode: code,
		Principle:     pr.ID,
		Category:      pr.Category,
	}
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// withStyle returns markup with one inline style property forced on its
// first element. Unparseable markup yields "".
func withStyle(markup, prop, value string) string {
	return rewriteFirst(markup, func(n *html.Node) {
		setAttr(n, "style", snapshot.SetProperty(getAttr(n, "style"), prop, value))
	})
}

// withAttr returns markup with one attribute replaced on its first element.
func withAttr(markup, key, value string) string {
	return rewriteFirst(markup, func(n *html.Node) { setAttr(n, key, value) })
}

func rewriteFirst(markup string, edit func(*html.Node)) string {
	nodes := extract.ParseFragment(markup)
	if len(nodes) == 0 {
		return ""
	}
	edit(nodes[0])
	var buf bytes.Buffer
	if err := html.Render(&buf, nodes[0]); err != nil {
		return ""
	}
	return buf.String()
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, value string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
}
