package snapshot

import (
	"bytes"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// Default computed values for elements nothing styles explicitly.
const (
	rootFontSize   = 16.0
	rootFontFamily = "serif"
	rootColor      = "rgb(0, 0, 0)"
	controlFont    = 13.333
	defaultWeight  = 400.0
	boldWeight     = 700.0
)

var headingFont = map[string]float64{
	"h1": 32, "h2": 24, "h3": 18.72, "h4": 16, "h5": 13.28, "h6": 10.72,
}

// Block margins in em, as user agent stylesheets apply them.
var blockMarginEm = map[string]float64{
	"p": 1, "h1": 0.67, "h2": 0.83, "h3": 1, "h4": 1.33, "h5": 1.67, "h6": 2.33,
}

var boldTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"b": true, "strong": true, "th": true,
}

var controlTags = map[string]bool{
	"button": true, "input": true, "select": true, "textarea": true,
}

var fontKeywords = map[string]float64{
	"xx-small": 9, "x-small": 10, "small": 13, "medium": 16,
	"large": 18, "x-large": 24, "xx-large": 32,
}

// inherited carries the inheritable properties down the tree.
type inherited struct {
	color      string
	fontSize   float64
	fontWeight float64
	fontFamily string
}

// FromDocument resolves an Element for every element node under root, in
// document order. It reads inline style attributes only; stylesheets and
// layout are not evaluated, so geometry is known only for elements that
// declare both width and height in pixels.
func FromDocument(root *html.Node) []Element {
	if root == nil {
		return nil
	}
	var out []Element
	parent := inherited{
		color:      rootColor,
		fontSize:   rootFontSize,
		fontWeight: defaultWeight,
		fontFamily: rootFontFamily,
	}
	var walk func(n *html.Node, in inherited)
	walk = func(n *html.Node, in inherited) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			el, next := resolve(c, in)
			out = append(out, el)
			walk(c, next)
		}
	}
	if root.Type == html.ElementNode {
		el, next := resolve(root, parent)
		out = append(out, el)
		walk(root, next)
	} else {
		walk(root, parent)
	}
	return out
}

func resolve(n *html.Node, in inherited) (Element, inherited) {
	tag := strings.ToLower(n.Data)
	el := Element{
		Tag:        tag,
		Background: Transparent,
		Color:      in.color,
		FontSize:   in.fontSize,
		FontWeight: in.fontWeight,
		FontFamily: in.fontFamily,
		BoxShadow:  "none",
		ChildCount: childElements(n),
		OuterHTML:  render(n),
		Text:       textContent(n),
	}
	if fs, ok := headingFont[tag]; ok {
		el.FontSize = fs
	} else if controlTags[tag] {
		el.FontSize = controlFont
		el.FontWeight = defaultWeight
	}
	if boldTags[tag] {
		el.FontWeight = boldWeight
	}
	if controlTags[tag] && tag != "textarea" {
		el.Padding = 1
	}

	decls := ParseStyle(attr(n, "style"))
	// font-size first: em lengths on the box depend on it.
	for _, d := range decls {
		if d.Property == "font-size" {
			if v, ok := fontSize(d.Value, in.fontSize); ok {
				el.FontSize = v
			}
		}
	}
	if em, ok := blockMarginEm[tag]; ok {
		el.Margin = round2(em * el.FontSize)
	}

	var width, height float64
	var hasW, hasH bool
	for _, d := range decls {
		switch d.Property {
		case "color":
			if c, ok := colorValue(d.Value); ok {
				el.Color = c
			}
		case "background", "background-color":
			if c, ok := backgroundColor(d.Value); ok {
				el.Background = c
			}
		case "margin":
			el.Margin = firstLength(d.Value, el.FontSize)
		case "margin-top":
			el.Margin = length(d.Value, el.FontSize)
		case "padding":
			el.Padding = firstLength(d.Value, el.FontSize)
		case "padding-top":
			el.Padding = length(d.Value, el.FontSize)
		case "font-weight":
			el.FontWeight = fontWeight(d.Value, in.fontWeight)
		case "font-family":
			el.FontFamily = d.Value
		case "outline":
			el.Outline = strings.ToLower(d.Value)
		case "box-shadow":
			el.BoxShadow = strings.ToLower(d.Value)
		case "width":
			width, hasW = pixels(d.Value)
		case "height":
			height, hasH = pixels(d.Value)
		}
	}
	if hasW && hasH {
		el.HasLayout = true
		el.Rect = Rect{Width: width, Height: height}
	}

	return el, inherited{
		color:      el.Color,
		fontSize:   el.FontSize,
		fontWeight: el.FontWeight,
		fontFamily: el.FontFamily,
	}
}

// colorValue normalizes v and reports whether it resolved to a concrete
// color. inherit, currentcolor and var() do not.
func colorValue(v string) (string, bool) {
	c := NormalizeColor(v)
	return c, strings.HasPrefix(c, "rgb")
}

// backgroundColor picks the color layer out of a background shorthand such
// as "#fff url(x.png) no-repeat". Images, gradients and none contribute no
// color, the same as a browser computing background-color; a value with no
// color token at all resolves to Transparent. Unresolvable values (inherit,
// var()) report false and leave the current background alone.
func backgroundColor(v string) (string, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" || v == "inherit" || strings.Contains(v, "var(") {
		return "", false
	}
	for _, tok := range shorthandTokens(v) {
		if strings.HasPrefix(tok, "url(") || strings.Contains(tok, "gradient(") {
			continue
		}
		if c, ok := colorValue(tok); ok {
			return c, true
		}
	}
	return Transparent, true
}

// shorthandTokens splits a shorthand value on spaces and commas outside
// parentheses.
func shorthandTokens(v string) []string {
	var out []string
	depth, start := 0, 0
	flush := func(end int) {
		if tok := strings.TrimSpace(v[start:end]); tok != "" {
			out = append(out, tok)
		}
	}
	for i, r := range v {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ' ', '\t', ',':
			if depth == 0 {
				flush(i)
				start = i + 1
			}
		}
	}
	flush(len(v))
	return out
}

func firstLength(v string, fontSize float64) float64 {
	fields := strings.Fields(v)
	if len(fields) == 0 {
		return 0
	}
	return length(fields[0], fontSize)
}

func length(v string, fontSize float64) float64 {
	v = strings.ToLower(strings.TrimSpace(v))
	switch {
	case v == "0" || v == "auto":
		return 0
	case strings.HasSuffix(v, "px"):
		return num(strings.TrimSuffix(v, "px"))
	case strings.HasSuffix(v, "rem"):
		return round2(num(strings.TrimSuffix(v, "rem")) * rootFontSize)
	case strings.HasSuffix(v, "em"):
		return round2(num(strings.TrimSuffix(v, "em")) * fontSize)
	case strings.HasSuffix(v, "pt"):
		return round2(num(strings.TrimSuffix(v, "pt")) * 4 / 3)
	}
	return num(v)
}

func pixels(v string) (float64, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	if !strings.HasSuffix(v, "px") {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(v, "px"), 64)
	return f, err == nil
}

func fontSize(v string, parent float64) (float64, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	if kw, ok := fontKeywords[v]; ok {
		return kw, true
	}
	switch {
	case strings.HasSuffix(v, "%"):
		return round2(num(strings.TrimSuffix(v, "%")) * parent / 100), true
	case strings.HasSuffix(v, "rem"):
		return round2(num(strings.TrimSuffix(v, "rem")) * rootFontSize), true
	case strings.HasSuffix(v, "em"):
		return round2(num(strings.TrimSuffix(v, "em")) * parent), true
	case strings.HasSuffix(v, "pt"):
		return round2(num(strings.TrimSuffix(v, "pt")) * 4 / 3), true
	case strings.HasSuffix(v, "px"):
		return num(strings.TrimSuffix(v, "px")), true
	}
	return 0, false
}

func fontWeight(v string, parent float64) float64 {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "normal":
		return defaultWeight
	case "bold":
		return boldWeight
	case "bolder":
		return min(parent+300, 900)
	case "lighter":
		return max(parent-300, 100)
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return parent
}

func num(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func childElements(n *html.Node) int {
	count := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			count++
		}
	}
	return count
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func render(n *html.Node) string {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}
