package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// Root picks the subtree to extract: the first element matching selector,
// or the document body when selector is empty, unsupported or matches
// nothing.
func Root(doc *html.Node, selector string) *html.Node {
	if n := Find(doc, selector); n != nil {
		return n
	}
	if b := Body(doc); b != nil {
		return b
	}
	return doc
}

// compound is one compound selector: an optional tag followed by any
// number of #id and .class parts, e.g. "main", "#app", "div.card.wide".
type compound struct {
	tag     string
	id      string
	classes []string
}

// parseCompound rejects combinators, attribute and pseudo selectors.
func parseCompound(sel string) (compound, bool) {
	sel = strings.TrimSpace(sel)
	if sel == "" {
		return compound{}, false
	}
	var c compound
	i := strings.IndexAny(sel, "#.")
	if i < 0 {
		i = len(sel)
	}
	c.tag = strings.ToLower(sel[:i])
	if c.tag != "" && !isIdent(c.tag) {
		return compound{}, false
	}
	for rest := sel[i:]; rest != ""; {
		kind := rest[0]
		rest = rest[1:]
		end := strings.IndexAny(rest, "#.")
		if end < 0 {
			end = len(rest)
		}
		name := rest[:end]
		rest = rest[end:]
		if !isIdent(name) {
			return compound{}, false
		}
		if kind == '#' {
			if c.id != "" {
				return compound{}, false
			}
			c.id = name
		} else {
			c.classes = append(c.classes, name)
		}
	}
	return c, true
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r == '-' || r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}

func (c compound) matches(n *html.Node) bool {
	if n.Type != html.ElementNode || c.tag != "" && n.Data != c.tag {
		return false
	}
	if c.id != "" && getAttr(n, "id") != c.id {
		return false
	}
	have := strings.Fields(getAttr(n, "class"))
	for _, want := range c.classes {
		found := false
		for _, h := range have {
			if h == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Selector returns sel trimmed when Find supports it, and "" otherwise.
// Live captures pass the result to querySelector so both sides agree on
// the root.
func Selector(sel string) string {
	if _, ok := parseCompound(sel); !ok {
		return ""
	}
	return strings.TrimSpace(sel)
}

// Find returns the first element under doc, in document order, that
// matches a compound selector, or nil.
func Find(doc *html.Node, sel string) *html.Node {
	c, ok := parseCompound(sel)
	if !ok || doc == nil {
		return nil
	}
	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if c.matches(n) {
			found = n
			return
		}
		for ch := n.FirstChild; ch != nil && found == nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	walk(doc)
	return found
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
