// Package extract renders a page subtree as JSX-like source text.
//
// Two strategies exist. When the page exposes a component-tree hook, a
// ComponentProbe returns the component tree and each component becomes one
// tag. Otherwise, or when the probe fails, the raw element tree is
// serialized. Extraction never fails outward: the worst case is "".
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Unknown names components whose identity cannot be resolved.
const Unknown = "Unknown"

// Prop is one component prop. Value holds the JSON encoding of the prop.
type Prop struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// ComponentNode is one node of a component tree.
type ComponentNode struct {
	Name     string           `json:"name"`
	Props    []Prop           `json:"props"`
	Children []*ComponentNode `json:"children"`
}

// ComponentProbe introspects the component tree of a live page.
// Available is the capability check; Tree is only called when it is true.
type ComponentProbe interface {
	Available(ctx context.Context) bool
	Tree(ctx context.Context) (*ComponentNode, error)
}

// Extract returns the source text for root. A nil probe, or one that is
// unavailable, errors or panics, selects the element serializer.
func Extract(ctx context.Context, probe ComponentProbe, root *html.Node) string {
	if probe != nil {
		if src, ok := fromProbe(ctx, probe); ok {
			return src
		}
	}
	return fallback(root)
}

func fromProbe(ctx context.Context, probe ComponentProbe) (src string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("extract: component probe panicked", "panic", r)
			src, ok = "", false
		}
	}()
	if !probe.Available(ctx) {
		return "", false
	}
	tree, err := probe.Tree(ctx)
	if err != nil {
		slog.Debug("extract: component probe failed, using element tree", "error", err)
		return "", false
	}
	if tree == nil {
		return "", false
	}
	return RenderTree(tree), true
}

func fallback(root *html.Node) (src string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("extract: serializer panicked", "panic", r)
			src = ""
		}
	}()
	return Serialize(root)
}

// RenderTree renders a component tree, children indented two spaces per level.
func RenderTree(n *ComponentNode) string {
	var sb strings.Builder
	renderComponent(&sb, n, 0)
	return sb.String()
}

func renderComponent(sb *strings.Builder, n *ComponentNode, depth int) {
	if n == nil {
		return
	}
	indent := strings.Repeat("  ", depth)
	name := n.Name
	if name == "" {
		name = Unknown
	}
	sb.WriteString(indent + "<" + name)
	for _, p := range n.Props {
		if p.Key == "children" || len(p.Value) == 0 {
			continue
		}
		var s string
		if json.Unmarshal(p.Value, &s) == nil {
			sb.WriteString(" " + p.Key + `="` + s + `"`)
			continue
		}
		sb.WriteString(" " + p.Key + "={" + compact(p.Value) + "}")
	}
	if len(n.Children) == 0 {
		sb.WriteString(" />")
		return
	}
	sb.WriteString(">\n")
	for _, c := range n.Children {
		renderComponent(sb, c, depth+1)
		sb.WriteString("\n")
	}
	sb.WriteString(indent + "</" + name + ">")
}

func compact(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

// Serialize renders the element tree under root. A document node is
// serialized from its body. Nil yields "".
func Serialize(root *html.Node) string {
	if root == nil {
		return ""
	}
	if root.Type == html.DocumentNode {
		root = Body(root)
		if root == nil {
			return ""
		}
	}
	if root.Type != html.ElementNode {
		return ""
	}
	var sb strings.Builder
	serializeElement(&sb, root, 0)
	return sb.String()
}

func serializeElement(sb *strings.Builder, n *html.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	tag := strings.ToLower(n.Data)
	sb.WriteString(indent + "<" + tag)
	var class string
	hasClass := false
	for _, a := range n.Attr {
		if a.Key == "class" {
			class, hasClass = a.Val, true
			continue
		}
		key := a.Key
		if a.Namespace != "" {
			key = a.Namespace + ":" + key
		}
		sb.WriteString(" " + key + `="` + a.Val + `"`)
	}
	if hasClass && class != "" {
		sb.WriteString(` className="` + class + `"`)
	}

	var children []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			children = append(children, c)
		}
	}
	switch {
	case len(children) > 0:
		sb.WriteString(">\n")
		for _, c := range children {
			serializeElement(sb, c, depth+1)
			sb.WriteString("\n")
		}
		sb.WriteString(indent + "</" + tag + ">")
	case strings.TrimSpace(collectText(n)) != "":
		sb.WriteString(">" + strings.TrimSpace(collectText(n)) + "</" + tag + ">")
	default:
		sb.WriteString(" />")
	}
}

// ParseFragment parses markup as body content and returns the top-level
// element nodes.
func ParseFragment(markup string) []*html.Node {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), body)
	if err != nil {
		return nil
	}
	var out []*html.Node
	for _, n := range nodes {
		if n.Type == html.ElementNode {
			out = append(out, n)
		}
	}
	return out
}

// Body returns the body element of a parsed document, or nil.
func Body(doc *html.Node) *html.Node {
	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && n.Data == "body" {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return found
}

func collectText(n *html.Node) string {
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
