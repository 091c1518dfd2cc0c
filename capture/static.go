package capture

import (
	"context"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/hazyhaar/uxrefactor/extract"
	"github.com/hazyhaar/uxrefactor/snapshot"
)

// FromHTML builds a Result from markup without a browser. Computed styles
// come from inline style attributes only. rootSelector picks the subtree
// to extract; empty means the body.
func FromHTML(pageURL, markup, rootSelector string) (*Result, error) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, &CaptureError{Op: "parse", URL: pageURL, Err: err}
	}
	root := extract.Root(doc, rootSelector)
	return &Result{
		URL:       pageURL,
		Title:     title(doc),
		Level:     LevelStatic,
		Source:    extract.Extract(context.Background(), nil, root),
		Elements:  snapshot.FromDocument(root),
		Timestamp: time.Now().UTC(),
	}, nil
}

func title(doc *html.Node) string {
	if n := extract.Find(doc, "title"); n != nil && n.FirstChild != nil {
		return strings.TrimSpace(n.FirstChild.Data)
	}
	return ""
}
