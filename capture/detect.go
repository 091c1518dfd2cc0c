package capture

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

var spaShells = []string{
	`<div id="root"></div>`,
	`<div id="app"></div>`,
	`<div id="__next"></div>`,
	`<noscript>you need to enable javascript`,
	`<noscript>enable javascript`,
}

// IsSufficient reports whether fetched markup carries enough rendered
// content to analyze without a browser. Script-rendered shells are not.
func IsSufficient(markup []byte) bool {
	if len(markup) < 256 {
		return false
	}
	lower := bytes.ToLower(markup)
	for _, s := range spaShells {
		if bytes.Contains(lower, []byte(s)) {
			return false
		}
	}
	text, total := textRatio(markup)
	if total == 0 || text < 200 {
		return false
	}
	return float64(text)/float64(total) >= 0.10
}

// textRatio counts visible non-space text bytes against all bytes,
// skipping script and style bodies.
func textRatio(markup []byte) (text, total int) {
	z := html.NewTokenizer(bytes.NewReader(markup))
	skip := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return text, total
		}
		raw := z.Raw()
		total += len(raw)
		switch tt {
		case html.StartTagToken:
			if name, _ := z.TagName(); isRawText(name) {
				skip++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); isRawText(name) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				text += len(strings.Join(strings.Fields(string(raw)), ""))
			}
		}
	}
}

func isRawText(name []byte) bool {
	return string(name) == "script" || string(name) == "style"
}
