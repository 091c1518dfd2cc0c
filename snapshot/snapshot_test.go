package snapshot

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func parse(t *testing.T, src string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func find(els []Element, tag string) *Element {
	for i := range els {
		if els[i].Tag == tag {
			return &els[i]
		}
	}
	return nil
}

func TestNormalizeColor(t *testing.T) {
	tests := map[string]string{
		"#fff":                   "rgb(255, 255, 255)",
		"#3B82F6":                "rgb(59, 130, 246)",
		"#00000000":              "rgba(0, 0, 0, 0)",
		"transparent":            Transparent,
		"rgb(1,2,3)":             "rgb(1, 2, 3)",
		"rgba(10, 20, 30, 0.5)":  "rgba(10, 20, 30, 0.5)",
		"rgb(10 20 30 / 50%)":    "rgba(10, 20, 30, 0.5)",
		"white":                  "rgb(255, 255, 255)",
		"Navy":                   "rgb(0, 0, 128)",
		"hsl(0, 100%, 50%)":      "rgb(255, 0, 0)",
		"var(--brand)":           "var(--brand)",
		"":                       "",
	}
	for in, want := range tests {
		if got := NormalizeColor(in); got != want {
			t.Errorf("NormalizeColor(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFromDocument_Button(t *testing.T) {
	doc := parse(t, `<button style="color:#fff;background:#fff">Go</button>`)
	els := FromDocument(doc)
	b := find(els, "button")
	if b == nil {
		t.Fatal("button not resolved")
	}
	if b.Color != "rgb(255, 255, 255)" || b.Background != "rgb(255, 255, 255)" {
		t.Errorf("colors: %q on %q", b.Color, b.Background)
	}
	if b.FontSize != controlFont || b.FontWeight != 400 {
		t.Errorf("font: %v/%v", b.FontSize, b.FontWeight)
	}
	if b.OuterHTML != `<button style="color:#fff;background:#fff">Go</button>` {
		t.Errorf("outer html: %s", b.OuterHTML)
	}
	if b.Text != "Go" || b.ChildCount != 0 || b.HasLayout {
		t.Errorf("unexpected: %+v", b)
	}
}

func TestFromDocument_Inheritance(t *testing.T) {
	doc := parse(t, `<div style="color:navy;font-size:20px;font-family:Inter"><span>x</span><h1>t</h1></div>`)
	els := FromDocument(doc)
	span := find(els, "span")
	if span.Color != "rgb(0, 0, 128)" || span.FontSize != 20 || span.FontFamily != "Inter" {
		t.Errorf("span did not inherit: %+v", span)
	}
	if span.Background != Transparent {
		t.Errorf("background inherited: %q", span.Background)
	}
	h1 := find(els, "h1")
	if h1.FontSize != 32 || h1.FontWeight != 700 || h1.Margin != 21.44 {
		t.Errorf("h1 defaults: %+v", h1)
	}
	div := find(els, "div")
	if div.ChildCount != 2 {
		t.Errorf("div children: %d", div.ChildCount)
	}
}

func TestFromDocument_BackgroundWithoutColor(t *testing.T) {
	tests := []struct {
		style, want string
	}{
		{"background:none", Transparent},
		{"background:url(hero.png)", Transparent},
		{"background:linear-gradient(#fff, #eee)", Transparent},
		{"background:inherit", Transparent},
		{"background:var(--bg)", Transparent},
		{"background-color:var(--bg, #fff)", Transparent},
		{"background:#fff url(x.png) no-repeat", "rgb(255, 255, 255)"},
		{"background:url(a.png), linear-gradient(red, blue) navy", "rgb(0, 0, 128)"},
		{"background:rgba(0, 0, 0, 0.5) center", "rgba(0, 0, 0, 0.5)"},
	}
	for _, tt := range tests {
		doc := parse(t, `<div style="`+tt.style+`">Readable black text</div>`)
		div := find(FromDocument(doc), "div")
		if div.Background != tt.want {
			t.Errorf("%s: background = %q, want %q", tt.style, div.Background, tt.want)
		}
		if div.Color != rootColor {
			t.Errorf("%s: color = %q", tt.style, div.Color)
		}
	}
}

func TestFromDocument_UnresolvableColorInherits(t *testing.T) {
	doc := parse(t, `<div style="color:navy"><span style="color:var(--fg)">x</span><em style="color:inherit">y</em></div>`)
	els := FromDocument(doc)
	for _, tag := range []string{"span", "em"} {
		if el := find(els, tag); el.Color != "rgb(0, 0, 128)" {
			t.Errorf("%s color = %q, want parent navy", tag, el.Color)
		}
	}
}

func TestFromDocument_Spacing(t *testing.T) {
	doc := parse(t, `<div style="margin:10px 4px;padding:1em"></div><p style="margin-top:0.5rem;padding:3px"></p>`)
	els := FromDocument(doc)
	div := find(els, "div")
	if div.Margin != 10 || div.Padding != 16 {
		t.Errorf("div spacing: %v + %v", div.Margin, div.Padding)
	}
	p := find(els, "p")
	if p.Margin != 8 || p.Padding != 3 {
		t.Errorf("p spacing: %v + %v", p.Margin, p.Padding)
	}
}

func TestFromDocument_Geometry(t *testing.T) {
	doc := parse(t, `<a style="width:30px;height:20px;outline:none">x</a><a style="width:50%">y</a>`)
	els := FromDocument(doc)
	var links []Element
	for _, e := range els {
		if e.Tag == "a" {
			links = append(links, e)
		}
	}
	if len(links) != 2 {
		t.Fatalf("links: %d", len(links))
	}
	if !links[0].HasLayout || links[0].Rect.Width != 30 || links[0].Rect.Height != 20 {
		t.Errorf("first link geometry: %+v", links[0])
	}
	if links[0].Outline != "none" || links[0].BoxShadow != "none" {
		t.Errorf("focus styles: %q %q", links[0].Outline, links[0].BoxShadow)
	}
	if links[1].HasLayout {
		t.Error("percent width must not produce layout")
	}
}

func TestSetProperty(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"color:#fff;background:#fff", "color: #000000; background: #fff;"},
		{"background:#fff", "background: #fff; color: #000000;"},
		{"", "color: #000000;"},
		{"color:red;color:blue", "color: #000000;"},
	}
	for _, tt := range tests {
		if got := SetProperty(tt.in, "color", "#000000"); got != tt.want {
			t.Errorf("SetProperty(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCount(t *testing.T) {
	els := []Element{{Tag: "button"}, {Tag: "a"}, {Tag: "h2"}, {Tag: "p"}, {Tag: "input"}, {Tag: "section"}, {Tag: "div"}}
	s := Count(els)
	want := Stats{Total: 6, Buttons: 1, Inputs: 1, Links: 1, Headings: 1, Paragraphs: 1}
	if s != want {
		t.Fatalf("Count = %+v, want %+v", s, want)
	}
}
