package snapshot

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Transparent is the computed value browsers report for an unset background.
const Transparent = "rgba(0, 0, 0, 0)"

var (
	rgbFunc = regexp.MustCompile(`^rgba?\(\s*(\d+)\s*[, ]\s*(\d+)\s*[, ]\s*(\d+)\s*(?:[,/]\s*([\d.]+%?)\s*)?\)$`)
	hslFunc = regexp.MustCompile(`^hsla?\(\s*([\d.]+)(?:deg)?\s*[, ]\s*([\d.]+)%\s*[, ]\s*([\d.]+)%\s*(?:[,/]\s*([\d.]+%?)\s*)?\)$`)
)

// NormalizeColor converts a CSS color value into the rgb()/rgba() form
// getComputedStyle reports. Values it cannot resolve (custom properties,
// currentcolor, gradients) are returned lower-cased and unchanged.
func NormalizeColor(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	switch {
	case v == "":
		return ""
	case v == "transparent":
		return Transparent
	case strings.HasPrefix(v, "#"):
		hex := v
		alpha := 1.0
		if len(hex) == 5 || len(hex) == 9 {
			n := (len(hex) - 1) / 4
			a, err := strconv.ParseUint(hex[len(hex)-n:], 16, 8)
			if err != nil {
				return v
			}
			if n == 1 {
				a *= 17
			}
			alpha = float64(a) / 255
			hex = hex[:len(hex)-n]
		}
		c, err := colorful.Hex(hex)
		if err != nil {
			return v
		}
		return format(c, alpha)
	case strings.HasPrefix(v, "rgb"):
		m := rgbFunc.FindStringSubmatch(v)
		if m == nil {
			return v
		}
		r, _ := strconv.Atoi(m[1])
		g, _ := strconv.Atoi(m[2])
		b, _ := strconv.Atoi(m[3])
		return formatRGB(r, g, b, parseAlpha(m[4]))
	case strings.HasPrefix(v, "hsl"):
		m := hslFunc.FindStringSubmatch(v)
		if m == nil {
			return v
		}
		h, _ := strconv.ParseFloat(m[1], 64)
		s, _ := strconv.ParseFloat(m[2], 64)
		l, _ := strconv.ParseFloat(m[3], 64)
		return format(colorful.Hsl(h, s/100, l/100), parseAlpha(m[4]))
	}
	if named, ok := colornames.Map[v]; ok {
		c, _ := colorful.MakeColor(named)
		return format(c, 1)
	}
	return v
}

func parseAlpha(s string) float64 {
	if s == "" {
		return 1
	}
	pct := strings.HasSuffix(s, "%")
	a, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 1
	}
	if pct {
		a /= 100
	}
	return min(max(a, 0), 1)
}

func format(c colorful.Color, alpha float64) string {
	r, g, b := c.Clamped().RGB255()
	return formatRGB(int(r), int(g), int(b), alpha)
}

func formatRGB(r, g, b int, alpha float64) string {
	if alpha >= 1 {
		return fmt.Sprintf("rgb(%d, %d, %d)", r, g, b)
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, strconv.FormatFloat(alpha, 'f', -1, 64))
}
