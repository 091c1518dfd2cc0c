// Package contrast computes WCAG relative luminance and contrast ratios for
// the color strings a browser reports from getComputedStyle.
//
// Only rgb()/rgba() with integer channels and 6-digit hex are understood.
// Any other format has luminance 0, which errs towards reporting a contrast
// failure rather than silently passing one.
package contrast

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	// NormalText is the AA minimum for body text.
	NormalText = 4.5
	// LargeText is the AA minimum for text that IsLargeText accepts.
	LargeText = 3.0
)

var (
	rgbRe   = regexp.MustCompile(`rgba?\((\d+),\s*(\d+),\s*(\d+)(?:,\s*([\d.]+))?\)`)
	hexRe   = regexp.MustCompile(`(?i)#([0-9a-f]{2})([0-9a-f]{2})([0-9a-f]{2})`)
	weights = [3]float64{0.2126, 0.7152, 0.0722}
)

// Parse extracts the red, green and blue channels of color.
// ok is false when the format is not recognised.
func Parse(color string) (rgb [3]int, ok bool) {
	if m := rgbRe.FindStringSubmatch(color); m != nil {
		for i := range 3 {
			rgb[i], _ = strconv.Atoi(m[i+1])
		}
		return rgb, true
	}
	if m := hexRe.FindStringSubmatch(color); m != nil {
		for i := range 3 {
			v, _ := strconv.ParseInt(m[i+1], 16, 32)
			rgb[i] = int(v)
		}
		return rgb, true
	}
	return rgb, false
}

// Luminance returns the relative luminance of color in [0,1].
func Luminance(color string) float64 {
	rgb, ok := Parse(color)
	if !ok {
		return 0
	}
	var l float64
	for i, c := range rgb {
		l += weights[i] * linear(float64(c)/255)
	}
	return l
}

func linear(c float64) float64 {
	if c <= 0.03928 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

// Ratio returns the contrast ratio between two colors. The result is at
// least 1 and does not depend on argument order.
func Ratio(bg, fg string) float64 {
	a, b := Luminance(bg), Luminance(fg)
	lighter, darker := max(a, b), min(a, b)
	return (lighter + 0.05) / (darker + 0.05)
}

// IsLargeText reports whether text of the given computed size (px) and
// weight counts as large: 18px and up, or 14px and up when bold.
func IsLargeText(fontSize, fontWeight float64) bool {
	return fontSize >= 18 || (fontSize >= 14 && fontWeight >= 700)
}

// Required returns the minimum ratio for text of the given size and weight.
func Required(fontSize, fontWeight float64) float64 {
	if IsLargeText(fontSize, fontWeight) {
		return LargeText
	}
	return NormalText
}

// IsTransparent reports whether a computed background paints nothing.
func IsTransparent(color string) bool {
	c := strings.TrimSpace(strings.ToLower(color))
	if c == "transparent" {
		return true
	}
	m := rgbRe.FindStringSubmatch(c)
	if m == nil || m[4] == "" {
		return false
	}
	a, err := strconv.ParseFloat(m[4], 64)
	return err == nil && a == 0
}
