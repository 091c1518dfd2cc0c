// Package spacing snaps measured spacing values onto a brand spacing scale.
package spacing

import (
	"math"
	"strconv"
)

// Tolerance is the deviation in pixels tolerated before spacing is reported.
const Tolerance = 2.0

// Nearest returns the scale entry closest to v. When two entries are equally
// close the one that appears first in scale wins. An empty scale returns v.
func Nearest(v float64, scale []float64) float64 {
	if len(scale) == 0 {
		return v
	}
	best := scale[0]
	for _, s := range scale[1:] {
		if math.Abs(s-v) < math.Abs(best-v) {
			best = s
		}
	}
	return best
}

// Deviates reports whether v is further than Tolerance from its nearest
// scale entry, and returns that entry.
func Deviates(v float64, scale []float64) (nearest float64, deviates bool) {
	nearest = Nearest(v, scale)
	return nearest, math.Abs(v-nearest) > Tolerance
}

var tokens = map[float64]string{
	2: "0.5", 4: "1", 8: "2", 12: "3", 16: "4", 20: "5", 24: "6",
	32: "8", 40: "10", 48: "12", 64: "16", 80: "20", 96: "24",
}

// Token returns the Tailwind spacing suffix for a pixel value, e.g. 16 → "4".
// Values off the Tailwind scale are returned as their own number.
func Token(px float64) string {
	if t, ok := tokens[px]; ok {
		return t
	}
	return strconv.FormatFloat(px, 'f', -1, 64)
}
