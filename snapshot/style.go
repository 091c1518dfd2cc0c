package snapshot

import (
	"strings"
)

// Declaration is one property/value pair of an inline style attribute.
type Declaration struct {
	Property string
	Value    string
}

// ParseStyle splits an inline style attribute into declarations, in order.
// Property names are lower-cased; malformed entries are dropped.
func ParseStyle(style string) []Declaration {
	var out []Declaration
	for _, part := range strings.Split(style, ";") {
		prop, val, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		val = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(val), "!important"))
		if prop == "" || val == "" {
			continue
		}
		out = append(out, Declaration{Property: prop, Value: val})
	}
	return out
}

// FormatStyle renders declarations back into an attribute value.
func FormatStyle(decls []Declaration) string {
	parts := make([]string, len(decls))
	for i, d := range decls {
		parts[i] = d.Property + ": " + d.Value
	}
	s := strings.Join(parts, "; ")
	if s != "" {
		s += ";"
	}
	return s
}

// SetProperty sets prop in an inline style, replacing any existing
// declarations of it in place or appending when absent.
func SetProperty(style, prop, value string) string {
	decls := ParseStyle(style)
	out := decls[:0]
	set := false
	for _, d := range decls {
		if d.Property != prop {
			out = append(out, d)
			continue
		}
		if !set {
			out = append(out, Declaration{Property: prop, Value: value})
			set = true
		}
	}
	if !set {
		out = append(out, Declaration{Property: prop, Value: value})
	}
	return FormatStyle(out)
}
