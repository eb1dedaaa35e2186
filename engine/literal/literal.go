// Package literal parses the primitive tokens of the concept format:
// tag references, durations, colors, and numbers.
package literal

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/nathoo/conceptc/types"
)

// DefaultDuration is used when a duration token cannot be parsed.
var DefaultDuration = types.Duration{Min: 1, Max: 1}

// ParseTagRef parses `Name` or `Name[Display]`. An empty bracket interior
// yields no display override. A blank token yields the zero TagRef.
func ParseTagRef(token string) types.TagRef {
	token = strings.TrimSpace(token)
	if token == "" {
		return types.TagRef{}
	}

	open := strings.IndexByte(token, '[')
	if open >= 0 && strings.HasSuffix(token, "]") {
		return types.TagRef{
			Name:    strings.TrimSpace(token[:open]),
			Display: strings.TrimSpace(token[open+1 : len(token)-1]),
		}
	}
	return types.TagRef{Name: token}
}

// ParseDuration parses `N` or `[A-B]`. The pair is returned as written,
// even when A > B. On failure it returns DefaultDuration and false.
func ParseDuration(token string) (types.Duration, bool) {
	token = strings.TrimSpace(token)

	if strings.HasPrefix(token, "[") && strings.HasSuffix(token, "]") && len(token) >= 2 {
		inner := token[1 : len(token)-1]
		var bounds []string
		for _, p := range strings.Split(inner, "-") {
			if p != "" {
				bounds = append(bounds, p)
			}
		}
		if len(bounds) == 2 {
			lo, errLo := ParseInt(bounds[0])
			hi, errHi := ParseInt(bounds[1])
			if errLo == nil && errHi == nil {
				return types.Duration{Min: lo, Max: hi}, true
			}
		}
	}

	if n, err := ParseInt(token); err == nil {
		return types.Duration{Min: n, Max: n}, true
	}
	return DefaultDuration, false
}

// ParseColor parses `#RGB`, `#RGBA`, `#RRGGBB`, or `#RRGGBBAA`. Any token
// not starting with '#' is rejected.
func ParseColor(token string) (types.Color, error) {
	token = strings.TrimSpace(token)
	if !strings.HasPrefix(token, "#") {
		return types.White, fmt.Errorf("color %q must start with '#'", token)
	}

	digits := token[1:]
	var rgb, alpha string
	switch len(digits) {
	case 3, 6:
		rgb = digits
	case 4:
		rgb, alpha = digits[:3], digits[3:]
	case 8:
		rgb, alpha = digits[:6], digits[6:]
	default:
		return types.White, fmt.Errorf("color %q has %d hex digits, want 3, 4, 6 or 8", token, len(digits))
	}

	c, err := colorful.Hex("#" + rgb)
	if err != nil {
		return types.White, fmt.Errorf("color %q: %w", token, err)
	}
	r, g, b := c.RGB255()

	a := uint64(255)
	if alpha != "" {
		a, err = strconv.ParseUint(alpha, 16, 8)
		if err != nil {
			return types.White, fmt.Errorf("color %q: bad alpha %q", token, alpha)
		}
		if len(alpha) == 1 {
			a *= 17
		}
	}
	return types.Color{R: r, G: g, B: b, A: uint8(a)}, nil
}

// FormatColor renders c as `#RRGGBB`, or `#RRGGBBAA` when not opaque.
func FormatColor(c types.Color) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// ParseFloat parses a culture-invariant decimal number.
func ParseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("cannot parse %q as float", s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return f, nil
}

// ParseInt parses a decimal integer with an optional sign.
func ParseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("cannot parse %q as integer", s)
	}
	return n, nil
}
