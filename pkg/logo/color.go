// color.go — Color literal parsing and normalization to #rrggbbaa.
package logo

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Color is a non-premultiplied RGBA value. A nil *Color means "no color",
// which is distinct from the fully transparent #00000000.
type Color struct {
	R, G, B, A uint8
}

// ParseColor accepts "#rgb", "#rgba", "#rrggbb", "#rrggbbaa", "rgb(r,g,b)"
// and "rgba(r,g,b,a)" where a is in [0,1]. Six-digit forms are opaque.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "#"):
		return parseHex(s)
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		return parseFunc(s, s[len("rgba("):len(s)-1], true)
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		return parseFunc(s, s[len("rgb("):len(s)-1], false)
	}
	return Color{}, fmt.Errorf("invalid color %q: expected #hex, rgb() or rgba()", s)
}

// MustParseColor is ParseColor for literals known to be valid.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseOptionalColor maps "", "none", "null" and "transparent" to nil.
func ParseOptionalColor(s string) (*Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "null", "transparent":
		return nil, nil
	}
	c, err := ParseColor(s)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Normalize rewrites any accepted literal as #rrggbbaa.
func Normalize(s string) (string, error) {
	c, err := ParseColor(s)
	if err != nil {
		return "", err
	}
	return c.String(), nil
}

func parseHex(s string) (Color, error) {
	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 3, 4:
		var b strings.Builder
		for _, r := range hex {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		hex = b.String()
	case 6, 8:
	default:
		return Color{}, fmt.Errorf("invalid color %q: expected 3, 4, 6 or 8 hex digits", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}

	var ch [4]uint8
	for i := range ch {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("invalid channel %d in %q: %w", i, s, err)
		}
		ch[i] = uint8(v)
	}
	return Color{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}

func parseFunc(s, args string, withAlpha bool) (Color, error) {
	parts := strings.Split(args, ",")
	want := 3
	if withAlpha {
		want = 4
	}
	if len(parts) != want {
		return Color{}, fmt.Errorf("invalid color %q: expected %d components", s, want)
	}

	var ch [3]uint8
	for i := range ch {
		v, err := strconv.ParseUint(strings.TrimSpace(parts[i]), 10, 8)
		if err != nil {
			return Color{}, fmt.Errorf("invalid channel %d in %q: %w", i, s, err)
		}
		ch[i] = uint8(v)
	}

	c := Color{R: ch[0], G: ch[1], B: ch[2], A: 255}
	if withAlpha {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || math.IsNaN(a) || a < 0 || a > 1 {
			return Color{}, fmt.Errorf("invalid alpha in %q: expected 0..1", s)
		}
		c.A = uint8(math.Round(a * 255))
	}
	return c, nil
}

// String renders the normalized 8-digit form.
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// NRGBA converts to the image/color representation.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func (c Color) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Color) UnmarshalText(b []byte) error {
	parsed, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// EqualColors compares optional colors by value.
func EqualColors(a, b *Color) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
