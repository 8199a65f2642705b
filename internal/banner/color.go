package banner

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an RGB color with straight alpha.
type Color struct {
	RGB   colorful.Color
	Alpha float64
}

// Default colors.
var (
	White = RGBA(255, 255, 255, 1)
	Black = RGBA(0, 0, 0, 1)
	// Green is the default banner background.
	Green = RGBA(71, 214, 157, 0.9)
)

// RGBA builds a color from 8-bit channels and an alpha in [0, 1].
func RGBA(r, g, b uint8, a float64) Color {
	return Color{
		RGB:   colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255},
		Alpha: clamp01(a),
	}
}

// ParseColor parses "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	switch len(s) {
	case 7:
		c, err := colorful.Hex(s)
		if err != nil {
			return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		return Color{RGB: c, Alpha: 1}, nil
	case 9:
		c, err := colorful.Hex(s[:7])
		if err != nil {
			return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("invalid color alpha %q: %w", s, err)
		}
		return Color{RGB: c, Alpha: float64(a) / 255}, nil
	default:
		return Color{}, fmt.Errorf("invalid color %q: must be #rrggbb or #rrggbbaa", s)
	}
}

// MustParseColor is ParseColor for constants. It panics on error.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex returns the color as "#rrggbb", ignoring alpha.
func (c Color) Hex() string {
	return c.RGB.Clamped().Hex()
}

// String returns "#rrggbb" for opaque colors and "#rrggbbaa" otherwise.
func (c Color) String() string {
	if c.Alpha >= 1 {
		return c.Hex()
	}
	return fmt.Sprintf("%s%02x", c.Hex(), uint8(clamp01(c.Alpha)*255+0.5))
}

// WithAlpha returns c with a new alpha.
func (c Color) WithAlpha(a float64) Color {
	c.Alpha = clamp01(a)
	return c
}

// Over composites c over an opaque backdrop and returns an opaque color.
func (c Color) Over(backdrop Color) Color {
	return Color{RGB: backdrop.RGB.BlendRgb(c.RGB, c.Alpha).Clamped(), Alpha: 1}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
