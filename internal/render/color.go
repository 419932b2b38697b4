package render

import (
	"image/color"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Fallback colors for objects saved without one.
var (
	ConeColor   = MustColor("#FF8C00")
	BallColor   = MustColor("#FFFFFF")
	PlayerColor = MustColor("#000000")
	LineColor   = MustColor("#FFA500")
	RectColor   = MustColor("#FFFF00")
	TextColor   = MustColor("#000000")
)

var named = map[string]string{
	"white":       "#ffffff",
	"black":       "#000000",
	"red":         "#ff0000",
	"green":       "#008000",
	"blue":        "#0000ff",
	"yellow":      "#ffff00",
	"orange":      "#ffa500",
	"transparent": "",
}

// ParseColor reads a #rgb or #rrggbb string, or a handful of CSS color names.
// Empty and unparseable values yield fallback.
func ParseColor(s string, fallback color.Color) color.Color {
	s = strings.TrimSpace(s)
	if hex, ok := named[strings.ToLower(s)]; ok {
		if hex == "" {
			return color.Transparent
		}
		s = hex
	}
	if s == "" {
		return fallback
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return fallback
	}
	return c.Clamped()
}

// MustColor parses a hex color and panics on failure. Only for constants.
func MustColor(s string) color.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// shade darkens c toward black by t in [0, 1], blending in Lab space.
func shade(c color.Color, t float64) color.Color {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return c
	}
	return cf.BlendLab(colorful.Color{}, t).Clamped()
}

// translucent returns c with alpha a.
func translucent(c color.Color, a uint8) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: a}
}
