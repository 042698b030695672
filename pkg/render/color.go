package render

import (
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var namedColors = map[string]string{
	"black":   "#000000",
	"white":   "#ffffff",
	"red":     "#ff0000",
	"green":   "#008000",
	"blue":    "#0000ff",
	"yellow":  "#ffff00",
	"orange":  "#ffa500",
	"purple":  "#800080",
	"gray":    "#808080",
	"grey":    "#808080",
	"silver":  "#c0c0c0",
	"navy":    "#000080",
	"teal":    "#008080",
	"maroon":  "#800000",
	"magenta": "#ff00ff",
	"cyan":    "#00ffff",
}

// ParseColor parses #rgb, #rrggbb (with or without the hash) or a basic
// color name. Anything else is black.
func ParseColor(s string) color.NRGBA {
	c, ok := parseColor(s)
	if !ok {
		return color.NRGBA{A: 0xff}
	}
	return c
}

func parseColor(s string) (color.NRGBA, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if hex, ok := namedColors[s]; ok {
		s = hex
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) != 4 && len(s) != 7 {
		return color.NRGBA{}, false
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, false
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, true
}
