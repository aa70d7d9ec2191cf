package css

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

type Color struct {
	R, G, B, A uint8
}

var (
	Black       = Color{0, 0, 0, 255}
	White       = Color{255, 255, 255, 255}
	Transparent = Color{0, 0, 0, 0}
)

var namedColors = map[string]Color{
	"red":       {255, 0, 0, 255},
	"green":     {0, 128, 0, 255},
	"blue":      {0, 0, 255, 255},
	"yellow":    {255, 255, 0, 255},
	"cyan":      {0, 255, 255, 255},
	"aqua":      {0, 255, 255, 255},
	"magenta":   {255, 0, 255, 255},
	"fuchsia":   {255, 0, 255, 255},
	"white":     {255, 255, 255, 255},
	"black":     {0, 0, 0, 255},
	"gray":      {128, 128, 128, 255},
	"grey":      {128, 128, 128, 255},
	"darkgray":  {169, 169, 169, 255},
	"lightgray": {211, 211, 211, 255},
	"orange":    {255, 165, 0, 255},
	"purple":    {128, 0, 128, 255},
	"pink":      {255, 192, 203, 255},
	"brown":     {165, 42, 42, 255},
	"lime":      {0, 255, 0, 255},
	"navy":      {0, 0, 128, 255},
	"teal":      {0, 128, 128, 255},
	"silver":    {192, 192, 192, 255},
	"maroon":    {128, 0, 0, 255},
	"olive":     {128, 128, 0, 255},
	"gold":      {255, 215, 0, 255},
}

// ParseColor understands named colours, transparent, #rgb, #rrggbb,
// #rrggbbaa, rgb() and rgba().
func ParseColor(colorStr string) (Color, bool) {
	colorStr = strings.ToLower(strings.TrimSpace(colorStr))
	if colorStr == "transparent" {
		return Transparent, true
	}
	if c, ok := namedColors[colorStr]; ok {
		return c, true
	}
	if strings.HasPrefix(colorStr, "#") {
		return parseHexColor(colorStr[1:])
	}
	if strings.HasPrefix(colorStr, "rgb(") || strings.HasPrefix(colorStr, "rgba(") {
		return parseRGBFunction(colorStr)
	}
	return Color{}, false
}

func parseHexColor(hex string) (Color, bool) {
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6, 8:
	default:
		return Color{}, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, false
	}
	if len(hex) == 6 {
		return Color{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}, true
	}
	return Color{uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)}, true
}

func parseRGBFunction(s string) (Color, bool) {
	open := strings.Index(s, "(")
	if !strings.HasSuffix(s, ")") {
		return Color{}, false
	}
	args := strings.Split(s[open+1:len(s)-1], ",")
	if len(args) != 3 && len(args) != 4 {
		return Color{}, false
	}
	var channels [3]uint8
	for i := 0; i < 3; i++ {
		arg := strings.TrimSpace(args[i])
		var v float64
		if strings.HasSuffix(arg, "%") {
			p, err := strconv.ParseFloat(strings.TrimSuffix(arg, "%"), 64)
			if err != nil {
				return Color{}, false
			}
			v = p * 255 / 100
		} else {
			n, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				return Color{}, false
			}
			v = n
		}
		channels[i] = clampByte(v)
	}
	alpha := uint8(255)
	if len(args) == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(args[3]), 64)
		if err != nil {
			return Color{}, false
		}
		alpha = clampByte(a * 255)
	}
	return Color{channels[0], channels[1], channels[2], alpha}, true
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

func (c Color) String() string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %.2f)", c.R, c.G, c.B, float64(c.A)/255)
}

// NRGBA converts to the image/color representation used by the painter.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}
