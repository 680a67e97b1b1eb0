package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Theme holds the fixed palette of the dashboard charts.
type Theme struct {
	Background  color.RGBA
	Grid        color.RGBA
	AxisText    color.RGBA
	Up          color.RGBA
	Down        color.RGBA
	LegendText  color.RGBA
	LegendMuted color.RGBA
	ResetFill   color.RGBA
	ResetText   color.RGBA
	TooltipFill color.RGBA
	TooltipText color.RGBA
	Highlight   color.RGBA
	EmptyText   color.RGBA
	Historical  color.RGBA
	Predicted   color.RGBA
	AreaAlpha   uint8
}

// DefaultTheme is the dark dashboard palette.
var DefaultTheme = Theme{
	Background:  color.RGBA{R: 0x1e, G: 0x21, B: 0x30, A: 0xff},
	Grid:        color.RGBA{R: 0x44, G: 0x44, B: 0x44, A: 0xff},
	AxisText:    color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xff},
	Up:          color.RGBA{R: 0x4c, G: 0xaf, B: 0x50, A: 0xff},
	Down:        color.RGBA{R: 0xf4, G: 0x43, B: 0x36, A: 0xff},
	LegendText:  color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	LegendMuted: color.RGBA{R: 0x77, G: 0x77, B: 0x77, A: 0xff},
	ResetFill:   color.RGBA{R: 0x44, G: 0x44, B: 0x44, A: 0xff},
	ResetText:   color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	TooltipFill: color.RGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xf0},
	TooltipText: color.RGBA{R: 0xdd, G: 0xdd, B: 0xdd, A: 0xff},
	Highlight:   color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	EmptyText:   color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xff},
	Historical:  color.RGBA{R: 0xff, G: 0x77, B: 0x61, A: 0xff},
	Predicted:   color.RGBA{R: 0x2e, G: 0xca, B: 0xea, A: 0xff},
	AreaAlpha:   0x40,
}

// ParseHexColor parses "#RRGGBB" or "#RGB".
func ParseHexColor(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// mustColor parses s or falls back to fallback.
func mustColor(s string, fallback color.RGBA) color.RGBA {
	c, err := ParseHexColor(s)
	if err != nil {
		return fallback
	}
	return c
}

// withAlpha returns c with a premultiplied alpha channel of a.
func withAlpha(c color.RGBA, a uint8) color.RGBA {
	f := float64(a) / 0xff
	return color.RGBA{
		R: uint8(float64(c.R) * f),
		G: uint8(float64(c.G) * f),
		B: uint8(float64(c.B) * f),
		A: a,
	}
}
