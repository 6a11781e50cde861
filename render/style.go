package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Palette
var (
	ColorSpace   = tcell.NewRGBColor(4, 6, 18)
	ColorOcean   = tcell.NewRGBColor(10, 32, 84)
	ColorLimb    = tcell.NewRGBColor(60, 110, 200)
	ColorGrid    = tcell.NewRGBColor(40, 70, 140)
	ColorPrimary = tcell.NewRGBColor(0, 82, 255)
	ColorText    = tcell.NewRGBColor(235, 235, 240)
	ColorMuted   = tcell.NewRGBColor(150, 155, 170)
	ColorPanel   = tcell.NewRGBColor(16, 18, 30)
)

// Base styles
var (
	StyleBase   = tcell.StyleDefault.Background(ColorSpace).Foreground(ColorText)
	StyleMuted  = StyleBase.Foreground(ColorMuted)
	StyleTitle  = StyleBase.Bold(true)
	StyleButton = tcell.StyleDefault.Background(tcell.ColorWhite).Foreground(tcell.ColorBlack).Bold(true)
	StyleGhost  = StyleBase.Underline(true)
	StylePanel  = tcell.StyleDefault.Background(ColorPanel).Foreground(ColorText)
)

// TCell converts a colorful color to a true-color tcell color
func TCell(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// shade darkens c toward black by f in [0,1] in Lab space
func shade(c colorful.Color, f float64) colorful.Color {
	return c.BlendLab(colorful.Color{}, f).Clamped()
}
