package challenge

import (
	"image/color"
	"math/rand/v2"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var fonts = [...]string{"Arial", "Helvetica", "Times", "Courier", "Verdana"}

var palette = [...]color.NRGBA{
	{R: 0xFF, G: 0x00, B: 0x00, A: 0xFF},
	{R: 0x00, G: 0xFF, B: 0x00, A: 0xFF},
	{R: 0x00, G: 0x00, B: 0xFF, A: 0xFF},
	{R: 0xFF, G: 0x00, B: 0xFF, A: 0xFF},
	{R: 0xFF, G: 0xFF, B: 0x00, A: 0xFF},
	{R: 0x00, G: 0xFF, B: 0xFF, A: 0xFF},
	{R: 0xFF, G: 0x80, B: 0x00, A: 0xFF},
	{R: 0x80, G: 0x00, B: 0xFF, A: 0xFF},
}

// Alphabet returns the symbols a challenge is drawn from.
func Alphabet() string { return alphabet }

// Fonts returns a copy of the font family list.
func Fonts() []string { return append([]string(nil), fonts[:]...) }

// Palette returns a copy of the opaque color palette.
func Palette() []color.NRGBA { return append([]color.NRGBA(nil), palette[:]...) }

// RandomFont picks a font family uniformly.
func RandomFont() string {
	return fonts[rand.IntN(len(fonts))]
}

// RandomColor picks a palette entry uniformly and applies alpha in [0, 1].
func RandomColor(alpha float64) color.NRGBA {
	c := palette[rand.IntN(len(palette))]
	c.A = alphaByte(alpha)
	return c
}

func alphaByte(alpha float64) uint8 {
	switch {
	case alpha <= 0:
		return 0
	case alpha >= 1:
		return 0xFF
	}
	return uint8(alpha*255 + 0.5)
}
