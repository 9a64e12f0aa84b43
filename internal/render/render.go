// Package render composites a challenge string into a distorted raster.
package render

import (
	"image/color"

	"scrawl/internal/challenge"
)

const (
	backgroundDots  = 50
	backgroundRects = 10
	distortCurves   = 3
	curveSegments   = 3
	foregroundLines = 5
	foregroundDots  = 20

	jitterX  = 10
	jitterY  = 15
	maxTilt  = 0.25
	minGlyph = 25
	maxGlyph = 45
)

var backgroundStops = []ColorStop{
	{Offset: 0, Color: color.NRGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff}},
	{Offset: 0.5, Color: color.NRGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff}},
	{Offset: 1, Color: color.NRGBA{R: 0xd0, G: 0xd0, B: 0xd0, A: 0xff}},
}

// Render paints text onto s. Layers are drawn back to front and every visual
// parameter is sampled afresh, so two calls with the same text never produce
// the same picture.
func Render(s Surface, text string) {
	w, h := float64(s.Width()), float64(s.Height())

	s.Clear()
	s.FillGradient(LinearGradient{
		From:  Point{0, 0},
		To:    Point{w, h},
		Stops: backgroundStops,
	})
	drawBackgroundNoise(s, w, h)
	drawDistortion(s, w, h)
	drawCharacters(s, text, w, h)
	drawForegroundNoise(s, w, h)
}

func randomPoint(w, h float64) Point {
	return Point{challenge.RandomBetween(0, w), challenge.RandomBetween(0, h)}
}

func drawBackgroundNoise(s Surface, w, h float64) {
	for i := 0; i < backgroundDots; i++ {
		p := randomPoint(w, h)
		s.FillCircle(p.X, p.Y, challenge.RandomBetween(1, 3), challenge.RandomColor(0.3))
	}
	for i := 0; i < backgroundRects; i++ {
		p := randomPoint(w, h)
		s.FillRect(p.X, p.Y,
			challenge.RandomBetween(5, 25), challenge.RandomBetween(5, 25),
			challenge.RandomColor(0.1))
	}
}

func drawDistortion(s Surface, w, h float64) {
	for i := 0; i < distortCurves; i++ {
		c := challenge.RandomColor(0.4)
		width := challenge.RandomBetween(1, 4)
		cv := Curve{Start: randomPoint(w, h)}
		for j := 0; j < curveSegments; j++ {
			cv.Segments = append(cv.Segments, QuadSegment{
				Control: randomPoint(w, h),
				End:     randomPoint(w, h),
			})
		}
		s.StrokeCurve(cv, c, width)
	}
}

func drawCharacters(s Surface, text string, w, h float64) {
	runes := []rune(text)
	slot := w / float64(len(runes)+1)
	for i, r := range runes {
		center := Point{
			X: slot*(float64(i)+0.5) + challenge.RandomBetween(-jitterX, jitterX),
			Y: h/2 + challenge.RandomBetween(-jitterY, jitterY),
		}
		s.DrawGlyph(Glyph{
			Text:        string(r),
			Center:      center,
			Angle:       challenge.RandomBetween(-maxTilt, maxTilt),
			Size:        challenge.RandomBetween(minGlyph, maxGlyph),
			Font:        challenge.RandomFont(),
			Bold:        true,
			Origin:      Point{-10, 5},
			Fill:        challenge.RandomColor(0.8),
			Stroke:      challenge.RandomColor(0.6),
			StrokeWidth: 1,
		})
	}
}

func drawForegroundNoise(s Surface, w, h float64) {
	for i := 0; i < foregroundLines; i++ {
		c := challenge.RandomColor(0.2)
		width := challenge.RandomBetween(0.5, 2.5)
		a, b := randomPoint(w, h), randomPoint(w, h)
		s.StrokeLine(a.X, a.Y, b.X, b.Y, c, width)
	}
	for i := 0; i < foregroundDots; i++ {
		p := randomPoint(w, h)
		s.FillCircle(p.X, p.Y, challenge.RandomBetween(0.5, 2), challenge.RandomColor(0.3))
	}
}
