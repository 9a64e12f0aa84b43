package render

import "image/color"

// Surface is the drawing capability the renderer paints onto. Coordinates are
// in pixels with the origin at the top-left corner.
type Surface interface {
	Width() int
	Height() int
	// Clear resets every pixel to transparent.
	Clear()
	FillGradient(g LinearGradient)
	FillCircle(x, y, r float64, c color.Color)
	FillRect(x, y, w, h float64, c color.Color)
	StrokeCurve(cv Curve, c color.Color, width float64)
	StrokeLine(x1, y1, x2, y2 float64, c color.Color, width float64)
	DrawGlyph(g Glyph)
}

// Point is a position on the surface.
type Point struct{ X, Y float64 }

// ColorStop is one stop of a gradient; Offset is in [0, 1].
type ColorStop struct {
	Offset float64
	Color  color.Color
}

// LinearGradient fills the whole surface along the From→To axis.
type LinearGradient struct {
	From, To Point
	Stops    []ColorStop
}

// QuadSegment is a quadratic curve segment ending at End.
type QuadSegment struct {
	Control, End Point
}

// Curve is an open path made of quadratic segments starting at Start.
type Curve struct {
	Start    Point
	Segments []QuadSegment
}

// Glyph is text drawn at Origin relative to a translated and rotated frame
// centered on Center. It is filled first, then outlined.
type Glyph struct {
	Text        string
	Font        string
	Size        float64
	Bold        bool
	Center      Point
	Angle       float64 // radians, clockwise on screen
	Origin      Point
	Fill        color.Color
	Stroke      color.Color
	StrokeWidth float64
}
