package render

import (
	"image"
	"image/color"
	"io"
	"log"

	"github.com/fogleman/gg"
)

// Canvas is a fixed-size raster Surface backed by a gg drawing context.
type Canvas struct {
	dc *gg.Context
}

// NewCanvas allocates a transparent canvas of w×h pixels.
func NewCanvas(w, h int) *Canvas {
	return &Canvas{dc: gg.NewContext(w, h)}
}

func (c *Canvas) Width() int  { return c.dc.Width() }
func (c *Canvas) Height() int { return c.dc.Height() }

func (c *Canvas) Clear() {
	c.dc.ClearPath()
	c.dc.SetRGBA(0, 0, 0, 0)
	c.dc.Clear()
}

func (c *Canvas) FillGradient(g LinearGradient) {
	grad := gg.NewLinearGradient(g.From.X, g.From.Y, g.To.X, g.To.Y)
	for _, s := range g.Stops {
		grad.AddColorStop(s.Offset, s.Color)
	}
	c.dc.SetFillStyle(grad)
	c.dc.DrawRectangle(0, 0, float64(c.Width()), float64(c.Height()))
	c.dc.Fill()
}

func (c *Canvas) FillCircle(x, y, r float64, col color.Color) {
	c.dc.SetColor(col)
	c.dc.DrawCircle(x, y, r)
	c.dc.Fill()
}

func (c *Canvas) FillRect(x, y, w, h float64, col color.Color) {
	c.dc.SetColor(col)
	c.dc.DrawRectangle(x, y, w, h)
	c.dc.Fill()
}

func (c *Canvas) StrokeCurve(cv Curve, col color.Color, width float64) {
	c.dc.SetColor(col)
	c.dc.SetLineWidth(width)
	c.dc.MoveTo(cv.Start.X, cv.Start.Y)
	for _, seg := range cv.Segments {
		c.dc.QuadraticTo(seg.Control.X, seg.Control.Y, seg.End.X, seg.End.Y)
	}
	c.dc.Stroke()
}

func (c *Canvas) StrokeLine(x1, y1, x2, y2 float64, col color.Color, width float64) {
	c.dc.SetColor(col)
	c.dc.SetLineWidth(width)
	c.dc.DrawLine(x1, y1, x2, y2)
	c.dc.Stroke()
}

func (c *Canvas) DrawGlyph(g Glyph) {
	f, err := loadFont(g.Font, g.Bold)
	if err != nil {
		log.Printf("DrawGlyph: %v", err)
		return
	}
	c.dc.Push()
	defer c.dc.Pop()

	c.dc.Translate(g.Center.X, g.Center.Y)
	c.dc.Rotate(g.Angle)
	c.dc.ClearPath()
	if err := appendText(c.dc, f, g.Text, g.Size, g.Origin.X, g.Origin.Y); err != nil {
		log.Printf("DrawGlyph: %v", err)
		c.dc.ClearPath()
		return
	}
	c.dc.SetColor(g.Fill)
	c.dc.FillPreserve()
	c.dc.SetColor(g.Stroke)
	c.dc.SetLineWidth(g.StrokeWidth)
	c.dc.Stroke()
}

// Image returns the backing raster.
func (c *Canvas) Image() image.Image { return c.dc.Image() }

// EncodePNG writes the current raster as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	return c.dc.EncodePNG(w)
}
