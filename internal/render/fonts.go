package render

import (
	"fmt"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// fontFiles maps a family name onto the bundled Go fonts: {regular, bold}.
// Go Medium has no bold cut, so Times uses the medium weight for both.
var fontFiles = map[string][2][]byte{
	"Arial":     {goregular.TTF, gobold.TTF},
	"Helvetica": {goitalic.TTF, gobolditalic.TTF},
	"Times":     {gomedium.TTF, gomedium.TTF},
	"Courier":   {gomono.TTF, gomonobold.TTF},
	"Verdana":   {gomonoitalic.TTF, gomonobolditalic.TTF},
}

const fallbackFamily = "Arial"

type fontKey struct {
	family string
	bold   bool
}

var (
	fontMu    sync.Mutex
	fontCache = make(map[fontKey]*truetype.Font)
)

func loadFont(family string, bold bool) (*truetype.Font, error) {
	files, ok := fontFiles[family]
	if !ok {
		family = fallbackFamily
		files = fontFiles[family]
	}
	key := fontKey{family, bold}

	fontMu.Lock()
	defer fontMu.Unlock()
	if f, ok := fontCache[key]; ok {
		return f, nil
	}
	data := files[0]
	if bold {
		data = files[1]
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", family, err)
	}
	fontCache[key] = f
	return f, nil
}

// appendText adds the outlines of text to the current path of dc, with the
// baseline starting at (x, y) and glyphs scaled to size pixels per em.
func appendText(dc *gg.Context, f *truetype.Font, text string, size, x, y float64) error {
	scale := fixed.Int26_6(size * 64)
	var gb truetype.GlyphBuf
	for _, r := range text {
		if err := gb.Load(f, scale, f.Index(r), font.HintingNone); err != nil {
			return fmt.Errorf("load glyph %q: %w", r, err)
		}
		start := 0
		for _, end := range gb.Ends {
			appendContour(dc, gb.Points[start:end], x, y)
			start = end
		}
		x += float64(gb.AdvanceWidth) / 64
	}
	return nil
}

// appendContour walks one closed TrueType contour. Off-curve points are
// quadratic control points; two consecutive ones imply an on-curve midpoint.
func appendContour(dc *gg.Context, ps []truetype.Point, x, y float64) {
	if len(ps) == 0 {
		return
	}
	pt := func(p truetype.Point) (float64, float64) {
		return x + float64(p.X)/64, y - float64(p.Y)/64
	}
	mid := func(a, b truetype.Point) truetype.Point {
		return truetype.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2, Flags: 1}
	}
	onCurve := func(p truetype.Point) bool { return p.Flags&0x01 != 0 }

	start, others := ps[0], ps[1:]
	if !onCurve(start) {
		last := ps[len(ps)-1]
		if onCurve(last) {
			start, others = last, ps[:len(ps)-1]
		} else {
			start, others = mid(ps[0], last), ps
		}
	}

	dc.MoveTo(pt(start))
	q0, on0 := start, true
	for _, q := range others {
		on := onCurve(q)
		switch {
		case on && on0:
			dc.LineTo(pt(q))
		case on:
			cx, cy := pt(q0)
			ex, ey := pt(q)
			dc.QuadraticTo(cx, cy, ex, ey)
		case !on0:
			m := mid(q0, q)
			cx, cy := pt(q0)
			ex, ey := pt(m)
			dc.QuadraticTo(cx, cy, ex, ey)
		}
		q0, on0 = q, on
	}
	if on0 {
		dc.LineTo(pt(start))
	} else {
		cx, cy := pt(q0)
		ex, ey := pt(start)
		dc.QuadraticTo(cx, cy, ex, ey)
	}
	dc.ClosePath()
}
