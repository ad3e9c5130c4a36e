package report

import (
	"fmt"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// diamondGlyph is a filled diamond ("D").
type diamondGlyph struct{}

func (diamondGlyph) DrawGlyph(c *draw.Canvas, sty draw.GlyphStyle, pt vg.Point) {
	r := sty.Radius
	c.FillPolygon(sty.Color, []vg.Point{
		{X: pt.X, Y: pt.Y + r},
		{X: pt.X + r, Y: pt.Y},
		{X: pt.X, Y: pt.Y - r},
		{X: pt.X - r, Y: pt.Y},
	})
}

// invertedPyramidGlyph is a filled downward triangle ("v").
type invertedPyramidGlyph struct{}

func (invertedPyramidGlyph) DrawGlyph(c *draw.Canvas, sty draw.GlyphStyle, pt vg.Point) {
	r := sty.Radius
	c.FillPolygon(sty.Color, []vg.Point{
		{X: pt.X - r, Y: pt.Y + r},
		{X: pt.X + r, Y: pt.Y + r},
		{X: pt.X, Y: pt.Y - r},
	})
}

// starGlyph overlays a plus and a cross ("*").
type starGlyph struct{}

func (starGlyph) DrawGlyph(c *draw.Canvas, sty draw.GlyphStyle, pt vg.Point) {
	draw.PlusGlyph{}.DrawGlyph(c, sty, pt)
	draw.CrossGlyph{}.DrawGlyph(c, sty, pt)
}

// markerGlyphs maps matplotlib-style marker symbols to glyph drawers.
var markerGlyphs = map[string]draw.GlyphDrawer{
	"o": draw.CircleGlyph{},
	"s": draw.BoxGlyph{},
	"^": draw.PyramidGlyph{},
	"D": diamondGlyph{},
	"v": invertedPyramidGlyph{},
	"P": draw.PlusGlyph{},
	"+": draw.PlusGlyph{},
	"*": starGlyph{},
	"X": draw.CrossGlyph{},
	"x": draw.CrossGlyph{},
	".": draw.CircleGlyph{},
}

// GlyphFor returns the glyph drawer for a marker symbol.
func GlyphFor(marker string) (draw.GlyphDrawer, error) {
	g, ok := markerGlyphs[marker]
	if !ok {
		return nil, fmt.Errorf("unknown marker %q", marker)
	}
	return g, nil
}

// ParseMarkers resolves every marker symbol.
func ParseMarkers(markers []string) ([]draw.GlyphDrawer, error) {
	if len(markers) == 0 {
		return nil, fmt.Errorf("marker list is empty")
	}
	out := make([]draw.GlyphDrawer, len(markers))
	for i, m := range markers {
		g, err := GlyphFor(m)
		if err != nil {
			return nil, fmt.Errorf("markers[%d]: %w", i, err)
		}
		out[i] = g
	}
	return out, nil
}
