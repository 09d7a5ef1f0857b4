package vellum

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Contour is one run of a path: a flattened polyline, optionally closed.
// Curve flattening is the geometry layer's business; the scene graph only
// consumes point runs.
type Contour struct {
	Points []Point
	Closed bool
}

// Path is a leaf item painting filled and stroked vector geometry.
type Path struct {
	SceneNode
	contours []Contour
}

// NewPath creates an empty path.
func NewPath(name string) *Path {
	p := &Path{}
	nodeDefaults(&p.SceneNode, name)
	return p
}

// NewRectPath creates a closed rectangular path.
func NewRectPath(name string, r Rect) *Path {
	p := NewPath(name)
	p.AddContour([]Point{
		{r.X, r.Y},
		{r.X + r.Width, r.Y},
		{r.X + r.Width, r.Y + r.Height},
		{r.X, r.Y + r.Height},
	}, true)
	return p
}

// NewPolygon creates a closed path from the given points.
func NewPolygon(name string, points []Point) *Path {
	p := NewPath(name)
	p.AddContour(points, true)
	return p
}

// NewLine creates an open two-point path.
func NewLine(name string, a, b Point) *Path {
	p := NewPath(name)
	p.AddContour([]Point{a, b}, false)
	return p
}

// Node returns the path's shared scene graph state.
func (p *Path) Node() *SceneNode { return &p.SceneNode }

// AddContour appends a contour. Runs with fewer than two points are ignored.
func (p *Path) AddContour(points []Point, closed bool) {
	if len(points) < 2 {
		return
	}
	p.contours = append(p.contours, Contour{Points: points, Closed: closed})
	notify(&p.SceneNode, ChangeGeometry)
}

// Contours returns the path's contours. The returned slice MUST NOT be
// mutated by the caller.
func (p *Path) Contours() []Contour { return p.contours }

// ClearContours removes all geometry.
func (p *Path) ClearContours() {
	p.contours = nil
	notify(&p.SceneNode, ChangeGeometry)
}

// localBounds returns the axis-aligned bounds of the raw points, before the
// path's transform.
func (p *Path) localBounds() Rect {
	first := true
	var minX, minY, maxX, maxY float64
	for _, c := range p.contours {
		for _, pt := range c.Points {
			if first {
				minX, maxX = pt.X, pt.X
				minY, maxY = pt.Y, pt.Y
				first = false
				continue
			}
			minX = math.Min(minX, pt.X)
			minY = math.Min(minY, pt.Y)
			maxX = math.Max(maxX, pt.X)
			maxY = math.Max(maxY, pt.Y)
		}
	}
	if first {
		return Rect{}
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Bounds returns the path's bounds in its parent's space. The geometry-basis
// rectangle is cached; the stroke-inclusive one pads it by the resolved
// stroke extent before transforming.
func (p *Path) Bounds(includeStroke bool) Rect {
	if includeStroke {
		if len(p.contours) == 0 {
			return Rect{}
		}
		return p.matrix.ApplyRect(p.localBounds().Outset(p.style.strokeExtent()))
	}
	if r, ok := p.lookupBounds(); ok {
		return r
	}
	return p.storeBounds(p.matrix.ApplyRect(p.localBounds()))
}

// Draw paints the path's fill, then its stroke, onto dst.
func (p *Path) Draw(dst *Surface, ctx *DrawContext) error {
	if !p.visible || p.opacity <= 0 || len(p.contours) == 0 {
		return nil
	}
	if !dst.usable() {
		return ErrSurfaceReleased
	}
	m := ctx.Matrix.Mul(p.matrix)
	alpha := ctx.Opacity * p.opacity
	blend := ctx.blendFor(p.blend)

	if fc, ok := p.style.FillColor(); ok {
		vp := buildVectorPath(p.contours)
		vs, is := vp.AppendVerticesAndIndicesForFilling(nil, nil)
		submitTriangles(dst, vs, is, m, fc, alpha, blend)
	}
	if sc, ok := p.style.StrokeColor(); ok {
		contours := p.contours
		if d := p.style.Dash(); d != nil {
			contours = dashContours(contours, d)
		}
		vp := buildVectorPath(contours)
		var op vector.StrokeOptions
		op.Width = float32(p.style.StrokeWidth())
		op.LineCap = p.style.Cap().vectorCap()
		op.LineJoin = p.style.Join().vectorJoin()
		op.MiterLimit = float32(p.style.MiterLimit())
		vs, is := vp.AppendVerticesAndIndicesForStroke(nil, nil, &op)
		submitTriangles(dst, vs, is, m, sc, alpha, blend)
	}
	return nil
}

// buildVectorPath converts contours to a vector.Path for tessellation.
func buildVectorPath(contours []Contour) *vector.Path {
	var vp vector.Path
	for _, c := range contours {
		if len(c.Points) < 2 {
			continue
		}
		vp.MoveTo(float32(c.Points[0].X), float32(c.Points[0].Y))
		for _, pt := range c.Points[1:] {
			vp.LineTo(float32(pt.X), float32(pt.Y))
		}
		if c.Closed {
			vp.Close()
		}
	}
	return &vp
}

// submitTriangles transforms tessellated vertices into dst pixels, tints
// them with the premultiplied color, and submits one DrawTriangles call.
func submitTriangles(dst *Surface, vs []ebiten.Vertex, is []uint16, m Matrix, c Color, alpha float64, blend ebiten.Blend) {
	if len(vs) == 0 || len(is) == 0 {
		return
	}
	a := c.A * alpha
	cr := float32(c.R * a)
	cg := float32(c.G * a)
	cb := float32(c.B * a)
	ca := float32(a)
	for i := range vs {
		x, y := m.Apply(float64(vs[i].DstX), float64(vs[i].DstY))
		vs[i].DstX = float32(x)
		vs[i].DstY = float32(y)
		vs[i].SrcX = 1
		vs[i].SrcY = 1
		vs[i].ColorR = cr
		vs[i].ColorG = cg
		vs[i].ColorB = cb
		vs[i].ColorA = ca
	}
	var triOp ebiten.DrawTrianglesOptions
	triOp.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	triOp.AntiAlias = true
	triOp.Blend = blend
	dst.img.DrawTriangles(vs, is, WhitePixel, &triOp)
}

// dashContours splits contours into the "on" runs of the dash pattern.
// Each emitted run is an open contour; the pattern position carries across
// segments within one contour and restarts (at the dash offset) for each
// contour.
func dashContours(contours []Contour, d *Dash) []Contour {
	out := make([]Contour, 0, len(contours))
	for _, c := range contours {
		pts := c.Points
		if c.Closed && len(pts) >= 2 {
			pts = append(append([]Point{}, pts...), pts[0])
		}
		out = append(out, dashPolyline(pts, d)...)
	}
	return out
}

// dashPolyline walks one polyline, alternating on/off spans of the pattern.
func dashPolyline(pts []Point, d *Dash) []Contour {
	total := 0.0
	for _, l := range d.Array {
		total += l
	}
	if total <= 0 {
		// Degenerate pattern: solid stroke.
		return []Contour{{Points: pts}}
	}

	var out []Contour

	// Pattern cursor: index into the logical (possibly duplicated) array
	// and distance remaining in the current span. Zero-length spans are
	// skipped so the walk always makes progress.
	idx := 0
	remain := d.at(0)
	on := true
	advance := func() {
		idx++
		on = !on
		remain = d.at(idx)
		for remain == 0 {
			idx++
			on = !on
			remain = d.at(idx)
		}
	}
	if remain == 0 {
		advance()
	}
	for off := d.Offset; off > 0; {
		if off < remain {
			remain -= off
			break
		}
		off -= remain
		advance()
	}

	var run []Point
	if on {
		run = append(run, pts[0])
	}
	for i := 0; i+1 < len(pts); i++ {
		ax, ay := pts[i].X, pts[i].Y
		bx, by := pts[i+1].X, pts[i+1].Y
		segLen := math.Hypot(bx-ax, by-ay)
		pos := 0.0
		for segLen-pos > remain {
			pos += remain
			t := pos / segLen
			pt := Point{ax + (bx-ax)*t, ay + (by-ay)*t}
			if on {
				run = append(run, pt)
				if len(run) >= 2 {
					out = append(out, Contour{Points: run})
				}
				run = nil
			} else {
				run = []Point{pt}
			}
			advance()
		}
		remain -= segLen - pos
		if on {
			run = append(run, pts[i+1])
		}
	}
	if on && len(run) >= 2 {
		out = append(out, Contour{Points: run})
	}
	return out
}
