package vellum

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Matrix is a 2D affine transform.
//
//	| A  C  TX |
//	| B  D  TY |
//	| 0  0   1 |
type Matrix struct {
	A, B, C, D, TX, TY float64
}

// Identity returns the identity matrix.
func Identity() Matrix {
	return Matrix{A: 1, D: 1}
}

// Translation returns a matrix that translates by (x, y).
func Translation(x, y float64) Matrix {
	return Matrix{A: 1, D: 1, TX: x, TY: y}
}

// Scaling returns a matrix that scales by (sx, sy).
func Scaling(sx, sy float64) Matrix {
	return Matrix{A: sx, D: sy}
}

// Rotation returns a matrix that rotates by angle radians.
func Rotation(angle float64) Matrix {
	sin, cos := math.Sincos(angle)
	return Matrix{A: cos, B: sin, C: -sin, D: cos}
}

// IsIdentity reports whether m is exactly the identity matrix.
func (m Matrix) IsIdentity() bool {
	return m == Matrix{A: 1, D: 1}
}

// Mul composes two transforms: the result applies o first, then m.
func (m Matrix) Mul(o Matrix) Matrix {
	return Matrix{
		A:  m.A*o.A + m.C*o.B,
		B:  m.B*o.A + m.D*o.B,
		C:  m.A*o.C + m.C*o.D,
		D:  m.B*o.C + m.D*o.D,
		TX: m.A*o.TX + m.C*o.TY + m.TX,
		TY: m.B*o.TX + m.D*o.TY + m.TY,
	}
}

// Invert returns the inverse transform. ok is false if the matrix is
// singular (determinant ≈ 0), in which case the identity is returned.
func (m Matrix) Invert() (inv Matrix, ok bool) {
	det := m.A*m.D - m.C*m.B
	if det > -1e-12 && det < 1e-12 {
		return Identity(), false
	}
	invDet := 1.0 / det
	a := m.D * invDet
	b := -m.B * invDet
	c := -m.C * invDet
	d := m.A * invDet
	return Matrix{
		A: a, B: b, C: c, D: d,
		TX: -(a*m.TX + c*m.TY),
		TY: -(b*m.TX + d*m.TY),
	}, true
}

// Apply transforms the point (x, y).
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return m.A*x + m.C*y + m.TX, m.B*x + m.D*y + m.TY
}

// ApplyRect transforms all four corners of r and returns their axis-aligned
// bounding box.
func (m Matrix) ApplyRect(r Rect) Rect {
	x0, y0 := m.Apply(r.X, r.Y)
	x1, y1 := m.Apply(r.X+r.Width, r.Y)
	x2, y2 := m.Apply(r.X, r.Y+r.Height)
	x3, y3 := m.Apply(r.X+r.Width, r.Y+r.Height)
	minX := math.Min(math.Min(x0, x1), math.Min(x2, x3))
	minY := math.Min(math.Min(y0, y1), math.Min(y2, y3))
	maxX := math.Max(math.Max(x0, x1), math.Max(x2, x3))
	maxY := math.Max(math.Max(y0, y1), math.Max(y2, y3))
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// GeoM converts m to an ebiten.GeoM for DrawImage submission.
func (m Matrix) GeoM() ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m.A)
	g.SetElement(0, 1, m.C)
	g.SetElement(0, 2, m.TX)
	g.SetElement(1, 0, m.B)
	g.SetElement(1, 1, m.D)
	g.SetElement(1, 2, m.TY)
	return g
}
