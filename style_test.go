package vellum

import "testing"

func TestStyleDefaults(t *testing.T) {
	p := NewPath("p")
	s := p.Style()
	if _, ok := s.FillColor(); ok {
		t.Error("fill should default to absent")
	}
	if _, ok := s.StrokeColor(); ok {
		t.Error("stroke should default to absent")
	}
	if s.StrokeWidth() != 1 {
		t.Errorf("StrokeWidth = %v, want 1", s.StrokeWidth())
	}
	if s.Cap() != CapButt {
		t.Error("cap should default to butt")
	}
	if s.Join() != JoinMiter {
		t.Error("join should default to miter")
	}
	if s.MiterLimit() != 10 {
		t.Errorf("MiterLimit = %v, want 10", s.MiterLimit())
	}
	if s.Dash() != nil {
		t.Error("dash should default to solid")
	}
}

func TestStyleSetAndUnset(t *testing.T) {
	p := NewPath("p")
	s := p.Style()
	s.SetStrokeWidth(6)
	if s.StrokeWidth() != 6 {
		t.Errorf("StrokeWidth = %v, want 6", s.StrokeWidth())
	}
	s.Unset(StyleStrokeWidth)
	if s.StrokeWidth() != 1 {
		t.Error("Unset should restore the default")
	}
}

func TestStyleSetFill(t *testing.T) {
	p := NewPath("p")
	red := Color{R: 1, A: 1}
	p.Style().SetFillColor(red)
	c, ok := p.Style().FillColor()
	if !ok || c != red {
		t.Errorf("FillColor = %v, %v", c, ok)
	}
}

func TestStrokeExtent(t *testing.T) {
	p := NewPath("p")
	if p.Style().strokeExtent() != 0 {
		t.Error("no stroke color: extent should be 0")
	}
	p.Style().SetStrokeColor(ColorBlack)
	p.Style().SetStrokeWidth(8)
	if p.Style().strokeExtent() != 4 {
		t.Errorf("extent = %v, want 4", p.Style().strokeExtent())
	}
}

// --- Dash ---

func TestNewDashNormalizes(t *testing.T) {
	d := NewDash(5, -3)
	if d == nil {
		t.Fatal("dash should be created")
	}
	if d.Array[0] != 5 || d.Array[1] != 3 {
		t.Errorf("Array = %v, want [5 3]", d.Array)
	}
}

func TestNewDashRejectsEmpty(t *testing.T) {
	if NewDash() != nil {
		t.Error("no lengths: want nil")
	}
	if NewDash(0, 0) != nil {
		t.Error("all-zero lengths: want nil")
	}
}

func TestDashWithOffset(t *testing.T) {
	d := NewDash(4, 4).WithOffset(2)
	if d.Offset != 2 {
		t.Errorf("Offset = %v, want 2", d.Offset)
	}
}

func TestDashOddArrayDuplicates(t *testing.T) {
	d := NewDash(5)
	if d.at(0) != 5 || d.at(1) != 5 || d.at(2) != 5 {
		t.Error("odd arrays should repeat logically")
	}
}

// --- Dash application ---

func TestDashPolylineSplits(t *testing.T) {
	// A 10-unit horizontal line with [4 on, 1 off] yields runs
	// [0,4], [5,9], [10,10is dropped]: two drawable runs.
	pts := []Point{{0, 0}, {10, 0}}
	runs := dashPolyline(pts, NewDash(4, 1))
	if len(runs) != 2 {
		t.Fatalf("runs = %d, want 2", len(runs))
	}
	r0 := runs[0].Points
	if !approxEqual(r0[0].X, 0) || !approxEqual(r0[len(r0)-1].X, 4) {
		t.Errorf("first run = %v", r0)
	}
	r1 := runs[1].Points
	if !approxEqual(r1[0].X, 5) || !approxEqual(r1[len(r1)-1].X, 9) {
		t.Errorf("second run = %v", r1)
	}
}

func TestDashPolylineOffsetStartsInGap(t *testing.T) {
	// Offset 4 consumes the whole first dash: the line starts in the gap.
	pts := []Point{{0, 0}, {10, 0}}
	runs := dashPolyline(pts, NewDash(4, 1).WithOffset(4))
	if len(runs) == 0 {
		t.Fatal("want at least one run")
	}
	if !approxEqual(runs[0].Points[0].X, 1) {
		t.Errorf("first run starts at %v, want 1", runs[0].Points[0].X)
	}
}

func TestDashPolylineCarriesAcrossVertices(t *testing.T) {
	// An L-shaped polyline: pattern position continues around the corner.
	pts := []Point{{0, 0}, {3, 0}, {3, 3}}
	runs := dashPolyline(pts, NewDash(4, 2))
	if len(runs) == 0 {
		t.Fatal("want runs")
	}
	// First run spans the corner: (0,0) -> (3,0) -> (3,1).
	r0 := runs[0].Points
	last := r0[len(r0)-1]
	if !approxEqual(last.X, 3) || !approxEqual(last.Y, 1) {
		t.Errorf("first run ends at %+v, want (3,1)", last)
	}
}

func TestDashContoursClosedContourWraps(t *testing.T) {
	// A closed 4x4 square is walked as a 16-unit loop.
	square := Contour{
		Points: []Point{{0, 0}, {4, 0}, {4, 4}, {0, 4}},
		Closed: true,
	}
	runs := dashContours([]Contour{square}, NewDash(6, 2))
	if len(runs) != 2 {
		t.Fatalf("runs = %d, want 2", len(runs))
	}
	for _, r := range runs {
		if r.Closed {
			t.Error("dashed runs should be open contours")
		}
	}
}
