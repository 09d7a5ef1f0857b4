package vellum

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2/vector"
)

// StyleProp names a style property. Unset properties resolve through the
// static default table.
type StyleProp uint8

const (
	StyleFillColor   StyleProp = iota // Color; nil default means no fill
	StyleStrokeColor                  // Color; nil default means no stroke
	StyleStrokeWidth                  // float64
	StyleStrokeCap                    // LineCap
	StyleStrokeJoin                   // LineJoin
	StyleMiterLimit                   // float64
	StyleDash                         // *Dash; nil default means solid stroke
)

// LineCap controls how stroke endpoints are rendered.
type LineCap uint8

const (
	CapButt   LineCap = iota // stroke stops exactly at the endpoint
	CapRound                 // semicircular cap
	CapSquare                // square cap extending half the stroke width
)

// LineJoin controls how stroke corners are rendered.
type LineJoin uint8

const (
	JoinMiter LineJoin = iota // sharp corner, subject to the miter limit
	JoinRound                 // rounded corner
	JoinBevel                 // flattened corner
)

func (c LineCap) vectorCap() vector.LineCap {
	switch c {
	case CapRound:
		return vector.LineCapRound
	case CapSquare:
		return vector.LineCapSquare
	default:
		return vector.LineCapButt
	}
}

func (j LineJoin) vectorJoin() vector.LineJoin {
	switch j {
	case JoinRound:
		return vector.LineJoinRound
	case JoinBevel:
		return vector.LineJoinBevel
	default:
		return vector.LineJoinMiter
	}
}

// styleDefaults is the static default table consulted for unset properties.
var styleDefaults = map[StyleProp]any{
	StyleFillColor:   nil,
	StyleStrokeColor: nil,
	StyleStrokeWidth: 1.0,
	StyleStrokeCap:   CapButt,
	StyleStrokeJoin:  JoinMiter,
	StyleMiterLimit:  10.0,
	StyleDash:        nil,
}

// geometryPropMask marks the style properties that affect measured size:
// changing one emits ChangeGeometry in addition to ChangeStyle.
const geometryPropMask = 1<<StyleStrokeWidth | 1<<StyleStrokeCap | 1<<StyleStrokeJoin | 1<<StyleMiterLimit

// Style maps style properties to values for one node. The zero value is not
// usable; styles are initialized by node constructors.
type Style struct {
	owner *SceneNode
	props map[StyleProp]any
}

func initStyle(s *Style, owner *SceneNode) {
	s.owner = owner
}

// Get returns the value for p, falling back to the default table.
// A nil result means the property is absent (e.g. no fill).
func (s *Style) Get(p StyleProp) any {
	if v, ok := s.props[p]; ok {
		return v
	}
	return styleDefaults[p]
}

// Set records a value for p and notifies the owning node.
func (s *Style) Set(p StyleProp, v any) {
	if s.props == nil {
		s.props = make(map[StyleProp]any)
	}
	s.props[p] = v
	flags := ChangeStyle
	if 1<<p&geometryPropMask != 0 {
		flags |= ChangeGeometry
	}
	notify(s.owner, flags)
}

// Unset removes an explicit value for p, restoring the default.
func (s *Style) Unset(p StyleProp) {
	if _, ok := s.props[p]; !ok {
		return
	}
	delete(s.props, p)
	flags := ChangeStyle
	if 1<<p&geometryPropMask != 0 {
		flags |= ChangeGeometry
	}
	notify(s.owner, flags)
}

// --- Typed accessors ---

// FillColor returns the fill color. ok is false when the node has no fill.
func (s *Style) FillColor() (c Color, ok bool) {
	v := s.Get(StyleFillColor)
	if v == nil {
		return Color{}, false
	}
	return v.(Color), true
}

// SetFillColor sets the fill color.
func (s *Style) SetFillColor(c Color) { s.Set(StyleFillColor, c) }

// StrokeColor returns the stroke color. ok is false when the node has no stroke.
func (s *Style) StrokeColor() (c Color, ok bool) {
	v := s.Get(StyleStrokeColor)
	if v == nil {
		return Color{}, false
	}
	return v.(Color), true
}

// SetStrokeColor sets the stroke color.
func (s *Style) SetStrokeColor(c Color) { s.Set(StyleStrokeColor, c) }

// StrokeWidth returns the stroke width.
func (s *Style) StrokeWidth() float64 { return s.Get(StyleStrokeWidth).(float64) }

// SetStrokeWidth sets the stroke width.
func (s *Style) SetStrokeWidth(w float64) { s.Set(StyleStrokeWidth, w) }

// Cap returns the stroke line cap.
func (s *Style) Cap() LineCap { return s.Get(StyleStrokeCap).(LineCap) }

// SetCap sets the stroke line cap.
func (s *Style) SetCap(c LineCap) { s.Set(StyleStrokeCap, c) }

// Join returns the stroke line join.
func (s *Style) Join() LineJoin { return s.Get(StyleStrokeJoin).(LineJoin) }

// SetJoin sets the stroke line join.
func (s *Style) SetJoin(j LineJoin) { s.Set(StyleStrokeJoin, j) }

// MiterLimit returns the miter limit.
func (s *Style) MiterLimit() float64 { return s.Get(StyleMiterLimit).(float64) }

// SetMiterLimit sets the miter limit.
func (s *Style) SetMiterLimit(l float64) { s.Set(StyleMiterLimit, l) }

// Dash returns the dash pattern, or nil for a solid stroke.
func (s *Style) Dash() *Dash {
	v := s.Get(StyleDash)
	if v == nil {
		return nil
	}
	return v.(*Dash)
}

// SetDash sets the dash pattern. Pass nil to restore a solid stroke.
func (s *Style) SetDash(d *Dash) { s.Set(StyleDash, d) }

// strokeExtent returns how far the stroke paints beyond the fill geometry on
// each side, or 0 when the node has no stroke.
func (s *Style) strokeExtent() float64 {
	if _, ok := s.StrokeColor(); !ok {
		return 0
	}
	return s.StrokeWidth() / 2
}

// --- Dash ---

// Dash defines a dash pattern for stroking: alternating on/off lengths plus
// a starting offset into the pattern cycle.
type Dash struct {
	Array  []float64
	Offset float64
}

// NewDash creates a dash pattern from alternating on/off lengths. Negative
// lengths are normalized to their absolute value. Returns nil if no length
// is positive (a solid stroke).
func NewDash(lengths ...float64) *Dash {
	if len(lengths) == 0 {
		return nil
	}
	positive := false
	normalized := make([]float64, len(lengths))
	for i, l := range lengths {
		normalized[i] = math.Abs(l)
		if l != 0 {
			positive = true
		}
	}
	if !positive {
		return nil
	}
	return &Dash{Array: normalized}
}

// WithOffset returns a copy of d starting at the given offset into the cycle.
func (d *Dash) WithOffset(offset float64) *Dash {
	return &Dash{Array: d.Array, Offset: offset}
}

// at returns the pattern entry for index i, honoring the logical duplication
// of odd-length arrays.
func (d *Dash) at(i int) float64 {
	return d.Array[i%len(d.Array)]
}
