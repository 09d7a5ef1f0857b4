package vellum

import (
	"errors"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Scene owns a root group, the surface pool shared by its draws, and an
// optional view transform applied above the root.
type Scene struct {
	root *Group
	pool *SurfacePool
	view Matrix
}

// NewScene creates a scene with an empty root group and its own pool.
func NewScene() *Scene {
	return &Scene{
		root: NewGroup("root"),
		pool: NewSurfacePool(),
		view: Identity(),
	}
}

// Root returns the scene's root group.
func (s *Scene) Root() *Group { return s.root }

// Pool returns the scene's surface pool.
func (s *Scene) Pool() *SurfacePool { return s.pool }

// View returns the view transform.
func (s *Scene) View() Matrix { return s.view }

// SetView sets a transform applied above the root, e.g. for scrolling or
// zooming the whole scene.
func (s *Scene) SetView(m Matrix) { s.view = m }

// Render draws the scene tree onto target. The traversal is synchronous and
// runs to completion; a surface allocation failure aborts the affected
// subtree's draw and propagates here.
func (s *Scene) Render(target *ebiten.Image) error {
	if target == nil {
		return errors.New("vellum: nil render target")
	}
	ctx := &DrawContext{Matrix: s.view, Opacity: 1, Pool: s.pool}
	return s.root.Draw(FromImage(target), ctx)
}

// Rasterize renders an item's subtree into a new caller-owned image sized to
// its stroke-inclusive bounds, with the same origin alignment the clip
// pipeline uses. Degenerate bounds yield a 1x1 transparent image.
func (s *Scene) Rasterize(item Item) (*ebiten.Image, error) {
	b := item.Bounds(true)
	w := int(math.Ceil(b.Width)) + 1
	h := int(math.Ceil(b.Height)) + 1
	if b.Width <= 0 || b.Height <= 0 {
		return ebiten.NewImage(1, 1), nil
	}
	if w > maxSurfaceDim || h > maxSurfaceDim {
		return nil, ErrSurfaceSize
	}
	img := ebiten.NewImage(w, h)
	ctx := &DrawContext{
		Matrix:  Translation(-math.Floor(b.X), -math.Floor(b.Y)),
		Opacity: 1,
		Pool:    s.pool,
	}
	if err := item.Draw(FromImage(img), ctx); err != nil {
		img.Deallocate()
		return nil, err
	}
	return img, nil
}
