package vellum

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Raster is a leaf item painting a raster image. The image's top-left maps
// to the local origin; position and scale come from the node's transform.
type Raster struct {
	SceneNode
	image *ebiten.Image
}

// NewRaster creates a raster item. img may be nil; the item then draws
// nothing and has empty bounds.
func NewRaster(name string, img *ebiten.Image) *Raster {
	r := &Raster{image: img}
	nodeDefaults(&r.SceneNode, name)
	return r
}

// Node returns the raster's shared scene graph state.
func (r *Raster) Node() *SceneNode { return &r.SceneNode }

// Image returns the item's image.
func (r *Raster) Image() *ebiten.Image { return r.image }

// SetImage replaces the item's image.
func (r *Raster) SetImage(img *ebiten.Image) {
	r.image = img
	notify(&r.SceneNode, ChangeGeometry)
}

// Bounds returns the image rectangle through the raster's transform. A
// raster has no stroke; both bases are identical.
func (r *Raster) Bounds(includeStroke bool) Rect {
	if res, ok := r.lookupBounds(); ok {
		return res
	}
	if r.image == nil {
		return r.storeBounds(Rect{})
	}
	b := r.image.Bounds()
	return r.storeBounds(r.matrix.ApplyRect(Rect{Width: float64(b.Dx()), Height: float64(b.Dy())}))
}

// Draw paints the image onto dst.
func (r *Raster) Draw(dst *Surface, ctx *DrawContext) error {
	if !r.visible || r.opacity <= 0 || r.image == nil {
		return nil
	}
	if !dst.usable() {
		return ErrSurfaceReleased
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM = ctx.Matrix.Mul(r.matrix).GeoM()
	op.ColorScale.ScaleAlpha(float32(ctx.Opacity * r.opacity))
	op.Blend = ctx.blendFor(r.blend)
	dst.img.DrawImage(r.image, op)
	return nil
}
