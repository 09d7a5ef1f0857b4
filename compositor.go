package vellum

import (
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// defaultPool serves draw calls whose context carries no pool. It is shared
// process-wide state; its bookkeeping is internally serialized.
var defaultPool = NewSurfacePool()

// DefaultPool returns the process-wide surface pool used when a DrawContext
// does not provide one.
func DefaultPool() *SurfacePool { return defaultPool }

// DrawContext carries the compositing parameters inherited from ancestors
// during a draw traversal: the accumulated transform into destination
// pixels, the accumulated opacity, and the pool used for intermediate
// surfaces.
type DrawContext struct {
	Matrix  Matrix
	Opacity float64

	// Pool supplies intermediate surfaces for clip compositing. When nil,
	// the process-wide default pool is used.
	Pool *SurfacePool

	// blendOverride, when set, forces every paint operation in this context
	// to one blend. The compositor sets it during the stencil-restricted
	// phase of clip compositing.
	blendOverride *ebiten.Blend
}

// NewDrawContext returns a root context: identity transform, full opacity.
func NewDrawContext(pool *SurfacePool) *DrawContext {
	return &DrawContext{Matrix: Identity(), Opacity: 1, Pool: pool}
}

// blendFor resolves the blend an item must paint with.
func (ctx *DrawContext) blendFor(b BlendMode) ebiten.Blend {
	if ctx.blendOverride != nil {
		return *ctx.blendOverride
	}
	return b.EbitenBlend()
}

// pool returns the context's pool, falling back to the process-wide default.
func (ctx *DrawContext) pool() *SurfacePool {
	if ctx.Pool != nil {
		return ctx.Pool
	}
	return defaultPool
}

// Draw composites the group's subtree onto dst. Children draw in list order;
// when any child is flagged as a clip mask, the subtree is composited
// through a pooled intermediate surface.
func (g *Group) Draw(dst *Surface, ctx *DrawContext) error {
	if !g.visible || g.opacity <= 0 {
		return nil
	}
	if !dst.usable() {
		return ErrSurfaceReleased
	}
	clips := g.ClipItems()
	if len(clips) == 0 {
		return g.drawUnclipped(dst, ctx)
	}
	return g.drawClipped(dst, ctx, clips)
}

// drawUnclipped is the fast path: every child paints straight onto dst, no
// intermediate buffer.
func (g *Group) drawUnclipped(dst *Surface, ctx *DrawContext) error {
	child := DrawContext{
		Matrix:        ctx.Matrix.Mul(g.matrix),
		Opacity:       ctx.Opacity * g.opacity,
		Pool:          ctx.Pool,
		blendOverride: ctx.blendOverride,
	}
	for _, it := range g.children {
		if it.Node().clipMask {
			continue
		}
		if err := it.Draw(dst, &child); err != nil {
			return err
		}
	}
	return nil
}

// drawClipped composites the subtree through a pooled intermediate surface:
// clip-mask children paint the stencil, the remaining children are
// intersected against it, and the result is alpha-blended back onto dst.
func (g *Group) drawClipped(dst *Surface, ctx *DrawContext, clips []Item) error {
	// Stroke-inclusive content bounds in the group's child space. The masks'
	// own paint contributes: the stencil is stroked and filled before use.
	b := contentBounds(g)
	if b.Width <= 0 || b.Height <= 0 {
		// Degenerate: nothing can be visibly clipped into an empty region.
		return nil
	}

	x0, y0, w, h := clipAllocRect(b)

	pool := ctx.pool()
	surf, err := pool.Checkout(w, h)
	if err != nil {
		return fmt.Errorf("clip composite %q: %w", g.name, err)
	}
	defer pool.Release(surf)
	logger().Debug("clip composite", "group", g.name, "width", w, "height", h)

	// Children paint in the group's own space, shifted so the content
	// bounds' top-left lands on the surface origin. The group's transform
	// and accumulated opacity apply once, at the composite below.
	inner := DrawContext{Matrix: Translation(-x0, -y0), Opacity: 1, Pool: ctx.Pool}
	for _, it := range clips {
		if err := it.Draw(surf, &inner); err != nil {
			return err
		}
	}

	blend := g.clipBlend.EbitenBlend()
	inner.blendOverride = &blend
	for _, it := range g.children {
		if it.Node().clipMask {
			continue
		}
		if err := it.Draw(surf, &inner); err != nil {
			return err
		}
	}

	// Composite back. The stencil restriction only affected the
	// intermediate surface's own contents; this is a straight alpha blend
	// unless an ancestor's stencil phase overrides it.
	op := &ebiten.DrawImageOptions{}
	op.GeoM = ctx.Matrix.Mul(g.matrix).Mul(Translation(x0, y0)).GeoM()
	op.ColorScale.ScaleAlpha(float32(ctx.Opacity * g.opacity))
	op.Blend = ctx.blendFor(g.blend)
	dst.img.DrawImage(surf.img, op)
	return nil
}

// clipAllocRect converts fractional content bounds to an intermediate
// surface request: the origin is floored and the size is ceiled with one
// unit of padding in each dimension, so antialiased edge pixels survive the
// raster roundtrip.
func clipAllocRect(b Rect) (x0, y0 float64, w, h int) {
	x0 = math.Floor(b.X)
	y0 = math.Floor(b.Y)
	w = int(math.Ceil(b.Width)) + 1
	h = int(math.Ceil(b.Height)) + 1
	return x0, y0, w, h
}

// contentBounds returns the stroke-inclusive union of the visible children's
// bounds in the group's child coordinate space (the group's own transform
// not applied).
func contentBounds(g *Group) Rect {
	var r Rect
	first := true
	for _, c := range g.children {
		if !c.Node().visible {
			continue
		}
		cb := c.Bounds(true)
		if cb.Width <= 0 && cb.Height <= 0 {
			continue
		}
		if first {
			r = cb
			first = false
		} else {
			r = r.Union(cb)
		}
	}
	return r
}
