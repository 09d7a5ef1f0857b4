// Package vellum is a retained-mode 2D vector scene graph for [Ebitengine].
//
// Vellum composites hierarchical vector content onto raster surfaces:
// groups nest arbitrarily, every node carries a local transform and a
// cascading style, and a group can clip its children through mask items
// composited over pooled offscreen surfaces.
//
// # Scene graph
//
// Every visual element is an [Item]: a [Group], a [Path], or a [Raster].
// Items form a tree rooted at [Scene.Root]. Children inherit their parent's
// transform and opacity, and paint in list order.
//
//	scene := vellum.NewScene()
//
//	box := vellum.NewRectPath("box", vellum.Rect{Width: 80, Height: 40})
//	box.Style().SetFillColor(vellum.Color{R: 0.3, G: 0.7, B: 1, A: 1})
//
//	layer := vellum.NewGroup("layer")
//	layer.AddChildren(box)
//	scene.Root().AddChildren(layer)
//
// Render into any *ebiten.Image, typically from an [ebiten.Game] Draw:
//
//	func (g *Game) Draw(screen *ebiten.Image) {
//		g.scene.Render(screen)
//	}
//
// # Clipping
//
// A child flagged as a clip mask ([SceneNode.SetClipMask], or
// [Group.SetClipped] for the first-child convention) defines the visible
// region for its siblings instead of being painted normally. The group then
// renders through an intermediate surface checked out of a [SurfacePool]:
// masks paint the stencil, siblings are intersected against it, and the
// result is alpha-blended back. Nested clipped groups each check out their
// own surface, so clipping composes to any depth.
//
// # Change tracking
//
// Mutations emit [Change] flags that travel up the parent chain, clearing
// exactly the caches they invalidate (cached bounds, clip-item lists).
// Derived values recompute lazily on next read, so bulk mutation has no
// recompute cost until something asks.
//
// [Ebitengine]: https://ebitengine.org
package vellum
