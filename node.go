package vellum

// Item is the draw contract every scene graph member implements. The
// compositor only orchestrates ordering, transform application, and surface
// routing; what an item actually paints is its own business.
type Item interface {
	// Node returns the item's shared scene graph state.
	Node() *SceneNode

	// Draw paints the item onto dst. ctx carries the accumulated transform,
	// opacity, and compositing parameters inherited from ancestors.
	Draw(dst *Surface, ctx *DrawContext) error

	// Bounds returns the item's bounding rectangle in its parent's
	// coordinate space. When includeStroke is true the rectangle accounts
	// for stroke width, not just fill geometry.
	Bounds(includeStroke bool) Rect
}

// nodeIDCounter is a plain counter (tree mutation is single-threaded).
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// SceneNode is the state shared by every scene graph item: identity, local
// transform, style, the non-owning parent link, and the lazily cached bounds.
type SceneNode struct {
	id   uint32
	name string

	matrix  Matrix
	style   Style
	opacity float64
	visible bool
	blend   BlendMode

	// clipMask marks this node as contributing to its parent's clip region
	// instead of being drawn normally.
	clipMask bool

	// parent is a non-owning back-reference, set on attach and cleared on
	// detach. The parent's child list is the owning side.
	parent *Group

	// group is non-nil when this SceneNode is the base of a Group; it lets
	// change propagation reach the group's clip-item cache.
	group *Group

	// cachedBounds holds the geometry-basis bounds in parent space, or nil
	// when invalidated. Recomputed strictly on next read.
	cachedBounds *Rect
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *SceneNode, name string) {
	n.id = nextNodeID()
	n.name = name
	n.matrix = Identity()
	n.opacity = 1
	n.visible = true
	initStyle(&n.style, n)
}

// ID returns the node's unique id.
func (n *SceneNode) ID() uint32 { return n.id }

// Name returns the node's name.
func (n *SceneNode) Name() string { return n.name }

// SetName renames the node and refreshes the parent's named-child index.
func (n *SceneNode) SetName(name string) {
	if n.name == name {
		return
	}
	old := n.name
	n.name = name
	if n.parent != nil {
		n.parent.renameChild(n, old)
	}
}

// Parent returns the group this node is attached to, or nil.
func (n *SceneNode) Parent() *Group { return n.parent }

// Matrix returns the node's local-to-parent transform.
func (n *SceneNode) Matrix() Matrix { return n.matrix }

// SetMatrix replaces the node's local-to-parent transform.
func (n *SceneNode) SetMatrix(m Matrix) {
	n.matrix = m
	notify(n, ChangeGeometry)
}

// Translate moves the node by (dx, dy) in its parent's space.
func (n *SceneNode) Translate(dx, dy float64) {
	n.SetMatrix(Translation(dx, dy).Mul(n.matrix))
}

// Rotate rotates the node by angle radians about its local origin.
func (n *SceneNode) Rotate(angle float64) {
	n.SetMatrix(n.matrix.Mul(Rotation(angle)))
}

// Scale scales the node by (sx, sy) about its local origin.
func (n *SceneNode) Scale(sx, sy float64) {
	n.SetMatrix(n.matrix.Mul(Scaling(sx, sy)))
}

// Style returns the node's style. Property setters notify the node.
func (n *SceneNode) Style() *Style { return &n.style }

// Opacity returns the node's opacity in [0, 1].
func (n *SceneNode) Opacity() float64 { return n.opacity }

// SetOpacity sets the node's opacity. Opacity multiplies down the draw
// traversal; it does not affect bounds.
func (n *SceneNode) SetOpacity(a float64) {
	n.opacity = a
	notify(n, ChangeStyle)
}

// Visible reports whether the node is drawn.
func (n *SceneNode) Visible() bool { return n.visible }

// SetVisible shows or hides the node.
func (n *SceneNode) SetVisible(v bool) {
	if n.visible == v {
		return
	}
	n.visible = v
	notify(n, ChangeGeometry)
}

// Blend returns the node's compositing mode.
func (n *SceneNode) Blend() BlendMode { return n.blend }

// SetBlend sets the node's compositing mode.
func (n *SceneNode) SetBlend(b BlendMode) {
	n.blend = b
	notify(n, ChangeStyle)
}

// ClipMask reports whether this node contributes to its parent's clip region.
func (n *SceneNode) ClipMask() bool { return n.clipMask }

// SetClipMask marks or unmarks this node as a clip mask for its parent.
func (n *SceneNode) SetClipMask(clip bool) {
	if n.clipMask == clip {
		return
	}
	n.clipMask = clip
	notify(n, ChangeClipping)
}

// lookupBounds returns the cached geometry bounds, if present.
func (n *SceneNode) lookupBounds() (Rect, bool) {
	if n.cachedBounds == nil {
		return Rect{}, false
	}
	return *n.cachedBounds, true
}

// storeBounds caches the geometry bounds and returns them.
func (n *SceneNode) storeBounds(r Rect) Rect {
	n.cachedBounds = &r
	return r
}
