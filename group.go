package vellum

import (
	"errors"
	"fmt"
)

// Structural errors signaled by tree mutation.
var (
	// ErrNilItem is returned when a nil item is attached.
	ErrNilItem = errors.New("vellum: nil item")
	// ErrHasParent is returned when attaching an item that is already
	// attached elsewhere. Detach it first; items are never silently
	// reparented.
	ErrHasParent = errors.New("vellum: item already has a parent")
	// ErrCycle is returned when attaching an item that is an ancestor of
	// the receiving group.
	ErrCycle = errors.New("vellum: attach would create a cycle")
	// ErrNotChild is returned when detaching an item from a group that
	// does not contain it.
	ErrNotChild = errors.New("vellum: item is not a child of this group")
)

// Group is a composite item holding an ordered list of children. Paint order
// is list order. A group whose children include clip masks composites its
// subtree through a pooled intermediate surface.
type Group struct {
	SceneNode

	children []Item

	// named is a non-owning index from name to child. Registered on attach,
	// dropped on detach; on name collision the most recent attach wins.
	named map[string]Item

	// clipItems caches the direct children with the clip-mask flag, in list
	// order. nil means invalidated; recomputed on next read.
	clipItems *[]Item

	// clipBlend is the operator used when painting non-mask children over
	// the stencil.
	clipBlend BlendMode
}

// NewGroup creates an empty group.
func NewGroup(name string) *Group {
	g := &Group{clipBlend: BlendClip}
	nodeDefaults(&g.SceneNode, name)
	g.group = g
	return g
}

// Node returns the group's shared scene graph state.
func (g *Group) Node() *SceneNode { return &g.SceneNode }

// --- Tree manipulation ---

// AddChildren appends items to the group's child list, in argument order.
// Every item is validated before any is attached: a nil item, an item that
// already has a parent, or an item whose subtree contains this group is an
// error, and the child list is left untouched.
func (g *Group) AddChildren(items ...Item) error {
	for _, it := range items {
		if err := g.checkAttach(it); err != nil {
			return err
		}
	}
	for _, it := range items {
		g.attach(it, len(g.children))
	}
	notify(&g.SceneNode, ChangeHierarchy)
	return nil
}

// InsertChild inserts an item at the given index among the children.
// Panics if index is out of range, like ChildAt.
func (g *Group) InsertChild(index int, it Item) error {
	if index < 0 || index > len(g.children) {
		panic("vellum: child index out of range")
	}
	if err := g.checkAttach(it); err != nil {
		return err
	}
	g.attach(it, index)
	notify(&g.SceneNode, ChangeHierarchy)
	return nil
}

// checkAttach validates that it can become a child of g.
func (g *Group) checkAttach(it Item) error {
	if it == nil || it.Node() == nil {
		return ErrNilItem
	}
	n := it.Node()
	if n.parent != nil {
		return fmt.Errorf("attach %q: %w", n.name, ErrHasParent)
	}
	if cg := n.group; cg != nil {
		for p := g; p != nil; p = p.parent {
			if p == cg {
				return fmt.Errorf("attach %q: %w", n.name, ErrCycle)
			}
		}
	}
	return nil
}

// attach links it into the child list at index without emitting flags.
func (g *Group) attach(it Item, index int) {
	n := it.Node()
	n.parent = g
	g.children = append(g.children, nil)
	copy(g.children[index+1:], g.children[index:])
	g.children[index] = it
	if n.name != "" {
		if g.named == nil {
			g.named = make(map[string]Item)
		}
		g.named[n.name] = it
	}
}

// RemoveChild detaches it from the group. Returns ErrNotChild if it is not
// a direct child.
func (g *Group) RemoveChild(it Item) error {
	if it == nil || it.Node() == nil {
		return ErrNilItem
	}
	n := it.Node()
	if n.parent != g {
		return ErrNotChild
	}
	g.detach(it)
	notify(&g.SceneNode, ChangeHierarchy)
	return nil
}

// RemoveChildren detaches all children. The children themselves are not
// destroyed; callers holding references keep them.
func (g *Group) RemoveChildren() {
	for _, it := range g.children {
		n := it.Node()
		n.parent = nil
		g.dropName(it)
	}
	g.children = g.children[:0]
	notify(&g.SceneNode, ChangeHierarchy)
}

// detach unlinks it from the child list without emitting flags.
// Uses copy+nil to avoid retaining a dangling reference in the backing array.
func (g *Group) detach(it Item) {
	n := it.Node()
	for i, c := range g.children {
		if c == it {
			copy(g.children[i:], g.children[i+1:])
			g.children[len(g.children)-1] = nil
			g.children = g.children[:len(g.children)-1]
			break
		}
	}
	n.parent = nil
	g.dropName(it)
}

// dropName removes it from the named index if it is the registered owner of
// its name.
func (g *Group) dropName(it Item) {
	name := it.Node().name
	if name != "" && g.named[name] == it {
		delete(g.named, name)
	}
}

// renameChild refreshes the named index after a child's name changes.
func (g *Group) renameChild(n *SceneNode, old string) {
	var it Item
	for _, c := range g.children {
		if c.Node() == n {
			it = c
			break
		}
	}
	if it == nil {
		return
	}
	if old != "" && g.named[old] == it {
		delete(g.named, old)
	}
	if n.name != "" {
		if g.named == nil {
			g.named = make(map[string]Item)
		}
		g.named[n.name] = it
	}
}

// --- Access ---

// Children returns the child list. The returned slice MUST NOT be mutated
// by the caller.
func (g *Group) Children() []Item {
	return g.children
}

// NumChildren returns the number of children.
func (g *Group) NumChildren() int {
	return len(g.children)
}

// ChildAt returns the child at the given index. Panics if out of range.
func (g *Group) ChildAt(index int) Item {
	return g.children[index]
}

// FirstChild returns the first child, or nil for an empty group.
func (g *Group) FirstChild() Item {
	if len(g.children) == 0 {
		return nil
	}
	return g.children[0]
}

// Child returns the child registered under name, or nil.
func (g *Group) Child(name string) Item {
	return g.named[name]
}

// --- Clipping ---

// ClipItems returns the direct children flagged as clip masks, in list
// order. The result is cached; mutation of the hierarchy or of any child's
// clip-mask flag invalidates it.
func (g *Group) ClipItems() []Item {
	if g.clipItems != nil {
		return *g.clipItems
	}
	items := make([]Item, 0)
	for _, c := range g.children {
		if c.Node().clipMask {
			items = append(items, c)
		}
	}
	g.clipItems = &items
	return items
}

// IsClipped reports whether the group composites through a clip mask.
func (g *Group) IsClipped() bool {
	return len(g.ClipItems()) > 0
}

// SetClipped toggles the clip-mask flag on the group's first child. By
// convention a group's clip mask is always its first child. No-op on an
// empty group.
func (g *Group) SetClipped(clipped bool) {
	first := g.FirstChild()
	if first == nil {
		return
	}
	first.Node().SetClipMask(clipped)
}

// ClipBlend returns the operator used to intersect child paint with the
// stencil.
func (g *Group) ClipBlend() BlendMode { return g.clipBlend }

// SetClipBlend sets the stencil-intersection operator. The default,
// BlendClip, keeps subsequently drawn pixels only where the stencil already
// painted coverage.
func (g *Group) SetClipBlend(b BlendMode) { g.clipBlend = b }

// --- Bounds ---

// Bounds returns the union of the visible children's bounds, in list order,
// mapped through the group's own transform. Clip-mask children contribute: the
// mask itself is stroked and filled before being used as a stencil. Hidden
// children do not; hiding a child can shrink every ancestor's bounds.
func (g *Group) Bounds(includeStroke bool) Rect {
	if !includeStroke {
		if r, ok := g.lookupBounds(); ok {
			return r
		}
	}
	var r Rect
	first := true
	for _, c := range g.children {
		if !c.Node().visible {
			continue
		}
		cb := c.Bounds(includeStroke)
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
	r = g.matrix.ApplyRect(r)
	if !includeStroke {
		return g.storeBounds(r)
	}
	return r
}
