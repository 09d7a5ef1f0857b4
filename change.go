package vellum

// Change is a bitmask of mutation kinds. A mutation produces one or more
// flags, which travel from the mutated node up through every ancestor,
// clearing the derived caches each flag invalidates.
type Change uint8

const (
	// ChangeGeometry covers transform edits and shape edits.
	ChangeGeometry Change = 1 << iota
	// ChangeStyle covers style-property edits that do not affect measured size.
	ChangeStyle
	// ChangeHierarchy covers child attach/detach/reorder.
	ChangeHierarchy
	// ChangeClipping covers clip-mask flag edits.
	ChangeClipping
)

// Cache sensitivity: which flags clear which derived value.
const (
	changeBounds    = ChangeGeometry | ChangeHierarchy | ChangeClipping
	changeClipItems = ChangeHierarchy | ChangeClipping
)

// notify invalidates the caches flags imply on n, then repeats on each
// ancestor via the parent back-reference. The walk terminates at the root,
// or early when an ancestor's relevant caches are already absent (everything
// above it was invalidated by an earlier notification). Pure ChangeStyle
// never travels past the owning node.
func notify(n *SceneNode, flags Change) {
	n.invalidate(flags)
	if flags&(changeBounds|changeClipItems) == 0 {
		return
	}
	for p := n.parent; p != nil; p = p.parent {
		if !p.invalidate(flags) {
			return
		}
	}
}

// invalidate clears the caches flags imply on this node. It reports whether
// anything was actually cleared, which drives notify's short-circuit.
func (n *SceneNode) invalidate(flags Change) bool {
	cleared := false
	if flags&changeBounds != 0 && n.cachedBounds != nil {
		n.cachedBounds = nil
		cleared = true
	}
	if g := n.group; g != nil && flags&changeClipItems != 0 && g.clipItems != nil {
		g.clipItems = nil
		cleared = true
	}
	return cleared
}
