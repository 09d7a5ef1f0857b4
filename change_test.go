package vellum

import "testing"

// buildChain returns root -> mid -> leaf with a filled path under leaf.
func buildChain(t *testing.T) (root, mid, leaf *Group, box *Path) {
	t.Helper()
	root = NewGroup("root")
	mid = NewGroup("mid")
	leaf = NewGroup("leaf")
	box = NewRectPath("box", Rect{Width: 10, Height: 10})
	box.Style().SetFillColor(ColorBlack)
	if err := leaf.AddChildren(box); err != nil {
		t.Fatal(err)
	}
	if err := mid.AddChildren(leaf); err != nil {
		t.Fatal(err)
	}
	if err := root.AddChildren(mid); err != nil {
		t.Fatal(err)
	}
	return root, mid, leaf, box
}

func TestGeometryChangePropagatesToRoot(t *testing.T) {
	root, mid, leaf, box := buildChain(t)

	// Populate every bounds cache on the way down.
	root.Bounds(false)
	if root.cachedBounds == nil || mid.cachedBounds == nil || leaf.cachedBounds == nil {
		t.Fatal("bounds caches should be populated after a read")
	}

	box.Translate(5, 5)
	if box.cachedBounds != nil {
		t.Error("mutated node's bounds cache should be cleared")
	}
	if leaf.cachedBounds != nil || mid.cachedBounds != nil || root.cachedBounds != nil {
		t.Error("every ancestor's bounds cache should be cleared")
	}
}

func TestBoundsReflectMutationOnNextRead(t *testing.T) {
	root, _, _, box := buildChain(t)
	before := root.Bounds(false)
	box.Translate(5, 0)
	after := root.Bounds(false)
	if after == before {
		t.Error("bounds should change after a child moves")
	}
	if !approxEqual(after.X, before.X+5) {
		t.Errorf("bounds X = %v, want %v", after.X, before.X+5)
	}
}

func TestStyleChangeDoesNotPropagate(t *testing.T) {
	root, _, leaf, box := buildChain(t)
	root.Bounds(false)

	box.Style().SetStrokeColor(ColorBlack) // color only: no geometry
	if leaf.cachedBounds == nil || root.cachedBounds == nil {
		t.Error("pure style change should not clear ancestor bounds caches")
	}
}

func TestGeometryAffectingStyleChangePropagates(t *testing.T) {
	root, _, _, box := buildChain(t)
	root.Bounds(false)

	box.Style().SetStrokeWidth(8) // affects measured size
	if root.cachedBounds != nil {
		t.Error("stroke width change should clear ancestor bounds caches")
	}
}

func TestClippingChangeClearsClipCache(t *testing.T) {
	_, _, leaf, box := buildChain(t)
	if leaf.IsClipped() {
		t.Fatal("group should start unclipped")
	}
	if leaf.clipItems == nil {
		t.Fatal("clip-item cache should be populated after IsClipped")
	}

	box.SetClipMask(true)
	if leaf.clipItems != nil {
		t.Error("clip-mask toggle should clear the parent's clip-item cache")
	}
	if !leaf.IsClipped() {
		t.Error("group should be clipped on next read")
	}
}

func TestHierarchyChangeClearsClipCache(t *testing.T) {
	g := NewGroup("g")
	g.ClipItems()
	if g.clipItems == nil {
		t.Fatal("cache should be present")
	}

	mask := NewRectPath("mask", Rect{Width: 4, Height: 4})
	mask.SetClipMask(true)
	if err := g.AddChildren(mask); err != nil {
		t.Fatal(err)
	}
	if g.clipItems != nil {
		t.Error("attach should clear the clip-item cache")
	}
	if !g.IsClipped() {
		t.Error("adding a clip-mask child should make the group clipped")
	}

	if err := g.RemoveChild(mask); err != nil {
		t.Fatal(err)
	}
	if g.IsClipped() {
		t.Error("removing the mask should make the group unclipped")
	}
}

func TestInvalidateShortCircuit(t *testing.T) {
	// invalidate reports false when the relevant caches are already absent,
	// which terminates notify's ancestor walk early.
	g := NewGroup("g")
	if g.invalidate(ChangeGeometry) {
		t.Error("nothing to clear: invalidate should report false")
	}
	g.Bounds(false)
	g.ClipItems()
	if !g.invalidate(ChangeHierarchy) {
		t.Error("populated caches: invalidate should report true")
	}
	if g.invalidate(ChangeHierarchy) {
		t.Error("second invalidate should find nothing to clear")
	}
}

func TestOpacityChangeKeepsBounds(t *testing.T) {
	root, _, _, box := buildChain(t)
	root.Bounds(false)
	box.SetOpacity(0.5)
	if root.cachedBounds == nil {
		t.Error("opacity change should not clear bounds caches")
	}
}
