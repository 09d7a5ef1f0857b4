package vellum

import (
	"errors"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestNextPowerOfTwo(t *testing.T) {
	cases := []struct{ in, want int }{
		{0, 1}, {1, 1}, {2, 2}, {3, 4}, {4, 4}, {5, 8},
		{127, 128}, {128, 128}, {129, 256}, {1000, 1024},
	}
	for _, c := range cases {
		if got := nextPowerOfTwo(c.in); got != c.want {
			t.Errorf("nextPowerOfTwo(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestCheckoutRoundsUp(t *testing.T) {
	p := NewSurfacePool()
	s, err := p.Checkout(100, 33)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Release(s)
	w, h := s.Size()
	if w != 128 || h != 64 {
		t.Errorf("Size = %dx%d, want 128x64", w, h)
	}
}

func TestCheckoutReleaseReuses(t *testing.T) {
	p := NewSurfacePool()
	s1, err := p.Checkout(64, 64)
	if err != nil {
		t.Fatal(err)
	}
	p.Release(s1)
	for i := 0; i < 4; i++ {
		s, err := p.Checkout(50, 60)
		if err != nil {
			t.Fatal(err)
		}
		if s != s1 {
			t.Fatal("same size class should reuse the released buffer")
		}
		p.Release(s)
	}
	if st := p.Stats(); st.Allocated != 1 {
		t.Errorf("Allocated = %d, want 1", st.Allocated)
	}
}

func TestNestedCheckoutsAreDistinct(t *testing.T) {
	p := NewSurfacePool()
	const n = 5
	seen := make(map[*Surface]bool)
	var held []*Surface
	for i := 0; i < n; i++ {
		s, err := p.Checkout(64, 64)
		if err != nil {
			t.Fatal(err)
		}
		if seen[s] {
			t.Fatal("live buffer handed out twice")
		}
		seen[s] = true
		held = append(held, s)
	}
	if st := p.Stats(); st.Live != n || st.Allocated != n {
		t.Errorf("Stats = %+v, want Live=%d Allocated=%d", st, n, n)
	}
	for _, s := range held {
		p.Release(s)
	}
	if st := p.Stats(); st.Live != 0 || st.Free != n {
		t.Errorf("Stats after release = %+v", st)
	}
}

func TestCheckoutDistinctSizeClasses(t *testing.T) {
	p := NewSurfacePool()
	a, _ := p.Checkout(64, 64)
	p.Release(a)
	b, err := p.Checkout(64, 128)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Release(b)
	if a == b {
		t.Error("different size classes must not share buffers")
	}
}

func TestCheckoutRejectsBadSizes(t *testing.T) {
	p := NewSurfacePool()
	for _, c := range [][2]int{{0, 10}, {10, 0}, {-1, 10}, {maxSurfaceDim + 1, 10}} {
		if _, err := p.Checkout(c[0], c[1]); !errors.Is(err, ErrSurfaceSize) {
			t.Errorf("Checkout(%d, %d): err = %v, want ErrSurfaceSize", c[0], c[1], err)
		}
	}
}

func TestDoubleReleaseIgnored(t *testing.T) {
	p := NewSurfacePool()
	s, _ := p.Checkout(32, 32)
	p.Release(s)
	p.Release(s)
	if st := p.Stats(); st.Free != 1 || st.Live != 0 {
		t.Errorf("Stats = %+v, want Free=1 Live=0", st)
	}
}

func TestReleaseForeignSurfaceIgnored(t *testing.T) {
	p := NewSurfacePool()
	other := NewSurfacePool()
	s, _ := other.Checkout(32, 32)
	p.Release(s)
	if st := p.Stats(); st.Free != 0 {
		t.Errorf("foreign release changed stats: %+v", st)
	}
	other.Release(s)
	p.Release(nil)
}

func TestTrimKeepsLiveSurfaces(t *testing.T) {
	p := NewSurfacePool()
	live, _ := p.Checkout(64, 64)
	freed, _ := p.Checkout(64, 64)
	p.Release(freed)
	p.Trim()
	st := p.Stats()
	if st.Free != 0 || st.Allocated != 1 || st.Live != 1 {
		t.Errorf("Stats after Trim = %+v", st)
	}
	if !live.usable() {
		t.Error("live surface should survive Trim")
	}
	p.Release(live)
}

func TestReleasedSurfaceNotUsable(t *testing.T) {
	p := NewSurfacePool()
	s, _ := p.Checkout(16, 16)
	if !s.usable() {
		t.Fatal("checked-out surface should be usable")
	}
	p.Release(s)
	if s.usable() {
		t.Error("released surface should not be usable")
	}
}

func TestFromImage(t *testing.T) {
	img := ebiten.NewImage(40, 30)
	s := FromImage(img)
	if w, h := s.Size(); w != 40 || h != 30 {
		t.Errorf("Size = %dx%d, want 40x30", w, h)
	}
	if s.Image() != img {
		t.Error("Image should return the wrapped image")
	}
	if !s.usable() {
		t.Error("wrapped surface should be usable")
	}
}
