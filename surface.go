package vellum

import (
	"errors"
	"fmt"
	"image"
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

// Resource errors signaled by surface allocation and misuse.
var (
	// ErrSurfaceSize is returned when a surface of the requested size
	// cannot be allocated.
	ErrSurfaceSize = errors.New("vellum: invalid surface size")
	// ErrSurfaceReleased is returned when drawing into a surface that has
	// been released back to the pool.
	ErrSurfaceReleased = errors.New("vellum: surface has been released")
)

// maxSurfaceDim bounds a single surface dimension. Requests beyond it are
// allocation failures, fatal to the draw that made them.
const maxSurfaceDim = 8192

// Surface is a raster buffer. Pooled surfaces are owned temporarily by
// whichever draw call checked them out and must be released exactly once.
type Surface struct {
	img           *ebiten.Image
	width, height int

	// pool is non-nil for pooled surfaces; free marks a surface currently
	// sitting in the pool's free list.
	pool *SurfacePool
	free bool
}

// FromImage wraps an existing image as a non-pooled surface. The caller
// retains ownership of the image.
func FromImage(img *ebiten.Image) *Surface {
	b := img.Bounds()
	return &Surface{img: img, width: b.Dx(), height: b.Dy()}
}

// Image returns the underlying raster image.
func (s *Surface) Image() *ebiten.Image { return s.img }

// Size returns the surface's allocated dimensions.
func (s *Surface) Size() (w, h int) { return s.width, s.height }

// usable reports whether the surface may be drawn into.
func (s *Surface) usable() bool { return s != nil && s.img != nil && !s.free }

// --- SurfacePool ---

// PoolStats is a snapshot of pool bookkeeping, for diagnostics and tests.
type PoolStats struct {
	Live      int // surfaces currently checked out
	Free      int // surfaces sitting in free lists
	Allocated int // surfaces ever allocated and not yet trimmed
}

// SurfacePool is a checkout/return pool of reusable raster buffers, keyed by
// power-of-two size class. Checkout and release bookkeeping is serialized so
// independent subtrees may draw in parallel; a buffer handed out is never
// handed out again until released, including across re-entrant checkouts
// from nested clip groups.
type SurfacePool struct {
	mu      sync.Mutex
	buckets map[uint64][]*Surface
	stats   PoolStats
}

// NewSurfacePool creates an empty pool. Surfaces are allocated lazily on
// first checkout of each size class.
func NewSurfacePool() *SurfacePool {
	return &SurfacePool{buckets: make(map[uint64][]*Surface)}
}

// poolKey packs power-of-two width and height into a single uint64.
func poolKey(w, h int) uint64 {
	return uint64(w)<<32 | uint64(h)
}

// Checkout returns a cleared surface with at least (w, h) pixels, reusing a
// free-listed buffer of the same size class when available. The returned
// surface must be released exactly once.
func (p *SurfacePool) Checkout(w, h int) (*Surface, error) {
	if w <= 0 || h <= 0 || w > maxSurfaceDim || h > maxSurfaceDim {
		return nil, fmt.Errorf("checkout %dx%d: %w", w, h, ErrSurfaceSize)
	}
	pw := nextPowerOfTwo(w)
	ph := nextPowerOfTwo(h)
	key := poolKey(pw, ph)

	p.mu.Lock()
	if stack := p.buckets[key]; len(stack) > 0 {
		s := stack[len(stack)-1]
		p.buckets[key] = stack[:len(stack)-1]
		s.free = false
		p.stats.Live++
		p.stats.Free--
		p.mu.Unlock()
		s.img.Clear()
		return s, nil
	}
	p.stats.Live++
	p.stats.Allocated++
	p.mu.Unlock()

	img := ebiten.NewImageWithOptions(
		image.Rect(0, 0, pw, ph),
		&ebiten.NewImageOptions{Unmanaged: true},
	)
	logger().Debug("surface allocated", "width", pw, "height", ph)
	return &Surface{img: img, width: pw, height: ph, pool: p}, nil
}

// Release returns a surface to the free list for future checkout. The
// caller's handle becomes invalid immediately. Releasing nil, a non-pooled
// surface, or an already-released surface is ignored (with a warning for the
// double release).
func (p *SurfacePool) Release(s *Surface) {
	if s == nil || s.pool != p {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if s.free {
		logger().Warn("surface released twice", "width", s.width, "height", s.height)
		return
	}
	s.free = true
	key := poolKey(s.width, s.height)
	p.buckets[key] = append(p.buckets[key], s)
	p.stats.Live--
	p.stats.Free++
}

// Trim deallocates every free-listed surface. Live checkouts are untouched;
// they rejoin the (now empty) free lists when released.
func (p *SurfacePool) Trim() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for key, stack := range p.buckets {
		for _, s := range stack {
			s.img.Deallocate()
			s.img = nil
			p.stats.Allocated--
		}
		delete(p.buckets, key)
	}
	p.stats.Free = 0
}

// Stats returns a snapshot of the pool's bookkeeping.
func (p *SurfacePool) Stats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

// nextPowerOfTwo returns the smallest power of two >= n (minimum 1).
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << int(math.Ceil(math.Log2(float64(n))))
}
