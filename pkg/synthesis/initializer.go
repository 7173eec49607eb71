package synthesis

import (
	"math/rand"
	"sync/atomic"
)

// Initializer seeds the Mapping of a Layer before an Optimizer runs.
// Implementations that can be decomposed row-wise do so via ForEachStripe,
// splitting rows across the Layer's bounding box (spec.md §4.C).
type Initializer interface {
	Initialize(layer *Layer, pool *WorkerPool, seed int64, stop *atomic.Bool) error
}

// forEachTargetPixel runs fn(x,y,rng) for every target pixel of layer
// inside its bounding box, parallelized by row stripe.
func forEachTargetPixel(layer *Layer, pool *WorkerPool, seed int64, stop *atomic.Bool, fn func(x, y int, rng *rand.Rand)) {
	forEachMaskedPixel(layer, layer.Mask, layer.BBox, pool, seed, stop, fn)
}

// forEachMaskedPixel is forEachTargetPixel generalized to an explicit
// mask and bounding box, for strategies (e.g. shrinking-erosion's
// finalize pass) that must iterate the ORIGINAL target set after
// mutating layer.Mask in place.
func forEachMaskedPixel(layer *Layer, mask *Mask, bbox BoundingBox, pool *WorkerPool, seed int64, stop *atomic.Bool, fn func(x, y int, rng *rand.Rand)) {
	parent := newRNG(seed)
	ForEachStripe(bbox, pool, parent, stop, func(s Stripe, stop *atomic.Bool) {
		for y := s.Y0; y < s.Y1; y++ {
			if Stopped(stop) {
				return
			}
			for x := bbox.MinX; x < bbox.MaxX; x++ {
				if mask.IsSource(x, y) {
					continue
				}
				fn(x, y, s.RNG)
			}
		}
	})
}

// randomSourcePixel draws a uniform-random pixel inside the frame that is
// both a source pixel and filter-allowed, retrying until one is found (or
// maxTries is exhausted, in which case ok is false).
func randomSourcePixel(layer *Layer, rng *rand.Rand, maxTries int) (x, y int, ok bool) {
	if maxTries <= 0 {
		maxTries = 10000
	}
	for i := 0; i < maxTries; i++ {
		cx := rng.Intn(layer.W)
		cy := rng.Intn(layer.H)
		if layer.Mask.IsSource(cx, cy) && Allowed(layer.Filter, cx, cy) {
			return cx, cy, true
		}
	}
	return 0, 0, false
}
