package synthesis

import (
	"math"
	"math/rand"
	"sync/atomic"
)

// CoarserMappingInitializer lifts the already-converged Mapping of the
// next-coarser pyramid level to the current (finer) level: for every
// target pixel T with coarse pixel C, M(T) = 2*M_coarse(C) + (T - 2*C)
// when C and its coarse mapping are both valid, falling back to an
// Appearance-style random search otherwise (spec.md §4.C "Coarser-mapping
// adaption"). For an IntegerMapping C = T/2, so the offset is T mod 2; for
// a FloatMapping C comes from coarserMappingQuadrant, which rounds odd
// coordinates to the right/bottom coarse pixel, so the offset is -1 there.
type CoarserMappingInitializer struct {
	Coarse             Mapping
	CoarseMask         *Mask
	FallbackCandidates int
}

// coarserMappingQuadrant reproduces, verbatim in spirit, the original's
// hand-coded case analysis over which of the four coarse pixels
// surrounding a target's halved coordinate is "dominant": round each
// axis of the true half-coordinate and test which candidate the
// rounding landed on, quadrant by quadrant. The last quadrant — rounded
// to the right AND to the bottom — is reached purely by fall-through,
// not an explicit check, exactly as spec.md §9's Open Question
// describes; do not replace this with an epsilon comparison.
func coarserMappingQuadrant(tx, ty int) (cx, cy int) {
	halfX := float64(tx) / 2
	halfY := float64(ty) / 2
	left := int(math.Floor(halfX))
	right := left + 1
	top := int(math.Floor(halfY))
	bottom := top + 1
	roundedX := math.Round(halfX)
	roundedY := math.Round(halfY)

	switch {
	case roundedX == float64(left) && roundedY == float64(top):
		return left, top
	case roundedX == float64(left) && roundedY != float64(top):
		return left, bottom
	case roundedX != float64(left) && roundedY == float64(top):
		return right, top
	default:
		return right, bottom
	}
}

func (c CoarserMappingInitializer) Initialize(layer *Layer, pool *WorkerPool, seed int64, stop *atomic.Bool) error {
	if c.Coarse == nil || c.CoarseMask == nil {
		return &Error{Kind: InvalidInput, Msg: "coarser-mapping adaption requires a coarse-level mapping and mask"}
	}
	fallbackK := c.FallbackCandidates
	if fallbackK <= 0 {
		fallbackK = 100
	}

	_, isFloat := layer.Mapping.(*FloatMapping)

	forEachTargetPixel(layer, pool, seed, stop, func(x, y int, rng *rand.Rand) {
		var cx, cy int
		if isFloat {
			cx, cy = coarserMappingQuadrant(x, y)
		} else {
			cx, cy = x/2, y/2
		}
		if cx < 0 || cy < 0 || cx >= c.CoarseMask.W || cy >= c.CoarseMask.H {
			c.fallback(layer, x, y, rng, fallbackK)
			return
		}
		if c.CoarseMask.IsSource(cx, cy) {
			c.fallback(layer, x, y, rng, fallbackK)
			return
		}
		msx, msy, ok := c.Coarse.Get(cx, cy)
		if !ok {
			c.fallback(layer, x, y, rng, fallbackK)
			return
		}
		sx := 2*msx + float64(x-2*cx)
		sy := 2*msy + float64(y-2*cy)
		isx, isy := int(sx), int(sy)
		if isx < 0 || isy < 0 || isx >= layer.W || isy >= layer.H {
			c.fallback(layer, x, y, rng, fallbackK)
			return
		}
		if !layer.Mask.IsSource(isx, isy) || !Allowed(layer.Filter, isx, isy) {
			c.fallback(layer, x, y, rng, fallbackK)
			return
		}
		layer.Mapping.Set(x, y, sx, sy)
	})
	return nil
}

func (c CoarserMappingInitializer) fallback(layer *Layer, x, y int, rng *rand.Rand, k int) {
	fallbackRandom(layer, x, y, rng, k)
}
