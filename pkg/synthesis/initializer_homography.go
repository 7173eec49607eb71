package synthesis

import (
	"math"
	"math/rand"
	"sync/atomic"
)

// HomographyInitializer adapts the prior video frame's converged Mapping
// into the current frame via a 3x3 homography: for each target pixel T,
// the four prior mappings surrounding H^-1·T are projected forward
// through H, the corner closest to the rounded displacement is taken as
// primary, and accepted only if at least one other corner's projection
// agrees with it within a small tolerance; otherwise the pixel falls
// back to random search (spec.md §4.C "Homography-adaption (video)").
type HomographyInitializer struct {
	Prior              Mapping
	PriorMask          *Mask
	H                  Homography // prior -> current
	ConsistencyEpsilon float64    // default 2
	FallbackCandidates int
}

func (h HomographyInitializer) Initialize(layer *Layer, pool *WorkerPool, seed int64, stop *atomic.Bool) error {
	if h.Prior == nil || h.PriorMask == nil {
		return &Error{Kind: InvalidInput, Msg: "homography adaption requires a prior-frame mapping and mask"}
	}
	hInv, ok := h.H.Invert()
	if !ok {
		return &Error{Kind: InvalidInput, Msg: "homography is not invertible"}
	}
	eps := h.ConsistencyEpsilon
	if eps <= 0 {
		eps = 2
	}
	fallbackK := h.FallbackCandidates
	if fallbackK <= 0 {
		fallbackK = 100
	}

	forEachTargetPixel(layer, pool, seed, stop, func(x, y int, rng *rand.Rand) {
		px, py := hInv.Apply(float64(x), float64(y))
		fx, fy := math.Floor(px), math.Floor(py)
		roundedX, roundedY := math.Round(px), math.Round(py)

		type candidate struct {
			x, y float64
			ok   bool
		}
		project := func(cx, cy int) candidate {
			if cx < 0 || cy < 0 || cx >= h.PriorMask.W || cy >= h.PriorMask.H {
				return candidate{}
			}
			if h.PriorMask.IsSource(cx, cy) {
				return candidate{}
			}
			sx, sy, ok := h.Prior.Get(cx, cy)
			if !ok {
				return candidate{}
			}
			wx, wy := h.H.Apply(sx, sy)
			return candidate{wx, wy, true}
		}

		corners := [4]candidate{
			project(int(fx), int(fy)),
			project(int(fx)+1, int(fy)),
			project(int(fx), int(fy)+1),
			project(int(fx)+1, int(fy)+1),
		}

		primaryIdx := 0
		if roundedX != fx {
			primaryIdx |= 1
		}
		if roundedY != fy {
			primaryIdx |= 2
		}
		primary := corners[primaryIdx]
		if !primary.ok {
			fallbackRandom(layer, x, y, rng, fallbackK)
			return
		}

		var sumX, sumY float64
		var n int
		for i, c := range corners {
			if i == primaryIdx || !c.ok {
				continue
			}
			d := math.Hypot(c.x-primary.x, c.y-primary.y)
			if d <= eps {
				sumX += c.x
				sumY += c.y
				n++
			}
		}
		if n == 0 {
			fallbackRandom(layer, x, y, rng, fallbackK)
			return
		}
		sx := (primary.x + sumX) / float64(n+1)
		sy := (primary.y + sumY) / float64(n+1)
		isx, isy := int(sx), int(sy)
		if isx < 0 || isy < 0 || isx >= layer.W || isy >= layer.H {
			fallbackRandom(layer, x, y, rng, fallbackK)
			return
		}
		if !layer.Mask.IsSource(isx, isy) || !Allowed(layer.Filter, isx, isy) {
			fallbackRandom(layer, x, y, rng, fallbackK)
			return
		}
		layer.Mapping.Set(x, y, sx, sy)
	})
	return nil
}

func fallbackRandom(layer *Layer, x, y int, rng *rand.Rand, k int) {
	bestAppearanceMatch(layer, layer.Mask, x, y, rng, k)
}

// bestAppearanceMatch draws k random candidates restricted to pixels
// that are source under candidateMask (which may differ from
// layer.Mask, e.g. when a shrinking initializer has already flipped its
// working mask to all-source and must search only the pixels that were
// source before shrinking began) and commits the lowest-appearance-cost
// one to layer.Mapping.
func bestAppearanceMatch(layer *Layer, candidateMask *Mask, x, y int, rng *rand.Rand, k int) {
	bestCost := uint64(1) << 62
	bestX, bestY := -1, -1
	for i := 0; i < k; i++ {
		cx := rng.Intn(layer.W)
		cy := rng.Intn(layer.H)
		if !candidateMask.IsSource(cx, cy) || !Allowed(layer.Filter, cx, cy) {
			continue
		}
		cost := layer.Mapping.AppearanceCost(layer.Frame, candidateMask, x, y, float64(cx), float64(cy), 1, false)
		if cost < bestCost {
			bestCost, bestX, bestY = cost, cx, cy
		}
	}
	if bestX >= 0 {
		layer.Mapping.Set(x, y, float64(bestX), float64(bestY))
	}
}
