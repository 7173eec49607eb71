package synthesis

import (
	"math/rand"
	"sync/atomic"
)

// AppearanceInitializer draws K random source candidates per target pixel
// and keeps the one with lowest appearance cost, optionally regularized
// by a small Euclidean-distance term (spec.md §4.C "Appearance").
type AppearanceInitializer struct {
	K int // typically 100

	// DistanceWeight, when > 0, adds DistanceWeight * dist(T,S)^2 to the
	// candidate's score before comparing.
	DistanceWeight float64
}

func (a AppearanceInitializer) Initialize(layer *Layer, pool *WorkerPool, seed int64, stop *atomic.Bool) error {
	k := a.K
	if k <= 0 {
		k = 100
	}
	forEachTargetPixel(layer, pool, seed, stop, func(x, y int, rng *rand.Rand) {
		bestCost := uint64(1) << 62
		bestX, bestY := -1, -1
		for i := 0; i < k; i++ {
			sx, sy, ok := randomSourcePixel(layer, rng, 1000)
			if !ok {
				continue
			}
			cost := layer.Mapping.AppearanceCost(layer.Frame, layer.Mask, x, y, float64(sx), float64(sy), 1, false)
			if a.DistanceWeight > 0 {
				dx := float64(sx - x)
				dy := float64(sy - y)
				cost += uint64(a.DistanceWeight * (dx*dx + dy*dy))
			}
			if cost < bestCost {
				bestCost = cost
				bestX, bestY = sx, sy
			}
		}
		if bestX >= 0 {
			layer.Mapping.Set(x, y, float64(bestX), float64(bestY))
		}
	})
	return nil
}
