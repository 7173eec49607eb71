package synthesis

import (
	"math/rand"
	"sync/atomic"
)

// RandomInitializer draws, for every target pixel, a uniformly random
// source pixel, retrying until the draw lands on a source (and, if a
// filter is set, filter-allowed) pixel (spec.md §4.C "Random").
type RandomInitializer struct{}

func (RandomInitializer) Initialize(layer *Layer, pool *WorkerPool, seed int64, stop *atomic.Bool) error {
	forEachTargetPixel(layer, pool, seed, stop, func(x, y int, rng *rand.Rand) {
		sx, sy, ok := randomSourcePixel(layer, rng, 0)
		if !ok {
			return
		}
		layer.Mapping.Set(x, y, float64(sx), float64(sy))
	})
	return nil
}
